package market

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

func TestLoadMoreRevealsBatches(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(15))
	c := h.start()
	ctx := context.Background()

	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 12, h.view.cardCount())
	require.Equal(t, 12, c.Snapshot().Cursor)

	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 15, h.view.cardCount())

	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 15, h.view.cardCount())
	require.Equal(t, 1, h.backend.fetchCount())
	require.Empty(t, h.view.empties)

	require.Equal(t, "1", h.view.cards[0].TokenID)
	require.Equal(t, "15", h.view.cards[14].TokenID)
}

func TestLoadMoreEmptyCatalogShowsMessageOnce(t *testing.T) {
	h := newHarness(t, testBuyer, nil)
	c := h.start()
	ctx := context.Background()

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))

	require.Equal(t, []string{emptyCatalogMessage}, h.view.empties)
	require.Zero(t, h.view.cardCount())
	// an empty catalog is fetched again on every call
	require.Equal(t, 3, h.backend.fetchCount())
}

func TestLoadMoreFetchError(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(3))
	h.backend.fetchErr = errors.New("boom")
	c := h.start()

	err := c.LoadMore(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom")
	require.False(t, c.Snapshot().Loading)
	require.Zero(t, h.view.cardCount())
}

func TestLoadMoreInFlightGuard(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(20))
	h.backend.gate = make(chan struct{})
	h.backend.started = make(chan struct{}, 1)
	c := h.start()
	ctx := context.Background()

	done := make(chan error, 1)
	go func() { done <- c.LoadMore(ctx) }()

	select {
	case <-h.backend.started:
	case <-time.After(time.Second):
		t.Fatal("fetch did not start")
	}
	require.True(t, c.Snapshot().Loading)

	require.NoError(t, c.LoadMore(ctx))
	require.NoError(t, c.LoadMore(ctx))
	require.Equal(t, 1, h.backend.fetchCount())

	close(h.backend.gate)
	require.NoError(t, <-done)
	require.Equal(t, 12, h.view.cardCount())
	require.False(t, c.Snapshot().Loading)
}

func TestLoadMoreDiscardsFetchStartedBeforeInvalidate(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(5))
	h.backend.gate = make(chan struct{}, 2)
	h.backend.started = make(chan struct{}, 2)
	c := h.start()

	done := make(chan error, 1)
	go func() { done <- c.LoadMore(context.Background()) }()
	<-h.backend.started

	c.Invalidate()
	h.backend.mu.Lock()
	h.backend.entries = makeEntries(2)
	h.backend.mu.Unlock()

	h.backend.gate <- struct{}{}
	<-h.backend.started
	h.backend.gate <- struct{}{}

	require.NoError(t, <-done)
	require.Equal(t, 2, h.backend.fetchCount())
	require.Equal(t, 2, h.view.cardCount())
	require.Len(t, c.Snapshot().Catalog, 2)
}

func TestShouldLoadMore(t *testing.T) {
	h := newHarness(t, testBuyer, nil)
	c := h.start()

	require.True(t, c.ShouldLoadMore(1700, 2000))
	require.True(t, c.ShouldLoadMore(2000, 2000))
	require.False(t, c.ShouldLoadMore(1699, 2000))
}

func TestOnScroll(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(30))
	c := h.start()
	ctx := context.Background()

	require.NoError(t, c.OnScroll(ctx, 100, 2000))
	require.Zero(t, h.backend.fetchCount())

	require.NoError(t, c.OnScroll(ctx, 1800, 2000))
	require.Equal(t, 12, h.view.cardCount())
}

func TestCardRendering(t *testing.T) {
	h := newHarness(t, testBuyer, []marketapi.CatalogEntry{
		{TokenID: "7", Name: "Bored", Image: "ipfs://QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG/1.png", Price: "2"},
		{TokenID: "8"},
	})
	c := h.start()
	require.NoError(t, c.LoadMore(context.Background()))

	cards := h.view.cards
	require.Len(t, cards, 2)
	require.Equal(t, "Bored", cards[0].Name)
	require.Equal(t, "2 APE", cards[0].Price)
	require.Equal(t, h.config.Market.IPFSGateway+"QmYwAPJzv5CZsnA625s3Xf2nemtYgPpHdWEz79ojWnPbdG/1.png", cards[0].Image)

	require.Equal(t, "NFT #8", cards[1].Name)
	require.Equal(t, noPrice, cards[1].Price)
	require.Equal(t, h.config.Market.PlaceholderImage, cards[1].Image)
}

func TestInvalidateClearsFeed(t *testing.T) {
	h := newHarness(t, testBuyer, makeEntries(4))
	c := h.start()
	require.NoError(t, c.LoadMore(context.Background()))

	c.Invalidate()

	s := c.Snapshot()
	require.Empty(t, s.Catalog)
	require.Zero(t, s.Cursor)
	require.False(t, s.EmptyShown)
	require.Zero(t, h.view.cardCount())
}
