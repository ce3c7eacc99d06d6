package market

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

const emptyCatalogMessage = "No NFTs on this page yet."

// LoadMore reveals the next batch of the catalog, fetching the catalog
// first when it is empty. Calls made while another one is running return
// immediately, as do calls past the end of a non empty catalog.
func (c *Controller) LoadMore(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Loading {
		c.mu.Unlock()
		return nil
	}
	c.state.Loading = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.state.Loading = false
		c.mu.Unlock()
	}()

	for {
		c.mu.Lock()
		generation := c.state.generation
		needFetch := len(c.state.Catalog) == 0
		c.mu.Unlock()

		var fetched []marketapi.CatalogEntry
		if needFetch {
			var err error
			fetched, err = c.backend.FetchNFTs(ctx)
			if err != nil {
				feedFetchCounter.WithLabelValues(resultFailed).Inc()
				c.logger.Error("failed to load NFTs", zap.Error(err))
				return fmt.Errorf("failed to load NFTs: %w", err)
			}
			feedFetchCounter.WithLabelValues(resultSuccess).Inc()
		}

		c.mu.Lock()
		if c.state.generation != generation {
			// invalidated while fetching, start over against the new generation
			c.mu.Unlock()
			continue
		}
		if needFetch {
			c.state.Catalog = fetched
		}
		c.revealLocked()
		c.mu.Unlock()
		return nil
	}
}

func (c *Controller) revealLocked() {
	total := len(c.state.Catalog)
	if c.state.Cursor >= total {
		if c.state.Cursor == 0 && !c.state.EmptyShown {
			c.state.EmptyShown = true
			c.view.ShowEmpty(emptyCatalogMessage)
		}
		return
	}

	end := c.state.Cursor + c.config.BatchSize
	if end > total {
		end = total
	}
	batch := c.state.Catalog[c.state.Cursor:end]
	c.state.Cursor = end

	for _, entry := range batch {
		c.view.AddCard(c.card(entry))
	}
	feedRevealedCounter.Add(float64(len(batch)))
	c.logger.Debug("revealed batch", zap.Int("count", len(batch)), zap.Int("cursor", end), zap.Int("total", total))
}

func (c *Controller) card(entry marketapi.CatalogEntry) Card {
	name := entry.Name
	if name == "" {
		name = "NFT #" + entry.TokenID.String()
	}
	return Card{
		TokenID: entry.TokenID.String(),
		Name:    name,
		Image:   c.links.Resolve(entry.Image),
		Price:   DisplayPrice(entry.Price),
		Entry:   entry,
	}
}

// ShouldLoadMore reports whether the viewport bottom is within the scroll
// threshold of the page end. It is level triggered, callers may ask on
// every scroll event.
func (c *Controller) ShouldLoadMore(viewportBottom, pageHeight float64) bool {
	return viewportBottom >= pageHeight-float64(c.config.ScrollThreshold)
}

// OnScroll loads more when the viewport is close enough to the end.
func (c *Controller) OnScroll(ctx context.Context, viewportBottom, pageHeight float64) error {
	if !c.ShouldLoadMore(viewportBottom, pageHeight) {
		return nil
	}
	return c.LoadMore(ctx)
}

// Invalidate drops the catalog and everything rendered from it.
func (c *Controller) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.reset()
	c.view.Clear()
}
