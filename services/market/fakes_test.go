package market

import (
	"context"
	"encoding/json"
	"math/big"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"

	"github.com/status-im/nft-market/account"
	"github.com/status-im/nft-market/params"
	"github.com/status-im/nft-market/services/seaport"
	"github.com/status-im/nft-market/services/wallet/bigint"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
	"github.com/status-im/nft-market/services/wallet/walletevent"
)

var (
	testBuyer  = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	testSeller = common.HexToAddress("0x00000000000000000000000000000000000000c1")
	testOther  = common.HexToAddress("0x00000000000000000000000000000000000000d1")
	testHash   = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
)

type fakeSigner struct {
	address common.Address

	mu         sync.Mutex
	transacted int
}

func (s *fakeSigner) Address() common.Address { return s.address }

func (s *fakeSigner) SignHash(hash []byte) ([]byte, error) {
	return make([]byte, 65), nil
}

func (s *fakeSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	s.mu.Lock()
	s.transacted++
	s.mu.Unlock()
	return &bind.TransactOpts{From: s.address, Context: ctx}, nil
}

// fakeChain only answers receipt lookups, everything else panics.
type fakeChain struct {
	account.Backend

	mu       sync.Mutex
	receipts int
	status   uint64
}

func (c *fakeChain) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.receipts++
	return &types.Receipt{Status: c.status, TxHash: hash}, nil
}

type fakeProvider struct {
	mu sync.Mutex

	accounts   []common.Address
	requestErr error
	chainID    *big.Int
	addErr     error
	added      []account.AddChainParams

	signer *fakeSigner
	chain  *fakeChain
}

func newFakeProvider(address common.Address, chainID uint64) *fakeProvider {
	return &fakeProvider{
		accounts: []common.Address{address},
		chainID:  new(big.Int).SetUint64(chainID),
		signer:   &fakeSigner{address: address},
		chain:    &fakeChain{status: types.ReceiptStatusSuccessful},
	}
}

func (p *fakeProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	return p.accounts, p.requestErr
}

func (p *fakeProvider) ChainID(ctx context.Context) (*big.Int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.chainID, nil
}

func (p *fakeProvider) AddEthereumChain(ctx context.Context, params account.AddChainParams) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, params)
	return p.addErr
}

func (p *fakeProvider) Signer(ctx context.Context, address common.Address) (account.Signer, error) {
	return p.signer, nil
}

func (p *fakeProvider) Backend() account.Backend {
	return p.chain
}

type fakeOrders struct {
	mu sync.Mutex

	created    []seaport.CreateOrderInput
	fulfilled  []*seaport.OrderWithCounter
	createErr  error
	fulfillErr error
	executeErr error
	noActions  bool
	executed   int
}

func (o *fakeOrders) CreateOrder(ctx context.Context, input seaport.CreateOrderInput, offerer common.Address) (*seaport.CreateOrderUseCase, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created = append(o.created, input)
	if o.createErr != nil {
		return nil, o.createErr
	}
	if o.noActions {
		return &seaport.CreateOrderUseCase{}, nil
	}
	return &seaport.CreateOrderUseCase{
		ExecuteAllActions: func(ctx context.Context) (*seaport.OrderWithCounter, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.executed++
			if o.executeErr != nil {
				return nil, o.executeErr
			}
			components := seaport.OrderComponents{
				Offerer:   offerer,
				StartTime: bigint.Wrap(input.StartTime),
				EndTime:   bigint.Wrap(input.EndTime),
				Counter:   bigint.NewBigInt(0),
			}
			for _, item := range input.Consideration {
				components.Consideration = append(components.Consideration, seaport.ConsiderationItem{
					ItemType:    item.ItemType,
					StartAmount: bigint.Wrap(item.Amount),
					EndAmount:   bigint.Wrap(item.Amount),
					Recipient:   item.Recipient,
				})
			}
			return &seaport.OrderWithCounter{Parameters: components, Signature: []byte{0x1b}}, nil
		},
	}, nil
}

func (o *fakeOrders) FulfillOrder(ctx context.Context, order *seaport.OrderWithCounter, fulfiller common.Address) (*seaport.FulfillOrderUseCase, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fulfilled = append(o.fulfilled, order)
	if o.fulfillErr != nil {
		return nil, o.fulfillErr
	}
	if o.noActions {
		return &seaport.FulfillOrderUseCase{}, nil
	}
	return &seaport.FulfillOrderUseCase{
		ExecuteAllActions: func(ctx context.Context) (*seaport.Transaction, error) {
			o.mu.Lock()
			defer o.mu.Unlock()
			o.executed++
			return nil, o.executeErr
		},
	}, nil
}

func (o *fakeOrders) GetOrderHash(components seaport.OrderComponents) (common.Hash, error) {
	return testHash, nil
}

type fakeNFT struct {
	mu sync.Mutex

	owner     common.Address
	ownerErr  error
	approved  bool
	ownerOf   []*big.Int
	approvals int
}

func (n *fakeNFT) OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ownerOf = append(n.ownerOf, tokenId)
	return n.owner, n.ownerErr
}

func (n *fakeNFT) IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.approved, nil
}

func (n *fakeNFT) SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.approvals++
	n.approved = approved
	return types.NewTx(&types.LegacyTx{Nonce: uint64(n.approvals)}), nil
}

type fakeMarketBackend struct {
	mu sync.Mutex

	entries  []marketapi.CatalogEntry
	fetchErr error
	fetches  int
	// gate, when set, holds every fetch until it is closed or receives.
	gate    chan struct{}
	started chan struct{}

	buys     []marketapi.BuyRequest
	buyErr   error
	orders   []marketapi.OrderRequest
	orderErr error
}

func (b *fakeMarketBackend) FetchNFTs(ctx context.Context) ([]marketapi.CatalogEntry, error) {
	b.mu.Lock()
	b.fetches++
	entries := append([]marketapi.CatalogEntry(nil), b.entries...)
	err := b.fetchErr
	gate, started := b.gate, b.started
	b.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return entries, err
}

func (b *fakeMarketBackend) NotifyBuy(ctx context.Context, req marketapi.BuyRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buys = append(b.buys, req)
	return b.buyErr
}

func (b *fakeMarketBackend) PostOrder(ctx context.Context, req marketapi.OrderRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = append(b.orders, req)
	return b.orderErr
}

func (b *fakeMarketBackend) fetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fetches
}

type fakeCard struct {
	mu      sync.Mutex
	price   string
	cleared bool
}

func (c *fakeCard) SetPrice(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.price = text
}

func (c *fakeCard) ClearPriceInput() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleared = true
}

type fakeView struct {
	mu      sync.Mutex
	cards   []Card
	empties []string
	clears  int
	account string
}

func (v *fakeView) AddCard(card Card) CardHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = append(v.cards, card)
	return &fakeCard{}
}

func (v *fakeView) ShowEmpty(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.empties = append(v.empties, message)
}

func (v *fakeView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.cards = nil
	v.clears++
}

func (v *fakeView) SetAccount(short string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.account = short
}

func (v *fakeView) cardCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.cards)
}

// harness wires a controller to fakes. Reload delays are short so trade
// tests can observe the reload.
type harness struct {
	t        *testing.T
	config   *params.Config
	provider *fakeProvider
	backend  *fakeMarketBackend
	view     *fakeView
	orders   *fakeOrders
	nft      *fakeNFT
	events   chan walletevent.Event
	sub      event.Subscription
	c        *Controller
}

func newHarness(t *testing.T, address common.Address, entries []marketapi.CatalogEntry) *harness {
	config := params.NewDefaultConfig()
	config.Market.BuyReloadDelayMs = 20
	config.Market.ListReloadDelayMs = 20

	h := &harness{
		t:        t,
		config:   config,
		provider: newFakeProvider(address, config.Chain.ChainID),
		backend:  &fakeMarketBackend{entries: entries},
		view:     &fakeView{},
		orders:   &fakeOrders{},
		nft:      &fakeNFT{owner: address, approved: true},
		events:   make(chan walletevent.Event, 256),
	}
	return h
}

func (h *harness) start(opts ...Option) *Controller {
	notifier := NewNotifier(nil, time.Minute)
	h.sub = notifier.Subscribe(h.events)

	base := []Option{
		WithNotifier(notifier),
		WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		WithOrderProtocolFactory(func(signer account.Signer, chain account.Backend) (OrderProtocol, error) {
			return h.orders, nil
		}),
		WithNFTContractFactory(func(chain account.Backend) (NFTContract, error) {
			return h.nft, nil
		}),
	}
	var provider account.Provider
	if h.provider != nil {
		provider = h.provider
	}
	c, err := New(h.config, provider, h.backend, h.view, append(base, opts...)...)
	require.NoError(h.t, err)
	h.c = c
	h.t.Cleanup(func() {
		c.Close()
		h.sub.Unsubscribe()
	})
	return c
}

func (h *harness) connect() {
	require.NoError(h.t, h.c.Connect(context.Background()))
	h.drain()
}

// drain returns all events published so far.
func (h *harness) drain() []walletevent.Event {
	var out []walletevent.Event
	for {
		select {
		case ev := <-h.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func messages(events []walletevent.Event, typ walletevent.EventType) []string {
	var out []string
	for _, ev := range events {
		if ev.Type == typ {
			out = append(out, ev.Message)
		}
	}
	return out
}

func makeEntries(n int) []marketapi.CatalogEntry {
	entries := make([]marketapi.CatalogEntry, n)
	for i := range entries {
		entries[i] = marketapi.CatalogEntry{
			TokenID: marketapi.TokenID(strconv.Itoa(i + 1)),
			Name:    "Ape #" + strconv.Itoa(i+1),
			Price:   "1.5",
		}
	}
	return entries
}

func listedEntry(t *testing.T, tokenID string, seller common.Address) marketapi.CatalogEntry {
	order := seaport.OrderWithCounter{
		Parameters: seaport.OrderComponents{
			Offerer: seller,
			Offer: []seaport.OfferItem{{
				ItemType:             seaport.ItemTypeERC721,
				Token:                common.HexToAddress(params.DefaultNFTContract),
				IdentifierOrCriteria: bigint.NewBigInt(7),
				StartAmount:          bigint.NewBigInt(1),
				EndAmount:            bigint.NewBigInt(1),
			}},
			StartTime: bigint.NewBigInt(1),
			EndTime:   bigint.NewBigInt(2000000000),
			Counter:   bigint.NewBigInt(0),
		},
		Signature: []byte{0x01, 0x1b},
	}
	raw, err := json.Marshal(order)
	require.NoError(t, err)
	return marketapi.CatalogEntry{
		TokenID:      marketapi.TokenID(tokenID),
		Price:        "2.5",
		SeaportOrder: raw,
		OrderHash:    testHash.Hex(),
	}
}
