package market

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/status-im/nft-market/account"
	gocommon "github.com/status-im/nft-market/common"
	"github.com/status-im/nft-market/contracts/erc721"
	"github.com/status-im/nft-market/logutils"
	"github.com/status-im/nft-market/params"
	"github.com/status-im/nft-market/services/seaport"
	"github.com/status-im/nft-market/services/wallet/connection"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

// OrderProtocol creates, hashes and fulfills marketplace orders.
type OrderProtocol interface {
	CreateOrder(ctx context.Context, input seaport.CreateOrderInput, offerer common.Address) (*seaport.CreateOrderUseCase, error)
	FulfillOrder(ctx context.Context, order *seaport.OrderWithCounter, fulfiller common.Address) (*seaport.FulfillOrderUseCase, error)
	GetOrderHash(components seaport.OrderComponents) (common.Hash, error)
}

// NFTContract is the part of the collection contract listing relies on.
type NFTContract interface {
	OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error)
	SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error)
}

// Backend is the marketplace REST service.
type Backend interface {
	FetchNFTs(ctx context.Context) ([]marketapi.CatalogEntry, error)
	NotifyBuy(ctx context.Context, req marketapi.BuyRequest) error
	PostOrder(ctx context.Context, req marketapi.OrderRequest) error
}

type OrderProtocolFactory func(signer account.Signer, chain account.Backend) (OrderProtocol, error)

type NFTContractFactory func(chain account.Backend) (NFTContract, error)

type Option func(*Controller)

func WithOrderProtocolFactory(f OrderProtocolFactory) Option {
	return func(c *Controller) { c.newOrders = f }
}

func WithNFTContractFactory(f NFTContractFactory) Option {
	return func(c *Controller) { c.newNFT = f }
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithNotifier(n *Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// Controller owns the application state and runs the connect, feed and
// trade flows against it. It is safe for concurrent use.
type Controller struct {
	chain  params.ChainConfig
	config params.MarketConfig

	provider account.Provider
	backend  Backend
	view     View
	notifier *Notifier
	links    *LinkResolver

	newOrders OrderProtocolFactory
	newNFT    NFTContractFactory
	now       func() time.Time

	mu    sync.Mutex
	state State

	ctx          context.Context
	cancel       context.CancelFunc
	reloadCtx    context.Context
	reloadCancel context.CancelFunc
	wg           sync.WaitGroup

	logger *zap.Logger
}

// New builds a controller. provider may be nil, Connect then fails with
// ErrNoWallet.
func New(config *params.Config, provider account.Provider, backend Backend, view View, opts ...Option) (*Controller, error) {
	if config == nil {
		return nil, errors.New("config is required")
	}
	if backend == nil {
		return nil, errors.New("backend is required")
	}
	if gocommon.IsNil(provider) {
		provider = nil
	}
	if view == nil {
		view = nopView{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		chain:    config.Chain,
		config:   config.Market,
		provider: provider,
		backend:  backend,
		view:     view,
		links:    NewLinkResolver(config.Market.IPFSGateway, config.Market.PlaceholderImage),
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		logger:   logutils.ZapLogger().Named("Market"),
	}
	c.reloadCtx, c.reloadCancel = context.WithCancel(ctx)
	c.newOrders = c.defaultOrderProtocol
	c.newNFT = c.defaultNFTContract

	for _, opt := range opts {
		opt(c)
	}
	if c.notifier == nil {
		c.notifier = NewNotifier(nil, config.Market.NoticeTimeout())
	}

	if tracked, ok := backend.(interface {
		SetStatusChangeCb(connection.StateChangeCb)
	}); ok {
		tracked.SetStatusChangeCb(c.onBackendStatus)
	}
	return c, nil
}

func (c *Controller) defaultOrderProtocol(signer account.Signer, chain account.Backend) (OrderProtocol, error) {
	orders, err := seaport.New(signer, chain, seaport.Options{
		ContractAddress: c.config.MarketplaceContractAddress(),
		ChainID:         new(big.Int).SetUint64(c.chain.ChainID),
	})
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Controller) defaultNFTContract(chain account.Backend) (NFTContract, error) {
	nft, err := erc721.NewERC721(c.config.NFTContractAddress(), chain)
	if err != nil {
		return nil, err
	}
	return nft, nil
}

func (c *Controller) onBackendStatus(state connection.State) {
	up := state.Value == connection.StateValueConnected
	if up {
		backendUpGauge.Set(1)
	} else {
		backendUpGauge.Set(0)
	}
	c.logger.Info("backend status changed", zap.Bool("up", up))
}

func (c *Controller) Notifier() *Notifier {
	return c.notifier
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Catalog = append([]marketapi.CatalogEntry(nil), c.state.Catalog...)
	return s
}

func (c *Controller) session() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Session
}

// Close cancels pending reloads and waits for them to return.
func (c *Controller) Close() {
	c.cancel()
	c.wg.Wait()
}
