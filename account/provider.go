package account

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/status-im/nft-market/logutils"
)

// errors
var (
	ErrNoAccountsAvailable            = errors.New("no accounts available")
	ErrInvalidAccountAddress          = errors.New("invalid account address")
	ErrAddressToAccountMappingFailure = errors.New("cannot retrieve a valid account for a given address")
	ErrAccountLocked                  = errors.New("account could not be unlocked")
	ErrUnsupportedNetwork             = errors.New("no rpc endpoint serves the requested network")
	ErrNotConnected                   = errors.New("wallet is not connected to a network")
)

// Backend is everything the marketplace needs from a chain connection.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	ChainID(ctx context.Context) (*big.Int, error)
}

// NativeCurrency of a network offered with AddEthereumChain.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

// AddChainParams mirrors the wallet_addEthereumChain request.
type AddChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	RPCURLs           []string       `json:"rpcUrls"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls"`
}

// ParseChainID accepts both 0x prefixed hex and decimal ids.
func (p AddChainParams) ParseChainID() (uint64, error) {
	return strconv.ParseUint(strings.ToLower(p.ChainID), 0, 64)
}

// Provider is a wallet able to hand out accounts, report and switch its
// network, and sign for the accounts it owns.
type Provider interface {
	RequestAccounts(ctx context.Context) ([]common.Address, error)
	ChainID(ctx context.Context) (*big.Int, error)
	AddEthereumChain(ctx context.Context, params AddChainParams) error
	Signer(ctx context.Context, address common.Address) (Signer, error)
	Backend() Backend
}

type DialFunc func(ctx context.Context, rawurl string) (Backend, error)

func dialEthClient(ctx context.Context, rawurl string) (Backend, error) {
	client, err := ethclient.DialContext(ctx, rawurl)
	if err != nil {
		return nil, err
	}
	return client, nil
}

type KeystoreProviderConfig struct {
	KeyStore *keystore.KeyStore
	RPCURL   string
	// Account restricts RequestAccounts to one address. Empty exposes all keys.
	Account  string
	Password string
	// Dial defaults to ethclient.DialContext.
	Dial DialFunc
}

// KeystoreProvider is a Provider backed by a go-ethereum keystore and an
// RPC endpoint.
type KeystoreProvider struct {
	keyStore *keystore.KeyStore
	account  string
	password string
	dial     DialFunc

	mu      sync.Mutex
	rpcURL  string
	backend Backend

	logger *zap.Logger
}

func NewKeystoreProvider(config KeystoreProviderConfig) (*KeystoreProvider, error) {
	if config.KeyStore == nil {
		return nil, errors.New("keystore is required")
	}
	if config.Account != "" {
		if _, err := ParseAccountString(config.Account); err != nil {
			return nil, err
		}
	}
	dial := config.Dial
	if dial == nil {
		dial = dialEthClient
	}
	return &KeystoreProvider{
		keyStore: config.KeyStore,
		account:  config.Account,
		password: config.Password,
		dial:     dial,
		rpcURL:   config.RPCURL,
		logger:   logutils.ZapLogger().Named("KeystoreProvider"),
	}, nil
}

func (p *KeystoreProvider) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.account != "" {
		parsed, err := ParseAccountString(p.account)
		if err != nil {
			return nil, err
		}
		account, err := findAccount(p.keyStore, parsed.Address)
		if err != nil {
			return nil, err
		}
		return []common.Address{account.Address}, nil
	}

	wallets := p.keyStore.Accounts()
	if len(wallets) == 0 {
		return nil, ErrNoAccountsAvailable
	}
	addresses := make([]common.Address, len(wallets))
	for i, a := range wallets {
		addresses[i] = a.Address
	}
	return addresses, nil
}

func (p *KeystoreProvider) connect(ctx context.Context) (Backend, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.backend != nil {
		return p.backend, nil
	}
	if p.rpcURL == "" {
		return nil, ErrNotConnected
	}
	backend, err := p.dial(ctx, p.rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", p.rpcURL, err)
	}
	p.backend = backend
	return backend, nil
}

func (p *KeystoreProvider) ChainID(ctx context.Context) (*big.Int, error) {
	backend, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	return backend.ChainID(ctx)
}

// AddEthereumChain moves the provider to the first of params.RPCURLs that
// reports the requested chain id.
func (p *KeystoreProvider) AddEthereumChain(ctx context.Context, params AddChainParams) error {
	want, err := params.ParseChainID()
	if err != nil {
		return fmt.Errorf("invalid chain id %q: %w", params.ChainID, err)
	}

	for _, rpcURL := range params.RPCURLs {
		backend, err := p.dial(ctx, rpcURL)
		if err != nil {
			p.logger.Warn("rpc endpoint unreachable", zap.String("url", rpcURL), zap.Error(err))
			continue
		}
		got, err := backend.ChainID(ctx)
		if err != nil || !got.IsUint64() || got.Uint64() != want {
			p.logger.Warn("rpc endpoint serves another network",
				zap.String("url", rpcURL), zap.Stringer("chainID", got), zap.Error(err))
			closeBackend(backend)
			continue
		}

		p.mu.Lock()
		old := p.backend
		p.backend = backend
		p.rpcURL = rpcURL
		p.mu.Unlock()
		if old != nil {
			closeBackend(old)
		}
		p.logger.Info("switched network", zap.String("chain", params.ChainName), zap.Uint64("chainID", want))
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedNetwork, params.ChainID)
}

// Signer unlocks address with the configured password.
func (p *KeystoreProvider) Signer(ctx context.Context, address common.Address) (Signer, error) {
	account, err := findAccount(p.keyStore, address)
	if err != nil {
		return nil, err
	}
	chainID, err := p.ChainID(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.keyStore.Unlock(account, p.password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAccountLocked, err)
	}
	return &keystoreSigner{keyStore: p.keyStore, account: account, chainID: chainID}, nil
}

// Backend returns the current chain connection, nil before the first
// ChainID call.
func (p *KeystoreProvider) Backend() Backend {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.backend
}

func (p *KeystoreProvider) Close() {
	p.mu.Lock()
	backend := p.backend
	p.backend = nil
	p.mu.Unlock()
	if backend != nil {
		closeBackend(backend)
	}
}

func closeBackend(backend Backend) {
	if c, ok := backend.(interface{ Close() }); ok {
		c.Close()
	}
}
