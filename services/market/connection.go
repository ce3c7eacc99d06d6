package market

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/status-im/nft-market/account"
	walletCommon "github.com/status-im/nft-market/services/wallet/common"
)

const (
	noticeConnected       = "Wallet connected!"
	noticeDisconnected    = "Wallet disconnected"
	noticeNetworkSwitched = "Network switched, please connect again."
	alertNoWallet         = "No wallet found!"
)

func (c *Controller) addChainParams() account.AddChainParams {
	return account.AddChainParams{
		ChainID:   walletCommon.ChainID(c.chain.ChainID).Hex(),
		ChainName: c.chain.ChainName,
		NativeCurrency: account.NativeCurrency{
			Name:     c.chain.NativeCurrencyName,
			Symbol:   c.chain.NativeCurrencySymbol,
			Decimals: c.chain.NativeCurrencyDecimals,
		},
		RPCURLs:           c.chain.RPCURLs,
		BlockExplorerURLs: c.chain.BlockExplorerURLs,
	}
}

// Connect requests an account from the wallet, makes sure it is on the
// marketplace network and, if so, opens a session and loads the first
// batch. When the wallet had to switch networks no session is opened and
// ErrReconnectRequired is returned.
func (c *Controller) Connect(ctx context.Context) (err error) {
	defer func() {
		switch {
		case err == nil:
			connectionsCounter.WithLabelValues(resultSuccess).Inc()
		case errors.Is(err, ErrReconnectRequired):
			connectionsCounter.WithLabelValues(resultRejected).Inc()
		default:
			connectionsCounter.WithLabelValues(resultFailed).Inc()
		}
	}()

	if c.provider == nil {
		c.notifier.Alert(alertNoWallet)
		return ErrNoWallet
	}

	session, err := c.openSession(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.state.Session = session
	c.view.SetAccount(walletCommon.ShortAddress(session.Address))
	c.mu.Unlock()

	c.logger.Info("wallet connected", zap.Stringer("account", session.Address))
	c.notifier.Notify(noticeConnected)

	if err := c.LoadMore(ctx); err != nil {
		c.logger.Warn("initial load failed", zap.Error(err))
	}
	return nil
}

func (c *Controller) openSession(ctx context.Context) (*Session, error) {
	fail := func(err error) (*Session, error) {
		c.logger.Error("wallet connect failed", zap.Error(err))
		c.notifier.Alert("Wallet connect error: " + ErrorReason(err))
		return nil, err
	}

	accounts, err := c.provider.RequestAccounts(ctx)
	if err != nil {
		return fail(err)
	}
	if len(accounts) == 0 {
		return fail(account.ErrNoAccountsAvailable)
	}
	address := accounts[0]

	chainID, err := c.provider.ChainID(ctx)
	if err != nil {
		return fail(err)
	}
	if !chainID.IsUint64() || chainID.Uint64() != c.chain.ChainID {
		c.logger.Info("wallet on another network, switching",
			zap.Stringer("current", chainID), zap.Uint64("wanted", c.chain.ChainID))
		if err := c.provider.AddEthereumChain(ctx, c.addChainParams()); err != nil {
			c.logger.Error("network switch failed", zap.Error(err))
			return fail(fmt.Errorf("%w: %v", ErrWrongNetwork, err))
		}
		c.notifier.Notify(noticeNetworkSwitched)
		return nil, ErrReconnectRequired
	}

	signer, err := c.provider.Signer(ctx, address)
	if err != nil {
		return fail(err)
	}
	chain := c.provider.Backend()
	orders, err := c.newOrders(signer, chain)
	if err != nil {
		return fail(err)
	}
	nft, err := c.newNFT(chain)
	if err != nil {
		return fail(err)
	}

	return &Session{
		Address: address,
		Signer:  signer,
		Orders:  orders,
		NFT:     nft,
		Chain:   chain,
	}, nil
}

// Disconnect drops the session, cancels pending reloads and clears the feed.
func (c *Controller) Disconnect() {
	c.mu.Lock()
	c.state.Session = nil
	c.state.reset()
	c.reloadCancel()
	c.reloadCtx, c.reloadCancel = context.WithCancel(c.ctx)
	c.view.Clear()
	c.view.SetAccount("")
	c.mu.Unlock()

	c.logger.Info("wallet disconnected")
	c.notifier.NotifyFor(noticeDisconnected, c.config.DisconnectNoticeTimeout())
}

// IsConnected reports whether a session is open.
func (c *Controller) IsConnected() bool {
	return c.session() != nil
}
