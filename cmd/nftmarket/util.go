package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
	"github.com/urfave/cli/v2"

	"github.com/status-im/nft-market/account"
	"github.com/status-im/nft-market/circuitbreaker"
	"github.com/status-im/nft-market/common"
	"github.com/status-im/nft-market/logutils"
	"github.com/status-im/nft-market/metrics"
	"github.com/status-im/nft-market/params"
	"github.com/status-im/nft-market/services/market"
	"github.com/status-im/nft-market/services/wallet/thirdparty"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
	"github.com/status-im/nft-market/services/wallet/walletevent"
	"github.com/status-im/nft-market/timesource"
)

const configKey = "config"

func loadConfig(cCtx *cli.Context) (*params.Config, error) {
	config, err := params.LoadConfig(os.LookupEnv, cCtx.StringSlice(ConfigFlag)...)
	if err != nil {
		return nil, err
	}

	if v := cCtx.String(BackendURLFlag); v != "" {
		config.Market.BackendURL = strings.TrimRight(v, "/")
	}
	if v := cCtx.String(RPCURLFlag); v != "" {
		config.Chain.RPCURLs = []string{v}
	}
	if v := cCtx.String(KeyStoreFlag); v != "" {
		config.Wallet.KeyStoreDir = v
	}
	if v := cCtx.String(AccountFlag); v != "" {
		config.Wallet.Account = v
	}
	if v := cCtx.String(PasswordFileFlag); v != "" {
		config.Wallet.PasswordFile = v
	}
	if v := cCtx.String(LogLevelFlag); v != "" {
		config.LogSettings.Level = v
	}
	if v := cCtx.String(LogFileFlag); v != "" {
		config.LogSettings.File = v
	}
	if cCtx.IsSet(MetricsPortFlag) {
		config.MetricsPort = cCtx.Int(MetricsPortFlag)
	}

	// flags may have broken what the files and environment got right
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func configFrom(cCtx *cli.Context) *params.Config {
	return cCtx.App.Metadata[configKey].(*params.Config)
}

func setupLogger(config *params.Config) error {
	settings := config.LogSettings
	if settings.File == "" {
		settings.Console = true
	}
	if err := logutils.OverrideRootLogWithConfig(settings); err != nil {
		return fmt.Errorf("error initializing logger: %w", err)
	}
	logger = logutils.ZapLogger().Named("CLI").Sugar()
	return nil
}

// newProvider returns nil when no keystore is configured, the controller
// then reports that no wallet is available.
func newProvider(config *params.Config) (*account.KeystoreProvider, error) {
	if config.Wallet.KeyStoreDir == "" {
		return nil, nil
	}
	ks, err := account.OpenKeyStore(config.Wallet.KeyStoreDir, false)
	if err != nil {
		return nil, err
	}
	password, err := config.Wallet.ReadPassword()
	if err != nil {
		return nil, err
	}
	return account.NewKeystoreProvider(account.KeystoreProviderConfig{
		KeyStore: ks,
		RPCURL:   config.Chain.RPCURLs[0],
		Account:  config.Wallet.Account,
		Password: password,
	})
}

func newCircuitBreaker(config *params.Config) *circuitbreaker.CircuitBreaker {
	// the http client enforces the request timeout, hystrix only backs it up
	timeout := int((config.Market.BackendTimeout() + time.Second) / time.Millisecond)
	if config.Market.BackendTimeoutMs == 0 {
		timeout = int(10 * time.Minute / time.Millisecond)
	}
	return circuitbreaker.NewCircuitBreaker(circuitbreaker.Config{
		Timeout:                timeout,
		MaxConcurrentRequests:  10,
		RequestVolumeThreshold: 5,
		SleepWindow:            30000,
		ErrorPercentThreshold:  50,
	})
}

// app is everything a command needs to talk to the marketplace.
type app struct {
	config     *params.Config
	provider   *account.KeystoreProvider
	view       *terminalView
	controller *market.Controller
	metrics    *metrics.Server
	clock      *timesource.NTPTimeSource
	stopEvents func()
}

func newApp(config *params.Config, ntpServer string, out io.Writer) (*app, error) {
	provider, err := newProvider(config)
	if err != nil {
		return nil, err
	}

	backend := marketapi.NewClient(config.Market.BackendURL, thirdparty.NewHTTPClientWithTimeout(config.Market.BackendTimeout()))
	backend.SetCircuitBreaker(newCircuitBreaker(config))
	view := newTerminalView(out)

	var wallet account.Provider
	if provider != nil {
		wallet = provider
	}

	var (
		opts  []market.Option
		clock *timesource.NTPTimeSource
	)
	if ntpServer != "" {
		clock = timesource.New(ntpServer)
		if err := clock.Start(); err != nil {
			logger.Warnw("using local clock until the ntp server answers", "error", err)
		}
		opts = append(opts, market.WithClock(clock.Now))
	}

	controller, err := market.New(config, wallet, backend, view, opts...)
	if err != nil {
		if clock != nil {
			clock.Stop()
		}
		return nil, err
	}

	a := &app{
		config:     config,
		provider:   provider,
		view:       view,
		controller: controller,
		clock:      clock,
		stopEvents: printEvents(controller.Notifier(), out),
	}
	if config.MetricsPort > 0 {
		a.metrics = metrics.NewMetricsServer(config.MetricsPort, gethmetrics.DefaultRegistry)
		go a.metrics.Listen()
	}
	return a, nil
}

func (a *app) close() {
	a.controller.Close()
	a.stopEvents()
	if a.clock != nil {
		a.clock.Stop()
	}
	if a.provider != nil {
		a.provider.Close()
	}
	if a.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.metrics.Stop(ctx); err != nil {
			logger.Warnw("failed to stop metrics server", "error", err)
		}
	}
}

// printEvents writes notices and alerts to out until the returned func is
// called.
func printEvents(notifier *market.Notifier, out io.Writer) func() {
	ch := make(chan walletevent.Event, 32)
	sub := notifier.Subscribe(ch)
	done := make(chan struct{})

	go func() {
		defer common.LogOnPanic()
		defer close(done)
		for {
			select {
			case ev := <-ch:
				switch ev.Type {
				case market.EventNotice:
					fmt.Fprintf(out, "» %s\n", ev.Message)
				case market.EventAlert:
					fmt.Fprintf(out, "!! %s\n", ev.Message)
				}
			case err := <-sub.Err():
				if err != nil {
					logger.Desugar().Error("event subscription failed", zap.Error(err))
				}
				return
			}
		}
	}()

	return func() {
		sub.Unsubscribe()
		<-done
	}
}

func requireArgs(cCtx *cli.Context, n int) error {
	if cCtx.NArg() < n {
		return fmt.Errorf("expected %d argument(s): %s", n, cCtx.Command.ArgsUsage)
	}
	return nil
}

// connect opens a session, retrying once when the wallet had to move to
// the marketplace network first.
func (a *app) connect(ctx context.Context) error {
	err := a.controller.Connect(ctx)
	if errors.Is(err, market.ErrReconnectRequired) {
		err = a.controller.Connect(ctx)
	}
	return err
}
