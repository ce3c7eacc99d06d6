package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/urfave/cli/v2"

	"github.com/status-im/nft-market/timesource"
)

const (
	ConfigFlag       = "config"
	BackendURLFlag   = "backend-url"
	RPCURLFlag       = "rpc-url"
	KeyStoreFlag     = "keystore"
	AccountFlag      = "account"
	PasswordFileFlag = "password-file"
	LogLevelFlag     = "log-level"
	LogFileFlag      = "log-file"
	MetricsPortFlag  = "metrics-port"
	LightFlag        = "light"
	NTPFlag          = "ntp"
)

var logger = zap.NewNop().Sugar()

func main() {
	app := &cli.App{
		Name:  "nftmarket",
		Usage: "Browse, buy and list NFTs on the ApeChain marketplace",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    ConfigFlag,
				Aliases: []string{"c"},
				Usage:   "JSON config file, may be repeated, later files win",
			},
			&cli.StringFlag{
				Name:  BackendURLFlag,
				Usage: "Marketplace backend base URL",
			},
			&cli.StringFlag{
				Name:  RPCURLFlag,
				Usage: "Chain RPC endpoint",
			},
			&cli.StringFlag{
				Name:  KeyStoreFlag,
				Usage: "Keystore directory of the wallet",
			},
			&cli.StringFlag{
				Name:  AccountFlag,
				Usage: "Account address to use, the first keystore account by default",
			},
			&cli.StringFlag{
				Name:  PasswordFileFlag,
				Usage: "File holding the account password",
			},
			&cli.StringFlag{
				Name:  LogLevelFlag,
				Usage: "Log level: debug, info, warn, error",
			},
			&cli.StringFlag{
				Name:  LogFileFlag,
				Usage: "Write logs to this file instead of stderr",
			},
			&cli.StringFlag{
				Name:  NTPFlag,
				Usage: "Time order validity windows with this NTP server instead of the local clock, e.g. " + timesource.DefaultServer,
			},
			&cli.IntFlag{
				Name:  MetricsPortFlag,
				Usage: "Serve prometheus metrics on this port",
			},
		},
		Before: func(cCtx *cli.Context) error {
			config, err := loadConfig(cCtx)
			if err != nil {
				return err
			}
			if err := setupLogger(config); err != nil {
				return err
			}
			cCtx.App.Metadata[configKey] = config
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:    "browse",
				Aliases: []string{"b"},
				Usage:   "Connect the wallet and browse the catalog interactively",
				Action:  browseAction,
			},
			{
				Name:      "buy",
				Usage:     "Buy a listed NFT",
				ArgsUsage: "<tokenid>",
				Action:    buyAction,
			},
			{
				Name:      "list",
				Usage:     "List an owned NFT for sale",
				ArgsUsage: "<tokenid> <price>",
				Action:    listAction,
			},
			{
				Name:      "owner",
				Usage:     "Print the owner of a token",
				ArgsUsage: "<tokenid>",
				Action:    ownerAction,
			},
			{
				Name:  "account",
				Usage: "Manage keystore accounts",
				Subcommands: []*cli.Command{
					{
						Name:  "new",
						Usage: "Create a new account in the keystore",
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  LightFlag,
								Usage: "Use the light scrypt parameters, for test keys only",
							},
						},
						Action: newAccountAction,
					},
				},
			},
		},
	}
	app.Metadata = map[string]interface{}{}

	if err := app.Run(os.Args); err != nil {
		logger.Error(err)
		os.Stderr.WriteString(err.Error() + "\n") // nolint: errcheck
		os.Exit(1)
	}
}
