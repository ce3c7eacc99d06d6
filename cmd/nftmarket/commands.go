package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/urfave/cli/v2"

	"github.com/status-im/nft-market/account"
	"github.com/status-im/nft-market/contracts/erc721"
	"github.com/status-im/nft-market/services/market"
	walletCommon "github.com/status-im/nft-market/services/wallet/common"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

// cardHeight turns printed cards into the pixel page height the feed's
// scroll threshold is expressed in.
const cardHeight = 100

var errUnknownToken = errors.New("token is not in the catalog")

const browseHelp = `commands:
  more                  show the next cards
  buy <tokenid>         buy a listed NFT
  list <tokenid> <ape>  list an owned NFT
  connect | disconnect
  help | quit`

func findEntry(c *market.Controller, tokenID string) (marketapi.CatalogEntry, error) {
	for _, entry := range c.Snapshot().Catalog {
		if entry.TokenID.String() == tokenID {
			return entry, nil
		}
	}
	return marketapi.CatalogEntry{}, fmt.Errorf("%w: %s", errUnknownToken, tokenID)
}

func browseAction(cCtx *cli.Context) error {
	a, err := newApp(configFrom(cCtx), cCtx.String(NTPFlag), os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cCtx.Context
	if err := a.connect(ctx); err != nil {
		logger.Warnw("not connected", "error", err)
	}
	fmt.Println(browseHelp)
	return a.browse(ctx, os.Stdin, os.Stdout)
}

// browse reads commands from in until quit or EOF. Failed commands are
// reported by the notifier, the loop keeps going.
func (a *app) browse(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "more", "m":
			page := float64(a.view.Shown() * cardHeight)
			err = a.controller.OnScroll(ctx, page, page)
		case "buy":
			if len(fields) < 2 {
				fmt.Fprintln(out, "usage: buy <tokenid>")
				continue
			}
			var entry marketapi.CatalogEntry
			if entry, err = findEntry(a.controller, fields[1]); err == nil {
				err = a.controller.Buy(ctx, entry)
			}
		case "list":
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: list <tokenid> <price>")
				continue
			}
			err = a.controller.ListWithPrice(ctx, fields[1], fields[2], a.view.Card(fields[1]))
		case "connect":
			err = a.connect(ctx)
		case "disconnect":
			a.controller.Disconnect()
		case "help", "?":
			fmt.Fprintln(out, browseHelp)
		case "quit", "exit", "q":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q\n", fields[0])
		}
		if err != nil {
			logger.Debugw("command failed", "command", fields[0], "error", err)
			if errors.Is(err, errUnknownToken) {
				fmt.Fprintln(out, err)
			}
		}
	}
}

func buyAction(cCtx *cli.Context) error {
	if err := requireArgs(cCtx, 1); err != nil {
		return err
	}
	a, err := newApp(configFrom(cCtx), cCtx.String(NTPFlag), os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cCtx.Context
	if err := a.connect(ctx); err != nil {
		return err
	}
	entry, err := findEntry(a.controller, cCtx.Args().Get(0))
	if err != nil {
		return err
	}
	return a.controller.Buy(ctx, entry)
}

func listAction(cCtx *cli.Context) error {
	if err := requireArgs(cCtx, 2); err != nil {
		return err
	}
	a, err := newApp(configFrom(cCtx), cCtx.String(NTPFlag), os.Stdout)
	if err != nil {
		return err
	}
	defer a.close()

	ctx := cCtx.Context
	if err := a.connect(ctx); err != nil {
		return err
	}
	tokenID := cCtx.Args().Get(0)
	return a.controller.ListWithPrice(ctx, tokenID, cCtx.Args().Get(1), a.view.Card(tokenID))
}

func ownerAction(cCtx *cli.Context) error {
	if err := requireArgs(cCtx, 1); err != nil {
		return err
	}
	config := configFrom(cCtx)
	tokenID, err := walletCommon.GetTokenIdFromSymbol(cCtx.Args().Get(0))
	if err != nil {
		return err
	}

	client, err := ethclient.DialContext(cCtx.Context, config.Chain.RPCURLs[0])
	if err != nil {
		return err
	}
	defer client.Close()

	nft, err := erc721.NewERC721Caller(config.Market.NFTContractAddress(), client)
	if err != nil {
		return err
	}
	owner, err := nft.OwnerOf(&bind.CallOpts{Context: cCtx.Context}, tokenID)
	if err != nil {
		return errors.New(market.ErrorReason(err))
	}
	fmt.Println(owner.Hex())
	return nil
}

func newAccountAction(cCtx *cli.Context) error {
	config := configFrom(cCtx)
	if config.Wallet.KeyStoreDir == "" {
		return fmt.Errorf("--%s is required", KeyStoreFlag)
	}
	password, err := config.Wallet.ReadPassword()
	if err != nil {
		return err
	}
	if password == "" {
		return fmt.Errorf("a password is required, set --%s", PasswordFileFlag)
	}

	ks, err := account.OpenKeyStore(config.Wallet.KeyStoreDir, cCtx.Bool(LightFlag))
	if err != nil {
		return err
	}
	acc, err := account.NewAccount(ks, password)
	if err != nil {
		return err
	}
	logger.Infow("account created", "address", acc.Address.Hex(), "file", acc.URL.Path)
	fmt.Println(acc.Address.Hex())
	return nil
}
