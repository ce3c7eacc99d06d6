package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"

	"github.com/status-im/nft-market/services/seaport"
	walletCommon "github.com/status-im/nft-market/services/wallet/common"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

const (
	alertNotConnected = "Wallet not connected!"
	alertOrderParse   = "Order parse error"
	alertInvalidOrder = "This NFT's sale data is invalid!"
	alertEmptyTokenID = "Token ID is empty!"
	alertNotOwner     = "This NFT does not belong to you!"
)

func (c *Controller) tradeLogger(kind, tokenID string) *zap.Logger {
	return c.logger.With(
		zap.String("trade", uuid.New().String()),
		zap.String("kind", kind),
		zap.String("tokenid", tokenID))
}

// Buy fulfills the stored order of entry with the connected account and
// reports the purchase to the backend.
func (c *Controller) Buy(ctx context.Context, entry marketapi.CatalogEntry) error {
	logger := c.tradeLogger(tradeBuy, entry.TokenID.String())

	session := c.session()
	if session == nil {
		c.notifier.Alert(alertNotConnected)
		tradesCounter.WithLabelValues(tradeBuy, resultRejected).Inc()
		return ErrNotConnected
	}
	c.notifier.Notify("Preparing purchase...")

	order, err := NormalizeOrder(ClassifyOrderPayload(entry.OrderPayload()))
	if err != nil {
		logger.Warn("unusable order payload", zap.Error(err))
		if errors.Is(err, ErrOrderParse) {
			c.notifier.Alert(alertOrderParse)
		} else {
			c.notifier.Alert(alertInvalidOrder)
		}
		tradesCounter.WithLabelValues(tradeBuy, resultRejected).Inc()
		return err
	}

	fail := func(err error) error {
		logger.Error("buy failed", zap.Error(err))
		c.notifier.Alert("Buy error: " + ErrorReason(err))
		tradesCounter.WithLabelValues(tradeBuy, resultFailed).Inc()
		return err
	}

	c.notifier.Notify("Signing transaction...")
	useCase, err := session.Orders.FulfillOrder(ctx, order, session.Address)
	if err != nil {
		return fail(err)
	}
	if useCase == nil || useCase.ExecuteAllActions == nil {
		return fail(seaport.ErrMissingExecuteAllActions)
	}
	tx, err := useCase.ExecuteAllActions(ctx)
	if err != nil {
		return fail(err)
	}
	if tx != nil {
		logger.Info("waiting for fulfillment", zap.Stringer("tx", tx.Hash()))
		if _, err := tx.Wait(ctx); err != nil {
			return fail(err)
		}
	}

	c.notifier.Notify("NFT purchased successfully!")
	tradesCounter.WithLabelValues(tradeBuy, resultSuccess).Inc()

	err = c.backend.NotifyBuy(ctx, marketapi.BuyRequest{
		TokenID:             entry.TokenID,
		NFTContract:         c.config.NFTContract,
		MarketplaceContract: c.config.MarketplaceContract,
		BuyerAddress:        session.Address.Hex(),
		OrderHash:           entry.OrderHash,
		Price:               entry.Price.Float64(),
		OnChain:             true,
	})
	if err != nil {
		// the purchase is final on chain, the backend catches up on reload
		logger.Warn("failed to report purchase", zap.Error(err))
	}

	c.scheduleReload(c.config.BuyReloadDelay())
	return nil
}

// ListWithPrice validates the raw inputs of a listing form and lists.
func (c *Controller) ListWithPrice(ctx context.Context, tokenID, priceText string, card CardHandle) error {
	if strings.TrimSpace(tokenID) == "" {
		c.notifier.Notify("Error: no token ID")
		return ErrEmptyTokenID
	}
	if strings.TrimSpace(priceText) == "" {
		c.notifier.Notify("Please enter a price")
		return ErrEmptyPrice
	}
	priceWei, err := ParseEther(priceText)
	if err != nil {
		c.notifier.Notify("Invalid price format")
		return err
	}
	return c.List(ctx, tokenID, priceWei, card)
}

// List offers tokenID for priceWei: it checks ownership, grants the
// marketplace operator approval when missing, signs an order and stores it
// with the backend. card, when given, shows the new price.
func (c *Controller) List(ctx context.Context, tokenID string, priceWei *big.Int, card CardHandle) error {
	tokenID = strings.TrimSpace(tokenID)
	logger := c.tradeLogger(tradeList, tokenID)

	session := c.session()
	if session == nil {
		c.notifier.Alert(alertNotConnected)
		tradesCounter.WithLabelValues(tradeList, resultRejected).Inc()
		return ErrNotConnected
	}
	if tokenID == "" {
		c.notifier.Alert(alertEmptyTokenID)
		tradesCounter.WithLabelValues(tradeList, resultRejected).Inc()
		return ErrEmptyTokenID
	}
	token, err := walletCommon.GetTokenIdFromSymbol(tokenID)
	if err != nil {
		c.notifier.Alert(alertEmptyTokenID)
		tradesCounter.WithLabelValues(tradeList, resultRejected).Inc()
		return fmt.Errorf("%w: %s", ErrInvalidTokenID, tokenID)
	}
	if priceWei == nil || priceWei.Sign() < 0 {
		c.notifier.Alert("Invalid price")
		tradesCounter.WithLabelValues(tradeList, resultRejected).Inc()
		return ErrInvalidPrice
	}

	fail := func(err error) error {
		logger.Error("listing failed", zap.Error(err))
		c.notifier.Alert("Listing error: " + ErrorReason(err))
		tradesCounter.WithLabelValues(tradeList, resultFailed).Inc()
		return err
	}

	seller := session.Address
	marketplace := c.config.MarketplaceContractAddress()
	callOpts := &bind.CallOpts{Context: ctx, From: seller}

	c.notifier.Notify("Checking ownership...")
	owner, err := session.NFT.OwnerOf(callOpts, token)
	if err != nil {
		return fail(err)
	}
	if owner != seller {
		logger.Warn("not the owner", zap.Stringer("owner", owner), zap.Stringer("seller", seller))
		c.notifier.Alert(alertNotOwner)
		tradesCounter.WithLabelValues(tradeList, resultRejected).Inc()
		return ErrNotOwner
	}

	approved, err := session.NFT.IsApprovedForAll(callOpts, seller, marketplace)
	if err != nil {
		return fail(err)
	}
	if !approved {
		c.notifier.Notify("Granting approval...")
		opts, err := session.Signer.TransactOpts(ctx)
		if err != nil {
			return fail(err)
		}
		tx, err := session.NFT.SetApprovalForAll(opts, marketplace, true)
		if err != nil {
			return fail(err)
		}
		logger.Info("waiting for approval", zap.Stringer("tx", tx.Hash()))
		if _, err := seaport.NewTransaction(tx, session.Chain).Wait(ctx); err != nil {
			return fail(err)
		}
		c.notifier.Notify("Approved!")
	}

	c.notifier.Notify("Signature requested...")
	now := c.now()
	input := seaport.CreateOrderInput{
		Offer: []seaport.CreateInputItem{{
			ItemType:   seaport.ItemTypeERC721,
			Token:      c.config.NFTContractAddress(),
			Identifier: token,
		}},
		Consideration: []seaport.CreateInputItem{{
			ItemType:   seaport.ItemTypeNative,
			Token:      walletCommon.ZeroAddress(),
			Identifier: new(big.Int),
			Amount:     priceWei,
			Recipient:  seller,
		}},
		StartTime: big.NewInt(now.Add(-c.config.ListingStartSkew()).Unix()),
		EndTime:   big.NewInt(now.Add(c.config.ListingDuration()).Unix()),
	}

	useCase, err := session.Orders.CreateOrder(ctx, input, seller)
	if err != nil {
		return fail(err)
	}
	if useCase == nil || useCase.ExecuteAllActions == nil {
		return fail(seaport.ErrMissingExecuteAllActions)
	}
	signed, err := useCase.ExecuteAllActions(ctx)
	if err != nil {
		return fail(err)
	}

	orderHash, err := session.Orders.GetOrderHash(signed.Parameters)
	if err != nil {
		return fail(err)
	}
	plain, err := json.Marshal(signed)
	if err != nil {
		return fail(err)
	}

	c.notifier.Notify("Sending to backend...")
	price := FormatEther(priceWei)
	err = c.backend.PostOrder(ctx, marketapi.OrderRequest{
		TokenID:             marketapi.TokenID(token.String()),
		Price:               price,
		NFTContract:         c.config.NFTContract,
		MarketplaceContract: c.config.MarketplaceContract,
		SellerAddress:       strings.ToLower(seller.Hex()),
		SeaportOrder:        plain,
		OrderHash:           orderHash.Hex(),
		OnChain:             false,
	})
	if err != nil {
		return fail(err)
	}

	if card != nil {
		card.SetPrice(formatListedPrice(priceWei))
		card.ClearPriceInput()
	}
	logger.Info("listed", zap.String("price", price), zap.Stringer("orderHash", orderHash),
		zap.Duration("valid", c.config.ListingDuration().Round(time.Hour)))
	c.notifier.Notify(fmt.Sprintf("NFT #%s listed successfully!", tokenID))
	tradesCounter.WithLabelValues(tradeList, resultSuccess).Inc()

	c.scheduleReload(c.config.ListReloadDelay())
	return nil
}
