package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	seaportContract "github.com/status-im/nft-market/contracts/seaport"
	"github.com/status-im/nft-market/services/wallet/bigint"
)

type ItemType uint8

const (
	ItemTypeNative ItemType = iota
	ItemTypeERC20
	ItemTypeERC721
	ItemTypeERC1155
	ItemTypeERC721WithCriteria
	ItemTypeERC1155WithCriteria
)

type OrderType uint8

const (
	OrderTypeFullOpen OrderType = iota
	OrderTypePartialOpen
	OrderTypeFullRestricted
	OrderTypePartialRestricted
	OrderTypeContract
)

// OfferItem is the JSON form of an offered item. All amounts serialize as
// decimal strings.
type OfferItem struct {
	ItemType             ItemType       `json:"itemType"`
	Token                common.Address `json:"token"`
	IdentifierOrCriteria *bigint.BigInt `json:"identifierOrCriteria"`
	StartAmount          *bigint.BigInt `json:"startAmount"`
	EndAmount            *bigint.BigInt `json:"endAmount"`
}

type ConsiderationItem struct {
	ItemType             ItemType       `json:"itemType"`
	Token                common.Address `json:"token"`
	IdentifierOrCriteria *bigint.BigInt `json:"identifierOrCriteria"`
	StartAmount          *bigint.BigInt `json:"startAmount"`
	EndAmount            *bigint.BigInt `json:"endAmount"`
	Recipient            common.Address `json:"recipient"`
}

// OrderComponents are the signed parameters of an order.
type OrderComponents struct {
	Offerer                         common.Address      `json:"offerer"`
	Zone                            common.Address      `json:"zone"`
	Offer                           []OfferItem         `json:"offer"`
	Consideration                   []ConsiderationItem `json:"consideration"`
	OrderType                       OrderType           `json:"orderType"`
	StartTime                       *bigint.BigInt      `json:"startTime"`
	EndTime                         *bigint.BigInt      `json:"endTime"`
	ZoneHash                        common.Hash         `json:"zoneHash"`
	Salt                            *bigint.BigInt      `json:"salt"`
	ConduitKey                      common.Hash         `json:"conduitKey"`
	Counter                         *bigint.BigInt      `json:"counter"`
	TotalOriginalConsiderationItems *bigint.BigInt      `json:"totalOriginalConsiderationItems,omitempty"`
}

// OrderWithCounter is a signed order as it is stored by the backend and
// handed back for fulfillment.
type OrderWithCounter struct {
	Parameters OrderComponents `json:"parameters"`
	Signature  hexutil.Bytes   `json:"signature"`
}

// CreateInputItem describes one side of a new order. Amount defaults to 1
// for ERC721 items, Recipient defaults to the offerer.
type CreateInputItem struct {
	ItemType   ItemType
	Token      common.Address
	Identifier *big.Int
	Amount     *big.Int
	Recipient  common.Address
}

type CreateOrderInput struct {
	Offer         []CreateInputItem
	Consideration []CreateInputItem
	StartTime     *big.Int
	EndTime       *big.Int
	Zone          common.Address
	ZoneHash      common.Hash
	ConduitKey    common.Hash
	OrderType     OrderType
	// Salt is random when nil.
	Salt *big.Int
}

func (i CreateInputItem) amount() *big.Int {
	if i.Amount != nil {
		return i.Amount
	}
	if i.ItemType == ItemTypeERC721 || i.ItemType == ItemTypeERC721WithCriteria {
		return big.NewInt(1)
	}
	return new(big.Int)
}

func (i CreateInputItem) identifier() *big.Int {
	if i.Identifier == nil {
		return new(big.Int)
	}
	return i.Identifier
}

// NativeConsiderationTotal is the value a fulfiller has to send along.
func (c *OrderComponents) NativeConsiderationTotal() *big.Int {
	total := new(big.Int)
	for _, item := range c.Consideration {
		if item.ItemType != ItemTypeNative {
			continue
		}
		amount := item.StartAmount.BigIntOrZero()
		if end := item.EndAmount.BigIntOrZero(); end.Cmp(amount) > 0 {
			amount = end
		}
		total.Add(total, amount)
	}
	return total
}

func (c *OrderComponents) toContract() seaportContract.OrderParameters {
	params := seaportContract.OrderParameters{
		Offerer:    c.Offerer,
		Zone:       c.Zone,
		OrderType:  uint8(c.OrderType),
		StartTime:  c.StartTime.BigIntOrZero(),
		EndTime:    c.EndTime.BigIntOrZero(),
		ZoneHash:   c.ZoneHash,
		Salt:       c.Salt.BigIntOrZero(),
		ConduitKey: c.ConduitKey,
	}
	for _, item := range c.Offer {
		params.Offer = append(params.Offer, seaportContract.OfferItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria.BigIntOrZero(),
			StartAmount:          item.StartAmount.BigIntOrZero(),
			EndAmount:            item.EndAmount.BigIntOrZero(),
		})
	}
	for _, item := range c.Consideration {
		params.Consideration = append(params.Consideration, seaportContract.ConsiderationItem{
			ItemType:             uint8(item.ItemType),
			Token:                item.Token,
			IdentifierOrCriteria: item.IdentifierOrCriteria.BigIntOrZero(),
			StartAmount:          item.StartAmount.BigIntOrZero(),
			EndAmount:            item.EndAmount.BigIntOrZero(),
			Recipient:            item.Recipient,
		})
	}
	if c.TotalOriginalConsiderationItems != nil && c.TotalOriginalConsiderationItems.Int != nil {
		params.TotalOriginalConsiderationItems = c.TotalOriginalConsiderationItems.Int
	} else {
		params.TotalOriginalConsiderationItems = big.NewInt(int64(len(c.Consideration)))
	}
	return params
}
