package market

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// TokenID is the token identifier as the backend stores it. The backend
// sends either a JSON string or a JSON number.
type TokenID string

func (t *TokenID) UnmarshalJSON(p []byte) error {
	p = bytes.TrimSpace(p)
	if bytes.Equal(p, []byte("null")) {
		*t = ""
		return nil
	}
	if len(p) > 0 && p[0] == '"' {
		var s string
		if err := json.Unmarshal(p, &s); err != nil {
			return err
		}
		*t = TokenID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(p, &n); err != nil {
		return err
	}
	*t = TokenID(n.String())
	return nil
}

func (t TokenID) String() string {
	return string(t)
}

// Price is a decimal amount in the native currency. Strings and numbers
// are kept as text, any other JSON value reads as no price.
type Price string

func (p *Price) UnmarshalJSON(data []byte) error {
	*p = Price(scalarText(data))
	return nil
}

// scalarText is the text of a JSON string or number, "" for everything else.
func scalarText(data json.RawMessage) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return ""
	}
	switch {
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		return n.String()
	}
	return ""
}

// Decimal reports the parsed price, ok is false when absent or malformed.
func (p Price) Decimal() (d decimal.Decimal, ok bool) {
	if p == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(string(p))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// Float64 is the price as reported back to the backend, 0 when absent.
func (p Price) Float64() float64 {
	d, ok := p.Decimal()
	if !ok {
		return 0
	}
	f, _ := d.Float64()
	return f
}

// CatalogEntry is one NFT record of GET /api/nfts.
type CatalogEntry struct {
	TokenID          TokenID         `json:"tokenid"`
	Name             string          `json:"name,omitempty"`
	Image            string          `json:"image,omitempty"`
	Price            Price           `json:"price,omitempty"`
	SeaportOrder     json.RawMessage `json:"seaport_order,omitempty"`
	SeaportOrderJSON json.RawMessage `json:"seaportOrderJSON,omitempty"`
	OrderHash        string          `json:"order_hash,omitempty"`
}

// UnmarshalJSON reads name and image leniently, the backend does not
// always store them as strings.
func (e *CatalogEntry) UnmarshalJSON(data []byte) error {
	type plainEntry CatalogEntry
	var aux struct {
		plainEntry
		Name  json.RawMessage `json:"name"`
		Image json.RawMessage `json:"image"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = CatalogEntry(aux.plainEntry)
	e.Name = scalarText(aux.Name)
	e.Image = scalarText(aux.Image)
	return nil
}

// OrderPayload returns the stored order, preferring seaport_order. Nil
// when neither field carries a value.
func (e *CatalogEntry) OrderPayload() json.RawMessage {
	for _, raw := range []json.RawMessage{e.SeaportOrder, e.SeaportOrderJSON} {
		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
			continue
		}
		return trimmed
	}
	return nil
}

type nftsResponse struct {
	NFTs []json.RawMessage `json:"nfts"`
}

// BuyRequest is POSTed to /api/buy after a fulfillment is mined.
type BuyRequest struct {
	TokenID             TokenID `json:"tokenid" validate:"required"`
	NFTContract         string  `json:"nft_contract" validate:"required,eth_addr"`
	MarketplaceContract string  `json:"marketplace_contract" validate:"required,eth_addr"`
	BuyerAddress        string  `json:"buyer_address" validate:"required,eth_addr"`
	OrderHash           string  `json:"order_hash,omitempty"`
	Price               float64 `json:"price"`
	OnChain             bool    `json:"on_chain"`
}

// OrderRequest is POSTed to /api/order after a listing has been signed.
type OrderRequest struct {
	TokenID             TokenID         `json:"tokenid" validate:"required"`
	Price               string          `json:"price" validate:"required"`
	NFTContract         string          `json:"nft_contract" validate:"required,eth_addr"`
	MarketplaceContract string          `json:"marketplace_contract" validate:"required,eth_addr"`
	SellerAddress       string          `json:"seller_address" validate:"required,eth_addr"`
	SeaportOrder        json.RawMessage `json:"seaport_order" validate:"required"`
	OrderHash           string          `json:"order_hash" validate:"required"`
	OnChain             bool            `json:"on_chain"`
}
