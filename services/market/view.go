package market

import (
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

// Card is what gets rendered for one catalog entry.
type Card struct {
	TokenID string
	Name    string
	Image   string
	Price   string
	Entry   marketapi.CatalogEntry
}

// CardHandle lets a trade update a card after it was rendered.
type CardHandle interface {
	SetPrice(text string)
	ClearPriceInput()
}

// View renders the feed. The controller calls it while holding its lock,
// so implementations must not call back into the controller.
type View interface {
	AddCard(card Card) CardHandle
	ShowEmpty(message string)
	Clear()
	// SetAccount shows the connected account, empty when disconnected.
	SetAccount(short string)
}

type nopView struct{}

func (nopView) AddCard(Card) CardHandle { return nopCard{} }
func (nopView) ShowEmpty(string)        {}
func (nopView) Clear()                  {}
func (nopView) SetAccount(string)       {}

type nopCard struct{}

func (nopCard) SetPrice(string)  {}
func (nopCard) ClearPriceInput() {}
