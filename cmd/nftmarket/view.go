package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/status-im/nft-market/services/market"
)

// terminalView prints cards as lines. The controller calls it under its
// own lock, so it only ever writes.
type terminalView struct {
	mu  sync.Mutex
	out io.Writer
	// shown counts cards printed since the last Clear, it is the page height
	// the browse loop reports to the controller.
	shown int
	cards map[string]*terminalCard
}

func newTerminalView(out io.Writer) *terminalView {
	return &terminalView{out: out, cards: map[string]*terminalCard{}}
}

func (v *terminalView) AddCard(card market.Card) market.CardHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.shown++
	fmt.Fprintf(v.out, "#%-6s %-28s %14s  %s\n", card.TokenID, card.Name, card.Price, card.Image)
	handle := &terminalCard{view: v, tokenID: card.TokenID}
	v.cards[card.TokenID] = handle
	return handle
}

func (v *terminalView) ShowEmpty(message string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintln(v.out, message)
}

func (v *terminalView) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.shown > 0 {
		fmt.Fprintln(v.out, "----")
	}
	v.shown = 0
	v.cards = map[string]*terminalCard{}
}

func (v *terminalView) SetAccount(short string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if short == "" {
		fmt.Fprintln(v.out, "[not connected]")
		return
	}
	fmt.Fprintf(v.out, "[%s]\n", short)
}

func (v *terminalView) Shown() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.shown
}

// Card returns the handle of a rendered card, nil when tokenID is not on
// screen.
func (v *terminalView) Card(tokenID string) market.CardHandle {
	v.mu.Lock()
	defer v.mu.Unlock()
	if card, ok := v.cards[tokenID]; ok {
		return card
	}
	return nil
}

type terminalCard struct {
	view    *terminalView
	tokenID string
}

func (c *terminalCard) SetPrice(text string) {
	c.view.mu.Lock()
	defer c.view.mu.Unlock()
	fmt.Fprintf(c.view.out, "#%s now %s\n", c.tokenID, text)
}

func (c *terminalCard) ClearPriceInput() {}
