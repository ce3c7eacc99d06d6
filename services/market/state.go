package market

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/status-im/nft-market/account"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

// Session exists only while a wallet is connected, and then completely.
type Session struct {
	Address common.Address
	Signer  account.Signer
	Orders  OrderProtocol
	NFT     NFTContract
	Chain   account.Backend
}

// State is owned by the Controller and only touched under its lock.
type State struct {
	Session *Session
	Catalog []marketapi.CatalogEntry
	// Cursor is the number of catalog entries already rendered.
	Cursor     int
	Loading    bool
	EmptyShown bool

	// generation changes on every invalidation so that a fetch started
	// before it is not applied after it.
	generation uint64
}

func (s *State) reset() {
	s.Catalog = nil
	s.Cursor = 0
	s.EmptyShown = false
	s.generation++
}
