package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type SeaportIface interface {
	GetCounter(opts *bind.CallOpts, offerer common.Address) (*big.Int, error)
	FulfillOrder(opts *bind.TransactOpts, order Order, fulfillerConduitKey [32]byte) (*types.Transaction, error)
}

// Verify that Seaport implements SeaportIface. If contract changes, this will fail to compile, update interface to match.
var _ SeaportIface = (*Seaport)(nil)
