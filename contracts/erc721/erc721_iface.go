package erc721

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

type ERC721Iface interface {
	OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error)
	SetApprovalForAll(opts *bind.TransactOpts, operator common.Address, approved bool) (*types.Transaction, error)
}

// Verify that ERC721 implements ERC721Iface. If contract changes, this will fail to compile, update interface to match.
var _ ERC721Iface = (*ERC721)(nil)

type ERC721CallerIface interface {
	OwnerOf(opts *bind.CallOpts, tokenId *big.Int) (common.Address, error)
	IsApprovedForAll(opts *bind.CallOpts, owner common.Address, operator common.Address) (bool, error)
}

var _ ERC721CallerIface = (*ERC721Caller)(nil)
