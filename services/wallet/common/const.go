package common

import (
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

type ChainID uint64

const (
	UnknownChainID  uint64 = 0
	EthereumMainnet uint64 = 1
	EthereumSepolia uint64 = 11155111
	ApeChainMainnet uint64 = 33139
	ApeChainCurtis  uint64 = 33111
)

const (
	// NativeCurrencySymbol is the ticker prices are displayed in.
	NativeCurrencySymbol   = "APE"
	NativeCurrencyName     = "APE"
	NativeCurrencyDecimals = 18
)

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// Hex renders the chain id the way wallet RPC methods expect it, e.g. 0x8173.
func (c ChainID) Hex() string {
	return "0x" + strconv.FormatUint(uint64(c), 16)
}

func ZeroAddress() common.Address {
	return common.Address{}
}
