package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// GetTokenIdFromSymbol parses a decimal token id, or a hex one with a 0x
// prefix. Leading zeros stay decimal.
func GetTokenIdFromSymbol(symbol string) (*big.Int, error) {
	digits, base := symbol, 10
	if strings.HasPrefix(symbol, "0x") || strings.HasPrefix(symbol, "0X") {
		digits, base = symbol[2:], 16
	}
	id, success := big.NewInt(0).SetString(digits, base)
	if !success || id.Sign() < 0 {
		return nil, fmt.Errorf("failed to convert %s to big.Int", symbol)
	}
	return id, nil
}

// SameAddress compares two hex addresses ignoring checksum casing.
func SameAddress(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ShortAddress renders 0x1234...abcd.
func ShortAddress(address common.Address) string {
	hex := strings.ToLower(address.Hex())
	return hex[:6] + "..." + hex[len(hex)-4:]
}
