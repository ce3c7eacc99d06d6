package market

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	walletCommon "github.com/status-im/nft-market/services/wallet/common"
	marketapi "github.com/status-im/nft-market/services/wallet/thirdparty/market"
)

const noPrice = "-"

// ParseEther converts a decimal amount of the native currency to wei.
// Negative amounts and more than 18 fractional digits are rejected.
func ParseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, ErrEmptyPrice
	}
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPrice, amount)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount %s", ErrInvalidPrice, amount)
	}
	if -d.Exponent() > walletCommon.NativeCurrencyDecimals {
		stripped := d.Shift(walletCommon.NativeCurrencyDecimals)
		if !stripped.Equal(stripped.Truncate(0)) {
			return nil, fmt.Errorf("%w: too many decimals in %s", ErrInvalidPrice, amount)
		}
	}
	return d.Shift(walletCommon.NativeCurrencyDecimals).BigInt(), nil
}

// FormatEther renders wei as a decimal amount that always carries a
// fractional part, e.g. "1.0" or "0.25".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		wei = new(big.Int)
	}
	s := decimal.NewFromBigInt(wei, -walletCommon.NativeCurrencyDecimals).String()
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// DisplayPrice is the card price text: "<amount> APE", or a dash when the
// price is absent or not numeric.
func DisplayPrice(price marketapi.Price) string {
	d, ok := price.Decimal()
	if !ok {
		return noPrice
	}
	return d.String() + " " + walletCommon.NativeCurrencySymbol
}

func formatListedPrice(wei *big.Int) string {
	return FormatEther(wei) + " " + walletCommon.NativeCurrencySymbol
}
