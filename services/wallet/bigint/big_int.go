package bigint

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"
)

// BigInt marshals to a decimal JSON string, which survives JavaScript and
// float based JSON decoders unchanged. It unmarshals from a decimal or hex
// string, a plain JSON number, or a serialized ethers BigNumber object
// ({"type":"BigNumber","hex":"0x.."}).
type BigInt struct {
	*big.Int
}

func NewBigInt(i int64) *BigInt {
	return &BigInt{Int: big.NewInt(i)}
}

// Wrap copies i into a new BigInt. A nil i yields zero.
func Wrap(i *big.Int) *BigInt {
	if i == nil {
		return &BigInt{Int: new(big.Int)}
	}
	return &BigInt{Int: new(big.Int).Set(i)}
}

func (b BigInt) MarshalJSON() ([]byte, error) {
	if b.Int == nil {
		return []byte(`"0"`), nil
	}
	return []byte(`"` + b.Int.String() + `"`), nil
}

func (b *BigInt) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}

	var raw string
	if len(p) > 0 && p[0] == '{' {
		var wrapped struct {
			Hex  string `json:"hex"`
			UHex string `json:"_hex"`
		}
		if err := json.Unmarshal(p, &wrapped); err != nil {
			return err
		}
		raw = wrapped.Hex
		if raw == "" {
			raw = wrapped.UHex
		}
	} else if len(p) > 0 && p[0] == '"' {
		if err := json.Unmarshal(p, &raw); err != nil {
			return err
		}
	} else {
		raw = string(p)
	}

	z, err := parse(raw)
	if err != nil {
		return err
	}
	b.Int = z
	return nil
}

func parse(raw string) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty big integer")
	}
	z := new(big.Int)
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		if _, ok := z.SetString(raw[2:], 16); !ok {
			return nil, fmt.Errorf("not a valid hex big integer: %s", raw)
		}
		return z, nil
	}
	if _, ok := z.SetString(raw, 10); !ok {
		return nil, fmt.Errorf("not a valid big integer: %s", raw)
	}
	return z, nil
}

// BigIntOrZero returns the wrapped value, or zero when unset.
func (b *BigInt) BigIntOrZero() *big.Int {
	if b == nil || b.Int == nil {
		return new(big.Int)
	}
	return b.Int
}

func (b *BigInt) String() string {
	return b.BigIntOrZero().String()
}
