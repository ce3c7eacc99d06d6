package market

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
)

// errors
var (
	ErrNoWallet          = errors.New("no wallet provider available")
	ErrNotConnected      = errors.New("wallet not connected")
	ErrWrongNetwork      = errors.New("wallet is on the wrong network")
	ErrReconnectRequired = errors.New("network switched, connect again")
	ErrInvalidOrder      = errors.New("order data is invalid")
	ErrOrderParse        = errors.New("order data could not be parsed")
	ErrEmptyTokenID      = errors.New("token id is empty")
	ErrInvalidTokenID    = errors.New("token id is not a number")
	ErrEmptyPrice        = errors.New("price is empty")
	ErrInvalidPrice      = errors.New("price is not a valid amount")
	ErrNotOwner          = errors.New("token is not owned by the connected account")
)

// ErrorReason picks the most useful text out of err: the decoded revert
// reason when the node returned one, the error text otherwise.
func ErrorReason(err error) string {
	if err == nil {
		return ""
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if reason, ok := revertReason(dataErr.ErrorData()); ok {
			return reason
		}
	}
	return err.Error()
}

func revertReason(data interface{}) (string, bool) {
	var raw []byte
	switch v := data.(type) {
	case string:
		if !strings.HasPrefix(v, "0x") {
			return "", false
		}
		decoded, err := hexutil.Decode(v)
		if err != nil {
			return "", false
		}
		raw = decoded
	case []byte:
		raw = v
	default:
		return "", false
	}

	reason, err := abi.UnpackRevert(raw)
	if err != nil {
		return "", false
	}
	return reason, true
}
