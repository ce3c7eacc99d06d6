package params

import (
	"github.com/ethereum/go-ethereum/common"
	validator "gopkg.in/go-playground/validator.v9"
)

// NewValidator returns a validator with the custom tags used by Config and
// by marketplace request payloads.
func NewValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("eth_addr", validateEthAddress)
	return validate
}

func validateEthAddress(fl validator.FieldLevel) bool {
	return common.IsHexAddress(fl.Field().String())
}
