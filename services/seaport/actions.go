package seaport

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	ErrMissingExecuteAllActions = errors.New("order protocol returned no executable actions")
	ErrTransactionReverted      = errors.New("transaction reverted")
)

type ActionType string

const (
	ActionTypeCreate   ActionType = "create"
	ActionTypeExchange ActionType = "exchange"
)

type Action struct {
	Type        ActionType
	Description string
}

// CreateOrderUseCase holds the steps needed to produce a signed order.
// Nothing is signed until ExecuteAllActions is called.
type CreateOrderUseCase struct {
	Actions           []Action
	ExecuteAllActions func(ctx context.Context) (*OrderWithCounter, error)
}

// FulfillOrderUseCase holds the steps needed to fill an order on chain.
type FulfillOrderUseCase struct {
	Actions           []Action
	ExecuteAllActions func(ctx context.Context) (*Transaction, error)
}

// Transaction is a submitted transaction that can be waited on.
type Transaction struct {
	*types.Transaction
	backend bind.DeployBackend
}

func NewTransaction(tx *types.Transaction, backend bind.DeployBackend) *Transaction {
	return &Transaction{Transaction: tx, backend: backend}
}

// Wait blocks until the transaction is mined and fails if it reverted.
func (t *Transaction) Wait(ctx context.Context) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, t.backend, t.Transaction)
	if err != nil {
		return nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s", ErrTransactionReverted, t.Hash().Hex())
	}
	return receipt, nil
}
