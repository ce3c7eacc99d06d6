package account

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	"github.com/ethereum/go-ethereum/common"
)

// Signer signs hashes and transactions for a single account.
type Signer interface {
	Address() common.Address
	// SignHash returns a 65 byte [R || S || V] signature, V is 0 or 1.
	SignHash(hash []byte) ([]byte, error)
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

type keystoreSigner struct {
	keyStore *keystore.KeyStore
	account  accounts.Account
	chainID  *big.Int
}

func (s *keystoreSigner) Address() common.Address {
	return s.account.Address
}

func (s *keystoreSigner) SignHash(hash []byte) ([]byte, error) {
	return s.keyStore.SignHash(s.account, hash)
}

func (s *keystoreSigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyStoreTransactorWithChainID(s.keyStore, s.account, s.chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}
