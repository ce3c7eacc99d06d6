package account

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/keystore"
	gethcommon "github.com/ethereum/go-ethereum/common"
)

// OpenKeyStore opens the key directory, creating it if needed.
// If keydir is empty new temporary directory with go-ethereum-keystore will be intialized.
// Light selects the lightweight kdf, meant for tests and throwaway keys.
func OpenKeyStore(keydir string, light bool) (ks *keystore.KeyStore, err error) {
	if keydir == "" {
		// There is no datadir.
		keydir, err = os.MkdirTemp("", "go-ethereum-keystore")
	}
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(keydir, 0700); err != nil {
		return nil, err
	}
	if light {
		return keystore.NewKeyStore(keydir, keystore.LightScryptN, keystore.LightScryptP), nil
	}
	return keystore.NewKeyStore(keydir, keystore.StandardScryptN, keystore.StandardScryptP), nil
}

// NewAccount generates a key protected by password and stores it.
func NewAccount(ks *keystore.KeyStore, password string) (accounts.Account, error) {
	return ks.NewAccount(password)
}

// ParseAccountString parses hex encoded string and returns is as accounts.Account.
func ParseAccountString(account string) (accounts.Account, error) {
	account = strings.TrimSpace(account)
	if !gethcommon.IsHexAddress(account) {
		return accounts.Account{}, ErrInvalidAccountAddress
	}
	return accounts.Account{Address: gethcommon.HexToAddress(account)}, nil
}

func findAccount(ks *keystore.KeyStore, address gethcommon.Address) (accounts.Account, error) {
	account, err := ks.Find(accounts.Account{Address: address})
	if err != nil {
		return accounts.Account{}, ErrAddressToAccountMappingFailure
	}
	return account, nil
}
