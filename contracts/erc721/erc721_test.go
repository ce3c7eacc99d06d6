package erc721

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/stretchr/testify/require"
)

func TestERC721ABISelectors(t *testing.T) {
	parsed, err := abi.JSON(strings.NewReader(ERC721ABI))
	require.NoError(t, err)

	expected := map[string]string{
		"ownerOf":           "6352211e",
		"isApprovedForAll":  "e985e9c5",
		"setApprovalForAll": "a22cb465",
	}
	for name, selector := range expected {
		method, ok := parsed.Methods[name]
		require.True(t, ok, name)
		require.Equal(t, selector, hex.EncodeToString(method.ID), name)
	}
}
