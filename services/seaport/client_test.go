package seaport

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	seaportContract "github.com/status-im/nft-market/contracts/seaport"
)

const testChainID = 33139

var testMarketplace = common.HexToAddress("0x0000000000000068F116a894984e2DB1123eB395")

func newTestClient(t *testing.T, counter int64) (*Seaport, *testSigner, *fakeBackend) {
	signer := newTestSigner(testChainID)
	backend := &fakeBackend{
		callResult:    common.LeftPadBytes(big.NewInt(counter).Bytes(), 32),
		receiptStatus: types.ReceiptStatusSuccessful,
	}
	client, err := New(signer, backend, Options{ContractAddress: testMarketplace, ChainID: big.NewInt(testChainID)})
	require.NoError(t, err)
	return client, signer, backend
}

func listingInput(nft common.Address, price *big.Int) CreateOrderInput {
	now := time.Now()
	return CreateOrderInput{
		Offer: []CreateInputItem{{ItemType: ItemTypeERC721, Token: nft, Identifier: big.NewInt(7)}},
		Consideration: []CreateInputItem{{
			ItemType: ItemTypeNative,
			Amount:   price,
		}},
		StartTime: big.NewInt(now.Add(-time.Minute).Unix()),
		EndTime:   big.NewInt(now.Add(30 * 24 * time.Hour).Unix()),
	}
}

func TestNewRequiresSignerAndChain(t *testing.T) {
	_, err := New(nil, &fakeBackend{}, Options{ChainID: big.NewInt(1)})
	require.Error(t, err)
	_, err = New(newTestSigner(1), &fakeBackend{}, Options{})
	require.Error(t, err)
}

func TestCreateOrderSignsWithCounter(t *testing.T) {
	client, signer, backend := newTestClient(t, 5)
	nft := common.HexToAddress("0x54a88333F6e7540eA982261301309048aC431eD5")

	useCase, err := client.CreateOrder(context.Background(), listingInput(nft, big.NewInt(1000)), signer.Address())
	require.NoError(t, err)
	require.NotNil(t, useCase.ExecuteAllActions)
	require.Len(t, backend.calls, 1)
	require.Equal(t, testMarketplace, *backend.calls[0].To)

	order, err := useCase.ExecuteAllActions(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), order.Parameters.Counter.Int64())
	require.Equal(t, signer.Address(), order.Parameters.Offerer)
	require.Equal(t, signer.Address(), order.Parameters.Consideration[0].Recipient)
	require.Equal(t, int64(1), order.Parameters.Offer[0].StartAmount.Int64())
	require.Equal(t, int64(1), order.Parameters.TotalOriginalConsiderationItems.Int64())
	require.NotZero(t, order.Parameters.Salt.Sign())
	require.Len(t, order.Signature, 65)
	require.Contains(t, []byte{27, 28}, order.Signature[64])

	orderHash, err := client.GetOrderHash(order.Parameters)
	require.NoError(t, err)
	separator, err := DomainSeparator(big.NewInt(testChainID), testMarketplace)
	require.NoError(t, err)
	digest := hashToSign(separator, orderHash)

	sig := common.CopyBytes(order.Signature)
	sig[64] -= 27
	pub, err := crypto.SigToPub(digest[:], sig)
	require.NoError(t, err)
	require.Equal(t, signer.Address(), crypto.PubkeyToAddress(*pub))
}

func TestCreateOrderRejectsForeignOfferer(t *testing.T) {
	client, _, backend := newTestClient(t, 0)
	_, err := client.CreateOrder(context.Background(), listingInput(common.HexToAddress("0x2"), big.NewInt(1)), common.HexToAddress("0x3"))
	require.True(t, errors.Is(err, ErrSignerMismatch))
	require.Empty(t, backend.calls)
}

func TestCreateOrderRejectsBadWindow(t *testing.T) {
	client, signer, _ := newTestClient(t, 0)
	input := listingInput(common.HexToAddress("0x2"), big.NewInt(1))
	input.EndTime = input.StartTime
	_, err := client.CreateOrder(context.Background(), input, signer.Address())
	require.True(t, errors.Is(err, ErrInvalidWindow))
}

func TestCreateOrderCounterFailure(t *testing.T) {
	client, signer, backend := newTestClient(t, 0)
	backend.callErr = errors.New("rpc down")
	_, err := client.CreateOrder(context.Background(), listingInput(common.HexToAddress("0x2"), big.NewInt(1)), signer.Address())
	require.Error(t, err)
	require.Contains(t, err.Error(), "rpc down")
}

func TestFulfillOrderSendsNativeTotal(t *testing.T) {
	seller, _, _ := newTestClient(t, 0)
	order, err := func() (*OrderWithCounter, error) {
		useCase, err := seller.CreateOrder(context.Background(), listingInput(common.HexToAddress("0x2"), big.NewInt(2500)), common.Address{})
		if err != nil {
			return nil, err
		}
		return useCase.ExecuteAllActions(context.Background())
	}()
	require.NoError(t, err)

	buyer, buyerSigner, backend := newTestClient(t, 0)
	useCase, err := buyer.FulfillOrder(context.Background(), order, buyerSigner.Address())
	require.NoError(t, err)

	tx, err := useCase.ExecuteAllActions(context.Background())
	require.NoError(t, err)
	require.Equal(t, "2500", tx.Value().String())
	require.Equal(t, testMarketplace, *tx.To())
	require.Len(t, backend.sent, 1)

	parsed, err := abi.JSON(strings.NewReader(seaportContract.SeaportABI))
	require.NoError(t, err)
	require.Equal(t, parsed.Methods["fulfillOrder"].ID, tx.Data()[:4])

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	receipt, err := tx.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)
}

func TestFulfillOrderRevertedReceipt(t *testing.T) {
	client, signer, backend := newTestClient(t, 0)
	backend.receiptStatus = types.ReceiptStatusFailed
	order := &OrderWithCounter{Parameters: sampleComponents()}
	client.now = func() time.Time { return time.Unix(1700000100, 0) }

	useCase, err := client.FulfillOrder(context.Background(), order, signer.Address())
	require.NoError(t, err)
	tx, err := useCase.ExecuteAllActions(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err = tx.Wait(ctx)
	require.True(t, errors.Is(err, ErrTransactionReverted))
}

func TestFulfillOrderValidity(t *testing.T) {
	client, signer, _ := newTestClient(t, 0)
	order := &OrderWithCounter{Parameters: sampleComponents()}

	client.now = func() time.Time { return time.Unix(1600000000, 0) }
	_, err := client.FulfillOrder(context.Background(), order, signer.Address())
	require.True(t, errors.Is(err, ErrOrderNotActive))

	client.now = func() time.Time { return time.Unix(1800000000, 0) }
	_, err = client.FulfillOrder(context.Background(), order, signer.Address())
	require.True(t, errors.Is(err, ErrOrderExpired))

	_, err = client.FulfillOrder(context.Background(), &OrderWithCounter{}, signer.Address())
	require.True(t, errors.Is(err, ErrEmptyOffer))

	client.now = func() time.Time { return time.Unix(1700000100, 0) }
	_, err = client.FulfillOrder(context.Background(), order, common.HexToAddress("0x9"))
	require.True(t, errors.Is(err, ErrSignerMismatch))
}

func TestNativeConsiderationTotal(t *testing.T) {
	c := sampleComponents()
	c.Consideration = append(c.Consideration, ConsiderationItem{
		ItemType:    ItemTypeERC20,
		StartAmount: c.Consideration[0].StartAmount,
		EndAmount:   c.Consideration[0].EndAmount,
	})
	require.Equal(t, "1500000000000000000", c.NativeConsiderationTotal().String())
}
