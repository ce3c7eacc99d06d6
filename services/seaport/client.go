package seaport

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	seaportContract "github.com/status-im/nft-market/contracts/seaport"
	"github.com/status-im/nft-market/logutils"
	"github.com/status-im/nft-market/services/wallet/bigint"
)

var (
	ErrSignerMismatch = errors.New("signer does not match the order account")
	ErrEmptyOffer     = errors.New("order has no offer items")
	ErrOrderNotActive = errors.New("order is not active yet")
	ErrOrderExpired   = errors.New("order has expired")
	ErrInvalidWindow  = errors.New("order start time must be before end time")
)

// Signer signs order digests and transactions for one account.
type Signer interface {
	Address() common.Address
	SignHash(hash []byte) ([]byte, error)
	TransactOpts(ctx context.Context) (*bind.TransactOpts, error)
}

// Backend is the chain connection the client reads counters from, sends
// fulfillments through and waits for receipts on.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
}

type Options struct {
	ContractAddress common.Address
	ChainID         *big.Int
}

// Seaport creates, signs, hashes and fulfills Seaport 1.6 orders.
type Seaport struct {
	signer          Signer
	backend         Backend
	contract        seaportContract.SeaportIface
	address         common.Address
	chainID         *big.Int
	domainSeparator common.Hash
	now             func() time.Time
	logger          *zap.Logger
}

func New(signer Signer, backend Backend, opts Options) (*Seaport, error) {
	if signer == nil {
		return nil, errors.New("seaport: signer is required")
	}
	if opts.ChainID == nil {
		return nil, errors.New("seaport: chain id is required")
	}
	contract, err := seaportContract.NewSeaport(opts.ContractAddress, backend)
	if err != nil {
		return nil, err
	}
	separator, err := DomainSeparator(opts.ChainID, opts.ContractAddress)
	if err != nil {
		return nil, err
	}
	return &Seaport{
		signer:          signer,
		backend:         backend,
		contract:        contract,
		address:         opts.ContractAddress,
		chainID:         new(big.Int).Set(opts.ChainID),
		domainSeparator: separator,
		now:             time.Now,
		logger:          logutils.ZapLogger().Named("Seaport"),
	}, nil
}

func (s *Seaport) Address() common.Address {
	return s.address
}

func (s *Seaport) GetCounter(ctx context.Context, offerer common.Address) (*big.Int, error) {
	return s.contract.GetCounter(&bind.CallOpts{Context: ctx}, offerer)
}

// GetOrderHash computes the order hash locally, it matches what the contract
// returns from getOrderHash.
func (s *Seaport) GetOrderHash(components OrderComponents) (common.Hash, error) {
	return HashOrderComponents(components)
}

// SignOrder returns a 65 byte signature with v in {27, 28}.
func (s *Seaport) SignOrder(components OrderComponents) ([]byte, error) {
	orderHash, err := HashOrderComponents(components)
	if err != nil {
		return nil, err
	}
	digest := hashToSign(s.domainSeparator, orderHash)
	sig, err := s.signer.SignHash(digest[:])
	if err != nil {
		return nil, err
	}
	sig = common.CopyBytes(sig)
	if len(sig) == crypto.SignatureLength && sig[crypto.RecoveryIDOffset] < 27 {
		sig[crypto.RecoveryIDOffset] += 27
	}
	return sig, nil
}

// CreateOrder prepares an order offered by offerer. The counter is read
// right away, the signature is only requested by ExecuteAllActions.
func (s *Seaport) CreateOrder(ctx context.Context, input CreateOrderInput, offerer common.Address) (*CreateOrderUseCase, error) {
	if offerer == (common.Address{}) {
		offerer = s.signer.Address()
	}
	if offerer != s.signer.Address() {
		return nil, ErrSignerMismatch
	}
	if len(input.Offer) == 0 {
		return nil, ErrEmptyOffer
	}
	if input.StartTime == nil || input.EndTime == nil || input.StartTime.Cmp(input.EndTime) >= 0 {
		return nil, ErrInvalidWindow
	}

	counter, err := s.GetCounter(ctx, offerer)
	if err != nil {
		return nil, fmt.Errorf("failed to read counter: %w", err)
	}

	salt := input.Salt
	if salt == nil {
		salt, err = randomSalt()
		if err != nil {
			return nil, err
		}
	}

	components := OrderComponents{
		Offerer:    offerer,
		Zone:       input.Zone,
		OrderType:  input.OrderType,
		StartTime:  bigint.Wrap(input.StartTime),
		EndTime:    bigint.Wrap(input.EndTime),
		ZoneHash:   input.ZoneHash,
		Salt:       bigint.Wrap(salt),
		ConduitKey: input.ConduitKey,
		Counter:    bigint.Wrap(counter),
	}
	for _, item := range input.Offer {
		components.Offer = append(components.Offer, OfferItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: bigint.Wrap(item.identifier()),
			StartAmount:          bigint.Wrap(item.amount()),
			EndAmount:            bigint.Wrap(item.amount()),
		})
	}
	for _, item := range input.Consideration {
		recipient := item.Recipient
		if recipient == (common.Address{}) {
			recipient = offerer
		}
		components.Consideration = append(components.Consideration, ConsiderationItem{
			ItemType:             item.ItemType,
			Token:                item.Token,
			IdentifierOrCriteria: bigint.Wrap(item.identifier()),
			StartAmount:          bigint.Wrap(item.amount()),
			EndAmount:            bigint.Wrap(item.amount()),
			Recipient:            recipient,
		})
	}
	components.TotalOriginalConsiderationItems = bigint.NewBigInt(int64(len(components.Consideration)))

	return &CreateOrderUseCase{
		Actions: []Action{{Type: ActionTypeCreate, Description: "sign order"}},
		ExecuteAllActions: func(ctx context.Context) (*OrderWithCounter, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sig, err := s.SignOrder(components)
			if err != nil {
				return nil, err
			}
			s.logger.Debug("order signed",
				zap.Stringer("offerer", offerer),
				zap.Stringer("counter", components.Counter))
			return &OrderWithCounter{Parameters: components, Signature: sig}, nil
		},
	}, nil
}

// FulfillOrder prepares filling order as fulfiller. The transaction carries
// the sum of all native consideration amounts as value.
func (s *Seaport) FulfillOrder(ctx context.Context, order *OrderWithCounter, fulfiller common.Address) (*FulfillOrderUseCase, error) {
	if order == nil || len(order.Parameters.Offer) == 0 {
		return nil, ErrEmptyOffer
	}
	if fulfiller != (common.Address{}) && fulfiller != s.signer.Address() {
		return nil, ErrSignerMismatch
	}
	now := big.NewInt(s.now().Unix())
	if order.Parameters.StartTime.BigIntOrZero().Cmp(now) > 0 {
		return nil, ErrOrderNotActive
	}
	if end := order.Parameters.EndTime.BigIntOrZero(); end.Sign() > 0 && end.Cmp(now) <= 0 {
		return nil, ErrOrderExpired
	}

	value := order.Parameters.NativeConsiderationTotal()
	contractOrder := seaportContract.Order{
		Parameters: order.Parameters.toContract(),
		Signature:  common.CopyBytes(order.Signature),
	}
	if contractOrder.Signature == nil {
		contractOrder.Signature = []byte{}
	}

	return &FulfillOrderUseCase{
		Actions: []Action{{Type: ActionTypeExchange, Description: "fulfill order"}},
		ExecuteAllActions: func(ctx context.Context) (*Transaction, error) {
			opts, err := s.signer.TransactOpts(ctx)
			if err != nil {
				return nil, err
			}
			opts.Context = ctx
			opts.Value = value
			tx, err := s.contract.FulfillOrder(opts, contractOrder, [32]byte{})
			if err != nil {
				return nil, err
			}
			s.logger.Info("fulfillment sent",
				zap.Stringer("tx", tx.Hash()),
				zap.Stringer("value", value))
			return NewTransaction(tx, s.backend), nil
		},
	}, nil
}

func randomSalt() (*big.Int, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b[:]), nil
}
