package seaport

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	protocolName    = "Seaport"
	protocolVersion = "1.6"

	eip712DomainType      = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	offerItemType         = "OfferItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount)"
	considerationItemType = "ConsiderationItem(uint8 itemType,address token,uint256 identifierOrCriteria,uint256 startAmount,uint256 endAmount,address recipient)"
	orderComponentsType   = "OrderComponents(address offerer,address zone,OfferItem[] offer,ConsiderationItem[] consideration,uint8 orderType,uint256 startTime,uint256 endTime,bytes32 zoneHash,uint256 salt,bytes32 conduitKey,uint256 counter)"
)

var (
	bytes32Type, _ = abi.NewType("bytes32", "", nil)
	uint256Type, _ = abi.NewType("uint256", "", nil)
	uint8Type, _   = abi.NewType("uint8", "", nil)
	addressType, _ = abi.NewType("address", "", nil)

	// referenced types are appended in alphabetical order
	orderTypeHash             = crypto.Keccak256Hash([]byte(orderComponentsType + considerationItemType + offerItemType))
	offerItemTypeHash         = crypto.Keccak256Hash([]byte(offerItemType))
	considerationItemTypeHash = crypto.Keccak256Hash([]byte(considerationItemType))
	domainTypeHash            = crypto.Keccak256Hash([]byte(eip712DomainType))

	// x19 to avoid collision with rlp encode. x01 version byte defined in EIP-191
	messagePadding = []byte{0x19, 0x01}
)

func arguments(types ...abi.Type) abi.Arguments {
	args := make(abi.Arguments, len(types))
	for i := range types {
		args[i] = abi.Argument{Type: types[i]}
	}
	return args
}

func hashPacked(args abi.Arguments, vals ...interface{}) (common.Hash, error) {
	packed, err := args.Pack(vals...)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

// DomainSeparator of the Seaport deployment at verifyingContract on chainID.
func DomainSeparator(chainID *big.Int, verifyingContract common.Address) (common.Hash, error) {
	return hashPacked(
		arguments(bytes32Type, bytes32Type, bytes32Type, uint256Type, addressType),
		domainTypeHash,
		crypto.Keccak256Hash([]byte(protocolName)),
		crypto.Keccak256Hash([]byte(protocolVersion)),
		chainID,
		verifyingContract,
	)
}

func hashOfferItem(item OfferItem) (common.Hash, error) {
	return hashPacked(
		arguments(bytes32Type, uint8Type, addressType, uint256Type, uint256Type, uint256Type),
		offerItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria.BigIntOrZero(),
		item.StartAmount.BigIntOrZero(),
		item.EndAmount.BigIntOrZero(),
	)
}

func hashConsiderationItem(item ConsiderationItem) (common.Hash, error) {
	return hashPacked(
		arguments(bytes32Type, uint8Type, addressType, uint256Type, uint256Type, uint256Type, addressType),
		considerationItemTypeHash,
		uint8(item.ItemType),
		item.Token,
		item.IdentifierOrCriteria.BigIntOrZero(),
		item.StartAmount.BigIntOrZero(),
		item.EndAmount.BigIntOrZero(),
		item.Recipient,
	)
}

// HashOrderComponents returns the EIP-712 struct hash of the order, which is
// what Seaport calls the order hash.
func HashOrderComponents(c OrderComponents) (common.Hash, error) {
	offer := make([]byte, 0, len(c.Offer)*common.HashLength)
	for _, item := range c.Offer {
		h, err := hashOfferItem(item)
		if err != nil {
			return common.Hash{}, err
		}
		offer = append(offer, h[:]...)
	}
	consideration := make([]byte, 0, len(c.Consideration)*common.HashLength)
	for _, item := range c.Consideration {
		h, err := hashConsiderationItem(item)
		if err != nil {
			return common.Hash{}, err
		}
		consideration = append(consideration, h[:]...)
	}

	return hashPacked(
		arguments(bytes32Type, addressType, addressType, bytes32Type, bytes32Type, uint8Type,
			uint256Type, uint256Type, bytes32Type, uint256Type, bytes32Type, uint256Type),
		orderTypeHash,
		c.Offerer,
		c.Zone,
		crypto.Keccak256Hash(offer),
		crypto.Keccak256Hash(consideration),
		uint8(c.OrderType),
		c.StartTime.BigIntOrZero(),
		c.EndTime.BigIntOrZero(),
		c.ZoneHash,
		c.Salt.BigIntOrZero(),
		c.ConduitKey,
		c.Counter.BigIntOrZero(),
	)
}

func hashToSign(domainSeparator, orderHash common.Hash) common.Hash {
	return crypto.Keccak256Hash(messagePadding, domainSeparator[:], orderHash[:])
}
