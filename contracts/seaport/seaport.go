package seaport

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// OfferItem is an auto generated low-level Go binding around an user-defined struct.
type OfferItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
}

// ConsiderationItem is an auto generated low-level Go binding around an user-defined struct.
type ConsiderationItem struct {
	ItemType             uint8
	Token                common.Address
	IdentifierOrCriteria *big.Int
	StartAmount          *big.Int
	EndAmount            *big.Int
	Recipient            common.Address
}

// OrderParameters is an auto generated low-level Go binding around an user-defined struct.
type OrderParameters struct {
	Offerer                         common.Address
	Zone                            common.Address
	Offer                           []OfferItem
	Consideration                   []ConsiderationItem
	OrderType                       uint8
	StartTime                       *big.Int
	EndTime                         *big.Int
	ZoneHash                        [32]byte
	Salt                            *big.Int
	ConduitKey                      [32]byte
	TotalOriginalConsiderationItems *big.Int
}

// Order is an auto generated low-level Go binding around an user-defined struct.
type Order struct {
	Parameters OrderParameters
	Signature  []byte
}

const offerItemComponents = `[
	{"internalType":"enum ItemType","name":"itemType","type":"uint8"},
	{"internalType":"address","name":"token","type":"address"},
	{"internalType":"uint256","name":"identifierOrCriteria","type":"uint256"},
	{"internalType":"uint256","name":"startAmount","type":"uint256"},
	{"internalType":"uint256","name":"endAmount","type":"uint256"}
]`

const considerationItemComponents = `[
	{"internalType":"enum ItemType","name":"itemType","type":"uint8"},
	{"internalType":"address","name":"token","type":"address"},
	{"internalType":"uint256","name":"identifierOrCriteria","type":"uint256"},
	{"internalType":"uint256","name":"startAmount","type":"uint256"},
	{"internalType":"uint256","name":"endAmount","type":"uint256"},
	{"internalType":"address payable","name":"recipient","type":"address"}
]`

func orderShape(last string) string {
	return `[
	{"internalType":"address","name":"offerer","type":"address"},
	{"internalType":"address","name":"zone","type":"address"},
	{"components":` + offerItemComponents + `,"internalType":"struct OfferItem[]","name":"offer","type":"tuple[]"},
	{"components":` + considerationItemComponents + `,"internalType":"struct ConsiderationItem[]","name":"consideration","type":"tuple[]"},
	{"internalType":"enum OrderType","name":"orderType","type":"uint8"},
	{"internalType":"uint256","name":"startTime","type":"uint256"},
	{"internalType":"uint256","name":"endTime","type":"uint256"},
	{"internalType":"bytes32","name":"zoneHash","type":"bytes32"},
	{"internalType":"uint256","name":"salt","type":"uint256"},
	{"internalType":"bytes32","name":"conduitKey","type":"bytes32"},
	{"internalType":"uint256","name":"` + last + `","type":"uint256"}
]`
}

// SeaportABI is the subset of the Seaport 1.6 interface used to fulfill
// orders and read offerer counters.
var SeaportABI = `[
{"inputs":[{"components":[
		{"components":` + orderShape("totalOriginalConsiderationItems") + `,"internalType":"struct OrderParameters","name":"parameters","type":"tuple"},
		{"internalType":"bytes","name":"signature","type":"bytes"}
	],"internalType":"struct Order","name":"order","type":"tuple"},
	{"internalType":"bytes32","name":"fulfillerConduitKey","type":"bytes32"}],
 "name":"fulfillOrder","outputs":[{"internalType":"bool","name":"fulfilled","type":"bool"}],"stateMutability":"payable","type":"function"},
{"inputs":[{"internalType":"address","name":"offerer","type":"address"}],
 "name":"getCounter","outputs":[{"internalType":"uint256","name":"counter","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

// Seaport is a Go binding around the Seaport marketplace contract.
type Seaport struct {
	SeaportCaller     // Read-only binding to the contract
	SeaportTransactor // Write-only binding to the contract
}

// SeaportCaller is a read-only Go binding around the Seaport marketplace contract.
type SeaportCaller struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// SeaportTransactor is a write-only Go binding around the Seaport marketplace contract.
type SeaportTransactor struct {
	contract *bind.BoundContract // Generic contract wrapper for the low level calls
}

// NewSeaport creates a new instance of Seaport, bound to a specific deployed contract.
func NewSeaport(address common.Address, backend bind.ContractBackend) (*Seaport, error) {
	contract, err := bindSeaport(address, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Seaport{SeaportCaller: SeaportCaller{contract: contract}, SeaportTransactor: SeaportTransactor{contract: contract}}, nil
}

// bindSeaport binds a generic wrapper to an already deployed contract.
func bindSeaport(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor) (*bind.BoundContract, error) {
	parsed, err := abi.JSON(strings.NewReader(SeaportABI))
	if err != nil {
		return nil, err
	}
	return bind.NewBoundContract(address, parsed, caller, transactor, nil), nil
}

// GetCounter is a free data retrieval call binding the contract method 0xf07ec373.
//
// Solidity: function getCounter(address offerer) view returns(uint256 counter)
func (_Seaport *SeaportCaller) GetCounter(opts *bind.CallOpts, offerer common.Address) (*big.Int, error) {
	var out []interface{}
	err := _Seaport.contract.Call(opts, &out, "getCounter", offerer)

	if err != nil {
		return *new(*big.Int), err
	}

	out0 := *abi.ConvertType(out[0], new(*big.Int)).(**big.Int)

	return out0, err
}

// FulfillOrder is a paid mutator transaction binding the contract method 0xb3a34c4c.
//
// Solidity: function fulfillOrder(Order order, bytes32 fulfillerConduitKey) payable returns(bool fulfilled)
func (_Seaport *SeaportTransactor) FulfillOrder(opts *bind.TransactOpts, order Order, fulfillerConduitKey [32]byte) (*types.Transaction, error) {
	return _Seaport.contract.Transact(opts, "fulfillOrder", order, fulfillerConduitKey)
}
