package params

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/status-im/nft-market/logutils"
	walletCommon "github.com/status-im/nft-market/services/wallet/common"
)

const (
	DefaultBackendURL          = "https://kamoaze60.onrender.com"
	DefaultNFTContract         = "0x54a88333F6e7540eA982261301309048aC431eD5"
	DefaultMarketplaceContract = "0x0000000000000068F116a894984e2DB1123eB395"
	DefaultRPCURL              = "https://rpc.apechain.com"
	DefaultBlockExplorerURL    = "https://apescan.io"
	DefaultChainName           = "ApeChain Mainnet"
	DefaultIPFSGateway         = "https://cloudflare-ipfs.com/ipfs/"
	DefaultPlaceholderImage    = "https://via.placeholder.com/300?text=No+Image"

	DefaultBatchSize           = 12
	DefaultScrollThreshold     = 300
	DefaultNoticeTimeoutMs     = 3000
	DefaultDisconnectNoticeMs  = 2000
	DefaultBuyReloadDelayMs    = 2000
	DefaultListReloadDelayMs   = 1500
	DefaultListingStartSkewSec = 60
	DefaultListingDurationDays = 30
	DefaultBackendTimeoutMs    = 20000
)

// Environment variables consulted by LoadFromEnv. The first three keep the
// names the web deployment used.
const (
	EnvBackendURL          = "BACKEND_URL"
	EnvNFTContract         = "NFT_CONTRACT"
	EnvRPCURL              = "APECHAIN_RPC"
	EnvMarketplaceContract = "NFTMARKET_MARKETPLACE_CONTRACT"
	EnvChainID             = "NFTMARKET_CHAIN_ID"
	EnvKeyStoreDir         = "NFTMARKET_KEYSTORE_DIR"
	EnvAccount             = "NFTMARKET_ACCOUNT"
	EnvPassword            = "NFTMARKET_PASSWORD"
	EnvLogLevel            = "NFTMARKET_LOG_LEVEL"
)

// ----------
// ChainConfig
// ----------

// ChainConfig describes the network the marketplace lives on. It is also
// what gets offered to the wallet when it sits on another network.
type ChainConfig struct {
	ChainID uint64 `validate:"required"`

	ChainName string `validate:"required"`

	// RPCURLs are offered to the wallet on a network switch, the first one is
	// used for reads by the keystore wallet.
	RPCURLs []string `validate:"required,min=1"`

	BlockExplorerURLs []string

	NativeCurrencyName     string `validate:"required"`
	NativeCurrencySymbol   string `validate:"required"`
	NativeCurrencyDecimals int    `validate:"min=0,max=36"`
}

// String dumps config object as nicely indented JSON
func (c *ChainConfig) String() string {
	data, _ := json.MarshalIndent(c, "", "    ") // nolint: gas
	return string(data)
}

// Validate validates the ChainConfig struct and returns an error if inconsistent values are found
func (c *ChainConfig) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	for _, rpcURL := range c.RPCURLs {
		if _, err := url.ParseRequestURI(rpcURL); err != nil {
			return fmt.Errorf("ChainConfig.RPCURLs '%s' is invalid: %v", rpcURL, err.Error())
		}
	}

	return nil
}

// ----------
// MarketConfig
// ----------

// MarketConfig holds the backend and contract coordinates plus the feed and
// trade timings.
type MarketConfig struct {
	BackendURL string `validate:"required"`

	NFTContract string `validate:"required,eth_addr"`

	MarketplaceContract string `validate:"required,eth_addr"`

	IPFSGateway string `validate:"required"`

	PlaceholderImage string

	// BatchSize is how many catalog entries a single LoadMore reveals.
	BatchSize int `validate:"min=1"`

	// ScrollThreshold is the distance in pixels from the page bottom below
	// which the feed asks for more.
	ScrollThreshold int `validate:"min=0"`

	NoticeTimeoutMs     int `validate:"min=0"`
	DisconnectNoticeMs  int `validate:"min=0"`
	BuyReloadDelayMs    int `validate:"min=0"`
	ListReloadDelayMs   int `validate:"min=0"`
	ListingStartSkewSec int `validate:"min=0"`
	ListingDurationDays int `validate:"min=1"`

	// BackendTimeoutMs bounds a single backend request, zero disables it.
	BackendTimeoutMs int `validate:"min=0"`
}

func (c *MarketConfig) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutMs) * time.Millisecond
}

func (c *MarketConfig) NoticeTimeout() time.Duration {
	return time.Duration(c.NoticeTimeoutMs) * time.Millisecond
}

func (c *MarketConfig) DisconnectNoticeTimeout() time.Duration {
	return time.Duration(c.DisconnectNoticeMs) * time.Millisecond
}

func (c *MarketConfig) BuyReloadDelay() time.Duration {
	return time.Duration(c.BuyReloadDelayMs) * time.Millisecond
}

func (c *MarketConfig) ListReloadDelay() time.Duration {
	return time.Duration(c.ListReloadDelayMs) * time.Millisecond
}

func (c *MarketConfig) ListingStartSkew() time.Duration {
	return time.Duration(c.ListingStartSkewSec) * time.Second
}

func (c *MarketConfig) ListingDuration() time.Duration {
	return time.Duration(c.ListingDurationDays) * 24 * time.Hour
}

func (c *MarketConfig) NFTContractAddress() common.Address {
	return common.HexToAddress(c.NFTContract)
}

func (c *MarketConfig) MarketplaceContractAddress() common.Address {
	return common.HexToAddress(c.MarketplaceContract)
}

// Validate validates the MarketConfig struct and returns an error if inconsistent values are found
func (c *MarketConfig) Validate(validate *validator.Validate) error {
	if err := validate.Struct(c); err != nil {
		return err
	}

	if _, err := url.ParseRequestURI(c.BackendURL); err != nil {
		return fmt.Errorf("MarketConfig.BackendURL '%s' is invalid: %v", c.BackendURL, err.Error())
	}

	return nil
}

// ----------
// WalletConfig
// ----------

// WalletConfig points the keystore wallet at its keys.
type WalletConfig struct {
	KeyStoreDir string

	// Account selects a keystore account, the first one is used when empty.
	Account string `validate:"omitempty,eth_addr"`

	// Password unlocks the account. Prefer PasswordFile outside of tests.
	Password string `json:"-"`

	PasswordFile string
}

// ReadPassword returns the configured password, reading PasswordFile if set.
func (c *WalletConfig) ReadPassword() (string, error) {
	if c.PasswordFile == "" {
		return c.Password, nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// ----------
// Config
// ----------

// Config is the whole client configuration.
type Config struct {
	Chain  ChainConfig
	Market MarketConfig
	Wallet WalletConfig

	LogSettings logutils.LogSettings

	// MetricsPort exposes prometheus metrics when non zero.
	MetricsPort int `validate:"min=0,max=65535"`
}

// NewDefaultConfig returns the configuration the marketplace ships with.
// Important: the returned config is not validated.
func NewDefaultConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			ChainID:                walletCommon.ApeChainMainnet,
			ChainName:              DefaultChainName,
			RPCURLs:                []string{DefaultRPCURL},
			BlockExplorerURLs:      []string{DefaultBlockExplorerURL},
			NativeCurrencyName:     walletCommon.NativeCurrencyName,
			NativeCurrencySymbol:   walletCommon.NativeCurrencySymbol,
			NativeCurrencyDecimals: walletCommon.NativeCurrencyDecimals,
		},
		Market: MarketConfig{
			BackendURL:          DefaultBackendURL,
			NFTContract:         DefaultNFTContract,
			MarketplaceContract: DefaultMarketplaceContract,
			IPFSGateway:         DefaultIPFSGateway,
			PlaceholderImage:    DefaultPlaceholderImage,
			BatchSize:           DefaultBatchSize,
			ScrollThreshold:     DefaultScrollThreshold,
			NoticeTimeoutMs:     DefaultNoticeTimeoutMs,
			DisconnectNoticeMs:  DefaultDisconnectNoticeMs,
			BuyReloadDelayMs:    DefaultBuyReloadDelayMs,
			ListReloadDelayMs:   DefaultListReloadDelayMs,
			ListingStartSkewSec: DefaultListingStartSkewSec,
			ListingDurationDays: DefaultListingDurationDays,
			BackendTimeoutMs:    DefaultBackendTimeoutMs,
		},
		LogSettings: logutils.LogSettings{
			Enabled:    true,
			Level:      "INFO",
			MaxSize:    100,
			MaxBackups: 3,
		},
	}
}

// NewConfigFromJSON parses incoming JSON on top of the defaults and returns a
// validated Config.
func NewConfigFromJSON(configJSON string) (*Config, error) {
	config := NewDefaultConfig()

	if err := loadConfigFromJSON(configJSON, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfig layers defaults, the given JSON files and the environment, in
// that order, and validates the result.
func LoadConfig(lookupEnv func(string) (string, bool), files ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, file := range files {
		if err := loadConfigFromFile(file, config); err != nil {
			return nil, err
		}
	}

	if err := config.LoadFromEnv(lookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadConfigFromJSON(configJSON string, config *Config) error {
	decoder := json.NewDecoder(strings.NewReader(configJSON))
	// override default configuration with values by JSON input
	return decoder.Decode(config)
}

func loadConfigFromFile(path string, config *Config) error {
	jsonConfig, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return loadConfigFromJSON(string(jsonConfig), config)
}

// LoadFromEnv overrides fields with any of the supported environment
// variables that are set and non empty.
func (c *Config) LoadFromEnv(lookupEnv func(string) (string, bool)) error {
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	get := func(key string) (string, bool) {
		value, ok := lookupEnv(key)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}

	if v, ok := get(EnvBackendURL); ok {
		c.Market.BackendURL = strings.TrimRight(v, "/")
	}
	if v, ok := get(EnvNFTContract); ok {
		c.Market.NFTContract = v
	}
	if v, ok := get(EnvMarketplaceContract); ok {
		c.Market.MarketplaceContract = v
	}
	if v, ok := get(EnvRPCURL); ok {
		c.Chain.RPCURLs = []string{v}
	}
	if v, ok := get(EnvChainID); ok {
		chainID, err := strconv.ParseUint(v, 0, 64)
		if err != nil {
			return fmt.Errorf("%s '%s' is invalid: %w", EnvChainID, v, err)
		}
		c.Chain.ChainID = chainID
	}
	if v, ok := get(EnvKeyStoreDir); ok {
		c.Wallet.KeyStoreDir = v
	}
	if v, ok := get(EnvAccount); ok {
		c.Wallet.Account = v
	}
	if v, ok := get(EnvPassword); ok {
		c.Wallet.Password = v
	}
	if v, ok := get(EnvLogLevel); ok {
		c.LogSettings.Level = v
	}
	return nil
}

// Validate checks if Config fields have valid values.
//
// It returns nil if there are no errors, otherwise one or more errors
// can be returned. Multiple errors are joined with a new line.
//
// A single error for a struct:
//
//	type TestStruct struct {
//	    TestField string `validate:"required"`
//	}
//
// has the following format:
//
//	Key: 'TestStruct.TestField' Error:Field validation for 'TestField' failed on the 'required' tag
func (c *Config) Validate() error {
	validate := NewValidator()

	if err := validate.Struct(c); err != nil {
		return err
	}

	if err := c.Chain.Validate(validate); err != nil {
		return err
	}

	if err := c.Market.Validate(validate); err != nil {
		return err
	}

	if walletCommon.SameAddress(c.Market.NFTContract, c.Market.MarketplaceContract) {
		return fmt.Errorf("MarketConfig.NFTContract and MarketConfig.MarketplaceContract must differ")
	}

	return nil
}

// String dumps config object as nicely indented JSON
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "    ") // nolint: gas
	return string(data)
}
