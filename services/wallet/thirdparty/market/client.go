package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	validator "gopkg.in/go-playground/validator.v9"

	"github.com/status-im/nft-market/circuitbreaker"
	"github.com/status-im/nft-market/logutils"
	"github.com/status-im/nft-market/params"
	"github.com/status-im/nft-market/services/wallet/connection"
	"github.com/status-im/nft-market/services/wallet/thirdparty"
)

const (
	nftsPath  = "/api/nfts"
	buyPath   = "/api/buy"
	orderPath = "/api/order"
)

var (
	ErrInvalidResponse = errors.New("backend response is not valid JSON")
	ErrInvalidPayload  = errors.New("request payload is not valid JSON")
)

// Client talks to the marketplace backend REST service.
type Client struct {
	client           *thirdparty.HTTPClient
	baseURL          string
	connectionStatus *connection.Status
	circuitBreaker   *circuitbreaker.CircuitBreaker
	validate         *validator.Validate
	logger           *zap.Logger
}

func NewClient(baseURL string, httpClient *thirdparty.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = thirdparty.NewHTTPClient()
	}
	return &Client{
		client:           httpClient,
		baseURL:          strings.TrimRight(baseURL, "/"),
		connectionStatus: connection.NewStatus(),
		validate:         params.NewValidator(),
		logger:           logutils.ZapLogger().Named("MarketBackend"),
	}
}

func (c *Client) IsConnected() bool {
	return c.connectionStatus.IsConnected()
}

// SetStatusChangeCb is called whenever the backend becomes reachable or
// unreachable.
func (c *Client) SetStatusChangeCb(cb connection.StateChangeCb) {
	c.connectionStatus.SetStateChangeCb(cb)
}

// SetCircuitBreaker makes every request run in a circuit named after its
// URL, so a backend that keeps failing is not hammered.
func (c *Client) SetCircuitBreaker(cb *circuitbreaker.CircuitBreaker) {
	c.circuitBreaker = cb
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) execute(ctx context.Context, url string, fn func(ctx context.Context) error) error {
	if c.circuitBreaker == nil {
		return fn(ctx)
	}
	return c.circuitBreaker.Execute(ctx, url, fn)
}

// track records reachability. Any HTTP answer, even an error status, means
// the backend is up.
func (c *Client) track(err error) {
	var apiErr *thirdparty.APIError
	c.connectionStatus.SetIsConnected(err == nil || errors.As(err, &apiErr))
}

// FetchNFTs returns the whole catalog. Records that cannot be decoded are
// logged and left out.
func (c *Client) FetchNFTs(ctx context.Context) ([]CatalogEntry, error) {
	url := c.url(nftsPath)
	bodies := make(chan []byte, 1)
	err := c.execute(ctx, url, func(ctx context.Context) error {
		body, err := c.client.DoGetRequest(ctx, url, nil, nil)
		c.track(err)
		if err != nil {
			return err
		}
		bodies <- body
		return nil
	})
	if err != nil {
		return nil, err
	}
	body := <-bodies
	if !json.Valid(body) {
		return nil, ErrInvalidResponse
	}

	var response nftsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	entries := make([]CatalogEntry, 0, len(response.NFTs))
	for i, raw := range response.NFTs {
		var entry CatalogEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Warn("skipping catalog record", zap.Int("index", i), zap.Error(err))
			continue
		}
		entries = append(entries, entry)
	}
	c.logger.Debug("catalog fetched", zap.Int("count", len(entries)), zap.Int("records", len(response.NFTs)))
	return entries, nil
}

// NotifyBuy reports a completed purchase.
func (c *Client) NotifyBuy(ctx context.Context, req BuyRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return err
	}
	return c.post(ctx, buyPath, req)
}

// PostOrder stores a signed listing.
func (c *Client) PostOrder(ctx context.Context, req OrderRequest) error {
	if err := c.validate.Struct(req); err != nil {
		return err
	}
	if !json.Valid(req.SeaportOrder) {
		return fmt.Errorf("seaport_order: %w", ErrInvalidPayload)
	}
	return c.post(ctx, orderPath, req)
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	url := c.url(path)
	err := c.execute(ctx, url, func(ctx context.Context) error {
		_, err := c.client.DoPostRequest(ctx, url, payload, nil)
		c.track(err)
		return err
	})
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("path", path), zap.Error(err))
		return err
	}
	return nil
}
