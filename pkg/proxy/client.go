package proxy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RetryConfig configures retry behavior for idempotent requests
type RetryConfig struct {
	MaxAttempts     int
	InitialBackoff  time.Duration
	MaxBackoff      time.Duration
	BackoffMultiple float64
}

var DefaultRetryConfig = RetryConfig{
	MaxAttempts:     3,
	InitialBackoff:  200 * time.Millisecond,
	MaxBackoff:      2 * time.Second,
	BackoffMultiple: 2.0,
}

// IProxy is the part of the proxy API erdpy relies on
type IProxy interface {
	GetAccount(ctx context.Context, address string) (*Account, error)
	GetAccountBalance(ctx context.Context, address string) (*big.Int, error)
	GetAccountNonce(ctx context.Context, address string) (uint64, error)
	GetNetworkConfig(ctx context.Context) (*NetworkConfig, error)
	GetNumShards(ctx context.Context) (uint32, error)
	GetGasPrice(ctx context.Context) (uint64, error)
	GetChainID(ctx context.Context) (string, error)
	GetLastBlockNonce(ctx context.Context, shardID uint32) (uint64, error)
	SendTransaction(ctx context.Context, tx *transaction.Transaction) (string, error)
	EstimateTransactionCost(ctx context.Context, tx *transaction.Transaction) (uint64, error)
	QueryContract(ctx context.Context, req *QueryRequest) (*QueryResponse, error)
	GetTransactionStatus(ctx context.Context, hash string) (string, error)
}

type ClientConfig struct {
	URL               string
	Logger            *zap.Logger
	HTTPClient        *http.Client
	RequestsPerSecond float64
	Retry             *RetryConfig
}

// Client talks to a proxy's REST API
type Client struct {
	baseURL     string
	httpClient  *http.Client
	limiter     *rate.Limiter
	retryConfig RetryConfig
	logger      *zap.Logger
}

func NewClient(config *ClientConfig) (*Client, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if config.URL == "" {
		return nil, fmt.Errorf("proxy URL is required")
	}

	c := &Client{
		baseURL:     strings.TrimRight(config.URL, "/"),
		httpClient:  config.HTTPClient,
		limiter:     rate.NewLimiter(rate.Inf, 1),
		retryConfig: DefaultRetryConfig,
		logger:      config.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if config.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1)
	}
	if config.Retry != nil {
		c.retryConfig = *config.Retry
	}
	if c.retryConfig.MaxAttempts < 1 {
		c.retryConfig.MaxAttempts = 1
	}
	return c, nil
}

func (c *Client) URL() string {
	return c.baseURL
}

func (c *Client) GetAccount(ctx context.Context, address string) (*Account, error) {
	var res struct {
		Account Account `json:"account"`
	}
	if err := c.get(ctx, "/address/"+address, &res); err != nil {
		return nil, err
	}
	return &res.Account, nil
}

func (c *Client) GetAccountBalance(ctx context.Context, address string) (*big.Int, error) {
	var res struct {
		Balance string `json:"balance"`
	}
	if err := c.get(ctx, "/address/"+address+"/balance", &res); err != nil {
		return nil, err
	}
	balance, ok := new(big.Int).SetString(res.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("proxy returned invalid balance %q", res.Balance)
	}
	return balance, nil
}

func (c *Client) GetAccountNonce(ctx context.Context, address string) (uint64, error) {
	var res struct {
		Nonce uint64 `json:"nonce"`
	}
	if err := c.get(ctx, "/address/"+address+"/nonce", &res); err != nil {
		return 0, err
	}
	return res.Nonce, nil
}

func (c *Client) GetNetworkConfig(ctx context.Context) (*NetworkConfig, error) {
	var res struct {
		Config NetworkConfig `json:"config"`
	}
	if err := c.get(ctx, "/network/config", &res); err != nil {
		return nil, err
	}
	return &res.Config, nil
}

func (c *Client) GetNumShards(ctx context.Context) (uint32, error) {
	cfg, err := c.GetNetworkConfig(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.NumShards, nil
}

func (c *Client) GetGasPrice(ctx context.Context) (uint64, error) {
	cfg, err := c.GetNetworkConfig(ctx)
	if err != nil {
		return 0, err
	}
	return cfg.MinGasPrice, nil
}

func (c *Client) GetChainID(ctx context.Context) (string, error) {
	cfg, err := c.GetNetworkConfig(ctx)
	if err != nil {
		return "", err
	}
	return cfg.ChainID, nil
}

// GetLastBlockNonce returns the highest final nonce of a shard
func (c *Client) GetLastBlockNonce(ctx context.Context, shardID uint32) (uint64, error) {
	var res struct {
		Status NetworkStatus `json:"status"`
	}
	if err := c.get(ctx, fmt.Sprintf("/network/status/%d", shardID), &res); err != nil {
		return 0, err
	}
	return res.Status.Nonce, nil
}

// SendTransaction submits a signed transaction and returns its hash. It is never retried.
func (c *Client) SendTransaction(ctx context.Context, tx *transaction.Transaction) (string, error) {
	if !tx.Signed() {
		return "", fmt.Errorf("refusing to send unsigned transaction")
	}
	var res struct {
		TxHash string `json:"txHash"`
	}
	if err := c.post(ctx, "/transaction/send", tx, &res); err != nil {
		return "", err
	}
	return res.TxHash, nil
}

func (c *Client) EstimateTransactionCost(ctx context.Context, tx *transaction.Transaction) (uint64, error) {
	var res struct {
		TxGasUnits uint64 `json:"txGasUnits"`
	}
	if err := c.post(ctx, "/transaction/cost", tx, &res); err != nil {
		return 0, err
	}
	return res.TxGasUnits, nil
}

func (c *Client) QueryContract(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	if req.Args == nil {
		req.Args = []string{}
	}
	var res struct {
		Data QueryResponse `json:"data"`
	}
	if err := c.post(ctx, "/vm-values/query", req, &res); err != nil {
		return nil, err
	}
	return &res.Data, nil
}

func (c *Client) GetTransactionStatus(ctx context.Context, hash string) (string, error) {
	var res struct {
		Status string `json:"status"`
	}
	if err := c.get(ctx, "/transaction/"+hash+"/status", &res); err != nil {
		return "", err
	}
	return res.Status, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	backoff := c.retryConfig.InitialBackoff
	var lastErr error
	for attempt := 0; attempt < c.retryConfig.MaxAttempts; attempt++ {
		retryable, err := c.do(ctx, http.MethodGet, path, nil, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !retryable || attempt == c.retryConfig.MaxAttempts-1 {
			break
		}

		c.logger.Sugar().Debugw("Retrying proxy request", "path", path, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff = time.Duration(float64(backoff) * c.retryConfig.BackoffMultiple)
		if backoff > c.retryConfig.MaxBackoff {
			backoff = c.retryConfig.MaxBackoff
		}
	}
	return lastErr
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request for %s: %w", path, err)
	}
	_, err = c.do(ctx, http.MethodPost, path, data, out)
	return err
}

// do performs a single request and decodes the envelope's data into out. The boolean reports
// whether the failure is worth retrying.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Sugar().Debugw("Proxy request", "method", method, "path", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		return true, fmt.Errorf("failed to reach proxy at %s: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return true, fmt.Errorf("failed to read response for %s: %w", path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (decodeErr == nil && env.Error != "") {
		errResp := &ErrorResponse{Path: path, StatusCode: resp.StatusCode}
		if decodeErr == nil {
			errResp.Code = env.Code
			errResp.Message = env.Error
		}
		return resp.StatusCode >= 500, errResp
	}
	if decodeErr != nil {
		return false, fmt.Errorf("failed to decode response for %s: %w", path, decodeErr)
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return false, fmt.Errorf("failed to decode data for %s: %w", path, err)
		}
	}
	return false, nil
}
