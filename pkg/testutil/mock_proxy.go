package testutil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
)

// MockProxy implements proxy.IProxy in memory. Accounts not present in Accounts have nonce 0
// and balance 0.
type MockProxy struct {
	mu sync.Mutex

	Accounts      map[string]*proxy.Account
	NetworkConfig proxy.NetworkConfig
	ShardNonces   map[uint32]uint64
	QueryResponse *proxy.QueryResponse
	GasUnits      uint64

	// SendErr, when set, is returned by SendTransaction
	SendErr error

	Sent    []*transaction.Transaction
	Queries []*proxy.QueryRequest
}

var _ proxy.IProxy = (*MockProxy)(nil)

func NewMockProxy() *MockProxy {
	return &MockProxy{
		Accounts: make(map[string]*proxy.Account),
		NetworkConfig: proxy.NetworkConfig{
			ChainID:               "local-testnet",
			NumShards:             2,
			MinGasPrice:           1000000000,
			MinGasLimit:           50000,
			MinTransactionVersion: 1,
		},
		ShardNonces: map[uint32]uint64{0: 100, 1: 101, proxy.MetachainShardID: 99},
		GasUnits:    50000,
	}
}

func (m *MockProxy) account(address string) proxy.Account {
	if acc, ok := m.Accounts[address]; ok {
		return *acc
	}
	return proxy.Account{Address: address, Balance: "0"}
}

func (m *MockProxy) GetAccount(_ context.Context, address string) (*proxy.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	acc := m.account(address)
	return &acc, nil
}

func (m *MockProxy) GetAccountBalance(_ context.Context, address string) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	balance, ok := new(big.Int).SetString(m.account(address).Balance, 10)
	if !ok {
		return nil, fmt.Errorf("invalid balance")
	}
	return balance, nil
}

func (m *MockProxy) GetAccountNonce(_ context.Context, address string) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.account(address).Nonce, nil
}

func (m *MockProxy) GetNetworkConfig(_ context.Context) (*proxy.NetworkConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.NetworkConfig
	return &cfg, nil
}

func (m *MockProxy) GetNumShards(ctx context.Context) (uint32, error) {
	cfg, _ := m.GetNetworkConfig(ctx)
	return cfg.NumShards, nil
}

func (m *MockProxy) GetGasPrice(ctx context.Context) (uint64, error) {
	cfg, _ := m.GetNetworkConfig(ctx)
	return cfg.MinGasPrice, nil
}

func (m *MockProxy) GetChainID(ctx context.Context) (string, error) {
	cfg, _ := m.GetNetworkConfig(ctx)
	return cfg.ChainID, nil
}

func (m *MockProxy) GetLastBlockNonce(_ context.Context, shardID uint32) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	nonce, ok := m.ShardNonces[shardID]
	if !ok {
		return 0, &proxy.ErrorResponse{Path: fmt.Sprintf("/network/status/%d", shardID), StatusCode: 404}
	}
	return nonce, nil
}

func (m *MockProxy) SendTransaction(_ context.Context, tx *transaction.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return "", m.SendErr
	}
	m.Sent = append(m.Sent, tx.Copy())
	return fmt.Sprintf("hash-%d", tx.Nonce), nil
}

func (m *MockProxy) EstimateTransactionCost(_ context.Context, _ *transaction.Transaction) (uint64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.GasUnits, nil
}

func (m *MockProxy) QueryContract(_ context.Context, req *proxy.QueryRequest) (*proxy.QueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, req)
	if m.QueryResponse == nil {
		return &proxy.QueryResponse{ReturnCode: "ok"}, nil
	}
	return m.QueryResponse, nil
}

func (m *MockProxy) GetTransactionStatus(_ context.Context, _ string) (string, error) {
	return "executed", nil
}

// SentTransactions returns a snapshot of everything sent so far
func (m *MockProxy) SentTransactions() []*transaction.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*transaction.Transaction{}, m.Sent...)
}
