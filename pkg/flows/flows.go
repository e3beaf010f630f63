package flows

import (
	"context"
	"fmt"
	"math/big"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/account"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/address"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/proxy"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/signing"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"go.uber.org/zap"
)

type FlowsConfig struct {
	Proxy   proxy.IProxy
	Facade  *signing.Facade
	Journal persistence.ITransactionJournal

	// ProxyURL is only recorded in journal entries
	ProxyURL string

	// ChainID overrides the chain ID reported by the proxy
	ChainID string

	TxVersion uint32
	Logger    *zap.Logger
}

// Flows implements the multi-step operations behind erdpy's commands
type Flows struct {
	proxy     proxy.IProxy
	facade    *signing.Facade
	journal   persistence.ITransactionJournal
	proxyURL  string
	chainID   string
	txVersion uint32
	logger    *zap.Logger
}

func NewFlows(cfg *FlowsConfig) (*Flows, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Proxy == nil {
		return nil, fmt.Errorf("proxy is required")
	}
	f := &Flows{
		proxy:     cfg.Proxy,
		facade:    cfg.Facade,
		journal:   cfg.Journal,
		proxyURL:  cfg.ProxyURL,
		chainID:   cfg.ChainID,
		txVersion: cfg.TxVersion,
		logger:    cfg.Logger,
	}
	if f.facade == nil {
		f.facade = signing.NewFacade(nil)
	}
	if f.journal == nil {
		f.journal = persistence.NoopJournal{}
	}
	if f.txVersion == 0 {
		f.txVersion = transaction.DefaultVersion
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	return f, nil
}

// SendResult describes a submitted transaction
type SendResult struct {
	TxHash          string                   `json:"txHash"`
	JournalID       string                   `json:"journalId"`
	ContractAddress string                   `json:"contractAddress,omitempty"`
	Transaction     *transaction.Transaction `json:"transaction"`
}

// GasSettings carries the gas fields shared by deploys and calls
type GasSettings struct {
	GasPrice uint64
	GasLimit uint64
}

func (f *Flows) resolveChainID(ctx context.Context) (string, error) {
	if f.chainID != "" {
		return f.chainID, nil
	}
	chainID, err := f.proxy.GetChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chain ID: %w", err)
	}
	return chainID, nil
}

// checkSigner makes sure the declared sender is the account whose key signs
func checkSigner(declared string, acc account.IAccount) error {
	if declared == "" {
		return nil
	}
	addr, err := address.Parse(declared)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", declared, err)
	}
	if addr.Bech32() != acc.Address() {
		return fmt.Errorf("address %s does not match the key file, which belongs to %s", declared, acc.Address())
	}
	return nil
}

type unsignedRequest struct {
	account  account.IAccount
	receiver string
	value    *big.Int
	data     string
	gas      GasSettings
}

func (f *Flows) buildTransaction(ctx context.Context, req *unsignedRequest) (*transaction.Transaction, error) {
	nonce, err := f.proxy.GetAccountNonce(ctx, req.account.Address())
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce of %s: %w", req.account.Address(), err)
	}
	chainID, err := f.resolveChainID(ctx)
	if err != nil {
		return nil, err
	}

	return transaction.NewBuilder().
		WithNonce(nonce).
		WithValue(req.value).
		WithSender(req.account.Address()).
		WithReceiver(req.receiver).
		WithGasPrice(req.gas.GasPrice).
		WithGasLimit(req.gas.GasLimit).
		WithData([]byte(req.data)).
		WithChainID(chainID).
		WithVersion(f.txVersion).
		Build()
}

// SignTransaction signs tx with acc after checking that acc is the sender
func (f *Flows) SignTransaction(tx *transaction.Transaction, acc account.IAccount) (*transaction.Transaction, error) {
	if err := checkSigner(tx.Sender, acc); err != nil {
		return nil, err
	}
	return f.facade.SignTransaction(tx.WithoutSignature(), acc)
}

// SendTransaction verifies, journals and submits a signed transaction
func (f *Flows) SendTransaction(ctx context.Context, tx *transaction.Transaction) (*SendResult, error) {
	return f.send(ctx, tx, "")
}

func (f *Flows) send(ctx context.Context, tx *transaction.Transaction, contractAddress string) (*SendResult, error) {
	if err := f.facade.VerifyTransaction(tx); err != nil {
		return nil, fmt.Errorf("refusing to send transaction: %w", err)
	}

	record, err := persistence.NewTransactionRecord(tx, f.proxyURL)
	if err != nil {
		return nil, err
	}
	record.ContractAddress = contractAddress
	if err := f.journal.SaveTransaction(record); err != nil {
		return nil, fmt.Errorf("failed to journal transaction: %w", err)
	}

	hash, sendErr := f.proxy.SendTransaction(ctx, tx)
	if sendErr != nil {
		record.MarkFailed(sendErr)
	} else {
		record.MarkSent(hash)
	}
	if err := f.journal.SaveTransaction(record); err != nil {
		f.logger.Sugar().Warnw("Failed to update journal", "id", record.ID, "error", err)
	}
	if sendErr != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", sendErr)
	}

	f.logger.Sugar().Infow("Transaction sent", "hash", hash, "nonce", tx.Nonce, "receiver", tx.Receiver)
	return &SendResult{
		TxHash:          hash,
		JournalID:       record.ID,
		ContractAddress: contractAddress,
		Transaction:     tx,
	}, nil
}
