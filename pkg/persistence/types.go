package persistence

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/transaction"
	"golang.org/x/crypto/blake2b"
)

type TransactionStatus string

const (
	StatusSigned TransactionStatus = "signed"
	StatusSent   TransactionStatus = "sent"
	StatusFailed TransactionStatus = "failed"
)

var ErrClosed = fmt.Errorf("persistence layer is closed")

// TransactionRecord is a journal entry for one signed transaction
type TransactionRecord struct {
	// ID is the hex blake2b-256 digest of the signed transaction's submission JSON
	ID string `json:"id"`

	// Hash is the hash returned by the proxy once the transaction was accepted
	Hash string `json:"hash,omitempty"`

	Status      TransactionStatus        `json:"status"`
	Transaction *transaction.Transaction `json:"transaction"`

	// ContractAddress is set for deployments
	ContractAddress string `json:"contractAddress,omitempty"`

	Proxy     string    `json:"proxy,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ComputeRecordID returns the journal ID of a signed transaction
func ComputeRecordID(tx *transaction.Transaction) (string, error) {
	if tx == nil {
		return "", fmt.Errorf("cannot compute ID of nil transaction")
	}
	data, err := json.Marshal(tx)
	if err != nil {
		return "", fmt.Errorf("failed to marshal transaction: %w", err)
	}
	digest := blake2b.Sum256(data)
	return hex.EncodeToString(digest[:]), nil
}

// NewTransactionRecord creates a record in the signed state
func NewTransactionRecord(tx *transaction.Transaction, proxyURL string) (*TransactionRecord, error) {
	id, err := ComputeRecordID(tx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &TransactionRecord{
		ID:          id,
		Status:      StatusSigned,
		Transaction: tx.Copy(),
		Proxy:       proxyURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MarkSent records the hash the proxy returned
func (r *TransactionRecord) MarkSent(hash string) {
	r.Hash = hash
	r.Status = StatusSent
	r.Error = ""
	r.UpdatedAt = time.Now().UTC()
}

func (r *TransactionRecord) MarkFailed(err error) {
	r.Status = StatusFailed
	if err != nil {
		r.Error = err.Error()
	}
	r.UpdatedAt = time.Now().UTC()
}

// Copy returns a deep copy
func (r *TransactionRecord) Copy() *TransactionRecord {
	if r == nil {
		return nil
	}
	c := *r
	if r.Transaction != nil {
		c.Transaction = r.Transaction.Copy()
	}
	return &c
}

// SortRecords orders records by creation time, then ID
func SortRecords(records []*TransactionRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].ID < records[j].ID
		}
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})
}

func ValidateRecord(record *TransactionRecord) error {
	if record == nil {
		return fmt.Errorf("cannot save nil TransactionRecord")
	}
	if record.ID == "" {
		return fmt.Errorf("cannot save TransactionRecord without ID")
	}
	return nil
}
