package persistence

// ITransactionJournal records the transactions erdpy signs and submits, so a failed or
// interrupted send can be inspected later with `erdpy journal`.
// Implementations must be safe for concurrent use.
type ITransactionJournal interface {
	// SaveTransaction stores the record under its ID, replacing any previous record with that ID.
	SaveTransaction(record *TransactionRecord) error

	// LoadTransaction returns nil when no record exists; errors are storage failures only.
	LoadTransaction(id string) (*TransactionRecord, error)

	// ListTransactions returns every record ordered by creation time, oldest first.
	ListTransactions() ([]*TransactionRecord, error)

	// DeleteTransaction is idempotent.
	DeleteTransaction(id string) error

	// Close is idempotent. Every other operation fails after Close.
	Close() error

	HealthCheck() error
}
