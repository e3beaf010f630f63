package persistence

// NoopJournal discards every record. It backs the "none" journal type.
type NoopJournal struct{}

var _ ITransactionJournal = NoopJournal{}

func (NoopJournal) SaveTransaction(record *TransactionRecord) error {
	return ValidateRecord(record)
}

func (NoopJournal) LoadTransaction(string) (*TransactionRecord, error) {
	return nil, nil
}

func (NoopJournal) ListTransactions() ([]*TransactionRecord, error) {
	return []*TransactionRecord{}, nil
}

func (NoopJournal) DeleteTransaction(string) error {
	return nil
}

func (NoopJournal) Close() error {
	return nil
}

func (NoopJournal) HealthCheck() error {
	return nil
}
