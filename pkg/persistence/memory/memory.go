package memory

import (
	"fmt"
	"sync"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
)

// MemoryJournal keeps records in process memory. Everything is lost when the process exits,
// which makes it useful for tests and dry runs.
type MemoryJournal struct {
	mu      sync.RWMutex
	records map[string]*persistence.TransactionRecord
	closed  bool
}

var _ persistence.ITransactionJournal = (*MemoryJournal)(nil)

func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{
		records: make(map[string]*persistence.TransactionRecord),
	}
}

// read and write run fn under the matching lock once the journal is known to be open.
func (m *MemoryJournal) read(fn func()) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return persistence.ErrClosed
	}
	fn()
	return nil
}

func (m *MemoryJournal) write(fn func()) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return persistence.ErrClosed
	}
	fn()
	return nil
}

func (m *MemoryJournal) SaveTransaction(record *persistence.TransactionRecord) error {
	if err := persistence.ValidateRecord(record); err != nil {
		return err
	}
	stored := record.Copy()
	return m.write(func() { m.records[stored.ID] = stored })
}

func (m *MemoryJournal) LoadTransaction(id string) (*persistence.TransactionRecord, error) {
	var found *persistence.TransactionRecord
	err := m.read(func() {
		if record, ok := m.records[id]; ok {
			found = record.Copy()
		}
	})
	return found, err
}

func (m *MemoryJournal) ListTransactions() ([]*persistence.TransactionRecord, error) {
	var all []*persistence.TransactionRecord
	err := m.read(func() {
		all = make([]*persistence.TransactionRecord, 0, len(m.records))
		for _, record := range m.records {
			all = append(all, record.Copy())
		}
	})
	if err != nil {
		return nil, err
	}
	persistence.SortRecords(all)
	return all, nil
}

func (m *MemoryJournal) DeleteTransaction(id string) error {
	return m.write(func() { delete(m.records, id) })
}

// Close drops every record. Closing twice is a no-op.
func (m *MemoryJournal) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.records = nil
	return nil
}

func (m *MemoryJournal) HealthCheck() error {
	if err := m.read(func() {}); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}
