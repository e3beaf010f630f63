package badger

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"go.uber.org/zap"
)

const (
	recordPrefix  = "journal:tx:"
	schemaKey     = "journal:schema"
	schemaVersion = "1"

	gcInterval     = 10 * time.Minute
	gcDiscardRatio = 0.5
)

// BadgerJournal is the on-disk journal, kept by default under <sdk-path>/journal.
type BadgerJournal struct {
	db     *badgerdb.DB
	logger *zap.Logger

	stopGC chan struct{}
	gcDone chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ persistence.ITransactionJournal = (*BadgerJournal)(nil)

// NewBadgerJournal opens the journal database at dataPath, creating it when missing.
// A database written by a different journal layout is refused.
func NewBadgerJournal(dataPath string, logger *zap.Logger) (*BadgerJournal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dir, err := filepath.Abs(dataPath)
	if err != nil {
		return nil, fmt.Errorf("invalid journal path %q: %w", dataPath, err)
	}

	opts := badgerdb.DefaultOptions(dir).
		WithLogger(newBadgerLogger(logger)).
		WithSyncWrites(true).
		WithNumVersionsToKeep(1).
		WithCompactL0OnClose(true)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal at %s: %w", dir, err)
	}
	if err := db.Update(ensureSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	j := &BadgerJournal{
		db:     db,
		logger: logger,
		stopGC: make(chan struct{}),
		gcDone: make(chan struct{}),
	}
	go j.collectGarbage()

	logger.Sugar().Debugw("Opened badger journal", "path", dir)
	return j, nil
}

func ensureSchema(txn *badgerdb.Txn) error {
	item, err := txn.Get([]byte(schemaKey))
	switch {
	case errors.Is(err, badgerdb.ErrKeyNotFound):
		return txn.Set([]byte(schemaKey), []byte(schemaVersion))
	case err != nil:
		return fmt.Errorf("failed to read journal schema: %w", err)
	}

	found, err := item.ValueCopy(nil)
	if err != nil {
		return fmt.Errorf("failed to read journal schema: %w", err)
	}
	if string(found) != schemaVersion {
		return fmt.Errorf("unsupported schema version %q, expected %q", found, schemaVersion)
	}
	return nil
}

func recordKey(id string) []byte {
	return []byte(recordPrefix + id)
}

// use hands the database to fn while holding the read lock, failing once the journal is closed.
func (j *BadgerJournal) use(fn func(db *badgerdb.DB) error) error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return persistence.ErrClosed
	}
	return fn(j.db)
}

func (j *BadgerJournal) SaveTransaction(record *persistence.TransactionRecord) error {
	if err := persistence.ValidateRecord(record); err != nil {
		return err
	}
	data, err := persistence.MarshalTransactionRecord(record)
	if err != nil {
		return err
	}

	err = j.use(func(db *badgerdb.DB) error {
		return db.Update(func(txn *badgerdb.Txn) error {
			return txn.SetEntry(badgerdb.NewEntry(recordKey(record.ID), data))
		})
	})
	if err != nil {
		return fmt.Errorf("failed to save journal record %s: %w", record.ID, err)
	}
	return nil
}

// LoadTransaction returns nil without error when no record has the given id.
func (j *BadgerJournal) LoadTransaction(id string) (*persistence.TransactionRecord, error) {
	var record *persistence.TransactionRecord

	err := j.use(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			item, err := txn.Get(recordKey(id))
			if errors.Is(err, badgerdb.ErrKeyNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			return item.Value(func(val []byte) error {
				record, err = persistence.UnmarshalTransactionRecord(val)
				return err
			})
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load journal record %s: %w", id, err)
	}
	return record, nil
}

// ListTransactions skips records that no longer decode, logging each one.
func (j *BadgerJournal) ListTransactions() ([]*persistence.TransactionRecord, error) {
	records := []*persistence.TransactionRecord{}

	err := j.use(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			prefix := []byte(recordPrefix)
			it := txn.NewIterator(badgerdb.DefaultIteratorOptions)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					record, err := persistence.UnmarshalTransactionRecord(val)
					if err != nil {
						j.logger.Sugar().Warnw("Skipping unreadable journal record",
							"key", string(item.Key()), "error", err)
						return nil
					}
					records = append(records, record)
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal records: %w", err)
	}

	persistence.SortRecords(records)
	return records, nil
}

func (j *BadgerJournal) DeleteTransaction(id string) error {
	err := j.use(func(db *badgerdb.DB) error {
		return db.Update(func(txn *badgerdb.Txn) error {
			return txn.Delete(recordKey(id))
		})
	})
	if err != nil {
		return fmt.Errorf("failed to delete journal record %s: %w", id, err)
	}
	return nil
}

// Close stops value log collection and closes the database. Closing twice is a no-op.
func (j *BadgerJournal) Close() error {
	j.mu.Lock()
	if j.closed {
		j.mu.Unlock()
		return nil
	}
	j.closed = true
	j.mu.Unlock()

	close(j.stopGC)
	<-j.gcDone

	if err := j.db.Close(); err != nil {
		return fmt.Errorf("failed to close journal: %w", err)
	}
	return nil
}

func (j *BadgerJournal) HealthCheck() error {
	return j.use(func(db *badgerdb.DB) error {
		return db.View(func(txn *badgerdb.Txn) error {
			if _, err := txn.Get([]byte(schemaKey)); err != nil {
				return fmt.Errorf("journal schema marker unreadable: %w", err)
			}
			return nil
		})
	})
}

func (j *BadgerJournal) collectGarbage() {
	defer close(j.gcDone)

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopGC:
			return
		case <-ticker.C:
			// each call rewrites at most one value log file
			for {
				err := j.db.RunValueLogGC(gcDiscardRatio)
				if err == nil {
					continue
				}
				if !errors.Is(err, badgerdb.ErrNoRewrite) {
					j.logger.Sugar().Warnw("Journal value log GC failed", "error", err)
				}
				break
			}
		}
	}
}
