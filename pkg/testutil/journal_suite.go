package testutil

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunJournalSuite exercises the behavior every ITransactionJournal backend shares.
// newJournal must return an empty journal.
func RunJournalSuite(t *testing.T, newJournal func(t *testing.T) persistence.ITransactionJournal) {
	t.Run("save and load", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		record := CreateTestRecord(t, 1)
		record.ContractAddress = "erd1qqqqqqqqqqqqqpgqak8zt22wl2ph4tswtyc39namqx6ysa2sd8ss4xmlj3"
		require.NoError(t, journal.SaveTransaction(record))

		loaded, err := journal.LoadTransaction(record.ID)
		require.NoError(t, err)
		require.NotNil(t, loaded)

		assert.Equal(t, record.ID, loaded.ID)
		assert.Equal(t, persistence.StatusSigned, loaded.Status)
		assert.Equal(t, record.ContractAddress, loaded.ContractAddress)
		assert.Equal(t, record.Transaction.Signature, loaded.Transaction.Signature)
		assert.Equal(t, record.Transaction.Nonce, loaded.Transaction.Nonce)
		assert.Equal(t, 0, record.Transaction.Value.Cmp(loaded.Transaction.Value))
		assert.True(t, record.CreatedAt.Equal(loaded.CreatedAt))

		id, err := persistence.ComputeRecordID(loaded.Transaction)
		require.NoError(t, err)
		assert.Equal(t, record.ID, id)
	})

	t.Run("load missing", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		loaded, err := journal.LoadTransaction("does-not-exist")
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("save nil", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		err := journal.SaveTransaction(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nil TransactionRecord")
	})

	t.Run("update replaces", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		record := CreateTestRecord(t, 2)
		require.NoError(t, journal.SaveTransaction(record))

		record.MarkSent("abcdef")
		require.NoError(t, journal.SaveTransaction(record))

		loaded, err := journal.LoadTransaction(record.ID)
		require.NoError(t, err)
		assert.Equal(t, persistence.StatusSent, loaded.Status)
		assert.Equal(t, "abcdef", loaded.Hash)

		all, err := journal.ListTransactions()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("list ordered", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		var ids []string
		for i, nonce := range []uint64{30, 10, 20} {
			record := CreateTestRecord(t, nonce)
			record.CreatedAt = base.Add(time.Duration(i) * time.Minute)
			ids = append(ids, record.ID)
			require.NoError(t, journal.SaveTransaction(record))
		}

		all, err := journal.ListTransactions()
		require.NoError(t, err)
		require.Len(t, all, 3)
		for i := range ids {
			assert.Equal(t, ids[i], all[i].ID)
		}
	})

	t.Run("list empty", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		all, err := journal.ListTransactions()
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("delete", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		record := CreateTestRecord(t, 3)
		require.NoError(t, journal.SaveTransaction(record))
		require.NoError(t, journal.DeleteTransaction(record.ID))

		loaded, err := journal.LoadTransaction(record.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)

		all, err := journal.ListTransactions()
		require.NoError(t, err)
		assert.Empty(t, all)

		require.NoError(t, journal.DeleteTransaction(record.ID))
	})

	t.Run("mutation isolation", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		record := CreateTestRecord(t, 4)
		require.NoError(t, journal.SaveTransaction(record))

		record.Status = persistence.StatusFailed
		record.Transaction.Nonce = 999

		loaded, err := journal.LoadTransaction(record.ID)
		require.NoError(t, err)
		assert.Equal(t, persistence.StatusSigned, loaded.Status)
		assert.Equal(t, uint64(4), loaded.Transaction.Nonce)
	})

	t.Run("health check and close", func(t *testing.T) {
		journal := newJournal(t)

		require.NoError(t, journal.HealthCheck())
		require.NoError(t, journal.Close())
		require.NoError(t, journal.Close())

		assert.Error(t, journal.HealthCheck())
		err := journal.SaveTransaction(CreateTestRecord(t, 5))
		assert.True(t, errors.Is(err, persistence.ErrClosed))
		_, err = journal.LoadTransaction("x")
		assert.True(t, errors.Is(err, persistence.ErrClosed))
		_, err = journal.ListTransactions()
		assert.True(t, errors.Is(err, persistence.ErrClosed))
		assert.True(t, errors.Is(journal.DeleteTransaction("x"), persistence.ErrClosed))
	})

	t.Run("concurrent saves", func(t *testing.T) {
		journal := newJournal(t)
		defer func() { _ = journal.Close() }()

		records := make([]*persistence.TransactionRecord, 10)
		for i := range records {
			records[i] = CreateTestRecord(t, uint64(100+i))
		}

		var wg sync.WaitGroup
		errs := make(chan error, len(records))
		for _, record := range records {
			wg.Add(1)
			go func(r *persistence.TransactionRecord) {
				defer wg.Done()
				errs <- journal.SaveTransaction(r)
			}(record)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}

		all, err := journal.ListTransactions()
		require.NoError(t, err)
		assert.Len(t, all, len(records))
	})
}
