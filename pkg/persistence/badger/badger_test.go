package badger

import (
	"testing"

	badgerdb "github.com/dgraph-io/badger/v3"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/logger"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBadgerJournal(t *testing.T) {
	testutil.RunJournalSuite(t, func(t *testing.T) persistence.ITransactionJournal {
		testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
		bj, err := NewBadgerJournal(t.TempDir(), testLogger)
		require.NoError(t, err)
		return bj
	})
}

func TestBadgerJournal_SurvivesReopen(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bj, err := NewBadgerJournal(tmpDir, testLogger)
	require.NoError(t, err)

	record := testutil.CreateTestRecord(t, 1)
	record.MarkSent("abcdef")
	require.NoError(t, bj.SaveTransaction(record))
	require.NoError(t, bj.Close())

	reopened, err := NewBadgerJournal(tmpDir, testLogger)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	loaded, err := reopened.LoadTransaction(record.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "abcdef", loaded.Hash)
	assert.Equal(t, persistence.StatusSent, loaded.Status)
}

func TestBadgerJournal_RejectsUnknownSchema(t *testing.T) {
	tmpDir := t.TempDir()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})

	bj, err := NewBadgerJournal(tmpDir, testLogger)
	require.NoError(t, err)
	require.NoError(t, bj.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(schemaKey), []byte("0"))
	}))
	require.NoError(t, bj.Close())

	_, err = NewBadgerJournal(tmpDir, testLogger)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported schema version")
}
