package journal

import (
	"path/filepath"
	"testing"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/badger"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJournal(t *testing.T) {
	logger := zap.NewNop()

	j, err := NewJournal(nil, logger)
	require.NoError(t, err)
	assert.IsType(t, persistence.NoopJournal{}, j)

	j, err = NewJournal(&config.JournalConfig{Type: config.JournalTypeNone}, logger)
	require.NoError(t, err)
	assert.IsType(t, persistence.NoopJournal{}, j)

	j, err = NewJournal(&config.JournalConfig{Type: config.JournalTypeMemory}, logger)
	require.NoError(t, err)
	assert.IsType(t, &memory.MemoryJournal{}, j)
	require.NoError(t, j.Close())

	j, err = NewJournal(&config.JournalConfig{Type: config.JournalTypeBadger, Path: filepath.Join(t.TempDir(), "journal")}, logger)
	require.NoError(t, err)
	assert.IsType(t, &badger.BadgerJournal{}, j)
	require.NoError(t, j.HealthCheck())
	require.NoError(t, j.Close())

	_, err = NewJournal(&config.JournalConfig{Type: config.JournalTypeRedis}, logger)
	assert.Error(t, err)

	_, err = NewJournal(&config.JournalConfig{Type: "sqlite"}, logger)
	assert.Error(t, err)
}
