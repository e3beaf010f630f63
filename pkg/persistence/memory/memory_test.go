package memory

import (
	"testing"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/testutil"
)

func TestMemoryJournal(t *testing.T) {
	testutil.RunJournalSuite(t, func(t *testing.T) persistence.ITransactionJournal {
		return NewMemoryJournal()
	})
}
