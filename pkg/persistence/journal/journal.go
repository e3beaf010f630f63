package journal

import (
	"fmt"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/config"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/badger"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/memory"
	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence/redis"
	"go.uber.org/zap"
)

// NewJournal opens the journal backend selected by cfg
func NewJournal(cfg *config.JournalConfig, logger *zap.Logger) (persistence.ITransactionJournal, error) {
	if cfg == nil {
		return persistence.NoopJournal{}, nil
	}

	switch cfg.Type {
	case config.JournalTypeNone, "":
		return persistence.NoopJournal{}, nil
	case config.JournalTypeMemory:
		return memory.NewMemoryJournal(), nil
	case config.JournalTypeBadger:
		return badger.NewBadgerJournal(cfg.Path, logger)
	case config.JournalTypeRedis:
		return redis.NewRedisJournal(&redis.RedisConfig{
			Address:   cfg.RedisAddress,
			Password:  cfg.RedisPassword,
			DB:        cfg.RedisDB,
			KeyPrefix: cfg.KeyPrefix,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}
