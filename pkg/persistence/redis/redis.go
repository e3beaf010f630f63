package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kwrooijen/elrond-sdk-erdpy/pkg/persistence"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	recordsKey    = "erdpy:journal:records"
	schemaKey     = "erdpy:journal:schema"
	schemaVersion = "1"

	defaultTimeout = 5 * time.Second
)

// RedisConfig holds the connection settings for a shared journal.
type RedisConfig struct {
	// Address is host:port
	Address  string
	Password string
	DB       int
	// KeyPrefix namespaces the journal, e.g. "team-a:" gives "team-a:erdpy:journal:records"
	KeyPrefix string
	// Timeout bounds each round trip, 5s when unset
	Timeout time.Duration
}

// RedisJournal keeps every record as a field of one hash keyed by record id, so several
// machines pointed at the same server and prefix share a journal.
type RedisJournal struct {
	client  *redis.Client
	logger  *zap.Logger
	records string
	schema  string
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
}

var _ persistence.ITransactionJournal = (*RedisJournal)(nil)

func NewRedisJournal(cfg *RedisConfig, logger *zap.Logger) (*RedisJournal, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis config cannot be nil")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis address cannot be empty")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	j := &RedisJournal{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Address,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		logger:  logger,
		records: cfg.KeyPrefix + recordsKey,
		schema:  cfg.KeyPrefix + schemaKey,
		timeout: cfg.Timeout,
	}
	if j.timeout <= 0 {
		j.timeout = defaultTimeout
	}

	err := j.run(func(ctx context.Context) error {
		if err := j.client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis at %s: %w", cfg.Address, err)
		}
		return j.checkSchema(ctx)
	})
	if err != nil {
		_ = j.client.Close()
		return nil, err
	}

	logger.Sugar().Debugw("Connected redis journal", "address", cfg.Address, "db", cfg.DB, "key", j.records)
	return j, nil
}

// checkSchema claims the schema marker for a fresh journal and refuses a foreign one.
func (j *RedisJournal) checkSchema(ctx context.Context) error {
	if err := j.client.SetNX(ctx, j.schema, schemaVersion, 0).Err(); err != nil {
		return fmt.Errorf("failed to write journal schema: %w", err)
	}
	found, err := j.client.Get(ctx, j.schema).Result()
	if err != nil {
		return fmt.Errorf("failed to read journal schema: %w", err)
	}
	if found != schemaVersion {
		return fmt.Errorf("unsupported schema version %q, expected %q", found, schemaVersion)
	}
	return nil
}

// run calls fn with a deadline-bound context unless the journal is closed.
func (j *RedisJournal) run(fn func(ctx context.Context) error) error {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if j.closed {
		return persistence.ErrClosed
	}

	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	return fn(ctx)
}

func (j *RedisJournal) SaveTransaction(record *persistence.TransactionRecord) error {
	if err := persistence.ValidateRecord(record); err != nil {
		return err
	}
	data, err := persistence.MarshalTransactionRecord(record)
	if err != nil {
		return err
	}

	err = j.run(func(ctx context.Context) error {
		return j.client.HSet(ctx, j.records, record.ID, data).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to save journal record %s: %w", record.ID, err)
	}
	return nil
}

// LoadTransaction returns nil without error when no record has the given id.
func (j *RedisJournal) LoadTransaction(id string) (*persistence.TransactionRecord, error) {
	var data []byte

	err := j.run(func(ctx context.Context) error {
		var err error
		data, err = j.client.HGet(ctx, j.records, id).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load journal record %s: %w", id, err)
	}
	if data == nil {
		return nil, nil
	}
	return persistence.UnmarshalTransactionRecord(data)
}

func (j *RedisJournal) ListTransactions() ([]*persistence.TransactionRecord, error) {
	var fields map[string]string

	err := j.run(func(ctx context.Context) error {
		var err error
		fields, err = j.client.HGetAll(ctx, j.records).Result()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal records: %w", err)
	}

	records := make([]*persistence.TransactionRecord, 0, len(fields))
	for id, raw := range fields {
		record, err := persistence.UnmarshalTransactionRecord([]byte(raw))
		if err != nil {
			j.logger.Sugar().Warnw("Skipping unreadable journal record", "id", id, "error", err)
			continue
		}
		records = append(records, record)
	}

	persistence.SortRecords(records)
	return records, nil
}

func (j *RedisJournal) DeleteTransaction(id string) error {
	err := j.run(func(ctx context.Context) error {
		return j.client.HDel(ctx, j.records, id).Err()
	})
	if err != nil {
		return fmt.Errorf("failed to delete journal record %s: %w", id, err)
	}
	return nil
}

// Close releases the connection pool. Closing twice is a no-op.
func (j *RedisJournal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true

	if err := j.client.Close(); err != nil {
		return fmt.Errorf("failed to close redis client: %w", err)
	}
	return nil
}

func (j *RedisJournal) HealthCheck() error {
	return j.run(func(ctx context.Context) error {
		n, err := j.client.Exists(ctx, j.schema).Result()
		if err != nil {
			return fmt.Errorf("redis health check failed: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("journal schema marker %s is missing", j.schema)
		}
		return nil
	})
}
