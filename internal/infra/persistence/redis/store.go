// Package redis persists the ledger as five plain string keys in Redis, one
// per bucket, mirroring a flat key/value storage area.
package redis

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"

	"donorledger/internal/infra/persistence/memory"
	"donorledger/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// DefaultPrefix namespaces the bucket keys when no prefix is configured.
const DefaultPrefix = "donorledger:"

// Options configures the Redis connection used by Open.
type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Store keeps the ledger in memory and writes every bucket to Redis after
// each successful transaction.
type Store struct {
	*memory.Store
	client *goredis.Client
	prefix string
	mu     sync.Mutex
}

// Open dials Redis with opts and returns a hydrated store.
func Open(ctx context.Context, opts Options, engine *domain.RulesEngine, memOpts ...memory.Option) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	s, err := NewStore(ctx, client, opts.Prefix, engine, memOpts...)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an existing client. Keys are prefix + bucket name.
func NewStore(ctx context.Context, client *goredis.Client, prefix string, engine *domain.RulesEngine, opts ...memory.Option) (*Store, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	s := &Store{Store: memory.NewStore(engine, opts...), client: client, prefix: prefix}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the Redis key holding bucket.
func (s *Store) Key(bucket string) string {
	return s.prefix + bucket
}

func (s *Store) load(ctx context.Context) error {
	buckets := domain.Buckets()
	keys := make([]string, len(buckets))
	for i, bucket := range buckets {
		keys[i] = s.Key(bucket)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("load redis state: %w", err)
	}
	raw := make(map[string][]byte)
	for i, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		raw[buckets[i]] = []byte(str)
	}
	if len(raw) == 0 {
		return nil
	}
	snapshot, err := memory.DecodeBuckets(raw)
	if err != nil {
		return err
	}
	s.ImportState(snapshot)
	return nil
}

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buckets, err := memory.EncodeBuckets(s.ExportState())
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, bucket := range domain.Buckets() {
			pipe.Set(ctx, s.Key(bucket), buckets[bucket], 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write redis state: %w", err)
	}
	return nil
}

// RunInTransaction applies fn in memory, then writes every bucket to Redis if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// ReplaceState imports snapshot and flushes it immediately.
func (s *Store) ReplaceState(ctx context.Context, snapshot domain.Snapshot) error {
	s.ImportState(snapshot)
	return s.persist(ctx)
}

// Close closes the underlying client.
func (s *Store) Close() error { return s.client.Close() }
