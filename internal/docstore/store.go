// Package docstore provides document-oriented access to the backing store.
//
// Documents live in independent collections with no referential integrity
// between them. The store offers exactly two consistency primitives: a
// server-evaluated atomic increment on a single numeric field, and an
// all-or-nothing write batch. Everything else (cascades, aggregate counters,
// secondary indexes) is maintained by the layers above.
package docstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound is returned when a requested document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Collection names, matching the persisted keyspace layout.
const (
	Articles     = "articles"
	Comments     = "comments"
	Tags         = "tags"
	Categories   = "categories"
	Likes        = "likes"
	CommentLikes = "comment_likes"
	Follows      = "follows"
	Users        = "users"
)

// Store wraps the Redis client with document-oriented helpers.
type Store struct {
	rdb *redis.Client
}

// Open connects to the store at addr (host:port or redis:// URL) and verifies
// the connection.
func Open(addr string) (*Store, error) {
	var opts *redis.Options
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, err
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: addr}
	}

	client := redis.NewClient(opts)
	client.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Store{rdb: client}, nil
}

// New wraps an existing Redis client. Used by tests with miniredis.
func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Client exposes the underlying Redis client for collaborators that need
// raw access (rate limiting).
func (s *Store) Client() *redis.Client {
	return s.rdb
}

// Key builds the document key for a collection and id.
func Key(collection, id string) string {
	return collection + ":" + id
}

// Get fetches a document's fields. Returns ErrNotFound for missing documents.
func (s *Store) Get(ctx context.Context, collection, id string) (Fields, error) {
	vals, err := s.rdb.HGetAll(ctx, Key(collection, id)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}
	return Fields(vals), nil
}

// Exists reports whether a document exists.
func (s *Store) Exists(ctx context.Context, collection, id string) (bool, error) {
	n, err := s.rdb.Exists(ctx, Key(collection, id)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrField applies a store-atomic increment to a single numeric field of a
// single document, outside any batch. This is the counter ledger primitive
// for operations that touch exactly one aggregate (e.g. view counts).
func (s *Store) IncrField(ctx context.Context, collection, id, field string, delta int64) error {
	return s.rdb.HIncrBy(ctx, Key(collection, id), field, delta).Err()
}

// Members returns all members of an index set.
func (s *Store) Members(ctx context.Context, key string) ([]string, error) {
	return s.rdb.SMembers(ctx, key).Result()
}

// RangeAsc returns up to limit members of a sorted index, oldest first.
// A non-positive limit returns all members.
func (s *Store) RangeAsc(ctx context.Context, key string, limit int64) ([]string, error) {
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	return s.rdb.ZRange(ctx, key, 0, stop).Result()
}

// RangeDesc returns up to limit members of a sorted index, newest first.
// A non-positive limit returns all members.
func (s *Store) RangeDesc(ctx context.Context, key string, limit int64) ([]string, error) {
	stop := limit - 1
	if limit <= 0 {
		stop = -1
	}
	return s.rdb.ZRevRange(ctx, key, 0, stop).Result()
}

// Batch starts a new atomic write batch.
func (s *Store) Batch() *Batch {
	return &Batch{rdb: s.rdb}
}

// Ping verifies store connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *Store) Close() error {
	return s.rdb.Close()
}
