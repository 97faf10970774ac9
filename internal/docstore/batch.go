package docstore

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"inkwell/internal/observability"
)

// Batch collects document writes, counter adjustments and index maintenance
// into one all-or-nothing unit. All operations are queued client-side and
// submitted in a single MULTI/EXEC transaction: either every write commits or
// none does. A batch contains no reads; every read used to decide its
// contents must happen before the batch is built.
//
// Increment operations are evaluated by the store, so concurrent adjustments
// to the same field from independent batches serialize without lost updates.
// Increments do not clamp: callers must only decrement counters for entities
// they have just confirmed exist, exactly once per confirmed entity.
type Batch struct {
	rdb *redis.Client
	ops []func(context.Context, redis.Pipeliner)
}

// Set writes the named fields of a document. A hash write is always a
// field-level merge: fields not named keep their stored values.
func (b *Batch) Set(collection, id string, f Fields) *Batch {
	key := Key(collection, id)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.HSet(ctx, key, map[string]string(f))
	})
	return b
}

// Update is Set under a name that signals a partial write at call sites.
func (b *Batch) Update(collection, id string, f Fields) *Batch {
	return b.Set(collection, id, f)
}

// Delete removes a document. Deleting an absent document is a no-op, which
// keeps replayed cascade deletions harmless.
func (b *Batch) Delete(collection, id string) *Batch {
	key := Key(collection, id)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.Del(ctx, key)
	})
	return b
}

// Incr queues a store-atomic increment of a single numeric field on a single
// document. This is the counter ledger entry point for batched operations.
func (b *Batch) Incr(collection, id, field string, delta int64) *Batch {
	key := Key(collection, id)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.HIncrBy(ctx, key, field, delta)
	})
	return b
}

// SetNX writes a single field only when the field is absent. Used by
// merge-upserts to preserve creation metadata across repeated writes.
func (b *Batch) SetNX(collection, id, field, value string) *Batch {
	key := Key(collection, id)
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.HSetNX(ctx, key, field, value)
	})
	return b
}

// SAdd adds a member to an index set.
func (b *Batch) SAdd(key, member string) *Batch {
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.SAdd(ctx, key, member)
	})
	return b
}

// SRem removes a member from an index set.
func (b *Batch) SRem(key, member string) *Batch {
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.SRem(ctx, key, member)
	})
	return b
}

// ZAdd adds a member to a sorted index with the given score.
func (b *Batch) ZAdd(key string, score float64, member string) *Batch {
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.ZAdd(ctx, key, redis.Z{Score: score, Member: member})
	})
	return b
}

// ZRem removes a member from a sorted index.
func (b *Batch) ZRem(key, member string) *Batch {
	b.ops = append(b.ops, func(ctx context.Context, p redis.Pipeliner) {
		p.ZRem(ctx, key, member)
	})
	return b
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Commit submits the batch as one atomic unit. On error no queued write has
// been applied; the caller surfaces the failure without compensating.
func (b *Batch) Commit(ctx context.Context) error {
	if len(b.ops) == 0 {
		return nil
	}
	start := time.Now()
	_, err := b.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, op := range b.ops {
			op(ctx, p)
		}
		return nil
	})
	observability.BatchCommitLatency.Observe(time.Since(start).Seconds())
	observability.BatchWriteSize.Observe(float64(len(b.ops)))
	if err != nil {
		observability.BatchCommitFailures.Inc()
	}
	return err
}
