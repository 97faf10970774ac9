package repository

import (
	"context"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

func followersKey(uid string) string {
	return "follows:followers:" + uid
}

func followingKey(uid string) string {
	return "follows:following:" + uid
}

// FollowRepository defines interface for follow relationship operations
type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	FollowerIDs(ctx context.Context, uid string) ([]string, error)
	FollowingIDs(ctx context.Context, uid string) ([]string, error)
	CreateIn(b *docstore.Batch, follow *models.Follow)
	DeleteIn(b *docstore.Batch, followerID, followingID string)
}

type followRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(store *docstore.Store) FollowRepository {
	return &followRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Follows),
	}
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.Follows, models.FollowID(followerID, followingID))
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

func (r *followRepository) FollowerIDs(ctx context.Context, uid string) ([]string, error) {
	ids, err := r.store.Members(ctx, followersKey(uid))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) FollowingIDs(ctx context.Context, uid string) ([]string, error) {
	ids, err := r.store.Members(ctx, followingKey(uid))
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ids, nil
}

func (r *followRepository) CreateIn(b *docstore.Batch, follow *models.Follow) {
	b.Set(docstore.Follows, follow.ID, docstore.NewFields().
		Set("followerId", follow.FollowerID).
		Set("followingId", follow.FollowingID).
		SetTime("createdAt", follow.CreatedAt))
	b.SAdd(followersKey(follow.FollowingID), follow.FollowerID)
	b.SAdd(followingKey(follow.FollowerID), follow.FollowingID)
}

func (r *followRepository) DeleteIn(b *docstore.Batch, followerID, followingID string) {
	b.Delete(docstore.Follows, models.FollowID(followerID, followingID))
	b.SRem(followersKey(followingID), followerID)
	b.SRem(followingKey(followerID), followingID)
}
