package repository

import (
	"context"
	"errors"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/observability"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, uid string) (*models.User, error)
	Exists(ctx context.Context, uid string) (bool, error)
	Upsert(ctx context.Context, user *models.User) error
	UpdateIn(b *docstore.Batch, user *models.User)
	AdjustArticleCountIn(b *docstore.Batch, uid string, delta int64)
	AdjustFollowerCountIn(b *docstore.Batch, uid string, delta int64)
	AdjustFollowingCountIn(b *docstore.Batch, uid string, delta int64)
}

type userRepository struct {
	store *docstore.Store
	log   *observability.StoreLogger
}

// NewUserRepository returns a new UserRepository implementation.
func NewUserRepository(store *docstore.Store) UserRepository {
	return &userRepository{
		store: store,
		log:   observability.NewStoreLogger(docstore.Users),
	}
}

func userFields(u *models.User) docstore.Fields {
	return docstore.NewFields().
		Set("displayName", u.DisplayName).
		Set("email", u.Email).
		SetBool("emailVerified", u.EmailVerified).
		Set("avatarUrl", u.AvatarURL).
		Set("bio", u.Bio).
		SetInt("articleCount", u.ArticleCount).
		SetInt("followerCount", u.FollowerCount).
		SetInt("followingCount", u.FollowingCount).
		Set("role", u.Role).
		SetBool("isActive", u.IsActive).
		SetTime("createdAt", u.CreatedAt).
		SetTime("updatedAt", u.UpdatedAt)
}

func userFromFields(uid string, f docstore.Fields) *models.User {
	return &models.User{
		UID:            uid,
		DisplayName:    f.String("displayName"),
		Email:          f.String("email"),
		EmailVerified:  f.Bool("emailVerified"),
		AvatarURL:      f.String("avatarUrl"),
		Bio:            f.String("bio"),
		ArticleCount:   f.Int("articleCount"),
		FollowerCount:  f.Int("followerCount"),
		FollowingCount: f.Int("followingCount"),
		Role:           f.String("role"),
		IsActive:       f.Bool("isActive"),
		CreatedAt:      f.Time("createdAt"),
		UpdatedAt:      f.Time("updatedAt"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, uid string) (*models.User, error) {
	f, err := r.store.Get(ctx, docstore.Users, uid)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, models.NewNotFoundError("User", uid)
		}
		r.log.LogError(ctx, err, "get")
		return nil, models.NewInternalError(err)
	}
	return userFromFields(uid, f), nil
}

func (r *userRepository) Exists(ctx context.Context, uid string) (bool, error) {
	ok, err := r.store.Exists(ctx, docstore.Users, uid)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return ok, nil
}

// Upsert writes the user's profile fields, preserving aggregate counters held
// on the same document.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	b := r.store.Batch()
	f := userFields(user)
	delete(f, "articleCount")
	delete(f, "followerCount")
	delete(f, "followingCount")
	b.Update(docstore.Users, user.UID, f)
	if err := b.Commit(ctx); err != nil {
		r.log.LogError(ctx, err, "upsert")
		return models.NewWriteFailedError(err)
	}
	return nil
}

// UpdateIn rewrites the user's profile fields. Counters are stripped like in
// Upsert; they move only through the Adjust ops.
func (r *userRepository) UpdateIn(b *docstore.Batch, user *models.User) {
	f := userFields(user)
	delete(f, "articleCount")
	delete(f, "followerCount")
	delete(f, "followingCount")
	b.Update(docstore.Users, user.UID, f)
}

func (r *userRepository) AdjustArticleCountIn(b *docstore.Batch, uid string, delta int64) {
	b.Incr(docstore.Users, uid, "articleCount", delta)
}

func (r *userRepository) AdjustFollowerCountIn(b *docstore.Batch, uid string, delta int64) {
	b.Incr(docstore.Users, uid, "followerCount", delta)
}

func (r *userRepository) AdjustFollowingCountIn(b *docstore.Batch, uid string, delta int64) {
	b.Incr(docstore.Users, uid, "followingCount", delta)
}
