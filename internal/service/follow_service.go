package service

import (
	"context"
	"time"

	"inkwell/internal/docstore"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// FollowService manages follow relationships between users. The relationship
// document and both users' aggregates always move in the same batch.
type FollowService struct {
	store      *docstore.Store
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(
	store *docstore.Store,
	followRepo repository.FollowRepository,
	userRepo repository.UserRepository,
) *FollowService {
	return &FollowService{
		store:      store,
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return models.NewSelfReferenceError("You cannot follow yourself")
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		return err
	}
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if exists {
		return models.NewAlreadyExistsError("Already following this user")
	}

	b := s.store.Batch()
	s.followRepo.CreateIn(b, &models.Follow{
		ID:          models.FollowID(followerID, followingID),
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	s.userRepo.AdjustFollowerCountIn(b, followingID, 1)
	s.userRepo.AdjustFollowingCountIn(b, followerID, 1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

// Unfollow removes a follow relationship. Unfollowing someone never followed
// is a no-op; the decrements only happen when the relationship existed.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	exists, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}

	b := s.store.Batch()
	s.followRepo.DeleteIn(b, followerID, followingID)
	s.userRepo.AdjustFollowerCountIn(b, followingID, -1)
	s.userRepo.AdjustFollowingCountIn(b, followerID, -1)
	if err := b.Commit(ctx); err != nil {
		return models.NewWriteFailedError(err)
	}
	return nil
}

func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, followingID)
}

func (s *FollowService) Followers(ctx context.Context, uid string) ([]*models.User, error) {
	ids, err := s.followRepo.FollowerIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.fetchUsers(ctx, ids)
}

func (s *FollowService) Following(ctx context.Context, uid string) ([]*models.User, error) {
	ids, err := s.followRepo.FollowingIDs(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.fetchUsers(ctx, ids)
}

func (s *FollowService) fetchUsers(ctx context.Context, ids []string) ([]*models.User, error) {
	users := make([]*models.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if models.ErrorCode(err) == models.CodeNotFound {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
