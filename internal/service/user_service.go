package service

import (
	"context"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type UpsertProfileInput struct {
	UID           string
	DisplayName   string
	Email         string
	EmailVerified bool
	AvatarURL     string
	Bio           string
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// GetProfile returns a user's profile. When a viewer is known, the result is
// annotated with whether the viewer follows this user.
func (s *UserService) GetProfile(ctx context.Context, uid, viewerID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if viewerID != "" && viewerID != uid {
		following, err := s.followRepo.Exists(ctx, viewerID, uid)
		if err == nil {
			user.IsFollowing = following
		}
	}
	return user, nil
}

// UpsertProfile creates or updates the caller's own profile document.
// Aggregate counters on the user document are never written here.
func (s *UserService) UpsertProfile(ctx context.Context, in UpsertProfileInput) (*models.User, error) {
	const maxBioLen = 500
	const maxDisplayNameLen = 50

	if in.UID == "" {
		return nil, models.NewValidationError("User id is required")
	}
	if len([]rune(in.DisplayName)) > maxDisplayNameLen {
		return nil, models.NewValidationError("Display name too long (max 50 characters)")
	}
	if len([]rune(in.Bio)) > maxBioLen {
		return nil, models.NewValidationError("Bio too long (max 500 characters)")
	}

	now := time.Now()
	user := &models.User{
		UID:           in.UID,
		DisplayName:   in.DisplayName,
		Email:         in.Email,
		EmailVerified: in.EmailVerified,
		AvatarURL:     in.AvatarURL,
		Bio:           in.Bio,
		Role:          models.RoleUser,
		IsActive:      true,
		UpdatedAt:     now,
	}

	existing, err := s.userRepo.GetByID(ctx, in.UID)
	switch {
	case err == nil:
		user.Role = existing.Role
		user.CreatedAt = existing.CreatedAt
	case models.ErrorCode(err) == models.CodeNotFound:
		user.CreatedAt = now
	default:
		return nil, err
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, in.UID)
}
