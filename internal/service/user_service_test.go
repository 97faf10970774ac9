package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestUpsertProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("creates a new profile", func(t *testing.T) {
		user, err := env.users.UpsertProfile(ctx, UpsertProfileInput{
			UID: "u1", DisplayName: "alice", Email: "alice@example.com", EmailVerified: true,
		})
		require.NoError(t, err)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.True(t, user.IsActive)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("update preserves counters and role", func(t *testing.T) {
		author := env.createUser(t, "u2", "bob")
		env.createArticle(t, author.UID)

		updated, err := env.users.UpsertProfile(ctx, UpsertProfileInput{
			UID: author.UID, DisplayName: "bob2", Email: "bob@example.com",
			EmailVerified: true, Bio: "writes about Go",
		})
		require.NoError(t, err)
		assert.Equal(t, "bob2", updated.DisplayName)
		assert.Equal(t, "writes about Go", updated.Bio)
		assert.Equal(t, int64(1), updated.ArticleCount)
		assert.True(t, updated.CreatedAt.Equal(author.CreatedAt))
	})

	t.Run("validation", func(t *testing.T) {
		_, err := env.users.UpsertProfile(ctx, UpsertProfileInput{})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

		_, err = env.users.UpsertProfile(ctx, UpsertProfileInput{
			UID: "u3", DisplayName: strings.Repeat("x", 51),
		})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))

		_, err = env.users.UpsertProfile(ctx, UpsertProfileInput{
			UID: "u3", DisplayName: "ok", Bio: strings.Repeat("x", 501),
		})
		assert.Equal(t, models.CodeValidation, models.ErrorCode(err))
	})
}

func TestGetProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "u1", "alice")
	bob := env.createUser(t, "u2", "bob")
	require.NoError(t, env.follows.Follow(ctx, alice.UID, bob.UID))

	t.Run("annotates follow state for the viewer", func(t *testing.T) {
		profile, err := env.users.GetProfile(ctx, bob.UID, alice.UID)
		require.NoError(t, err)
		assert.True(t, profile.IsFollowing)
	})

	t.Run("anonymous viewer", func(t *testing.T) {
		profile, err := env.users.GetProfile(ctx, bob.UID, "")
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := env.users.GetProfile(ctx, "ghost", "")
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}
