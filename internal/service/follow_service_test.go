package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
)

func TestFollow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "u1", "alice")
	bob := env.createUser(t, "u2", "bob")

	t.Run("happy path moves both counters", func(t *testing.T) {
		require.NoError(t, env.follows.Follow(ctx, alice.UID, bob.UID))

		following, err := env.follows.IsFollowing(ctx, alice.UID, bob.UID)
		require.NoError(t, err)
		assert.True(t, following)

		gotBob, err := env.userRepo.GetByID(ctx, bob.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gotBob.FollowerCount)

		gotAlice, err := env.userRepo.GetByID(ctx, alice.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gotAlice.FollowingCount)
	})

	t.Run("duplicate follow is rejected", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.UID, bob.UID)
		assert.Equal(t, models.CodeAlreadyExists, models.ErrorCode(err))

		gotBob, err := env.userRepo.GetByID(ctx, bob.UID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), gotBob.FollowerCount)
	})

	t.Run("cannot follow yourself", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.UID, alice.UID)
		assert.Equal(t, models.CodeSelfReference, models.ErrorCode(err))
	})

	t.Run("target must exist", func(t *testing.T) {
		err := env.follows.Follow(ctx, alice.UID, "ghost")
		assert.Equal(t, models.CodeNotFound, models.ErrorCode(err))
	})
}

func TestUnfollow(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "u1", "alice")
	bob := env.createUser(t, "u2", "bob")
	require.NoError(t, env.follows.Follow(ctx, alice.UID, bob.UID))

	require.NoError(t, env.follows.Unfollow(ctx, alice.UID, bob.UID))
	// Repeats are no-ops and never drive counters negative.
	require.NoError(t, env.follows.Unfollow(ctx, alice.UID, bob.UID))

	gotBob, err := env.userRepo.GetByID(ctx, bob.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotBob.FollowerCount)

	gotAlice, err := env.userRepo.GetByID(ctx, alice.UID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gotAlice.FollowingCount)
}

func TestFollowerListings(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "u1", "alice")
	bob := env.createUser(t, "u2", "bob")
	carol := env.createUser(t, "u3", "carol")

	require.NoError(t, env.follows.Follow(ctx, alice.UID, carol.UID))
	require.NoError(t, env.follows.Follow(ctx, bob.UID, carol.UID))
	require.NoError(t, env.follows.Follow(ctx, carol.UID, alice.UID))

	followers, err := env.follows.Followers(ctx, carol.UID)
	require.NoError(t, err)
	assert.Len(t, followers, 2)

	following, err := env.follows.Following(ctx, carol.UID)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, alice.UID, following[0].UID)
}
