package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/testutil"
)

func usernames(users []*model.User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Username
	}
	return out
}

func TestFollowRepository_GetOrCreateIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	first, created, err := repo.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var n int64
	require.NoError(t, db.Model(&model.UserFollows{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestFollowRepository_Directional(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	_, _, err := repo.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	_, err = repo.Find(ctx, bob.ID, alice.ID)
	assert.True(t, IsNotFound(err))

	_, created, err := repo.GetOrCreate(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestFollowRepository_SetBlockedKeepsRow(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	orig, _, err := repo.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	blocked, err := repo.SetBlocked(ctx, alice.ID, bob.ID, true)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)
	assert.Equal(t, orig.ID, blocked.ID)

	unblocked, err := repo.SetBlocked(ctx, alice.ID, bob.ID, false)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
	assert.Equal(t, orig.ID, unblocked.ID)

	var n int64
	require.NoError(t, db.Model(&model.UserFollows{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestFollowRepository_Projections(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	carol := testutil.CreateUser(t, db, "carol")
	dave := testutil.CreateUser(t, db, "dave")

	_, _, err := repo.GetOrCreate(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.SetBlocked(ctx, alice.ID, carol.ID, true)
	require.NoError(t, err)
	_, _, err = repo.GetOrCreate(ctx, dave.ID, bob.ID)
	require.NoError(t, err)
	_, err = repo.SetBlocked(ctx, carol.ID, bob.ID, true)
	require.NoError(t, err)

	followed, err := repo.ListFollowed(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames(followed))

	blocked, err := repo.ListBlocked(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol"}, usernames(blocked))

	followers, err := repo.ListFollowers(ctx, bob.ID, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "dave"}, usernames(followers))

	all, err := repo.ListFollowers(ctx, bob.ID, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"alice", "carol", "dave"}, usernames(all))

	ids, err := repo.FollowedIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.ID}, ids)
}

func TestFollowRepository_DeleteMissingIsNoop(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewFollowRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	assert.NoError(t, repo.Delete(context.Background(), alice.ID, bob.ID))
}
