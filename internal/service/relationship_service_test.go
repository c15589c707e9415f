package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/internal/cache"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/testutil"
)

func countFollows(t *testing.T, f *fixture) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.UserFollows{}).Count(&n).Error)
	return n
}

func TestFollow_Idempotent(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	created, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	assert.EqualValues(t, 1, countFollows(t, f))
}

func TestFollow_SelfRejected(t *testing.T) {
	f := newFixture(t, nil)
	alice := testutil.CreateUser(t, f.db, "alice")

	_, err := f.rel.Follow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	assert.Zero(t, countFollows(t, f))

	assert.ErrorIs(t, f.rel.Block(context.Background(), alice.ID, alice.ID), ErrFollowSelf)
	assert.Zero(t, countFollows(t, f))
}

func TestFollow_UnknownTarget(t *testing.T) {
	f := newFixture(t, nil)
	alice := testutil.CreateUser(t, f.db, "alice")

	_, err := f.rel.Follow(context.Background(), alice.ID, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = f.rel.FollowByUsername(context.Background(), alice.ID, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFollowByUsername(t *testing.T) {
	f := newFixture(t, nil)
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	target, created, err := f.rel.FollowByUsername(context.Background(), alice.ID, "bob")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, bob.ID, target.ID)

	_, _, err = f.rel.FollowByUsername(context.Background(), alice.ID, "alice")
	assert.ErrorIs(t, err, ErrFollowSelf)
}

func TestFollow_DoesNotUnblock(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	require.NoError(t, f.rel.Block(ctx, alice.ID, bob.ID))
	created, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, created)

	blocked, err := f.rel.ListBlocked(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, bob.ID, blocked[0].ID)
}

func TestBlockThenUnblock_SameRow(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	_, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	var before model.UserFollows
	require.NoError(t, f.db.First(&before).Error)

	require.NoError(t, f.rel.Block(ctx, alice.ID, bob.ID))
	require.NoError(t, f.rel.Unblock(ctx, alice.ID, bob.ID))

	var rows []model.UserFollows
	require.NoError(t, f.db.Find(&rows).Error)
	require.Len(t, rows, 1)
	assert.Equal(t, before.ID, rows[0].ID)
	assert.False(t, rows[0].IsBlocked)
}

func TestUnblock_RequiresBlockedRelation(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	assert.ErrorIs(t, f.rel.Unblock(ctx, alice.ID, bob.ID), ErrNotFound)

	_, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, f.rel.Unblock(ctx, alice.ID, bob.ID), ErrNotFound)
}

func TestUnfollow_MissingIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	assert.NoError(t, f.rel.Unfollow(ctx, alice.ID, bob.ID))

	_, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, f.rel.Unfollow(ctx, alice.ID, bob.ID))
	assert.Zero(t, countFollows(t, f))
}

func TestVisibleSet(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")
	carol := testutil.CreateUser(t, f.db, "carol")

	_, err := f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.NoError(t, f.rel.Block(ctx, alice.ID, carol.ID))

	ids, err := f.rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, ids)
}

func TestVisibleSet_CacheInvalidatedOnChange(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	f := newFixture(t, cache.NewVisibilityCache(client, time.Minute))
	ctx := context.Background()
	alice := testutil.CreateUser(t, f.db, "alice")
	bob := testutil.CreateUser(t, f.db, "bob")

	ids, err := f.rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, ids)
	assert.True(t, mr.Exists("visibility:"+alice.ID))

	_, err = f.rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, mr.Exists("visibility:"+alice.ID))

	ids, err = f.rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, ids)

	require.NoError(t, f.rel.Block(ctx, alice.ID, bob.ID))
	ids, err = f.rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, ids)
}

// racingFollowRepo 在 FollowedIDs 读完之后、返回之前执行一次 hook
type racingFollowRepo struct {
	repository.FollowRepository
	hook func()
}

func (r *racingFollowRepo) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.FollowRepository.FollowedIDs(ctx, userID)
	if r.hook != nil {
		h := r.hook
		r.hook = nil
		h()
	}
	return ids, err
}

func TestVisibleSet_BlockDuringRebuildNotCached(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	followRepo := &racingFollowRepo{FollowRepository: repository.NewFollowRepository(db)}
	rel := NewRelationshipService(followRepo, userRepo, cache.NewVisibilityCache(client, time.Minute))
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	_, err := rel.Follow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	followRepo.hook = func() { require.NoError(t, rel.Block(ctx, alice.ID, bob.ID)) }
	ids, err := rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{alice.ID, bob.ID}, ids)

	ids, err = rel.VisibleSet(ctx, alice.ID)
	require.NoError(t, err)
	assert.NotContains(t, ids, bob.ID)
}
