package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/testutil"
)

func TestTicketRepository_DeleteCascadesReviews(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	now := time.Now()

	ticket := testutil.CreateTicket(t, db, alice.ID, "Dune", now)
	testutil.CreateReview(t, db, ticket.ID, alice.ID, "mine", 5, now)
	testutil.CreateReview(t, db, ticket.ID, bob.ID, "reply", 3, now)
	other := testutil.CreateTicket(t, db, bob.ID, "Emma", now)
	testutil.CreateReview(t, db, other.ID, alice.ID, "keep", 2, now)

	require.NoError(t, repo.Delete(ctx, ticket.ID))

	var n int64
	require.NoError(t, db.Model(&model.Review{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
	_, err := repo.GetByID(ctx, ticket.ID)
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(repo.Delete(ctx, ticket.ID)))
}

func TestTicketRepository_CreateWithReviewRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	ticket := &model.Ticket{UserID: alice.ID, Title: "Dune"}
	// 与已存在行主键冲突，迫使第二条插入失败
	existing := testutil.CreateReview(t, db, testutil.CreateTicket(t, db, alice.ID, "x", time.Now()).ID, alice.ID, "x", 1, time.Now())
	review := &model.Review{ID: existing.ID, UserID: alice.ID, Headline: "dup", Rating: 3}

	err := repo.CreateWithReview(context.Background(), ticket, review)
	require.Error(t, err)

	var n int64
	require.NoError(t, db.Model(&model.Ticket{}).Where("title = ?", "Dune").Count(&n).Error)
	assert.Zero(t, n)
}

func TestTicketRepository_UpdateKeepsAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	ticket := testutil.CreateTicket(t, db, alice.ID, "Dune", time.Now())

	require.NoError(t, repo.Update(ctx, &model.Ticket{ID: ticket.ID, UserID: bob.ID, Title: "Dune Messiah"}))

	got, err := repo.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune Messiah", got.Title)
	assert.Equal(t, alice.ID, got.UserID)
}

func TestReviewRepository_UpdateKeepsTicket(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	t1 := testutil.CreateTicket(t, db, alice.ID, "one", time.Now())
	t2 := testutil.CreateTicket(t, db, alice.ID, "two", time.Now())
	review := testutil.CreateReview(t, db, t1.ID, alice.ID, "h", 2, time.Now())

	require.NoError(t, repo.Update(ctx, &model.Review{ID: review.ID, TicketID: t2.ID, Headline: "h2", Rating: 4}))

	got, err := repo.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, t1.ID, got.TicketID)
	assert.Equal(t, "h2", got.Headline)
	assert.Equal(t, 4, got.Rating)
	require.NotNil(t, got.Ticket)
	assert.Equal(t, alice.ID, got.Ticket.UserID)
}

func TestReviewRepository_ListVisible(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewReviewRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	stranger := testutil.CreateUser(t, db, "stranger")
	now := time.Now()

	aliceTicket := testutil.CreateTicket(t, db, alice.ID, "a", now)
	strangerTicket := testutil.CreateTicket(t, db, stranger.ID, "s", now)

	onOwn := testutil.CreateReview(t, db, aliceTicket.ID, stranger.ID, "on alice", 3, now)
	byBob := testutil.CreateReview(t, db, strangerTicket.ID, bob.ID, "by bob", 3, now.Add(time.Second))
	testutil.CreateReview(t, db, strangerTicket.ID, stranger.ID, "hidden", 3, now)

	got, err := repo.ListVisible(ctx, []string{alice.ID, bob.ID}, alice.ID)
	require.NoError(t, err)
	ids := make([]string, len(got))
	for i, r := range got {
		ids[i] = r.ID
	}
	assert.Equal(t, []string{byBob.ID, onOwn.ID}, ids)
	require.NotNil(t, got[0].Ticket)
	assert.Equal(t, stranger.ID, got[0].Ticket.UserID)
}
