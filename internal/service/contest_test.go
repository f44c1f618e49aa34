package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contestify/contest-api/internal/domain"
)

func newContest(name string) domain.Contest {
	return domain.Contest{
		Name:         name,
		CreatorEmail: creatorEmail,
		Category:     "design",
		EntryFee:     decimal.NewFromInt(100),
		PrizeMoney:   decimal.NewFromInt(1000),
		Deadline:     testNow.Add(7 * 24 * time.Hour),
	}
}

func TestContestService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.contests.Create(ctx, newContest("Logo Design"), creatorEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "logo-design", created.Slug)
	assert.Equal(t, testNow, created.CreatedAt)
	assert.NotZero(t, created.ID)

	t.Run("duplicate name for the same creator", func(t *testing.T) {
		_, err := f.contests.Create(ctx, newContest("Logo Design"), creatorEmail)
		assert.ErrorIs(t, err, ErrConflict)
		assert.ErrorIs(t, err, ErrContestExists)
	})

	t.Run("creator email must be the principal", func(t *testing.T) {
		c := newContest("Poster")
		c.CreatorEmail = otherEmail
		_, err := f.contests.Create(ctx, c, creatorEmail)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("plain users cannot create", func(t *testing.T) {
		c := newContest("Poster")
		c.CreatorEmail = userEmail
		_, err := f.contests.Create(ctx, c, userEmail)
		assert.ErrorIs(t, err, ErrCreateNotAllowed)
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := f.contests.Create(ctx, newContest("   "), creatorEmail)
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("negative fee", func(t *testing.T) {
		c := newContest("Cheap")
		c.EntryFee = decimal.NewFromInt(-1)
		_, err := f.contests.Create(ctx, c, creatorEmail)
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestContestService_List(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedContest("Logo Design", domain.StatusApproved)
	f.seedContest("logo animation", domain.StatusApproved)
	f.seedContest("Website", domain.StatusApproved)
	f.seedContest("Hidden Logo", domain.StatusPending)

	page, err := f.contests.List(ctx, domain.ContestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 2)

	page, err = f.contests.List(ctx, domain.ContestFilter{Page: 2})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	page, err = f.contests.List(ctx, domain.ContestFilter{Search: "LOGO"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	for _, c := range page.Items {
		assert.Equal(t, domain.StatusApproved, c.Status)
	}

	page, err = f.contests.List(ctx, domain.ContestFilter{Status: domain.StatusPending})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	_, err = f.contests.List(ctx, domain.ContestFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestContestService_ListAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.seedContest("A", domain.StatusApproved)
	f.seedContest("B", domain.StatusPending)

	page, err := f.contests.ListAll(ctx, adminEmail, domain.ContestFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	_, err = f.contests.ListAll(ctx, creatorEmail, domain.ContestFilter{})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestContestService_Get(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	approved := f.seedContest("Open", domain.StatusApproved)
	pending := f.seedContest("Draft", domain.StatusPending)
	rejected := f.seedContest("Nope", domain.StatusRejected)

	got, err := f.contests.Get(ctx, approved.ID, userEmail)
	require.NoError(t, err)
	assert.Equal(t, approved.ID, got.ID)

	_, err = f.contests.Get(ctx, pending.ID, creatorEmail)
	assert.NoError(t, err)

	_, err = f.contests.Get(ctx, pending.ID, userEmail)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.contests.Get(ctx, rejected.ID, userEmail)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.contests.Get(ctx, 9999, userEmail)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContestService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := f.seedContest("Draft", domain.StatusPending)
	approved := f.seedContest("Live", domain.StatusApproved)

	name := "Draft v2"
	fee := decimal.NewFromFloat(12.5)
	updated, err := f.contests.Update(ctx, pending.ID, domain.ContestPatch{Name: &name, EntryFee: &fee}, creatorEmail)
	require.NoError(t, err)
	assert.Equal(t, "Draft v2", updated.Name)
	assert.Equal(t, "draft-v2", updated.Slug)
	assert.True(t, fee.Equal(f.db.contest(pending.ID).EntryFee))

	tests := []struct {
		name      string
		id        uint
		patch     domain.ContestPatch
		principal string
		wantErr   error
	}{
		{name: "not the creator", id: pending.ID, patch: domain.ContestPatch{Name: &name}, principal: userEmail, wantErr: ErrForbidden},
		{name: "admin is not the creator", id: pending.ID, patch: domain.ContestPatch{Name: &name}, principal: adminEmail, wantErr: ErrForbidden},
		{name: "no longer pending", id: approved.ID, patch: domain.ContestPatch{Name: &name}, principal: creatorEmail, wantErr: ErrInvalidState},
		{name: "empty patch", id: pending.ID, patch: domain.ContestPatch{}, principal: creatorEmail, wantErr: ErrValidation},
		{name: "missing contest", id: 9999, patch: domain.ContestPatch{Name: &name}, principal: creatorEmail, wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.contests.Update(ctx, tt.id, tt.patch, tt.principal)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestContestService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	t.Run("creator deletes a pending contest", func(t *testing.T) {
		c := f.seedContest("Draft", domain.StatusPending)
		require.NoError(t, f.contests.Delete(ctx, c.ID, creatorEmail))
		_, err := f.contests.Get(ctx, c.ID, creatorEmail)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("creator cannot delete an approved contest", func(t *testing.T) {
		c := f.seedContest("Live", domain.StatusApproved)
		assert.ErrorIs(t, f.contests.Delete(ctx, c.ID, creatorEmail), ErrInvalidState)
	})

	t.Run("other users cannot delete", func(t *testing.T) {
		c := f.seedContest("Draft 2", domain.StatusPending)
		assert.ErrorIs(t, f.contests.Delete(ctx, c.ID, userEmail), ErrForbidden)
	})

	t.Run("admin deletes any status and cascades submissions", func(t *testing.T) {
		c := f.seedContest("Finished", domain.StatusApproved, userEmail)
		f.seedSubmission(c.ID, userEmail)

		require.NoError(t, f.contests.Delete(ctx, c.ID, adminEmail))

		left, err := memSubmissions{db: f.db}.FindByContestIDs(ctx, []uint{c.ID})
		require.NoError(t, err)
		assert.Empty(t, left)
	})
}

func TestContestService_Moderation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.seedContest("Logo Design", domain.StatusPending)

	_, err := f.contests.Approve(ctx, c.ID, creatorEmail)
	assert.ErrorIs(t, err, ErrForbidden)

	approved, err := f.contests.Approve(ctx, c.ID, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, approved.Status)

	_, err = f.contests.Approve(ctx, c.ID, adminEmail)
	assert.ErrorIs(t, err, ErrInvalidState)

	rejected, err := f.contests.Reject(ctx, c.ID, adminEmail)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, rejected.Status)

	// Repeating a rejection rewrites the same status.
	_, err = f.contests.Reject(ctx, c.ID, adminEmail)
	assert.NoError(t, err)

	_, err = f.contests.Approve(ctx, c.ID, adminEmail)
	assert.ErrorIs(t, err, ErrInvalidState)

	completed := f.seedContest("Done", domain.StatusCompleted)
	_, err = f.contests.Reject(ctx, completed.ID, adminEmail)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = f.contests.Reject(ctx, 9999, adminEmail)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestContestService_PersonalLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mine := f.seedContest("Mine", domain.StatusPending)
	joined := f.seedContest("Joined", domain.StatusApproved, userEmail)

	created, err := f.contests.ListByCreator(ctx, creatorEmail, creatorEmail)
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, mine.ID, created[0].ID)

	_, err = f.contests.ListByCreator(ctx, creatorEmail, userEmail)
	assert.ErrorIs(t, err, ErrForbidden)

	participated, err := f.contests.ListParticipated(ctx, userEmail)
	require.NoError(t, err)
	require.Len(t, participated, 1)
	assert.Equal(t, joined.ID, participated[0].ID)

	won, err := f.contests.ListWon(ctx, userEmail)
	require.NoError(t, err)
	assert.Empty(t, won)
}
