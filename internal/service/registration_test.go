package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contestify/contest-api/internal/domain"
)

func TestRegistrationService_CreateCheckout(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := f.seedContest("Logo Design", domain.StatusApproved)

	url, err := f.registration.CreateCheckout(ctx, c.ID, userEmail)
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.example.com/cs_test_1", url)

	require.Len(t, f.provider.requests, 1)
	req := f.provider.requests[0]
	assert.Equal(t, int64(10000), req.Amount)
	assert.Equal(t, "usd", req.Currency)
	assert.Equal(t, "Logo Design", req.LineItemName)
	assert.Equal(t, strconv.Itoa(int(c.ID)), req.Metadata[domain.MetadataContestID])
	assert.Equal(t, userEmail, req.Metadata[domain.MetadataEmail])
	assert.Equal(t, "Logo Design", req.Metadata[domain.MetadataContestName])

	// Nothing is recorded until the payment is confirmed.
	assert.Empty(t, f.db.contest(c.ID).Participants)
	assert.Zero(t, f.db.paymentCount())
}

func TestRegistrationService_CreateCheckoutRefusals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	registered := f.seedContest("Registered", domain.StatusApproved, userEmail)
	pending := f.seedContest("Pending", domain.StatusPending)
	expired := f.seedContest("Expired", domain.StatusApproved)
	f.db.mu.Lock()
	e := f.db.contests[expired.ID]
	e.Deadline = testNow.Add(-time.Minute)
	f.db.contests[expired.ID] = e
	f.db.mu.Unlock()

	tests := []struct {
		name      string
		contestID uint
		principal string
		wantErr   error
	}{
		{name: "missing contest", contestID: 9999, principal: userEmail, wantErr: ErrNotFound},
		{name: "already a participant", contestID: registered.ID, principal: userEmail, wantErr: ErrConflict},
		{name: "deadline passed", contestID: expired.ID, principal: userEmail, wantErr: ErrInvalidState},
		{name: "not approved", contestID: pending.ID, principal: userEmail, wantErr: ErrInvalidState},
		{name: "creator of the contest", contestID: registered.ID, principal: creatorEmail, wantErr: ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.registration.CreateCheckout(ctx, tt.contestID, tt.principal)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.provider.requests)
}

func checkout(t *testing.T, f *fixture, contestID uint, principal string) string {
	t.Helper()
	_, err := f.registration.CreateCheckout(context.Background(), contestID, principal)
	require.NoError(t, err)
	return f.provider.lastSessionID()
}

func TestRegistrationService_ConfirmUnpaid(t *testing.T) {
	f := newFixture(t)
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)

	result, err := f.registration.ConfirmPayment(context.Background(), sessionID, userEmail)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, "unpaid", result.PaymentStatus)
	assert.Nil(t, result.Payment)
	assert.Empty(t, f.db.contest(c.ID).Participants)
	assert.Zero(t, f.db.paymentCount())
}

func TestRegistrationService_ConfirmIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	first, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)
	require.True(t, first.Success)
	require.NotNil(t, first.Payment)
	assert.True(t, decimal.NewFromInt(100).Equal(first.Payment.Amount))
	assert.Equal(t, "pi_"+sessionID, first.Payment.TransactionID)
	assert.Equal(t, c.ID, first.Payment.ContestID)

	second, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)
	assert.True(t, second.Success)
	assert.Equal(t, first.Payment.ID, second.Payment.ID)

	assert.Equal(t, 1, f.db.paymentCount())
	assert.Equal(t, []string{userEmail}, f.db.contest(c.ID).Participants)
}

func TestRegistrationService_ConfirmRecoversFromPartialFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	f.db.inject("payments.Create", errors.New("connection reset"))

	_, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.Error(t, err)
	assert.Equal(t, "InternalError", Category(err))

	// The enrolment landed, the payment record did not.
	assert.Equal(t, []string{userEmail}, f.db.contest(c.ID).Participants)
	assert.Zero(t, f.db.paymentCount())

	result, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, f.db.paymentCount())
	assert.Equal(t, []string{userEmail}, f.db.contest(c.ID).Participants)
}

func TestRegistrationService_ConfirmEnrolFailureIsRetryable(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	f.db.inject("contests.AddParticipant", errors.New("timeout"))

	_, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.Error(t, err)
	assert.Empty(t, f.db.contest(c.ID).Participants)
	assert.Zero(t, f.db.paymentCount())

	result, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, []string{userEmail}, f.db.contest(c.ID).Participants)
	assert.Equal(t, 1, f.db.paymentCount())
}

func TestRegistrationService_ConfirmRefusals(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	_, err := f.registration.ConfirmPayment(ctx, sessionID, otherEmail)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.registration.ConfirmPayment(ctx, "  ", userEmail)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.registration.ConfirmPayment(ctx, "cs_unknown", userEmail)
	assert.Equal(t, "InternalError", Category(err))

	release, err := f.locker.Acquire(ctx, "checkout:"+sessionID)
	require.NoError(t, err)
	_, err = f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	assert.ErrorIs(t, err, ErrConflict)
	release()

	assert.Zero(t, f.db.paymentCount())
}

func TestRegistrationService_ConcurrentConfirm(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = f.registration.ConfirmPayment(ctx, sessionID, userEmail)
		}()
	}
	wg.Wait()

	// Callers that lost the lock may retry.
	result, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 1, f.db.paymentCount())
	assert.Equal(t, []string{userEmail}, f.db.contest(c.ID).Participants)
}

func TestRegistrationService_ListPayments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.seedContest("Logo Design", domain.StatusApproved)
	sessionID := checkout(t, f, c.ID, userEmail)
	f.provider.pay(sessionID)

	_, err := f.registration.ConfirmPayment(ctx, sessionID, userEmail)
	require.NoError(t, err)

	payments, err := f.registration.ListPayments(ctx, userEmail)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Logo Design", payments[0].ContestName)

	payments, err = f.registration.ListPayments(ctx, otherEmail)
	require.NoError(t, err)
	assert.Empty(t, payments)
}
