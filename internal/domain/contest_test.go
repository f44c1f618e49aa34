package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestContestStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from ContestStatus
		to   ContestStatus
		want bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusApproved, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, true},
		{StatusRejected, StatusApproved, false},
		{StatusRejected, StatusRejected, true},
		{StatusCompleted, StatusRejected, false},
		{StatusCompleted, StatusApproved, false},
		{ContestStatus("archived"), StatusApproved, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestContestStatus_Valid(t *testing.T) {
	assert.True(t, StatusCompleted.Valid())
	assert.False(t, ContestStatus("").Valid())
	assert.False(t, ContestStatus("draft").Valid())
}

func TestContest_EntryFeeMinorUnits(t *testing.T) {
	c := Contest{EntryFee: decimal.RequireFromString("12.345")}
	assert.Equal(t, int64(1235), c.EntryFeeMinorUnits())

	c.EntryFee = decimal.NewFromInt(100)
	assert.Equal(t, int64(10000), c.EntryFeeMinorUnits())
}

func TestContest_Membership(t *testing.T) {
	c := Contest{
		CreatorEmail: "creator@example.com",
		Participants: []string{"a@example.com", "B@example.com"},
		Deadline:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	assert.True(t, c.IsParticipant("b@example.com"))
	assert.False(t, c.IsParticipant("creator@example.com"))
	assert.True(t, c.IsCreator("Creator@Example.com"))
	assert.False(t, c.DeadlinePassed(time.Date(2029, 12, 31, 0, 0, 0, 0, time.UTC)))
	assert.True(t, c.DeadlinePassed(time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestContestPatch_Apply(t *testing.T) {
	name := "Poster"
	fee := decimal.NewFromInt(5)
	c := Contest{Name: "Logo", Category: "design"}

	patch := ContestPatch{Name: &name, EntryFee: &fee}
	assert.False(t, patch.IsEmpty())
	patch.Apply(&c)

	assert.Equal(t, "Poster", c.Name)
	assert.Equal(t, "design", c.Category)
	assert.True(t, c.EntryFee.Equal(fee))
	assert.True(t, ContestPatch{}.IsEmpty())
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 21, 3, 10)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.CurrentPage)

	empty := NewPage[int](nil, 0, 1, 10)
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
