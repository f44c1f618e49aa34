package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ContestStatus string

const (
	StatusPending   ContestStatus = "pending"
	StatusApproved  ContestStatus = "approved"
	StatusRejected  ContestStatus = "rejected"
	StatusCompleted ContestStatus = "completed"
)

// transitions lists every legal status change. Rejecting an already rejected
// contest rewrites the same value and is kept legal.
var transitions = map[ContestStatus][]ContestStatus{
	StatusPending:   {StatusApproved, StatusRejected},
	StatusApproved:  {StatusRejected, StatusCompleted},
	StatusRejected:  {StatusRejected},
	StatusCompleted: nil,
}

func (s ContestStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s ContestStatus) CanTransitionTo(next ContestStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Public reports whether contests in this status are visible to every
// authenticated principal.
func (s ContestStatus) Public() bool {
	return s == StatusApproved || s == StatusCompleted
}

type Winner struct {
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Photo      string    `json:"photo"`
	DeclaredAt time.Time `json:"declaredAt"`
}

type Contest struct {
	ID               uint            `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	Image            string          `json:"image"`
	Category         string          `json:"category"`
	Instructions     string          `json:"instructions"`
	EntryFee         decimal.Decimal `json:"entryFee"`
	PrizeMoney       decimal.Decimal `json:"prizeMoney"`
	Deadline         time.Time       `json:"deadline"`
	Status           ContestStatus   `json:"status"`
	CreatorEmail     string          `json:"creatorEmail"`
	Participants     []string        `json:"participants"`
	ParticipantCount int             `json:"participantCount"`
	Winner           *Winner         `json:"winner,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (c Contest) IsParticipant(email string) bool {
	for _, p := range c.Participants {
		if strings.EqualFold(p, email) {
			return true
		}
	}
	return false
}

func (c Contest) IsCreator(email string) bool {
	return strings.EqualFold(c.CreatorEmail, email)
}

func (c Contest) DeadlinePassed(now time.Time) bool {
	return now.After(c.Deadline)
}

// EntryFeeMinorUnits converts the entry fee to the smallest currency unit.
func (c Contest) EntryFeeMinorUnits() int64 {
	return c.EntryFee.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ContestPatch holds the creator-editable fields. Nil fields are left as is.
type ContestPatch struct {
	Name         *string
	Description  *string
	Image        *string
	Category     *string
	Instructions *string
	EntryFee     *decimal.Decimal
	PrizeMoney   *decimal.Decimal
	Deadline     *time.Time
}

func (p ContestPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Image == nil && p.Category == nil &&
		p.Instructions == nil && p.EntryFee == nil && p.PrizeMoney == nil && p.Deadline == nil
}

func (p ContestPatch) Apply(c *Contest) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Image != nil {
		c.Image = *p.Image
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Instructions != nil {
		c.Instructions = *p.Instructions
	}
	if p.EntryFee != nil {
		c.EntryFee = *p.EntryFee
	}
	if p.PrizeMoney != nil {
		c.PrizeMoney = *p.PrizeMoney
	}
	if p.Deadline != nil {
		c.Deadline = *p.Deadline
	}
}

// ContestQuery is the repository-level listing filter. Empty fields match all.
type ContestQuery struct {
	Search   string
	Category string
	Status   ContestStatus
	Offset   int
	Limit    int
}

type ContestFilter struct {
	Page     int
	Search   string
	Category string
	Status   ContestStatus
}

type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"totalPages"`
	CurrentPage int   `json:"currentPage"`
}

func NewPage[T any](items []T, total int64, page, pageSize int) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page[T]{
		Items:       items,
		Total:       total,
		TotalPages:  totalPages,
		CurrentPage: page,
	}
}
