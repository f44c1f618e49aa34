package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/contestify/contest-api/internal/domain"
)

var errNegativeAmount = errors.New("must not be negative")

func nonNegative(value interface{}) error {
	switch v := value.(type) {
	case decimal.Decimal:
		if v.IsNegative() {
			return errNegativeAmount
		}
	case *decimal.Decimal:
		if v != nil && v.IsNegative() {
			return errNegativeAmount
		}
	}
	return nil
}

type CreateContestRequest struct {
	Name         string          `json:"name" example:"Logo Design"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Category     string          `json:"category" example:"design"`
	Instructions string          `json:"instructions"`
	EntryFee     decimal.Decimal `json:"entryFee" swaggertype:"number" example:"100"`
	PrizeMoney   decimal.Decimal `json:"prizeMoney" swaggertype:"number" example:"1000"`
	Deadline     time.Time       `json:"deadline" example:"2026-12-31T23:59:59Z"`
	CreatorEmail string          `json:"creatorEmail,omitempty"`
}

func (req *CreateContestRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 120)),
		validation.Field(&req.Category, validation.Length(0, 60)),
		validation.Field(&req.Image, is.URL),
		validation.Field(&req.EntryFee, validation.By(nonNegative)),
		validation.Field(&req.PrizeMoney, validation.By(nonNegative)),
		validation.Field(&req.Deadline, validation.Required),
		validation.Field(&req.CreatorEmail, is.Email),
	)
}

func (req *CreateContestRequest) ToDomain() domain.Contest {
	return domain.Contest{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		Instructions: req.Instructions,
		EntryFee:     req.EntryFee,
		PrizeMoney:   req.PrizeMoney,
		Deadline:     req.Deadline,
		CreatorEmail: req.CreatorEmail,
	}
}

// UpdateContestRequest is a partial update. Omitted fields are left as is.
type UpdateContestRequest struct {
	Name         *string          `json:"name"`
	Description  *string          `json:"description"`
	Image        *string          `json:"image"`
	Category     *string          `json:"category"`
	Instructions *string          `json:"instructions"`
	EntryFee     *decimal.Decimal `json:"entryFee" swaggertype:"number"`
	PrizeMoney   *decimal.Decimal `json:"prizeMoney" swaggertype:"number"`
	Deadline     *time.Time       `json:"deadline"`
}

func (req *UpdateContestRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.NilOrNotEmpty, validation.Length(1, 120)),
		validation.Field(&req.Image, is.URL),
		validation.Field(&req.EntryFee, validation.By(nonNegative)),
		validation.Field(&req.PrizeMoney, validation.By(nonNegative)),
	)
}

func (req *UpdateContestRequest) ToPatch() domain.ContestPatch {
	return domain.ContestPatch{
		Name:         req.Name,
		Description:  req.Description,
		Image:        req.Image,
		Category:     req.Category,
		Instructions: req.Instructions,
		EntryFee:     req.EntryFee,
		PrizeMoney:   req.PrizeMoney,
		Deadline:     req.Deadline,
	}
}

type ListContestsQuery struct {
	Page     int    `form:"page"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
}

func (q *ListContestsQuery) Validate() error {
	return validation.ValidateStruct(
		q,
		validation.Field(&q.Page, validation.Min(0)),
		validation.Field(&q.Status, validation.In(
			string(domain.StatusPending), string(domain.StatusApproved),
			string(domain.StatusRejected), string(domain.StatusCompleted),
		)),
	)
}

func (q *ListContestsQuery) ToFilter() domain.ContestFilter {
	return domain.ContestFilter{
		Page:     q.Page,
		Search:   q.Search,
		Category: q.Category,
		Status:   domain.ContestStatus(q.Status),
	}
}

type PageQuery struct {
	Page int `form:"page"`
}
