package repository

import (
	"context"
	"fmt"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository/dao"
)

var (
	ErrContestExists   = dao.ErrContestExists
	ErrContestNotFound = dao.ErrContestNotFound
)

type ContestDAO interface {
	Insert(ctx context.Context, contest dao.Contest) (dao.Contest, error)
	FindByID(ctx context.Context, id uint) (dao.Contest, error)
	List(ctx context.Context, q dao.ContestQuery) ([]dao.Contest, int64, error)
	FindByCreator(ctx context.Context, email string) ([]dao.Contest, error)
	FindByParticipant(ctx context.Context, email string) ([]dao.Contest, error)
	FindByWinner(ctx context.Context, email string) ([]dao.Contest, error)
	UpdateIfStatus(ctx context.Context, id uint, status string, fields map[string]any) (bool, error)
	CompleteWithWinner(ctx context.Context, id uint, winner dao.Winner) (bool, error)
	AddParticipant(ctx context.Context, contestID uint, email string) error
	Delete(ctx context.Context, id uint) error
	DeleteIfStatus(ctx context.Context, id uint, status string) (bool, error)
}

type ContestRepository struct {
	dao ContestDAO
}

func NewContestRepository(dao ContestDAO) *ContestRepository {
	return &ContestRepository{
		dao: dao,
	}
}

func (r *ContestRepository) Create(ctx context.Context, contest domain.Contest) (domain.Contest, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(contest))
	if err != nil {
		return domain.Contest{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ContestRepository) FindByID(ctx context.Context, id uint) (domain.Contest, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Contest{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ContestRepository) List(ctx context.Context, q domain.ContestQuery) ([]domain.Contest, int64, error) {
	found, total, err := r.dao.List(ctx, dao.ContestQuery{
		Search:   q.Search,
		Category: q.Category,
		Status:   string(q.Status),
		Offset:   q.Offset,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("r.dao.List -> %w", err)
	}

	return r.daosToDomain(found), total, nil
}

func (r *ContestRepository) FindByCreator(ctx context.Context, email string) ([]domain.Contest, error) {
	found, err := r.dao.FindByCreator(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByCreator -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ContestRepository) FindByParticipant(ctx context.Context, email string) ([]domain.Contest, error) {
	found, err := r.dao.FindByParticipant(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParticipant -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *ContestRepository) FindByWinner(ctx context.Context, email string) ([]domain.Contest, error) {
	found, err := r.dao.FindByWinner(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByWinner -> %w", err)
	}

	return r.daosToDomain(found), nil
}

// UpdateIfStatus writes the patched fields (and the new slug, when the name
// changes) only while the contest is still in status.
func (r *ContestRepository) UpdateIfStatus(ctx context.Context, id uint, status domain.ContestStatus, patch domain.ContestPatch, slug string) (bool, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
		fields["slug"] = slug
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Image != nil {
		fields["image"] = *patch.Image
	}
	if patch.Category != nil {
		fields["category"] = *patch.Category
	}
	if patch.Instructions != nil {
		fields["instructions"] = *patch.Instructions
	}
	if patch.EntryFee != nil {
		fields["entry_fee"] = *patch.EntryFee
	}
	if patch.PrizeMoney != nil {
		fields["prize_money"] = *patch.PrizeMoney
	}
	if patch.Deadline != nil {
		fields["deadline"] = *patch.Deadline
	}

	ok, err := r.dao.UpdateIfStatus(ctx, id, string(status), fields)
	if err != nil {
		return false, fmt.Errorf("r.dao.UpdateIfStatus -> %w", err)
	}

	return ok, nil
}

func (r *ContestRepository) SetStatus(ctx context.Context, id uint, from, to domain.ContestStatus) (bool, error) {
	ok, err := r.dao.UpdateIfStatus(ctx, id, string(from), map[string]any{"status": string(to)})
	if err != nil {
		return false, fmt.Errorf("r.dao.UpdateIfStatus -> %w", err)
	}

	return ok, nil
}

func (r *ContestRepository) CompleteWithWinner(ctx context.Context, id uint, winner domain.Winner) (bool, error) {
	declaredAt := winner.DeclaredAt
	ok, err := r.dao.CompleteWithWinner(ctx, id, dao.Winner{
		Email:      winner.Email,
		Name:       winner.Name,
		Photo:      winner.Photo,
		DeclaredAt: &declaredAt,
	})
	if err != nil {
		return false, fmt.Errorf("r.dao.CompleteWithWinner -> %w", err)
	}

	return ok, nil
}

func (r *ContestRepository) AddParticipant(ctx context.Context, contestID uint, email string) error {
	if err := r.dao.AddParticipant(ctx, contestID, email); err != nil {
		return fmt.Errorf("r.dao.AddParticipant -> %w", err)
	}

	return nil
}

func (r *ContestRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ContestRepository) DeleteIfStatus(ctx context.Context, id uint, status domain.ContestStatus) (bool, error) {
	ok, err := r.dao.DeleteIfStatus(ctx, id, string(status))
	if err != nil {
		return false, fmt.Errorf("r.dao.DeleteIfStatus -> %w", err)
	}

	return ok, nil
}

func (r *ContestRepository) domainToDao(c domain.Contest) dao.Contest {
	return dao.Contest{
		ID:           c.ID,
		Name:         c.Name,
		CreatorEmail: c.CreatorEmail,
		Slug:         c.Slug,
		Description:  c.Description,
		Image:        c.Image,
		Category:     c.Category,
		Instructions: c.Instructions,
		EntryFee:     c.EntryFee,
		PrizeMoney:   c.PrizeMoney,
		Deadline:     c.Deadline,
		Status:       string(c.Status),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func (r *ContestRepository) daoToDomain(c dao.Contest) domain.Contest {
	participants := make([]string, len(c.Participants))
	for i, p := range c.Participants {
		participants[i] = p.Email
	}

	contest := domain.Contest{
		ID:               c.ID,
		Name:             c.Name,
		Slug:             c.Slug,
		Description:      c.Description,
		Image:            c.Image,
		Category:         c.Category,
		Instructions:     c.Instructions,
		EntryFee:         c.EntryFee,
		PrizeMoney:       c.PrizeMoney,
		Deadline:         c.Deadline,
		Status:           domain.ContestStatus(c.Status),
		CreatorEmail:     c.CreatorEmail,
		Participants:     participants,
		ParticipantCount: len(participants),
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}

	if c.Winner.Email != "" {
		contest.Winner = &domain.Winner{
			Email: c.Winner.Email,
			Name:  c.Winner.Name,
			Photo: c.Winner.Photo,
		}
		if c.Winner.DeclaredAt != nil {
			contest.Winner.DeclaredAt = *c.Winner.DeclaredAt
		}
	}

	return contest
}

func (r *ContestRepository) daosToDomain(found []dao.Contest) []domain.Contest {
	contests := make([]domain.Contest, len(found))
	for i, c := range found {
		contests[i] = r.daoToDomain(c)
	}
	return contests
}
