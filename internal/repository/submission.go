package repository

import (
	"context"
	"fmt"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository/dao"
)

var (
	ErrSubmissionExists   = dao.ErrSubmissionExists
	ErrSubmissionNotFound = dao.ErrSubmissionNotFound
	ErrWinnerExists       = dao.ErrWinnerExists
)

type SubmissionDAO interface {
	Insert(ctx context.Context, submission dao.Submission) (dao.Submission, error)
	FindByID(ctx context.Context, id uint) (dao.Submission, error)
	FindByContestIDs(ctx context.Context, contestIDs []uint) ([]dao.Submission, error)
	FindByParticipant(ctx context.Context, email string) ([]dao.Submission, error)
	HasWinner(ctx context.Context, contestID uint) (bool, error)
	MarkWinner(ctx context.Context, id uint) error
	DeleteByContest(ctx context.Context, contestID uint) error
}

type SubmissionRepository struct {
	dao SubmissionDAO
}

func NewSubmissionRepository(dao SubmissionDAO) *SubmissionRepository {
	return &SubmissionRepository{
		dao: dao,
	}
}

func (r *SubmissionRepository) Create(ctx context.Context, submission domain.Submission) (domain.Submission, error) {
	created, err := r.dao.Insert(ctx, dao.Submission{
		ContestID:        submission.ContestID,
		ParticipantEmail: submission.ParticipantEmail,
		ParticipantName:  submission.ParticipantName,
		ParticipantPhoto: submission.ParticipantPhoto,
		Content:          submission.Content,
		IsWinner:         submission.IsWinner,
		SubmittedAt:      submission.SubmittedAt,
	})
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *SubmissionRepository) FindByID(ctx context.Context, id uint) (domain.Submission, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Submission{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *SubmissionRepository) FindByContestIDs(ctx context.Context, contestIDs []uint) ([]domain.Submission, error) {
	found, err := r.dao.FindByContestIDs(ctx, contestIDs)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByContestIDs -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SubmissionRepository) FindByParticipant(ctx context.Context, email string) ([]domain.Submission, error) {
	found, err := r.dao.FindByParticipant(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByParticipant -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *SubmissionRepository) HasWinner(ctx context.Context, contestID uint) (bool, error) {
	ok, err := r.dao.HasWinner(ctx, contestID)
	if err != nil {
		return false, fmt.Errorf("r.dao.HasWinner -> %w", err)
	}

	return ok, nil
}

func (r *SubmissionRepository) MarkWinner(ctx context.Context, id uint) error {
	if err := r.dao.MarkWinner(ctx, id); err != nil {
		return fmt.Errorf("r.dao.MarkWinner -> %w", err)
	}

	return nil
}

func (r *SubmissionRepository) DeleteByContest(ctx context.Context, contestID uint) error {
	if err := r.dao.DeleteByContest(ctx, contestID); err != nil {
		return fmt.Errorf("r.dao.DeleteByContest -> %w", err)
	}

	return nil
}

func (r *SubmissionRepository) daoToDomain(s dao.Submission) domain.Submission {
	return domain.Submission{
		ID:               s.ID,
		ContestID:        s.ContestID,
		ParticipantEmail: s.ParticipantEmail,
		ParticipantName:  s.ParticipantName,
		ParticipantPhoto: s.ParticipantPhoto,
		Content:          s.Content,
		IsWinner:         s.IsWinner,
		SubmittedAt:      s.SubmittedAt,
	}
}

func (r *SubmissionRepository) daosToDomain(found []dao.Submission) []domain.Submission {
	submissions := make([]domain.Submission, len(found))
	for i, s := range found {
		submissions[i] = r.daoToDomain(s)
	}
	return submissions
}
