package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository"
)

type ContestRepository interface {
	Create(ctx context.Context, contest domain.Contest) (domain.Contest, error)
	FindByID(ctx context.Context, id uint) (domain.Contest, error)
	List(ctx context.Context, q domain.ContestQuery) ([]domain.Contest, int64, error)
	FindByCreator(ctx context.Context, email string) ([]domain.Contest, error)
	FindByParticipant(ctx context.Context, email string) ([]domain.Contest, error)
	FindByWinner(ctx context.Context, email string) ([]domain.Contest, error)
	UpdateIfStatus(ctx context.Context, id uint, status domain.ContestStatus, patch domain.ContestPatch, slug string) (bool, error)
	SetStatus(ctx context.Context, id uint, from, to domain.ContestStatus) (bool, error)
	Delete(ctx context.Context, id uint) error
	DeleteIfStatus(ctx context.Context, id uint, status domain.ContestStatus) (bool, error)
}

type SubmissionCleaner interface {
	DeleteByContest(ctx context.Context, contestID uint) error
}

type ContestService struct {
	repo        ContestRepository
	submissions SubmissionCleaner
	policy      *AdminPolicy
	pageSize    int
	now         func() time.Time
}

func NewContestService(repo ContestRepository, submissions SubmissionCleaner, policy *AdminPolicy, pageSize int) *ContestService {
	return &ContestService{
		repo:        repo,
		submissions: submissions,
		policy:      policy,
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// Create opens a contest in pending status on behalf of principal.
func (s *ContestService) Create(ctx context.Context, contest domain.Contest, principal string) (domain.Contest, error) {
	if contest.CreatorEmail == "" {
		contest.CreatorEmail = principal
	}
	if !strings.EqualFold(contest.CreatorEmail, principal) {
		return domain.Contest{}, ErrCreatorMismatch
	}

	contest.Name = strings.TrimSpace(contest.Name)
	if contest.Name == "" {
		return domain.Contest{}, ErrContestNameRequired
	}
	if contest.EntryFee.IsNegative() || contest.PrizeMoney.IsNegative() {
		return domain.Contest{}, ErrNegativeAmount
	}

	creator, err := s.policy.Principal(ctx, principal)
	if err != nil {
		return domain.Contest{}, err
	}
	if !creator.Role.CanCreateContests() {
		return domain.Contest{}, ErrCreateNotAllowed
	}

	contest.CreatorEmail = strings.ToLower(principal)
	contest.Slug = slug.Make(contest.Name)
	contest.Status = domain.StatusPending
	contest.Participants = nil
	contest.Winner = nil
	contest.CreatedAt = s.now()

	created, err := s.repo.Create(ctx, contest)
	if err != nil {
		if errors.Is(err, repository.ErrContestExists) {
			return domain.Contest{}, ErrContestExists
		}
		return domain.Contest{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

// List returns the public catalogue. Status defaults to approved.
func (s *ContestService) List(ctx context.Context, filter domain.ContestFilter) (domain.Page[domain.Contest], error) {
	if filter.Status == "" {
		filter.Status = domain.StatusApproved
	}

	return s.list(ctx, filter)
}

// ListAll is the moderation view: every status unless one is asked for.
func (s *ContestService) ListAll(ctx context.Context, principal string, filter domain.ContestFilter) (domain.Page[domain.Contest], error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return domain.Page[domain.Contest]{}, err
	}

	return s.list(ctx, filter)
}

func (s *ContestService) list(ctx context.Context, filter domain.ContestFilter) (domain.Page[domain.Contest], error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return domain.Page[domain.Contest]{}, ErrInvalidStatus
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	contests, total, err := s.repo.List(ctx, domain.ContestQuery{
		Search:   strings.TrimSpace(filter.Search),
		Category: filter.Category,
		Status:   filter.Status,
		Offset:   (filter.Page - 1) * s.pageSize,
		Limit:    s.pageSize,
	})
	if err != nil {
		return domain.Page[domain.Contest]{}, fmt.Errorf("s.repo.List -> %w", err)
	}

	return domain.NewPage(contests, total, filter.Page, s.pageSize), nil
}

// Get returns a contest. Pending and rejected contests are visible to their
// creator only.
func (s *ContestService) Get(ctx context.Context, id uint, principal string) (domain.Contest, error) {
	contest, err := s.find(ctx, id)
	if err != nil {
		return domain.Contest{}, err
	}

	if !contest.Status.Public() && !contest.IsCreator(principal) {
		return domain.Contest{}, ErrContestHidden
	}

	return contest, nil
}

func (s *ContestService) Update(ctx context.Context, id uint, patch domain.ContestPatch, principal string) (domain.Contest, error) {
	if patch.IsEmpty() {
		return domain.Contest{}, ErrEmptyPatch
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return domain.Contest{}, ErrContestNameRequired
		}
		patch.Name = &name
	}
	if (patch.EntryFee != nil && patch.EntryFee.IsNegative()) || (patch.PrizeMoney != nil && patch.PrizeMoney.IsNegative()) {
		return domain.Contest{}, ErrNegativeAmount
	}

	contest, err := s.find(ctx, id)
	if err != nil {
		return domain.Contest{}, err
	}

	if !contest.IsCreator(principal) {
		return domain.Contest{}, ErrNotCreator
	}
	if contest.Status != domain.StatusPending {
		return domain.Contest{}, ErrContestNotPending
	}

	newSlug := contest.Slug
	if patch.Name != nil {
		newSlug = slug.Make(*patch.Name)
	}

	ok, err := s.repo.UpdateIfStatus(ctx, id, domain.StatusPending, patch, newSlug)
	if err != nil {
		if errors.Is(err, repository.ErrContestExists) {
			return domain.Contest{}, ErrContestExists
		}
		return domain.Contest{}, fmt.Errorf("s.repo.UpdateIfStatus -> %w", err)
	}
	if !ok {
		// Moderated between our read and the write.
		return domain.Contest{}, ErrContestNotPending
	}

	patch.Apply(&contest)
	contest.Slug = newSlug

	return contest, nil
}

// Delete removes a contest. Creators may delete while pending; admins may
// delete at any status, which also removes the contest's submissions.
func (s *ContestService) Delete(ctx context.Context, id uint, principal string) error {
	contest, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	actor, err := s.policy.Principal(ctx, principal)
	if err != nil {
		return err
	}

	if actor.Role == domain.RoleAdmin {
		if err = s.submissions.DeleteByContest(ctx, id); err != nil {
			return fmt.Errorf("s.submissions.DeleteByContest -> %w", err)
		}
		if err = s.repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrContestNotFound) {
				return ErrContestNotFound
			}
			return fmt.Errorf("s.repo.Delete -> %w", err)
		}

		return nil
	}

	if !contest.IsCreator(principal) {
		return ErrNotCreator
	}
	if contest.Status != domain.StatusPending {
		return ErrContestNotPending
	}

	ok, err := s.repo.DeleteIfStatus(ctx, id, domain.StatusPending)
	if err != nil {
		return fmt.Errorf("s.repo.DeleteIfStatus -> %w", err)
	}
	if !ok {
		return ErrContestNotPending
	}

	return nil
}

func (s *ContestService) Approve(ctx context.Context, id uint, principal string) (domain.Contest, error) {
	return s.moderate(ctx, id, principal, domain.StatusApproved, ErrAlreadyApproved)
}

// Reject is allowed from pending and approved, and repeating it on a rejected
// contest rewrites the same status. Completed contests keep their winner.
func (s *ContestService) Reject(ctx context.Context, id uint, principal string) (domain.Contest, error) {
	return s.moderate(ctx, id, principal, domain.StatusRejected, ErrCannotReject)
}

func (s *ContestService) moderate(ctx context.Context, id uint, principal string, to domain.ContestStatus, illegal error) (domain.Contest, error) {
	if _, err := s.policy.RequireAdmin(ctx, principal); err != nil {
		return domain.Contest{}, err
	}

	contest, err := s.find(ctx, id)
	if err != nil {
		return domain.Contest{}, err
	}

	from := contest.Status
	if !from.CanTransitionTo(to) {
		return domain.Contest{}, illegal
	}

	ok, err := s.repo.SetStatus(ctx, id, from, to)
	if err != nil {
		return domain.Contest{}, fmt.Errorf("s.repo.SetStatus -> %w", err)
	}
	if !ok {
		return domain.Contest{}, illegal
	}
	contest.Status = to

	return contest, nil
}

func (s *ContestService) ListByCreator(ctx context.Context, email, principal string) ([]domain.Contest, error) {
	if !strings.EqualFold(email, principal) {
		return nil, ErrListForbidden
	}

	contests, err := s.repo.FindByCreator(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByCreator -> %w", err)
	}

	return contests, nil
}

func (s *ContestService) ListParticipated(ctx context.Context, principal string) ([]domain.Contest, error) {
	contests, err := s.repo.FindByParticipant(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParticipant -> %w", err)
	}

	return contests, nil
}

func (s *ContestService) ListWon(ctx context.Context, principal string) ([]domain.Contest, error) {
	contests, err := s.repo.FindByWinner(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByWinner -> %w", err)
	}

	return contests, nil
}

func (s *ContestService) find(ctx context.Context, id uint) (domain.Contest, error) {
	contest, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContestNotFound) {
			return domain.Contest{}, ErrContestNotFound
		}
		return domain.Contest{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return contest, nil
}
