package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository"
)

type SubmissionRepository interface {
	Create(ctx context.Context, submission domain.Submission) (domain.Submission, error)
	FindByID(ctx context.Context, id uint) (domain.Submission, error)
	FindByContestIDs(ctx context.Context, contestIDs []uint) ([]domain.Submission, error)
	FindByParticipant(ctx context.Context, email string) ([]domain.Submission, error)
	HasWinner(ctx context.Context, contestID uint) (bool, error)
	MarkWinner(ctx context.Context, id uint) error
}

type SubmissionContestRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Contest, error)
	FindByCreator(ctx context.Context, email string) ([]domain.Contest, error)
	CompleteWithWinner(ctx context.Context, id uint, winner domain.Winner) (bool, error)
}

type ProfileReader interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

type SubmissionService struct {
	repo     SubmissionRepository
	contests SubmissionContestRepository
	users    ProfileReader
	now      func() time.Time
}

func NewSubmissionService(repo SubmissionRepository, contests SubmissionContestRepository, users ProfileReader) *SubmissionService {
	return &SubmissionService{
		repo:     repo,
		contests: contests,
		users:    users,
		now:      time.Now,
	}
}

func (s *SubmissionService) Submit(ctx context.Context, submission domain.Submission, principal string) (domain.Submission, error) {
	submission.Content = strings.TrimSpace(submission.Content)
	if submission.Content == "" {
		return domain.Submission{}, ErrContentRequired
	}

	contest, err := s.findContest(ctx, submission.ContestID)
	if err != nil {
		return domain.Submission{}, err
	}

	switch {
	case contest.Status != domain.StatusApproved:
		return domain.Submission{}, ErrContestNotOpen
	case !contest.IsParticipant(principal):
		return domain.Submission{}, ErrNotParticipant
	case contest.DeadlinePassed(s.now()):
		return domain.Submission{}, ErrDeadlinePassed
	case contest.IsCreator(principal):
		return domain.Submission{}, ErrCreatorSubmission
	}

	profile, err := s.profile(ctx, principal)
	if err != nil {
		return domain.Submission{}, err
	}

	submission.ParticipantEmail = strings.ToLower(principal)
	submission.ParticipantName = profile.Name
	submission.ParticipantPhoto = profile.Photo
	submission.IsWinner = false
	submission.SubmittedAt = s.now()

	created, err := s.repo.Create(ctx, submission)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionExists) {
			return domain.Submission{}, ErrSubmissionExists
		}
		return domain.Submission{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *SubmissionService) ListForContest(ctx context.Context, contestID uint, principal string) ([]domain.Submission, error) {
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return nil, err
	}

	if !contest.IsCreator(principal) {
		return nil, ErrNotCreator
	}

	submissions, err := s.repo.FindByContestIDs(ctx, []uint{contest.ID})
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByContestIDs -> %w", err)
	}

	return submissions, nil
}

// ListForCreator returns submissions across every contest principal owns.
func (s *SubmissionService) ListForCreator(ctx context.Context, principal string) ([]domain.Submission, error) {
	contests, err := s.contests.FindByCreator(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.contests.FindByCreator -> %w", err)
	}

	if len(contests) == 0 {
		return []domain.Submission{}, nil
	}

	ids := make([]uint, len(contests))
	for i, c := range contests {
		ids[i] = c.ID
	}

	submissions, err := s.repo.FindByContestIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByContestIDs -> %w", err)
	}

	return submissions, nil
}

func (s *SubmissionService) ListMine(ctx context.Context, principal string) ([]domain.Submission, error) {
	submissions, err := s.repo.FindByParticipant(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByParticipant -> %w", err)
	}

	return submissions, nil
}

// DeclareWinner completes the contest with the submission's author as winner.
//
// The contest row is claimed first with a conditional update that only
// matches an approved contest, so two concurrent declarations cannot both
// win. The submission flag is written second. If that write fails, calling
// DeclareWinner again for the same submission sees a completed contest whose
// winner is this participant and finishes the flag instead of failing.
func (s *SubmissionService) DeclareWinner(ctx context.Context, submissionID uint, principal string) (domain.WinnerDeclaration, error) {
	submission, err := s.repo.FindByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, repository.ErrSubmissionNotFound) {
			return domain.WinnerDeclaration{}, ErrSubmissionNotFound
		}
		return domain.WinnerDeclaration{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	contest, err := s.findContest(ctx, submission.ContestID)
	if err != nil {
		return domain.WinnerDeclaration{}, err
	}

	if !contest.IsCreator(principal) {
		return domain.WinnerDeclaration{}, ErrNotCreator
	}

	if contest.Status == domain.StatusCompleted {
		if contest.Winner != nil && strings.EqualFold(contest.Winner.Email, submission.ParticipantEmail) && !submission.IsWinner {
			return s.flagWinner(ctx, submission, contest)
		}
		return domain.WinnerDeclaration{}, ErrWinnerDeclared
	}
	if contest.Status != domain.StatusApproved {
		return domain.WinnerDeclaration{}, ErrContestNotOpen
	}

	hasWinner, err := s.repo.HasWinner(ctx, contest.ID)
	if err != nil {
		return domain.WinnerDeclaration{}, fmt.Errorf("s.repo.HasWinner -> %w", err)
	}
	if hasWinner {
		return domain.WinnerDeclaration{}, ErrWinnerDeclared
	}

	profile, err := s.profile(ctx, submission.ParticipantEmail)
	if err != nil {
		return domain.WinnerDeclaration{}, err
	}

	winner := domain.Winner{
		Email:      submission.ParticipantEmail,
		Name:       profile.Name,
		Photo:      profile.Photo,
		DeclaredAt: s.now(),
	}

	claimed, err := s.contests.CompleteWithWinner(ctx, contest.ID, winner)
	if err != nil {
		return domain.WinnerDeclaration{}, fmt.Errorf("s.contests.CompleteWithWinner -> %w", err)
	}
	if !claimed {
		return domain.WinnerDeclaration{}, ErrWinnerDeclared
	}

	contest.Status = domain.StatusCompleted
	contest.Winner = &winner

	return s.flagWinner(ctx, submission, contest)
}

func (s *SubmissionService) flagWinner(ctx context.Context, submission domain.Submission, contest domain.Contest) (domain.WinnerDeclaration, error) {
	if err := s.repo.MarkWinner(ctx, submission.ID); err != nil {
		if errors.Is(err, repository.ErrWinnerExists) {
			return domain.WinnerDeclaration{}, ErrWinnerDeclared
		}
		return domain.WinnerDeclaration{}, fmt.Errorf("s.repo.MarkWinner -> %w", err)
	}
	submission.IsWinner = true

	return domain.WinnerDeclaration{
		Submission: submission,
		Contest:    contest,
	}, nil
}

// profile loads display fields. A missing profile yields empty fields.
func (s *SubmissionService) profile(ctx context.Context, email string) (domain.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{Email: email}, nil
		}
		return domain.User{}, fmt.Errorf("s.users.FindByEmail -> %w", err)
	}

	return user, nil
}

func (s *SubmissionService) findContest(ctx context.Context, id uint) (domain.Contest, error) {
	contest, err := s.contests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContestNotFound) {
			return domain.Contest{}, ErrContestNotFound
		}
		return domain.Contest{}, fmt.Errorf("s.contests.FindByID -> %w", err)
	}

	return contest, nil
}
