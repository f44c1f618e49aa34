package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/lock"
	"github.com/contestify/contest-api/internal/repository"
)

type RegistrationContestRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Contest, error)
	AddParticipant(ctx context.Context, contestID uint, email string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (domain.Payment, error)
	FindByEmail(ctx context.Context, email string) ([]domain.Payment, error)
}

type PaymentProvider interface {
	CreateSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error)
	RetrieveSession(ctx context.Context, id string) (domain.CheckoutSession, error)
}

type Locker interface {
	Acquire(ctx context.Context, key string) (lock.Release, error)
}

// RegistrationService moves a principal from unregistered to registered for
// a contest. Nothing is stored at checkout time; enrolment and the payment
// record are written when the paid session is confirmed.
type RegistrationService struct {
	contests RegistrationContestRepository
	payments PaymentRepository
	provider PaymentProvider
	locker   Locker
	conf     *config.StripeConfig
	now      func() time.Time
}

func NewRegistrationService(
	contests RegistrationContestRepository,
	payments PaymentRepository,
	provider PaymentProvider,
	locker Locker,
	conf *config.StripeConfig,
) *RegistrationService {
	return &RegistrationService{
		contests: contests,
		payments: payments,
		provider: provider,
		locker:   locker,
		conf:     conf,
		now:      time.Now,
	}
}

// CreateCheckout opens a provider checkout session for the contest entry fee
// and returns its redirect URL.
func (s *RegistrationService) CreateCheckout(ctx context.Context, contestID uint, principal string) (string, error) {
	contest, err := s.findContest(ctx, contestID)
	if err != nil {
		return "", err
	}

	if contest.IsParticipant(principal) {
		return "", ErrAlreadyRegistered
	}
	if contest.IsCreator(principal) {
		return "", ErrCreatorRegistration
	}
	if contest.Status != domain.StatusApproved {
		return "", ErrContestNotOpen
	}
	if contest.DeadlinePassed(s.now()) {
		return "", ErrDeadlinePassed
	}

	session, err := s.provider.CreateSession(ctx, domain.CheckoutRequest{
		Amount:        contest.EntryFeeMinorUnits(),
		Currency:      s.conf.Currency,
		LineItemName:  contest.Name,
		CustomerEmail: principal,
		Metadata: map[string]string{
			domain.MetadataContestID:   strconv.FormatUint(uint64(contest.ID), 10),
			domain.MetadataEmail:       strings.ToLower(principal),
			domain.MetadataContestName: contest.Name,
		},
		SuccessURL: s.conf.SuccessURL,
		CancelURL:  s.conf.CancelURL,
	})
	if err != nil {
		return "", fmt.Errorf("s.provider.CreateSession -> %w", err)
	}

	return session.URL, nil
}

// ConfirmPayment records a paid checkout session. Every step re-checks what is
// already stored, so calling it again after a partial failure completes the
// missing writes without duplicating the finished ones.
func (s *RegistrationService) ConfirmPayment(ctx context.Context, sessionID, principal string) (domain.ConfirmResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ConfirmResult{}, ErrSessionRequired
	}

	release, err := s.locker.Acquire(ctx, "checkout:"+sessionID)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return domain.ConfirmResult{}, ErrConfirmInProgress
		}
		return domain.ConfirmResult{}, fmt.Errorf("s.locker.Acquire -> %w", err)
	}
	defer release()

	session, err := s.provider.RetrieveSession(ctx, sessionID)
	if err != nil {
		return domain.ConfirmResult{}, fmt.Errorf("s.provider.RetrieveSession -> %w", err)
	}

	if session.PaymentStatus != domain.PaymentStatusPaid {
		return domain.ConfirmResult{
			Success:       false,
			PaymentStatus: session.PaymentStatus,
			Message:       "payment has not been completed",
		}, nil
	}

	email := session.Metadata[domain.MetadataEmail]
	if !strings.EqualFold(email, principal) {
		return domain.ConfirmResult{}, ErrPaymentOwner
	}

	contestID, err := strconv.ParseUint(session.Metadata[domain.MetadataContestID], 10, 64)
	if err != nil {
		return domain.ConfirmResult{}, ErrSessionMetadata
	}

	txID := session.TransactionID()
	existing, err := s.payments.FindByTransactionID(ctx, txID)
	if err == nil {
		return paidResult(existing, "payment already confirmed"), nil
	}
	if !errors.Is(err, repository.ErrPaymentNotFound) {
		return domain.ConfirmResult{}, fmt.Errorf("s.payments.FindByTransactionID -> %w", err)
	}

	contest, err := s.findContest(ctx, uint(contestID))
	if err != nil {
		return domain.ConfirmResult{}, err
	}

	if !contest.IsParticipant(email) {
		if err = s.contests.AddParticipant(ctx, contest.ID, strings.ToLower(email)); err != nil {
			return domain.ConfirmResult{}, fmt.Errorf("s.contests.AddParticipant -> %w", err)
		}
	}

	contestName := session.Metadata[domain.MetadataContestName]
	if contestName == "" {
		contestName = contest.Name
	}

	payment, err := s.payments.Create(ctx, domain.Payment{
		ContestID:     contest.ID,
		ContestName:   contestName,
		Email:         strings.ToLower(email),
		Amount:        decimal.New(session.AmountTotal, -2),
		Currency:      session.Currency,
		TransactionID: txID,
		PaymentStatus: session.PaymentStatus,
		PaidAt:        s.now(),
	})
	if err != nil {
		if errors.Is(err, repository.ErrPaymentExists) {
			existing, findErr := s.payments.FindByTransactionID(ctx, txID)
			if findErr != nil {
				return domain.ConfirmResult{}, fmt.Errorf("s.payments.FindByTransactionID -> %w", findErr)
			}
			return paidResult(existing, "payment already confirmed"), nil
		}
		zap.L().Error("participant enrolled but payment record not stored",
			zap.Uint("contestID", contest.ID),
			zap.String("email", email),
			zap.String("transactionID", txID),
			zap.Error(err),
		)
		return domain.ConfirmResult{}, fmt.Errorf("s.payments.Create -> %w", err)
	}

	return paidResult(payment, "registration confirmed"), nil
}

func (s *RegistrationService) ListPayments(ctx context.Context, principal string) ([]domain.Payment, error) {
	payments, err := s.payments.FindByEmail(ctx, principal)
	if err != nil {
		return nil, fmt.Errorf("s.payments.FindByEmail -> %w", err)
	}

	return payments, nil
}

func (s *RegistrationService) findContest(ctx context.Context, id uint) (domain.Contest, error) {
	contest, err := s.contests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContestNotFound) {
			return domain.Contest{}, ErrContestNotFound
		}
		return domain.Contest{}, fmt.Errorf("s.contests.FindByID -> %w", err)
	}

	return contest, nil
}

func paidResult(payment domain.Payment, message string) domain.ConfirmResult {
	return domain.ConfirmResult{
		Success:       true,
		PaymentStatus: payment.PaymentStatus,
		Message:       message,
		Payment:       &payment,
	}
}
