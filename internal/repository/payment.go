package repository

import (
	"context"
	"fmt"

	"github.com/contestify/contest-api/internal/domain"
	"github.com/contestify/contest-api/internal/repository/dao"
)

var (
	ErrPaymentExists   = dao.ErrPaymentExists
	ErrPaymentNotFound = dao.ErrPaymentNotFound
)

type PaymentDAO interface {
	Insert(ctx context.Context, payment dao.Payment) (dao.Payment, error)
	FindByTransactionID(ctx context.Context, transactionID string) (dao.Payment, error)
	FindByEmail(ctx context.Context, email string) ([]dao.Payment, error)
}

type PaymentRepository struct {
	dao PaymentDAO
}

func NewPaymentRepository(dao PaymentDAO) *PaymentRepository {
	return &PaymentRepository{
		dao: dao,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	created, err := r.dao.Insert(ctx, dao.Payment{
		ContestID:     payment.ContestID,
		ContestName:   payment.ContestName,
		Email:         payment.Email,
		Amount:        payment.Amount,
		Currency:      payment.Currency,
		TransactionID: payment.TransactionID,
		PaymentStatus: payment.PaymentStatus,
		PaidAt:        payment.PaidAt,
	})
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PaymentRepository) FindByTransactionID(ctx context.Context, transactionID string) (domain.Payment, error) {
	found, err := r.dao.FindByTransactionID(ctx, transactionID)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("r.dao.FindByTransactionID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	found, err := r.dao.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	payments := make([]domain.Payment, len(found))
	for i, p := range found {
		payments[i] = r.daoToDomain(p)
	}

	return payments, nil
}

func (r *PaymentRepository) daoToDomain(p dao.Payment) domain.Payment {
	return domain.Payment{
		ID:            p.ID,
		ContestID:     p.ContestID,
		ContestName:   p.ContestName,
		Email:         p.Email,
		Amount:        p.Amount,
		Currency:      p.Currency,
		TransactionID: p.TransactionID,
		PaymentStatus: p.PaymentStatus,
		PaidAt:        p.PaidAt,
	}
}
