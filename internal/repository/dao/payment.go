package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrPaymentExists   = errors.New("payment already recorded")
	ErrPaymentNotFound = errors.New("payment not found")
)

type Payment struct {
	ID            uint            `gorm:"primaryKey"`
	ContestID     uint            `gorm:"not null;index"`
	ContestName   string          `gorm:"not null"`
	Email         string          `gorm:"not null;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency      string          `gorm:"not null"`
	TransactionID string          `gorm:"not null;uniqueIndex"`
	PaymentStatus string          `gorm:"not null"`
	PaidAt        time.Time       `gorm:"not null"`
}

type PaymentDAO struct {
	db *gorm.DB
}

func NewPaymentDAO(db *gorm.DB) *PaymentDAO {
	return &PaymentDAO{
		db: db,
	}
}

func (d *PaymentDAO) Insert(ctx context.Context, payment Payment) (Payment, error) {
	result := d.db.WithContext(ctx).Create(&payment)
	if result.Error != nil {
		return Payment{}, translateErr(result.Error, ErrPaymentExists, nil)
	}

	return payment, nil
}

func (d *PaymentDAO) FindByTransactionID(ctx context.Context, transactionID string) (Payment, error) {
	var payment Payment

	result := d.db.WithContext(ctx).First(&payment, "transaction_id = ?", transactionID)
	if result.Error != nil {
		return Payment{}, translateErr(result.Error, nil, ErrPaymentNotFound)
	}

	return payment, nil
}

func (d *PaymentDAO) FindByEmail(ctx context.Context, email string) ([]Payment, error) {
	var payments []Payment

	result := d.db.WithContext(ctx).
		Where("email = ?", email).
		Order("paid_at DESC").
		Find(&payments)
	if result.Error != nil {
		return nil, result.Error
	}

	return payments, nil
}
