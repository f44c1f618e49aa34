package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const PaymentStatusPaid = "paid"

// Checkout session metadata keys.
const (
	MetadataContestID   = "contestId"
	MetadataEmail       = "email"
	MetadataContestName = "contestName"
)

type Payment struct {
	ID            uint            `json:"id"`
	ContestID     uint            `json:"contestId"`
	ContestName   string          `json:"contestName"`
	Email         string          `json:"email"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	TransactionID string          `json:"transactionId"`
	PaymentStatus string          `json:"paymentStatus"`
	PaidAt        time.Time       `json:"paidAt"`
}

type CheckoutRequest struct {
	Amount        int64
	Currency      string
	LineItemName  string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

type CheckoutSession struct {
	ID              string
	URL             string
	PaymentStatus   string
	Metadata        map[string]string
	AmountTotal     int64
	Currency        string
	PaymentIntentID string
}

// TransactionID is the key payments are deduplicated on.
func (s CheckoutSession) TransactionID() string {
	if s.PaymentIntentID != "" {
		return s.PaymentIntentID
	}
	return s.ID
}

// ConfirmResult is returned by payment confirmation. Success is false when the
// provider has not marked the session as paid yet.
type ConfirmResult struct {
	Success       bool     `json:"success"`
	PaymentStatus string   `json:"paymentStatus"`
	Message       string   `json:"message"`
	Payment       *Payment `json:"payment,omitempty"`
}
