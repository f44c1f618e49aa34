package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"

	"github.com/contestify/contest-api/internal/config"
	"github.com/contestify/contest-api/internal/domain"
)

var ErrNotConfigured = errors.New("payment provider is not configured")

// sessionClient is the subset of the Stripe checkout session client we use.
type sessionClient interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

type StripeProvider struct {
	sessions sessionClient
}

func NewStripeProvider(conf *config.StripeConfig) *StripeProvider {
	if conf.SecretKey == "" {
		return &StripeProvider{}
	}

	sc := &client.API{}
	sc.Init(conf.SecretKey, nil)

	return &StripeProvider{
		sessions: sc.CheckoutSessions,
	}
}

func (p *StripeProvider) CreateSession(ctx context.Context, req domain.CheckoutRequest) (domain.CheckoutSession, error) {
	if p.sessions == nil {
		return domain.CheckoutSession{}, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(req.Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.LineItemName),
					},
					UnitAmount: stripe.Int64(req.Amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}
	params.Context = ctx

	s, err := p.sessions.New(params)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("p.sessions.New -> %w", err)
	}

	return toDomain(s), nil
}

func (p *StripeProvider) RetrieveSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	if p.sessions == nil {
		return domain.CheckoutSession{}, ErrNotConfigured
	}

	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	s, err := p.sessions.Get(id, params)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("p.sessions.Get -> %w", err)
	}

	return toDomain(s), nil
}

func toDomain(s *stripe.CheckoutSession) domain.CheckoutSession {
	session := domain.CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
	}
	if s.PaymentIntent != nil {
		session.PaymentIntentID = s.PaymentIntent.ID
	}

	return session
}
