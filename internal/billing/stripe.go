// Package billing wraps the payment provider: subscription payment
// intents and webhook verification.
package billing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
	"github.com/stripe/stripe-go/v78/webhook"
)

// Service talks to Stripe. Webhook verification is mandatory: unlike
// older revisions of this app, unsigned payloads are never accepted.
type Service struct {
	api           *client.API
	webhookSecret string
}

// New builds a Service from the secret API key and the webhook
// signing secret.
func New(secretKey, webhookSecret string) *Service {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Service{api: api, webhookSecret: webhookSecret}
}

// CreateSubscriptionIntent creates a payment intent for the given
// plan and amount (in cents) and returns its client secret. The plan
// type travels in metadata so the webhook can recover it.
func (s *Service) CreateSubscriptionIntent(ctx context.Context, planType string, amountCents int64) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.Context = ctx
	params.IdempotencyKey = stripe.String(uuid.NewString())
	params.AddMetadata("planType", planType)

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create payment intent: %w", err)
	}
	return intent.ClientSecret, nil
}

// VerifyEvent checks the webhook signature and returns the decoded
// event. Rejects anything unsigned or signed with the wrong secret.
func (s *Service) VerifyEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, s.webhookSecret)
}
