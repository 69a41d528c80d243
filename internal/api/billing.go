package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/stripe/stripe-go/v78"

	"github.com/fintrackhq/fintrack/internal/model"
	"github.com/fintrackhq/fintrack/internal/subscription"
)

// maxWebhookBody caps webhook payloads well above anything the
// payment provider sends.
const maxWebhookBody = 1 << 20

type subscriptionIntentRequest struct {
	PlanType string  `json:"planType"`
	Amount   float64 `json:"amount"` // cents, may arrive fractional
}

func (s *Server) createSubscriptionIntent(w http.ResponseWriter, r *http.Request) {
	var in subscriptionIntentRequest
	if err := readJSON(r, &in); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if in.PlanType == "" {
		s.writeError(w, http.StatusBadRequest, "planType is required")
		return
	}
	if in.Amount <= 0 {
		s.writeError(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	clientSecret, err := s.payments.CreateSubscriptionIntent(r.Context(), in.PlanType, int64(math.Round(in.Amount)))
	if err != nil {
		s.logger.Error("payment intent creation failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Error creating subscription payment intent")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"clientSecret": clientSecret})
}

// stripeWebhook verifies the event signature before acting on it. A
// verified successful payment activates the subscription on the
// account user.
func (s *Server) stripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Failed to read webhook payload")
		return
	}
	event, err := s.payments.VerifyEvent(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		s.logger.Warn("webhook signature verification failed", "error", err)
		s.writeError(w, http.StatusBadRequest, "Webhook signature verification failed")
		return
	}

	if event.Type == "payment_intent.succeeded" {
		var intent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
			s.writeError(w, http.StatusBadRequest, "Malformed event payload")
			return
		}
		if err := s.activateSubscription(r, &intent); err != nil {
			s.logger.Error("failed to activate subscription", "error", err)
			s.writeError(w, http.StatusInternalServerError, "Failed to record payment")
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}

func (s *Server) activateSubscription(r *http.Request, intent *stripe.PaymentIntent) error {
	planType := intent.Metadata["planType"]
	user, err := s.repo.GetUser(r.Context(), s.userID)
	if err != nil {
		return err
	}

	expires := time.Now().UTC().AddDate(0, 1, 0)
	if planType == string(subscription.CycleAnnual) {
		expires = time.Now().UTC().AddDate(1, 0, 0)
	}
	user.SubscriptionStatus = model.SubscriptionActive
	user.SubscriptionExpiresAt = &expires
	if intent.Customer != nil {
		user.StripeCustomerID = intent.Customer.ID
	}
	if err := s.repo.UpdateUser(r.Context(), user); err != nil {
		return err
	}
	s.logger.Info("subscription activated", "plan", planType, "expires", expires)
	return nil
}

// subscriptionPlan reports the features a plan unlocks. Plan state is
// supplied by the caller per request; the server keeps no gating
// state of its own.
func (s *Server) subscriptionPlan(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var trialStart time.Time
	if raw := q.Get("trialStart"); raw != "" {
		var err error
		trialStart, err = parseTime(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid trialStart")
			return
		}
	}
	plan, err := subscription.ParsePlan(q.Get("plan"), trialStart)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	transactionCount := 0
	if raw := q.Get("transactionCount"); raw != "" {
		transactionCount, err = strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid transactionCount")
			return
		}
	}

	now := time.Now().UTC()
	s.writeJSON(w, http.StatusOK, map[string]any{
		"plan":            plan.Kind,
		"cycle":           plan.Cycle,
		"features":        plan.Features(now),
		"trialDaysLeft":   plan.TrialDaysLeft(now),
		"isTrialExpired":  plan.TrialExpired(now),
		"upgradeRequired": plan.UpgradeRequired(subscription.FeatureMaxTransactions, now, transactionCount),
	})
}
