package payment

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/careerdeck/careerdeck/internal/config"
	"github.com/careerdeck/careerdeck/internal/user"

	stripe "github.com/stripe/stripe-go"
	session "github.com/stripe/stripe-go/checkout/session"
	webhook "github.com/stripe/stripe-go/webhook"
)

type Repository struct {
	stripeKey string
	siteName  string
	siteHost  string
	cfg       config.Config
}

func NewRepository(cfg config.Config) *Repository {
	return &Repository{
		stripeKey: cfg.StripeKey,
		siteName:  cfg.SiteName,
		siteHost:  cfg.SiteHost,
		cfg:       cfg,
	}
}

func (r Repository) PlanTierToAmount(planTier string) int64 {
	switch planTier {
	case user.PlanTierMonthly:
		return int64(r.cfg.PlanMonthlyPrice)
	case user.PlanTierQuarterly:
		return int64(r.cfg.PlanQuarterlyPrice)
	case user.PlanTierAnnual:
		return int64(r.cfg.PlanAnnualPrice)
	}

	return 0
}

func PlanTierToDescription(planTier string) string {
	switch planTier {
	case user.PlanTierMonthly:
		return "Pro Plan Monthly"
	case user.PlanTierQuarterly:
		return "Pro Plan Quarterly"
	case user.PlanTierAnnual:
		return "Pro Plan Annual"
	}

	return ""
}

// PlanTierExpiry returns when a plan bought now runs out.
func PlanTierExpiry(planTier string) time.Time {
	now := time.Now().UTC()
	switch planTier {
	case user.PlanTierMonthly:
		return now.AddDate(0, 1, 0)
	case user.PlanTierQuarterly:
		return now.AddDate(0, 3, 0)
	case user.PlanTierAnnual:
		return now.AddDate(1, 0, 0)
	}

	return now
}

func isApplicable(planTier string) bool {
	return planTier == user.PlanTierMonthly || planTier == user.PlanTierQuarterly || planTier == user.PlanTierAnnual
}

func (r Repository) CreateSession(email, planTier, currencyCode string) (*stripe.CheckoutSession, error) {
	if !isApplicable(planTier) {
		return nil, nil
	}
	stripe.Key = r.stripeKey
	params := &stripe.CheckoutSessionParams{
		BillingAddressCollection: stripe.String("required"),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Name:     stripe.String(fmt.Sprintf("%s %s", r.siteName, PlanTierToDescription(planTier))),
				Amount:   stripe.Int64(r.PlanTierToAmount(planTier)),
				Currency: stripe.String(strings.ToLower(currencyCode)),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(fmt.Sprintf("https://%s/x/checkout/1", r.siteHost)),
		CancelURL:     stripe.String(fmt.Sprintf("https://%s/x/checkout/0", r.siteHost)),
		CustomerEmail: &email,
	}

	session, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("unable to create stripe session: %+v", err)
	}

	return session, nil
}

func HandleCheckoutSessionComplete(body []byte, endpointSecret, stripeSig string) (*stripe.CheckoutSession, error) {
	event, err := webhook.ConstructEvent(body, stripeSig, endpointSecret)
	if err != nil {
		return nil, fmt.Errorf("error verifying webhook signature: %v\n", err)
	}
	// Handle the checkout.session.completed event
	if event.Type == "checkout.session.completed" {
		var session stripe.CheckoutSession
		err := json.Unmarshal(event.Data.Raw, &session)
		if err != nil {
			return nil, fmt.Errorf("error parsing webhook JSON: %v\n", err)
		}
		return &session, nil
	}
	return nil, nil
}
