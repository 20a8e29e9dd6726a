package payment

import (
	"testing"
	"time"

	"github.com/careerdeck/careerdeck/internal/config"
	"github.com/careerdeck/careerdeck/internal/user"
	"github.com/stretchr/testify/assert"
)

func TestPlanTierToAmount(t *testing.T) {
	repo := NewRepository(config.Config{
		PlanMonthlyPrice:   1900,
		PlanQuarterlyPrice: 4900,
		PlanAnnualPrice:    14900,
	})
	assert.Equal(t, int64(1900), repo.PlanTierToAmount(user.PlanTierMonthly))
	assert.Equal(t, int64(4900), repo.PlanTierToAmount(user.PlanTierQuarterly))
	assert.Equal(t, int64(14900), repo.PlanTierToAmount(user.PlanTierAnnual))
	assert.Equal(t, int64(0), repo.PlanTierToAmount(user.PlanTierFree))
	assert.Equal(t, int64(0), repo.PlanTierToAmount("lifetime"))
}

func TestPlanTierExpiry(t *testing.T) {
	now := time.Now().UTC()
	monthly := PlanTierExpiry(user.PlanTierMonthly)
	assert.True(t, monthly.After(now.AddDate(0, 0, 27)))
	assert.True(t, monthly.Before(now.AddDate(0, 0, 33)))

	quarterly := PlanTierExpiry(user.PlanTierQuarterly)
	assert.True(t, quarterly.After(monthly))

	annual := PlanTierExpiry(user.PlanTierAnnual)
	assert.True(t, annual.After(quarterly))
	assert.True(t, annual.Before(now.AddDate(1, 0, 2)))
}

func TestCreateSessionUnknownTier(t *testing.T) {
	repo := NewRepository(config.Config{})
	session, err := repo.CreateSession("hello@example.com", "lifetime", "USD")
	assert.NoError(t, err)
	assert.Nil(t, session)
}
