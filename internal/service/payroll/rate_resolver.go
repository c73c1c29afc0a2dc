package payroll

import (
	"context"
	"fmt"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const currentSettingsKey = "payment_settings:current"

// RateResolver picks the regular rate for a worker: the worker's own
// hourly_rate, else the current payment settings, else the configured
// default. It is the only place the default rate is read.
type RateResolver struct {
	settings    payroll.PaymentSettingsRepository
	defaultRate decimal.Decimal
	cache       *cache.Cache
	now         func() time.Time
}

func NewRateResolver(settings payroll.PaymentSettingsRepository, defaultRate decimal.Decimal, ttl time.Duration) *RateResolver {
	return &RateResolver{
		settings:    settings,
		defaultRate: defaultRate,
		cache:       cache.New(ttl, 2*ttl),
		now:         time.Now,
	}
}

// currentSettings returns the latest settings version, nil when none exists.
// The lookup result, including "none", is cached until Invalidate or TTL.
func (r *RateResolver) currentSettings(ctx context.Context) (*payroll.PaymentSettings, error) {
	if cached, found := r.cache.Get(currentSettingsKey); found {
		if s, ok := cached.(*payroll.PaymentSettings); ok {
			return s, nil
		}
	}

	s, err := r.settings.GetCurrent(ctx, r.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load current payment settings: %w", err)
	}
	r.cache.Set(currentSettingsKey, s, cache.DefaultExpiration)
	return s, nil
}

// OrganisationRates resolves the rates for a worker without an override.
func (r *RateResolver) OrganisationRates(ctx context.Context) (payroll.Rates, error) {
	s, err := r.currentSettings(ctx)
	if err != nil {
		return payroll.Rates{}, err
	}
	if s != nil && s.RegularRate.IsPositive() {
		return payroll.DeriveRates(s.RegularRate, payroll.RateSourceSettings), nil
	}
	return payroll.DeriveRates(r.defaultRate, payroll.RateSourceDefault), nil
}

// Resolve returns the effective rates for worker. A nil worker resolves the
// organisation rates.
func (r *RateResolver) Resolve(ctx context.Context, worker *user.User) (payroll.Rates, error) {
	if worker != nil && worker.HourlyRate != nil && worker.HourlyRate.IsPositive() {
		return payroll.DeriveRates(*worker.HourlyRate, payroll.RateSourceWorker), nil
	}
	return r.OrganisationRates(ctx)
}

// ResolveAll resolves rates for many workers with a single settings lookup.
func (r *RateResolver) ResolveAll(ctx context.Context, workers []user.User) (map[string]payroll.Rates, error) {
	org, err := r.OrganisationRates(ctx)
	if err != nil {
		return nil, err
	}

	result := make(map[string]payroll.Rates, len(workers))
	for _, w := range workers {
		if w.HourlyRate != nil && w.HourlyRate.IsPositive() {
			result[w.ID] = payroll.DeriveRates(*w.HourlyRate, payroll.RateSourceWorker)
			continue
		}
		result[w.ID] = org
	}
	return result, nil
}

// Invalidate drops the cached settings so the next lookup reads the store.
func (r *RateResolver) Invalidate() {
	r.cache.Delete(currentSettingsKey)
}
