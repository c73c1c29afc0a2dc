package payroll

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSettingsRepo struct {
	mu       sync.Mutex
	versions []payroll.PaymentSettings
	calls    int
	err      error
}

func (f *fakeSettingsRepo) GetCurrent(ctx context.Context, asOf time.Time) (*payroll.PaymentSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var current *payroll.PaymentSettings
	for i := range f.versions {
		v := f.versions[i]
		if v.CreatedAt.After(asOf) {
			continue
		}
		if current == nil || v.CreatedAt.After(current.CreatedAt) {
			current = &v
		}
	}
	return current, nil
}

func (f *fakeSettingsRepo) Append(ctx context.Context, s payroll.PaymentSettings) (payroll.PaymentSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	s.ID = fmt.Sprintf("ps-%d", len(f.versions)+1)
	f.versions = append(f.versions, s)
	return s, nil
}

func (f *fakeSettingsRepo) ListHistory(ctx context.Context, limit int) ([]payroll.PaymentSettings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]payroll.PaymentSettings, 0, len(f.versions))
	for i := len(f.versions) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, f.versions[i])
	}
	return out, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestRateResolver_FallbackChain(t *testing.T) {
	ctx := context.Background()
	override := dec("30")

	t.Run("worker override wins over settings", func(t *testing.T) {
		repo := &fakeSettingsRepo{versions: []payroll.PaymentSettings{
			{RegularRate: dec("22"), CreatedAt: time.Now().Add(-time.Hour)},
		}}
		resolver := NewRateResolver(repo, dec("25"), time.Minute)

		rates, err := resolver.Resolve(ctx, &user.User{ID: "w1", HourlyRate: &override})

		require.NoError(t, err)
		assert.True(t, rates.Regular.Equal(dec("30")))
		assert.True(t, rates.Overtime.Equal(dec("45")))
		assert.True(t, rates.Sunday.Equal(dec("60")))
		assert.Equal(t, payroll.RateSourceWorker, rates.Source)
	})

	t.Run("latest settings version without override", func(t *testing.T) {
		repo := &fakeSettingsRepo{versions: []payroll.PaymentSettings{
			{RegularRate: dec("20"), CreatedAt: time.Now().Add(-2 * time.Hour)},
			{RegularRate: dec("22.50"), CreatedAt: time.Now().Add(-time.Hour)},
		}}
		resolver := NewRateResolver(repo, dec("25"), time.Minute)

		rates, err := resolver.Resolve(ctx, &user.User{ID: "w1"})

		require.NoError(t, err)
		assert.True(t, rates.Regular.Equal(dec("22.50")))
		assert.True(t, rates.Overtime.Equal(dec("33.75")))
		assert.True(t, rates.Sunday.Equal(dec("45")))
		assert.Equal(t, payroll.RateSourceSettings, rates.Source)
	})

	t.Run("default when nothing configured", func(t *testing.T) {
		resolver := NewRateResolver(&fakeSettingsRepo{}, dec("25"), time.Minute)

		rates, err := resolver.Resolve(ctx, nil)

		require.NoError(t, err)
		assert.True(t, rates.Regular.Equal(dec("25")))
		assert.True(t, rates.Overtime.Equal(dec("37.5")))
		assert.True(t, rates.Sunday.Equal(dec("50")))
		assert.Equal(t, payroll.RateSourceDefault, rates.Source)
	})
}

func TestRateResolver_RoundsDerivedRates(t *testing.T) {
	odd := dec("18.33")
	resolver := NewRateResolver(&fakeSettingsRepo{}, dec("25"), time.Minute)

	rates, err := resolver.Resolve(context.Background(), &user.User{HourlyRate: &odd})

	require.NoError(t, err)
	// 18.33 * 1.5 = 27.495
	assert.True(t, rates.Overtime.Equal(dec("27.50")), "got %s", rates.Overtime)
	assert.True(t, rates.Sunday.Equal(dec("36.66")), "got %s", rates.Sunday)
}

func TestRateResolver_CachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	repo := &fakeSettingsRepo{}
	resolver := NewRateResolver(repo, dec("25"), time.Hour)

	_, err := resolver.OrganisationRates(ctx)
	require.NoError(t, err)
	_, err = repo.Append(ctx, payroll.PaymentSettings{RegularRate: dec("28"), CreatedAt: time.Now().Add(-time.Second)})
	require.NoError(t, err)

	cached, err := resolver.OrganisationRates(ctx)
	require.NoError(t, err)
	assert.True(t, cached.Regular.Equal(dec("25")))
	assert.Equal(t, 1, repo.calls)

	resolver.Invalidate()
	fresh, err := resolver.OrganisationRates(ctx)
	require.NoError(t, err)
	assert.True(t, fresh.Regular.Equal(dec("28")))
	assert.Equal(t, 2, repo.calls)
}

func TestRateResolver_ResolveAllUsesOneLookup(t *testing.T) {
	repo := &fakeSettingsRepo{}
	resolver := NewRateResolver(repo, dec("25"), time.Minute)
	override := dec("30")

	rates, err := resolver.ResolveAll(context.Background(), []user.User{
		{ID: "a", HourlyRate: &override},
		{ID: "b"},
		{ID: "c"},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.True(t, rates["a"].Regular.Equal(dec("30")))
	assert.True(t, rates["b"].Regular.Equal(dec("25")))
	assert.True(t, rates["c"].Regular.Equal(dec("25")))
}

func TestRateResolver_PropagatesStoreErrors(t *testing.T) {
	resolver := NewRateResolver(&fakeSettingsRepo{err: errors.New("connection refused")}, dec("25"), time.Minute)

	_, err := resolver.Resolve(context.Background(), nil)

	assert.Error(t, err)
}
