package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	overtimeMultiplier = decimal.NewFromFloat(1.5)
	sundayMultiplier   = decimal.NewFromInt(2)
)

// PaymentSettings is one version of the organisation-wide rate. Rows are
// append-only; the current version is the latest created_at.
type PaymentSettings struct {
	ID           string
	RegularRate  decimal.Decimal
	OvertimeRate decimal.Decimal
	CreatedBy    *string
	CreatedAt    time.Time
}

// RateSource tells where a resolved regular rate came from.
type RateSource string

const (
	RateSourceWorker   RateSource = "worker"
	RateSourceSettings RateSource = "settings"
	RateSourceDefault  RateSource = "default"
)

// Rates are the hourly rates applied to one worker. Sunday is always
// derived, never stored.
type Rates struct {
	Regular  decimal.Decimal
	Overtime decimal.Decimal
	Sunday   decimal.Decimal
	Source   RateSource
}

// DeriveRates builds the rate triple from a regular rate.
func DeriveRates(regular decimal.Decimal, source RateSource) Rates {
	return Rates{
		Regular:  regular.Round(2),
		Overtime: OvertimeRateFor(regular),
		Sunday:   regular.Mul(sundayMultiplier).Round(2),
		Source:   source,
	}
}

// OvertimeRateFor is the stored overtime rate for a regular rate.
func OvertimeRateFor(regular decimal.Decimal) decimal.Decimal {
	return regular.Mul(overtimeMultiplier).Round(2)
}
