package payroll

import (
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RATES DTOs ==========

type RatesResponse struct {
	RegularRate        decimal.Decimal `json:"regular_rate"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	SundayOvertimeRate decimal.Decimal `json:"sunday_overtime_rate"`
	Source             RateSource      `json:"source"`
}

func NewRatesResponse(r Rates) RatesResponse {
	return RatesResponse{
		RegularRate:        r.Regular,
		OvertimeRate:       r.Overtime,
		SundayOvertimeRate: r.Sunday,
		Source:             r.Source,
	}
}

// ========== PAYMENT SETTINGS DTOs ==========

type PaymentSettingsResponse struct {
	ID                 *string         `json:"id"`
	RegularRate        decimal.Decimal `json:"regular_rate"`
	OvertimeRate       decimal.Decimal `json:"overtime_rate"`
	SundayOvertimeRate decimal.Decimal `json:"sunday_overtime_rate"`
	CreatedBy          *string         `json:"created_by,omitempty"`
	CreatedAt          *string         `json:"created_at,omitempty"`
}

type UpdatePaymentSettingsRequest struct {
	RegularRate decimal.Decimal `json:"regular_rate"`
}

func (r *UpdatePaymentSettingsRequest) Validate() error {
	var errs validator.ValidationErrors

	if !r.RegularRate.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "regular_rate", Message: "must be greater than zero"})
	} else if r.RegularRate.Exponent() < -2 {
		errs = append(errs, validator.ValidationError{Field: "regular_rate", Message: "must have at most 2 decimal places"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== SALARY DTOs ==========

type SalaryRequest struct {
	WorkerID  string `json:"worker_id"`
	StartDate string `json:"start_date"` // YYYY-MM-DD, inclusive
	EndDate   string `json:"end_date"`   // YYYY-MM-DD, inclusive
}

func (r *SalaryRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "is required"})
	} else if !validator.IsValidUUID(r.WorkerID) {
		errs = append(errs, validator.ValidationError{Field: "worker_id", Message: "must be a valid UUID"})
	}

	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "must be in YYYY-MM-DD format"})
	}
	if startOK && endOK {
		if end.Before(start) {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrInvalidDateRange.Error()})
		} else if end.Sub(start).Hours()/24 > 366 {
			errs = append(errs, validator.ValidationError{Field: "end_date", Message: ErrDateRangeTooLong.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DayResponse struct {
	Date          string  `json:"date"`
	Hours         float64 `json:"hours"`
	RegularHours  float64 `json:"regular_hours"`
	OvertimeHours float64 `json:"overtime_hours"`
	IsSunday      bool    `json:"is_sunday"`
}

type SalaryResponse struct {
	WorkerID             string          `json:"worker_id"`
	WorkerName           string          `json:"worker_name"`
	StartDate            string          `json:"start_date"`
	EndDate              string          `json:"end_date"`
	TotalHours           float64         `json:"total_hours"`
	TotalRegularHours    float64         `json:"total_regular_hours"`
	TotalOvertimeHours   float64         `json:"total_overtime_hours"`
	WeekdayOvertimeHours float64         `json:"weekday_overtime_hours"`
	SundayHours          float64         `json:"sunday_hours"`
	RegularPay           decimal.Decimal `json:"regular_pay"`
	OvertimePay          decimal.Decimal `json:"overtime_pay"`
	TotalPay             decimal.Decimal `json:"total_pay"`
	Rates                RatesResponse   `json:"rates"`
	Days                 []DayResponse   `json:"days"`
}

// ========== WORKER DETAIL DTOs ==========

type WorkerDetailResponse struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Email              string        `json:"email"`
	Status             string        `json:"status"`
	SupervisorID       *string       `json:"supervisor_id,omitempty"`
	JoinDate           *string       `json:"join_date,omitempty"`
	TasksCompleted     int64         `json:"tasks_completed"`
	TotalHours         float64       `json:"total_hours"`
	TotalRegularHours  float64       `json:"total_regular_hours"`
	TotalOvertimeHours float64       `json:"total_overtime_hours"`
	MonthlyAverage     float64       `json:"monthly_average"`
	WorkRecords        []DayResponse `json:"work_records"`
	Rates              RatesResponse `json:"payment_settings"`
}
