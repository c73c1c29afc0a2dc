package payroll

import "errors"

var (
	ErrInvalidDateRange   = errors.New("end date must not be before start date")
	ErrDateRangeTooLong   = errors.New("date range must not exceed 366 days")
	ErrInvalidRegularRate = errors.New("regular rate must be greater than zero")
)
