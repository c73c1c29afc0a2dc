package payroll

import (
	"context"
	"math"

	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
)

// ShiftsFromLogs maps clock logs onto engine shifts using the raw clock times.
func ShiftsFromLogs(logs []attendance.ClockLog) []Shift {
	shifts := make([]Shift, 0, len(logs))
	for _, l := range logs {
		shifts = append(shifts, Shift{ID: l.ID, Start: l.ClockIn, End: l.ClockOut})
	}
	return shifts
}

// ShiftsByEmployee groups clock logs per employee. Overtime thresholds are
// per worker, so different workers must never share a day bucket.
func ShiftsByEmployee(logs []attendance.ClockLog) map[string][]Shift {
	grouped := make(map[string][]Shift)
	for _, l := range logs {
		grouped[l.EmployeeID] = append(grouped[l.EmployeeID], Shift{ID: l.ID, Start: l.ClockIn, End: l.ClockOut})
	}
	return grouped
}

// PrecedingShifts returns the closed shifts of employeeID that start before
// the oldest log of a newest-first page yet reach into that log's local day.
// Allocating them together with the page keeps the day's regular budget
// consumed in clock order. A page shorter than limit already holds every log,
// so nothing is loaded.
func PrecedingShifts(ctx context.Context, clockLogs attendance.ClockLogRepository, calc *HoursCalculator, employeeID string, page []attendance.ClockLog, limit int) ([]Shift, error) {
	if len(page) == 0 || len(page) < limit {
		return nil, nil
	}

	oldestIn := page[0].ClockIn
	earliest := page[0].ClockIn
	seen := make(map[string]struct{}, len(page))
	for i := range page {
		seen[page[i].ID] = struct{}{}
		if page[i].ClockIn.Before(oldestIn) {
			oldestIn = page[i].ClockIn
		}
		if start, _ := page[i].WorkedInterval(); start.Before(earliest) {
			earliest = start
		}
		if page[i].ClockIn.Before(earliest) {
			earliest = page[i].ClockIn
		}
	}

	logs, err := clockLogs.ListOverlapping(ctx, calc.StartOfDay(earliest), oldestIn, employeeID)
	if err != nil {
		return nil, err
	}

	shifts := make([]Shift, 0, len(logs))
	for _, l := range logs {
		if _, ok := seen[l.ID]; ok {
			continue
		}
		shifts = append(shifts, Shift{ID: l.ID, Start: l.ClockIn, End: l.ClockOut})
	}
	return shifts, nil
}

// RoundHours rounds to 2 decimals for presentation.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

func DayResponses(days []Day) []payroll.DayResponse {
	out := make([]payroll.DayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, payroll.DayResponse{
			Date:          d.Date,
			Hours:         RoundHours(d.Hours),
			RegularHours:  RoundHours(d.RegularHours),
			OvertimeHours: RoundHours(d.OvertimeHours),
			IsSunday:      d.IsSunday,
		})
	}
	return out
}
