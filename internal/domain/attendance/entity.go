package attendance

import (
	"time"
)

// ClockLog is one clock-in/clock-out pair. ClockOut is nil while the shift
// is open; when set it is strictly after ClockIn.
type ClockLog struct {
	ID            string
	EmployeeID    string
	AssignmentID  *string
	ClockIn       time.Time
	ClockOut      *time.Time
	RegularHours  float64
	OvertimeHours float64
	Location      *string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Joined fields
	EmployeeName    *string
	AssignmentTitle *string
	AssignmentStart *time.Time
	AssignmentEnd   *time.Time
	AssignmentPlace *string
	WorkplaceName   *string
}

func (l *ClockLog) IsOpen() bool {
	return l.ClockOut == nil
}

// WorkedInterval is the interval used for history rows. A linked
// assignment's start/end replaces the clock times when both are set.
func (l *ClockLog) WorkedInterval() (time.Time, *time.Time) {
	if l.AssignmentStart != nil && l.AssignmentEnd != nil {
		return *l.AssignmentStart, l.AssignmentEnd
	}
	return l.ClockIn, l.ClockOut
}

// Place is the best available label for where the shift happened.
func (l *ClockLog) Place() string {
	switch {
	case l.WorkplaceName != nil && *l.WorkplaceName != "":
		return *l.WorkplaceName
	case l.Location != nil && *l.Location != "":
		return *l.Location
	case l.AssignmentPlace != nil && *l.AssignmentPlace != "":
		return *l.AssignmentPlace
	}
	return "Unknown"
}
