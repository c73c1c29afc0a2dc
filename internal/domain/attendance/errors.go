package attendance

import "errors"

// Attendance domain errors
var (
	ErrAlreadyClockedIn   = errors.New("you are already clocked in")
	ErrClockLogNotFound   = errors.New("clock log not found")
	ErrAssignmentMismatch = errors.New("open shift belongs to a different assignment")
)
