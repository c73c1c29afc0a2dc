package assignment

import (
	"time"
)

type Status string

const (
	StatusUpcoming   Status = "UPCOMING"
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReview     Status = "REVIEW"
	StatusCompleted  Status = "COMPLETED"
)

type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// transitions lists the statuses each status may move to.
var transitions = map[Status][]Status{
	StatusUpcoming:   {StatusInProgress},
	StatusPending:    {StatusInProgress},
	StatusInProgress: {StatusReview, StatusCompleted},
	StatusReview:     {StatusCompleted, StatusInProgress},
	StatusCompleted:  {},
}

// CanTransition reports whether from may move to to.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Assignment struct {
	ID             string
	EmployeeID     string
	WorkplaceID    *string
	Title          string
	Description    *string
	Priority       Priority
	Status         Status
	DueDate        *time.Time
	StartTime      *time.Time
	EndTime        *time.Time
	CompletedAt    *time.Time
	EstimatedHours *float64
	Location       *string
	CreatedBy      *string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Joined fields
	EmployeeName  *string
	WorkplaceName *string
}

// InitialStatus is PENDING when the due date is today or earlier,
// UPCOMING otherwise. today is a local YYYY-MM-DD date.
func InitialStatus(dueDate time.Time, today string) Status {
	if dueDate.Format("2006-01-02") <= today {
		return StatusPending
	}
	return StatusUpcoming
}
