package user

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleAdmin      Role = "admin"      // Office staff - payroll and reports
	RoleSupervisor Role = "supervisor" // Leads a team of cleaners
	RoleEmployee   Role = "employee"   // Cleaner clocking shifts
)

// ParseRole maps both the lower-case token form and the upper-case column
// form onto a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(s)) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSupervisor:
		return RoleSupervisor, true
	case RoleEmployee:
		return RoleEmployee, true
	}
	return "", false
}

type User struct {
	ID           string
	Name         string
	Email        string
	Role         Role
	SupervisorID *string
	HourlyRate   *decimal.Decimal
	Status       string
	JoinDate     *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsWorker reports whether the user is a cleaner whose shifts are paid.
func (u *User) IsWorker() bool {
	return u.Role == RoleEmployee
}

// IsSupervisorOf checks the reporting line between u and the worker.
func (u *User) IsSupervisorOf(worker User) bool {
	return u.Role == RoleSupervisor && worker.SupervisorID != nil && *worker.SupervisorID == u.ID
}
