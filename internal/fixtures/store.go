package fixtures

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
)

// ==========================================
// IN-MEMORY STORE
// ==========================================

// Store is an in-memory stand-in for the PostgreSQL repositories. It mirrors
// their ordering, filtering and constraint behaviour closely enough for
// service and handler tests.
type Store struct {
	mu          sync.Mutex
	users       map[string]user.User
	workplaces  map[string]string
	logs        []attendance.ClockLog
	assignments map[string]assignment.Assignment
	settings    []payroll.PaymentSettings
	now         func() time.Time

	// Counters for asserting how often the store was hit.
	SettingsLookups int
	Transactions    int
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]user.User),
		workplaces:  make(map[string]string),
		assignments: make(map[string]assignment.Assignment),
		now:         time.Now,
	}
}

// SetClock overrides the time used for created_at columns.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

type snapshot struct {
	users       map[string]user.User
	logs        []attendance.ClockLog
	assignments map[string]assignment.Assignment
	settings    []payroll.PaymentSettings
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		users:       make(map[string]user.User, len(s.users)),
		logs:        append([]attendance.ClockLog(nil), s.logs...),
		assignments: make(map[string]assignment.Assignment, len(s.assignments)),
		settings:    append([]payroll.PaymentSettings(nil), s.settings...),
	}
	for k, v := range s.users {
		snap.users[k] = v
	}
	for k, v := range s.assignments {
		snap.assignments[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.logs = snap.logs
	s.assignments = snap.assignments
	s.settings = snap.settings
}

// WithinTransaction implements database.Transactor. Writes made by a failing
// fn are rolled back.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s.mu.Lock()
	s.Transactions++
	s.mu.Unlock()

	snap := s.snapshot()
	if err := fn(ctx); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// ==========================================
// SEEDING
// ==========================================

// AddUser stores u, filling in ID, email and status when empty.
func (s *Store) AddUser(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Email == "" {
		u.Email = u.ID + "@example.com"
	}
	if u.Status == "" {
		u.Status = "ACTIVE"
	}
	if u.Role == "" {
		u.Role = user.RoleEmployee
	}
	u.CreatedAt = s.now()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = u
	return u
}

func (s *Store) AddWorkplace(name string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.workplaces[id] = name
	return id
}

// AddClockLog stores a log as is, bypassing the open-shift check.
func (s *Store) AddClockLog(l attendance.ClockLog) attendance.ClockLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = l.ClockIn
	l.UpdatedAt = l.ClockIn
	s.logs = append(s.logs, l)
	return l
}

func (s *Store) AddAssignment(a assignment.Assignment) assignment.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Priority == "" {
		a.Priority = assignment.PriorityMedium
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = s.now()
	}
	a.UpdatedAt = a.CreatedAt
	s.assignments[a.ID] = a
	return a
}

func (s *Store) AddPaymentSettings(ps payroll.PaymentSettings) payroll.PaymentSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ps.ID == "" {
		ps.ID = uuid.NewString()
	}
	if ps.CreatedAt.IsZero() {
		ps.CreatedAt = s.now()
	}
	s.settings = append(s.settings, ps)
	return ps
}

// StoredClockLogs returns every stored log in insertion order.
func (s *Store) StoredClockLogs() []attendance.ClockLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]attendance.ClockLog(nil), s.logs...)
}

func (s *Store) Assignment(id string) (assignment.Assignment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.assignments[id]
	return a, ok
}

// ==========================================
// REPOSITORIES
// ==========================================

func (s *Store) UserRepository() user.UserRepository { return userRepo{s} }

func (s *Store) ClockLogRepository() attendance.ClockLogRepository { return clockLogRepo{s} }

func (s *Store) AssignmentRepository() assignment.AssignmentRepository { return assignmentRepo{s} }

func (s *Store) PaymentSettingsRepository() payroll.PaymentSettingsRepository {
	return settingsRepo{s}
}
