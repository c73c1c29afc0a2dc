package fixtures

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/assignment"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/attendance"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/payroll"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
)

// ==========================================
// USERS
// ==========================================

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (r userRepo) GetWorker(ctx context.Context, id string) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.Role != user.RoleEmployee {
		return user.User{}, user.ErrWorkerNotFound
	}
	return u, nil
}

func (r userRepo) LockWorker(ctx context.Context, id string) (user.User, error) {
	return r.GetWorker(ctx, id)
}

func matchesWorker(u user.User, filter user.WorkerFilter) bool {
	if u.Role != user.RoleEmployee {
		return false
	}
	if filter.SupervisorID != nil && (u.SupervisorID == nil || *u.SupervisorID != *filter.SupervisorID) {
		return false
	}
	if filter.ActiveOnly && u.Status != "ACTIVE" {
		return false
	}
	return true
}

func (r userRepo) ListWorkers(ctx context.Context, filter user.WorkerFilter) ([]user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var workers []user.User
	for _, u := range r.s.users {
		if matchesWorker(u, filter) {
			workers = append(workers, u)
		}
	}
	sort.Slice(workers, func(i, j int) bool { return workers[i].Name < workers[j].Name })
	return workers, nil
}

func (r userRepo) CountWorkers(ctx context.Context, filter user.WorkerFilter) (int64, error) {
	workers, err := r.ListWorkers(ctx, filter)
	return int64(len(workers)), err
}

// ==========================================
// CLOCK LOGS
// ==========================================

type clockLogRepo struct{ s *Store }

func (r clockLogRepo) Create(ctx context.Context, l attendance.ClockLog) (attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.logs {
		if existing.EmployeeID == l.EmployeeID && existing.ClockOut == nil {
			return attendance.ClockLog{}, attendance.ErrAlreadyClockedIn
		}
	}

	l.ID = uuid.NewString()
	l.CreatedAt = r.s.now()
	l.UpdatedAt = l.CreatedAt
	r.s.logs = append(r.s.logs, l)
	return l, nil
}

func (r clockLogRepo) GetOpen(ctx context.Context, employeeID string, forUpdate bool) (*attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var open *attendance.ClockLog
	for i := range r.s.logs {
		l := r.s.logs[i]
		if l.EmployeeID != employeeID || l.ClockOut != nil {
			continue
		}
		if open == nil || l.ClockIn.After(open.ClockIn) {
			open = &l
		}
	}
	return open, nil
}

func (r clockLogRepo) Close(ctx context.Context, l attendance.ClockLog) (attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i := range r.s.logs {
		stored := &r.s.logs[i]
		if stored.ID != l.ID || stored.ClockOut != nil {
			continue
		}
		stored.ClockOut = l.ClockOut
		stored.RegularHours = l.RegularHours
		stored.OvertimeHours = l.OvertimeHours
		stored.UpdatedAt = r.s.now()
		return *stored, nil
	}
	return attendance.ClockLog{}, attendance.ErrClockLogNotFound
}

func (r clockLogRepo) ListOverlapping(ctx context.Context, from, to time.Time, employeeIDs ...string) ([]attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}

	var logs []attendance.ClockLog
	for _, l := range r.s.logs {
		if l.ClockOut == nil || !l.ClockOut.After(from) || !l.ClockIn.Before(to) {
			continue
		}
		if len(wanted) > 0 && !wanted[l.EmployeeID] {
			continue
		}
		logs = append(logs, l)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].ClockIn.Before(logs[j].ClockIn) })
	return logs, nil
}

func (r clockLogRepo) ListByEmployee(ctx context.Context, employeeID string, limit int) ([]attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var logs []attendance.ClockLog
	for _, l := range r.s.logs {
		if l.EmployeeID != employeeID {
			continue
		}
		if l.AssignmentID != nil {
			if a, ok := r.s.assignments[*l.AssignmentID]; ok {
				title := a.Title
				l.AssignmentTitle = &title
				l.AssignmentStart = a.StartTime
				l.AssignmentEnd = a.EndTime
				l.AssignmentPlace = a.Location
				l.WorkplaceName = r.s.workplaceName(a.WorkplaceID)
			}
		}
		logs = append(logs, l)
	}
	sortNewestFirst(logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r clockLogRepo) ListRecent(ctx context.Context, limit int) ([]attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	logs := make([]attendance.ClockLog, 0, len(r.s.logs))
	for _, l := range r.s.logs {
		l.EmployeeName = r.s.userName(l.EmployeeID)
		logs = append(logs, l)
	}
	sortNewestFirst(logs)
	if limit > 0 && len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (r clockLogRepo) ListOpenStartedBefore(ctx context.Context, cutoff time.Time, employeeIDs ...string) ([]attendance.ClockLog, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	wanted := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		wanted[id] = true
	}

	var logs []attendance.ClockLog
	for _, l := range r.s.logs {
		if l.ClockOut != nil || !l.ClockIn.Before(cutoff) {
			continue
		}
		if len(wanted) > 0 && !wanted[l.EmployeeID] {
			continue
		}
		l.EmployeeName = r.s.userName(l.EmployeeID)
		logs = append(logs, l)
	}
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].ClockIn.Before(logs[j].ClockIn) })
	return logs, nil
}

func sortNewestFirst(logs []attendance.ClockLog) {
	sort.SliceStable(logs, func(i, j int) bool { return logs[i].ClockIn.After(logs[j].ClockIn) })
}

func (s *Store) userName(id string) *string {
	u, ok := s.users[id]
	if !ok {
		return nil
	}
	name := u.Name
	return &name
}

func (s *Store) workplaceName(id *string) *string {
	if id == nil {
		return nil
	}
	name, ok := s.workplaces[*id]
	if !ok {
		return nil
	}
	return &name
}

// ==========================================
// ASSIGNMENTS
// ==========================================

type assignmentRepo struct{ s *Store }

func (r assignmentRepo) Create(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a.ID = uuid.NewString()
	a.CreatedAt = r.s.now()
	a.UpdatedAt = a.CreatedAt
	r.s.assignments[a.ID] = a
	return r.s.joinAssignment(a), nil
}

func (r assignmentRepo) GetByID(ctx context.Context, id string, forUpdate bool) (assignment.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	a, ok := r.s.assignments[id]
	if !ok {
		return assignment.Assignment{}, assignment.ErrAssignmentNotFound
	}
	return r.s.joinAssignment(a), nil
}

func (r assignmentRepo) UpdateProgress(ctx context.Context, a assignment.Assignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.assignments[a.ID]
	if !ok {
		return assignment.ErrAssignmentNotFound
	}
	stored.Status = a.Status
	stored.StartTime = a.StartTime
	stored.EndTime = a.EndTime
	stored.CompletedAt = a.CompletedAt
	stored.UpdatedAt = r.s.now()
	r.s.assignments[a.ID] = stored
	return nil
}

func (r assignmentRepo) List(ctx context.Context, filter assignment.AssignmentFilter) ([]assignment.Assignment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var items []assignment.Assignment
	for _, a := range r.s.assignments {
		if filter.EmployeeID != nil && a.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.SupervisorID != nil {
			owner, ok := r.s.users[a.EmployeeID]
			if !ok || owner.SupervisorID == nil || *owner.SupervisorID != *filter.SupervisorID {
				continue
			}
		}
		if filter.DueFrom != nil && (a.DueDate == nil || a.DueDate.Before(*filter.DueFrom)) {
			continue
		}
		if filter.DueTo != nil && (a.DueDate == nil || !a.DueDate.Before(*filter.DueTo)) {
			continue
		}
		if filter.ExcludeCompleted && a.Status == assignment.StatusCompleted {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.CompletedFrom != nil && (a.CompletedAt == nil || a.CompletedAt.Before(*filter.CompletedFrom)) {
			continue
		}
		items = append(items, r.s.joinAssignment(a))
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (r assignmentRepo) CountCompleted(ctx context.Context, employeeID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, a := range r.s.assignments {
		if a.EmployeeID == employeeID && a.Status == assignment.StatusCompleted {
			n++
		}
	}
	return n, nil
}

func (r assignmentRepo) CountActive(ctx context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for _, a := range r.s.assignments {
		switch a.Status {
		case assignment.StatusUpcoming, assignment.StatusPending, assignment.StatusInProgress:
			n++
		}
	}
	return n, nil
}

func (r assignmentRepo) CountByEmployee(ctx context.Context, supervisorID *string) ([]assignment.StatusCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var counts []assignment.StatusCounts
	for _, u := range r.s.users {
		if !matchesWorker(u, user.WorkerFilter{SupervisorID: supervisorID}) {
			continue
		}
		c := assignment.StatusCounts{EmployeeID: u.ID, EmployeeName: u.Name}
		for _, a := range r.s.assignments {
			if a.EmployeeID != u.ID {
				continue
			}
			c.Assigned++
			if a.Status == assignment.StatusCompleted {
				c.Completed++
			}
		}
		counts = append(counts, c)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].EmployeeName < counts[j].EmployeeName })
	return counts, nil
}

func (s *Store) joinAssignment(a assignment.Assignment) assignment.Assignment {
	a.EmployeeName = s.userName(a.EmployeeID)
	a.WorkplaceName = s.workplaceName(a.WorkplaceID)
	return a
}

// ==========================================
// PAYMENT SETTINGS
// ==========================================

type settingsRepo struct{ s *Store }

func (r settingsRepo) GetCurrent(ctx context.Context, asOf time.Time) (*payroll.PaymentSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.SettingsLookups++
	var current *payroll.PaymentSettings
	for i := range r.s.settings {
		ps := r.s.settings[i]
		if ps.CreatedAt.After(asOf) {
			continue
		}
		if current == nil || ps.CreatedAt.After(current.CreatedAt) {
			current = &ps
		}
	}
	return current, nil
}

func (r settingsRepo) Append(ctx context.Context, ps payroll.PaymentSettings) (payroll.PaymentSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	ps.ID = uuid.NewString()
	ps.CreatedAt = r.s.now()
	r.s.settings = append(r.s.settings, ps)
	return ps, nil
}

func (r settingsRepo) ListHistory(ctx context.Context, limit int) ([]payroll.PaymentSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	history := append([]payroll.PaymentSettings(nil), r.s.settings...)
	sort.SliceStable(history, func(i, j int) bool { return history[i].CreatedAt.After(history[j].CreatedAt) })
	if limit > 0 && len(history) > limit {
		history = history[:limit]
	}
	return history, nil
}
