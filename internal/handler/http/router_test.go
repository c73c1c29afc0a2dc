package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/knk-palvelut/workforce-backend-go/internal/config"
	"github.com/knk-palvelut/workforce-backend-go/internal/domain/user"
	"github.com/knk-palvelut/workforce-backend-go/internal/fixtures"
	"github.com/knk-palvelut/workforce-backend-go/internal/pkg/jwt"
	assignmentService "github.com/knk-palvelut/workforce-backend-go/internal/service/assignment"
	attendanceService "github.com/knk-palvelut/workforce-backend-go/internal/service/attendance"
	dashboardService "github.com/knk-palvelut/workforce-backend-go/internal/service/dashboard"
	payrollService "github.com/knk-palvelut/workforce-backend-go/internal/service/payroll"
	reportService "github.com/knk-palvelut/workforce-backend-go/internal/service/report"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler    http.Handler
	store      *fixtures.Store
	jwtService jwt.Service

	admin      user.User
	supervisor user.User
	cleaner    user.User
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Version: "test"},
		Payroll: config.PayrollConfig{
			Timezone:       "Europe/Helsinki",
			DefaultRate:    decimal.NewFromInt(25),
			RateCacheTTL:   time.Minute,
			ClockRateLimit: 100,
			ClockRateBurst: 10,
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3001"}},
	}

	store := fixtures.NewStore()
	jwtService := jwt.NewJWTService("handler-test-secret", "15m")

	users := store.UserRepository()
	clockLogs := store.ClockLogRepository()
	assignments := store.AssignmentRepository()
	settings := store.PaymentSettingsRepository()

	calc := payrollService.NewHoursCalculator(cfg.Location())
	rates := payrollService.NewRateResolver(settings, cfg.Payroll.DefaultRate, cfg.Payroll.RateCacheTTL)

	handlers := Handlers{
		Attendance: NewAttendanceHandler(attendanceService.NewAttendanceService(store, clockLogs, users, assignments, calc)),
		Assignment: NewAssignmentHandler(assignmentService.NewAssignmentService(store, assignments, users, calc)),
		Payroll:    NewPayrollHandler(payrollService.NewPayrollService(users, clockLogs, assignments, settings, rates, calc)),
		Dashboard:  NewDashboardHandler(dashboardService.NewDashboardService(users, clockLogs, assignments, rates, calc)),
		Report:     NewReportHandler(reportService.NewReportService(users, clockLogs, assignments, calc)),
	}

	admin := store.AddUser(user.User{Name: "Admin", Role: user.RoleAdmin})
	supervisor := store.AddUser(user.User{Name: "Sanna", Role: user.RoleSupervisor})
	cleaner := store.AddUser(user.User{Name: "Pekka", Role: user.RoleEmployee, SupervisorID: &supervisor.ID})

	return &testServer{
		handler:    NewRouter(cfg, jwtService, handlers),
		store:      store,
		jwtService: jwtService,
		admin:      admin,
		supervisor: supervisor,
		cleaner:    cleaner,
	}
}

func (s *testServer) do(t *testing.T, method, path string, as *user.User, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if as != nil {
		token, _, err := s.jwtService.GenerateAccessToken(as.ID, as.Role)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var payload map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	}
	return rec, payload
}

func TestRouter_RequiresToken(t *testing.T) {
	s := setupTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/attendance/summary", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_RevokedToken(t *testing.T) {
	s := setupTestServer(t)

	token, _, err := s.jwtService.GenerateAccessToken(s.cleaner.ID, s.cleaner.Role)
	require.NoError(t, err)
	s.jwtService.RevokeToken(token)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attendance/summary", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_ClockInAndOut(t *testing.T) {
	s := setupTestServer(t)

	rec, payload := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", &s.cleaner, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	data := payload["data"].(map[string]interface{})
	assert.Equal(t, s.cleaner.ID, data["employee_id"])
	assert.Nil(t, data["clock_out"])

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", &s.cleaner, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, payload = s.do(t, http.MethodPost, "/api/v1/attendance/clock-out", &s.cleaner, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data = payload["data"].(map[string]interface{})
	assert.NotNil(t, data["clock_out"])

	// A resent clock-out finds nothing open.
	rec, payload = s.do(t, http.MethodPost, "/api/v1/attendance/clock-out", &s.cleaner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, payload["data"])
	assert.Equal(t, "No open shift", payload["message"])

	logs := s.store.StoredClockLogs()
	require.Len(t, logs, 1)
	assert.NotNil(t, logs[0].ClockOut)
}

func TestRouter_ClockInRejectsMalformedBody(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/attendance/clock-in", bytes.NewBufferString("{not json"))
	token, _, err := s.jwtService.GenerateAccessToken(s.cleaner.ID, s.cleaner.Role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, s.store.StoredClockLogs())
}

func TestRouter_RoleGuards(t *testing.T) {
	s := setupTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		as     *user.User
		want   int
	}{
		{"supervisor cannot clock in", http.MethodPost, "/api/v1/attendance/clock-in", &s.supervisor, http.StatusForbidden},
		{"cleaner cannot open admin dashboard", http.MethodGet, "/api/v1/admin/dashboard", &s.cleaner, http.StatusForbidden},
		{"supervisor cannot open admin dashboard", http.MethodGet, "/api/v1/admin/dashboard", &s.supervisor, http.StatusForbidden},
		{"admin opens dashboard", http.MethodGet, "/api/v1/admin/dashboard", &s.admin, http.StatusOK},
		{"cleaner cannot read reports", http.MethodGet, "/api/v1/reports/attendance", &s.cleaner, http.StatusForbidden},
		{"supervisor reads team hours", http.MethodGet, "/api/v1/reports/team-hours", &s.supervisor, http.StatusOK},
		{"cleaner reads own rates", http.MethodGet, "/api/v1/payroll/rates", &s.cleaner, http.StatusOK},
		{"supervisor opens own cleaner", http.MethodGet, "/api/v1/admin/workers/" + s.cleaner.ID, &s.supervisor, http.StatusOK},
		{"cleaner cannot open supervisor dashboard", http.MethodGet, "/api/v1/supervisor/dashboard", &s.cleaner, http.StatusForbidden},
		{"admin cannot open supervisor dashboard", http.MethodGet, "/api/v1/supervisor/dashboard", &s.admin, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := s.do(t, tt.method, tt.path, tt.as, nil)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_PaymentSettings(t *testing.T) {
	s := setupTestServer(t)

	rec, payload := s.do(t, http.MethodGet, "/api/v1/admin/payroll/settings", &s.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload["data"].(map[string]interface{})
	assert.Nil(t, data["id"])
	assert.Equal(t, "25", data["regular_rate"])

	rec, _ = s.do(t, http.MethodPut, "/api/v1/admin/payroll/settings", &s.admin, map[string]interface{}{"regular_rate": "0"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/admin/payroll/settings", &s.admin, map[string]interface{}{"regular_rate": "22"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, payload = s.do(t, http.MethodGet, "/api/v1/admin/payroll/settings", &s.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	data = payload["data"].(map[string]interface{})
	assert.NotNil(t, data["id"])
	assert.Equal(t, "22", data["regular_rate"])
	assert.Equal(t, "33", data["overtime_rate"])

	rec, payload = s.do(t, http.MethodGet, "/api/v1/admin/payroll/settings/history", &s.admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["data"], 1)
}

func TestRouter_CalculateSalary(t *testing.T) {
	s := setupTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/payroll/salary", bytes.NewBufferString("nope"))
	token, _, err := s.jwtService.GenerateAccessToken(s.admin.ID, s.admin.Role)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload := s.do(t, http.MethodPost, "/api/v1/admin/payroll/salary", &s.admin, map[string]interface{}{
		"worker_id":  s.cleaner.ID,
		"start_date": "2025-03-10",
		"end_date":   "2025-03-14",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.NotNil(t, payload["data"])

	rec, _ = s.do(t, http.MethodPost, "/api/v1/admin/payroll/salary", &s.admin, map[string]interface{}{
		"worker_id":  s.cleaner.ID,
		"start_date": "2025-03-14",
		"end_date":   "2025-03-10",
	})
	assert.Contains(t, []int{http.StatusBadRequest, http.StatusUnprocessableEntity}, rec.Code)
}

func TestRouter_CompleteAssignmentValidatesID(t *testing.T) {
	s := setupTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/assignments/not-a-uuid/complete", &s.supervisor, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/assignments/00000000-0000-0000-0000-000000000000/complete", &s.supervisor, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_AssignmentLifecycle(t *testing.T) {
	s := setupTestServer(t)

	rec, payload := s.do(t, http.MethodPost, "/api/v1/assignments", &s.supervisor, map[string]interface{}{
		"employee_id": s.cleaner.ID,
		"title":       "Office floor 3",
		"due_date":    time.Now().Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id := payload["data"].(map[string]interface{})["id"].(string)

	rec, payload = s.do(t, http.MethodGet, "/api/v1/assignments/my", &s.cleaner, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload["data"], 1)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", &s.cleaner, map[string]interface{}{"assignment_id": id})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/clock-out", &s.cleaner, map[string]interface{}{"assignment_id": id})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec, payload = s.do(t, http.MethodPost, "/api/v1/assignments/"+id+"/complete", &s.supervisor, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "COMPLETED", payload["data"].(map[string]interface{})["status"])
}

func TestRouter_SupervisorDashboard(t *testing.T) {
	s := setupTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/attendance/clock-in", &s.cleaner, map[string]interface{}{"location": "Kamppi"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, payload := s.do(t, http.MethodGet, "/api/v1/supervisor/dashboard", &s.supervisor, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := payload["data"].(map[string]interface{})
	stats := data["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["team_size"])
	assert.EqualValues(t, 0, stats["alerts"])

	members := data["team_members"].([]interface{})
	require.Len(t, members, 1)
	member := members[0].(map[string]interface{})
	assert.Equal(t, "Pekka", member["name"])
	assert.Equal(t, "Clocked In", member["status"])
	assert.Equal(t, "Kamppi", member["location"])
	assert.EqualValues(t, 0, member["hours_today"])
	assert.Empty(t, data["pending_reviews"])
}
