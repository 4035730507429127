package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/dag-industries/attendance-backend-go/internal/config"
	"github.com/dag-industries/attendance-backend-go/internal/domain/auth"
	"github.com/dag-industries/attendance-backend-go/internal/domain/device"
	"github.com/dag-industries/attendance-backend-go/internal/domain/profile"
	"github.com/dag-industries/attendance-backend-go/internal/pkg/jwt"
	"github.com/dag-industries/attendance-backend-go/internal/repository/memory"
	attendanceService "github.com/dag-industries/attendance-backend-go/internal/service/attendance"
	authService "github.com/dag-industries/attendance-backend-go/internal/service/auth"
	biometricService "github.com/dag-industries/attendance-backend-go/internal/service/biometric"
	departmentService "github.com/dag-industries/attendance-backend-go/internal/service/department"
	deviceService "github.com/dag-industries/attendance-backend-go/internal/service/device"
	profileService "github.com/dag-industries/attendance-backend-go/internal/service/profile"
	reportService "github.com/dag-industries/attendance-backend-go/internal/service/report"
	settingsService "github.com/dag-industries/attendance-backend-go/internal/service/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router   http.Handler
	store    *memory.Store
	apiKey   string
	adminCtx context.Context
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func setupServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", time.Hour, 24*time.Hour)

	settingsSvc := settingsService.NewSettingsService(store.Transactor(), store.Settings(), store.Audit())
	deviceSvc := deviceService.NewDeviceService(store.Devices())
	authSvc := authService.NewAuthService(store.Profiles(), store.RefreshTokens(), jwtService)
	attendanceSvc := attendanceService.NewAttendanceService(
		store.Transactor(), store.Attendance(), store.Corrections(), store.Profiles(),
		store.Devices(), store.Audit(), settingsSvc, nil,
	)

	router := NewRouter(config.AppConfig{Env: "test", CORSAllowedOrigins: []string{"*"}}, jwtService, Handlers{
		Auth:       NewAuthHandler(jwtService, authSvc),
		Profile:    NewProfileHandler(profileService.NewProfileService(store.Transactor(), store.Profiles(), store.Departments(), store.Audit(), store.RefreshTokens())),
		Department: NewDepartmentHandler(departmentService.NewDepartmentService(store.Departments(), store.Profiles())),
		Device:     NewDeviceHandler(deviceSvc),
		Attendance: NewAttendanceHandler(attendanceSvc),
		Biometric:  NewBiometricHandler(biometricService.NewBiometricService(deviceSvc, store.Profiles(), attendanceSvc, false)),
		Settings:   NewSettingsHandler(settingsSvc),
		Report:     NewReportHandler(reportService.NewReportService(store.Reports(), settingsSvc)),
	})

	require.NoError(t, authSvc.EnsureBootstrapAdmin(ctx, auth.BootstrapAdmin{Email: "admin@dag.test", Password: "admin-password", FullName: "Ada Admin"}))

	employee, err := store.Profiles().Create(ctx, profile.Profile{Email: "p1@dag.test", FullName: "Pat One", Role: profile.RoleEmployee, IsActive: true})
	require.NoError(t, err)
	require.NoError(t, store.Profiles().AssignEmployeeID(ctx, employee.ID, "DAG00001"))

	adminCtx := auth.WithPrincipal(ctx, auth.Principal{ProfileID: "admin-1", Role: profile.RoleAdmin})
	terminal, err := deviceSvc.Create(adminCtx, device.CreateDeviceRequest{DeviceID: "BIO-001", Name: "Front Door", Location: "Lobby", Type: device.DeviceTypeFingerprint})
	require.NoError(t, err)

	return &testServer{router: router, store: store, apiKey: terminal.APIKey, adminCtx: adminCtx}
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var tokens auth.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &tokens))
	require.NotEmpty(t, tokens.AccessToken)
	return tokens.AccessToken
}

func TestBiometricCheckIn_StatusCodes(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"missing fields", map[string]string{"device_id": "BIO-001"}, http.StatusBadRequest},
		{"invalid action", map[string]string{"device_id": "BIO-001", "employee_id": "DAG00001", "action": "lunch"}, http.StatusBadRequest},
		{"unknown device", map[string]string{"device_id": "BIO-404", "employee_id": "DAG00001", "action": "check-in"}, http.StatusForbidden},
		{"bad api key", map[string]string{"device_id": "BIO-001", "employee_id": "DAG00001", "action": "check-in", "api_key": "dag_nope"}, http.StatusForbidden},
		{"unknown employee", map[string]string{"device_id": "BIO-001", "employee_id": "DAG00999", "action": "check-in"}, http.StatusNotFound},
		{"check-out before check-in", map[string]string{"device_id": "BIO-001", "employee_id": "DAG00001", "action": "check-out"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := s.do(t, http.MethodPost, "/api/v1/biometric/check-in", tt.body, "")
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.False(t, env.Success)
		})
	}
}

func TestBiometricCheckIn_Lifecycle(t *testing.T) {
	s := setupServer(t)
	punch := func(action string) (*httptest.ResponseRecorder, envelope) {
		return s.do(t, http.MethodPost, "/api/v1/biometric/check-in",
			map[string]string{"device_id": "BIO-001", "employee_id": "DAG00001", "action": action, "api_key": s.apiKey}, "")
	}

	rec, env := punch("check-in")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Check-in successful", env.Message)

	var data struct {
		Employee struct {
			Name       string `json:"name"`
			EmployeeID string `json:"employee_id"`
		} `json:"employee"`
		Attendance struct {
			CheckInMethod string `json:"check_in_method"`
		} `json:"attendance"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Pat One", data.Employee.Name)
	assert.Equal(t, "DAG00001", data.Employee.EmployeeID)
	assert.Equal(t, "biometric", data.Attendance.CheckInMethod)

	rec, env = punch("check-in")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already checked in today", env.Error.Message)

	rec, _ = punch("check-out")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = punch("check-out")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Already checked out today", env.Error.Message)
}

func TestBiometricCheckIn_PersistenceFailure(t *testing.T) {
	s := setupServer(t)
	s.store.FailOn("attendance.Create", assert.AnError)

	rec, env := s.do(t, http.MethodPost, "/api/v1/biometric/check-in",
		map[string]string{"device_id": "BIO-001", "employee_id": "DAG00001", "action": "check-in"}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to record check-in", env.Error.Message)
}

func TestBiometricVerify(t *testing.T) {
	s := setupServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/biometric/verify", map[string]string{"device_id": "BIO-001"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/biometric/verify", map[string]string{"device_id": "BIO-001", "api_key": "dag_wrong"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/v1/biometric/verify", map[string]string{"device_id": "BIO-001", "api_key": s.apiKey}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var verified device.VerifiedDevice
	require.NoError(t, json.Unmarshal(env.Data, &verified))
	assert.Equal(t, "Front Door", verified.Name)
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/login", map[string]string{"email": "admin@dag.test", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token := s.login(t, "admin@dag.test", "admin-password")

	rec, env := s.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var me profile.ProfileResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, profile.RoleAdmin, me.Role)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/auth/logout", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "revoked access token must be rejected")
}

func TestRoleGuards(t *testing.T) {
	s := setupServer(t)
	ctx := context.Background()

	p, err := s.store.Profiles().GetByEmployeeID(ctx, "DAG00001")
	require.NoError(t, err)
	hash, err := s.store.Profiles().GetByEmail(ctx, "admin@dag.test")
	require.NoError(t, err)
	require.NotNil(t, hash.PasswordHash)
	require.NoError(t, s.store.Profiles().UpdatePassword(ctx, p.ID, *hash.PasswordHash))

	token := s.login(t, "p1@dag.test", "admin-password")

	rec, _ := s.do(t, http.MethodGet, "/api/v1/reports/daily", nil, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPut, "/api/v1/settings/", map[string]any{"auto_clock_out": false}, token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{}, token)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec, _ = s.do(t, http.MethodPost, "/api/v1/attendance/check-in", map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
