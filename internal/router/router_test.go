package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carwash/internal/auth"
	"carwash/internal/config"
	"carwash/internal/db"
	"carwash/internal/handler"
	"carwash/internal/metrics"
	"carwash/internal/repository"
	"carwash/internal/service"
)

const (
	adminEmail    = "admin@carwash.test"
	adminPassword = "admin-password"
)

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	gormDB, err := db.OpenMemory(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gormDB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := config.Default()
	cfg.Env = "test"
	cfg.MetricsPath = "/metrics"

	repos := repository.New(gormDB)
	_, err = service.NewSeeder(repos, nil).SeedUsers(context.Background(), service.DefaultSeedUsers(adminEmail, adminPassword))
	require.NoError(t, err)

	tokens := auth.NewTokenService("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	m := metrics.New("carwash_test")

	e := echo.New()
	e.Logger.SetOutput(&bytes.Buffer{})
	Register(e, cfg, Handlers{
		Auth:     handler.NewAuthHandler(service.NewAuthService(repos.Users, tokens)),
		Services: handler.NewServiceHandler(service.NewCatalogService(repos.Services, nil, nil)),
		Slots:    handler.NewSlotHandler(service.NewSlotService(repos)),
		Bookings: handler.NewBookingHandler(service.NewBookingService(repos, service.BookingOptions{Recorder: m})),
		Reviews:  handler.NewReviewHandler(service.NewReviewService(repos)),
		Users:    handler.NewUserHandler(service.NewUserService(repos.Users, nil, nil)),
		System:   handler.NewSystemHandler(cfg.Env, nil),
	}, auth.NewGate(tokens), m)

	return &testServer{t: t, e: e}
}

type result struct {
	Code int
	Body map[string]interface{}
}

func (r result) message() string {
	msg, _ := r.Body["message"].(string)
	return msg
}

func (r result) data() map[string]interface{} {
	d, _ := r.Body["data"].(map[string]interface{})
	return d
}

func (r result) list() []interface{} {
	d, _ := r.Body["data"].([]interface{})
	return d
}

func (s *testServer) do(method, path, token string, body interface{}) result {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	res := result{Code: rec.Code, Body: map[string]interface{}{}}
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &res.Body), rec.Body.String())
	}
	return res
}

func (s *testServer) signup(name, email string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "secret123", "phone": "555-0100",
	})
	require.Equal(s.t, http.StatusCreated, res.Code, res.Body)
	return res.Body["token"].(string)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	res := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, res.Code, res.Body)
	return res.Body["token"].(string)
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret123", "phone": "555",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, "User created successfully", res.message())
	assert.Equal(t, "user", res.data()["role"])
	assert.Equal(t, "jane@example.com", res.data()["email"])
	assert.NotEmpty(t, res.data()["id"])
	assert.NotContains(t, res.data(), "_id")
	assert.NotEmpty(t, res.Body["token"])
	refresh := res.Body["refreshToken"].(string)

	res = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{
		"name": "Jane", "email": "jane@example.com", "password": "secret123", "phone": "555",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "User already exists", res.message())

	res = s.do(http.MethodPost, "/api/auth/signup", "", map[string]string{"name": "Bad", "email": "nope", "password": "1", "phone": "1"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "VALIDATION_ERROR", res.Body["code"])

	res = s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "jane@example.com", "password": "wrong-password"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Invalid credentials", res.message())

	res = s.do(http.MethodPost, "/api/auth/refresh-token", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Refresh token required", res.message())

	res = s.do(http.MethodPost, "/api/auth/refresh-token", "", map[string]string{"refreshToken": "garbage"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Invalid refresh token", res.message())

	res = s.do(http.MethodPost, "/api/auth/refresh-token", "", map[string]string{"refreshToken": refresh})
	require.Equal(t, http.StatusOK, res.Code)
	token := res.Body["token"].(string)

	res = s.do(http.MethodGet, "/api/users/profile", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Jane", res.data()["name"])
	_, hasPassword := res.data()["passwordHash"]
	assert.False(t, hasPassword)
}

func TestAccessGate(t *testing.T) {
	s := newTestServer(t)
	userToken := s.signup("Jane", "jane@example.com")

	tests := []struct {
		name    string
		token   string
		code    int
		message string
	}{
		{"no token", "", http.StatusUnauthorized, "No token provided"},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, "Invalid token"},
		{"non-admin", userToken, http.StatusForbidden, "Access denied. Admin only."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.do(http.MethodGet, "/api/users", tt.token, nil)
			assert.Equal(t, tt.code, res.Code)
			assert.Equal(t, tt.message, res.message())
		})
	}

	res := s.do(http.MethodGet, "/api/users", s.login(adminEmail, adminPassword), nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.list(), 3)
}

func TestBookingLifecycle(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	alice := s.signup("Alice", "alice@example.com")
	bob := s.signup("Bob", "bob@example.com")

	res := s.do(http.MethodPost, "/api/services", alice, map[string]interface{}{"name": "Wash", "description": "Basic", "price": 20})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodPost, "/api/services", admin, map[string]interface{}{"name": "Wash", "description": "Basic", "price": 20, "duration": 45})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	serviceID := res.data()["_id"].(string)
	assert.Equal(t, 20.0, res.data()["price"])

	res = s.do(http.MethodPost, "/api/slots", admin, map[string]string{
		"date": "2026-05-04", "startTime": "10:00", "endTime": "10:45", "service": serviceID,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	slotID := res.data()["_id"].(string)

	available := func() int {
		res := s.do(http.MethodGet, "/api/slots/available?date=2026-05-04&serviceId="+serviceID, "", nil)
		require.Equal(t, http.StatusOK, res.Code)
		return len(res.list())
	}
	assert.Equal(t, 1, available())

	res = s.do(http.MethodPost, "/api/bookings", alice, map[string]interface{}{"slotId": slotID, "serviceId": serviceID, "notes": "red hatchback"})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	bookingID := res.data()["_id"].(string)
	assert.Equal(t, "confirmed", res.data()["status"])
	assert.Equal(t, 0, available())

	res = s.do(http.MethodPost, "/api/bookings", bob, map[string]interface{}{"slotId": slotID})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Slot not available", res.message())

	res = s.do(http.MethodGet, "/api/bookings/my-bookings", bob, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.list())

	res = s.do(http.MethodGet, "/api/bookings/my-bookings", alice, nil)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, res.list(), 1)
	mine := res.list()[0].(map[string]interface{})
	assert.NotNil(t, mine["service"])
	assert.NotNil(t, mine["slot"])

	res = s.do(http.MethodDelete, "/api/bookings/"+bookingID, bob, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "Not authorized", res.message())
	assert.Equal(t, 0, available())

	res = s.do(http.MethodPut, "/api/bookings/"+bookingID, admin, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "completed", res.data()["status"])

	res = s.do(http.MethodDelete, "/api/bookings/"+bookingID, alice, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Booking cancelled successfully", res.message())
	assert.Equal(t, 1, available())

	res = s.do(http.MethodDelete, "/api/bookings/"+bookingID, alice, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = s.do(http.MethodPost, "/api/bookings", bob, map[string]interface{}{"slotId": "00000000-0000-0000-0000-000000000001"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Slot not available", res.message())
}

func TestReviewsNewestFirst(t *testing.T) {
	s := newTestServer(t)
	admin := s.login(adminEmail, adminPassword)
	alice := s.signup("Alice", "alice@example.com")

	res := s.do(http.MethodPost, "/api/services", admin, map[string]interface{}{"name": "Wash", "description": "Basic", "price": 20})
	require.Equal(t, http.StatusCreated, res.Code)
	serviceID := res.data()["_id"].(string)

	res = s.do(http.MethodPost, "/api/slots", admin, map[string]string{
		"date": "2026-05-04", "startTime": "10:00", "endTime": "10:30", "service": serviceID,
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	res = s.do(http.MethodPost, "/api/bookings", alice, map[string]interface{}{"slotId": res.data()["_id"]})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	bookingID := res.data()["_id"].(string)

	for _, comment := range []string{"first", "second", "third"} {
		res = s.do(http.MethodPost, "/api/reviews", alice, map[string]interface{}{"serviceId": serviceID, "bookingId": bookingID, "rating": 5, "comment": comment})
		require.Equal(t, http.StatusCreated, res.Code, res.Body)
		time.Sleep(5 * time.Millisecond)
	}

	res = s.do(http.MethodPost, "/api/reviews", alice, map[string]interface{}{"serviceId": serviceID, "bookingId": bookingID, "rating": 9, "comment": "too much"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(http.MethodPost, "/api/reviews", alice, map[string]interface{}{"serviceId": serviceID, "rating": 4, "comment": "no booking"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "VALIDATION_ERROR", res.Body["code"])
	assert.Equal(t, "bookingId is required", res.message())

	res = s.do(http.MethodGet, "/api/reviews/service/"+serviceID, "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, res.list(), 3)
	var comments []string
	for _, item := range res.list() {
		comments = append(comments, item.(map[string]interface{})["comment"].(string))
	}
	assert.Equal(t, []string{"third", "second", "first"}, comments)
}

func TestSystemRoutes(t *testing.T) {
	s := newTestServer(t)

	res := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "OK", res.Body["status"])

	res = s.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
	assert.NotNil(t, res.Body["endpoints"])

	res = s.do(http.MethodGet, "/api/services/not-a-uuid", "", nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "INVALID_ID", res.Body["code"])

	res = s.do(http.MethodGet, "/api/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "NOT_FOUND", res.Body["code"])

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "carwash_test_http_requests_total")
}

func TestErrorHandler_DevelopmentDetail(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(true)
	e.GET("/boom", func(c echo.Context) error {
		return assert.AnError
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body["message"])
	assert.Equal(t, assert.AnError.Error(), body["error"])
}
