package api

import (
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/corestudio/studio-server/internal/auth"
	"github.com/corestudio/studio-server/internal/config"
	"github.com/corestudio/studio-server/internal/ratelimit"
	"github.com/corestudio/studio-server/internal/service"
	"github.com/corestudio/studio-server/internal/store/sqlite"
)

// newTinyLimiter returns a limiter with a two-request burst and a refill
// rate slow enough that tests never see a refill.
func newTinyLimiter() *ratelimit.KeyedRateLimiter {
	return ratelimit.New(0.001, 2)
}

// testEnvelope mirrors the success envelope for decoding test responses.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer bundles the server under test with its humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// newTestServer creates a fully wired server backed by a temp database.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokenService, err := auth.NewTokenService(key, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessionService := service.NewSessionService(st, tokenService, logger)
	authService := service.NewAuthService(st, tokenService, sessionService, logger)
	services := &Services{
		Auth:        authService,
		Session:     sessionService,
		Slot:        service.NewSlotService(st, logger),
		Booking:     service.NewBookingService(st, logger),
		Appointment: service.NewAppointmentService(st, logger),
		User:        service.NewUserService(st, logger),
	}

	cfg := &config.Config{
		Server: config.ServerConfig{
			Name:           "Test Server",
			Port:           "0",
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    time.Minute,
			AllowedOrigins: []string{"*"},
		},
		RateLimit: config.RateLimitConfig{
			// Generous limits so tests never trip the limiter by accident.
			AuthPerMinute: 6000,
			AuthBurst:     1000,
		},
	}

	s := NewServer(cfg, st, services, logger)
	t.Cleanup(s.authRateLimiter.Stop)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// setupAdmin runs initial setup and returns the admin's access token.
func (ts *testServer) setupAdmin(t *testing.T) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"username": "admin",
		"email":    "admin@example.com",
		"password": "adminpassword",
	})
	require.Equal(t, http.StatusOK, resp.Code, "setup failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.AccessToken
}

// registerUser registers a customer account and returns its access token.
func (ts *testServer) registerUser(t *testing.T, username string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/auth/register", map[string]any{
		"username": username,
		"email":    username + "@example.com",
		"password": "userpassword",
	})
	require.Equal(t, http.StatusOK, resp.Code, "register failed: %s", resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.AccessToken
}

// createSlot publishes a slot as the admin and returns its ID.
func (ts *testServer) createSlot(t *testing.T, adminToken string, totalSpots int) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/slots",
		"Authorization: Bearer "+adminToken,
		map[string]any{
			"day":         "2026-09-14",
			"time":        "18:30",
			"total_spots": totalSpots,
		})
	require.Equal(t, http.StatusOK, resp.Code, "create slot failed: %s", resp.Body.String())

	var envelope testEnvelope[SlotResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data.ID
}
