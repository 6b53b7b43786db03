package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corestudio/studio-server/internal/auth"
	"github.com/corestudio/studio-server/internal/store/sqlite"
)

// testEnv bundles the services wired against a temporary store.
type testEnv struct {
	store        *sqlite.Store
	tokens       *auth.TokenService
	auth         *AuthService
	sessions     *SessionService
	slots        *SlotService
	bookings     *BookingService
	appointments *AppointmentService
	users        *UserService
}

// newTestEnv creates the full service stack over a temp database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := sqlite.Open(dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	tokens, err := auth.NewTokenService(key, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokens, nil)

	return &testEnv{
		store:        s,
		tokens:       tokens,
		auth:         NewAuthService(s, tokens, sessions, nil),
		sessions:     sessions,
		slots:        NewSlotService(s, nil),
		bookings:     NewBookingService(s, nil),
		appointments: NewAppointmentService(s, nil),
		users:        NewUserService(s, nil),
	}
}

// mustSetup runs first-run setup and returns the admin's auth response.
func mustSetup(t *testing.T, env *testEnv) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Setup(context.Background(), SetupRequest{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "adminpassword",
	})
	require.NoError(t, err)
	return resp
}

// mustRegister registers a standard user and returns the auth response.
func mustRegister(t *testing.T, env *testEnv, username string) *AuthResponse {
	t.Helper()
	resp, err := env.auth.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "userpassword",
	})
	require.NoError(t, err)
	return resp
}
