package providers

import (
	"context"
	"time"

	"github.com/samber/do/v2"

	"github.com/corestudio/studio-server/internal/api"
	"github.com/corestudio/studio-server/internal/config"
	"github.com/corestudio/studio-server/internal/logger"
	"github.com/corestudio/studio-server/internal/service"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

// HTTPServerHandle wraps the API server with Shutdownable.
type HTTPServerHandle struct {
	*api.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	services := &api.Services{
		Auth:        do.MustInvoke[*service.AuthService](i),
		Session:     do.MustInvoke[*service.SessionService](i),
		Slot:        do.MustInvoke[*service.SlotService](i),
		Booking:     do.MustInvoke[*service.BookingService](i),
		Appointment: do.MustInvoke[*service.AppointmentService](i),
		User:        do.MustInvoke[*service.UserService](i),
	}

	srv := api.NewServer(cfg, storeHandle.Store, services, log.Logger)

	// Start in background
	go func() {
		if err := srv.Start(); err != nil {
			log.Error("HTTP server error", "error", err)
		}
	}()

	log.Info("Server running", "port", cfg.Server.Port)

	return &HTTPServerHandle{Server: srv}, nil
}
