package providers

import (
	"github.com/samber/do/v2"

	"github.com/corestudio/studio-server/internal/auth"
	"github.com/corestudio/studio-server/internal/logger"
	"github.com/corestudio/studio-server/internal/service"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, log.Logger), nil
}

// ProvideSlotService provides the slot management service.
func ProvideSlotService(i do.Injector) (*service.SlotService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSlotService(storeHandle.Store, log.Logger), nil
}

// ProvideBookingService provides the booking service.
func ProvideBookingService(i do.Injector) (*service.BookingService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookingService(storeHandle.Store, log.Logger), nil
}

// ProvideAppointmentService provides the appointment service.
func ProvideAppointmentService(i do.Injector) (*service.AppointmentService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAppointmentService(storeHandle.Store, log.Logger), nil
}

// ProvideUserService provides the user lookup service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, log.Logger), nil
}
