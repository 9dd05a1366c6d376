package providers

import (
	"github.com/samber/do/v2"

	"github.com/chizurashi/chizurashi-server/internal/auth"
	"github.com/chizurashi/chizurashi-server/internal/logger"
	"github.com/chizurashi/chizurashi-server/internal/service"
)

// ProvideSessionService provides the session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle, tokenService, sessionService, log.Logger), nil
}

// ProvidePoemService provides the poem service.
func ProvidePoemService(i do.Injector) (*service.PoemService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPoemService(storeHandle, log.Logger), nil
}
