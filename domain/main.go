package domain

import (
	"github.com/danuarta/waitlist-api/config"
	"github.com/danuarta/waitlist-api/domain/auth"
	"github.com/danuarta/waitlist-api/domain/monitoring"
	"github.com/danuarta/waitlist-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	sessions := auth.NewSessionManager(appConfig.Logger)
	authClient := auth.NewRemoteAuthClient(appConfig.Logger)
	authService := auth.NewAuthService(appConfig.Logger, auth.LoadAdminCredential(appConfig.Logger), authClient)

	appConfig.RouterService.MountController(monitoring.NewMonitoringController(appConfig.DB, appConfig.Logger, appConfig.Cache))
	appConfig.RouterService.MountController(auth.NewAuthController(appConfig.Logger, sessions, authService, authClient))
	appConfig.RouterService.MountController(waitlist.NewWaitlistController(appConfig.DB, appConfig.Logger))
	appConfig.RouterService.MountController(waitlist.NewAdminWaitlistController(appConfig.DB, appConfig.Logger, auth.RequireAdmin(sessions)))
}
