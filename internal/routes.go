package internal

import (
	"aprd/internal/controllers"
	"aprd/internal/providers"
	"net/http"
)

func InitRoutes(statusController *controllers.StatusController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/interfaces", http.HandlerFunc(statusController.GetInterfaces))
	routers.Get("/interface", http.HandlerFunc(statusController.GetInterface))
	routers.Get("/history", http.HandlerFunc(statusController.GetHistory))
	return routers
}
