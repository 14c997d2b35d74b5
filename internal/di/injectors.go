//go:build wireinject
// +build wireinject

package di

import (
	"aprd/internal"
	"aprd/internal/apconfig"
	"aprd/internal/clock"
	"aprd/internal/controllers"
	"aprd/internal/providers"
	"aprd/internal/rotation"
	"aprd/internal/rotation/interfaces"
	"aprd/internal/services"
	"aprd/internal/structures"
	"aprd/internal/trigger"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewInstanceLock,
		providers.ResolveInterfaces,
		clock.Real,

		services.NewCredentialService,
		services.NewClientMonitor,
		apconfig.NewSystemctlManager,
		apconfig.NewWriter,
		rotation.NewZstdCompressor,
		rotation.NewStatusStore,
		wire.Bind(new(interfaces.StatusStoreInterface), new(*rotation.StatusStore)),
		trigger.NewListener,
		wire.Bind(new(interfaces.TriggerInterface), new(*trigger.Listener)),
		rotation.NewScheduler,
		wire.Bind(new(controllers.StatusSource), new(interfaces.SchedulerInterface)),
		controllers.NewStatusController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
