package trip

import (
	"github.com/wayfarerhq/wayfarer/internal/trip/repository"
	"github.com/wayfarerhq/wayfarer/internal/trip/service"
	"go.uber.org/fx"
)

var Module = fx.Module("trip.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
