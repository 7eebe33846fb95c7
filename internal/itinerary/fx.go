package itinerary

import (
	"github.com/wayfarerhq/wayfarer/internal/itinerary/repository"
	"github.com/wayfarerhq/wayfarer/internal/itinerary/service"
	"go.uber.org/fx"
)

var Module = fx.Module("itinerary.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
