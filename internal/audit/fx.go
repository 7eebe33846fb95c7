package audit

import (
	"github.com/wayfarerhq/wayfarer/internal/audit/repository"
	"github.com/wayfarerhq/wayfarer/internal/audit/service"
	"go.uber.org/fx"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
