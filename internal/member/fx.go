package member

import (
	"github.com/wayfarerhq/wayfarer/internal/access"
	"github.com/wayfarerhq/wayfarer/internal/member/domain"
	"github.com/wayfarerhq/wayfarer/internal/member/repository"
	"github.com/wayfarerhq/wayfarer/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
	fx.Provide(func(repo domain.Repository) *access.Resolver {
		return access.NewResolver(repo)
	}),
)
