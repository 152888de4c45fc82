package organization

import (
	"github.com/goodenergy/backend/internal/organization/repository"
	"github.com/goodenergy/backend/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
