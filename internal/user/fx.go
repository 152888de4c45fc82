package user

import (
	"github.com/goodenergy/backend/internal/user/repository"
	"github.com/goodenergy/backend/internal/user/service"
	"go.uber.org/fx"
)

var Module = fx.Module("user.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
