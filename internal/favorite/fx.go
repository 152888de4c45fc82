package favorite

import (
	"github.com/goodenergy/backend/internal/favorite/repository"
	"github.com/goodenergy/backend/internal/favorite/service"
	"go.uber.org/fx"
)

var Module = fx.Module("favorite.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
