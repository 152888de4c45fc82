package knowledge

import (
	"github.com/goodenergy/backend/internal/knowledge/repository"
	"github.com/goodenergy/backend/internal/knowledge/service"
	"go.uber.org/fx"
)

var Module = fx.Module("knowledge.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
