package event

import (
	"github.com/goodenergy/backend/internal/event/repository"
	"github.com/goodenergy/backend/internal/event/service"
	"go.uber.org/fx"
)

var Module = fx.Module("event.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
