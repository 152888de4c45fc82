package news

import (
	"github.com/goodenergy/backend/internal/news/repository"
	"github.com/goodenergy/backend/internal/news/service"
	"go.uber.org/fx"
)

var Module = fx.Module("news.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
