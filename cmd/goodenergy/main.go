package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/goodenergy/backend/internal/clock"
	"github.com/goodenergy/backend/internal/config"
	"github.com/goodenergy/backend/internal/event"
	"github.com/goodenergy/backend/internal/favorite"
	"github.com/goodenergy/backend/internal/knowledge"
	"github.com/goodenergy/backend/internal/lifecycle"
	"github.com/goodenergy/backend/internal/logger"
	"github.com/goodenergy/backend/internal/metrics"
	"github.com/goodenergy/backend/internal/migration"
	"github.com/goodenergy/backend/internal/news"
	"github.com/goodenergy/backend/internal/organization"
	"github.com/goodenergy/backend/internal/reference"
	"github.com/goodenergy/backend/internal/server"
	"github.com/goodenergy/backend/internal/user"
	"github.com/goodenergy/backend/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		lifecycle.Module,
		migration.Module,

		reference.Module,
		organization.Module,
		event.Module,
		news.Module,
		knowledge.Module,
		favorite.Module,
		user.Module,

		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
