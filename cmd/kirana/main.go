package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kirana/internal/clock"
	"github.com/smallbiznis/kirana/internal/config"
	"github.com/smallbiznis/kirana/internal/logger"
	"github.com/smallbiznis/kirana/internal/migration"
	obsmetrics "github.com/smallbiznis/kirana/internal/observability/metrics"
	"github.com/smallbiznis/kirana/internal/server"
	"github.com/smallbiznis/kirana/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		obsmetrics.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
