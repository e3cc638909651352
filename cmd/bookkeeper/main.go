package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallfactory/bookkeeper/internal/config"
	"github.com/smallfactory/bookkeeper/internal/logger"
	"github.com/smallfactory/bookkeeper/internal/migration"
	"github.com/smallfactory/bookkeeper/internal/server"
	"github.com/smallfactory/bookkeeper/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
