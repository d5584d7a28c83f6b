package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/sanoh-intern/be-finance-accounting/internal/clock"
	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	"github.com/sanoh-intern/be-finance-accounting/internal/migration"
	"github.com/sanoh-intern/be-finance-accounting/internal/reconcile"
	"github.com/sanoh-intern/be-finance-accounting/internal/scheduler"
	"github.com/sanoh-intern/be-finance-accounting/pkg/db"
	"github.com/sanoh-intern/be-finance-accounting/pkg/log"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		reconcile.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(2)
	if err != nil {
		panic(err)
	}
	return node
}
