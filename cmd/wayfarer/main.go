package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/wayfarerhq/wayfarer/internal/audit"
	"github.com/wayfarerhq/wayfarer/internal/auth"
	"github.com/wayfarerhq/wayfarer/internal/config"
	"github.com/wayfarerhq/wayfarer/internal/itinerary"
	"github.com/wayfarerhq/wayfarer/internal/logger"
	"github.com/wayfarerhq/wayfarer/internal/member"
	"github.com/wayfarerhq/wayfarer/internal/migration"
	"github.com/wayfarerhq/wayfarer/internal/server"
	"github.com/wayfarerhq/wayfarer/internal/trip"
	"github.com/wayfarerhq/wayfarer/pkg/db"
	"github.com/wayfarerhq/wayfarer/pkg/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		telemetry.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Functional domains
		auth.Module,
		audit.Module,
		trip.Module,
		member.Module,
		itinerary.Module,

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
