package migration

import (
	auditdomain "github.com/wayfarerhq/wayfarer/internal/audit/domain"
	authdomain "github.com/wayfarerhq/wayfarer/internal/auth/domain"
	"github.com/wayfarerhq/wayfarer/internal/config"
	itinerarydomain "github.com/wayfarerhq/wayfarer/internal/itinerary/domain"
	memberdomain "github.com/wayfarerhq/wayfarer/internal/member/domain"
	tripdomain "github.com/wayfarerhq/wayfarer/internal/trip/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType != "postgres" {
			// sqlite has no versioned migration driver wired in; the
			// schema is small enough for AutoMigrate to carry it.
			return conn.AutoMigrate(
				&authdomain.User{},
				&authdomain.Session{},
				&tripdomain.Trip{},
				&memberdomain.TripMember{},
				&memberdomain.TripInvite{},
				&itinerarydomain.ItineraryItem{},
				&auditdomain.AuditLog{},
			)
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}),
)
