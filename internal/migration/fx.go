package migration

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// The embedded migrations target mysql and postgres. Tests use
		// in-memory sqlite with gorm AutoMigrate instead.
		if conn.Dialector.Name() == "sqlite" {
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB, cfg.DBType)
	}),
)
