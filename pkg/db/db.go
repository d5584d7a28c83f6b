package db

import (
	"time"

	"github.com/sanoh-intern/be-finance-accounting/internal/config"
	"go.uber.org/fx"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Module provides the primary application database connection.
var Module = fx.Provide(NewGorm)

// Settings describes one database connection.
type Settings struct {
	Type            string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxIdleConn     int
	MaxOpenConn     int
	ConnMaxLifetime int
}

// Open opens a gorm connection for the given settings.
func Open(s Settings) (*gorm.DB, error) {
	dialector, err := Dialect(s)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if s.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(s.MaxIdleConn)
	}
	if s.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(s.MaxOpenConn)
	}
	if s.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(s.ConnMaxLifetime) * time.Second)
	}
	return conn, nil
}

// NewGorm opens the primary application database from configuration.
func NewGorm(cfg config.Config) (*gorm.DB, error) {
	return Open(PrimarySettings(cfg))
}

// PrimarySettings maps app configuration to the primary connection settings.
func PrimarySettings(cfg config.Config) Settings {
	return Settings{
		Type:            cfg.DBType,
		Host:            cfg.DBHost,
		Port:            cfg.DBPort,
		Name:            cfg.DBName,
		User:            cfg.DBUser,
		Password:        cfg.DBPassword,
		SSLMode:         cfg.DBSSLMode,
		MaxIdleConn:     cfg.DBMaxIdleConn,
		MaxOpenConn:     cfg.DBMaxOpenConn,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	}
}

// LedgerSettings maps app configuration to the read-only ERP ledger connection.
func LedgerSettings(cfg config.Config) Settings {
	return Settings{
		Type:     cfg.ERPDBType,
		Host:     cfg.ERPDBHost,
		Port:     cfg.ERPDBPort,
		Name:     cfg.ERPDBName,
		User:     cfg.ERPDBUser,
		Password: cfg.ERPDBPassword,
		SSLMode:  cfg.ERPDBSSLMode,
	}
}
