package db

import (
	"fmt"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dialect resolves the gorm dialector for a connection's configured type.
func Dialect(s Settings) (gorm.Dialector, error) {
	switch s.Type {
	case "mysql":
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			s.User,
			s.Password,
			s.Host,
			s.Port,
			s.Name,
		)), nil
	case "postgres":
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			s.Host,
			s.User,
			s.Password,
			s.Name,
			s.Port,
			s.SSLMode,
		)), nil
	case "sqlite":
		return sqlite.Open(s.Name), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", s.Type)
	}
}
