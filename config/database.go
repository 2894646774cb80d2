package config

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// ConnectDatabase opens the MySQL connection used by the GORM store.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	return gorm.Open(mysql.Open(cfg.DatabaseURL), &gorm.Config{})
}
