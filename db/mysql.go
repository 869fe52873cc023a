package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Abhi-2104/Auralis/config"
	"github.com/Abhi-2104/Auralis/model"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormDB is the GORM handle, used for schema migration.
var GormDB *gorm.DB

// DB is the underlying *sql.DB shared by the repositories.
var DB *sql.DB

// ConnectDB establishes the database connection and configures the pool.
// The repositories run raw SQL against DB; GormDB exists for migrations.
func ConnectDB(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DBUser, cfg.DBPassword, cfg.DBHost, cfg.DBPort, cfg.DBName)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Warn),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}

	DB, err = GormDB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	DB.SetMaxIdleConns(10)
	DB.SetMaxOpenConns(100)
	DB.SetConnMaxLifetime(time.Hour)

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

// MigrateModels creates or updates the schema for the catalog models.
func MigrateModels() error {
	if GormDB == nil {
		return fmt.Errorf("database not initialized")
	}

	err := GormDB.AutoMigrate(
		&model.User{},
		&model.Song{},
		&model.Playlist{},
		&model.PlaylistSong{},
	)
	if err != nil {
		return fmt.Errorf("failed to auto migrate models: %w", err)
	}
	return nil
}

// CloseDB closes the database connection.
func CloseDB() error {
	if DB == nil {
		return nil
	}
	return DB.Close()
}
