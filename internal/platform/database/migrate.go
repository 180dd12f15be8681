package database

import (
	"errors"
	"fmt"
	"log"

	migrate "github.com/golang-migrate/migrate/v4"
	// Blank imports register the mysql driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/vroomprestige/vroom-api/internal/domain/cars"
	"github.com/vroomprestige/vroom-api/internal/domain/reservations"
	"github.com/vroomprestige/vroom-api/internal/domain/users"
	"github.com/vroomprestige/vroom-api/internal/platform/config"
	"github.com/vroomprestige/vroom-api/internal/platform/session"
	"gorm.io/gorm"
)

// Migrate applies the SQL migrations from cfg.MigrationsDir. When no
// migrations directory is configured it falls back to GORM AutoMigrate,
// which is enough for development databases.
func Migrate(db *gorm.DB, cfg config.DatabaseConfig) error {
	if cfg.MigrationsDir == "" {
		return autoMigrate(db)
	}

	dsn := fmt.Sprintf("mysql://%s:%s@tcp(%s:%s)/%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	m, err := migrate.New("file://"+cfg.MigrationsDir, dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	log.Println("Database migrations applied")
	return nil
}

func autoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&users.User{},
		&cars.Brand{},
		&cars.VehicleType{},
		&cars.Car{},
		&reservations.Reservation{},
		&session.Session{},
	}
	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("automigrate %T: %w", model, err)
		}
	}
	return nil
}
