// Package container provides dependency injection and lifecycle management
// for the expense reporting engine following Clean Architecture principles.
package container

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/service"
	"github.com/dcerge/carexpenses-api-sub002/internal/consumption"
	"github.com/dcerge/carexpenses-api-sub002/internal/infrastructure/persistence/repository"
	"github.com/dcerge/carexpenses-api-sub002/pkg/database"
)

// ProvideDatabase opens the SQLite database and runs pending
// migrations.
func ProvideDatabase(cfg *DatabaseConfig, logger *zap.Logger) (*database.DB, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	db, err := database.New(database.Config{
		Path:            cfg.Path,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
	}, logger)
	if err != nil {
		return nil, err
	}

	if cfg.MigrationsDir != "" {
		migrator := database.NewMigrator(db, logger)
		if err := migrator.RunMigrations(cfg.MigrationsDir); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	return db, nil
}

// ProvideRepositories creates all repositories from a database connection.
// Returns RepositoryBundle containing all repository implementations.
func ProvideRepositories(db *database.DB, logger *zap.Logger) (*RepositoryBundle, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &RepositoryBundle{
		ReportData: repository.NewReportDataRepository(db.DB, logger),
		Vehicle:    repository.NewVehicleRepository(db.DB, logger),
		Preference: repository.NewPreferenceRepository(db.DB, logger),
	}, nil
}

// ProvideEstimator creates the consumption estimator from reporting
// thresholds.
func ProvideEstimator(cfg *ReportingConfig) *consumption.Estimator {
	return consumption.NewEstimator(consumption.Config{
		MinDataPoints: cfg.MinDataPoints,
		MinDistanceKm: cfg.MinDistanceKm,
		MinFuelUnits:  cfg.MinFuelUnits,
	})
}

// ServiceDeps carries everything ProvideServices needs.
type ServiceDeps struct {
	Repos     *RepositoryBundle
	Estimator *consumption.Estimator
	Logger    *zap.Logger
}

// ProvideServices creates all application services.
func ProvideServices(deps *ServiceDeps) (*ServiceBundle, error) {
	if deps == nil || deps.Repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if deps.Estimator == nil {
		return nil, fmt.Errorf("estimator is required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	serviceLogger := &zapLoggerAdapter{logger: deps.Logger}

	return &ServiceBundle{
		Report: service.NewReportService(
			deps.Repos.ReportData,
			deps.Repos.Vehicle,
			deps.Repos.Preference,
			deps.Estimator,
			serviceLogger,
		),
		Export: service.NewReportExportService(serviceLogger),
	}, nil
}
