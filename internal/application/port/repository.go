package port

import (
	"context"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

// ReportDataRepository supplies the pre-aggregated raw rows and
// consumption inputs a report build needs. Implementations must return
// zero-valued (not absent) aggregates when no underlying records exist
// for the scope.
type ReportDataRepository interface {
	GetAggregates(ctx context.Context, scope entity.ReportScope) (*entity.RawAggregateRow, error)
	GetConsumptionDataPoints(ctx context.Context, scope entity.ReportScope) ([]entity.ConsumptionDataPoint, error)
	GetCarTankConfigs(ctx context.Context, accountID string, vehicleIDs []string) ([]entity.CarTankConfig, error)
	// GetTravelDistanceByType returns per-travel-type distance sums in
	// kilometers for the scope, restricted to the given travel types
	// (all types when empty).
	GetTravelDistanceByType(ctx context.Context, scope entity.ReportScope, travelTypes []string) (map[string]float64, error)
}

// VehicleRepository resolves vehicle ownership: the set of vehicle IDs
// visible to an account when the caller supplies no explicit filter.
type VehicleRepository interface {
	ListOwnedVehicleIDs(ctx context.Context, accountID string) ([]string, error)
}

// PreferenceRepository supplies the account's unit and currency
// preferences, required inputs to every report.
type PreferenceRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*entity.UserPreferences, error)
}
