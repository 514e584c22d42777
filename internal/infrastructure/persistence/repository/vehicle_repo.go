package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/port"
)

// VehicleRepository implements port.VehicleRepository
type VehicleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVehicleRepository creates a new vehicle repository
func NewVehicleRepository(db *sql.DB, logger *zap.Logger) port.VehicleRepository {
	return &VehicleRepository{
		db:     db,
		logger: logger,
	}
}

// ListOwnedVehicleIDs returns the IDs of all vehicles belonging to an
// account, ordered by ID.
func (r *VehicleRepository) ListOwnedVehicleIDs(ctx context.Context, accountID string) ([]string, error) {
	query := `
		SELECT id FROM vehicles
		WHERE account_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		r.logger.Error("Failed to list owned vehicles", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("failed to list owned vehicles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan vehicle id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Verify interface compliance
var _ port.VehicleRepository = (*VehicleRepository)(nil)
