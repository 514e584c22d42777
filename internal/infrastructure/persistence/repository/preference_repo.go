package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/port"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

// PreferenceRepository implements port.PreferenceRepository
type PreferenceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPreferenceRepository creates a new preference repository
func NewPreferenceRepository(db *sql.DB, logger *zap.Logger) port.PreferenceRepository {
	return &PreferenceRepository{
		db:     db,
		logger: logger,
	}
}

// GetByAccountID returns the account's unit and currency preferences.
// Accounts without a stored row get an empty preference set; callers
// normalize defaults.
func (r *PreferenceRepository) GetByAccountID(ctx context.Context, accountID string) (*entity.UserPreferences, error) {
	query := `
		SELECT distance_unit, volume_unit, consumption_unit, home_currency
		FROM user_preferences
		WHERE account_id = ?
	`

	prefs := &entity.UserPreferences{AccountID: accountID}
	var consumptionUnit sql.NullString

	err := r.db.QueryRowContext(ctx, query, accountID).Scan(
		&prefs.DistanceUnit,
		&prefs.VolumeUnit,
		&consumptionUnit,
		&prefs.HomeCurrency,
	)
	if err == sql.ErrNoRows {
		return prefs, nil
	}
	if err != nil {
		r.logger.Error("Failed to get user preferences", zap.String("account_id", accountID), zap.Error(err))
		return nil, fmt.Errorf("failed to get user preferences: %w", err)
	}

	if consumptionUnit.Valid {
		prefs.ConsumptionUnit = consumptionUnit.String
	}
	return prefs, nil
}

// Verify interface compliance
var _ port.PreferenceRepository = (*PreferenceRepository)(nil)
