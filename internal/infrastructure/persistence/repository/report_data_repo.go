package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dcerge/carexpenses-api-sub002/internal/application/port"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
)

// ReportDataRepository implements port.ReportDataRepository over the
// expenses, refuels, travels and vehicles tables. All aggregation is
// done in SQL; the repository returns pre-summed rows only.
type ReportDataRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReportDataRepository creates a new report data repository
func NewReportDataRepository(db *sql.DB, logger *zap.Logger) port.ReportDataRepository {
	return &ReportDataRepository{
		db:     db,
		logger: logger,
	}
}

// GetAggregates returns the pre-summed aggregate row for a scope. The
// row is zero-valued, never nil, when no records match.
func (r *ReportDataRepository) GetAggregates(ctx context.Context, scope entity.ReportScope) (*entity.RawAggregateRow, error) {
	row := &entity.RawAggregateRow{
		ByCategory:     []entity.CategoryCost{},
		ByKind:         []entity.KindCost{},
		ForeignAmounts: []entity.ForeignCurrencyRow{},
		Odometers:      []entity.VehicleOdometer{},
	}
	if len(scope.VehicleIDs) == 0 {
		return row, nil
	}

	if err := r.loadCostBreakdowns(ctx, scope, row); err != nil {
		return nil, err
	}
	if err := r.loadForeignAmounts(ctx, scope, row); err != nil {
		return nil, err
	}
	if err := r.loadDistanceAndVolume(ctx, scope, row); err != nil {
		return nil, err
	}
	if err := r.loadOdometers(ctx, scope, row); err != nil {
		return nil, err
	}
	return row, nil
}

// loadCostBreakdowns sums home-currency costs by category and kind
// across expenses and refuels. Refuels count as the fuel category and
// the refuel kind.
func (r *ReportDataRepository) loadCostBreakdowns(ctx context.Context, scope entity.ReportScope, row *entity.RawAggregateRow) error {
	query := fmt.Sprintf(`
		SELECT category, kind, SUM(cost_hc), COUNT(*)
		FROM (
			SELECT e.category AS category, e.kind AS kind, e.cost_hc AS cost_hc
			FROM expenses e
			WHERE %s
			UNION ALL
			SELECT 'fuel' AS category, 'refuel' AS kind, f.cost_hc AS cost_hc
			FROM refuels f
			WHERE %s
		)
		GROUP BY category, kind
		ORDER BY category, kind
	`, scopeCondition("e", scope), scopeCondition("f", scope))

	args := scopeArgs(scope)
	args = append(args, scopeArgs(scope)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query cost breakdowns", zap.Error(err))
		return fmt.Errorf("failed to query cost breakdowns: %w", err)
	}
	defer rows.Close()

	categories := map[string]*entity.CategoryCost{}
	kinds := map[string]*entity.KindCost{}
	var categoryNames, kindNames []string
	for rows.Next() {
		var category, kind string
		var cost float64
		var count int
		if err := rows.Scan(&category, &kind, &cost, &count); err != nil {
			return fmt.Errorf("failed to scan cost breakdown row: %w", err)
		}

		if c, ok := categories[category]; ok {
			c.CostHC += cost
			c.RecordsCount += count
		} else {
			categories[category] = &entity.CategoryCost{Category: category, CostHC: cost, RecordsCount: count}
			categoryNames = append(categoryNames, category)
		}
		if k, ok := kinds[kind]; ok {
			k.CostHC += cost
			k.RecordsCount += count
		} else {
			kinds[kind] = &entity.KindCost{Kind: kind, CostHC: cost, RecordsCount: count}
			kindNames = append(kindNames, kind)
		}

		row.TotalCostHC += cost
		row.RecordsCount += count
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate cost breakdown rows: %w", err)
	}

	sort.Strings(categoryNames)
	for _, name := range categoryNames {
		row.ByCategory = append(row.ByCategory, *categories[name])
	}
	sort.Strings(kindNames)
	for _, name := range kindNames {
		row.ByKind = append(row.ByKind, *kinds[name])
	}
	return nil
}

// loadForeignAmounts collects original-currency sums for records whose
// currency differs from the account's home currency.
func (r *ReportDataRepository) loadForeignAmounts(ctx context.Context, scope entity.ReportScope, row *entity.RawAggregateRow) error {
	query := fmt.Sprintf(`
		SELECT kind, currency, SUM(amount), COUNT(*)
		FROM (
			SELECT e.kind AS kind, e.currency AS currency, e.amount AS amount
			FROM expenses e
			WHERE %s AND e.currency <> (
				SELECT COALESCE(home_currency, 'USD') FROM user_preferences WHERE account_id = e.account_id
			)
			UNION ALL
			SELECT 'refuel' AS kind, f.currency AS currency, f.amount AS amount
			FROM refuels f
			WHERE %s AND f.currency <> (
				SELECT COALESCE(home_currency, 'USD') FROM user_preferences WHERE account_id = f.account_id
			)
		)
		GROUP BY kind, currency
		ORDER BY kind, currency
	`, scopeCondition("e", scope), scopeCondition("f", scope))

	args := scopeArgs(scope)
	args = append(args, scopeArgs(scope)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query foreign currency amounts", zap.Error(err))
		return fmt.Errorf("failed to query foreign amounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fr entity.ForeignCurrencyRow
		if err := rows.Scan(&fr.Kind, &fr.Currency, &fr.Amount, &fr.RecordsCount); err != nil {
			return fmt.Errorf("failed to scan foreign amount row: %w", err)
		}
		row.ForeignAmounts = append(row.ForeignAmounts, fr)
	}
	return rows.Err()
}

// loadDistanceAndVolume sums travel distances and liquid refuel
// volumes for the scope.
func (r *ReportDataRepository) loadDistanceAndVolume(ctx context.Context, scope entity.ReportScope, row *entity.RawAggregateRow) error {
	distanceQuery := fmt.Sprintf(`
		SELECT COALESCE(SUM(t.distance_km), 0)
		FROM travels t
		WHERE %s
	`, scopeCondition("t", scope))
	if err := r.db.QueryRowContext(ctx, distanceQuery, scopeArgs(scope)...).Scan(&row.TotalDistanceKm); err != nil {
		r.logger.Error("Failed to query travel distance sum", zap.Error(err))
		return fmt.Errorf("failed to query distance sum: %w", err)
	}

	volumeQuery := fmt.Sprintf(`
		SELECT COALESCE(SUM(f.fuel_units), 0)
		FROM refuels f
		JOIN vehicles v ON v.id = f.vehicle_id
		WHERE %s AND v.fuel_type = 'liquid'
	`, scopeCondition("f", scope))
	if err := r.db.QueryRowContext(ctx, volumeQuery, scopeArgs(scope)...).Scan(&row.TotalFuelVolume); err != nil {
		r.logger.Error("Failed to query fuel volume sum", zap.Error(err))
		return fmt.Errorf("failed to query volume sum: %w", err)
	}
	return nil
}

// loadOdometers collects per-vehicle min/max odometer readings across
// expenses and refuels in the period.
func (r *ReportDataRepository) loadOdometers(ctx context.Context, scope entity.ReportScope, row *entity.RawAggregateRow) error {
	query := fmt.Sprintf(`
		SELECT vehicle_id, MIN(odometer_km), MAX(odometer_km)
		FROM (
			SELECT e.vehicle_id AS vehicle_id, e.odometer_km AS odometer_km
			FROM expenses e
			WHERE %s AND e.odometer_km IS NOT NULL
			UNION ALL
			SELECT f.vehicle_id AS vehicle_id, f.odometer_km AS odometer_km
			FROM refuels f
			WHERE %s AND f.odometer_km IS NOT NULL
		)
		GROUP BY vehicle_id
		ORDER BY vehicle_id
	`, scopeCondition("e", scope), scopeCondition("f", scope))

	args := scopeArgs(scope)
	args = append(args, scopeArgs(scope)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query odometer bounds", zap.Error(err))
		return fmt.Errorf("failed to query odometer bounds: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o entity.VehicleOdometer
		var minKm, maxKm sql.NullFloat64
		if err := rows.Scan(&o.VehicleID, &minKm, &maxKm); err != nil {
			return fmt.Errorf("failed to scan odometer row: %w", err)
		}
		if minKm.Valid {
			o.MinKm = &minKm.Float64
		}
		if maxKm.Valid {
			o.MaxKm = &maxKm.Float64
		}
		row.Odometers = append(row.Odometers, o)
	}
	return rows.Err()
}

// GetConsumptionDataPoints derives full-to-full refuel intervals per
// vehicle. Each returned point pairs an interval's distance with the
// fuel taken on at its closing full-tank refuel. Intervals with
// non-positive computed distance are discarded here and never surface.
func (r *ReportDataRepository) GetConsumptionDataPoints(ctx context.Context, scope entity.ReportScope) ([]entity.ConsumptionDataPoint, error) {
	if len(scope.VehicleIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT vehicle_id, fuel_type, odometer_km - prev_odometer_km, fuel_units, ordinal
		FROM (
			SELECT f.vehicle_id AS vehicle_id,
				v.fuel_type AS fuel_type,
				f.odometer_km AS odometer_km,
				f.fuel_units AS fuel_units,
				LAG(f.odometer_km) OVER w AS prev_odometer_km,
				ROW_NUMBER() OVER w AS ordinal
			FROM refuels f
			JOIN vehicles v ON v.id = f.vehicle_id
			WHERE %s AND f.full_tank = 1 AND f.odometer_km IS NOT NULL
			WINDOW w AS (PARTITION BY f.vehicle_id ORDER BY f.occurred_at, f.id)
		)
		WHERE prev_odometer_km IS NOT NULL AND odometer_km - prev_odometer_km > 0
		ORDER BY vehicle_id, ordinal
	`, scopeCondition("f", scope))

	rows, err := r.db.QueryContext(ctx, query, scopeArgs(scope)...)
	if err != nil {
		r.logger.Error("Failed to query consumption data points", zap.Error(err))
		return nil, fmt.Errorf("failed to query consumption data points: %w", err)
	}
	defer rows.Close()

	var points []entity.ConsumptionDataPoint
	for rows.Next() {
		var p entity.ConsumptionDataPoint
		var fuelType string
		if err := rows.Scan(&p.VehicleID, &fuelType, &p.DistanceKm, &p.FuelConsumedUnits, &p.Ordinal); err != nil {
			return nil, fmt.Errorf("failed to scan consumption data point: %w", err)
		}
		p.FuelType = entity.FuelType(fuelType)
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate consumption data points: %w", err)
	}
	return points, nil
}

// GetCarTankConfigs returns the fuel type and tank capacity for each
// requested vehicle owned by the account.
func (r *ReportDataRepository) GetCarTankConfigs(ctx context.Context, accountID string, vehicleIDs []string) ([]entity.CarTankConfig, error) {
	if len(vehicleIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, fuel_type, tank_capacity
		FROM vehicles
		WHERE account_id = ? AND id IN (%s)
		ORDER BY id
	`, placeholders(len(vehicleIDs)))

	args := make([]interface{}, 0, len(vehicleIDs)+1)
	args = append(args, accountID)
	for _, id := range vehicleIDs {
		args = append(args, id)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tank configs", zap.Error(err))
		return nil, fmt.Errorf("failed to query tank configs: %w", err)
	}
	defer rows.Close()

	var configs []entity.CarTankConfig
	for rows.Next() {
		var c entity.CarTankConfig
		var fuelType string
		var capacity sql.NullFloat64
		if err := rows.Scan(&c.VehicleID, &fuelType, &capacity); err != nil {
			return nil, fmt.Errorf("failed to scan tank config: %w", err)
		}
		c.PrimaryFuelType = entity.FuelType(fuelType)
		if capacity.Valid {
			c.TankCapacity = &capacity.Float64
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// GetTravelDistanceByType returns per-travel-type kilometer sums for
// the scope, restricted to the given travel types when non-empty.
func (r *ReportDataRepository) GetTravelDistanceByType(ctx context.Context, scope entity.ReportScope, travelTypes []string) (map[string]float64, error) {
	distances := make(map[string]float64)
	if len(scope.VehicleIDs) == 0 {
		return distances, nil
	}

	condition := scopeCondition("t", scope)
	args := scopeArgs(scope)
	if len(travelTypes) > 0 {
		condition += fmt.Sprintf(" AND t.travel_type IN (%s)", placeholders(len(travelTypes)))
		for _, tt := range travelTypes {
			args = append(args, tt)
		}
	}

	query := fmt.Sprintf(`
		SELECT t.travel_type, COALESCE(SUM(t.distance_km), 0)
		FROM travels t
		WHERE %s
		GROUP BY t.travel_type
	`, condition)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query travel distances", zap.Error(err))
		return nil, fmt.Errorf("failed to query travel distances: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var travelType string
		var km float64
		if err := rows.Scan(&travelType, &km); err != nil {
			return nil, fmt.Errorf("failed to scan travel distance row: %w", err)
		}
		distances[travelType] = km
	}
	return distances, rows.Err()
}

// scopeCondition builds the shared WHERE fragment for a scoped table
// alias: account, vehicle set, date range and optional tag filter.
func scopeCondition(alias string, scope entity.ReportScope) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s.account_id = ?", alias)
	fmt.Fprintf(&b, " AND %s.vehicle_id IN (%s)", alias, placeholders(len(scope.VehicleIDs)))
	fmt.Fprintf(&b, " AND %s.occurred_at >= ? AND %s.occurred_at < ?", alias, alias)
	if len(scope.TagIDs) > 0 {
		fmt.Fprintf(&b, " AND EXISTS (SELECT 1 FROM record_tags rt WHERE rt.record_id = %s.id AND rt.tag_id IN (%s))",
			alias, placeholders(len(scope.TagIDs)))
	}
	return b.String()
}

func scopeArgs(scope entity.ReportScope) []interface{} {
	args := make([]interface{}, 0, len(scope.VehicleIDs)+len(scope.TagIDs)+3)
	args = append(args, scope.AccountID)
	for _, id := range scope.VehicleIDs {
		args = append(args, id)
	}
	args = append(args, scope.DateFrom, scope.DateTo)
	for _, id := range scope.TagIDs {
		args = append(args, id)
	}
	return args
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// Verify interface compliance
var _ port.ReportDataRepository = (*ReportDataRepository)(nil)
