package entity

// CategoryCost is a pre-summed home-currency cost for one expense
// category within an aggregate row.
type CategoryCost struct {
	Category     string  `json:"category"`
	CostHC       float64 `json:"cost_hc"`
	RecordsCount int     `json:"records_count"`
}

// KindCost is a pre-summed home-currency cost for one record kind
// (expense, refuel, parking) within an aggregate row.
type KindCost struct {
	Kind         string  `json:"kind"`
	CostHC       float64 `json:"cost_hc"`
	RecordsCount int     `json:"records_count"`
}

// VehicleOdometer carries the minimum and maximum odometer readings
// observed for one vehicle inside the report period. Either bound is
// nil when the vehicle has no odometer-bearing records in the period.
type VehicleOdometer struct {
	VehicleID string   `json:"vehicle_id"`
	MinKm     *float64 `json:"min_km"`
	MaxKm     *float64 `json:"max_km"`
}

// RawAggregateRow is the pre-summed slice of underlying records for one
// report scope (account, vehicle set, optional tag filter, date range).
// The persistence layer produces exactly one per report query, with
// zero-valued fields when no underlying records exist. It is immutable
// for the duration of a single report build.
type RawAggregateRow struct {
	TotalCostHC     float64              `json:"total_cost_hc"`
	RecordsCount    int                  `json:"records_count"`
	ByCategory      []CategoryCost       `json:"by_category"`
	ByKind          []KindCost           `json:"by_kind"`
	ForeignAmounts  []ForeignCurrencyRow `json:"foreign_amounts"`
	TotalDistanceKm float64              `json:"total_distance_km"`
	TotalFuelVolume float64              `json:"total_fuel_volume"`
	Odometers       []VehicleOdometer    `json:"odometers"`
}

// OdometerDistanceKm sums (max - min) odometer spans across all
// vehicles in the row. It returns nil when no vehicle has both bounds,
// so callers can distinguish "no usage data" from a genuine zero.
func (r *RawAggregateRow) OdometerDistanceKm() *float64 {
	var total float64
	seen := false
	for _, o := range r.Odometers {
		if o.MinKm == nil || o.MaxKm == nil {
			continue
		}
		span := *o.MaxKm - *o.MinKm
		if span < 0 {
			continue
		}
		total += span
		seen = true
	}
	if !seen {
		return nil
	}
	return &total
}
