package entity

// ConsumptionDataPoint is one measured full-to-full interval: the
// distance driven and the fuel or energy consumed between two
// consecutive full-tank refuels (or full charges) of one vehicle.
// DistanceKm is never negative; the persistence layer discards
// intervals whose computed distance comes out negative.
type ConsumptionDataPoint struct {
	VehicleID         string   `json:"vehicle_id"`
	FuelType          FuelType `json:"fuel_type"`
	DistanceKm        float64  `json:"distance_km"`
	FuelConsumedUnits float64  `json:"fuel_consumed_units"`
	Ordinal           int64    `json:"ordinal"`
}

// CarTankConfig is per-vehicle propulsion metadata used to
// disambiguate mixed-fuel fleets when aggregating consumption.
type CarTankConfig struct {
	VehicleID       string   `json:"vehicle_id"`
	PrimaryFuelType FuelType `json:"primary_fuel_type"`
	TankCapacity    *float64 `json:"tank_capacity"`
}

// FuelTypeConsumption is the estimated consumption for one fuel type
// partition. Consumption is nil (not zero) when the partition has no
// usable distance or fuel totals; ConfidenceReasons is non-empty
// whenever Confidence is below high.
type FuelTypeConsumption struct {
	FuelType          FuelType   `json:"fuel_type"`
	Consumption       *float64   `json:"consumption"`
	ConsumptionUnit   string     `json:"consumption_unit"`
	Distance          *float64   `json:"distance"`
	DistanceUnit      string     `json:"distance_unit"`
	FuelConsumed      *float64   `json:"fuel_consumed"`
	FuelUnit          string     `json:"fuel_unit"`
	Confidence        Confidence `json:"confidence"`
	ConfidenceReasons []string   `json:"confidence_reasons"`
	VehiclesCount     int        `json:"vehicles_count"`
	DataPointsCount   int        `json:"data_points_count"`
}

// ConsumptionResult is the full consumption estimate for one scope and
// period. It is built fresh per report request and never persisted.
type ConsumptionResult struct {
	ByFuelType         []FuelTypeConsumption `json:"by_fuel_type"`
	TotalDistanceKm    float64               `json:"total_distance_km"`
	TotalVehiclesCount int                   `json:"total_vehicles_count"`
}
