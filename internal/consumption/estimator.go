// Package consumption estimates fuel and energy consumption from
// full-to-full measurement intervals. All fuel-type-specific behavior
// lives in the traits table here; no other package branches on fuel
// type.
package consumption

import (
	"sort"

	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// Config holds the thresholds of the confidence model.
type Config struct {
	// MinDataPoints is the minimum number of full intervals a
	// partition needs before its figure is trusted.
	MinDataPoints int
	// MinDistanceKm is the minimum aggregate distance per partition.
	MinDistanceKm float64
	// MinFuelUnits is the minimum aggregate fuel/energy per partition,
	// in the partition's native unit (liters, kWh or kg).
	MinFuelUnits float64
}

// DefaultConfig returns the confidence thresholds used when the
// reporting configuration does not override them.
func DefaultConfig() Config {
	return Config{
		MinDataPoints: 2,
		MinDistanceKm: 50,
		MinFuelUnits:  5,
	}
}

// Estimator turns consumption data points into per-fuel-type
// consumption figures with a confidence rating.
type Estimator struct {
	cfg Config
}

// NewEstimator creates an Estimator with the given thresholds. Zero or
// negative thresholds fall back to the defaults.
func NewEstimator(cfg Config) *Estimator {
	def := DefaultConfig()
	if cfg.MinDataPoints <= 0 {
		cfg.MinDataPoints = def.MinDataPoints
	}
	if cfg.MinDistanceKm <= 0 {
		cfg.MinDistanceKm = def.MinDistanceKm
	}
	if cfg.MinFuelUnits <= 0 {
		cfg.MinFuelUnits = def.MinFuelUnits
	}
	return &Estimator{cfg: cfg}
}

// fuelTraits is the single dispatch point for fuel-type-specific
// behavior: how to compute a consumption figure and which units to
// label the outputs with.
type fuelTraits struct {
	consumption     func(distanceKm, fuel float64, prefs entity.UserPreferences) *float64
	consumptionUnit func(prefs entity.UserPreferences) string
	fuelUnit        func(prefs entity.UserPreferences) string
	convertFuel     func(fuel *float64, prefs entity.UserPreferences) *float64
}

var traitsByFuelType = map[entity.FuelType]fuelTraits{
	entity.FuelTypeLiquid: {
		consumption: func(d, f float64, p entity.UserPreferences) *float64 {
			return units.LiquidConsumption(d, f, liquidUnit(p))
		},
		consumptionUnit: liquidUnit,
		fuelUnit:        func(p entity.UserPreferences) string { return p.VolumeUnit },
		convertFuel: func(f *float64, p entity.UserPreferences) *float64 {
			return units.VolumeFromLiters(f, p.VolumeUnit)
		},
	},
	entity.FuelTypeElectric: {
		consumption: func(d, f float64, p entity.UserPreferences) *float64 {
			return units.ElectricConsumption(d, f, electricUnit(p))
		},
		consumptionUnit: electricUnit,
		fuelUnit:        func(entity.UserPreferences) string { return units.EnergyKWh },
		convertFuel:     func(f *float64, _ entity.UserPreferences) *float64 { return f },
	},
	entity.FuelTypeHydrogen: {
		consumption: func(d, f float64, _ entity.UserPreferences) *float64 {
			return units.HydrogenConsumption(d, f)
		},
		consumptionUnit: func(entity.UserPreferences) string { return units.ConsumptionKgPer100Km },
		fuelUnit:        func(entity.UserPreferences) string { return units.MassKg },
		convertFuel:     func(f *float64, _ entity.UserPreferences) *float64 { return f },
	},
}

func liquidUnit(p entity.UserPreferences) string {
	if p.ConsumptionUnit != "" {
		switch p.ConsumptionUnit {
		case units.ConsumptionLPer100Km, units.ConsumptionKmPerL,
			units.ConsumptionMpgUS, units.ConsumptionMpgUK:
			return p.ConsumptionUnit
		}
	}
	return units.ConsumptionUnitFor(p.DistanceUnit, p.VolumeUnit)
}

func electricUnit(p entity.UserPreferences) string {
	if p.ConsumptionUnit == units.ConsumptionMiPerKWh {
		return units.ConsumptionMiPerKWh
	}
	return units.ConsumptionKWhPer100Km
}

type partition struct {
	distanceKm float64
	fuel       float64
	vehicles   map[string]struct{}
	points     int
}

// Estimate partitions the data points by fuel type and computes one
// consumption figure per partition from the aggregate totals, so
// vehicles with more driving weight the result more heavily. Data
// points with an invalid fuel type are resolved through the vehicle's
// tank config; liquid is the last-resort default.
func (e *Estimator) Estimate(
	points []entity.ConsumptionDataPoint,
	tanks []entity.CarTankConfig,
	prefs entity.UserPreferences,
) entity.ConsumptionResult {
	primaryByVehicle := make(map[string]entity.FuelType, len(tanks))
	for _, t := range tanks {
		if t.PrimaryFuelType.Valid() {
			primaryByVehicle[t.VehicleID] = t.PrimaryFuelType
		}
	}

	partitions := make(map[entity.FuelType]*partition)
	allVehicles := make(map[string]struct{})
	var totalDistanceKm float64

	for _, dp := range points {
		if dp.DistanceKm < 0 {
			continue
		}
		ft := dp.FuelType
		if !ft.Valid() {
			if primary, ok := primaryByVehicle[dp.VehicleID]; ok {
				ft = primary
			} else {
				ft = entity.FuelTypeLiquid
			}
		}
		p, ok := partitions[ft]
		if !ok {
			p = &partition{vehicles: make(map[string]struct{})}
			partitions[ft] = p
		}
		p.distanceKm += dp.DistanceKm
		p.fuel += dp.FuelConsumedUnits
		p.vehicles[dp.VehicleID] = struct{}{}
		p.points++
		allVehicles[dp.VehicleID] = struct{}{}
		totalDistanceKm += dp.DistanceKm
	}

	result := entity.ConsumptionResult{
		ByFuelType:         make([]entity.FuelTypeConsumption, 0, len(partitions)),
		TotalDistanceKm:    units.Round2(totalDistanceKm),
		TotalVehiclesCount: len(allVehicles),
	}

	for ft, p := range partitions {
		result.ByFuelType = append(result.ByFuelType, e.estimatePartition(ft, p, prefs))
	}
	sort.Slice(result.ByFuelType, func(i, j int) bool {
		return result.ByFuelType[i].FuelType < result.ByFuelType[j].FuelType
	})

	return result
}

func (e *Estimator) estimatePartition(
	ft entity.FuelType,
	p *partition,
	prefs entity.UserPreferences,
) entity.FuelTypeConsumption {
	tr := traitsByFuelType[ft]

	out := entity.FuelTypeConsumption{
		FuelType:        ft,
		ConsumptionUnit: tr.consumptionUnit(prefs),
		DistanceUnit:    prefs.DistanceUnit,
		FuelUnit:        tr.fuelUnit(prefs),
		VehiclesCount:   len(p.vehicles),
		DataPointsCount: p.points,
	}

	if p.distanceKm > 0 {
		out.Distance = units.Round2Ptr(units.DistanceFromKm(&p.distanceKm, prefs.DistanceUnit))
	}
	if p.fuel > 0 {
		fuel := p.fuel
		out.FuelConsumed = units.Round2Ptr(tr.convertFuel(&fuel, prefs))
	}

	out.Consumption = units.Round2Ptr(tr.consumption(p.distanceKm, p.fuel, prefs))

	out.Confidence, out.ConfidenceReasons = e.rate(p, out.Consumption != nil)
	return out
}

// rate derives a confidence level and its reason codes for one
// partition. High requires a single-vehicle series with enough full
// intervals and totals above the configured minimums.
func (e *Estimator) rate(p *partition, hasFigure bool) (entity.Confidence, []string) {
	if !hasFigure {
		var reasons []string
		if p.distanceKm <= 0 {
			reasons = append(reasons, entity.ReasonInsufficientDistanceData)
		}
		if p.fuel <= 0 {
			reasons = append(reasons, entity.ReasonInsufficientFuelData)
		}
		return entity.ConfidenceLow, reasons
	}

	level := entity.ConfidenceHigh
	var reasons []string

	if len(p.vehicles) > 1 {
		level = entity.ConfidenceMedium
		reasons = append(reasons, entity.ReasonMultipleVehicles)
	}
	if p.points < e.cfg.MinDataPoints {
		level = entity.ConfidenceLow
		reasons = append(reasons, entity.ReasonFewDataPoints)
	}
	if p.distanceKm < e.cfg.MinDistanceKm {
		level = entity.ConfidenceLow
		reasons = append(reasons, entity.ReasonLowDistanceTotal)
	}
	if p.fuel < e.cfg.MinFuelUnits {
		level = entity.ConfidenceLow
		reasons = append(reasons, entity.ReasonLowFuelTotal)
	}

	return level, reasons
}
