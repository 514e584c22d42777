// Package units provides pure conversion between stored metric
// quantities and user-preferred units, and the derivation of composite
// consumption units. All functions are stateless; absent inputs (nil)
// propagate as nil so callers never special-case "no data".
package units

import "math"

// Distance unit codes.
const (
	DistanceKm = "km"
	DistanceMi = "mi"
)

// Volume unit codes.
const (
	VolumeLiter    = "l"
	VolumeGallonUS = "gal_us"
	VolumeGallonUK = "gal_uk"
)

// Energy and mass unit codes for non-liquid propulsion.
const (
	EnergyKWh = "kwh"
	MassKg    = "kg"
)

// Consumption unit codes.
const (
	ConsumptionLPer100Km   = "l_per_100km"
	ConsumptionKmPerL      = "km_per_l"
	ConsumptionMpgUS       = "mpg_us"
	ConsumptionMpgUK       = "mpg_uk"
	ConsumptionKWhPer100Km = "kwh_per_100km"
	ConsumptionMiPerKWh    = "mi_per_kwh"
	ConsumptionKgPer100Km  = "kg_per_100km"
)

const (
	kmPerMile      = 1.609344
	litersPerGalUS = 3.785411784
	litersPerGalUK = 4.54609
)

// DistanceFromKm converts a stored kilometer value into the target
// distance unit. Unknown units pass the value through unchanged.
func DistanceFromKm(km *float64, unit string) *float64 {
	if km == nil {
		return nil
	}
	v := *km
	if unit == DistanceMi {
		v = v / kmPerMile
	}
	return &v
}

// DistanceToKm is the inverse of DistanceFromKm.
func DistanceToKm(value *float64, unit string) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	if unit == DistanceMi {
		v = v * kmPerMile
	}
	return &v
}

// VolumeFromLiters converts a stored liter value into the target
// volume unit. Unknown units pass the value through unchanged.
func VolumeFromLiters(l *float64, unit string) *float64 {
	if l == nil {
		return nil
	}
	v := *l
	switch unit {
	case VolumeGallonUS:
		v = v / litersPerGalUS
	case VolumeGallonUK:
		v = v / litersPerGalUK
	}
	return &v
}

// VolumeToLiters is the inverse of VolumeFromLiters.
func VolumeToLiters(value *float64, unit string) *float64 {
	if value == nil {
		return nil
	}
	v := *value
	switch unit {
	case VolumeGallonUS:
		v = v * litersPerGalUS
	case VolumeGallonUK:
		v = v * litersPerGalUK
	}
	return &v
}

// consumptionUnitTable maps a (distance unit, volume unit) preference
// pair to the composite consumption unit reported for liquid fuels.
var consumptionUnitTable = map[[2]string]string{
	{DistanceKm, VolumeLiter}:    ConsumptionLPer100Km,
	{DistanceKm, VolumeGallonUS}: ConsumptionLPer100Km,
	{DistanceKm, VolumeGallonUK}: ConsumptionLPer100Km,
	{DistanceMi, VolumeLiter}:    ConsumptionKmPerL,
	{DistanceMi, VolumeGallonUS}: ConsumptionMpgUS,
	{DistanceMi, VolumeGallonUK}: ConsumptionMpgUK,
}

// ConsumptionUnitFor derives the liquid-fuel consumption unit from a
// distance/volume preference pair. Unrecognized pairs fall back to
// L/100km.
func ConsumptionUnitFor(distanceUnit, volumeUnit string) string {
	if u, ok := consumptionUnitTable[[2]string{distanceUnit, volumeUnit}]; ok {
		return u
	}
	return ConsumptionLPer100Km
}

// LiquidConsumption converts an aggregate (distanceKm, fuelLiters)
// pair into the given consumption unit. Returns nil when either total
// is not positive; ratios are never allowed to divide by zero.
func LiquidConsumption(distanceKm, fuelLiters float64, unit string) *float64 {
	if distanceKm <= 0 || fuelLiters <= 0 {
		return nil
	}
	var v float64
	switch unit {
	case ConsumptionKmPerL:
		v = distanceKm / fuelLiters
	case ConsumptionMpgUS:
		v = (distanceKm / kmPerMile) / (fuelLiters / litersPerGalUS)
	case ConsumptionMpgUK:
		v = (distanceKm / kmPerMile) / (fuelLiters / litersPerGalUK)
	default: // l_per_100km
		v = fuelLiters / distanceKm * 100
	}
	return &v
}

// ElectricConsumption converts an aggregate (distanceKm, kWh) pair
// into the given consumption unit. Returns nil when either total is
// not positive.
func ElectricConsumption(distanceKm, kwh float64, unit string) *float64 {
	if distanceKm <= 0 || kwh <= 0 {
		return nil
	}
	var v float64
	switch unit {
	case ConsumptionMiPerKWh:
		v = (distanceKm / kmPerMile) / kwh
	default: // kwh_per_100km
		v = kwh / distanceKm * 100
	}
	return &v
}

// HydrogenConsumption converts an aggregate (distanceKm, kg) pair into
// kg/100km. Returns nil when either total is not positive.
func HydrogenConsumption(distanceKm, kg float64) *float64 {
	if distanceKm <= 0 || kg <= 0 {
		return nil
	}
	v := kg / distanceKm * 100
	return &v
}

// Round2 rounds to two decimal places: money and most physical
// quantities at the formatting boundary.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round2Ptr applies Round2 through a nil-propagating pointer.
func Round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// Round3 rounds to three decimal places, used for unit fuel prices.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// Round3Ptr applies Round3 through a nil-propagating pointer.
func Round3Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round3(*v)
	return &r
}

// Ratio divides a by b, returning nil instead of NaN or Inf when the
// denominator is not positive. Every ratio in the reporting engine
// goes through this guard.
func Ratio(a, b float64) *float64 {
	if b <= 0 {
		return nil
	}
	v := a / b
	return &v
}

// Float64Ptr returns a pointer to v. Convenience for literal report
// fields and tests.
func Float64Ptr(v float64) *float64 {
	return &v
}
