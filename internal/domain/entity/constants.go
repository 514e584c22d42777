package entity

// FuelType identifies the propulsion energy source of a vehicle.
// It is a closed set: calculation code dispatches over it exactly once
// (in the consumption estimator) and nowhere else.
type FuelType string

const (
	FuelTypeLiquid   FuelType = "liquid"   // gasoline, diesel, LPG
	FuelTypeElectric FuelType = "electric" // battery electric, kWh
	FuelTypeHydrogen FuelType = "hydrogen" // fuel cell, kg
)

// Valid reports whether f is a member of the closed fuel type set.
func (f FuelType) Valid() bool {
	switch f {
	case FuelTypeLiquid, FuelTypeElectric, FuelTypeHydrogen:
		return true
	}
	return false
}

// Expense categories used in report breakdowns and the
// actual-expense-method deduction.
const (
	CategoryFuel        = "fuel"
	CategoryMaintenance = "maintenance"
	CategoryInsurance   = "insurance"
	CategoryParking     = "parking"
	CategoryOther       = "other"
)

// Record kinds distinguish the underlying record tables inside one
// aggregate row.
const (
	KindExpense = "expense"
	KindRefuel  = "refuel"
	KindParking = "parking"
	KindTravel  = "travel"
)

// Travel types as recorded on travel entries. Which of these count
// toward a deduction is decided by the reimbursement eligibility table,
// never by the records themselves.
const (
	TravelTypeBusiness = "business"
	TravelTypeMedical  = "medical"
	TravelTypeCharity  = "charity"
	TravelTypeMoving   = "moving"
	TravelTypePersonal = "personal"
)

// Confidence rates how trustworthy a derived consumption figure is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Confidence reason codes. Whenever a partition's confidence is below
// high, at least one of these explains why.
const (
	ReasonMultipleVehicles         = "multiple_vehicles"
	ReasonFewDataPoints            = "few_data_points"
	ReasonLowDistanceTotal         = "low_distance_total"
	ReasonLowFuelTotal             = "low_fuel_total"
	ReasonInsufficientDistanceData = "insufficient_distance_data"
	ReasonInsufficientFuelData     = "insufficient_fuel_data"
)
