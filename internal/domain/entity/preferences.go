package entity

// UserPreferences are the account-level unit and currency settings
// every report needs. All four fields are required inputs to a report
// build; Normalize fills metric defaults for anything the preference
// store left blank.
type UserPreferences struct {
	AccountID       string `json:"account_id"`
	DistanceUnit    string `json:"distance_unit"`
	VolumeUnit      string `json:"volume_unit"`
	ConsumptionUnit string `json:"consumption_unit"`
	HomeCurrency    string `json:"home_currency"`
}

// Normalize fills unset preferences with metric defaults.
func (p *UserPreferences) Normalize() {
	if p.DistanceUnit == "" {
		p.DistanceUnit = "km"
	}
	if p.VolumeUnit == "" {
		p.VolumeUnit = "l"
	}
	if p.HomeCurrency == "" {
		p.HomeCurrency = "USD"
	}
}
