package reimbursement

import (
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/entity"
	"github.com/dcerge/carexpenses-api-sub002/internal/domain/units"
)

// CalculateTiered applies a progressive rate schedule to a distance.
// Tiers are consumed in ascending threshold order: each tier absorbs
// distance up to its threshold at its rate and the remainder rolls
// into the next; a zero-threshold (final) tier absorbs whatever is
// left. The breakdown contains only tiers that received nonzero
// distance. Distance must already be in the rate table's declared
// unit; the calculator knows nothing about caller preferences.
func CalculateTiered(distance float64, cfg entity.ReimbursementRateConfig) entity.TieredDeduction {
	result := entity.TieredDeduction{}
	if distance <= 0 || len(cfg.Tiers) == 0 {
		return result
	}

	remaining := distance
	var previousThreshold float64
	var total float64

	for _, tier := range cfg.Tiers {
		if remaining <= 0 {
			break
		}

		inTier := remaining
		if tier.ThresholdDistance > 0 {
			band := tier.ThresholdDistance - previousThreshold
			if band < 0 {
				band = 0
			}
			if inTier > band {
				inTier = band
			}
			previousThreshold = tier.ThresholdDistance
		}
		if inTier <= 0 {
			continue
		}

		amount := inTier * tier.Rate
		total += amount
		result.Breakdown = append(result.Breakdown, entity.TierAmount{
			TierDistance: units.Round2(inTier),
			TierRate:     tier.Rate,
			TierAmount:   units.Round2(amount),
		})
		remaining -= inTier
	}

	result.Total = units.Round2(total)
	return result
}
