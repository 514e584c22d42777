package utils

import (
	"fmt"
	"regexp"
	"time"
)

// ValidateDateRange checks that a report period is well formed.
func ValidateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return fmt.Errorf("date range is required")
	}
	if !to.After(from) {
		return fmt.Errorf("dateTo must be after dateFrom")
	}
	return nil
}

// ValidateYear checks that a report year is plausible.
func ValidateYear(year int) error {
	if year < 1970 || year > 2100 {
		return fmt.Errorf("invalid year: %d", year)
	}
	return nil
}

// SanitizeString removes control characters from user-supplied input
func SanitizeString(s string) string {
	sanitized := regexp.MustCompile(`[\x00-\x1f\x7f]`).ReplaceAllString(s, "")
	return sanitized
}
