package facts

import (
	"fmt"
	"strings"

	"shoprag/internal/domain"
)

// recognizedVolumeUnits are the unit tokens a volume may be expressed in.
var recognizedVolumeUnits = map[string]bool{
	"ml": true, "l": true, "g": true, "kg": true, "mg": true,
	"oz": true, "fl oz": true,
}

// ValidateFacts applies the business rules that gate a snapshot being
// marked validated. An empty slice means valid; anything else is recorded
// as diagnostic data and triggers the summary fallback.
func ValidateFacts(f *domain.ProductFacts) []string {
	var errs []string
	if strings.TrimSpace(f.Identity.Title) == "" {
		errs = append(errs, "identity.title is empty")
	}
	if f.Identity.VolumeValue != nil && *f.Identity.VolumeValue <= 0 {
		errs = append(errs, fmt.Sprintf("identity.volume_value must be positive, got %v", *f.Identity.VolumeValue))
	}
	if unit := strings.ToLower(strings.TrimSpace(f.Identity.VolumeUnit)); unit != "" && !recognizedVolumeUnits[unit] {
		errs = append(errs, fmt.Sprintf("identity.volume_unit %q is not a recognized unit", f.Identity.VolumeUnit))
	}
	return errs
}
