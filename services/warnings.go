// ABOUTME: Planning advisories for computed result tables
// ABOUTME: Flags assumption regions that make a design fragile or infeasible

package services

import (
	"fmt"

	"github.com/somemela/powercalc/models"
)

const (
	// nearOneBand flags hazard ratios within this distance of 1
	nearOneBand = 0.1
	// lowPsiThreshold flags designs where most subjects never contribute an event
	lowPsiThreshold = 0.2
	// imbalanceThreshold flags prevalences outside [threshold, 1-threshold]
	imbalanceThreshold = 0.1
	// highRho2Threshold flags strong covariate correlation
	highRho2Threshold = 0.5
	// largeNThreshold flags enrollments beyond most studies' reach
	largeNThreshold = 100000
	// lowPowerThreshold flags achieved power below conventional minimums
	lowPowerThreshold = 0.5
)

// GenerateSizeWarnings produces advisories for a computed size table.
// Warnings aggregate across rows so a large grid yields a handful of
// messages rather than one per combination.
func GenerateSizeWarnings(t *models.SizeTable) []models.Warning {
	var warnings []models.Warning

	var nonFinite, nearOne, lowPsi, imbalanced, highRho2 int
	largestN := 0
	for i := range t.Rows {
		r := &t.Rows[i]
		if !r.Finite {
			nonFinite++
		}
		if diff := r.Theta - 1; diff < nearOneBand && diff > -nearOneBand {
			nearOne++
		}
		if r.Psi < lowPsiThreshold {
			lowPsi++
		}
		if r.P < imbalanceThreshold || r.P > 1-imbalanceThreshold {
			imbalanced++
		}
		if r.Rho2 > highRho2Threshold {
			highRho2++
		}
		if r.Finite && r.N > largestN {
			largestN = r.N
		}
	}

	if nonFinite > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "critical",
			Message:  fmt.Sprintf("%d combination(s) produced no finite sample size; affected rows are flagged", nonFinite),
		})
	}
	if nearOne > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "warning",
			Message:  fmt.Sprintf("%d combination(s) assume a hazard ratio within %.1f of 1; required enrollment grows without bound near 1", nearOne, nearOneBand),
		})
	}
	if lowPsi > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "warning",
			Message:  fmt.Sprintf("%d combination(s) assume event probability below %.1f; most enrolled subjects will not contribute events", lowPsi, lowPsiThreshold),
		})
	}
	if imbalanced > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "warning",
			Message:  fmt.Sprintf("%d combination(s) assume heavily unbalanced group allocation", imbalanced),
		})
	}
	if highRho2 > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "info",
			Message:  fmt.Sprintf("%d combination(s) assume covariate correlation above %.1f; the variance correction inflates enrollment substantially", highRho2, highRho2Threshold),
		})
	}
	if largestN > largeNThreshold {
		warnings = append(warnings, models.Warning{
			Severity: "info",
			Message:  fmt.Sprintf("largest scenario requires %d subjects", largestN),
		})
	}

	return warnings
}

// GeneratePowerWarnings produces advisories for a computed power table.
func GeneratePowerWarnings(t *models.PowerTable) []models.Warning {
	var warnings []models.Warning

	var lowPower, nearOne int
	for i := range t.Rows {
		r := &t.Rows[i]
		if r.Power < lowPowerThreshold {
			lowPower++
		}
		if diff := r.Theta - 1; diff < nearOneBand && diff > -nearOneBand {
			nearOne++
		}
	}

	if lowPower > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "warning",
			Message:  fmt.Sprintf("%d combination(s) achieve power below %.1f; the design is unlikely to detect the assumed effect", lowPower, lowPowerThreshold),
		})
	}
	if nearOne > 0 {
		warnings = append(warnings, models.Warning{
			Severity: "warning",
			Message:  fmt.Sprintf("%d combination(s) assume a hazard ratio within %.1f of 1; achieved power barely exceeds the false positive rate", nearOne, nearOneBand),
		})
	}

	return warnings
}
