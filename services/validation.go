// ABOUTME: Eager input validation for sample size and power calculations
// ABOUTME: Rejects out-of-domain values up front so no grid row fails structurally

package services

import (
	"math"

	"github.com/somemela/powercalc/models"
)

// checkOpenUnit verifies every value lies strictly between 0 and 1.
func checkOpenUnit(param string, values models.FloatList) error {
	for _, v := range values {
		if math.IsNaN(v) || v <= 0 || v >= 1 {
			return &DomainError{Param: param, Value: v, Constraint: "strictly between 0 and 1"}
		}
	}
	return nil
}

// checkTheta verifies hazard ratios are positive, finite, and (unless
// allowDegenerate) not exactly 1.
func checkTheta(values models.FloatList, allowDegenerate bool) error {
	for _, v := range values {
		if math.IsNaN(v) || v <= 0 || math.IsInf(v, 0) {
			return &DomainError{Param: "theta", Value: v, Constraint: "a finite value greater than 0"}
		}
		if v == 1 && !allowDegenerate {
			return &DegenerateHazardRatioError{}
		}
	}
	return nil
}

// checkRho2 verifies squared correlations lie in [0, 1).
func checkRho2(values models.FloatList) error {
	for _, v := range values {
		if math.IsNaN(v) || v < 0 || v >= 1 {
			return &DomainError{Param: "rho2", Value: v, Constraint: "at least 0 and strictly below 1"}
		}
	}
	return nil
}

// ValidateSizeParams checks a complete (defaults applied) parameter set.
// Order matters for error reporting: missing required parameters first,
// then domain violations in declaration order.
func ValidateSizeParams(p models.SizeParams, allowDegenerate bool) error {
	if len(p.Theta) == 0 {
		return &MissingParameterError{Param: "theta"}
	}
	if len(p.Psi) == 0 {
		return &MissingParameterError{Param: "psi"}
	}
	if err := checkOpenUnit("power", p.Power); err != nil {
		return err
	}
	if err := checkTheta(p.Theta, allowDegenerate); err != nil {
		return err
	}
	if err := checkOpenUnit("p", p.P); err != nil {
		return err
	}
	if err := checkOpenUnit("psi", p.Psi); err != nil {
		return err
	}
	if err := checkRho2(p.Rho2); err != nil {
		return err
	}
	return checkOpenUnit("alpha", p.Alpha)
}

// ValidatePowerParams checks a complete (defaults applied) parameter set
// for the achieved-power direction.
func ValidatePowerParams(p models.PowerParams, allowDegenerate bool) error {
	if len(p.N) == 0 {
		return &MissingParameterError{Param: "n"}
	}
	if len(p.Theta) == 0 {
		return &MissingParameterError{Param: "theta"}
	}
	if len(p.Psi) == 0 {
		return &MissingParameterError{Param: "psi"}
	}
	for _, v := range p.N {
		if math.IsNaN(v) || v <= 0 || math.IsInf(v, 0) {
			return &DomainError{Param: "n", Value: v, Constraint: "a finite value greater than 0"}
		}
	}
	if err := checkTheta(p.Theta, allowDegenerate); err != nil {
		return err
	}
	if err := checkOpenUnit("p", p.P); err != nil {
		return err
	}
	if err := checkOpenUnit("psi", p.Psi); err != nil {
		return err
	}
	if err := checkRho2(p.Rho2); err != nil {
		return err
	}
	return checkOpenUnit("alpha", p.Alpha)
}
