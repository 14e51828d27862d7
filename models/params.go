// ABOUTME: Input parameter collections for sample size and power calculations
// ABOUTME: Accepts scalar or array JSON values and applies documented defaults

package models

import (
	"encoding/json"
	"fmt"
)

// Default assumption values for optional parameters.
const (
	DefaultPower = 0.8
	DefaultP     = 0.5
	DefaultRho2  = 0.0
	DefaultAlpha = 0.05
)

// FloatList holds one or more values for a single parameter.
// It unmarshals from either a JSON number or an array of numbers,
// so {"theta": 2} and {"theta": [2]} are equivalent requests.
type FloatList []float64

func (f *FloatList) UnmarshalJSON(data []byte) error {
	var many []float64
	if err := json.Unmarshal(data, &many); err == nil {
		*f = many
		return nil
	}

	var one float64
	if err := json.Unmarshal(data, &one); err != nil {
		return fmt.Errorf("expected a number or an array of numbers")
	}
	*f = FloatList{one}
	return nil
}

// SizeParams holds the six study assumptions for a sample size request.
// Each field is a collection; the result grid is the Cartesian product.
// Theta and Psi are required, the rest default per the constants above.
type SizeParams struct {
	Power FloatList `json:"power,omitempty"` // target power, in (0,1)
	Theta FloatList `json:"theta"`           // hazard ratio under the alternative, > 0
	P     FloatList `json:"p,omitempty"`     // prevalence of the exposed group, in (0,1)
	Psi   FloatList `json:"psi"`             // probability of observing the event of interest, in (0,1)
	Rho2  FloatList `json:"rho2,omitempty"`  // squared correlation with the adjustment covariate, in [0,1)
	Alpha FloatList `json:"alpha,omitempty"` // two-sided significance level, in (0,1)
}

// WithDefaults returns a copy with absent optional collections filled in.
// Required collections (theta, psi) are left as-is for validation to catch.
func (p SizeParams) WithDefaults() SizeParams {
	if len(p.Power) == 0 {
		p.Power = FloatList{DefaultPower}
	}
	if len(p.P) == 0 {
		p.P = FloatList{DefaultP}
	}
	if len(p.Rho2) == 0 {
		p.Rho2 = FloatList{DefaultRho2}
	}
	if len(p.Alpha) == 0 {
		p.Alpha = FloatList{DefaultAlpha}
	}
	return p
}

// GridSize returns the number of combinations the collections expand to.
func (p SizeParams) GridSize() int {
	return len(p.Power) * len(p.Theta) * len(p.P) * len(p.Psi) * len(p.Rho2) * len(p.Alpha)
}

// PowerParams holds the assumptions for an achieved-power request.
// N replaces Power as the free parameter; the rest match SizeParams.
type PowerParams struct {
	N     FloatList `json:"n"` // candidate total sample sizes, > 0
	Theta FloatList `json:"theta"`
	P     FloatList `json:"p,omitempty"`
	Psi   FloatList `json:"psi"`
	Rho2  FloatList `json:"rho2,omitempty"`
	Alpha FloatList `json:"alpha,omitempty"`
}

// WithDefaults returns a copy with absent optional collections filled in.
func (p PowerParams) WithDefaults() PowerParams {
	if len(p.P) == 0 {
		p.P = FloatList{DefaultP}
	}
	if len(p.Rho2) == 0 {
		p.Rho2 = FloatList{DefaultRho2}
	}
	if len(p.Alpha) == 0 {
		p.Alpha = FloatList{DefaultAlpha}
	}
	return p
}

// GridSize returns the number of combinations the collections expand to.
func (p PowerParams) GridSize() int {
	return len(p.N) * len(p.Theta) * len(p.P) * len(p.Psi) * len(p.Rho2) * len(p.Alpha)
}
