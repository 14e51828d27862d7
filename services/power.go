// ABOUTME: Achieved power calculator, the inverse of the sample size formula
// ABOUTME: Computes the power a candidate total sample size would deliver

package services

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/somemela/powercalc/models"
)

// PowerCalculator computes the power achieved by candidate total sample
// sizes under the same design assumptions the size calculator uses.
type PowerCalculator struct {
	// AllowDegenerate permits theta==1; those rows come back with power
	// equal to alpha/2, the chance of a false positive in one tail.
	AllowDegenerate bool
	// MaxRows caps the expanded grid size; 0 means no cap.
	MaxRows int
	// Workers bounds grid evaluation parallelism; 0 means NumCPU.
	Workers int
}

// NewPowerCalculator creates a new calculator
func NewPowerCalculator() *PowerCalculator {
	return &PowerCalculator{}
}

// Calculate validates the parameters, expands the grid, and evaluates every
// combination. Row order matches grid order with n varying fastest.
func (c *PowerCalculator) Calculate(ctx context.Context, params models.PowerParams) (*models.PowerTable, error) {
	params = params.WithDefaults()
	if err := ValidatePowerParams(params, c.AllowDegenerate); err != nil {
		return nil, err
	}

	size := params.GridSize()
	if c.MaxRows > 0 && size > c.MaxRows {
		return nil, &GridSizeError{Size: size, Max: c.MaxRows}
	}

	rows := make([]models.PowerRow, size)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > size {
		workers = size
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (size + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := min(start+chunk, size)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rows[i] = evaluatePower(powerComboAt(params, i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := &models.PowerTable{Rows: rows, GridSize: size}
	table.Warnings = GeneratePowerWarnings(table)
	return table, nil
}

// Single computes one combination from scalar inputs.
func (c *PowerCalculator) Single(n, theta, p, psi, rho2, alpha float64) (models.PowerRow, error) {
	params := models.PowerParams{
		N:     models.FloatList{n},
		Theta: models.FloatList{theta},
		P:     models.FloatList{p},
		Psi:   models.FloatList{psi},
		Rho2:  models.FloatList{rho2},
		Alpha: models.FloatList{alpha},
	}
	if err := ValidatePowerParams(params, c.AllowDegenerate); err != nil {
		return models.PowerRow{}, err
	}
	return evaluatePower(powerComboAt(params, 0)), nil
}

// evaluatePower solves the size formula for power:
//
//	power = Phi( sqrt(n * psi * (ln theta)^2 * p * (1-p) * (1-rho2)) - z_{1-alpha/2} )
//
// The sqrt argument is the expected event count times the effect variance,
// so power grows with enrollment, event probability, and effect size.
func evaluatePower(cb powerCombo) models.PowerRow {
	row := models.PowerRow{
		N:     cb.n,
		Theta: cb.theta,
		P:     cb.p,
		Psi:   cb.psi,
		Rho2:  cb.rho2,
		Alpha: cb.alpha,
	}

	zAlpha := distuv.UnitNormal.Quantile(1 - cb.alpha/2)
	logTheta := math.Log(cb.theta)

	row.ExpectedEvents = cb.n * cb.psi
	shift := math.Sqrt(row.ExpectedEvents * logTheta * logTheta * cb.p * (1 - cb.p) * (1 - cb.rho2))
	row.Power = distuv.UnitNormal.CDF(shift - zAlpha)
	return row
}
