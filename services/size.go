// ABOUTME: Sample size calculator for Cox regression with competing risks
// ABOUTME: Evaluates the Latouche closed-form formula over the parameter grid

package services

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/somemela/powercalc/models"
)

// maxExactCount is the largest float64 an int conversion preserves exactly.
// Results at or above it are reported as non-finite rather than silently
// losing precision.
const maxExactCount = float64(1 << 53)

// SizeCalculator computes required events and sample sizes for a Cox
// proportional hazards model with one binary covariate of interest,
// adjusted for correlation with a second covariate and for the
// probability of observing the event of interest.
type SizeCalculator struct {
	// AllowDegenerate includes theta==1 combinations as flagged
	// non-finite rows instead of rejecting the request.
	AllowDegenerate bool
	// MaxRows caps the expanded grid size; 0 means no cap.
	MaxRows int
	// Workers bounds grid evaluation parallelism; 0 means NumCPU.
	Workers int
}

// NewSizeCalculator creates a new calculator
func NewSizeCalculator() *SizeCalculator {
	return &SizeCalculator{}
}

// Calculate validates the parameters, expands the grid, and evaluates every
// combination. Row order is deterministic regardless of parallelism: the
// first-listed parameter varies fastest.
func (c *SizeCalculator) Calculate(ctx context.Context, params models.SizeParams) (*models.SizeTable, error) {
	params = params.WithDefaults()
	if err := ValidateSizeParams(params, c.AllowDegenerate); err != nil {
		return nil, err
	}

	size := params.GridSize()
	if c.MaxRows > 0 && size > c.MaxRows {
		return nil, &GridSizeError{Size: size, Max: c.MaxRows}
	}

	rows := make([]models.SizeRow, size)

	workers := c.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > size {
		workers = size
	}

	// Each worker owns a contiguous chunk of the preallocated slice,
	// so no synchronization is needed on the rows themselves.
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
				rows[i] = evaluateSize(sizeComboAt(params, i))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	table := &models.SizeTable{Rows: rows, GridSize: size}
	table.Warnings = GenerateSizeWarnings(table)
	return table, nil
}

// Single computes one combination from scalar inputs. It applies the same
// validation as Calculate, so a scalar call and a one-element grid agree.
func (c *SizeCalculator) Single(power, theta, p, psi, rho2, alpha float64) (models.SizeRow, error) {
	params := models.SizeParams{
		Power: models.FloatList{power},
		Theta: models.FloatList{theta},
		P:     models.FloatList{p},
		Psi:   models.FloatList{psi},
		Rho2:  models.FloatList{rho2},
		Alpha: models.FloatList{alpha},
	}
	if err := ValidateSizeParams(params, c.AllowDegenerate); err != nil {
		return models.SizeRow{}, err
	}
	return evaluateSize(sizeComboAt(params, 0)), nil
}

// evaluateSize computes one grid row.
//
//	D = (z_{1-alpha/2} + z_{power})^2 / ((ln theta)^2 * p * (1-p) * (1-rho2))
//	N = D / psi,  n1 = N * p,  n2 = N * (1-p)
//
// Each count is rounded up independently, which is why n1+n2 can exceed N.
// Combinations whose raw values are not representable as exact integers
// (theta==1 in degenerate mode, or absurdly small effect sizes) come back
// with Finite=false and zero counts instead of failing the whole grid.
func evaluateSize(cb sizeCombo) models.SizeRow {
	row := models.SizeRow{
		Power: cb.power,
		Theta: cb.theta,
		P:     cb.p,
		Psi:   cb.psi,
		Rho2:  cb.rho2,
		Alpha: cb.alpha,
	}

	zAlpha := distuv.UnitNormal.Quantile(1 - cb.alpha/2)
	zPower := distuv.UnitNormal.Quantile(cb.power)
	logTheta := math.Log(cb.theta)

	numerator := (zAlpha + zPower) * (zAlpha + zPower)
	denominator := logTheta * logTheta * cb.p * (1 - cb.p) * (1 - cb.rho2)

	dRaw := numerator / denominator
	nRaw := dRaw / cb.psi

	if !representable(dRaw) || !representable(nRaw) {
		return row
	}

	row.Finite = true
	row.D = int(math.Ceil(dRaw))
	row.N = int(math.Ceil(nRaw))
	row.N1 = int(math.Ceil(nRaw * cb.p))
	row.N2 = int(math.Ceil(nRaw * (1 - cb.p)))
	return row
}

// representable reports whether a raw count can survive the trip through
// math.Ceil and int conversion without losing exactness.
func representable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v < maxExactCount
}
