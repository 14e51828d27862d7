// ABOUTME: Cartesian grid expansion over parameter collections
// ABOUTME: Maps flat row indexes to combinations with the first parameter varying fastest

package services

import "github.com/somemela/powercalc/models"

// sizeCombo is one point of the sample size parameter grid.
type sizeCombo struct {
	power, theta, p, psi, rho2, alpha float64
}

// powerCombo is one point of the achieved-power parameter grid.
type powerCombo struct {
	n, theta, p, psi, rho2, alpha float64
}

// sizeComboAt decomposes a flat grid index into one combination.
// The first declared parameter (power) cycles fastest and the last
// (alpha) slowest, so row order matches reading the collections
// left to right.
func sizeComboAt(p models.SizeParams, i int) sizeCombo {
	var c sizeCombo
	c.power = p.Power[i%len(p.Power)]
	i /= len(p.Power)
	c.theta = p.Theta[i%len(p.Theta)]
	i /= len(p.Theta)
	c.p = p.P[i%len(p.P)]
	i /= len(p.P)
	c.psi = p.Psi[i%len(p.Psi)]
	i /= len(p.Psi)
	c.rho2 = p.Rho2[i%len(p.Rho2)]
	i /= len(p.Rho2)
	c.alpha = p.Alpha[i%len(p.Alpha)]
	return c
}

// powerComboAt decomposes a flat grid index into one combination,
// with n cycling fastest.
func powerComboAt(p models.PowerParams, i int) powerCombo {
	var c powerCombo
	c.n = p.N[i%len(p.N)]
	i /= len(p.N)
	c.theta = p.Theta[i%len(p.Theta)]
	i /= len(p.Theta)
	c.p = p.P[i%len(p.P)]
	i /= len(p.P)
	c.psi = p.Psi[i%len(p.Psi)]
	i /= len(p.Psi)
	c.rho2 = p.Rho2[i%len(p.Rho2)]
	i /= len(p.Rho2)
	c.alpha = p.Alpha[i%len(p.Alpha)]
	return c
}
