// ABOUTME: Result tables for sample size and achieved power calculations
// ABOUTME: JSON-serializable rows preserving input order across the parameter grid

package models

import "fmt"

// SizeRow is one grid combination with its derived sample size requirements.
// D is the required number of events, N the total sample size, N1 and N2 the
// exposed and unexposed group sizes. Each count is rounded up independently,
// so N1+N2 may exceed N by one. Finite is false when the combination produced
// no representable result; the counts are then zero and must be ignored.
type SizeRow struct {
	Power  float64 `json:"power"`
	Theta  float64 `json:"theta"`
	P      float64 `json:"p"`
	Psi    float64 `json:"psi"`
	Rho2   float64 `json:"rho2"`
	Alpha  float64 `json:"alpha"`
	D      int     `json:"d"`
	N      int     `json:"n"`
	N1     int     `json:"n1"`
	N2     int     `json:"n2"`
	Finite bool    `json:"finite"`
}

// GroupSizes returns a formatted allocation string like "54/85".
func (r *SizeRow) GroupSizes() string {
	return fmt.Sprintf("%d/%d", r.N1, r.N2)
}

// SizeTable is the full result of a sample size calculation.
// Rows follow grid order: the first-listed parameter varies fastest.
type SizeTable struct {
	Rows     []SizeRow `json:"rows"`
	Warnings []Warning `json:"warnings,omitempty"`
	GridSize int       `json:"grid_size"`
}

// Warning flags a risky or degenerate assumption in a result table.
type Warning struct {
	Severity string `json:"severity"` // "info", "warning", "critical"
	Message  string `json:"message"`
}

// PowerRow is one grid combination with its achieved power.
// ExpectedEvents is n*psi, the event count the design expects to observe.
type PowerRow struct {
	N              float64 `json:"n"`
	Theta          float64 `json:"theta"`
	P              float64 `json:"p"`
	Psi            float64 `json:"psi"`
	Rho2           float64 `json:"rho2"`
	Alpha          float64 `json:"alpha"`
	ExpectedEvents float64 `json:"expected_events"`
	Power          float64 `json:"power"`
}

// PowerTable is the full result of an achieved power calculation.
type PowerTable struct {
	Rows     []PowerRow `json:"rows"`
	Warnings []Warning  `json:"warnings,omitempty"`
	GridSize int        `json:"grid_size"`
}
