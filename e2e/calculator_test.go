// ABOUTME: End-to-end tests for the sample size and power API
// ABOUTME: Tests full flows from grid request through power verification

package e2e

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/somemela/powercalc/config"
	"github.com/somemela/powercalc/models"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxGridRows: 1000,
		GridWorkers: 2,
	}
}

func TestSampleSizeToPowerRoundTripE2E(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	// Step 1: required sample size for the reference design
	sizeBody := `{"power":[0.8],"theta":[2],"p":[0.39],"psi":[0.505],"rho2":[0.017424]}`
	resp1, err := http.Post(server.URL+"/api/v1/samplesize", "application/json", strings.NewReader(sizeBody))
	if err != nil {
		t.Fatalf("Failed to post sample size request: %v", err)
	}
	defer resp1.Body.Close()

	if resp1.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp1.StatusCode)
	}

	var table models.SizeTable
	if err := json.NewDecoder(resp1.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode size table: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0].N != 139 {
		t.Errorf("Expected N=139, got %d", table.Rows[0].N)
	}

	// Step 2: feed the total back into the power endpoint. Rounding up
	// means the achieved power must reach the requested one.
	powerBody := fmt.Sprintf(`{"n":[%d],"theta":[2],"p":[0.39],"psi":[0.505],"rho2":[0.017424]}`,
		table.Rows[0].N)
	resp2, err := http.Post(server.URL+"/api/v1/power", "application/json", strings.NewReader(powerBody))
	if err != nil {
		t.Fatalf("Failed to post power request: %v", err)
	}
	defer resp2.Body.Close()

	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp2.StatusCode)
	}

	var ptable models.PowerTable
	if err := json.NewDecoder(resp2.Body).Decode(&ptable); err != nil {
		t.Fatalf("Failed to decode power table: %v", err)
	}
	if len(ptable.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(ptable.Rows))
	}
	if ptable.Rows[0].Power < 0.8 {
		t.Errorf("Expected achieved power >= 0.8, got %v", ptable.Rows[0].Power)
	}
}

func TestGridOrderingE2E(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	body := `{"theta":[1.5,2],"psi":[0.4,0.5]}`
	resp, err := http.Post(server.URL+"/api/v1/samplesize", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to post request: %v", err)
	}
	defer resp.Body.Close()

	var table models.SizeTable
	if err := json.NewDecoder(resp.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode size table: %v", err)
	}

	if table.GridSize != 4 {
		t.Fatalf("Expected grid_size 4, got %d", table.GridSize)
	}

	// Earlier parameters vary fastest, so theta cycles before psi advances
	wantTheta := []float64{1.5, 2, 1.5, 2}
	wantPsi := []float64{0.4, 0.4, 0.5, 0.5}
	for i, row := range table.Rows {
		if row.Theta != wantTheta[i] || row.Psi != wantPsi[i] {
			t.Errorf("Row %d: got theta=%v psi=%v, want theta=%v psi=%v",
				i, row.Theta, row.Psi, wantTheta[i], wantPsi[i])
		}
		if !row.Finite {
			t.Errorf("Row %d: expected finite result", i)
		}
	}

	// More events observed per subject means fewer subjects needed
	if table.Rows[2].N >= table.Rows[0].N {
		t.Errorf("Expected N to shrink as psi grows: N(psi=0.5)=%d, N(psi=0.4)=%d",
			table.Rows[2].N, table.Rows[0].N)
	}
}

func TestValidationErrorFlowE2E(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	body := `{"theta":[2],"psi":[2.5]}`
	resp, err := http.Post(server.URL+"/api/v1/samplesize", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to post request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}

	var errResp models.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	if !strings.Contains(errResp.Details, "psi") {
		t.Errorf("Expected details to name the bad parameter, got %q", errResp.Details)
	}

	// A rejected request must not poison the service
	resp2, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("Failed to get health: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Errorf("Expected health 200 after rejected request, got %d", resp2.StatusCode)
	}
}

func TestHealthReportsCacheGrowthE2E(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	readEntries := func() float64 {
		resp, err := http.Get(server.URL + "/api/v1/health")
		if err != nil {
			t.Fatalf("Failed to get health: %v", err)
		}
		defer resp.Body.Close()

		var health map[string]interface{}
		if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
			t.Fatalf("Failed to decode health: %v", err)
		}
		entries, ok := health["cache_entries"].(float64)
		if !ok {
			t.Fatalf("Expected numeric cache_entries, got %v", health["cache_entries"])
		}
		return entries
	}

	if got := readEntries(); got != 0 {
		t.Errorf("Expected empty cache, got %v entries", got)
	}

	body := `{"theta":[2],"psi":[0.5]}`
	resp, err := http.Post(server.URL+"/api/v1/samplesize", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("Failed to post request: %v", err)
	}
	resp.Body.Close()

	if got := readEntries(); got != 1 {
		t.Errorf("Expected 1 cache entry after a calculation, got %v", got)
	}
}

func TestMethodNotAllowedE2E(t *testing.T) {
	server, _ := newTestServer(t, testConfig(), nil)

	resp, err := http.Get(server.URL + "/api/v1/samplesize")
	if err != nil {
		t.Fatalf("Failed to get: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405 for GET on a POST route, got %d", resp.StatusCode)
	}
}
