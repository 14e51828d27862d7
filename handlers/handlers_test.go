package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/somemela/powercalc/cache"
	"github.com/somemela/powercalc/config"
	"github.com/somemela/powercalc/models"
)

func newTestHandler() (*Handler, *cache.Cache) {
	cfg := &config.Config{
		MaxGridRows: 1000,
		GridWorkers: 1,
	}
	c := cache.New(5 * time.Minute)
	return NewHandler(cfg, c), c
}

func postJSON(t *testing.T, handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHealthHandler(t *testing.T) {
	h, _ := newTestHandler()

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", resp["status"])
	}
	if resp["cache_entries"] != float64(0) {
		t.Errorf("Expected 0 cache entries, got %v", resp["cache_entries"])
	}
	if resp["max_grid_rows"] != float64(1000) {
		t.Errorf("Expected max_grid_rows 1000, got %v", resp["max_grid_rows"])
	}
}

func TestComputeSampleSize_LatoucheExample(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"power":[0.8],"theta":[2],"p":[0.39],"psi":[0.505],"rho2":[0.017424],"alpha":[0.05]}`
	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var table models.SizeTable
	if err := json.NewDecoder(w.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if table.GridSize != 1 {
		t.Errorf("Expected grid_size 1, got %d", table.GridSize)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.D != 70 {
		t.Errorf("Expected 70 events, got %d", row.D)
	}
	if row.N != 139 {
		t.Errorf("Expected 139 subjects, got %d", row.N)
	}
	if row.N1 != 54 || row.N2 != 85 {
		t.Errorf("Expected group sizes 54/85, got %d/%d", row.N1, row.N2)
	}
	if !row.Finite {
		t.Error("Expected row to be finite")
	}
}

func TestComputeSampleSize_ScalarParameters(t *testing.T) {
	h, _ := newTestHandler()

	// Scalars are accepted everywhere an array is
	body := `{"power":0.8,"theta":2,"p":0.39,"psi":0.505,"rho2":0.017424,"alpha":0.05}`
	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var table models.SizeTable
	if err := json.NewDecoder(w.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(table.Rows) != 1 || table.Rows[0].N != 139 {
		t.Errorf("Expected single row with N=139, got %+v", table.Rows)
	}
}

func TestComputeSampleSize_AppliesDefaults(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":[2],"psi":[0.5]}`)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var table models.SizeTable
	if err := json.NewDecoder(w.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.Power != 0.8 || row.P != 0.5 || row.Rho2 != 0 || row.Alpha != 0.05 {
		t.Errorf("Expected default parameters in row, got %+v", row)
	}
	if row.D != 66 || row.N != 131 {
		t.Errorf("Expected D=66 N=131, got D=%d N=%d", row.D, row.N)
	}
}

func TestComputeSampleSize_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{not json`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Invalid JSON" {
		t.Errorf("Expected error 'Invalid JSON', got %q", resp.Error)
	}
}

func TestComputeSampleSize_RejectsStringParameter(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":"2","psi":[0.5]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}

func TestComputeSampleSize_BodyTooLarge(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"theta":[2],"psi":[0.5],"pad":"` + strings.Repeat("x", maxRequestBodySize) + `"}`
	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Request body too large" {
		t.Errorf("Expected error 'Request body too large', got %q", resp.Error)
	}
}

func TestComputeSampleSize_MissingParameter(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":[2]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Error != "Invalid parameters" {
		t.Errorf("Expected error 'Invalid parameters', got %q", resp.Error)
	}
	if !strings.Contains(resp.Details, "psi") {
		t.Errorf("Expected details to name psi, got %q", resp.Details)
	}
}

func TestComputeSampleSize_DomainError(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":[2],"psi":[1.5]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Details, "psi") || !strings.Contains(resp.Details, "1.5") {
		t.Errorf("Expected details to name psi and 1.5, got %q", resp.Details)
	}
}

func TestComputeSampleSize_DegenerateTheta(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":[1],"psi":[0.5]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Details, "theta") {
		t.Errorf("Expected details to name theta, got %q", resp.Details)
	}
}

func TestComputeSampleSize_GridTooLarge(t *testing.T) {
	cfg := &config.Config{MaxGridRows: 3, GridWorkers: 1}
	c := cache.New(5 * time.Minute)
	h := NewHandler(cfg, c)

	body := `{"theta":[1.5,2],"psi":[0.4,0.5]}`
	w := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Details, "exceeding the limit of 3") {
		t.Errorf("Expected details to mention the limit, got %q", resp.Details)
	}
}

func TestComputeSampleSize_CachesResults(t *testing.T) {
	h, c := newTestHandler()

	body := `{"theta":[2],"psi":[0.5]}`

	w1 := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)
	if w1.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w1.Code)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cache entry after first request, got %d", c.Len())
	}

	w2 := postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", body)
	if w2.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w2.Code)
	}
	if c.Len() != 1 {
		t.Errorf("Expected cache hit to reuse the entry, got %d entries", c.Len())
	}

	var t1, t2 models.SizeTable
	if err := json.NewDecoder(w1.Body).Decode(&t1); err != nil {
		t.Fatalf("Failed to decode first response: %v", err)
	}
	if err := json.NewDecoder(w2.Body).Decode(&t2); err != nil {
		t.Fatalf("Failed to decode second response: %v", err)
	}
	if t1.Rows[0] != t2.Rows[0] {
		t.Errorf("Cached response differs: %+v vs %+v", t1.Rows[0], t2.Rows[0])
	}
}

func TestComputeSampleSize_CacheKeyNormalizesDefaults(t *testing.T) {
	h, c := newTestHandler()

	// Shorthand and fully spelled out requests describe the same grid
	postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize", `{"theta":2,"psi":0.5}`)
	postJSON(t, h.ComputeSampleSize, "/api/v1/samplesize",
		`{"power":[0.8],"theta":[2],"p":[0.5],"psi":[0.5],"rho2":[0],"alpha":[0.05]}`)

	if c.Len() != 1 {
		t.Errorf("Expected both requests to share one cache entry, got %d", c.Len())
	}
}

func TestComputePower_LatoucheDesign(t *testing.T) {
	h, _ := newTestHandler()

	body := `{"n":[139],"theta":[2],"p":[0.39],"psi":[0.505],"rho2":[0.017424]}`
	w := postJSON(t, h.ComputePower, "/api/v1/power", body)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var table models.PowerTable
	if err := json.NewDecoder(w.Body).Decode(&table); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}

	row := table.Rows[0]
	if row.Power <= 0.80 || row.Power >= 0.81 {
		t.Errorf("Expected power just above 0.80, got %v", row.Power)
	}
	if row.ExpectedEvents <= 70 || row.ExpectedEvents >= 71 {
		t.Errorf("Expected about 70.2 events, got %v", row.ExpectedEvents)
	}
}

func TestComputePower_MissingN(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputePower, "/api/v1/power", `{"theta":[2],"psi":[0.5]}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !strings.Contains(resp.Details, `"n"`) {
		t.Errorf("Expected details to name n, got %q", resp.Details)
	}
}

func TestComputePower_InvalidJSON(t *testing.T) {
	h, _ := newTestHandler()

	w := postJSON(t, h.ComputePower, "/api/v1/power", `not json at all`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}
}
