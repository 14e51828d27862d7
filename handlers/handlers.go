// ABOUTME: HTTP handlers for the power calculator API endpoints
// ABOUTME: Wires calculators, result cache, and request coalescing together

package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/sync/singleflight"

	"github.com/somemela/powercalc/cache"
	"github.com/somemela/powercalc/config"
	"github.com/somemela/powercalc/models"
	"github.com/somemela/powercalc/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

// Handler carries the shared state for all API endpoints.
// Identical concurrent requests are coalesced through sfGroup so a popular
// grid is only computed once per cache window.
type Handler struct {
	cfg       *config.Config
	cache     *cache.Cache
	sizeCalc  *services.SizeCalculator
	powerCalc *services.PowerCalculator
	sfGroup   singleflight.Group
}

func NewHandler(cfg *config.Config, cache *cache.Cache) *Handler {
	h := &Handler{
		cfg:       cfg,
		cache:     cache,
		sizeCalc:  services.NewSizeCalculator(),
		powerCalc: services.NewPowerCalculator(),
	}

	// Config is optional (for testing)
	if cfg != nil {
		h.sizeCalc.AllowDegenerate = cfg.AllowDegenerateTheta
		h.sizeCalc.MaxRows = cfg.MaxGridRows
		h.sizeCalc.Workers = cfg.GridWorkers
		h.powerCalc.AllowDegenerate = cfg.AllowDegenerateTheta
		h.powerCalc.MaxRows = cfg.MaxGridRows
		h.powerCalc.Workers = cfg.GridWorkers
	}

	return h
}

// cacheKey builds a stable digest for a normalized parameter set. Defaults
// are applied before hashing, so {"theta":2,"psi":0.5} and the same request
// with explicit default values share one entry.
func cacheKey(prefix string, params interface{}) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return prefix + ":" + hex.EncodeToString(sum[:8]), nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// writeCalcError translates calculator errors into API responses.
// Validation failures carry their full message so the client learns which
// parameter and value were rejected; anything else is an internal error.
func (h *Handler) writeCalcError(w http.ResponseWriter, err error) {
	if services.IsValidationError(err) {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid parameters",
			Details: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	slog.Error("Calculation failed", "error", err)
	h.writeError(w, "Calculation failed", http.StatusInternalServerError)
}
