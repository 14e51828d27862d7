// ABOUTME: HTTP handler for the sample size endpoint
// ABOUTME: Expands the parameter grid and returns required event and subject counts

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/somemela/powercalc/models"
)

// ComputeSampleSize evaluates the sample size formula over the posted
// parameter grid. Results are cached by parameter digest; identical
// concurrent requests share one computation.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) ComputeSampleSize(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent DOS attacks
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var params models.SizeParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	params = params.WithDefaults()
	key, err := cacheKey("size", params)
	if err != nil {
		h.writeError(w, "Failed to process request", http.StatusInternalServerError)
		return
	}

	if cached, found := h.cache.Get(key); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	// Coalesce identical concurrent requests. The computation is detached
	// from the request context: one caller disconnecting must not cancel
	// a result other waiters share.
	ctx := context.WithoutCancel(r.Context())
	result, err, shared := h.sfGroup.Do(key, func() (interface{}, error) {
		table, err := h.sizeCalc.Calculate(ctx, params)
		if err != nil {
			return nil, err
		}
		h.cache.Set(key, table)
		return table, nil
	})
	if err != nil {
		h.writeCalcError(w, err)
		return
	}
	if shared {
		slog.Debug("Coalesced duplicate sample size request", "key", key)
	}

	h.writeJSON(w, http.StatusOK, result)
}
