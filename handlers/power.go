// ABOUTME: HTTP handler for the achieved power endpoint
// ABOUTME: Computes the power candidate sample sizes deliver under the design assumptions

package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/somemela/powercalc/models"
)

// ComputePower evaluates achieved power over the posted parameter grid.
// Caching and request coalescing mirror the sample size endpoint.
// HTTP method validation handled by Go 1.22+ router pattern matching.
func (h *Handler) ComputePower(w http.ResponseWriter, r *http.Request) {
	// Limit request body size to prevent DOS attacks
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var params models.PowerParams
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
	key, err := cacheKey("power", params)
	if err != nil {
		h.writeError(w, "Failed to process request", http.StatusInternalServerError)
		return
	}

	if cached, found := h.cache.Get(key); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	result, err, shared := h.sfGroup.Do(key, func() (interface{}, error) {
		table, err := h.powerCalc.Calculate(ctx, params)
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
		slog.Debug("Coalesced duplicate power request", "key", key)
	}

	h.writeJSON(w, http.StatusOK, result)
}
