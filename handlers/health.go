// ABOUTME: HTTP handler for the health endpoint
// ABOUTME: Reports service status and effective calculation limits

package handlers

import "net/http"

// Health returns API status, cache occupancy, and the effective limits
// so clients can see how large a grid they may request.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":        "ok",
		"cache_entries": h.cache.Len(),
	}

	if h.cfg != nil {
		resp["max_grid_rows"] = h.cfg.MaxGridRows
		resp["allow_degenerate_theta"] = h.cfg.AllowDegenerateTheta
	}

	h.writeJSON(w, http.StatusOK, resp)
}
