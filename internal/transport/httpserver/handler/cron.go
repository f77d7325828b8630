package handler

import "net/http"

// RunRestDays triggers the backfill by hand. It is safe to repeat.
func (h *Handlers) RunRestDays(w http.ResponseWriter, r *http.Request) {
	result, err := h.RestDays.Run(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
