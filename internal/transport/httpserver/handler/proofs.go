package handler

import (
	"net/http"

	"fitness-league-go/internal/domain/submission"
)

type proofUploadRequest struct {
	ContentType string `json:"content_type"`
}

func (h *Handlers) CreateProofUploadURL(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req proofUploadRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	upload, err := h.Submissions.CreateProofUploadURL(r.Context(), submission.ProofUploadInput{
		ActorUserID: user.ID,
		LeagueID:    pathParam(r, "league_id"),
		ContentType: req.ContentType,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, upload)
}
