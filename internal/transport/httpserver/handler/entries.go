package handler

import (
	"net/http"
	"strings"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/domain/submission"
	"fitness-league-go/internal/domain/validation"
)

type submitEntryRequest struct {
	Date     string  `json:"date"`
	Type     string  `json:"type"`
	RRValue  float64 `json:"rr_value"`
	ProofURL string  `json:"proof_url"`
	Notes    string  `json:"notes"`
}

type reuploadEntryRequest struct {
	ProofURL string   `json:"proof_url"`
	RRValue  *float64 `json:"rr_value"`
	Notes    string   `json:"notes"`
}

type validateRequest struct {
	Status          string   `json:"status"`
	RejectionReason *string  `json:"rejection_reason"`
	AwardedPoints   *float64 `json:"awarded_points"`
}

func (h *Handlers) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req submitEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
		return
	}

	entry, err := h.Submissions.SubmitEntry(r.Context(), submission.SubmitEntryInput{
		ActorUserID: user.ID,
		LeagueID:    pathParam(r, "league_id"),
		Date:        date,
		Type:        league.EntryType(strings.ToLower(strings.TrimSpace(req.Type))),
		RRValue:     req.RRValue,
		ProofURL:    req.ProofURL,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newEntryResponse(*entry))
}

func (h *Handlers) ReuploadEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req reuploadEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	entry, err := h.Submissions.ReuploadEntry(r.Context(), submission.ReuploadEntryInput{
		ActorUserID: user.ID,
		LeagueID:    pathParam(r, "league_id"),
		EntryID:     pathParam(r, "entry_id"),
		ProofURL:    req.ProofURL,
		RRValue:     req.RRValue,
		Notes:       req.Notes,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newEntryResponse(*entry))
}

func (h *Handlers) ValidateEntry(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}
	status, err := parseStatus(req.Status)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
		return
	}
	if req.AwardedPoints != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "awarded_points only applies to challenge submissions")
		return
	}

	entry, err := h.Validation.ValidateEntry(r.Context(), validation.ValidateEntryInput{
		ActorUserID:     user.ID,
		LeagueID:        pathParam(r, "league_id"),
		EntryID:         pathParam(r, "entry_id"),
		Status:          status,
		RejectionReason: req.RejectionReason,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newEntryResponse(*entry))
}
