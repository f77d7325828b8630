package handler

import (
	"net/http"

	"fitness-league-go/internal/domain/submission"
	"fitness-league-go/internal/domain/validation"
)

type submitChallengeRequest struct {
	ProofURL  string  `json:"proof_url"`
	SubTeamID *string `json:"sub_team_id"`
}

func (h *Handlers) SubmitChallenge(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req submitChallengeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	created, err := h.Submissions.SubmitChallenge(r.Context(), submission.SubmitChallengeInput{
		ActorUserID: user.ID,
		LeagueID:    pathParam(r, "league_id"),
		ChallengeID: pathParam(r, "challenge_id"),
		ProofURL:    req.ProofURL,
		SubTeamID:   req.SubTeamID,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, newChallengeSubmissionResponse(*created))
}

func (h *Handlers) ValidateChallengeSubmission(w http.ResponseWriter, r *http.Request) {
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

	updated, err := h.Validation.ValidateChallengeSubmission(r.Context(), validation.ValidateChallengeInput{
		ActorUserID:     user.ID,
		LeagueID:        pathParam(r, "league_id"),
		ChallengeID:     pathParam(r, "challenge_id"),
		SubmissionID:    pathParam(r, "submission_id"),
		Status:          status,
		RejectionReason: req.RejectionReason,
		AwardedPoints:   req.AwardedPoints,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, newChallengeSubmissionResponse(*updated))
}
