package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/domain/submission"
	"fitness-league-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorMapping struct {
	target error
	status int
	code   string
}

// Order matters: specific not-found wrappers share ErrNotFound.
var errorMappings = []errorMapping{
	{league.ErrNotAMember, http.StatusForbidden, "not_a_member"},
	{league.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
	{league.ErrSelfValidation, http.StatusForbidden, "self_validation"},
	{league.ErrNotFound, http.StatusNotFound, "not_found"},
	{league.ErrAlreadyGraded, http.StatusConflict, "already_graded"},
	{league.ErrConflict, http.StatusConflict, "conflict"},
	{league.ErrDuplicateSubmission, http.StatusConflict, "duplicate_submission"},
	{league.ErrDuplicateEntry, http.StatusConflict, "duplicate_entry"},
	{league.ErrSuperseded, http.StatusConflict, "superseded"},
	{league.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{league.ErrInvalidStatus, http.StatusBadRequest, "invalid_status"},
	{league.ErrScopeMismatch, http.StatusUnprocessableEntity, "scope_mismatch"},
	{league.ErrChallengeClosed, http.StatusUnprocessableEntity, "challenge_closed"},
	{league.ErrRestQuotaExhausted, http.StatusUnprocessableEntity, "rest_quota_exhausted"},
	{league.ErrStorageUnavailable, http.StatusServiceUnavailable, "storage_unavailable"},
	{context.DeadlineExceeded, http.StatusServiceUnavailable, "storage_unavailable"},
	{submission.ErrUploadsDisabled, http.StatusServiceUnavailable, "uploads_disabled"},
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeDomainError maps err onto its HTTP status. Expected failures are
// logged as business errors, everything else as internal ones.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context(), h.log)

	for _, mapping := range errorMappings {
		if !errors.Is(err, mapping.target) {
			continue
		}
		if mapping.status >= http.StatusInternalServerError {
			log.InternalError("http: dependency unavailable", err, "path", r.URL.Path)
			writeError(w, mapping.status, mapping.code, mapping.target.Error())
			return
		}
		log.BusinessError("http: request refused", err, "path", r.URL.Path, "code", mapping.code)
		writeError(w, mapping.status, mapping.code, err.Error())
		return
	}

	log.InternalError("http: unexpected error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
