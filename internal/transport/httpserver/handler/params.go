package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/transport/httpserver/middleware"
	"github.com/go-chi/chi/v5"
)

func parseDateRequired(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	return league.ParseDate(value)
}

func parseDateParam(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := league.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseBoolParam(value string) (*bool, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseStatus(value string) (league.Status, error) {
	status := league.Status(strings.ToLower(strings.TrimSpace(value)))
	if !status.Graded() {
		return "", fmt.Errorf("status must be approved or rejected")
	}
	return status, nil
}

// requireUser writes 401 and returns false when no user is authenticated.
func requireUser(w http.ResponseWriter, r *http.Request) (middleware.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return middleware.User{}, false
	}
	return user, true
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
