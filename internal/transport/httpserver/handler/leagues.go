package handler

import (
	"context"
	"errors"
	"net/http"

	"fitness-league-go/internal/domain/leaderboard"
	"fitness-league-go/internal/domain/league"
)

type membershipResponse struct {
	LeagueMemberID string        `json:"league_member_id"`
	LeagueID       string        `json:"league_id"`
	TeamID         *string       `json:"team_id"`
	Active         bool          `json:"active"`
	Roles          []league.Role `json:"roles"`
}

func (h *Handlers) GetMembership(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}

	membership, err := h.Members.ResolveMembership(r.Context(), user.ID, pathParam(r, "league_id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, membershipResponse{
		LeagueMemberID: membership.LeagueMemberID,
		LeagueID:       membership.LeagueID,
		TeamID:         membership.TeamID,
		Active:         membership.Active,
		Roles:          membership.Roles.Slice(),
	})
}

func (h *Handlers) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	leagueID := pathParam(r, "league_id")

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_from", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_to", "to must be YYYY-MM-DD")
		return
	}
	normalize, err := parseBoolParam(query.Get("normalize"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_normalize", "normalize must be a boolean")
		return
	}

	if err := h.requireStanding(r.Context(), user.ID, leagueID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	data, err := h.Leaderboards.ComputeLeaderboard(r.Context(), leaderboard.Query{
		LeagueID:  leagueID,
		From:      from,
		To:        to,
		Normalize: normalize,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, data)
}

func (h *Handlers) GetChallengeLeaderboard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	leagueID := pathParam(r, "league_id")

	if err := h.requireStanding(r.Context(), user.ID, leagueID); err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	rows, err := h.Leaderboards.ComputeChallengeLeaderboard(r.Context(), leagueID, pathParam(r, "challenge_id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"items": rows})
}

// requireStanding admits members and league staff who do not play.
func (h *Handlers) requireStanding(ctx context.Context, userID, leagueID string) error {
	_, err := h.Members.ResolveMembership(ctx, userID, leagueID)
	if err == nil || !errors.Is(err, league.ErrNotAMember) {
		return err
	}

	roles, err := h.Members.Roles(ctx, userID, leagueID)
	if err != nil {
		return err
	}
	if len(roles) == 0 {
		return league.ErrNotAMember
	}
	return nil
}
