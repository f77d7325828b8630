//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"fitness-league-go/internal/config"
	"fitness-league-go/internal/db"
	leaderboarddomain "fitness-league-go/internal/domain/leaderboard"
	leaguedomain "fitness-league-go/internal/domain/league"
	restdaydomain "fitness-league-go/internal/domain/restday"
	submissiondomain "fitness-league-go/internal/domain/submission"
	userdomain "fitness-league-go/internal/domain/user"
	validationdomain "fitness-league-go/internal/domain/validation"
	leaderboardrepo "fitness-league-go/internal/repository/postgres/leaderboard"
	leaguerepo "fitness-league-go/internal/repository/postgres/league"
	restdayrepo "fitness-league-go/internal/repository/postgres/restday"
	submissionrepo "fitness-league-go/internal/repository/postgres/submission"
	userrepo "fitness-league-go/internal/repository/postgres/user"
	validationrepo "fitness-league-go/internal/repository/postgres/validation"
	"fitness-league-go/internal/transport/httpserver"
	"fitness-league-go/internal/transport/httpserver/handler"
	"fitness-league-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	leagueID    = "0a000000-0000-0000-0000-000000000001"
	teamID      = "0b000000-0000-0000-0000-000000000001"
	playerUser  = "11111111-1111-1111-1111-111111111111"
	captainUser = "22222222-2222-2222-2222-222222222222"
	playerID    = "0c000000-0000-0000-0000-000000000001"
	captainID   = "0c000000-0000-0000-0000-000000000002"
	cronSecret  = "cron-secret"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
	today      time.Time
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	log := logger.Nop()
	authServer := newAuthServer(t)

	cfg := config.Config{
		StorageTimeout: 5 * time.Second,
		DB:             config.DBConfig{DSN: dsn},
		Supabase: config.SupabaseConfig{
			URL:            authServer.URL,
			PublishableKey: "test-key",
			AuthTimeout:    2 * time.Second,
		},
		RestDay: config.RestDayConfig{CronSecret: cronSecret},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	require.NoError(t, err, "db connect")
	require.NoError(t, db.Migrate(dbConn, log), "migrate")
	require.NoError(t, cleanDB(dbConn), "clean db")

	today := leaguedomain.DateOf(time.Now().UTC())
	require.NoError(t, seedLeague(dbConn, today), "seed")

	members := leaguedomain.NewService(leaguerepo.NewPostgres(dbConn), cfg.StorageTimeout)
	handlers := handler.New(
		members,
		validationdomain.NewService(validationrepo.NewPostgres(dbConn), members, cfg.StorageTimeout),
		leaderboarddomain.NewService(leaderboardrepo.NewPostgres(dbConn), cfg.StorageTimeout),
		submissiondomain.NewService(submissionrepo.NewPostgres(dbConn), members, nil, cfg.StorageTimeout),
		restdaydomain.NewService(restdayrepo.NewPostgres(dbConn), log, cfg.StorageTimeout),
		log,
	)
	profiles := userdomain.NewService(userrepo.NewPostgres(dbConn))

	router := httpserver.NewRouter(cfg, handlers, profiles, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn, today: today}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

func (e *testEnv) day(offset int) string {
	return leaguedomain.FormatDate(e.today.AddDate(0, 0, offset))
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("apikey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
		if token == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    token,
			"email": token + "@example.com",
			"user_metadata": map[string]interface{}{
				"name": "User " + token[:4],
			},
		})
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE challenge_submissions, sub_team_members, sub_teams, league_challenges, effort_entries, role_assignments, league_members, teams, leagues, user_profiles CASCADE",
	).Error
}

func seedLeague(dbConn *gorm.DB, today time.Time) error {
	start := today.AddDate(0, 0, -20)
	end := today.AddDate(0, 0, 20)

	return dbConn.Transaction(func(tx *gorm.DB) error {
		statements := []struct {
			sql  string
			args []interface{}
		}{
			{`INSERT INTO leagues (id, name, status, start_date, end_date, rest_days_per_week, auto_rest_day_enabled) VALUES (?, 'Spring League', 'active', ?, ?, 1, TRUE)`,
				[]interface{}{leagueID, start, end}},
			{`INSERT INTO teams (id, league_id, team_name) VALUES (?, ?, 'Alpha')`, []interface{}{teamID, leagueID}},
			{`INSERT INTO league_members (id, user_id, league_id, team_id) VALUES (?, ?, ?, ?), (?, ?, ?, ?)`,
				[]interface{}{playerID, playerUser, leagueID, teamID, captainID, captainUser, leagueID, teamID}},
			{`INSERT INTO role_assignments (user_id, league_id, role) VALUES (?, ?, 'player'), (?, ?, 'captain')`,
				[]interface{}{playerUser, leagueID, captainUser, leagueID}},
		}
		for _, stmt := range statements {
			if err := tx.Exec(stmt.sql, stmt.args...).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func requestJSON(t *testing.T, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, respBody
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type entryResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope.Error.Code
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := requestJSON(t, http.MethodGet, env.server.URL+"/api/health", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/auth/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))
	assert.Equal(t, "invalid_token", errorCode(t, body))

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/leagues/"+leagueID+"/membership", playerUser, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Contains(t, string(body), playerID)

	resp, body = requestJSON(t, http.MethodGet, env.server.URL+"/api/leagues/"+leagueID+"/membership", "33333333-3333-3333-3333-333333333333", nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
	assert.Equal(t, "not_a_member", errorCode(t, body))
}

func TestE2ESubmitValidateAndRank(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	base := env.server.URL + "/api/leagues/" + leagueID

	resp, body := requestJSON(t, http.MethodPost, base+"/entries", playerUser, map[string]interface{}{
		"date":      env.day(-5),
		"type":      "workout",
		"rr_value":  1.5,
		"proof_url": "https://example.com/proof.jpg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	var entry entryResponse
	require.NoError(t, json.Unmarshal(body, &entry))
	assert.Equal(t, "pending", entry.Status)

	resp, body = requestJSON(t, http.MethodPost, base+"/entries", playerUser, map[string]interface{}{
		"date":      env.day(-5),
		"type":      "workout",
		"rr_value":  1.2,
		"proof_url": "https://example.com/proof2.jpg",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	assert.Equal(t, "duplicate_entry", errorCode(t, body))

	resp, body = requestJSON(t, http.MethodPost, base+"/entries/"+entry.ID+"/validate", playerUser, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode, string(body))
	assert.Equal(t, "self_validation", errorCode(t, body))

	resp, body = requestJSON(t, http.MethodPost, base+"/entries/"+entry.ID+"/validate", captainUser, map[string]string{"status": "approved"})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = requestJSON(t, http.MethodPost, base+"/entries/"+entry.ID+"/validate", captainUser, map[string]string{"status": "rejected"})
	require.Equal(t, http.StatusConflict, resp.StatusCode, string(body))
	assert.Equal(t, "already_graded", errorCode(t, body))

	resp, body = requestJSON(t, http.MethodGet, base+"/leaderboard", captainUser, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var board leaderboarddomain.LeaderboardData
	require.NoError(t, json.Unmarshal(body, &board))
	require.Len(t, board.Teams, 1)
	assert.Equal(t, "Alpha", board.Teams[0].TeamName)
	assert.InDelta(t, 1.5, board.Teams[0].Points, 1e-9)
	require.Len(t, board.Individuals, 2)
	assert.Equal(t, playerID, board.Individuals[0].LeagueMemberID)
	assert.Equal(t, 1, board.Individuals[0].Rank)
}

func TestE2ERestDayBackfill(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	resp, body := requestJSON(t, http.MethodPost, env.server.URL+"/api/cron/rest-days", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, string(body))

	resp, body = requestJSON(t, http.MethodPost, env.server.URL+"/api/cron/rest-days", cronSecret, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var rows int64
	require.NoError(t, env.db.Table("effort_entries").
		Where("date = ? AND type = 'rest' AND status = 'approved'", env.day(-1)).
		Count(&rows).Error)
	assert.Equal(t, int64(2), rows)

	resp, body = requestJSON(t, http.MethodPost, env.server.URL+"/api/cron/rest-days", cronSecret, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.NoError(t, env.db.Table("effort_entries").Where("type = 'rest'").Count(&rows).Error)
	assert.Equal(t, int64(2), rows)
}
