package leaderboard

import (
	"time"

	"fitness-league-go/internal/domain/league"
)

// RankingRow is the generic ranked row used by challenge leaderboards.
type RankingRow struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
	Rank  int     `json:"rank"`
}

type IndividualRow struct {
	LeagueMemberID string  `json:"league_member_id"`
	UserID         string  `json:"user_id"`
	Username       string  `json:"username"`
	TeamID         *string `json:"team_id"`
	TeamName       string  `json:"team_name"`
	Points         float64 `json:"points"`
	Entries        int     `json:"entries"`
	AvgRR          float64 `json:"avg_rr"`
	Rank           int     `json:"rank"`
}

type TeamRow struct {
	TeamID         string  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	Points         float64 `json:"points"`
	ChallengeBonus float64 `json:"challenge_bonus"`
	TotalPoints    float64 `json:"total_points"`
	AvgRR          float64 `json:"avg_rr"`
	MemberCount    int     `json:"member_count"`
	Rank           int     `json:"rank"`
}

type SubTeamRow struct {
	SubTeamID   string  `json:"sub_team_id"`
	Name        string  `json:"name"`
	ChallengeID string  `json:"challenge_id"`
	TeamID      string  `json:"team_id"`
	TeamName    string  `json:"team_name"`
	Points      float64 `json:"points"`
	Rank        int     `json:"rank"`
}

type PendingDay struct {
	Date   string  `json:"date"`
	Points float64 `json:"points"`
}

type PendingTeamRow struct {
	TeamID       string       `json:"team_id"`
	TeamName     string       `json:"team_name"`
	Days         []PendingDay `json:"days"`
	LatestPoints float64      `json:"latest_points"`
	Rank         int          `json:"rank"`
}

// PendingWindow holds the two most recent league-local days, whose
// validations may still be in flight.
type PendingWindow struct {
	Dates []string         `json:"dates"`
	Teams []PendingTeamRow `json:"teams"`
}

type LeaderboardData struct {
	LeagueID      string          `json:"league_id"`
	From          string          `json:"from"`
	To            string          `json:"to"`
	SettledTo     string          `json:"settled_to"`
	Normalized    bool            `json:"normalized"`
	Individuals   []IndividualRow `json:"individuals"`
	Teams         []TeamRow       `json:"teams"`
	SubTeams      []SubTeamRow    `json:"sub_teams"`
	PendingWindow PendingWindow   `json:"pending_window"`
}

type Query struct {
	LeagueID string
	From     *time.Time
	To       *time.Time
	// Normalize overrides the league's team-size normalization flag.
	Normalize *bool
}

type MemberProfile struct {
	LeagueMemberID string
	UserID         string
	Username       string
	TeamID         *string
	Active         bool
}

// Snapshot is every row a leaderboard needs, read in one consistent
// transaction.
type Snapshot struct {
	League               league.League
	Members              []MemberProfile
	Teams                []league.Team
	SubTeams             []league.SubTeam
	Challenges           []league.Challenge
	Entries              []league.EffortEntry
	ChallengeSubmissions []league.ChallengeSubmission
}

type ChallengeSnapshot struct {
	Challenge   league.Challenge
	Submissions []league.ChallengeSubmission
	Members     []MemberProfile
	Teams       []league.Team
	SubTeams    []league.SubTeam
}
