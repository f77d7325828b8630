package leaderboard

import (
	"context"
	"time"

	"fitness-league-go/internal/domain/league"
)

// Window picks the entry date range once the league row is read.
type Window func(l league.League) (from, to time.Time, err error)

type Repository interface {
	// Snapshot reads the league, then its roster, approved challenge
	// submissions and approved entries dated within the range window
	// returns, all in one transaction. Entries replaced by a reupload are
	// left out.
	Snapshot(ctx context.Context, leagueID string, window Window) (*Snapshot, error)
	ChallengeSnapshot(ctx context.Context, challengeID string) (*ChallengeSnapshot, error)
}
