package leaderboard

import (
	"context"
	"fmt"
	"time"

	"fitness-league-go/internal/domain/league"
)

type Service struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, storageTimeout time.Duration) *Service {
	return &Service{
		repo:    repo,
		timeout: storageTimeout,
		now:     time.Now,
	}
}

// span is the resolved range of one leaderboard request.
type span struct {
	from      time.Time
	to        time.Time
	settledTo time.Time
	yesterday time.Time
	today     time.Time
}

// ComputeLeaderboard ranks members, teams and sub-teams over the requested
// range. Yesterday and today (league-local) are reported in the pending
// window and left out of the settled totals.
func (s *Service) ComputeLeaderboard(ctx context.Context, query Query) (*LeaderboardData, error) {
	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	now := s.now().UTC()
	var r span
	snapshot, err := s.repo.Snapshot(ctx, query.LeagueID, func(l league.League) (time.Time, time.Time, error) {
		var err error
		if r, err = resolveSpan(l, query, now); err != nil {
			return time.Time{}, time.Time{}, err
		}

		fetchFrom, fetchTo := r.from, r.to
		if r.yesterday.Before(fetchFrom) {
			fetchFrom = r.yesterday
		}
		if r.today.After(fetchTo) {
			fetchTo = r.today
		}
		return fetchFrom, fetchTo, nil
	})
	if err != nil {
		return nil, fmt.Errorf("load leaderboard snapshot: %w", err)
	}

	normalize := snapshot.League.NormalizePointsByTeamSize
	if query.Normalize != nil {
		normalize = *query.Normalize
	}

	individuals, teams, subTeams, pending := buildLeaderboard(snapshot, window{
		from:      r.from,
		settledTo: r.settledTo,
		pending:   []time.Time{r.yesterday, r.today},
		normalize: normalize,
	})

	return &LeaderboardData{
		LeagueID:      snapshot.League.ID,
		From:          league.FormatDate(r.from),
		To:            league.FormatDate(r.to),
		SettledTo:     league.FormatDate(r.settledTo),
		Normalized:    normalize,
		Individuals:   individuals,
		Teams:         teams,
		SubTeams:      subTeams,
		PendingWindow: pending,
	}, nil
}

func resolveSpan(l league.League, query Query, now time.Time) (span, error) {
	today := l.LocalToday(now)
	r := span{today: today, yesterday: today.AddDate(0, 0, -1)}

	r.from = league.DateOf(l.StartDate)
	if query.From != nil {
		r.from = league.DateOf(*query.From)
	}
	r.to = today
	if !l.EndDate.IsZero() && league.DateOf(l.EndDate).Before(r.to) {
		r.to = league.DateOf(l.EndDate)
	}
	if query.To != nil {
		r.to = league.DateOf(*query.To)
	}
	if r.to.Before(r.from) {
		return span{}, fmt.Errorf("%w: range end %s is before start %s", league.ErrInvalidInput, league.FormatDate(r.to), league.FormatDate(r.from))
	}

	r.settledTo = r.yesterday.AddDate(0, 0, -1)
	if r.to.Before(r.settledTo) {
		r.settledTo = r.to
	}
	return r, nil
}

// ComputeChallengeLeaderboard ranks approved submissions of one challenge.
// An empty leagueID skips the league scope check.
func (s *Service) ComputeChallengeLeaderboard(ctx context.Context, leagueID, challengeID string) ([]RankingRow, error) {
	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	snapshot, err := s.repo.ChallengeSnapshot(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if leagueID != "" && snapshot.Challenge.LeagueID != leagueID {
		return nil, league.ErrScopeMismatch
	}

	return rankChallenge(snapshot), nil
}
