package restday

import (
	"context"
	"time"

	"fitness-league-go/internal/domain/league"
)

type Repository interface {
	// ListEligibleLeagues returns leagues with auto rest days enabled that
	// are launched or active.
	ListEligibleLeagues(ctx context.Context) ([]league.League, error)
	ListActiveMembers(ctx context.Context, leagueID string) ([]league.LeagueMember, error)
	HasEntryOn(ctx context.Context, leagueMemberID string, date time.Time) (bool, error)
	CountApprovedRestDays(ctx context.Context, leagueMemberID string) (int64, error)
	// InsertRestEntry returns league.ErrDuplicateEntry when the member
	// already has an entry for the date.
	InsertRestEntry(ctx context.Context, entry *league.EffortEntry) error
}
