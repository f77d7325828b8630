package validation

import (
	"context"

	"fitness-league-go/internal/domain/league"
)

type Repository interface {
	GetEntry(ctx context.Context, entryID string) (*league.EntryWithOwner, error)
	// UpdateEntryStatus applies the change only while the row still holds
	// change.From and returns league.ErrConflict otherwise.
	UpdateEntryStatus(ctx context.Context, change league.StatusChange) (*league.EffortEntry, error)
	// HasReupload reports whether another entry was filed to replace entryID.
	HasReupload(ctx context.Context, entryID string) (bool, error)

	GetChallenge(ctx context.Context, challengeID string) (*league.Challenge, error)
	GetChallengeSubmission(ctx context.Context, submissionID string) (*league.ChallengeSubmissionWithOwner, error)
	UpdateChallengeSubmissionStatus(ctx context.Context, change league.StatusChange) (*league.ChallengeSubmission, error)
}

// Members resolves the acting user's standing in a league.
type Members interface {
	Roles(ctx context.Context, userID, leagueID string) (league.RoleSet, error)
	TeamOf(ctx context.Context, userID, leagueID string) (*league.LeagueMember, error)
}
