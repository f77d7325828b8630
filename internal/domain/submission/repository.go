package submission

import (
	"context"
	"time"

	"fitness-league-go/internal/domain/league"
)

type Repository interface {
	GetLeague(ctx context.Context, leagueID string) (*league.League, error)
	GetEntry(ctx context.Context, entryID string) (*league.EntryWithOwner, error)
	// CountRestDays counts rest entries still pending or already approved.
	CountRestDays(ctx context.Context, leagueMemberID string) (int64, error)
	// CreateEntry fails with league.ErrDuplicateEntry when the member already
	// has an entry for the day or the rejected entry was already reuploaded.
	CreateEntry(ctx context.Context, entry *league.EffortEntry) error
	GetChallenge(ctx context.Context, challengeID string) (*league.Challenge, error)
	GetSubTeam(ctx context.Context, subTeamID string) (*league.SubTeam, error)
	IsSubTeamMember(ctx context.Context, subTeamID, leagueMemberID string) (bool, error)
	// CreateChallengeSubmission fails with league.ErrDuplicateSubmission on
	// a second submission by the same member.
	CreateChallengeSubmission(ctx context.Context, submission *league.ChallengeSubmission) error
}

type Members interface {
	ResolveMembership(ctx context.Context, userID, leagueID string) (*league.Membership, error)
}

// ProofStore presigns direct uploads of proof images.
type ProofStore interface {
	PresignPut(ctx context.Context, key, contentType string) (url string, expiresAt time.Time, err error)
	PublicURL(key string) string
}
