package league

import "context"

type MembershipRepository interface {
	// FindMembership returns ErrNotAMember when no row exists for the pair.
	FindMembership(ctx context.Context, userID, leagueID string) (*LeagueMember, error)
	// FindRoles returns every role row held by the user, possibly none.
	FindRoles(ctx context.Context, userID, leagueID string) ([]Role, error)
}
