package league

import (
	"context"
	"fmt"
	"time"
)

type Membership struct {
	LeagueMemberID string
	UserID         string
	LeagueID       string
	TeamID         *string
	Active         bool
	Roles          RoleSet
}

func (m Membership) OnTeam(teamID *string) bool {
	return m.TeamID != nil && teamID != nil && *m.TeamID == *teamID
}

type Service struct {
	repo    MembershipRepository
	timeout time.Duration
}

func NewService(repo MembershipRepository, storageTimeout time.Duration) *Service {
	return &Service{repo: repo, timeout: storageTimeout}
}

// ResolveMembership loads the member row and the full role set for a user
// in a league. Role rows are always read as a set.
func (s *Service) ResolveMembership(ctx context.Context, userID, leagueID string) (*Membership, error) {
	ctx, cancel := BoundContext(ctx, s.timeout)
	defer cancel()

	member, err := s.repo.FindMembership(ctx, userID, leagueID)
	if err != nil {
		return nil, err
	}

	roles, err := s.repo.FindRoles(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}

	return &Membership{
		LeagueMemberID: member.ID,
		UserID:         member.UserID,
		LeagueID:       member.LeagueID,
		TeamID:         member.TeamID,
		Active:         member.Active,
		Roles:          NewRoleSet(roles...),
	}, nil
}

// Roles returns the role set without requiring a member row. Hosts and
// governors may administer a league they do not play in.
func (s *Service) Roles(ctx context.Context, userID, leagueID string) (RoleSet, error) {
	ctx, cancel := BoundContext(ctx, s.timeout)
	defer cancel()

	roles, err := s.repo.FindRoles(ctx, userID, leagueID)
	if err != nil {
		return nil, fmt.Errorf("find roles: %w", err)
	}
	return NewRoleSet(roles...), nil
}

// TeamOf returns the member row for the user without loading roles.
// It returns ErrNotAMember when the user is not in the league.
func (s *Service) TeamOf(ctx context.Context, userID, leagueID string) (*LeagueMember, error) {
	ctx, cancel := BoundContext(ctx, s.timeout)
	defer cancel()

	return s.repo.FindMembership(ctx, userID, leagueID)
}
