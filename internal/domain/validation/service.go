package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitness-league-go/internal/domain/league"
)

type Service struct {
	repo    Repository
	members Members
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, members Members, storageTimeout time.Duration) *Service {
	return &Service{
		repo:    repo,
		members: members,
		timeout: storageTimeout,
		now:     time.Now,
	}
}

// ValidateEntry grades an effort entry. Hosts and governors may set any
// graded status at any time; a captain may only grade pending entries of
// their own team and never their own.
func (s *Service) ValidateEntry(ctx context.Context, input ValidateEntryInput) (*league.EffortEntry, error) {
	if !input.Status.Graded() {
		return nil, league.ErrInvalidStatus
	}

	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	entry, err := s.repo.GetEntry(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}
	if input.LeagueID != "" && entry.Owner.LeagueID != input.LeagueID {
		return nil, league.ErrEntryNotFound
	}

	if err := s.authorize(ctx, input.ActorUserID, entry.Owner, entry.Status); err != nil {
		return nil, err
	}

	// A reupload takes over the day; the entry it replaced stays as history.
	replaced, err := s.repo.HasReupload(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("check reupload: %w", err)
	}
	if replaced {
		return nil, league.ErrSuperseded
	}

	change := league.StatusChange{
		ID:         entry.ID,
		From:       entry.Status,
		To:         input.Status,
		ModifiedBy: input.ActorUserID,
		ModifiedAt: s.now().UTC(),
	}
	if input.Status == league.StatusRejected {
		change.RejectionReason = normalizeReason(input.RejectionReason)
	}

	updated, err := s.repo.UpdateEntryStatus(ctx, change)
	if err != nil {
		return nil, fmt.Errorf("update entry status: %w", err)
	}
	return updated, nil
}

// ValidateChallengeSubmission grades a challenge submission under the same
// rules as ValidateEntry. Approval awards the supplied points or the
// challenge default.
func (s *Service) ValidateChallengeSubmission(ctx context.Context, input ValidateChallengeInput) (*league.ChallengeSubmission, error) {
	if !input.Status.Graded() {
		return nil, league.ErrInvalidStatus
	}
	if input.AwardedPoints != nil && *input.AwardedPoints < 0 {
		return nil, fmt.Errorf("%w: awarded points must be non-negative", league.ErrInvalidInput)
	}

	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	submission, err := s.repo.GetChallengeSubmission(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}
	if input.ChallengeID != "" && submission.ChallengeID != input.ChallengeID {
		return nil, league.ErrScopeMismatch
	}

	challenge, err := s.repo.GetChallenge(ctx, submission.ChallengeID)
	if err != nil {
		return nil, err
	}
	if input.LeagueID != "" && challenge.LeagueID != input.LeagueID {
		return nil, league.ErrScopeMismatch
	}
	if submission.Owner.LeagueID != challenge.LeagueID {
		return nil, league.ErrScopeMismatch
	}

	if err := s.authorize(ctx, input.ActorUserID, submission.Owner, submission.Status); err != nil {
		return nil, err
	}

	change := league.StatusChange{
		ID:         submission.ID,
		From:       submission.Status,
		To:         input.Status,
		ModifiedBy: input.ActorUserID,
		ModifiedAt: s.now().UTC(),
	}
	switch input.Status {
	case league.StatusApproved:
		points := challenge.TotalPoints
		if input.AwardedPoints != nil {
			points = *input.AwardedPoints
		}
		change.AwardedPoints = &points
	case league.StatusRejected:
		change.RejectionReason = normalizeReason(input.RejectionReason)
	}

	updated, err := s.repo.UpdateChallengeSubmissionStatus(ctx, change)
	if err != nil {
		return nil, fmt.Errorf("update challenge submission status: %w", err)
	}
	return updated, nil
}

// authorize runs the permission, hierarchy and self-validation rules in
// that order. Team co-membership and the captain role are checked as two
// separate lookups: being on the team does not make the actor its captain.
func (s *Service) authorize(ctx context.Context, actorUserID string, owner league.Owner, current league.Status) error {
	roles, err := s.members.Roles(ctx, actorUserID, owner.LeagueID)
	if err != nil {
		return err
	}
	canOverride := roles.CanOverride()

	isCaptainOfTeam := false
	if !canOverride {
		sameTeam, err := s.sharesTeam(ctx, actorUserID, owner)
		if err != nil {
			return err
		}
		isCaptainOfTeam = sameTeam && roles.Has(league.RoleCaptain)
	}

	if !canOverride && !isCaptainOfTeam {
		return league.ErrPermissionDenied
	}
	if !canOverride && current != league.StatusPending {
		return league.ErrAlreadyGraded
	}
	if !canOverride && owner.UserID == actorUserID {
		return league.ErrSelfValidation
	}

	return nil
}

func (s *Service) sharesTeam(ctx context.Context, actorUserID string, owner league.Owner) (bool, error) {
	if owner.TeamID == nil {
		return false, nil
	}

	member, err := s.members.TeamOf(ctx, actorUserID, owner.LeagueID)
	if err != nil {
		if errors.Is(err, league.ErrNotAMember) {
			return false, nil
		}
		return false, err
	}

	return member.TeamID != nil && *member.TeamID == *owner.TeamID, nil
}

func normalizeReason(reason *string) *string {
	if reason == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*reason)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
