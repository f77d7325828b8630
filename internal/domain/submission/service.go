package submission

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fitness-league-go/internal/domain/league"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

var proofExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/heic": ".heic",
	"image/gif":  ".gif",
}

type Service struct {
	repo    Repository
	members Members
	proofs  ProofStore
	timeout time.Duration
	now     func() time.Time
}

// NewService builds the intake service. proofs may be nil, in which case
// presigned uploads are refused.
func NewService(repo Repository, members Members, proofs ProofStore, storageTimeout time.Duration) *Service {
	return &Service{
		repo:    repo,
		members: members,
		proofs:  proofs,
		timeout: storageTimeout,
		now:     time.Now,
	}
}

func (s *Service) SubmitEntry(ctx context.Context, input SubmitEntryInput) (*league.EffortEntry, error) {
	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	membership, l, err := s.participant(ctx, input.ActorUserID, input.LeagueID)
	if err != nil {
		return nil, err
	}

	date := league.DateOf(input.Date)
	if !l.Contains(date) {
		return nil, fmt.Errorf("%w: %s is outside the league", league.ErrInvalidInput, league.FormatDate(date))
	}
	if date.After(l.LocalToday(s.now())) {
		return nil, fmt.Errorf("%w: %s is in the future", league.ErrInvalidInput, league.FormatDate(date))
	}

	now := s.now().UTC()
	entry := league.EffortEntry{
		ID:             uuid.NewString(),
		LeagueMemberID: membership.LeagueMemberID,
		Date:           date,
		Type:           input.Type,
		Status:         league.StatusPending,
		Notes:          optional(input.Notes),
		CreatedDate:    now,
		ModifiedDate:   now,
	}

	switch input.Type {
	case league.EntryTypeWorkout:
		if err := checkWorkout(input.ProofURL, input.RRValue); err != nil {
			return nil, err
		}
		entry.RRValue = input.RRValue
		entry.ProofURL = optional(input.ProofURL)
	case league.EntryTypeRest:
		// Pending rest days hold quota too, so approving them all stays in bounds.
		used, err := s.repo.CountRestDays(ctx, membership.LeagueMemberID)
		if err != nil {
			return nil, fmt.Errorf("count rest days: %w", err)
		}
		if used >= int64(l.RestDayQuota()) {
			return nil, league.ErrRestQuotaExhausted
		}
		entry.RRValue = league.RestDayRR
		entry.ProofURL = optional(input.ProofURL)
	default:
		return nil, fmt.Errorf("%w: unknown entry type %q", league.ErrInvalidInput, input.Type)
	}

	if err := s.repo.CreateEntry(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReuploadEntry lets the owner of a rejected entry submit fresh proof. The
// new entry references the rejected one, which stays as history.
func (s *Service) ReuploadEntry(ctx context.Context, input ReuploadEntryInput) (*league.EffortEntry, error) {
	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	previous, err := s.repo.GetEntry(ctx, input.EntryID)
	if err != nil {
		return nil, err
	}
	if previous.Owner.LeagueID != input.LeagueID {
		return nil, league.ErrEntryNotFound
	}
	if previous.Owner.UserID != input.ActorUserID {
		return nil, league.ErrPermissionDenied
	}
	if previous.Status != league.StatusRejected {
		return nil, fmt.Errorf("%w: only rejected entries can be reuploaded", league.ErrInvalidStatus)
	}

	rr := previous.RRValue
	if previous.Type == league.EntryTypeWorkout {
		if input.RRValue != nil {
			rr = *input.RRValue
		}
		if err := checkWorkout(input.ProofURL, rr); err != nil {
			return nil, err
		}
	}

	notes := previous.Notes
	if input.Notes != "" {
		notes = optional(input.Notes)
	}

	now := s.now().UTC()
	previousID := previous.ID
	entry := league.EffortEntry{
		ID:             uuid.NewString(),
		LeagueMemberID: previous.LeagueMemberID,
		Date:           previous.Date,
		Type:           previous.Type,
		Status:         league.StatusPending,
		RRValue:        rr,
		ProofURL:       optional(input.ProofURL),
		ReuploadOf:     &previousID,
		Notes:          notes,
		CreatedDate:    now,
		ModifiedDate:   now,
	}
	if err := s.repo.CreateEntry(ctx, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// SubmitChallenge records a member's proof for a challenge. Submissions are
// refused once the challenge is closed or its end date has passed.
func (s *Service) SubmitChallenge(ctx context.Context, input SubmitChallengeInput) (*league.ChallengeSubmission, error) {
	if strings.TrimSpace(input.ProofURL) == "" {
		return nil, fmt.Errorf("%w: proof url is required", league.ErrInvalidInput)
	}

	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	membership, l, err := s.participant(ctx, input.ActorUserID, input.LeagueID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.repo.GetChallenge(ctx, input.ChallengeID)
	if err != nil {
		return nil, err
	}
	if challenge.LeagueID != l.ID {
		return nil, league.ErrScopeMismatch
	}

	today := l.LocalToday(s.now())
	if challenge.Status != league.ChallengeStatusActive ||
		today.Before(league.DateOf(challenge.StartDate)) ||
		today.After(league.DateOf(challenge.EndDate)) {
		return nil, league.ErrChallengeClosed
	}

	now := s.now().UTC()
	submission := league.ChallengeSubmission{
		ID:             uuid.NewString(),
		ChallengeID:    challenge.ID,
		LeagueMemberID: membership.LeagueMemberID,
		TeamID:         membership.TeamID,
		Status:         league.StatusPending,
		ProofURL:       strings.TrimSpace(input.ProofURL),
		CreatedDate:    now,
		ModifiedDate:   now,
	}

	switch challenge.Type {
	case league.ChallengeTypeTeam:
		if membership.TeamID == nil {
			return nil, fmt.Errorf("%w: team challenges need a team", league.ErrInvalidInput)
		}
	case league.ChallengeTypeSubTeam:
		if input.SubTeamID == nil || *input.SubTeamID == "" {
			return nil, fmt.Errorf("%w: sub team is required", league.ErrInvalidInput)
		}
		if err := s.checkSubTeam(ctx, *input.SubTeamID, challenge.ID, membership); err != nil {
			return nil, err
		}
		subTeamID := *input.SubTeamID
		submission.SubTeamID = &subTeamID
	}

	if err := s.repo.CreateChallengeSubmission(ctx, &submission); err != nil {
		return nil, err
	}
	return &submission, nil
}

// CreateProofUploadURL presigns a PUT for a proof image under
// proofs/<league-slug>/<member-id>/.
func (s *Service) CreateProofUploadURL(ctx context.Context, input ProofUploadInput) (*ProofUpload, error) {
	if s.proofs == nil {
		return nil, ErrUploadsDisabled
	}

	contentType := strings.ToLower(strings.TrimSpace(input.ContentType))
	ext, ok := proofExtensions[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported content type %q", league.ErrInvalidInput, input.ContentType)
	}

	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	membership, l, err := s.participant(ctx, input.ActorUserID, input.LeagueID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("proofs/%s/%s/%s%s", leagueSlug(l), membership.LeagueMemberID, uuid.NewString(), ext)
	url, expiresAt, err := s.proofs.PresignPut(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign proof upload: %w", err)
	}

	return &ProofUpload{
		Key:       key,
		UploadURL: url,
		PublicURL: s.proofs.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

// participant resolves an active playing member of a running league.
func (s *Service) participant(ctx context.Context, userID, leagueID string) (*league.Membership, *league.League, error) {
	membership, err := s.members.ResolveMembership(ctx, userID, leagueID)
	if err != nil {
		return nil, nil, err
	}
	if !membership.Active || !membership.Roles.Participates() {
		return nil, nil, league.ErrPermissionDenied
	}

	l, err := s.repo.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, nil, err
	}
	if l.Status != league.LeagueStatusActive && l.Status != league.LeagueStatusLaunched {
		return nil, nil, fmt.Errorf("%w: league is %s", league.ErrInvalidInput, l.Status)
	}

	return membership, l, nil
}

func (s *Service) checkSubTeam(ctx context.Context, subTeamID, challengeID string, membership *league.Membership) error {
	subTeam, err := s.repo.GetSubTeam(ctx, subTeamID)
	if err != nil {
		return err
	}
	if subTeam.ChallengeID != challengeID || !membership.OnTeam(&subTeam.TeamID) {
		return league.ErrScopeMismatch
	}

	onRoster, err := s.repo.IsSubTeamMember(ctx, subTeamID, membership.LeagueMemberID)
	if err != nil {
		return fmt.Errorf("check sub team roster: %w", err)
	}
	if !onRoster {
		return league.ErrPermissionDenied
	}
	return nil
}

func checkWorkout(proofURL string, rr float64) error {
	if strings.TrimSpace(proofURL) == "" {
		return fmt.Errorf("%w: workouts need proof", league.ErrInvalidInput)
	}
	if rr < 0 {
		return fmt.Errorf("%w: rr value must be non-negative", league.ErrInvalidInput)
	}
	return nil
}

func leagueSlug(l *league.League) string {
	if s := slug.Make(l.Name); s != "" {
		return s
	}
	return l.ID
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
