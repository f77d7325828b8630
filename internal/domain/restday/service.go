package restday

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/pkg/logger"
	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	log     logger.Logger
	timeout time.Duration
	now     func() time.Time
}

func NewService(repo Repository, log logger.Logger, storageTimeout time.Duration) *Service {
	return &Service{
		repo:    repo,
		log:     log,
		timeout: storageTimeout,
		now:     time.Now,
	}
}

// Run backfills yesterday's rest day for every member of every eligible
// league who submitted nothing and still has quota. It is safe to run
// repeatedly for the same day: existing entries are skipped and the
// (member, date) uniqueness constraint absorbs concurrent runs.
func (s *Service) Run(ctx context.Context) (Result, error) {
	now := s.now().UTC()
	var result Result

	listCtx, cancel := league.BoundContext(ctx, s.timeout)
	leagues, err := s.repo.ListEligibleLeagues(listCtx)
	cancel()
	if err != nil {
		return result, fmt.Errorf("list eligible leagues: %w", err)
	}

	for _, l := range leagues {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		result.Leagues++
		s.runLeague(ctx, l, now, &result)
	}

	s.log.Info("restday: backfill finished",
		"leagues", result.Leagues,
		"processed", result.Processed,
		"assigned", result.Assigned,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}

func (s *Service) runLeague(ctx context.Context, l league.League, now time.Time, result *Result) {
	log := s.log.With("league_id", l.ID)
	yesterday := l.LocalToday(now).AddDate(0, 0, -1)
	if !l.Contains(yesterday) {
		log.Debug("restday: league not running on date", "date", league.FormatDate(yesterday))
		return
	}

	listCtx, cancel := league.BoundContext(ctx, s.timeout)
	members, err := s.repo.ListActiveMembers(listCtx, l.ID)
	cancel()
	if err != nil {
		log.InternalError("restday: list members failed, skipping league", err)
		return
	}

	quota := l.RestDayQuota()
	for _, member := range members {
		result.Processed++

		assigned, err := s.backfillMember(ctx, member, yesterday, quota, now)
		switch {
		case err != nil:
			result.Failed++
			log.InternalError("restday: member backfill failed", err, "league_member_id", member.ID)
		case assigned:
			result.Assigned++
		default:
			result.Skipped++
		}
	}
}

func (s *Service) backfillMember(ctx context.Context, member league.LeagueMember, date time.Time, quota int, now time.Time) (bool, error) {
	ctx, cancel := league.BoundContext(ctx, s.timeout)
	defer cancel()

	exists, err := s.repo.HasEntryOn(ctx, member.ID, date)
	if err != nil {
		return false, fmt.Errorf("check entry: %w", err)
	}
	if exists {
		return false, nil
	}

	used, err := s.repo.CountApprovedRestDays(ctx, member.ID)
	if err != nil {
		return false, fmt.Errorf("count rest days: %w", err)
	}
	if int64(quota)-used <= 0 {
		return false, nil
	}

	note := league.AutoRestDayNote
	entry := league.EffortEntry{
		ID:             uuid.NewString(),
		LeagueMemberID: member.ID,
		Date:           date,
		Type:           league.EntryTypeRest,
		Status:         league.StatusApproved,
		RRValue:        league.RestDayRR,
		Notes:          &note,
		CreatedDate:    now,
		ModifiedDate:   now,
	}
	if err := s.repo.InsertRestEntry(ctx, &entry); err != nil {
		if errors.Is(err, league.ErrDuplicateEntry) {
			return false, nil
		}
		return false, fmt.Errorf("insert rest entry: %w", err)
	}

	return true, nil
}
