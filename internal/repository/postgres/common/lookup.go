// Package common holds queries several repositories share: owner joins
// and the league row.
package common

import (
	"context"
	"time"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type OwnerColumns struct {
	OwnerUserID   string  `gorm:"column:owner_user_id"`
	OwnerLeagueID string  `gorm:"column:owner_league_id"`
	OwnerTeamID   *string `gorm:"column:owner_team_id"`
}

func (o OwnerColumns) owner(leagueMemberID string) league.Owner {
	return league.Owner{
		LeagueMemberID: leagueMemberID,
		UserID:         o.OwnerUserID,
		LeagueID:       o.OwnerLeagueID,
		TeamID:         o.OwnerTeamID,
	}
}

type entryRow struct {
	league.EffortEntry
	OwnerColumns
}

type submissionRow struct {
	league.ChallengeSubmission
	OwnerColumns
}

const ownerSelect = "lm.user_id AS owner_user_id, lm.league_id AS owner_league_id, lm.team_id AS owner_team_id"

func GetLeague(ctx context.Context, db *gorm.DB, leagueID string) (*league.League, error) {
	var l league.League
	if err := db.WithContext(ctx).Where("id = ?", leagueID).First(&l).Error; err != nil {
		return nil, pgerr.NotFound(err, league.ErrLeagueNotFound)
	}
	return &l, nil
}

func GetEntry(ctx context.Context, db *gorm.DB, entryID string) (*league.EntryWithOwner, error) {
	var row entryRow
	err := db.WithContext(ctx).
		Table("effort_entries AS e").
		Select("e.*, "+ownerSelect).
		Joins("JOIN league_members lm ON lm.id = e.league_member_id").
		Where("e.id = ?", entryID).
		Take(&row).Error
	if err != nil {
		return nil, pgerr.NotFound(err, league.ErrEntryNotFound)
	}
	return &league.EntryWithOwner{
		EffortEntry: row.EffortEntry,
		Owner:       row.owner(row.LeagueMemberID),
	}, nil
}

func GetChallenge(ctx context.Context, db *gorm.DB, challengeID string) (*league.Challenge, error) {
	var challenge league.Challenge
	if err := db.WithContext(ctx).Where("id = ?", challengeID).First(&challenge).Error; err != nil {
		return nil, pgerr.NotFound(err, league.ErrChallengeNotFound)
	}
	return &challenge, nil
}

func GetChallengeSubmission(ctx context.Context, db *gorm.DB, submissionID string) (*league.ChallengeSubmissionWithOwner, error) {
	var row submissionRow
	err := db.WithContext(ctx).
		Table("challenge_submissions AS s").
		Select("s.*, "+ownerSelect).
		Joins("JOIN league_members lm ON lm.id = s.league_member_id").
		Where("s.id = ?", submissionID).
		Take(&row).Error
	if err != nil {
		return nil, pgerr.NotFound(err, league.ErrChallengeSubmissionNotFound)
	}
	return &league.ChallengeSubmissionWithOwner{
		ChallengeSubmission: row.ChallengeSubmission,
		Owner:               row.owner(row.LeagueMemberID),
	}, nil
}

func CountApprovedRestDays(ctx context.Context, db *gorm.DB, leagueMemberID string) (int64, error) {
	return CountRestDays(ctx, db, leagueMemberID, league.StatusApproved)
}

// CountRestDays counts the member's rest entries in any of statuses.
func CountRestDays(ctx context.Context, db *gorm.DB, leagueMemberID string, statuses ...league.Status) (int64, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&league.EffortEntry{}).
		Where("league_member_id = ? AND type = ? AND status IN ?", leagueMemberID, league.EntryTypeRest, statuses).
		Count(&count).Error
	if err != nil {
		return 0, pgerr.Translate(err)
	}
	return count, nil
}

// Date renders a calendar day for comparison against DATE columns.
func Date(day time.Time) string {
	return league.FormatDate(league.DateOf(day))
}
