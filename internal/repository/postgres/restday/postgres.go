package restday

import (
	"context"
	"time"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/repository/postgres/common"
	"fitness-league-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListEligibleLeagues(ctx context.Context) ([]league.League, error) {
	var leagues []league.League
	if err := r.db.WithContext(ctx).
		Where("auto_rest_day_enabled = ?", true).
		Where("status IN ?", []league.LeagueStatus{league.LeagueStatusLaunched, league.LeagueStatusActive}).
		Order("id").
		Find(&leagues).Error; err != nil {
		return nil, pgerr.Translate(err)
	}
	return leagues, nil
}

func (r *PostgresRepository) ListActiveMembers(ctx context.Context, leagueID string) ([]league.LeagueMember, error) {
	var members []league.LeagueMember
	if err := r.db.WithContext(ctx).
		Where("league_id = ? AND active = ?", leagueID, true).
		Order("id").
		Find(&members).Error; err != nil {
		return nil, pgerr.Translate(err)
	}
	return members, nil
}

func (r *PostgresRepository) HasEntryOn(ctx context.Context, leagueMemberID string, date time.Time) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&league.EffortEntry{}).
		Where("league_member_id = ? AND date = ?", leagueMemberID, common.Date(date)).
		Count(&count).Error; err != nil {
		return false, pgerr.Translate(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) CountApprovedRestDays(ctx context.Context, leagueMemberID string) (int64, error) {
	return common.CountApprovedRestDays(ctx, r.db, leagueMemberID)
}

// InsertRestEntry relies on the (league_member_id, date) unique index:
// a concurrent run's insert is dropped and reported as a duplicate.
func (r *PostgresRepository) InsertRestEntry(ctx context.Context, entry *league.EffortEntry) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(entry)
	if result.Error != nil {
		if pgerr.IsUniqueViolation(result.Error) {
			return league.ErrDuplicateEntry
		}
		return pgerr.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return league.ErrDuplicateEntry
	}
	return nil
}
