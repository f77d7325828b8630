package submission

import (
	"context"

	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/repository/postgres/common"
	"fitness-league-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetLeague(ctx context.Context, leagueID string) (*league.League, error) {
	return common.GetLeague(ctx, r.db, leagueID)
}

func (r *PostgresRepository) GetEntry(ctx context.Context, entryID string) (*league.EntryWithOwner, error) {
	return common.GetEntry(ctx, r.db, entryID)
}

func (r *PostgresRepository) CountRestDays(ctx context.Context, leagueMemberID string) (int64, error) {
	return common.CountRestDays(ctx, r.db, leagueMemberID, league.StatusPending, league.StatusApproved)
}

func (r *PostgresRepository) CreateEntry(ctx context.Context, entry *league.EffortEntry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return league.ErrDuplicateEntry
		}
		return pgerr.Translate(err)
	}
	return nil
}

func (r *PostgresRepository) GetChallenge(ctx context.Context, challengeID string) (*league.Challenge, error) {
	return common.GetChallenge(ctx, r.db, challengeID)
}

func (r *PostgresRepository) GetSubTeam(ctx context.Context, subTeamID string) (*league.SubTeam, error) {
	var subTeam league.SubTeam
	if err := r.db.WithContext(ctx).Where("id = ?", subTeamID).First(&subTeam).Error; err != nil {
		return nil, pgerr.NotFound(err, league.ErrSubTeamNotFound)
	}
	return &subTeam, nil
}

func (r *PostgresRepository) IsSubTeamMember(ctx context.Context, subTeamID, leagueMemberID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&league.SubTeamMember{}).
		Where("sub_team_id = ? AND league_member_id = ?", subTeamID, leagueMemberID).
		Count(&count).Error; err != nil {
		return false, pgerr.Translate(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) CreateChallengeSubmission(ctx context.Context, submission *league.ChallengeSubmission) error {
	if err := r.db.WithContext(ctx).Create(submission).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return league.ErrDuplicateSubmission
		}
		return pgerr.Translate(err)
	}
	return nil
}
