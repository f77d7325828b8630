package league

import (
	"context"

	domain "fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) FindMembership(ctx context.Context, userID, leagueID string) (*domain.LeagueMember, error) {
	var member domain.LeagueMember
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND league_id = ?", userID, leagueID).
		First(&member).Error; err != nil {
		return nil, pgerr.NotFound(err, domain.ErrNotAMember)
	}
	return &member, nil
}

// FindRoles plucks every role row; a user commonly holds several.
func (r *PostgresRepository) FindRoles(ctx context.Context, userID, leagueID string) ([]domain.Role, error) {
	var roles []domain.Role
	if err := r.db.WithContext(ctx).
		Model(&domain.RoleAssignment{}).
		Where("user_id = ? AND league_id = ?", userID, leagueID).
		Order("role").
		Pluck("role", &roles).Error; err != nil {
		return nil, pgerr.Translate(err)
	}
	return roles, nil
}
