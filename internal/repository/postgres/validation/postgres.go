package validation

import (
	"context"

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

func (r *PostgresRepository) GetEntry(ctx context.Context, entryID string) (*league.EntryWithOwner, error) {
	return common.GetEntry(ctx, r.db, entryID)
}

func (r *PostgresRepository) HasReupload(ctx context.Context, entryID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&league.EffortEntry{}).
		Where("reupload_of = ?", entryID).
		Count(&count).Error; err != nil {
		return false, pgerr.Translate(err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetChallenge(ctx context.Context, challengeID string) (*league.Challenge, error) {
	return common.GetChallenge(ctx, r.db, challengeID)
}

func (r *PostgresRepository) GetChallengeSubmission(ctx context.Context, submissionID string) (*league.ChallengeSubmissionWithOwner, error) {
	return common.GetChallengeSubmission(ctx, r.db, submissionID)
}

// UpdateEntryStatus is a compare-and-swap on status: the UPDATE only
// matches while the row still holds change.From.
func (r *PostgresRepository) UpdateEntryStatus(ctx context.Context, change league.StatusChange) (*league.EffortEntry, error) {
	updates := baseUpdates(change)
	switch change.To {
	case league.StatusApproved:
		updates["rejection_reason"] = nil
	case league.StatusRejected:
		if change.RejectionReason != nil {
			updates["rejection_reason"] = *change.RejectionReason
		}
	}

	var updated []league.EffortEntry
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", change.ID, change.From).
		Updates(updates)
	if result.Error != nil {
		return nil, pgerr.Translate(result.Error)
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, r.missOrConflict(ctx, &league.EffortEntry{}, change.ID, league.ErrEntryNotFound)
	}
	return &updated[0], nil
}

func (r *PostgresRepository) UpdateChallengeSubmissionStatus(ctx context.Context, change league.StatusChange) (*league.ChallengeSubmission, error) {
	updates := baseUpdates(change)
	switch change.To {
	case league.StatusApproved:
		updates["rejection_reason"] = nil
		if change.AwardedPoints != nil {
			updates["awarded_points"] = *change.AwardedPoints
		}
	case league.StatusRejected:
		updates["awarded_points"] = nil
		if change.RejectionReason != nil {
			updates["rejection_reason"] = *change.RejectionReason
		}
	}

	var updated []league.ChallengeSubmission
	result := r.db.WithContext(ctx).
		Model(&updated).
		Clauses(clause.Returning{}).
		Where("id = ? AND status = ?", change.ID, change.From).
		Updates(updates)
	if result.Error != nil {
		return nil, pgerr.Translate(result.Error)
	}
	if result.RowsAffected == 0 || len(updated) == 0 {
		return nil, r.missOrConflict(ctx, &league.ChallengeSubmission{}, change.ID, league.ErrChallengeSubmissionNotFound)
	}
	return &updated[0], nil
}

func baseUpdates(change league.StatusChange) map[string]interface{} {
	return map[string]interface{}{
		"status":        change.To,
		"modified_by":   change.ModifiedBy,
		"modified_date": change.ModifiedAt,
	}
}

// missOrConflict tells a lost race apart from a vanished row.
func (r *PostgresRepository) missOrConflict(ctx context.Context, model interface{}, id string, notFound error) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return pgerr.Translate(err)
	}
	if count == 0 {
		return notFound
	}
	return league.ErrConflict
}
