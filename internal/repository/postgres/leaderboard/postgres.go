package leaderboard

import (
	"context"
	"database/sql"

	domain "fitness-league-go/internal/domain/leaderboard"
	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/repository/postgres/common"
	"fitness-league-go/internal/repository/postgres/pgerr"
	"gorm.io/gorm"
)

// snapshotTx pins every read of one leaderboard to a single snapshot so a
// concurrent validation shows up in all aggregates or in none.
var snapshotTx = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Snapshot(ctx context.Context, leagueID string, window domain.Window) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		l, err := common.GetLeague(ctx, tx, leagueID)
		if err != nil {
			return err
		}
		snapshot.League = *l

		from, to, err := window(*l)
		if err != nil {
			return err
		}

		if snapshot.Members, err = listMembers(tx, leagueID); err != nil {
			return err
		}
		if snapshot.Teams, err = listTeams(tx, leagueID); err != nil {
			return err
		}
		if snapshot.SubTeams, err = listSubTeams(tx, leagueID); err != nil {
			return err
		}
		if err := tx.Where("league_id = ?", leagueID).Order("id").Find(&snapshot.Challenges).Error; err != nil {
			return err
		}

		if err := tx.
			Table("effort_entries AS e").
			Select("e.*").
			Joins("JOIN league_members lm ON lm.id = e.league_member_id").
			Where("lm.league_id = ? AND e.status = ?", leagueID, league.StatusApproved).
			Where("e.date BETWEEN ? AND ?", common.Date(from), common.Date(to)).
			Where("NOT EXISTS (SELECT 1 FROM effort_entries r WHERE r.reupload_of = e.id)").
			Order("e.date, e.id").
			Find(&snapshot.Entries).Error; err != nil {
			return err
		}

		return tx.
			Table("challenge_submissions AS s").
			Select("s.*").
			Joins("JOIN league_challenges c ON c.id = s.league_challenge_id").
			Where("c.league_id = ? AND s.status = ?", leagueID, league.StatusApproved).
			Order("s.id").
			Find(&snapshot.ChallengeSubmissions).Error
	}, snapshotTx)
	if err != nil {
		return nil, pgerr.Translate(err)
	}
	return &snapshot, nil
}

func (r *PostgresRepository) ChallengeSnapshot(ctx context.Context, challengeID string) (*domain.ChallengeSnapshot, error) {
	var snapshot domain.ChallengeSnapshot
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		challenge, err := common.GetChallenge(ctx, tx, challengeID)
		if err != nil {
			return err
		}
		snapshot.Challenge = *challenge

		if err := tx.
			Where("league_challenge_id = ? AND status = ?", challengeID, league.StatusApproved).
			Order("id").
			Find(&snapshot.Submissions).Error; err != nil {
			return err
		}

		switch challenge.Type {
		case league.ChallengeTypeIndividual:
			snapshot.Members, err = listMembers(tx, challenge.LeagueID)
		case league.ChallengeTypeTeam:
			snapshot.Teams, err = listTeams(tx, challenge.LeagueID)
		case league.ChallengeTypeSubTeam:
			err = tx.Where("league_challenge_id = ?", challengeID).Order("id").Find(&snapshot.SubTeams).Error
		}
		return err
	}, snapshotTx)
	if err != nil {
		return nil, pgerr.Translate(err)
	}
	return &snapshot, nil
}

func listMembers(tx *gorm.DB, leagueID string) ([]domain.MemberProfile, error) {
	var members []domain.MemberProfile
	err := tx.
		Table("league_members AS lm").
		Select("lm.id AS league_member_id, lm.user_id, COALESCE(p.username, '') AS username, lm.team_id, lm.active").
		Joins("LEFT JOIN user_profiles p ON p.user_id = lm.user_id").
		Where("lm.league_id = ?", leagueID).
		Order("lm.id").
		Scan(&members).Error
	return members, err
}

func listTeams(tx *gorm.DB, leagueID string) ([]league.Team, error) {
	var teams []league.Team
	err := tx.Where("league_id = ?", leagueID).Order("id").Find(&teams).Error
	return teams, err
}

func listSubTeams(tx *gorm.DB, leagueID string) ([]league.SubTeam, error) {
	var subTeams []league.SubTeam
	err := tx.
		Table("sub_teams AS st").
		Select("st.*").
		Joins("JOIN league_challenges c ON c.id = st.league_challenge_id").
		Where("c.league_id = ?", leagueID).
		Order("st.id").
		Find(&subTeams).Error
	return subTeams, err
}
