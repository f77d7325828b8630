package handler

import (
	"context"

	"fitness-league-go/internal/domain/leaderboard"
	"fitness-league-go/internal/domain/league"
	"fitness-league-go/internal/domain/restday"
	"fitness-league-go/internal/domain/submission"
	"fitness-league-go/internal/domain/validation"
	"fitness-league-go/pkg/logger"
)

type Membership interface {
	ResolveMembership(ctx context.Context, userID, leagueID string) (*league.Membership, error)
	Roles(ctx context.Context, userID, leagueID string) (league.RoleSet, error)
}

type Validator interface {
	ValidateEntry(ctx context.Context, input validation.ValidateEntryInput) (*league.EffortEntry, error)
	ValidateChallengeSubmission(ctx context.Context, input validation.ValidateChallengeInput) (*league.ChallengeSubmission, error)
}

type Leaderboards interface {
	ComputeLeaderboard(ctx context.Context, query leaderboard.Query) (*leaderboard.LeaderboardData, error)
	ComputeChallengeLeaderboard(ctx context.Context, leagueID, challengeID string) ([]leaderboard.RankingRow, error)
}

type Submissions interface {
	SubmitEntry(ctx context.Context, input submission.SubmitEntryInput) (*league.EffortEntry, error)
	ReuploadEntry(ctx context.Context, input submission.ReuploadEntryInput) (*league.EffortEntry, error)
	SubmitChallenge(ctx context.Context, input submission.SubmitChallengeInput) (*league.ChallengeSubmission, error)
	CreateProofUploadURL(ctx context.Context, input submission.ProofUploadInput) (*submission.ProofUpload, error)
}

type Backfill interface {
	Run(ctx context.Context) (restday.Result, error)
}

type Handlers struct {
	Members      Membership
	Validation   Validator
	Leaderboards Leaderboards
	Submissions  Submissions
	RestDays     Backfill
	log          logger.Logger
}

func New(members Membership, validator Validator, leaderboards Leaderboards, submissions Submissions, restDays Backfill, log logger.Logger) *Handlers {
	return &Handlers{
		Members:      members,
		Validation:   validator,
		Leaderboards: leaderboards,
		Submissions:  submissions,
		RestDays:     restDays,
		log:          log,
	}
}
