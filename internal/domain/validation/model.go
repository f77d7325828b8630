package validation

import "fitness-league-go/internal/domain/league"

type ValidateEntryInput struct {
	ActorUserID     string
	LeagueID        string
	EntryID         string
	Status          league.Status
	RejectionReason *string
}

type ValidateChallengeInput struct {
	ActorUserID     string
	LeagueID        string
	ChallengeID     string
	SubmissionID    string
	Status          league.Status
	RejectionReason *string
	AwardedPoints   *float64
}

