package handler

import (
	"time"

	"fitness-league-go/internal/domain/league"
)

type entryResponse struct {
	ID              string           `json:"id"`
	LeagueMemberID  string           `json:"league_member_id"`
	Date            string           `json:"date"`
	Type            league.EntryType `json:"type"`
	Status          league.Status    `json:"status"`
	RRValue         float64          `json:"rr_value"`
	ProofURL        *string          `json:"proof_url"`
	RejectionReason *string          `json:"rejection_reason"`
	ReuploadOf      *string          `json:"reupload_of"`
	Notes           *string          `json:"notes"`
	CreatedDate     time.Time        `json:"created_date"`
	ModifiedDate    time.Time        `json:"modified_date"`
	ModifiedBy      *string          `json:"modified_by"`
}

func newEntryResponse(entry league.EffortEntry) entryResponse {
	return entryResponse{
		ID:              entry.ID,
		LeagueMemberID:  entry.LeagueMemberID,
		Date:            league.FormatDate(entry.Date),
		Type:            entry.Type,
		Status:          entry.Status,
		RRValue:         entry.RRValue,
		ProofURL:        entry.ProofURL,
		RejectionReason: entry.RejectionReason,
		ReuploadOf:      entry.ReuploadOf,
		Notes:           entry.Notes,
		CreatedDate:     entry.CreatedDate,
		ModifiedDate:    entry.ModifiedDate,
		ModifiedBy:      entry.ModifiedBy,
	}
}

type challengeSubmissionResponse struct {
	ID              string        `json:"id"`
	ChallengeID     string        `json:"league_challenge_id"`
	LeagueMemberID  string        `json:"league_member_id"`
	TeamID          *string       `json:"team_id"`
	SubTeamID       *string       `json:"sub_team_id"`
	Status          league.Status `json:"status"`
	AwardedPoints   *float64      `json:"awarded_points"`
	ProofURL        string        `json:"proof_url"`
	RejectionReason *string       `json:"rejection_reason"`
	CreatedDate     time.Time     `json:"created_date"`
	ModifiedDate    time.Time     `json:"modified_date"`
	ModifiedBy      *string       `json:"modified_by"`
}

func newChallengeSubmissionResponse(submission league.ChallengeSubmission) challengeSubmissionResponse {
	return challengeSubmissionResponse{
		ID:              submission.ID,
		ChallengeID:     submission.ChallengeID,
		LeagueMemberID:  submission.LeagueMemberID,
		TeamID:          submission.TeamID,
		SubTeamID:       submission.SubTeamID,
		Status:          submission.Status,
		AwardedPoints:   submission.AwardedPoints,
		ProofURL:        submission.ProofURL,
		RejectionReason: submission.RejectionReason,
		CreatedDate:     submission.CreatedDate,
		ModifiedDate:    submission.ModifiedDate,
		ModifiedBy:      submission.ModifiedBy,
	}
}
