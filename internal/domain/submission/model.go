package submission

import (
	"time"

	"fitness-league-go/internal/domain/league"
)

type SubmitEntryInput struct {
	ActorUserID string
	LeagueID    string
	Date        time.Time
	Type        league.EntryType
	RRValue     float64
	ProofURL    string
	Notes       string
}

type ReuploadEntryInput struct {
	ActorUserID string
	LeagueID    string
	EntryID     string
	ProofURL    string
	RRValue     *float64
	Notes       string
}

type SubmitChallengeInput struct {
	ActorUserID string
	LeagueID    string
	ChallengeID string
	ProofURL    string
	SubTeamID   *string
}

type ProofUploadInput struct {
	ActorUserID string
	LeagueID    string
	ContentType string
}

type ProofUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}
