package league

import "time"

type Role string

const (
	RoleHost     Role = "host"
	RoleGovernor Role = "governor"
	RoleCaptain  Role = "captain"
	RolePlayer   Role = "player"
)

func (r Role) Valid() bool {
	switch r {
	case RoleHost, RoleGovernor, RoleCaptain, RolePlayer:
		return true
	default:
		return false
	}
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Graded() bool {
	return s == StatusApproved || s == StatusRejected
}

type EntryType string

const (
	EntryTypeWorkout EntryType = "workout"
	EntryTypeRest    EntryType = "rest"
)

type ChallengeType string

const (
	ChallengeTypeIndividual ChallengeType = "individual"
	ChallengeTypeTeam       ChallengeType = "team"
	ChallengeTypeSubTeam    ChallengeType = "sub_team"
)

type ChallengeStatus string

const (
	ChallengeStatusActive ChallengeStatus = "active"
	ChallengeStatusClosed ChallengeStatus = "closed"
)

type LeagueStatus string

const (
	LeagueStatusDraft     LeagueStatus = "draft"
	LeagueStatusLaunched  LeagueStatus = "launched"
	LeagueStatusActive    LeagueStatus = "active"
	LeagueStatusCompleted LeagueStatus = "completed"
)

// AutoRestDayNote marks entries written by the rest-day backfill.
const AutoRestDayNote = "auto-assigned rest day"

// RestDayRR is the effort score credited for every rest day.
const RestDayRR = 1.0

type League struct {
	ID                        string       `gorm:"type:uuid;primaryKey"`
	Name                      string       `gorm:"not null"`
	Status                    LeagueStatus `gorm:"type:varchar(16);not null"`
	StartDate                 time.Time    `gorm:"type:date;not null"`
	EndDate                   time.Time    `gorm:"type:date;not null"`
	RestDaysPerWeek           int          `gorm:"not null;default:0"`
	AutoRestDayEnabled        bool         `gorm:"not null;default:false"`
	NormalizePointsByTeamSize bool         `gorm:"not null;default:false"`
	TimezoneOffsetMinutes     *int
	CreatedAt                 time.Time `gorm:"autoCreateTime"`
	UpdatedAt                 time.Time `gorm:"autoUpdateTime"`
}

type Team struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	LeagueID  string    `gorm:"type:uuid;index;not null"`
	Name      string    `gorm:"column:team_name;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type LeagueMember struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	UserID    string    `gorm:"type:uuid;not null"`
	LeagueID  string    `gorm:"type:uuid;not null"`
	TeamID    *string   `gorm:"type:uuid;index"`
	Active    bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type RoleAssignment struct {
	UserID   string `gorm:"type:uuid;primaryKey"`
	LeagueID string `gorm:"type:uuid;primaryKey"`
	Role     Role   `gorm:"type:varchar(16);primaryKey"`
}

type EffortEntry struct {
	ID              string    `gorm:"type:uuid;primaryKey"`
	LeagueMemberID  string    `gorm:"type:uuid;not null"`
	Date            time.Time `gorm:"type:date;not null"`
	Type            EntryType `gorm:"type:varchar(16);not null"`
	Status          Status    `gorm:"type:varchar(16);not null"`
	RRValue         float64   `gorm:"column:rr_value;type:numeric(6,2);not null"`
	ProofURL        *string
	RejectionReason *string
	ReuploadOf      *string `gorm:"type:uuid"`
	Notes           *string
	CreatedDate     time.Time `gorm:"not null"`
	ModifiedDate    time.Time `gorm:"not null"`
	ModifiedBy      *string   `gorm:"type:uuid"`
}

type Challenge struct {
	ID          string          `gorm:"type:uuid;primaryKey"`
	LeagueID    string          `gorm:"type:uuid;index;not null"`
	Name        string          `gorm:"not null"`
	Type        ChallengeType   `gorm:"column:challenge_type;type:varchar(16);not null"`
	TotalPoints float64         `gorm:"type:numeric(10,2);not null;default:0"`
	StartDate   time.Time       `gorm:"type:date;not null"`
	EndDate     time.Time       `gorm:"type:date;not null"`
	Status      ChallengeStatus `gorm:"type:varchar(16);not null"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (Challenge) TableName() string {
	return "league_challenges"
}

type SubTeam struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	TeamID      string    `gorm:"type:uuid;not null"`
	ChallengeID string    `gorm:"column:league_challenge_id;type:uuid;not null"`
	Name        string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

type SubTeamMember struct {
	SubTeamID      string `gorm:"type:uuid;primaryKey"`
	LeagueMemberID string `gorm:"type:uuid;primaryKey"`
}

type ChallengeSubmission struct {
	ID              string   `gorm:"type:uuid;primaryKey"`
	ChallengeID     string   `gorm:"column:league_challenge_id;type:uuid;not null"`
	LeagueMemberID  string   `gorm:"type:uuid;not null"`
	TeamID          *string  `gorm:"type:uuid"`
	SubTeamID       *string  `gorm:"type:uuid"`
	Status          Status   `gorm:"type:varchar(16);not null"`
	AwardedPoints   *float64 `gorm:"type:numeric(10,2)"`
	ProofURL        string   `gorm:"not null"`
	RejectionReason *string
	CreatedDate     time.Time `gorm:"not null"`
	ModifiedDate    time.Time `gorm:"not null"`
	ModifiedBy      *string   `gorm:"type:uuid"`
}

// Owner is the league membership a submission belongs to.
type Owner struct {
	LeagueMemberID string
	UserID         string
	LeagueID       string
	TeamID         *string
}

type EntryWithOwner struct {
	EffortEntry
	Owner Owner
}

type ChallengeSubmissionWithOwner struct {
	ChallengeSubmission
	Owner Owner
}

// StatusChange is a compare-and-swap status transition. The update only
// applies while the row still holds From.
type StatusChange struct {
	ID              string
	From            Status
	To              Status
	ModifiedBy      string
	ModifiedAt      time.Time
	RejectionReason *string
	AwardedPoints   *float64
}
