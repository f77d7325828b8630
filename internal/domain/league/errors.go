package league

import (
	"errors"
	"fmt"
)

var (
	ErrNotAMember          = errors.New("not a league member")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrAlreadyGraded       = errors.New("submission already graded")
	ErrSelfValidation      = errors.New("cannot validate own submission")
	ErrScopeMismatch       = errors.New("challenge does not belong to league")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("submission status changed concurrently")
	ErrDuplicateSubmission = errors.New("challenge submission already exists")
	ErrDuplicateEntry      = errors.New("entry already exists for date")
	ErrStorageUnavailable  = errors.New("storage unavailable")

	ErrInvalidStatus      = errors.New("invalid target status")
	ErrInvalidInput       = errors.New("invalid input")
	ErrChallengeClosed    = errors.New("challenge is closed")
	ErrRestQuotaExhausted = errors.New("rest day quota exhausted")
	ErrSuperseded         = errors.New("entry superseded by a reupload")
)

var (
	ErrLeagueNotFound              = fmt.Errorf("league %w", ErrNotFound)
	ErrEntryNotFound               = fmt.Errorf("effort entry %w", ErrNotFound)
	ErrChallengeNotFound           = fmt.Errorf("challenge %w", ErrNotFound)
	ErrChallengeSubmissionNotFound = fmt.Errorf("challenge submission %w", ErrNotFound)
	ErrSubTeamNotFound             = fmt.Errorf("sub-team %w", ErrNotFound)
)
