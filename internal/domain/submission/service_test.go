package submission

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"fitness-league-go/internal/domain/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMembers struct {
	memberships map[string]*league.Membership
}

func (f *fakeMembers) ResolveMembership(ctx context.Context, userID, leagueID string) (*league.Membership, error) {
	membership, ok := f.memberships[userID+"/"+leagueID]
	if !ok {
		return nil, league.ErrNotAMember
	}
	return membership, nil
}

type fakeSubmissionRepo struct {
	leagues     map[string]*league.League
	entries     map[string]*league.EntryWithOwner
	challenges  map[string]*league.Challenge
	subTeams    map[string]*league.SubTeam
	rosters     map[string][]string
	restDays    map[string]int64
	created     []league.EffortEntry
	submissions []league.ChallengeSubmission
}

func (r *fakeSubmissionRepo) GetLeague(ctx context.Context, leagueID string) (*league.League, error) {
	l, ok := r.leagues[leagueID]
	if !ok {
		return nil, league.ErrLeagueNotFound
	}
	return l, nil
}

func (r *fakeSubmissionRepo) GetEntry(ctx context.Context, entryID string) (*league.EntryWithOwner, error) {
	entry, ok := r.entries[entryID]
	if !ok {
		return nil, league.ErrEntryNotFound
	}
	return entry, nil
}

func (r *fakeSubmissionRepo) CountRestDays(ctx context.Context, leagueMemberID string) (int64, error) {
	count := r.restDays[leagueMemberID]
	for _, entry := range r.created {
		if entry.LeagueMemberID == leagueMemberID && entry.Type == league.EntryTypeRest && entry.Status != league.StatusRejected {
			count++
		}
	}
	return count, nil
}

func (r *fakeSubmissionRepo) CreateEntry(ctx context.Context, entry *league.EffortEntry) error {
	for _, existing := range r.created {
		if entry.ReuploadOf != nil {
			if existing.ReuploadOf != nil && *existing.ReuploadOf == *entry.ReuploadOf {
				return league.ErrDuplicateEntry
			}
			continue
		}
		if existing.ReuploadOf == nil && existing.LeagueMemberID == entry.LeagueMemberID && existing.Date.Equal(entry.Date) {
			return league.ErrDuplicateEntry
		}
	}
	r.created = append(r.created, *entry)
	return nil
}

func (r *fakeSubmissionRepo) GetChallenge(ctx context.Context, challengeID string) (*league.Challenge, error) {
	challenge, ok := r.challenges[challengeID]
	if !ok {
		return nil, league.ErrChallengeNotFound
	}
	return challenge, nil
}

func (r *fakeSubmissionRepo) GetSubTeam(ctx context.Context, subTeamID string) (*league.SubTeam, error) {
	subTeam, ok := r.subTeams[subTeamID]
	if !ok {
		return nil, league.ErrSubTeamNotFound
	}
	return subTeam, nil
}

func (r *fakeSubmissionRepo) IsSubTeamMember(ctx context.Context, subTeamID, leagueMemberID string) (bool, error) {
	for _, id := range r.rosters[subTeamID] {
		if id == leagueMemberID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeSubmissionRepo) CreateChallengeSubmission(ctx context.Context, submission *league.ChallengeSubmission) error {
	for _, existing := range r.submissions {
		if existing.ChallengeID == submission.ChallengeID && existing.LeagueMemberID == submission.LeagueMemberID {
			return league.ErrDuplicateSubmission
		}
	}
	r.submissions = append(r.submissions, *submission)
	return nil
}

type fakeProofStore struct {
	keys []string
	err  error
}

func (f *fakeProofStore) PresignPut(ctx context.Context, key, contentType string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.keys = append(f.keys, key)
	return "https://upload.example.com/" + key + "?sig=1", time.Date(2026, 3, 10, 12, 15, 0, 0, time.UTC), nil
}

func (f *fakeProofStore) PublicURL(key string) string {
	return "https://cdn.example.com/" + key
}

func ptr[T any](v T) *T {
	return &v
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := league.ParseDate(value)
	require.NoError(t, err)
	return parsed
}

type fixture struct {
	repo    *fakeSubmissionRepo
	members *fakeMembers
	proofs  *fakeProofStore
	svc     *Service
}

func newFixture(t *testing.T) *fixture {
	repo := &fakeSubmissionRepo{
		leagues: map[string]*league.League{
			"league-1": {
				ID:              "league-1",
				Name:            "Spring Step Challenge",
				Status:          league.LeagueStatusActive,
				StartDate:       day(t, "2026-03-02"),
				EndDate:         day(t, "2026-03-15"),
				RestDaysPerWeek: 1,
			},
		},
		entries: map[string]*league.EntryWithOwner{},
		challenges: map[string]*league.Challenge{
			"ch-team": {ID: "ch-team", LeagueID: "league-1", Type: league.ChallengeTypeTeam, Status: league.ChallengeStatusActive, StartDate: day(t, "2026-03-05"), EndDate: day(t, "2026-03-12")},
			"ch-sub":  {ID: "ch-sub", LeagueID: "league-1", Type: league.ChallengeTypeSubTeam, Status: league.ChallengeStatusActive, StartDate: day(t, "2026-03-05"), EndDate: day(t, "2026-03-12")},
			"ch-done": {ID: "ch-done", LeagueID: "league-1", Type: league.ChallengeTypeIndividual, Status: league.ChallengeStatusActive, StartDate: day(t, "2026-03-02"), EndDate: day(t, "2026-03-09")},
			"ch-away": {ID: "ch-away", LeagueID: "league-2", Type: league.ChallengeTypeIndividual, Status: league.ChallengeStatusActive, StartDate: day(t, "2026-03-02"), EndDate: day(t, "2026-03-15")},
		},
		subTeams: map[string]*league.SubTeam{
			"st-a": {ID: "st-a", TeamID: "team-a", ChallengeID: "ch-sub", Name: "Alpha runners"},
			"st-b": {ID: "st-b", TeamID: "team-b", ChallengeID: "ch-sub", Name: "Bravo runners"},
		},
		rosters:  map[string][]string{"st-a": {"lm-player"}},
		restDays: map[string]int64{},
	}
	members := &fakeMembers{memberships: map[string]*league.Membership{
		"player/league-1": {
			LeagueMemberID: "lm-player", UserID: "player", LeagueID: "league-1",
			TeamID: ptr("team-a"), Active: true, Roles: league.NewRoleSet(league.RolePlayer),
		},
		"solo/league-1": {
			LeagueMemberID: "lm-solo", UserID: "solo", LeagueID: "league-1",
			Active: true, Roles: league.NewRoleSet(league.RolePlayer),
		},
		"host/league-1": {
			LeagueMemberID: "lm-host", UserID: "host", LeagueID: "league-1",
			Active: true, Roles: league.NewRoleSet(league.RoleHost),
		},
	}}
	proofs := &fakeProofStore{}

	svc := NewService(repo, members, proofs, time.Second)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC) }

	return &fixture{repo: repo, members: members, proofs: proofs, svc: svc}
}

func TestSubmitEntryCreatesPendingWorkout(t *testing.T) {
	f := newFixture(t)

	entry, err := f.svc.SubmitEntry(context.Background(), SubmitEntryInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		Date:        day(t, "2026-03-09"),
		Type:        league.EntryTypeWorkout,
		RRValue:     1.4,
		ProofURL:    "https://cdn.example.com/proof.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, league.StatusPending, entry.Status)
	assert.Equal(t, "lm-player", entry.LeagueMemberID)
	assert.Equal(t, 1.4, entry.RRValue)
	assert.Nil(t, entry.ReuploadOf)
	require.Len(t, f.repo.created, 1)
}

func TestSubmitEntryValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   SubmitEntryInput
		wantErr error
	}{
		{
			name:    "not a member",
			input:   SubmitEntryInput{ActorUserID: "stranger", LeagueID: "league-1", Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeRest},
			wantErr: league.ErrNotAMember,
		},
		{
			name:    "host without player role",
			input:   SubmitEntryInput{ActorUserID: "host", LeagueID: "league-1", Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeRest},
			wantErr: league.ErrPermissionDenied,
		},
		{
			name:    "future date",
			input:   SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeRest},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "before league start",
			input:   SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeRest},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "workout without proof",
			input:   SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeWorkout, RRValue: 1},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "negative rr",
			input:   SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Type: league.EntryTypeWorkout, RRValue: -1, ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "unknown type",
			input:   SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), Type: "nap"},
			wantErr: league.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.SubmitEntry(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.created)
		})
	}
}

func TestSubmitEntryRestDayQuota(t *testing.T) {
	f := newFixture(t)
	input := SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Date: day(t, "2026-03-09"), Type: league.EntryTypeRest}

	f.repo.restDays["lm-player"] = 1
	entry, err := f.svc.SubmitEntry(context.Background(), input)
	require.NoError(t, err)
	assert.Equal(t, league.RestDayRR, entry.RRValue)

	f.repo.restDays["lm-player"] = 2
	input.Date = day(t, "2026-03-08")
	_, err = f.svc.SubmitEntry(context.Background(), input)
	require.ErrorIs(t, err, league.ErrRestQuotaExhausted)
}

func TestSubmitEntryPendingRestDaysHoldQuota(t *testing.T) {
	f := newFixture(t)
	input := SubmitEntryInput{ActorUserID: "player", LeagueID: "league-1", Type: league.EntryTypeRest}

	for _, date := range []string{"2026-03-09", "2026-03-08"} {
		input.Date = day(t, date)
		entry, err := f.svc.SubmitEntry(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, league.StatusPending, entry.Status)
	}

	input.Date = day(t, "2026-03-07")
	_, err := f.svc.SubmitEntry(context.Background(), input)
	require.ErrorIs(t, err, league.ErrRestQuotaExhausted)
}

func TestSubmitEntryDuplicateDay(t *testing.T) {
	f := newFixture(t)
	input := SubmitEntryInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		Date:        day(t, "2026-03-09"),
		Type:        league.EntryTypeWorkout,
		RRValue:     1,
		ProofURL:    "https://cdn.example.com/a.jpg",
	}

	_, err := f.svc.SubmitEntry(context.Background(), input)
	require.NoError(t, err)
	_, err = f.svc.SubmitEntry(context.Background(), input)
	require.ErrorIs(t, err, league.ErrDuplicateEntry)
}

func rejectedEntry(t *testing.T, f *fixture) {
	f.repo.entries["e-rejected"] = &league.EntryWithOwner{
		EffortEntry: league.EffortEntry{
			ID:              "e-rejected",
			LeagueMemberID:  "lm-player",
			Date:            day(t, "2026-03-08"),
			Type:            league.EntryTypeWorkout,
			Status:          league.StatusRejected,
			RRValue:         1.2,
			RejectionReason: ptr("blurry"),
		},
		Owner: league.Owner{LeagueMemberID: "lm-player", UserID: "player", LeagueID: "league-1", TeamID: ptr("team-a")},
	}
}

func TestReuploadEntry(t *testing.T) {
	f := newFixture(t)
	rejectedEntry(t, f)

	entry, err := f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		EntryID:     "e-rejected",
		ProofURL:    "https://cdn.example.com/sharp.jpg",
	})
	require.NoError(t, err)

	assert.Equal(t, league.StatusPending, entry.Status)
	require.NotNil(t, entry.ReuploadOf)
	assert.Equal(t, "e-rejected", *entry.ReuploadOf)
	assert.Equal(t, 1.2, entry.RRValue)
	assert.Equal(t, "2026-03-08", league.FormatDate(entry.Date))

	_, err = f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		EntryID:     "e-rejected",
		ProofURL:    "https://cdn.example.com/again.jpg",
	})
	require.ErrorIs(t, err, league.ErrDuplicateEntry)
}

func TestReuploadEntryRules(t *testing.T) {
	f := newFixture(t)
	rejectedEntry(t, f)
	f.repo.entries["e-pending"] = &league.EntryWithOwner{
		EffortEntry: league.EffortEntry{ID: "e-pending", LeagueMemberID: "lm-player", Status: league.StatusPending, Type: league.EntryTypeWorkout},
		Owner:       league.Owner{LeagueMemberID: "lm-player", UserID: "player", LeagueID: "league-1"},
	}

	_, err := f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{ActorUserID: "solo", LeagueID: "league-1", EntryID: "e-rejected", ProofURL: "https://x/p.jpg"})
	require.ErrorIs(t, err, league.ErrPermissionDenied)

	_, err = f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{ActorUserID: "player", LeagueID: "league-1", EntryID: "e-pending", ProofURL: "https://x/p.jpg"})
	require.ErrorIs(t, err, league.ErrInvalidStatus)

	_, err = f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{ActorUserID: "player", LeagueID: "league-2", EntryID: "e-rejected", ProofURL: "https://x/p.jpg"})
	require.ErrorIs(t, err, league.ErrNotFound)

	_, err = f.svc.ReuploadEntry(context.Background(), ReuploadEntryInput{ActorUserID: "player", LeagueID: "league-1", EntryID: "e-rejected"})
	require.ErrorIs(t, err, league.ErrInvalidInput)
}

func TestSubmitChallengeTeam(t *testing.T) {
	f := newFixture(t)

	submission, err := f.svc.SubmitChallenge(context.Background(), SubmitChallengeInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		ChallengeID: "ch-team",
		ProofURL:    "https://cdn.example.com/team.jpg",
	})
	require.NoError(t, err)
	require.NotNil(t, submission.TeamID)
	assert.Equal(t, "team-a", *submission.TeamID)
	assert.Nil(t, submission.AwardedPoints)
	assert.Equal(t, league.StatusPending, submission.Status)

	_, err = f.svc.SubmitChallenge(context.Background(), SubmitChallengeInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		ChallengeID: "ch-team",
		ProofURL:    "https://cdn.example.com/team2.jpg",
	})
	require.ErrorIs(t, err, league.ErrDuplicateSubmission)
}

func TestSubmitChallengeRules(t *testing.T) {
	tests := []struct {
		name    string
		input   SubmitChallengeInput
		wantErr error
	}{
		{
			name:    "challenge from another league",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-away", ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrScopeMismatch,
		},
		{
			name:    "past end date",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-done", ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrChallengeClosed,
		},
		{
			name:    "team challenge without team",
			input:   SubmitChallengeInput{ActorUserID: "solo", LeagueID: "league-1", ChallengeID: "ch-team", ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "sub team missing",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-sub", ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "sub team of another team",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-sub", ProofURL: "https://x/p.jpg", SubTeamID: ptr("st-b")},
			wantErr: league.ErrScopeMismatch,
		},
		{
			name:    "missing proof",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-team"},
			wantErr: league.ErrInvalidInput,
		},
		{
			name:    "unknown challenge",
			input:   SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-missing", ProofURL: "https://x/p.jpg"},
			wantErr: league.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			_, err := f.svc.SubmitChallenge(context.Background(), tt.input)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.repo.submissions)
		})
	}
}

func TestSubmitChallengeClosedStatus(t *testing.T) {
	f := newFixture(t)
	f.repo.challenges["ch-team"].Status = league.ChallengeStatusClosed

	_, err := f.svc.SubmitChallenge(context.Background(), SubmitChallengeInput{ActorUserID: "player", LeagueID: "league-1", ChallengeID: "ch-team", ProofURL: "https://x/p.jpg"})
	require.ErrorIs(t, err, league.ErrChallengeClosed)
}

func TestSubmitChallengeSubTeam(t *testing.T) {
	f := newFixture(t)

	submission, err := f.svc.SubmitChallenge(context.Background(), SubmitChallengeInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		ChallengeID: "ch-sub",
		ProofURL:    "https://cdn.example.com/run.jpg",
		SubTeamID:   ptr("st-a"),
	})
	require.NoError(t, err)
	require.NotNil(t, submission.SubTeamID)
	assert.Equal(t, "st-a", *submission.SubTeamID)

	f.repo.rosters["st-a"] = nil
	f.repo.submissions = nil
	_, err = f.svc.SubmitChallenge(context.Background(), SubmitChallengeInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		ChallengeID: "ch-sub",
		ProofURL:    "https://cdn.example.com/run.jpg",
		SubTeamID:   ptr("st-a"),
	})
	require.ErrorIs(t, err, league.ErrPermissionDenied)
}

func TestCreateProofUploadURL(t *testing.T) {
	f := newFixture(t)

	upload, err := f.svc.CreateProofUploadURL(context.Background(), ProofUploadInput{
		ActorUserID: "player",
		LeagueID:    "league-1",
		ContentType: "image/JPEG",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(upload.Key, "proofs/spring-step-challenge/lm-player/"), upload.Key)
	assert.True(t, strings.HasSuffix(upload.Key, ".jpg"), upload.Key)
	assert.Equal(t, "https://cdn.example.com/"+upload.Key, upload.PublicURL)
	assert.Contains(t, upload.UploadURL, upload.Key)
	assert.Equal(t, []string{upload.Key}, f.proofs.keys)
}

func TestCreateProofUploadURLErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateProofUploadURL(context.Background(), ProofUploadInput{ActorUserID: "player", LeagueID: "league-1", ContentType: "application/pdf"})
	require.ErrorIs(t, err, league.ErrInvalidInput)

	_, err = f.svc.CreateProofUploadURL(context.Background(), ProofUploadInput{ActorUserID: "stranger", LeagueID: "league-1", ContentType: "image/png"})
	require.ErrorIs(t, err, league.ErrNotAMember)

	f.proofs.err = errors.New("signer down")
	_, err = f.svc.CreateProofUploadURL(context.Background(), ProofUploadInput{ActorUserID: "player", LeagueID: "league-1", ContentType: "image/png"})
	require.Error(t, err)

	disabled := NewService(f.repo, f.members, nil, time.Second)
	_, err = disabled.CreateProofUploadURL(context.Background(), ProofUploadInput{ActorUserID: "player", LeagueID: "league-1", ContentType: "image/png"})
	require.ErrorIs(t, err, ErrUploadsDisabled)
}
