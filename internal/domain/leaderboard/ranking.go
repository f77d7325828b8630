package leaderboard

import (
	"math"
	"sort"
	"time"

	"fitness-league-go/internal/domain/league"
)

// window selects which entries count towards the settled ranking and
// which days form the pending window.
type window struct {
	from      time.Time
	settledTo time.Time
	pending   []time.Time
	normalize bool
}

type memberTally struct {
	points       float64
	entries      int
	workoutRR    float64
	workoutCount int
}

type teamTally struct {
	team         league.Team
	points       float64
	bonus        float64
	workoutRR    float64
	workoutCount int
	memberCount  int
	pending      map[time.Time]float64
}

func buildLeaderboard(snapshot *Snapshot, w window) ([]IndividualRow, []TeamRow, []SubTeamRow, PendingWindow) {
	profiles := make(map[string]MemberProfile, len(snapshot.Members))
	for _, member := range snapshot.Members {
		profiles[member.LeagueMemberID] = member
	}

	teams := make(map[string]*teamTally, len(snapshot.Teams))
	teamOrder := make([]string, 0, len(snapshot.Teams))
	for _, team := range snapshot.Teams {
		teams[team.ID] = &teamTally{team: team, pending: make(map[time.Time]float64)}
		teamOrder = append(teamOrder, team.ID)
	}
	for _, member := range snapshot.Members {
		if !member.Active || member.TeamID == nil {
			continue
		}
		if tally, ok := teams[*member.TeamID]; ok {
			tally.memberCount++
		}
	}

	pendingDays := make(map[time.Time]struct{}, len(w.pending))
	for _, day := range w.pending {
		pendingDays[day] = struct{}{}
	}

	superseded := supersededEntries(snapshot.Entries)

	tallies := make(map[string]*memberTally, len(snapshot.Members))
	for _, entry := range snapshot.Entries {
		if entry.Status != league.StatusApproved {
			continue
		}
		if _, ok := superseded[entry.ID]; ok {
			continue
		}
		day := league.DateOf(entry.Date)
		profile := profiles[entry.LeagueMemberID]
		var team *teamTally
		if profile.TeamID != nil {
			team = teams[*profile.TeamID]
		}

		if _, ok := pendingDays[day]; ok && team != nil {
			team.pending[day] += entry.RRValue
		}
		if day.Before(w.from) || day.After(w.settledTo) {
			continue
		}

		tally, ok := tallies[entry.LeagueMemberID]
		if !ok {
			tally = &memberTally{}
			tallies[entry.LeagueMemberID] = tally
		}
		tally.points += entry.RRValue
		tally.entries++
		if entry.Type == league.EntryTypeWorkout {
			tally.workoutRR += entry.RRValue
			tally.workoutCount++
		}

		if team != nil {
			team.points += entry.RRValue
			if entry.Type == league.EntryTypeWorkout {
				team.workoutRR += entry.RRValue
				team.workoutCount++
			}
		}
	}

	challengeTypes := make(map[string]league.ChallengeType, len(snapshot.Challenges))
	for _, challenge := range snapshot.Challenges {
		challengeTypes[challenge.ID] = challenge.Type
	}
	for _, submission := range snapshot.ChallengeSubmissions {
		if submission.Status != league.StatusApproved || submission.AwardedPoints == nil {
			continue
		}
		teamID := bonusTeam(submission, challengeTypes[submission.ChallengeID], profiles)
		if teamID == "" {
			continue
		}
		if tally, ok := teams[teamID]; ok {
			tally.bonus += *submission.AwardedPoints
		}
	}

	individuals := buildIndividuals(snapshot.Members, profiles, tallies, teams)
	factors := normalizationFactors(teams, w.normalize)
	teamRows := buildTeams(teamOrder, teams, factors)
	subTeams := buildSubTeams(snapshot, teams)
	pending := buildPendingWindow(teamOrder, teams, factors, teamRows, w.pending)

	return individuals, teamRows, subTeams, pending
}

// supersededEntries collects entries replaced by a reupload. Only the
// latest entry of a reupload chain scores for its day.
func supersededEntries(entries []league.EffortEntry) map[string]struct{} {
	superseded := make(map[string]struct{})
	for _, entry := range entries {
		if entry.ReuploadOf != nil {
			superseded[*entry.ReuploadOf] = struct{}{}
		}
	}
	return superseded
}

// bonusTeam resolves the team credited with a challenge award. Team
// challenges credit the submission's team; individual challenges credit
// the submitter's team. Sub-team awards only count for sub-team ranking.
func bonusTeam(submission league.ChallengeSubmission, challengeType league.ChallengeType, profiles map[string]MemberProfile) string {
	switch challengeType {
	case league.ChallengeTypeTeam:
		if submission.TeamID != nil {
			return *submission.TeamID
		}
	case league.ChallengeTypeIndividual:
		if submission.TeamID != nil {
			return *submission.TeamID
		}
		if profile, ok := profiles[submission.LeagueMemberID]; ok && profile.TeamID != nil {
			return *profile.TeamID
		}
	}
	return ""
}

func buildIndividuals(members []MemberProfile, profiles map[string]MemberProfile, tallies map[string]*memberTally, teams map[string]*teamTally) []IndividualRow {
	rows := make([]IndividualRow, 0, len(members))
	seen := make(map[string]struct{}, len(members))

	appendRow := func(profile MemberProfile) {
		seen[profile.LeagueMemberID] = struct{}{}
		row := IndividualRow{
			LeagueMemberID: profile.LeagueMemberID,
			UserID:         profile.UserID,
			Username:       profile.Username,
			TeamID:         profile.TeamID,
		}
		if profile.TeamID != nil {
			if team, ok := teams[*profile.TeamID]; ok {
				row.TeamName = team.team.Name
			}
		}
		if tally, ok := tallies[profile.LeagueMemberID]; ok {
			row.Points = tally.points
			row.Entries = tally.entries
			row.AvgRR = average(tally.workoutRR, tally.workoutCount)
		}
		rows = append(rows, row)
	}

	for _, member := range members {
		_, scored := tallies[member.LeagueMemberID]
		if member.Active || scored {
			appendRow(member)
		}
	}
	for memberID := range tallies {
		if _, ok := seen[memberID]; !ok {
			appendRow(MemberProfile{LeagueMemberID: memberID, UserID: profiles[memberID].UserID})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].LeagueMemberID < rows[j].LeagueMemberID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// normalizationFactors returns the per-team scale applied to raw points.
// It returns nil when normalization is off or every team has the same
// size, so equal-sized leagues rank exactly as unnormalized ones.
func normalizationFactors(teams map[string]*teamTally, enabled bool) map[string]float64 {
	if !enabled || len(teams) == 0 {
		return nil
	}

	maxSize := 0
	minSize := math.MaxInt
	for _, tally := range teams {
		if tally.memberCount > maxSize {
			maxSize = tally.memberCount
		}
		if tally.memberCount < minSize {
			minSize = tally.memberCount
		}
	}
	if maxSize == minSize {
		return nil
	}

	factors := make(map[string]float64, len(teams))
	for id, tally := range teams {
		factors[id] = float64(maxSize) / float64(max(1, tally.memberCount))
	}
	return factors
}

func scale(raw float64, teamID string, factors map[string]float64) float64 {
	if factors == nil {
		return raw
	}
	return math.Round(raw * factors[teamID])
}

func buildTeams(order []string, teams map[string]*teamTally, factors map[string]float64) []TeamRow {
	rows := make([]TeamRow, 0, len(order))
	for _, id := range order {
		tally := teams[id]
		points := scale(tally.points, id, factors)
		rows = append(rows, TeamRow{
			TeamID:         id,
			TeamName:       tally.team.Name,
			Points:         points,
			ChallengeBonus: tally.bonus,
			TotalPoints:    points + tally.bonus,
			AvgRR:          average(tally.workoutRR, tally.workoutCount),
			MemberCount:    tally.memberCount,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalPoints != rows[j].TotalPoints {
			return rows[i].TotalPoints > rows[j].TotalPoints
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func buildSubTeams(snapshot *Snapshot, teams map[string]*teamTally) []SubTeamRow {
	rows := make([]SubTeamRow, 0, len(snapshot.SubTeams))
	index := make(map[string]int, len(snapshot.SubTeams))
	for _, subTeam := range snapshot.SubTeams {
		row := SubTeamRow{
			SubTeamID:   subTeam.ID,
			Name:        subTeam.Name,
			ChallengeID: subTeam.ChallengeID,
			TeamID:      subTeam.TeamID,
		}
		if team, ok := teams[subTeam.TeamID]; ok {
			row.TeamName = team.team.Name
		}
		index[subTeam.ID] = len(rows)
		rows = append(rows, row)
	}

	for _, submission := range snapshot.ChallengeSubmissions {
		if submission.Status != league.StatusApproved || submission.SubTeamID == nil || submission.AwardedPoints == nil {
			continue
		}
		i, ok := index[*submission.SubTeamID]
		if !ok {
			i = len(rows)
			index[*submission.SubTeamID] = i
			rows = append(rows, SubTeamRow{SubTeamID: *submission.SubTeamID, ChallengeID: submission.ChallengeID})
		}
		rows[i].Points += *submission.AwardedPoints
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Points != rows[j].Points {
			return rows[i].Points > rows[j].Points
		}
		return rows[i].SubTeamID < rows[j].SubTeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// buildPendingWindow ranks teams on the most recent day only. Ties fall
// back to the settled total, then to the team id.
func buildPendingWindow(order []string, teams map[string]*teamTally, factors map[string]float64, settled []TeamRow, days []time.Time) PendingWindow {
	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, league.FormatDate(day))
	}

	settledTotals := make(map[string]float64, len(settled))
	for _, row := range settled {
		settledTotals[row.TeamID] = row.TotalPoints
	}

	rows := make([]PendingTeamRow, 0, len(order))
	for _, id := range order {
		tally := teams[id]
		row := PendingTeamRow{
			TeamID:   id,
			TeamName: tally.team.Name,
			Days:     make([]PendingDay, 0, len(days)),
		}
		for _, day := range days {
			row.Days = append(row.Days, PendingDay{
				Date:   league.FormatDate(day),
				Points: scale(tally.pending[day], id, factors),
			})
		}
		if len(row.Days) > 0 {
			row.LatestPoints = row.Days[len(row.Days)-1].Points
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].LatestPoints != rows[j].LatestPoints {
			return rows[i].LatestPoints > rows[j].LatestPoints
		}
		if settledTotals[rows[i].TeamID] != settledTotals[rows[j].TeamID] {
			return settledTotals[rows[i].TeamID] > settledTotals[rows[j].TeamID]
		}
		return rows[i].TeamID < rows[j].TeamID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}

	return PendingWindow{Dates: dates, Teams: rows}
}

// rankChallenge groups approved submissions by the key the challenge type
// implies and ranks the sums. Submissions missing that key are dropped.
func rankChallenge(snapshot *ChallengeSnapshot) []RankingRow {
	names := challengeNames(snapshot)

	rows := make([]RankingRow, 0)
	index := make(map[string]int)
	for _, submission := range snapshot.Submissions {
		if submission.Status != league.StatusApproved {
			continue
		}
		key := groupingKey(submission, snapshot.Challenge.Type)
		if key == "" {
			continue
		}
		i, ok := index[key]
		if !ok {
			i = len(rows)
			index[key] = i
			rows = append(rows, RankingRow{ID: key, Name: names[key]})
		}
		if submission.AwardedPoints != nil {
			rows[i].Score += *submission.AwardedPoints
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Score != rows[j].Score {
			return rows[i].Score > rows[j].Score
		}
		return rows[i].ID < rows[j].ID
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

func groupingKey(submission league.ChallengeSubmission, challengeType league.ChallengeType) string {
	switch challengeType {
	case league.ChallengeTypeIndividual:
		return submission.LeagueMemberID
	case league.ChallengeTypeTeam:
		if submission.TeamID != nil {
			return *submission.TeamID
		}
	case league.ChallengeTypeSubTeam:
		if submission.SubTeamID != nil {
			return *submission.SubTeamID
		}
	}
	return ""
}

func challengeNames(snapshot *ChallengeSnapshot) map[string]string {
	names := make(map[string]string)
	switch snapshot.Challenge.Type {
	case league.ChallengeTypeIndividual:
		for _, member := range snapshot.Members {
			names[member.LeagueMemberID] = member.Username
		}
	case league.ChallengeTypeTeam:
		for _, team := range snapshot.Teams {
			names[team.ID] = team.Name
		}
	case league.ChallengeTypeSubTeam:
		for _, subTeam := range snapshot.SubTeams {
			names[subTeam.ID] = subTeam.Name
		}
	}
	return names
}

func average(sum float64, count int) float64 {
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
