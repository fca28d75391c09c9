package analytics

import (
	"fmt"
	"time"

	"coach-partner/internal/models"
)

// KPITrendWeeks is the depth of the headline weekly trend.
const KPITrendWeeks = 4

// StatsInputs is the snapshot the team dashboard is computed from. Sessions,
// matches and attendance are the team's full history; windows are carved out
// here rather than in the store.
type StatsInputs struct {
	AsOf       time.Time
	Athletes   []*models.Athlete
	Sessions   []*models.TrainingSession
	Matches    []*models.Match
	Attendance []*models.Attendance
}

// BuildTeamStats produces the headline KPIs, the 4-week trend, the average
// attendance rate and the roster health breakdown.
func BuildTeamStats(in StatsInputs) *models.TeamStats {
	return &models.TeamStats{
		KPIs:              buildKPIs(in),
		WeeklyTrend:       kpiWeeklyTrend(in),
		AvgAttendanceRate: attendanceRate(in),
		TeamHealth:        teamHealth(in.Athletes),
	}
}

func buildKPIs(in StatsInputs) models.TeamKPIs {
	kpis := models.TeamKPIs{
		TotalAthletes: len(in.Athletes),
		TotalSessions: len(in.Sessions),
		TotalMatches:  len(in.Matches),
	}

	completed, wins := 0, 0
	for _, m := range in.Matches {
		if m.Status != models.MatchCompleted {
			continue
		}
		completed++
		if m.Result != nil && *m.Result == models.ResultWin {
			wins++
		}
	}
	if completed > 0 {
		kpis.WinRate = round1(float64(wins) / float64(completed) * 100)
	}

	durationSum, durationCount := 0, 0
	for _, s := range in.Sessions {
		if s.Status == models.SessionCompleted {
			kpis.CompletedSessions++
		}
		if s.DurationMinutes != nil {
			durationSum += *s.DurationMinutes
			durationCount++
		}
	}
	if durationCount > 0 {
		kpis.AvgSessionDuration = round1(float64(durationSum) / float64(durationCount))
	}

	return kpis
}

// kpiWeeklyTrend reports session count, match count and average RPE for each
// of the last KPITrendWeeks trailing weeks, oldest first. Average RPE prefers
// session-level rpe_avg; when no session in the week carries one it falls back
// to the individual attendance RPE values, and is nil when neither exists.
func kpiWeeklyTrend(in StatsInputs) []models.WeekSummary {
	attendanceBySession := make(map[int64][]*models.Attendance)
	for _, att := range in.Attendance {
		attendanceBySession[att.TrainingSessionID] = append(attendanceBySession[att.TrainingSessionID], att)
	}

	asOf := Day(in.AsOf)
	trend := make([]models.WeekSummary, 0, KPITrendWeeks)

	for w := 0; w < KPITrendWeeks; w++ {
		weekEnd := asOf.AddDate(0, 0, -7*w)
		weekStart := weekEnd.AddDate(0, 0, -6)

		var weekSessions []*models.TrainingSession
		for _, s := range in.Sessions {
			day := Day(s.Date)
			if !day.Before(weekStart) && !day.After(weekEnd) {
				weekSessions = append(weekSessions, s)
			}
		}

		matches := 0
		for _, m := range in.Matches {
			day := Day(m.Date)
			if !day.Before(weekStart) && !day.After(weekEnd) {
				matches++
			}
		}

		isoYear, isoWeek := weekStart.ISOWeek()
		trend = append(trend, models.WeekSummary{
			Week:     fmt.Sprintf("%d-W%02d", isoYear, isoWeek),
			Sessions: len(weekSessions),
			Matches:  matches,
			AvgRPE:   weekAvgRPE(weekSessions, attendanceBySession),
		})
	}

	// Chronological order, oldest week first.
	for i, j := 0, len(trend)-1; i < j; i, j = i+1, j-1 {
		trend[i], trend[j] = trend[j], trend[i]
	}
	return trend
}

func weekAvgRPE(sessions []*models.TrainingSession, attendanceBySession map[int64][]*models.Attendance) *float64 {
	sum, count := 0.0, 0
	for _, s := range sessions {
		if s.RPEAvg != nil {
			sum += *s.RPEAvg
			count++
		}
	}
	if count == 0 {
		for _, s := range sessions {
			for _, att := range attendanceBySession[s.ID] {
				if att.RPE != nil {
					sum += *att.RPE
					count++
				}
			}
		}
	}
	if count == 0 {
		return nil
	}
	avg := round1(sum / float64(count))
	return &avg
}

// attendanceRate is the mean over all sessions of present-count over roster
// size, as a percentage. It is 0 when the team has no athletes or sessions.
func attendanceRate(in StatsInputs) float64 {
	if len(in.Athletes) == 0 || len(in.Sessions) == 0 {
		return 0
	}

	presentBySession := make(map[int64]int)
	for _, att := range in.Attendance {
		if att.Status == models.AttendancePresent {
			presentBySession[att.TrainingSessionID]++
		}
	}

	total := 0.0
	for _, s := range in.Sessions {
		total += float64(presentBySession[s.ID]) / float64(len(in.Athletes)) * 100
	}
	return round1(total / float64(len(in.Sessions)))
}

func teamHealth(athletes []*models.Athlete) models.TeamHealth {
	var health models.TeamHealth
	for _, a := range athletes {
		switch a.Status {
		case models.AthleteAvailable:
			health.AthletesAvailable++
		case models.AthleteAttention:
			health.AthletesAttention++
		case models.AthleteUnavailable:
			health.AthletesUnavailable++
		}
	}
	return health
}
