package analytics

import (
	"testing"

	"coach-partner/internal/models"
)

func TestBuildKPIs(t *testing.T) {
	win, loss, draw := models.ResultWin, models.ResultLoss, models.ResultDraw
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Athletes: []*models.Athlete{
			{ID: 1, Status: models.AthleteAvailable},
			{ID: 2, Status: models.AthleteAvailable},
		},
		Sessions: []*models.TrainingSession{
			session(t, "2026-02-20", fptr(6), iptr(90)),
			session(t, "2026-02-22", fptr(7), iptr(60)),
			{Date: mustDay(t, "2026-03-05"), Status: models.SessionPlanned},
		},
		Matches: []*models.Match{
			{Date: mustDay(t, "2026-02-21"), Status: models.MatchCompleted, Result: &win},
			{Date: mustDay(t, "2026-02-14"), Status: models.MatchCompleted, Result: &win},
			{Date: mustDay(t, "2026-02-07"), Status: models.MatchCompleted, Result: &loss},
			{Date: mustDay(t, "2026-01-31"), Status: models.MatchCompleted, Result: &draw},
			{Date: mustDay(t, "2026-03-07"), Status: models.MatchUpcoming},
		},
	}

	stats := BuildTeamStats(in)
	kpis := stats.KPIs

	if kpis.TotalAthletes != 2 {
		t.Errorf("TotalAthletes = %d, want 2", kpis.TotalAthletes)
	}
	if kpis.TotalSessions != 3 {
		t.Errorf("TotalSessions = %d, want 3", kpis.TotalSessions)
	}
	if kpis.TotalMatches != 5 {
		t.Errorf("TotalMatches = %d, want 5", kpis.TotalMatches)
	}
	if kpis.CompletedSessions != 2 {
		t.Errorf("CompletedSessions = %d, want 2", kpis.CompletedSessions)
	}

	// 2 wins of 4 completed matches; the upcoming fixture does not count.
	if kpis.WinRate != 50.0 {
		t.Errorf("WinRate = %v, want 50.0", kpis.WinRate)
	}

	// Mean of the two sessions carrying a duration.
	if kpis.AvgSessionDuration != 75.0 {
		t.Errorf("AvgSessionDuration = %v, want 75.0", kpis.AvgSessionDuration)
	}
}

func TestBuildKPIsNoCompletedMatches(t *testing.T) {
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Matches: []*models.Match{
			{Date: mustDay(t, "2026-03-07"), Status: models.MatchUpcoming},
		},
	}

	stats := BuildTeamStats(in)

	if stats.KPIs.WinRate != 0 {
		t.Errorf("WinRate = %v, want 0 with no completed matches", stats.KPIs.WinRate)
	}
}

func TestKPIWeeklyTrend(t *testing.T) {
	win := models.ResultWin
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Sessions: []*models.TrainingSession{
			session(t, "2026-03-01", fptr(6), iptr(60)), // current week
			session(t, "2026-02-27", fptr(8), iptr(60)), // current week
			session(t, "2026-02-10", nil, iptr(60)),     // three weeks back, no rpe
		},
		Matches: []*models.Match{
			{Date: mustDay(t, "2026-02-28"), Status: models.MatchCompleted, Result: &win},
		},
	}

	stats := BuildTeamStats(in)
	trend := stats.WeeklyTrend

	if len(trend) != KPITrendWeeks {
		t.Fatalf("len(trend) = %d, want %d", len(trend), KPITrendWeeks)
	}

	current := trend[KPITrendWeeks-1]
	if current.Sessions != 2 || current.Matches != 1 {
		t.Errorf("current week = %+v, want 2 sessions and 1 match", current)
	}
	if current.AvgRPE == nil || *current.AvgRPE != 7.0 {
		t.Errorf("current week AvgRPE = %v, want 7.0", current.AvgRPE)
	}

	// 2026-02-10 falls in the second-oldest trend week; it has a session but no
	// RPE anywhere, so the average is nil.
	older := trend[1]
	if older.Sessions != 1 {
		t.Errorf("older week = %+v, want 1 session", older)
	}
	if older.AvgRPE != nil {
		t.Errorf("older week AvgRPE = %v, want nil", *older.AvgRPE)
	}
}

func TestKPIWeeklyTrendRPEFallsBackToAttendance(t *testing.T) {
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Sessions: []*models.TrainingSession{
			{ID: 1, Date: mustDay(t, "2026-02-28"), Status: models.SessionCompleted},
		},
		Attendance: []*models.Attendance{
			{TrainingSessionID: 1, Status: models.AttendancePresent, RPE: fptr(6)},
			{TrainingSessionID: 1, Status: models.AttendancePresent, RPE: fptr(8)},
			{TrainingSessionID: 1, Status: models.AttendancePresent},
		},
	}

	stats := BuildTeamStats(in)
	current := stats.WeeklyTrend[KPITrendWeeks-1]

	if current.AvgRPE == nil || *current.AvgRPE != 7.0 {
		t.Errorf("AvgRPE = %v, want 7.0 from attendance fallback", current.AvgRPE)
	}
}

func TestAttendanceRate(t *testing.T) {
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Athletes: []*models.Athlete{
			{ID: 1, Status: models.AthleteAvailable},
			{ID: 2, Status: models.AthleteAvailable},
		},
		Sessions: []*models.TrainingSession{
			{ID: 1, Date: mustDay(t, "2026-02-20"), Status: models.SessionCompleted},
			{ID: 2, Date: mustDay(t, "2026-02-22"), Status: models.SessionCompleted},
		},
		Attendance: []*models.Attendance{
			{AthleteID: 1, TrainingSessionID: 1, Status: models.AttendancePresent},
			{AthleteID: 2, TrainingSessionID: 1, Status: models.AttendancePresent},
			{AthleteID: 1, TrainingSessionID: 2, Status: models.AttendancePresent},
			{AthleteID: 2, TrainingSessionID: 2, Status: models.AttendanceAbsent},
		},
	}

	stats := BuildTeamStats(in)

	// Session 1: 100%, session 2: 50% -> mean 75%.
	if stats.AvgAttendanceRate != 75.0 {
		t.Errorf("AvgAttendanceRate = %v, want 75.0", stats.AvgAttendanceRate)
	}
}

func TestAttendanceRateEmptyTeam(t *testing.T) {
	stats := BuildTeamStats(StatsInputs{AsOf: mustDay(t, "2026-03-01")})

	if stats.AvgAttendanceRate != 0 {
		t.Errorf("AvgAttendanceRate = %v, want 0", stats.AvgAttendanceRate)
	}
}

func TestTeamHealth(t *testing.T) {
	in := StatsInputs{
		AsOf: mustDay(t, "2026-03-01"),
		Athletes: []*models.Athlete{
			{ID: 1, Status: models.AthleteAvailable},
			{ID: 2, Status: models.AthleteAvailable},
			{ID: 3, Status: models.AthleteAttention},
			{ID: 4, Status: models.AthleteUnavailable},
		},
	}

	health := BuildTeamStats(in).TeamHealth

	if health.AthletesAvailable != 2 || health.AthletesAttention != 1 || health.AthletesUnavailable != 1 {
		t.Errorf("TeamHealth = %+v, want 2/1/1", health)
	}
}
