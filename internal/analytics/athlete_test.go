package analytics

import (
	"testing"

	"coach-partner/internal/models"
)

func TestBuildAthleteSummary(t *testing.T) {
	athlete := &models.Athlete{ID: 7, FirstName: "Ana", LastName: "Silva"}
	recent := []*models.AttendanceWithSession{
		{
			Attendance:  models.Attendance{RPE: fptr(7), MinutesTrained: iptr(90)},
			SessionDate: mustDay(t, "2026-02-27"),
		},
		{
			// Missing minutes falls back to the session duration.
			Attendance:      models.Attendance{RPE: fptr(6)},
			SessionDate:     mustDay(t, "2026-02-25"),
			SessionDuration: iptr(75),
		},
		{
			// Missing everything falls back to 5 x 60.
			SessionDate: mustDay(t, "2026-02-23"),
		},
	}

	summary := BuildAthleteSummary(athlete, recent, 20, 18, 1)

	if summary.AthleteID != 7 || summary.Name != "Ana Silva" {
		t.Errorf("identity = %d/%q, want 7/Ana Silva", summary.AthleteID, summary.Name)
	}
	// 7x90 + 6x75 + 5x60 = 630 + 450 + 300.
	if summary.WeeklyLoad != 1380 {
		t.Errorf("WeeklyLoad = %v, want 1380", summary.WeeklyLoad)
	}
	if summary.AttendancePct != 90.0 {
		t.Errorf("AttendancePct = %v, want 90.0", summary.AttendancePct)
	}
	if summary.ActiveInjuries != 1 {
		t.Errorf("ActiveInjuries = %d, want 1", summary.ActiveInjuries)
	}
}

func TestBuildAthleteSummaryNoSessions(t *testing.T) {
	athlete := &models.Athlete{ID: 1, FirstName: "Bea", LastName: "Costa"}

	summary := BuildAthleteSummary(athlete, nil, 0, 0, 0)

	if summary.WeeklyLoad != 0 {
		t.Errorf("WeeklyLoad = %v, want 0", summary.WeeklyLoad)
	}
	if summary.AttendancePct != 0 {
		t.Errorf("AttendancePct = %v, want 0 when the team has no sessions", summary.AttendancePct)
	}
}
