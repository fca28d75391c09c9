package analytics

import (
	"coach-partner/internal/models"
)

// BuildAthleteSummary assembles the per-athlete workload card. The recent
// slice holds the athlete's attendance over the trailing week, already joined
// with session dates and durations; the workload sum uses the same defaults
// as the team engine: (rpe or 5) x (minutes_trained or session duration or 60).
func BuildAthleteSummary(athlete *models.Athlete, recent []*models.AttendanceWithSession, totalSessions, sessionsAttended, activeInjuries int) *models.AthleteSummary {
	load := 0.0
	for _, row := range recent {
		rpe := DefaultRPE
		if row.RPE != nil {
			rpe = *row.RPE
		}
		minutes := DefaultDurationMinutes
		if row.MinutesTrained != nil {
			minutes = *row.MinutesTrained
		} else if row.SessionDuration != nil {
			minutes = *row.SessionDuration
		}
		load += rpe * float64(minutes)
	}

	pct := 0.0
	if totalSessions > 0 {
		pct = round1(float64(sessionsAttended) / float64(totalSessions) * 100)
	}

	return &models.AthleteSummary{
		AthleteID:        athlete.ID,
		Name:             athlete.FullName(),
		WeeklyLoad:       round2(load),
		SessionsAttended: sessionsAttended,
		TotalSessions:    totalSessions,
		AttendancePct:    pct,
		ActiveInjuries:   activeInjuries,
	}
}
