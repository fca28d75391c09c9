package services

import (
	"context"
	"fmt"
	"time"

	"coach-partner/internal/analytics"
	"coach-partner/internal/models"
	"coach-partner/internal/repository"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

// DashboardService computes the analytics reports. It holds no state of its
// own: every call reads a fresh snapshot from the repository and hands it to
// the pure analytics layer, so repeated calls with no intervening writes
// return identical reports.
type DashboardService struct {
	repo    repository.TeamRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewDashboardService creates a new dashboard service.
func NewDashboardService(repo repository.TeamRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *DashboardService {
	return &DashboardService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// TrainingLoad computes the ACWR/monotony/strain report for a team as of the
// given date.
func (s *DashboardService) TrainingLoad(ctx context.Context, teamID int64, asOf time.Time) (*models.TrainingLoadReport, error) {
	started := time.Now()
	asOf = analytics.Day(asOf)

	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	lookbackStart := asOf.AddDate(0, 0, -analytics.TrendLookbackDays)
	sessions, err := s.repo.SessionsInRange(ctx, teamID, lookbackStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	athletes, err := s.repo.AthletesOfTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	attendance, err := s.repo.AttendanceForSessions(ctx, acuteSessionIDs(sessions, asOf))
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	report := analytics.BuildTrainingLoad(analytics.LoadInputs{
		AsOf:       asOf,
		Sessions:   sessions,
		Attendance: attendance,
		Athletes:   athletes,
	})

	s.metrics.ObserveAnalytics("training_load", time.Since(started).Seconds())
	s.logger.Debug(ctx, "[DASHBOARD_LOAD] Training load computed", logging.Fields{
		"team_id": teamID,
		"as_of":   asOf.Format(models.DayFormat),
		"acwr":    report.ACWR,
		"risk":    report.Risk,
	})

	return report, nil
}

// Suggestions runs the readiness rule engine for a team as of the given date.
// It fails with a not-found error when the roster is empty, since a
// recommendation is meaningless without athletes.
func (s *DashboardService) Suggestions(ctx context.Context, teamID int64, asOf time.Time) (*models.ReadinessAdvice, error) {
	started := time.Now()
	asOf = analytics.Day(asOf)

	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	athletes, err := s.repo.AthletesOfTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}
	if len(athletes) == 0 {
		return nil, &repository.NotFoundError{
			Resource: "athlete roster",
			ID:       fmt.Sprintf("%d", teamID),
		}
	}

	athleteIDs := make([]int64, 0, len(athletes))
	for _, a := range athletes {
		athleteIDs = append(athleteIDs, a.ID)
	}

	weekStart := asOf.AddDate(0, 0, -(analytics.AcuteWindowDays - 1))

	sessions, err := s.repo.SessionsInRange(ctx, teamID, weekStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	sessionIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}
	attendance, err := s.repo.AttendanceForSessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	wellness, err := s.repo.WellnessInRange(ctx, athleteIDs, weekStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load wellness entries: %w", err)
	}

	injuries, err := s.repo.ActiveInjuries(ctx, athleteIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load injuries: %w", err)
	}

	inputs := analytics.SummarizeWeek(wellness, sessions, attendance, len(injuries))
	advice := analytics.Advise(inputs)

	s.metrics.ObserveAnalytics("suggestions", time.Since(started).Seconds())
	s.logger.Debug(ctx, "[DASHBOARD_ADVICE] Readiness advice computed", logging.Fields{
		"team_id":   teamID,
		"as_of":     asOf.Format(models.DayFormat),
		"intensity": advice.Intensity,
	})

	return advice, nil
}

// TeamStats produces the headline KPI dashboard for a team.
func (s *DashboardService) TeamStats(ctx context.Context, teamID int64, asOf time.Time) (*models.TeamStats, error) {
	started := time.Now()
	asOf = analytics.Day(asOf)

	if _, err := s.repo.GetTeam(ctx, teamID); err != nil {
		return nil, err
	}

	athletes, err := s.repo.AthletesOfTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster: %w", err)
	}

	sessions, err := s.repo.SessionsOfTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	matches, err := s.repo.MatchesOfTeam(ctx, teamID, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	sessionIDs := make([]int64, 0, len(sessions))
	for _, session := range sessions {
		sessionIDs = append(sessionIDs, session.ID)
	}
	attendance, err := s.repo.AttendanceForSessions(ctx, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load attendance: %w", err)
	}

	stats := analytics.BuildTeamStats(analytics.StatsInputs{
		AsOf:       asOf,
		Athletes:   athletes,
		Sessions:   sessions,
		Matches:    matches,
		Attendance: attendance,
	})

	s.metrics.ObserveAnalytics("team_stats", time.Since(started).Seconds())

	return stats, nil
}

// AthleteSummary produces the trailing-week workload card for one athlete.
func (s *DashboardService) AthleteSummary(ctx context.Context, athleteID int64, asOf time.Time) (*models.AthleteSummary, error) {
	started := time.Now()
	asOf = analytics.Day(asOf)

	athlete, err := s.repo.GetAthlete(ctx, athleteID)
	if err != nil {
		return nil, err
	}

	totalSessions, err := s.repo.CountTeamSessions(ctx, athlete.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	attended, err := s.repo.CountAthleteAttendance(ctx, athleteID, models.AttendancePresent)
	if err != nil {
		return nil, fmt.Errorf("failed to count attendance: %w", err)
	}

	weekAgo := asOf.AddDate(0, 0, -7)
	recent, err := s.repo.AttendanceForAthleteInRange(ctx, athleteID, weekAgo, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent attendance: %w", err)
	}

	injuries, err := s.repo.ActiveInjuries(ctx, []int64{athleteID})
	if err != nil {
		return nil, fmt.Errorf("failed to load injuries: %w", err)
	}

	summary := analytics.BuildAthleteSummary(athlete, recent, totalSessions, attended, len(injuries))

	s.metrics.ObserveAnalytics("athlete_summary", time.Since(started).Seconds())

	return summary, nil
}

// acuteSessionIDs returns the IDs of sessions dated within the trailing acute
// window ending at asOf.
func acuteSessionIDs(sessions []*models.TrainingSession, asOf time.Time) []int64 {
	start := asOf.AddDate(0, 0, -(analytics.AcuteWindowDays - 1))
	var ids []int64
	for _, s := range sessions {
		day := analytics.Day(s.Date)
		if !day.Before(start) && !day.After(asOf) {
			ids = append(ids, s.ID)
		}
	}
	return ids
}
