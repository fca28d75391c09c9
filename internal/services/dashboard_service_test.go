package services

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coach-partner/internal/models"
	"coach-partner/internal/repository"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

// fakeRepo is an in-memory TeamRepository for service tests.
type fakeRepo struct {
	teams      map[int64]*models.Team
	athletes   []*models.Athlete
	sessions   []*models.TrainingSession
	attendance []*models.Attendance
	wellness   []*models.WellnessEntry
	injuries   []*models.Injury
	matches    []*models.Match
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{teams: make(map[int64]*models.Team)}
}

func (f *fakeRepo) GetTeam(_ context.Context, teamID int64) (*models.Team, error) {
	team, ok := f.teams[teamID]
	if !ok {
		return nil, &repository.NotFoundError{Resource: "team", ID: "?"}
	}
	return team, nil
}

func (f *fakeRepo) GetAthlete(_ context.Context, athleteID int64) (*models.Athlete, error) {
	for _, a := range f.athletes {
		if a.ID == athleteID {
			return a, nil
		}
	}
	return nil, &repository.NotFoundError{Resource: "athlete", ID: "?"}
}

func (f *fakeRepo) AthletesOfTeam(_ context.Context, teamID int64) ([]*models.Athlete, error) {
	var out []*models.Athlete
	for _, a := range f.athletes {
		if a.TeamID == teamID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsInRange(_ context.Context, teamID int64, start, end time.Time) ([]*models.TrainingSession, error) {
	var out []*models.TrainingSession
	for _, s := range f.sessions {
		if s.TeamID == teamID && !s.Date.Before(start) && !s.Date.After(end) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) SessionsOfTeam(_ context.Context, teamID int64) ([]*models.TrainingSession, error) {
	var out []*models.TrainingSession
	for _, s := range f.sessions {
		if s.TeamID == teamID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountTeamSessions(_ context.Context, teamID int64) (int, error) {
	count := 0
	for _, s := range f.sessions {
		if s.TeamID == teamID {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) AttendanceForSessions(_ context.Context, sessionIDs []int64) ([]*models.Attendance, error) {
	ids := make(map[int64]struct{}, len(sessionIDs))
	for _, id := range sessionIDs {
		ids[id] = struct{}{}
	}
	var out []*models.Attendance
	for _, att := range f.attendance {
		if _, ok := ids[att.TrainingSessionID]; ok {
			out = append(out, att)
		}
	}
	return out, nil
}

func (f *fakeRepo) AttendanceForAthleteInRange(_ context.Context, athleteID int64, start, end time.Time) ([]*models.AttendanceWithSession, error) {
	byID := make(map[int64]*models.TrainingSession)
	for _, s := range f.sessions {
		byID[s.ID] = s
	}
	var out []*models.AttendanceWithSession
	for _, att := range f.attendance {
		session, ok := byID[att.TrainingSessionID]
		if !ok || att.AthleteID != athleteID {
			continue
		}
		if session.Date.Before(start) || session.Date.After(end) {
			continue
		}
		out = append(out, &models.AttendanceWithSession{
			Attendance:      *att,
			SessionDate:     session.Date,
			SessionDuration: session.DurationMinutes,
		})
	}
	return out, nil
}

func (f *fakeRepo) CountAthleteAttendance(_ context.Context, athleteID int64, status string) (int, error) {
	count := 0
	for _, att := range f.attendance {
		if att.AthleteID == athleteID && att.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) WellnessInRange(_ context.Context, athleteIDs []int64, start, end time.Time) ([]*models.WellnessEntry, error) {
	ids := make(map[int64]struct{}, len(athleteIDs))
	for _, id := range athleteIDs {
		ids[id] = struct{}{}
	}
	var out []*models.WellnessEntry
	for _, w := range f.wellness {
		if _, ok := ids[w.AthleteID]; !ok {
			continue
		}
		if w.Date.Before(start) || w.Date.After(end) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}

func (f *fakeRepo) ActiveInjuries(_ context.Context, athleteIDs []int64) ([]*models.Injury, error) {
	ids := make(map[int64]struct{}, len(athleteIDs))
	for _, id := range athleteIDs {
		ids[id] = struct{}{}
	}
	var out []*models.Injury
	for _, inj := range f.injuries {
		if _, ok := ids[inj.AthleteID]; ok && inj.Active() {
			out = append(out, inj)
		}
	}
	return out, nil
}

func (f *fakeRepo) MatchesOfTeam(_ context.Context, teamID int64, status string) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range f.matches {
		if m.TeamID == teamID && (status == "" || m.Status == status) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateTeam(_ context.Context, team *models.Team) error {
	team.ID = int64(len(f.teams) + 1)
	f.teams[team.ID] = team
	return nil
}

func (f *fakeRepo) CreateAthlete(_ context.Context, athlete *models.Athlete) error {
	athlete.ID = int64(len(f.athletes) + 1)
	f.athletes = append(f.athletes, athlete)
	return nil
}

func (f *fakeRepo) CreateSession(_ context.Context, session *models.TrainingSession) error {
	session.ID = int64(len(f.sessions) + 1)
	f.sessions = append(f.sessions, session)
	return nil
}

func (f *fakeRepo) CreateAttendanceBatch(_ context.Context, rows []*models.Attendance) error {
	f.attendance = append(f.attendance, rows...)
	return nil
}

func (f *fakeRepo) CreateWellnessBatch(_ context.Context, rows []*models.WellnessEntry) error {
	f.wellness = append(f.wellness, rows...)
	return nil
}

func (f *fakeRepo) CreateInjury(_ context.Context, injury *models.Injury) error {
	injury.ID = int64(len(f.injuries) + 1)
	f.injuries = append(f.injuries, injury)
	return nil
}

func (f *fakeRepo) CreateMatch(_ context.Context, match *models.Match) error {
	match.ID = int64(len(f.matches) + 1)
	f.matches = append(f.matches, match)
	return nil
}

func (f *fakeRepo) HealthCheck(_ context.Context) error { return nil }

func newTestService(repo repository.TeamRepository) *DashboardService {
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)
	collector := metrics.NewCollectorWith("test", prometheus.NewRegistry())
	return NewDashboardService(repo, logger, collector)
}

func day(s string) time.Time {
	t, err := time.Parse(models.DayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func seedTeam(repo *fakeRepo) *models.Team {
	team := &models.Team{ID: 1, CoachID: 1, Name: "Test FC", Sport: "football"}
	repo.teams[team.ID] = team
	return team
}

func TestTrainingLoadUnknownTeam(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.TrainingLoad(context.Background(), 99, day("2026-03-01"))

	require.Error(t, err)
	var notFound *repository.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "team", notFound.Resource)
}

func TestTrainingLoadReport(t *testing.T) {
	repo := newFakeRepo()
	seedTeam(repo)
	asOf := day("2026-03-01")

	// A flat chronic base: one identical session per week for 4 weeks back,
	// then two heavier sessions inside the acute window.
	for _, offset := range []int{-27, -20, -13} {
		repo.sessions = append(repo.sessions, &models.TrainingSession{
			ID:              int64(len(repo.sessions) + 1),
			TeamID:          1,
			Date:            asOf.AddDate(0, 0, offset),
			DurationMinutes: intPtr(60),
			RPEAvg:          floatPtr(6),
			Status:          models.SessionCompleted,
		})
	}
	for _, offset := range []int{-3, -1} {
		repo.sessions = append(repo.sessions, &models.TrainingSession{
			ID:              int64(len(repo.sessions) + 1),
			TeamID:          1,
			Date:            asOf.AddDate(0, 0, offset),
			DurationMinutes: intPtr(90),
			RPEAvg:          floatPtr(8),
			Status:          models.SessionCompleted,
		})
	}

	report, err := svcReport(t, repo, asOf)
	require.NoError(t, err)

	// Acute: 2 x 720 = 1440. Chronic: 3 x 360 + 1440 = 2520.
	assert.InDelta(t, 1440.0, report.AcuteLoad, 0.001)
	assert.InDelta(t, 2520.0, report.ChronicLoad, 0.001)
	// ACWR = (1440/7) / (2520/28) = 2.29 after rounding.
	assert.InDelta(t, 2.29, report.ACWR, 0.001)
	assert.Equal(t, "danger", report.Risk)
	assert.Equal(t, "High Risk", report.RiskLabel)
	assert.Len(t, report.WeeklyTrend, 6)
}

func svcReport(t *testing.T, repo *fakeRepo, asOf time.Time) (*models.TrainingLoadReport, error) {
	t.Helper()
	return newTestService(repo).TrainingLoad(context.Background(), 1, asOf)
}

func TestSuggestionsEmptyRoster(t *testing.T) {
	repo := newFakeRepo()
	seedTeam(repo)
	svc := newTestService(repo)

	_, err := svc.Suggestions(context.Background(), 1, day("2026-03-01"))

	require.Error(t, err)
	var notFound *repository.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "athlete roster", notFound.Resource)
}

func TestSuggestionsAssemblesWeekSignals(t *testing.T) {
	repo := newFakeRepo()
	seedTeam(repo)
	asOf := day("2026-03-01")

	repo.athletes = append(repo.athletes,
		&models.Athlete{ID: 1, TeamID: 1, FirstName: "Ana", LastName: "Silva", Status: models.AthleteAvailable},
		&models.Athlete{ID: 2, TeamID: 1, FirstName: "Bea", LastName: "Costa", Status: models.AthleteAvailable},
	)
	for d := 0; d < 3; d++ {
		date := asOf.AddDate(0, 0, -d)
		repo.wellness = append(repo.wellness,
			&models.WellnessEntry{AthleteID: 1, Date: date, Energy: intPtr(8), SleepQuality: intPtr(8), Stress: intPtr(3), DOMS: intPtr(2)},
			&models.WellnessEntry{AthleteID: 2, Date: date, Energy: intPtr(8), SleepQuality: intPtr(8), Stress: intPtr(3), DOMS: intPtr(2)},
		)
	}
	// A wellness entry outside the trailing week must not influence the advice.
	repo.wellness = append(repo.wellness, &models.WellnessEntry{
		AthleteID: 1, Date: asOf.AddDate(0, 0, -10), Energy: intPtr(1), Stress: intPtr(10),
	})
	repo.sessions = append(repo.sessions, &models.TrainingSession{
		ID: 1, TeamID: 1, Date: asOf.AddDate(0, 0, -2), RPEAvg: floatPtr(5), Status: models.SessionCompleted,
	})

	advice, err := newTestService(repo).Suggestions(context.Background(), 1, asOf)
	require.NoError(t, err)

	assert.Equal(t, "high", advice.Intensity)
	assert.Equal(t, 90, advice.SuggestedDuration)
	assert.InDelta(t, 8.0, advice.Metrics.AvgEnergy, 0.001)
	assert.Equal(t, 1, advice.Metrics.SessionsThisWeek)
	require.NotNil(t, advice.Metrics.AvgRPE)
	assert.InDelta(t, 5.0, *advice.Metrics.AvgRPE, 0.001)
	assert.Empty(t, advice.Warnings)
}

func TestTeamStats(t *testing.T) {
	repo := newFakeRepo()
	seedTeam(repo)
	asOf := day("2026-03-01")

	repo.athletes = append(repo.athletes,
		&models.Athlete{ID: 1, TeamID: 1, FirstName: "Ana", LastName: "Silva", Status: models.AthleteAvailable},
		&models.Athlete{ID: 2, TeamID: 1, FirstName: "Bea", LastName: "Costa", Status: models.AthleteAttention},
	)
	repo.sessions = append(repo.sessions, &models.TrainingSession{
		ID: 1, TeamID: 1, Date: asOf.AddDate(0, 0, -2),
		DurationMinutes: intPtr(80), RPEAvg: floatPtr(6), Status: models.SessionCompleted,
	})
	repo.attendance = append(repo.attendance,
		&models.Attendance{AthleteID: 1, TrainingSessionID: 1, Status: models.AttendancePresent},
		&models.Attendance{AthleteID: 2, TrainingSessionID: 1, Status: models.AttendanceAbsent},
	)
	win, loss := models.ResultWin, models.ResultLoss
	repo.matches = append(repo.matches,
		&models.Match{TeamID: 1, Date: asOf.AddDate(0, 0, -9), Status: models.MatchCompleted, Result: &win},
		&models.Match{TeamID: 1, Date: asOf.AddDate(0, 0, -16), Status: models.MatchCompleted, Result: &loss},
		&models.Match{TeamID: 1, Date: asOf.AddDate(0, 0, 5), Status: models.MatchUpcoming},
	)

	stats, err := newTestService(repo).TeamStats(context.Background(), 1, asOf)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.KPIs.TotalAthletes)
	assert.Equal(t, 1, stats.KPIs.TotalSessions)
	assert.InDelta(t, 50.0, stats.KPIs.WinRate, 0.001)
	assert.InDelta(t, 80.0, stats.KPIs.AvgSessionDuration, 0.001)
	assert.InDelta(t, 50.0, stats.AvgAttendanceRate, 0.001)
	assert.Len(t, stats.WeeklyTrend, 4)
	assert.Equal(t, 1, stats.TeamHealth.AthletesAvailable)
	assert.Equal(t, 1, stats.TeamHealth.AthletesAttention)
}

func TestAthleteSummary(t *testing.T) {
	repo := newFakeRepo()
	seedTeam(repo)
	asOf := day("2026-03-01")

	repo.athletes = append(repo.athletes, &models.Athlete{
		ID: 1, TeamID: 1, FirstName: "Ana", LastName: "Silva", Status: models.AthleteAvailable,
	})
	repo.sessions = append(repo.sessions,
		&models.TrainingSession{ID: 1, TeamID: 1, Date: asOf.AddDate(0, 0, -2), DurationMinutes: intPtr(60), Status: models.SessionCompleted},
		&models.TrainingSession{ID: 2, TeamID: 1, Date: asOf.AddDate(0, 0, -20), DurationMinutes: intPtr(60), Status: models.SessionCompleted},
	)
	repo.attendance = append(repo.attendance,
		&models.Attendance{AthleteID: 1, TrainingSessionID: 1, Status: models.AttendancePresent, RPE: floatPtr(7), MinutesTrained: intPtr(60)},
		&models.Attendance{AthleteID: 1, TrainingSessionID: 2, Status: models.AttendancePresent, RPE: floatPtr(6), MinutesTrained: intPtr(60)},
	)
	repo.injuries = append(repo.injuries, &models.Injury{
		AthleteID: 1, InjuryType: "muscle strain", DateOccurred: asOf.AddDate(0, 0, -5), Status: models.InjuryActive,
	})

	summary, err := newTestService(repo).AthleteSummary(context.Background(), 1, asOf)
	require.NoError(t, err)

	assert.Equal(t, "Ana Silva", summary.Name)
	// Only the session inside the trailing week counts toward weekly load.
	assert.InDelta(t, 420.0, summary.WeeklyLoad, 0.001)
	assert.Equal(t, 2, summary.SessionsAttended)
	assert.Equal(t, 2, summary.TotalSessions)
	assert.InDelta(t, 100.0, summary.AttendancePct, 0.001)
	assert.Equal(t, 1, summary.ActiveInjuries)
}

func TestSeedSeasonDeterministic(t *testing.T) {
	ctx := context.Background()

	run := func() *SeedResult {
		repo := newFakeRepo()
		svc := NewSeedService(repo, logging.NewStructuredLogger("test", "test", logging.ErrorLevel), metrics.NewCollectorWith("test", prometheus.NewRegistry()))
		result, err := svc.SeedSeason(ctx, SeedOptions{CoachID: 1, Athletes: 10, Weeks: 4, Seed: 42})
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	assert.Equal(t, 10, first.Athletes)
	assert.Positive(t, first.Sessions)
	assert.Positive(t, first.Attendance)
	assert.Equal(t, 10*7, first.Wellness)
	assert.Equal(t, first.Sessions, second.Sessions)
	assert.Equal(t, first.Attendance, second.Attendance)
	assert.Equal(t, first.Injuries, second.Injuries)
}

func TestSeededDashboardsEndToEnd(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	logger := logging.NewStructuredLogger("test", "test", logging.ErrorLevel)

	seeder := NewSeedService(repo, logger, metrics.NewCollectorWith("test", prometheus.NewRegistry()))
	result, err := seeder.SeedSeason(ctx, SeedOptions{CoachID: 1, Athletes: 12, Weeks: 8, Seed: 7})
	require.NoError(t, err)

	svc := NewDashboardService(repo, logger, metrics.NewCollectorWith("test", prometheus.NewRegistry()))
	now := time.Now().UTC()

	report, err := svc.TrainingLoad(ctx, result.TeamID, now)
	require.NoError(t, err)
	assert.Positive(t, report.ChronicLoad)
	assert.Len(t, report.AthleteLoad, 12)

	advice, err := svc.Suggestions(ctx, result.TeamID, now)
	require.NoError(t, err)
	assert.Contains(t, []string{"low", "medium", "high"}, advice.Intensity)
	assert.GreaterOrEqual(t, advice.ReadinessScore, 1)
	assert.LessOrEqual(t, advice.ReadinessScore, 10)

	stats, err := svc.TeamStats(ctx, result.TeamID, now)
	require.NoError(t, err)
	assert.Equal(t, 12, stats.KPIs.TotalAthletes)
	assert.Equal(t, result.Sessions, stats.KPIs.TotalSessions)
}
