package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"coach-partner/internal/models"
	"coach-partner/internal/repository"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

// SeedOptions controls the synthetic season generator.
type SeedOptions struct {
	CoachID  int64
	TeamName string
	Sport    string
	Athletes int
	Weeks    int
	Seed     int64
}

// SeedResult summarizes what a seeding run produced.
type SeedResult struct {
	TeamID     int64
	Athletes   int
	Sessions   int
	Attendance int
	Wellness   int
	Injuries   int
	Matches    int
	Duration   time.Duration
}

// SeedService generates a plausible synthetic season so the dashboards have
// something to show on a fresh database. Generation is deterministic for a
// given Seed value.
type SeedService struct {
	repo    repository.TeamRepository
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewSeedService creates a new seed service.
func NewSeedService(repo repository.TeamRepository, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *SeedService {
	return &SeedService{
		repo:    repo,
		logger:  logger,
		metrics: metricsCollector,
	}
}

var seedFirstNames = []string{
	"Alex", "Ben", "Carlos", "Daniel", "Emil", "Felix", "Gabriel", "Hugo",
	"Ivan", "Jonas", "Kai", "Leon", "Marco", "Noah", "Oscar", "Pavel",
	"Quentin", "Rafael", "Simon", "Tom",
}

var seedLastNames = []string{
	"Andersson", "Bauer", "Costa", "Dupont", "Eriksen", "Fischer", "Garcia",
	"Hansen", "Ivanov", "Jensen", "Kovacs", "Lindberg", "Moreau", "Novak",
	"Olsen", "Petrov", "Quinn", "Rossi", "Silva", "Tanaka",
}

var seedPositions = []string{"goalkeeper", "defender", "midfielder", "forward"}

var seedSessionTitles = []string{
	"Technical drills", "Tactical shape", "Conditioning block",
	"Small-sided games", "Set pieces", "Match preparation",
}

var seedOpponents = []string{
	"Northside FC", "Riverton United", "Harbor Athletic", "Westgate Rovers",
	"Oakfield Town", "Summit SC",
}

// SeedSeason populates the store with one team and a full training history
// ending today.
func (s *SeedService) SeedSeason(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	started := time.Now()

	if opts.Athletes <= 0 {
		opts.Athletes = 18
	}
	if opts.Weeks <= 0 {
		opts.Weeks = 8
	}
	if opts.TeamName == "" {
		opts.TeamName = "Demo FC"
	}
	if opts.Sport == "" {
		opts.Sport = "football"
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	s.logger.Info(ctx, "[SEED_START] Generating synthetic season", logging.Fields{
		"team_name": opts.TeamName,
		"athletes":  opts.Athletes,
		"weeks":     opts.Weeks,
		"seed":      opts.Seed,
	})

	season := fmt.Sprintf("%d/%d", today.Year(), today.Year()+1)
	team := &models.Team{
		CoachID:   opts.CoachID,
		Name:      opts.TeamName,
		Sport:     opts.Sport,
		Season:    &season,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateTeam(ctx, team); err != nil {
		s.metrics.RecordSeedError("create_team")
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	athletes, err := s.seedRoster(ctx, rng, team.ID, opts.Athletes, now)
	if err != nil {
		return nil, err
	}

	result := &SeedResult{TeamID: team.ID, Athletes: len(athletes)}

	if err := s.seedTrainingHistory(ctx, rng, team.ID, athletes, today, opts.Weeks, result); err != nil {
		return nil, err
	}
	if err := s.seedWellness(ctx, rng, athletes, today, result); err != nil {
		return nil, err
	}
	if err := s.seedInjuries(ctx, rng, athletes, today, result); err != nil {
		return nil, err
	}
	if err := s.seedMatches(ctx, rng, team.ID, today, opts.Weeks, result); err != nil {
		return nil, err
	}

	result.Duration = time.Since(started)

	s.logger.Info(ctx, "[SEED_COMPLETE] Synthetic season generated", logging.Fields{
		"team_id":     result.TeamID,
		"athletes":    result.Athletes,
		"sessions":    result.Sessions,
		"attendance":  result.Attendance,
		"wellness":    result.Wellness,
		"injuries":    result.Injuries,
		"matches":     result.Matches,
		"duration_ms": result.Duration.Milliseconds(),
	})

	return result, nil
}

func (s *SeedService) seedRoster(ctx context.Context, rng *rand.Rand, teamID int64, count int, now time.Time) ([]*models.Athlete, error) {
	athletes := make([]*models.Athlete, 0, count)
	for i := 0; i < count; i++ {
		jersey := i + 1
		position := seedPositions[rng.Intn(len(seedPositions))]
		birth := now.AddDate(-17-rng.Intn(10), rng.Intn(12), rng.Intn(28))

		athlete := &models.Athlete{
			TeamID:       teamID,
			FirstName:    seedFirstNames[i%len(seedFirstNames)],
			LastName:     seedLastNames[(i*7+rng.Intn(3))%len(seedLastNames)],
			BirthDate:    &birth,
			JerseyNumber: &jersey,
			Position:     &position,
			Status:       models.AthleteAvailable,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.repo.CreateAthlete(ctx, athlete); err != nil {
			s.metrics.RecordSeedError("create_athlete")
			return nil, fmt.Errorf("failed to create athlete: %w", err)
		}
		athletes = append(athletes, athlete)
	}
	return athletes, nil
}

// seedTrainingHistory writes 3-4 completed sessions per week plus their
// attendance. Roughly nine in ten athletes attend a given session.
func (s *SeedService) seedTrainingHistory(ctx context.Context, rng *rand.Rand, teamID int64, athletes []*models.Athlete, today time.Time, weeks int, result *SeedResult) error {
	// Mon/Wed/Fri, plus Saturday on heavier weeks.
	weekdays := []int{0, 2, 4, 5}

	for w := weeks; w >= 1; w-- {
		weekStart := today.AddDate(0, 0, -7*w)
		perWeek := 3 + rng.Intn(2)

		for d := 0; d < perWeek; d++ {
			date := weekStart.AddDate(0, 0, weekdays[d])
			if date.After(today) {
				continue
			}

			duration := 60 + rng.Intn(4)*15
			rpe := 4.0 + rng.Float64()*5.0
			title := seedSessionTitles[rng.Intn(len(seedSessionTitles))]

			session := &models.TrainingSession{
				TeamID:          teamID,
				Date:            date,
				DurationMinutes: &duration,
				Title:           &title,
				Status:          models.SessionCompleted,
				RPEAvg:          &rpe,
				CreatedAt:       date,
			}
			if err := s.repo.CreateSession(ctx, session); err != nil {
				s.metrics.RecordSeedError("create_session")
				return fmt.Errorf("failed to create session: %w", err)
			}
			result.Sessions++

			rows := make([]*models.Attendance, 0, len(athletes))
			for _, athlete := range athletes {
				status := models.AttendancePresent
				if rng.Float64() > 0.9 {
					status = models.AttendanceAbsent
				}

				row := &models.Attendance{
					AthleteID:         athlete.ID,
					TrainingSessionID: session.ID,
					Status:            status,
					CreatedAt:         date,
				}
				if status == models.AttendancePresent {
					athleteRPE := clampFloat(rpe+rng.Float64()*2-1, 1, 10)
					minutes := duration
					row.RPE = &athleteRPE
					row.MinutesTrained = &minutes
				}
				rows = append(rows, row)
			}
			if err := s.repo.CreateAttendanceBatch(ctx, rows); err != nil {
				s.metrics.RecordSeedError("create_attendance")
				return fmt.Errorf("failed to create attendance: %w", err)
			}
			result.Attendance += len(rows)
		}
	}
	return nil
}

// seedWellness writes a check-in per athlete per day over the trailing week,
// which is the window the readiness advisor reads.
func (s *SeedService) seedWellness(ctx context.Context, rng *rand.Rand, athletes []*models.Athlete, today time.Time, result *SeedResult) error {
	rows := make([]*models.WellnessEntry, 0, len(athletes)*7)
	for _, athlete := range athletes {
		for d := 6; d >= 0; d-- {
			date := today.AddDate(0, 0, -d)
			energy := 4 + rng.Intn(6)
			sleep := 4 + rng.Intn(6)
			stress := 2 + rng.Intn(6)
			doms := 1 + rng.Intn(7)
			pain := rng.Intn(4)

			rows = append(rows, &models.WellnessEntry{
				AthleteID:    athlete.ID,
				Date:         date,
				Energy:       &energy,
				SleepQuality: &sleep,
				Stress:       &stress,
				DOMS:         &doms,
				Pain:         &pain,
				CreatedAt:    date,
			})
		}
	}
	if err := s.repo.CreateWellnessBatch(ctx, rows); err != nil {
		s.metrics.RecordSeedError("create_wellness")
		return fmt.Errorf("failed to create wellness entries: %w", err)
	}
	result.Wellness = len(rows)
	return nil
}

func (s *SeedService) seedInjuries(ctx context.Context, rng *rand.Rand, athletes []*models.Athlete, today time.Time, result *SeedResult) error {
	injuryTypes := []string{"muscle strain", "ankle sprain", "knee overload", "bruise"}
	bodyParts := []string{"hamstring", "ankle", "knee", "quadriceps", "calf"}
	severities := []string{"minor", "moderate"}

	for _, athlete := range athletes {
		if rng.Float64() > 0.15 {
			continue
		}

		occurred := today.AddDate(0, 0, -rng.Intn(21))
		bodyPart := bodyParts[rng.Intn(len(bodyParts))]
		severity := severities[rng.Intn(len(severities))]
		status := models.InjuryActive
		if rng.Float64() > 0.5 {
			status = models.InjuryRecovery
		}

		injury := &models.Injury{
			AthleteID:    athlete.ID,
			InjuryType:   injuryTypes[rng.Intn(len(injuryTypes))],
			BodyPart:     &bodyPart,
			DateOccurred: occurred,
			Status:       status,
			Severity:     &severity,
			CreatedAt:    occurred,
		}
		if err := s.repo.CreateInjury(ctx, injury); err != nil {
			s.metrics.RecordSeedError("create_injury")
			return fmt.Errorf("failed to create injury: %w", err)
		}
		result.Injuries++
	}
	return nil
}

// seedMatches writes one fixture per week: past weeks completed with a score,
// plus one upcoming fixture next weekend.
func (s *SeedService) seedMatches(ctx context.Context, rng *rand.Rand, teamID int64, today time.Time, weeks int, result *SeedResult) error {
	homeAway := []string{"home", "away"}

	for w := weeks; w >= -1; w-- {
		date := today.AddDate(0, 0, -7*w+6)
		match := &models.Match{
			TeamID:    teamID,
			Date:      date,
			Opponent:  seedOpponents[rng.Intn(len(seedOpponents))],
			HomeAway:  homeAway[rng.Intn(2)],
			Status:    models.MatchUpcoming,
			CreatedAt: today,
		}

		if !date.After(today) {
			scoreHome := rng.Intn(4)
			scoreAway := rng.Intn(4)
			match.Status = models.MatchCompleted
			match.ScoreHome = &scoreHome
			match.ScoreAway = &scoreAway

			ours, theirs := scoreHome, scoreAway
			if match.HomeAway == "away" {
				ours, theirs = scoreAway, scoreHome
			}
			res := models.ResultDraw
			if ours > theirs {
				res = models.ResultWin
			} else if ours < theirs {
				res = models.ResultLoss
			}
			match.Result = &res
		}

		if err := s.repo.CreateMatch(ctx, match); err != nil {
			s.metrics.RecordSeedError("create_match")
			return fmt.Errorf("failed to create match: %w", err)
		}
		result.Matches++
	}
	return nil
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
