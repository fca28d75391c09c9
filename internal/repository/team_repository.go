package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"coach-partner/internal/models"
	"coach-partner/pkg/database"
	"coach-partner/pkg/logging"
	"coach-partner/pkg/metrics"
)

// TeamRepository provides read access to the entity store for the analytics
// engine, plus the write paths the seeder uses. The engine itself never
// writes.
type TeamRepository interface {
	// Team and roster
	GetTeam(ctx context.Context, teamID int64) (*models.Team, error)
	GetAthlete(ctx context.Context, athleteID int64) (*models.Athlete, error)
	AthletesOfTeam(ctx context.Context, teamID int64) ([]*models.Athlete, error)

	// Sessions and attendance
	SessionsInRange(ctx context.Context, teamID int64, start, end time.Time) ([]*models.TrainingSession, error)
	SessionsOfTeam(ctx context.Context, teamID int64) ([]*models.TrainingSession, error)
	CountTeamSessions(ctx context.Context, teamID int64) (int, error)
	AttendanceForSessions(ctx context.Context, sessionIDs []int64) ([]*models.Attendance, error)
	AttendanceForAthleteInRange(ctx context.Context, athleteID int64, start, end time.Time) ([]*models.AttendanceWithSession, error)
	CountAthleteAttendance(ctx context.Context, athleteID int64, status string) (int, error)

	// Wellness, injuries, matches
	WellnessInRange(ctx context.Context, athleteIDs []int64, start, end time.Time) ([]*models.WellnessEntry, error)
	ActiveInjuries(ctx context.Context, athleteIDs []int64) ([]*models.Injury, error)
	MatchesOfTeam(ctx context.Context, teamID int64, status string) ([]*models.Match, error)

	// Seeding writes
	CreateTeam(ctx context.Context, team *models.Team) error
	CreateAthlete(ctx context.Context, athlete *models.Athlete) error
	CreateSession(ctx context.Context, session *models.TrainingSession) error
	CreateAttendanceBatch(ctx context.Context, rows []*models.Attendance) error
	CreateWellnessBatch(ctx context.Context, rows []*models.WellnessEntry) error
	CreateInjury(ctx context.Context, injury *models.Injury) error
	CreateMatch(ctx context.Context, match *models.Match) error

	HealthCheck(ctx context.Context) error
}

// teamRepository implements TeamRepository over Postgres.
type teamRepository struct {
	db      *database.PostgresDB
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// NewTeamRepository creates a new team repository.
func NewTeamRepository(db *database.PostgresDB, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) TeamRepository {
	return &teamRepository{
		db:      db,
		logger:  logger,
		metrics: metricsCollector,
	}
}

// GetTeam retrieves a team by ID.
func (r *teamRepository) GetTeam(ctx context.Context, teamID int64) (*models.Team, error) {
	query := `
		SELECT id, coach_id, name, sport, season, created_at, updated_at
		FROM teams
		WHERE id = $1
	`

	var team models.Team
	err := r.db.GetContext(ctx, "get_team", &team, query, teamID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "team", ID: fmt.Sprintf("%d", teamID)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}

	return &team, nil
}

// GetAthlete retrieves an athlete by ID.
func (r *teamRepository) GetAthlete(ctx context.Context, athleteID int64) (*models.Athlete, error) {
	query := `
		SELECT id, team_id, first_name, last_name, birth_date, jersey_number,
		       position, status, created_at, updated_at
		FROM athletes
		WHERE id = $1
	`

	var athlete models.Athlete
	err := r.db.GetContext(ctx, "get_athlete", &athlete, query, athleteID)

	if err == sql.ErrNoRows {
		return nil, &NotFoundError{Resource: "athlete", ID: fmt.Sprintf("%d", athleteID)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get athlete: %w", err)
	}

	return &athlete, nil
}

// AthletesOfTeam retrieves the full roster of a team.
func (r *teamRepository) AthletesOfTeam(ctx context.Context, teamID int64) ([]*models.Athlete, error) {
	query := `
		SELECT id, team_id, first_name, last_name, birth_date, jersey_number,
		       position, status, created_at, updated_at
		FROM athletes
		WHERE team_id = $1
		ORDER BY last_name, first_name
	`

	var athletes []*models.Athlete
	if err := r.db.SelectContext(ctx, "athletes_of_team", &athletes, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list athletes: %w", err)
	}
	return athletes, nil
}

// SessionsInRange retrieves training sessions with dates in [start, end].
func (r *teamRepository) SessionsInRange(ctx context.Context, teamID int64, start, end time.Time) ([]*models.TrainingSession, error) {
	query := `
		SELECT id, team_id, date, duration_minutes, title, status, rpe_avg,
		       session_rating, created_at
		FROM training_sessions
		WHERE team_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	var sessions []*models.TrainingSession
	if err := r.db.SelectContext(ctx, "sessions_in_range", &sessions, query, teamID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list sessions in range: %w", err)
	}
	return sessions, nil
}

// SessionsOfTeam retrieves all training sessions of a team.
func (r *teamRepository) SessionsOfTeam(ctx context.Context, teamID int64) ([]*models.TrainingSession, error) {
	query := `
		SELECT id, team_id, date, duration_minutes, title, status, rpe_avg,
		       session_rating, created_at
		FROM training_sessions
		WHERE team_id = $1
		ORDER BY date
	`

	var sessions []*models.TrainingSession
	if err := r.db.SelectContext(ctx, "sessions_of_team", &sessions, query, teamID); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// CountTeamSessions counts all training sessions of a team.
func (r *teamRepository) CountTeamSessions(ctx context.Context, teamID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, "count_team_sessions", &count,
		`SELECT COUNT(*) FROM training_sessions WHERE team_id = $1`, teamID)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

// AttendanceForSessions retrieves all attendance rows for a set of sessions.
func (r *teamRepository) AttendanceForSessions(ctx context.Context, sessionIDs []int64) ([]*models.Attendance, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, athlete_id, training_session_id, status, rpe, minutes_trained, created_at
		FROM attendances
		WHERE training_session_id IN (?)
	`, sessionIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to build attendance query: %w", err)
	}
	query = r.db.DB().Rebind(query)

	var rows []*models.Attendance
	if err := r.db.SelectContext(ctx, "attendance_for_sessions", &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return rows, nil
}

// AttendanceForAthleteInRange retrieves one athlete's attendance joined with
// the session date and duration, for sessions dated in [start, end].
func (r *teamRepository) AttendanceForAthleteInRange(ctx context.Context, athleteID int64, start, end time.Time) ([]*models.AttendanceWithSession, error) {
	query := `
		SELECT a.id, a.athlete_id, a.training_session_id, a.status, a.rpe,
		       a.minutes_trained, a.created_at,
		       s.date AS session_date, s.duration_minutes AS session_duration
		FROM attendances a
		JOIN training_sessions s ON s.id = a.training_session_id
		WHERE a.athlete_id = $1 AND s.date >= $2 AND s.date <= $3
		ORDER BY s.date
	`

	var rows []*models.AttendanceWithSession
	if err := r.db.SelectContext(ctx, "attendance_for_athlete", &rows, query, athleteID, start, end); err != nil {
		return nil, fmt.Errorf("failed to list athlete attendance: %w", err)
	}
	return rows, nil
}

// CountAthleteAttendance counts an athlete's attendance rows with a status.
func (r *teamRepository) CountAthleteAttendance(ctx context.Context, athleteID int64, status string) (int, error) {
	var count int
	err := r.db.GetContext(ctx, "count_athlete_attendance", &count,
		`SELECT COUNT(*) FROM attendances WHERE athlete_id = $1 AND status = $2`,
		athleteID, status)
	if err != nil {
		return 0, fmt.Errorf("failed to count attendance: %w", err)
	}
	return count, nil
}

// WellnessInRange retrieves wellness entries for a set of athletes with dates
// in [start, end].
func (r *teamRepository) WellnessInRange(ctx context.Context, athleteIDs []int64, start, end time.Time) ([]*models.WellnessEntry, error) {
	if len(athleteIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, athlete_id, date, energy, sleep_quality, stress, doms, pain,
		       mood, created_at
		FROM wellness_entries
		WHERE athlete_id IN (?) AND date >= ? AND date <= ?
	`, athleteIDs, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to build wellness query: %w", err)
	}
	query = r.db.DB().Rebind(query)

	var rows []*models.WellnessEntry
	if err := r.db.SelectContext(ctx, "wellness_in_range", &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list wellness entries: %w", err)
	}
	return rows, nil
}

// ActiveInjuries retrieves the not-yet-cleared injuries of a set of athletes.
func (r *teamRepository) ActiveInjuries(ctx context.Context, athleteIDs []int64) ([]*models.Injury, error) {
	if len(athleteIDs) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT id, athlete_id, injury_type, body_part, date_occurred, date_return,
		       status, severity, created_at
		FROM injuries
		WHERE athlete_id IN (?) AND status <> ?
	`, athleteIDs, models.InjuryCleared)
	if err != nil {
		return nil, fmt.Errorf("failed to build injuries query: %w", err)
	}
	query = r.db.DB().Rebind(query)

	var rows []*models.Injury
	if err := r.db.SelectContext(ctx, "active_injuries", &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list injuries: %w", err)
	}
	return rows, nil
}

// MatchesOfTeam retrieves a team's matches, optionally filtered by status.
func (r *teamRepository) MatchesOfTeam(ctx context.Context, teamID int64, status string) ([]*models.Match, error) {
	query := `
		SELECT id, team_id, date, opponent, home_away, status, score_home,
		       score_away, result, created_at
		FROM matches
		WHERE team_id = $1
	`
	args := []interface{}{teamID}

	if status != "" {
		query += " AND status = $2"
		args = append(args, status)
	}
	query += " ORDER BY date"

	var matches []*models.Match
	if err := r.db.SelectContext(ctx, "matches_of_team", &matches, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// CreateTeam creates a new team.
func (r *teamRepository) CreateTeam(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (coach_id, name, sport, season, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		team.CoachID, team.Name, team.Sport, team.Season,
		team.CreatedAt, team.UpdatedAt,
	).Scan(&team.ID)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// CreateAthlete creates a new athlete.
func (r *teamRepository) CreateAthlete(ctx context.Context, athlete *models.Athlete) error {
	query := `
		INSERT INTO athletes (team_id, first_name, last_name, birth_date,
		                      jersey_number, position, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		athlete.TeamID, athlete.FirstName, athlete.LastName, athlete.BirthDate,
		athlete.JerseyNumber, athlete.Position, athlete.Status,
		athlete.CreatedAt, athlete.UpdatedAt,
	).Scan(&athlete.ID)
	if err != nil {
		return fmt.Errorf("failed to create athlete: %w", err)
	}
	return nil
}

// CreateSession creates a new training session.
func (r *teamRepository) CreateSession(ctx context.Context, session *models.TrainingSession) error {
	query := `
		INSERT INTO training_sessions (team_id, date, duration_minutes, title,
		                               status, rpe_avg, session_rating, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		session.TeamID, session.Date, session.DurationMinutes, session.Title,
		session.Status, session.RPEAvg, session.SessionRating, session.CreatedAt,
	).Scan(&session.ID)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// CreateAttendanceBatch inserts attendance rows in a single transaction.
func (r *teamRepository) CreateAttendanceBatch(ctx context.Context, rows []*models.Attendance) error {
	if len(rows) == 0 {
		return nil
	}

	timer := time.Now()
	defer func() {
		r.metrics.SeedBatchSize.Observe(float64(len(rows)))
		r.logger.Debug(ctx, "[REPO_BATCH_INSERT] Attendance batch inserted", logging.Fields{
			"count":       len(rows),
			"duration_ms": time.Since(timer).Milliseconds(),
		})
	}()

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO attendances (athlete_id, training_session_id, status, rpe,
		                         minutes_trained, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.AthleteID, row.TrainingSessionID, row.Status, row.RPE,
			row.MinutesTrained, row.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert attendance: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.SeedRecordsTotal.Add(float64(len(rows)))
	return nil
}

// CreateWellnessBatch inserts wellness entries in a single transaction.
func (r *teamRepository) CreateWellnessBatch(ctx context.Context, rows []*models.WellnessEntry) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO wellness_entries (athlete_id, date, energy, sleep_quality,
		                              stress, doms, pain, mood, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.AthleteID, row.Date, row.Energy, row.SleepQuality,
			row.Stress, row.DOMS, row.Pain, row.Mood, row.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert wellness entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.metrics.SeedRecordsTotal.Add(float64(len(rows)))
	return nil
}

// CreateInjury creates a new injury record.
func (r *teamRepository) CreateInjury(ctx context.Context, injury *models.Injury) error {
	query := `
		INSERT INTO injuries (athlete_id, injury_type, body_part, date_occurred,
		                      date_return, status, severity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		injury.AthleteID, injury.InjuryType, injury.BodyPart, injury.DateOccurred,
		injury.DateReturn, injury.Status, injury.Severity, injury.CreatedAt,
	).Scan(&injury.ID)
	if err != nil {
		return fmt.Errorf("failed to create injury: %w", err)
	}
	return nil
}

// CreateMatch creates a new match.
func (r *teamRepository) CreateMatch(ctx context.Context, match *models.Match) error {
	query := `
		INSERT INTO matches (team_id, date, opponent, home_away, status,
		                     score_home, score_away, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`

	err := r.db.DB().QueryRowContext(ctx, query,
		match.TeamID, match.Date, match.Opponent, match.HomeAway, match.Status,
		match.ScoreHome, match.ScoreAway, match.Result, match.CreatedAt,
	).Scan(&match.ID)
	if err != nil {
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

// HealthCheck performs a repository health check.
func (r *teamRepository) HealthCheck(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// NotFoundError represents a resource not found error.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *NotFoundError) IsTransient() bool {
	return false
}
