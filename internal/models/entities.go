package models

import (
	"fmt"
	"time"
)

// Attendance status values.
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
	AttendanceInjured = "injured"
)

// Athlete status values.
const (
	AthleteAvailable   = "available"
	AthleteAttention   = "attention"
	AthleteUnavailable = "unavailable"
)

// Injury status values. An injury counts as active while it is not cleared.
const (
	InjuryActive   = "active"
	InjuryRecovery = "recovery"
	InjuryCleared  = "cleared"
)

// Training session status values.
const (
	SessionPlanned    = "planned"
	SessionInProgress = "in_progress"
	SessionCompleted  = "completed"
)

// Match status and result values.
const (
	MatchUpcoming  = "upcoming"
	MatchCompleted = "completed"

	ResultWin  = "win"
	ResultDraw = "draw"
	ResultLoss = "loss"
)

// Team represents a coached team. The analytics engine only needs its identity;
// ownership checks against CoachID happen before the engine runs.
type Team struct {
	ID        int64     `json:"id" db:"id"`
	CoachID   int64     `json:"coach_id" db:"coach_id"`
	Name      string    `json:"name" db:"name"`
	Sport     string    `json:"sport" db:"sport"`
	Season    *string   `json:"season,omitempty" db:"season"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Athlete is a roster member of a team.
type Athlete struct {
	ID           int64      `json:"id" db:"id"`
	TeamID       int64      `json:"team_id" db:"team_id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	BirthDate    *time.Time `json:"birth_date,omitempty" db:"birth_date"`
	JerseyNumber *int       `json:"jersey_number,omitempty" db:"jersey_number"`
	Position     *string    `json:"position,omitempty" db:"position"`
	Status       string     `json:"status" db:"status"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// FullName returns the athlete's display name.
func (a *Athlete) FullName() string {
	return a.FirstName + " " + a.LastName
}

// TrainingSession is a planned or completed training for a team.
// NULL columns are pointers; the analytics layer substitutes defaults
// (RPE 5, 60 minutes) instead of erroring on missing samples.
type TrainingSession struct {
	ID              int64      `json:"id" db:"id"`
	TeamID          int64      `json:"team_id" db:"team_id"`
	Date            time.Time  `json:"date" db:"date"`
	DurationMinutes *int       `json:"duration_minutes,omitempty" db:"duration_minutes"`
	Title           *string    `json:"title,omitempty" db:"title"`
	Status          string     `json:"status" db:"status"`
	RPEAvg          *float64   `json:"rpe_avg,omitempty" db:"rpe_avg"`
	SessionRating   *int       `json:"session_rating,omitempty" db:"session_rating"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Attendance records one athlete's participation in one session.
type Attendance struct {
	ID                int64     `json:"id" db:"id"`
	AthleteID         int64     `json:"athlete_id" db:"athlete_id"`
	TrainingSessionID int64     `json:"training_session_id" db:"training_session_id"`
	Status            string    `json:"status" db:"status"`
	RPE               *float64  `json:"rpe,omitempty" db:"rpe"`
	MinutesTrained    *int      `json:"minutes_trained,omitempty" db:"minutes_trained"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// AttendanceWithSession is an attendance row joined with its session's date and
// duration, as returned by per-athlete range queries.
type AttendanceWithSession struct {
	Attendance
	SessionDate     time.Time `json:"session_date" db:"session_date"`
	SessionDuration *int      `json:"session_duration,omitempty" db:"session_duration"`
}

// WellnessEntry is an athlete's daily self-report. All sliders are 1-10.
type WellnessEntry struct {
	ID           int64     `json:"id" db:"id"`
	AthleteID    int64     `json:"athlete_id" db:"athlete_id"`
	Date         time.Time `json:"date" db:"date"`
	Energy       *int      `json:"energy,omitempty" db:"energy"`
	SleepQuality *int      `json:"sleep_quality,omitempty" db:"sleep_quality"`
	Stress       *int      `json:"stress,omitempty" db:"stress"`
	DOMS         *int      `json:"doms,omitempty" db:"doms"`
	Pain         *int      `json:"pain,omitempty" db:"pain"`
	Mood         *string   `json:"mood,omitempty" db:"mood"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Injury tracks an athlete injury through active/recovery/cleared.
type Injury struct {
	ID           int64      `json:"id" db:"id"`
	AthleteID    int64      `json:"athlete_id" db:"athlete_id"`
	InjuryType   string     `json:"injury_type" db:"injury_type"`
	BodyPart     *string    `json:"body_part,omitempty" db:"body_part"`
	DateOccurred time.Time  `json:"date_occurred" db:"date_occurred"`
	DateReturn   *time.Time `json:"date_return,omitempty" db:"date_return"`
	Status       string     `json:"status" db:"status"`
	Severity     *string    `json:"severity,omitempty" db:"severity"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Active reports whether the injury still limits the athlete.
func (i *Injury) Active() bool {
	return i.Status != InjuryCleared
}

// Match is a competitive fixture. Result is set only once completed.
type Match struct {
	ID        int64     `json:"id" db:"id"`
	TeamID    int64     `json:"team_id" db:"team_id"`
	Date      time.Time `json:"date" db:"date"`
	Opponent  string    `json:"opponent" db:"opponent"`
	HomeAway  string    `json:"home_away" db:"home_away"`
	Status    string    `json:"status" db:"status"`
	ScoreHome *int      `json:"score_home,omitempty" db:"score_home"`
	ScoreAway *int      `json:"score_away,omitempty" db:"score_away"`
	Result    *string   `json:"result,omitempty" db:"result"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// DayFormat is the canonical calendar-day layout used for load keys and the
// as_of query parameter.
const DayFormat = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(value string) (time.Time, error) {
	day, err := time.Parse(DayFormat, value)
	if err != nil {
		return time.Time{}, &ValidationError{
			Field:   "date",
			Value:   value,
			Message: "invalid date format, expected YYYY-MM-DD",
		}
	}
	return day, nil
}

// ValidationError represents a request or data validation error.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsTransient returns false as validation errors are permanent.
func (e *ValidationError) IsTransient() bool {
	return false
}
