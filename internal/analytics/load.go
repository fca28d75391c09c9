// Package analytics implements the training-load and readiness computation
// layer. Every function is pure: inputs are entity snapshots plus an explicit
// as-of date, outputs are value objects ready for JSON serialization. Nothing
// here touches the clock, the store, or any shared state, so two calls with
// the same inputs return identical results.
package analytics

import (
	"math"
	"time"

	"coach-partner/internal/models"
)

// Deterministic defaults substituted for missing samples. Missing data is
// never an error in this layer.
const (
	DefaultRPE             = 5.0
	DefaultDurationMinutes = 60
)

// Window lengths, in calendar days. A trailing N-day window ending at day D
// covers [D-(N-1), D]: the as-of day itself counts, the day exactly N days
// before it does not.
const (
	AcuteWindowDays   = 7
	ChronicWindowDays = 28
	TrendWeeks        = 6

	// LoadLookbackDays is the span of session history the ACWR windows need.
	LoadLookbackDays = 35

	// TrendLookbackDays covers the oldest weekly-trend window as well.
	TrendLookbackDays = TrendWeeks * 7
)

// Day truncates a timestamp to its UTC calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// SessionLoad computes the session-RPE load of one training session:
// (rpe_avg or 5) x (duration_minutes or 60).
func SessionLoad(s *models.TrainingSession) float64 {
	rpe := DefaultRPE
	if s.RPEAvg != nil {
		rpe = *s.RPEAvg
	}
	minutes := DefaultDurationMinutes
	if s.DurationMinutes != nil {
		minutes = *s.DurationMinutes
	}
	return rpe * float64(minutes)
}

// DailyLoads accumulates session loads by calendar day over [end-lookback, end].
// Sessions sharing a day are summed. Days without sessions are absent from the
// map and read as zero by the window extractor.
func DailyLoads(sessions []*models.TrainingSession, end time.Time, lookbackDays int) map[string]float64 {
	end = Day(end)
	start := end.AddDate(0, 0, -lookbackDays)

	loads := make(map[string]float64)
	for _, s := range sessions {
		day := Day(s.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		loads[day.Format(models.DayFormat)] += SessionLoad(s)
	}
	return loads
}

// Window sums the trailing N-day window of daily loads ending at (and
// including) end. It also returns the individual daily values, most recent
// first, which the monotony computation needs. Missing days resolve to 0.
func Window(loads map[string]float64, end time.Time, days int) (total float64, values []float64) {
	end = Day(end)
	values = make([]float64, 0, days)
	for offset := 0; offset < days; offset++ {
		day := end.AddDate(0, 0, -offset)
		load := loads[day.Format(models.DayFormat)]
		values = append(values, load)
		total += load
	}
	return total, values
}

// round2 rounds half away from zero to 2 decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// round1 rounds half away from zero to 1 decimal.
func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
