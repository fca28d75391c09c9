package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"coach-partner/internal/models"
)

// Risk zone keys and display metadata. Thresholds are evaluated in order and
// the optimal band is inclusive on both ends.
const (
	RiskUndertraining = "undertraining"
	RiskOptimal       = "optimal"
	RiskCaution       = "caution"
	RiskDanger        = "danger"
)

// RiskZone classifies an ACWR value and returns the zone key, a human label
// and a display color.
func RiskZone(acwr float64) (key, label, color string) {
	switch {
	case acwr < 0.80:
		return RiskUndertraining, "Undertraining", "#3B82F6"
	case acwr <= 1.30:
		return RiskOptimal, "Optimal", "#22C55E"
	case acwr <= 1.50:
		return RiskCaution, "Caution", "#EAB308"
	default:
		return RiskDanger, "High Risk", "#EF4444"
	}
}

// Monotony is mean/population-stddev of the acute-window daily loads. It is
// defined as 0 when fewer than 2 days carried load, or when the values have no
// variance. Returning 0 instead of NaN/Inf is a policy the downstream
// consumers depend on, not a bug.
func Monotony(values []float64) float64 {
	nonZero := 0
	for _, v := range values {
		if v != 0 {
			nonZero++
		}
	}
	if nonZero < 2 {
		return 0
	}
	stddev := stat.PopStdDev(values, nil)
	if stddev == 0 {
		return 0
	}
	return round2(stat.Mean(values, nil) / stddev)
}

// LoadInputs is the snapshot the training-load report is computed from.
// Sessions must cover at least TrendLookbackDays before AsOf; attendance rows
// outside the acute window are ignored, so passing extra rows is harmless.
type LoadInputs struct {
	AsOf       time.Time
	Sessions   []*models.TrainingSession
	Attendance []*models.Attendance
	Athletes   []*models.Athlete
}

// BuildTrainingLoad computes the ACWR/monotony/strain report for one team.
func BuildTrainingLoad(in LoadInputs) *models.TrainingLoadReport {
	asOf := Day(in.AsOf)
	loads := DailyLoads(in.Sessions, asOf, TrendLookbackDays)

	acuteTotal, acuteValues := Window(loads, asOf, AcuteWindowDays)
	chronicTotal, _ := Window(loads, asOf, ChronicWindowDays)

	acuteAvg := acuteTotal / AcuteWindowDays
	chronicAvg := chronicTotal / ChronicWindowDays

	// ACWR is 0 when there is no chronic base to compare against.
	acwr := 0.0
	if chronicAvg != 0 {
		acwr = round2(acuteAvg / chronicAvg)
	}

	monotony := Monotony(acuteValues)
	strain := math.Round(acuteTotal * monotony)
	risk, label, color := RiskZone(acwr)

	return &models.TrainingLoadReport{
		ACWR:        acwr,
		AcuteLoad:   round2(acuteTotal),
		ChronicLoad: round2(chronicTotal),
		Monotony:    monotony,
		Strain:      strain,
		Risk:        risk,
		RiskLabel:   label,
		RiskColor:   color,
		WeeklyTrend: weeklyTrend(in.Sessions, loads, asOf),
		AthleteLoad: athleteLoads(in, asOf),
	}
}

// weeklyTrend reports the last TrendWeeks trailing 7-day windows, oldest
// first, each anchored a whole week before the previous one.
func weeklyTrend(sessions []*models.TrainingSession, loads map[string]float64, asOf time.Time) []models.WeeklyLoad {
	trend := make([]models.WeeklyLoad, 0, TrendWeeks)
	for w := TrendWeeks - 1; w >= 0; w-- {
		anchor := asOf.AddDate(0, 0, -7*w)
		start := anchor.AddDate(0, 0, -(AcuteWindowDays - 1))

		total, _ := Window(loads, anchor, AcuteWindowDays)

		count := 0
		for _, s := range sessions {
			day := Day(s.Date)
			if !day.Before(start) && !day.After(anchor) {
				count++
			}
		}

		isoYear, isoWeek := start.ISOWeek()
		trend = append(trend, models.WeeklyLoad{
			Week:     fmt.Sprintf("%d-W%02d", isoYear, isoWeek),
			Load:     round2(total),
			Sessions: count,
			AvgDaily: round1(total / AcuteWindowDays),
		})
	}
	return trend
}

// athleteLoads breaks the trailing 7 days down per athlete from attendance
// rows: (rpe or 5) x (minutes_trained or session duration or 60), summed and
// sorted descending by load.
func athleteLoads(in LoadInputs, asOf time.Time) []models.AthleteLoad {
	start := asOf.AddDate(0, 0, -(AcuteWindowDays - 1))

	acuteSessions := make(map[int64]*models.TrainingSession)
	for _, s := range in.Sessions {
		day := Day(s.Date)
		if !day.Before(start) && !day.After(asOf) {
			acuteSessions[s.ID] = s
		}
	}

	byAthlete := make(map[int64]*models.AthleteLoad)
	for _, a := range in.Athletes {
		byAthlete[a.ID] = &models.AthleteLoad{AthleteID: a.ID, Name: a.FullName()}
	}

	for _, att := range in.Attendance {
		session, ok := acuteSessions[att.TrainingSessionID]
		if !ok {
			continue
		}
		entry, ok := byAthlete[att.AthleteID]
		if !ok {
			continue
		}

		rpe := DefaultRPE
		if att.RPE != nil {
			rpe = *att.RPE
		}
		minutes := DefaultDurationMinutes
		if att.MinutesTrained != nil {
			minutes = *att.MinutesTrained
		} else if session.DurationMinutes != nil {
			minutes = *session.DurationMinutes
		}

		entry.Load += rpe * float64(minutes)
		entry.Sessions++
	}

	result := make([]models.AthleteLoad, 0, len(byAthlete))
	for _, entry := range byAthlete {
		entry.Load = round2(entry.Load)
		result = append(result, *entry)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Load != result[j].Load {
			return result[i].Load > result[j].Load
		}
		return result[i].Name < result[j].Name
	})
	return result
}
