package analytics

import (
	"fmt"
	"math"

	"coach-partner/internal/models"
)

// Training intensity levels, ordered low < medium < high.
const (
	IntensityLow    = "low"
	IntensityMedium = "medium"
	IntensityHigh   = "high"
)

// Suggested session durations per intensity, in minutes.
const (
	DurationLow    = 60
	DurationMedium = 75
	DurationHigh   = 90
)

// Focus area labels. Rule conditions match on these exact strings, so they are
// shared constants rather than inline literals.
const (
	FocusLowIntensity     = "technical/tactical low-intensity work"
	FocusRecovery         = "recovery work"
	FocusInjuryPrevention = "injury prevention"
	FocusActiveRecovery   = "active recovery"
	FocusConditioning     = "physical conditioning"
	FocusHighIntensity    = "high-intensity tactical drills"
	FocusTechnicalDev     = "technical development"
	FocusTacticalWork     = "tactical work"
)

// AdvisorInputs are the trailing 7-day team signals the rule engine runs on.
// Wellness averages default to 5.0 when the window holds no samples; AvgRPE is
// nil when neither session-level nor attendance-level RPE exists.
type AdvisorInputs struct {
	AvgEnergy        float64
	AvgStress        float64
	AvgSleep         float64
	AvgDOMS          float64
	AvgRPE           *float64
	InjuryCount      int
	SessionsThisWeek int
}

// SummarizeWeek condenses the raw trailing-week records into AdvisorInputs.
// The sessions and attendance slices must already be restricted to the acute
// window.
func SummarizeWeek(wellness []*models.WellnessEntry, sessions []*models.TrainingSession, attendance []*models.Attendance, injuryCount int) AdvisorInputs {
	in := AdvisorInputs{
		AvgEnergy:        wellnessAvg(wellness, func(w *models.WellnessEntry) *int { return w.Energy }),
		AvgStress:        wellnessAvg(wellness, func(w *models.WellnessEntry) *int { return w.Stress }),
		AvgSleep:         wellnessAvg(wellness, func(w *models.WellnessEntry) *int { return w.SleepQuality }),
		AvgDOMS:          wellnessAvg(wellness, func(w *models.WellnessEntry) *int { return w.DOMS }),
		InjuryCount:      injuryCount,
		SessionsThisWeek: len(sessions),
	}

	sum, count := 0.0, 0
	for _, s := range sessions {
		if s.RPEAvg != nil {
			sum += *s.RPEAvg
			count++
		}
	}
	if count == 0 {
		for _, att := range attendance {
			if att.RPE != nil {
				sum += *att.RPE
				count++
			}
		}
	}
	if count > 0 {
		avg := round1(sum / float64(count))
		in.AvgRPE = &avg
	}
	return in
}

func wellnessAvg(entries []*models.WellnessEntry, field func(*models.WellnessEntry) *int) float64 {
	sum, count := 0, 0
	for _, w := range entries {
		if v := field(w); v != nil {
			sum += *v
			count++
		}
	}
	if count == 0 {
		return 5.0
	}
	return round1(float64(sum) / float64(count))
}

// ruleOutcome is what a fired rule contributes: an optional intensity
// proposal with its headline reason, focus areas to add, and a warning.
type ruleOutcome struct {
	intensity string
	reason    string
	focus     []string
	warning   string
}

// advisorRule evaluates one signal. Returning nil means the rule did not fire.
type advisorRule struct {
	name string
	eval func(in AdvisorInputs) *ruleOutcome
}

// advisorRules fire in this exact order. Intensity proposals are folded with
// downgrade-only semantics: a later rule can lower the intensity set by an
// earlier one but never raise it, and the first applied proposal owns the
// headline reason.
var advisorRules = []advisorRule{
	{
		name: "low_energy_high_stress",
		eval: func(in AdvisorInputs) *ruleOutcome {
			if in.AvgEnergy >= 4 && in.AvgStress <= 7 {
				return nil
			}
			return &ruleOutcome{
				intensity: IntensityLow,
				reason:    "Low team energy or high stress levels call for a lighter session",
				focus:     []string{FocusLowIntensity, FocusRecovery},
			}
		},
	},
	{
		name: "injury_cluster",
		eval: func(in AdvisorInputs) *ruleOutcome {
			if in.InjuryCount <= 2 {
				return nil
			}
			return &ruleOutcome{
				intensity: IntensityLow,
				reason:    "Several athletes are carrying injuries",
				focus:     []string{FocusInjuryPrevention},
				warning:   fmt.Sprintf("%d athletes have active injuries", in.InjuryCount),
			}
		},
	},
	{
		name: "heavy_week",
		eval: func(in AdvisorInputs) *ruleOutcome {
			if in.SessionsThisWeek < 4 {
				return nil
			}
			return &ruleOutcome{
				intensity: IntensityLow,
				reason:    "Training volume is already high this week",
				focus:     []string{FocusActiveRecovery},
				warning:   fmt.Sprintf("%d sessions already held in the last 7 days", in.SessionsThisWeek),
			}
		},
	},
	{
		name: "high_rpe",
		eval: func(in AdvisorInputs) *ruleOutcome {
			if in.AvgRPE == nil || *in.AvgRPE <= 7 {
				return nil
			}
			return &ruleOutcome{
				intensity: IntensityLow,
				reason:    "Recent sessions have been very demanding",
				focus:     []string{FocusLowIntensity},
				warning:   "Average RPE above 7 over the last week",
			}
		},
	},
}

func intensityRank(intensity string) int {
	switch intensity {
	case IntensityLow:
		return 0
	case IntensityMedium:
		return 1
	default:
		return 2
	}
}

// Advise runs the ordered rule engine over the weekly signals and produces the
// training-intensity recommendation with recovery and readiness scores.
func Advise(in AdvisorInputs) *models.ReadinessAdvice {
	intensity := IntensityMedium
	reason := ""
	var focus []string
	warnings := []string{}

	for _, rule := range advisorRules {
		outcome := rule.eval(in)
		if outcome == nil {
			continue
		}
		if outcome.warning != "" {
			warnings = append(warnings, outcome.warning)
		}
		focus = append(focus, outcome.focus...)
		if outcome.intensity != "" && intensityRank(outcome.intensity) < intensityRank(intensity) {
			intensity = outcome.intensity
			if reason == "" {
				reason = outcome.reason
			}
		}
	}

	// Fallback branch: no rule fired, so the baseline readiness decides. This
	// is the only place intensity may rise above medium.
	if reason == "" {
		switch {
		case in.AvgEnergy >= 7 && in.AvgStress <= 4:
			intensity = IntensityHigh
			reason = "Team is fresh and ready for a demanding session"
			focus = append(focus, FocusConditioning, FocusHighIntensity)
		case in.AvgEnergy >= 5:
			intensity = IntensityMedium
			reason = "Normal readiness levels"
			focus = append(focus, FocusTechnicalDev, FocusTacticalWork)
		default:
			intensity = IntensityLow
			reason = "Energy levels are below average"
			focus = append(focus, FocusLowIntensity)
		}
	}

	// Supplementary adjustments, independent of the intensity fold.
	if in.AvgEnergy < 5 && !contains(focus, FocusConditioning) {
		focus = append(focus, FocusLowIntensity)
	}
	if in.AvgDOMS > 6 {
		warnings = append(warnings, "Muscle soreness is elevated across the team")
		if !contains(focus, FocusRecovery) {
			focus = append(focus, FocusRecovery)
		}
	}
	if in.AvgSleep < 5 {
		warnings = append(warnings, "Sleep quality is below average")
	}

	return &models.ReadinessAdvice{
		Intensity:         intensity,
		IntensityReason:   reason,
		SuggestedDuration: suggestedDuration(intensity),
		FocusAreas:        dedupe(focus),
		Warnings:          warnings,
		RecoveryScore:     recoveryScore(in),
		ReadinessScore:    readinessScore(in),
		Metrics: models.AdviceMetrics{
			AvgEnergy:        in.AvgEnergy,
			AvgStress:        in.AvgStress,
			AvgSleep:         in.AvgSleep,
			AvgDOMS:          in.AvgDOMS,
			InjuryCount:      in.InjuryCount,
			SessionsThisWeek: in.SessionsThisWeek,
			AvgRPE:           in.AvgRPE,
		},
	}
}

func suggestedDuration(intensity string) int {
	switch intensity {
	case IntensityLow:
		return DurationLow
	case IntensityHigh:
		return DurationHigh
	default:
		return DurationMedium
	}
}

// recoveryScore blends energy, sleep and inverted stress into a 1-10 score.
func recoveryScore(in AdvisorInputs) int {
	return clampScore((in.AvgEnergy + in.AvgSleep + (11 - in.AvgStress)) / 3)
}

// readinessScore extends the recovery blend with inverted soreness and
// penalties for recent exertion, training volume and active injuries.
func readinessScore(in AdvisorInputs) int {
	base := (in.AvgEnergy + in.AvgSleep + (11 - in.AvgStress) + (11 - in.AvgDOMS)) / 4

	rpePenalty := 0.0
	if in.AvgRPE != nil {
		rpePenalty = math.Max(0, *in.AvgRPE-5) * 0.5
	}
	sessionPenalty := math.Max(0, float64(in.SessionsThisWeek-3)) * 0.5
	injuryPenalty := math.Min(float64(in.InjuryCount)*0.5, 3)

	return clampScore(base - rpePenalty - sessionPenalty - injuryPenalty)
}

// clampScore rounds to the nearest integer and clamps to [1, 10].
func clampScore(x float64) int {
	score := int(math.Round(x))
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func contains(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

// dedupe removes duplicates preserving first-seen order.
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		result = append(result, item)
	}
	return result
}
