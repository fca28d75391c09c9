package models

// Derived, output-only value objects. None of these are persisted; every report
// is rebuilt per request from a fresh snapshot of the entity tables.

// TrainingLoadReport bundles the workload-management triad for a team.
type TrainingLoadReport struct {
	ACWR        float64       `json:"acwr"`
	AcuteLoad   float64       `json:"acute_load"`
	ChronicLoad float64       `json:"chronic_load"`
	Monotony    float64       `json:"monotony"`
	Strain      float64       `json:"strain"`
	Risk        string        `json:"risk"`
	RiskLabel   string        `json:"risk_label"`
	RiskColor   string        `json:"risk_color"`
	WeeklyTrend []WeeklyLoad  `json:"weekly_trend"`
	AthleteLoad []AthleteLoad `json:"athlete_loads"`
}

// WeeklyLoad is one bar of the backward-looking weekly trend chart.
type WeeklyLoad struct {
	Week     string  `json:"week"`
	Load     float64 `json:"load"`
	Sessions int     `json:"sessions"`
	AvgDaily float64 `json:"avg_daily"`
}

// AthleteLoad is the trailing 7-day workload of a single athlete.
type AthleteLoad struct {
	AthleteID int64   `json:"athlete_id"`
	Name      string  `json:"name"`
	Load      float64 `json:"load"`
	Sessions  int     `json:"sessions"`
}

// ReadinessAdvice is the rule engine's training-intensity recommendation.
type ReadinessAdvice struct {
	Intensity         string        `json:"intensity"`
	IntensityReason   string        `json:"intensity_reason"`
	SuggestedDuration int           `json:"suggested_duration"`
	FocusAreas        []string      `json:"focus_areas"`
	Warnings          []string      `json:"warnings"`
	RecoveryScore     int           `json:"recovery_score"`
	ReadinessScore    int           `json:"readiness_score"`
	Metrics           AdviceMetrics `json:"metrics"`
}

// AdviceMetrics echoes the trailing 7-day inputs the advice was derived from.
// AvgRPE is nil when neither session-level nor attendance-level RPE exists.
type AdviceMetrics struct {
	AvgEnergy        float64  `json:"avg_energy"`
	AvgStress        float64  `json:"avg_stress"`
	AvgSleep         float64  `json:"avg_sleep"`
	AvgDOMS          float64  `json:"avg_doms"`
	InjuryCount      int      `json:"injury_count"`
	SessionsThisWeek int      `json:"sessions_this_week"`
	AvgRPE           *float64 `json:"avg_rpe"`
}

// TeamStats is the headline dashboard payload.
type TeamStats struct {
	KPIs              TeamKPIs      `json:"kpis"`
	WeeklyTrend       []WeekSummary `json:"weekly_trend"`
	AvgAttendanceRate float64       `json:"avg_attendance_rate"`
	TeamHealth        TeamHealth    `json:"team_health"`
}

// TeamKPIs are the headline team statistics.
type TeamKPIs struct {
	TotalAthletes      int     `json:"total_athletes"`
	TotalSessions      int     `json:"total_sessions"`
	TotalMatches       int     `json:"total_matches"`
	WinRate            float64 `json:"win_rate"`
	AvgSessionDuration float64 `json:"avg_session_duration"`
	CompletedSessions  int     `json:"completed_sessions"`
}

// WeekSummary is one ISO week of the 4-week KPI trend, oldest first.
type WeekSummary struct {
	Week     string   `json:"week"`
	Sessions int      `json:"sessions"`
	Matches  int      `json:"matches"`
	AvgRPE   *float64 `json:"avg_rpe"`
}

// TeamHealth breaks the roster down by availability status.
type TeamHealth struct {
	AthletesAvailable   int `json:"athletes_available"`
	AthletesAttention   int `json:"athletes_attention"`
	AthletesUnavailable int `json:"athletes_unavailable"`
}

// AthleteSummary is the per-athlete workload card.
type AthleteSummary struct {
	AthleteID        int64   `json:"athlete_id"`
	Name             string  `json:"name"`
	WeeklyLoad       float64 `json:"weekly_load"`
	SessionsAttended int     `json:"sessions_attended"`
	TotalSessions    int     `json:"total_sessions"`
	AttendancePct    float64 `json:"attendance_pct"`
	ActiveInjuries   int     `json:"active_injuries"`
}
