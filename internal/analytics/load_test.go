package analytics

import (
	"testing"
	"time"

	"coach-partner/internal/models"
)

func mustDay(t *testing.T, value string) time.Time {
	t.Helper()
	day, err := time.Parse(models.DayFormat, value)
	if err != nil {
		t.Fatalf("bad day %q: %v", value, err)
	}
	return day
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func session(t *testing.T, day string, rpe *float64, minutes *int) *models.TrainingSession {
	t.Helper()
	return &models.TrainingSession{
		Date:            mustDay(t, day),
		RPEAvg:          rpe,
		DurationMinutes: minutes,
		Status:          models.SessionCompleted,
	}
}

func TestSessionLoad(t *testing.T) {
	tests := []struct {
		name    string
		rpe     *float64
		minutes *int
		want    float64
	}{
		{"both present", fptr(8), iptr(90), 720},
		{"missing rpe defaults to 5", nil, iptr(90), 450},
		{"missing duration defaults to 60", fptr(8), nil, 480},
		{"both missing", nil, nil, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &models.TrainingSession{RPEAvg: tt.rpe, DurationMinutes: tt.minutes}
			if got := SessionLoad(s); got != tt.want {
				t.Errorf("SessionLoad() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDailyLoadsSumsSameDaySessions(t *testing.T) {
	end := mustDay(t, "2026-03-01")
	sessions := []*models.TrainingSession{
		session(t, "2026-03-01", fptr(6), iptr(60)),
		session(t, "2026-03-01", fptr(4), iptr(30)),
		session(t, "2026-02-20", fptr(5), iptr(60)),
	}

	loads := DailyLoads(sessions, end, LoadLookbackDays)

	if got := loads["2026-03-01"]; got != 480 {
		t.Errorf("loads[2026-03-01] = %v, want 480", got)
	}
	if got := loads["2026-02-20"]; got != 300 {
		t.Errorf("loads[2026-02-20] = %v, want 300", got)
	}
	if _, ok := loads["2026-02-25"]; ok {
		t.Error("day without sessions should be absent from the map")
	}
}

func TestDailyLoadsIgnoresSessionsOutsideLookback(t *testing.T) {
	end := mustDay(t, "2026-03-01")
	sessions := []*models.TrainingSession{
		session(t, "2025-12-01", fptr(9), iptr(120)),
		session(t, "2026-03-05", fptr(9), iptr(120)),
	}

	loads := DailyLoads(sessions, end, LoadLookbackDays)

	if len(loads) != 0 {
		t.Errorf("expected empty map, got %v", loads)
	}
}

func TestWindowBoundaries(t *testing.T) {
	end := mustDay(t, "2026-03-01")

	// One session on each boundary candidate: as-of day, 6 days back (inside),
	// 7 days back (outside the 7-day window).
	sessions := []*models.TrainingSession{
		session(t, "2026-03-01", fptr(5), iptr(60)),
		session(t, "2026-02-23", fptr(5), iptr(60)),
		session(t, "2026-02-22", fptr(5), iptr(60)),
	}
	loads := DailyLoads(sessions, end, LoadLookbackDays)

	total, values := Window(loads, end, AcuteWindowDays)

	if total != 600 {
		t.Errorf("acute total = %v, want 600: the day exactly 7 days back must not count", total)
	}
	if len(values) != AcuteWindowDays {
		t.Fatalf("len(values) = %d, want %d", len(values), AcuteWindowDays)
	}
	// Most recent first: index 0 is the as-of day, index 6 the oldest in-window day.
	if values[0] != 300 {
		t.Errorf("values[0] = %v, want 300", values[0])
	}
	if values[6] != 300 {
		t.Errorf("values[6] = %v, want 300", values[6])
	}
}

func TestWindowEmptyLoads(t *testing.T) {
	total, values := Window(map[string]float64{}, mustDay(t, "2026-03-01"), AcuteWindowDays)

	if total != 0 {
		t.Errorf("total = %v, want 0", total)
	}
	for i, v := range values {
		if v != 0 {
			t.Errorf("values[%d] = %v, want 0", i, v)
		}
	}
}

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("plus2", 2*60*60)
	stamp := time.Date(2026, 3, 1, 23, 45, 0, 0, loc)

	got := Day(stamp)

	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Day() = %v, want %v", got, want)
	}
}
