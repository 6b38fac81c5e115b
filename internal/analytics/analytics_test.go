package analytics

import (
	"testing"
	"time"
)

func TestBuildOverview(t *testing.T) {
	sessions := []Session{
		{Date: "2026-01-10", Status: "completed"},
		{Date: "2026-01-20", Status: "completed"},
		{Date: "2026-02-03", Status: "canceled"},
		{Date: "2026-02-05", Status: "scheduled"},
	}

	ov := BuildOverview(sessions, 3)

	if ov.TotalSessions != 4 || ov.AverageSessionsPerPatient != 1.33 {
		t.Fatalf("unexpected totals %+v", ov)
	}
	if len(ov.SessionsByStatus) != 3 || ov.SessionsByStatus[1].Status != "completed" || ov.SessionsByStatus[1].Percentage != 50 {
		t.Fatalf("unexpected status breakdown %+v", ov.SessionsByStatus)
	}
	if len(ov.SessionsByMonth) != 2 || ov.SessionsByMonth[0] != (MonthCount{Month: "2026-01", Count: 2}) {
		t.Fatalf("unexpected month breakdown %+v", ov.SessionsByMonth)
	}
}

func TestBuildOverview_Empty(t *testing.T) {
	ov := BuildOverview(nil, 0)
	if ov.AverageSessionsPerPatient != 0 || ov.SessionsByStatus == nil || ov.PatientsByRiskLevel == nil {
		t.Fatalf("empty overview must have zero values and empty slices: %+v", ov)
	}
}

func TestBuildTrend_Monthly(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	sessions := []Session{
		{Date: "2026-02-01"}, {Date: "2026-02-10"},
		{Date: "2026-03-01"}, {Date: "2026-03-02"}, {Date: "2026-03-03"},
		{Date: "2025-01-01"},
		{Date: "garbage"},
	}

	tr := BuildTrend(sessions, PeriodMonth, 3, now)

	want := []Point{{"2026-01", 0}, {"2026-02", 2}, {"2026-03", 3}}
	for i, p := range want {
		if tr.Data[i] != p {
			t.Fatalf("bucket %d: expected %+v, got %+v", i, p, tr.Data[i])
		}
	}
	if tr.Trend != TrendUp || tr.ChangePercentage != 50 {
		t.Fatalf("unexpected trend %s %v", tr.Trend, tr.ChangePercentage)
	}
}

func TestBuildTrend_DownAndStable(t *testing.T) {
	now := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)

	down := BuildTrend([]Session{{Date: "2026-02-01"}, {Date: "2026-02-02"}}, PeriodMonth, 2, now)
	if down.Trend != TrendDown || down.ChangePercentage != -100 {
		t.Fatalf("unexpected %+v", down)
	}

	stable := BuildTrend(nil, PeriodMonth, 6, now)
	if stable.Trend != TrendStable || len(stable.Data) != 6 {
		t.Fatalf("unexpected %+v", stable)
	}
}

func TestBuildTrend_Weekly(t *testing.T) {
	now := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	tr := BuildTrend([]Session{{Date: "2026-03-16"}, {Date: "2026-03-10"}}, PeriodWeek, 2, now)

	if tr.Data[1].Value != 1 || tr.Data[0].Value != 1 {
		t.Fatalf("unexpected weekly buckets %+v", tr.Data)
	}
	if tr.Trend != TrendStable {
		t.Fatalf("unexpected trend %s", tr.Trend)
	}
}

func TestAttendanceRate(t *testing.T) {
	if got := AttendanceRate(3, 1); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}
	if got := AttendanceRate(0, 0); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
