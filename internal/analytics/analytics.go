// Package analytics aggregates appointment data for the dashboard, overview
// and report endpoints. Inputs are already scoped to one psychologist.
package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/BruksfildServices01/psi-scheduler/internal/timezone"
)

// Session is the slice of an appointment the statistics need.
type Session struct {
	Date   string
	Status string
}

type StatusCount struct {
	Status     string  `json:"status"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type RiskCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

type Overview struct {
	TotalSessions             int           `json:"total_sessions"`
	TotalPatients             int           `json:"total_patients"`
	AverageSessionsPerPatient float64       `json:"average_sessions_per_patient"`
	SessionsByStatus          []StatusCount `json:"sessions_by_status"`
	SessionsByMonth           []MonthCount  `json:"sessions_by_month"`
	PatientsByRiskLevel       []RiskCount   `json:"patients_by_risk_level"`
	TopCancellationReasons    []string      `json:"top_cancellation_reasons"`
}

func BuildOverview(sessions []Session, totalPatients int) Overview {
	ov := Overview{
		TotalSessions:          len(sessions),
		TotalPatients:          totalPatients,
		SessionsByStatus:       []StatusCount{},
		SessionsByMonth:        []MonthCount{},
		PatientsByRiskLevel:    []RiskCount{},
		TopCancellationReasons: []string{},
	}
	if totalPatients > 0 {
		ov.AverageSessionsPerPatient = Round2(float64(len(sessions)) / float64(totalPatients))
	}

	byStatus := map[string]int{}
	byMonth := map[string]int{}
	for _, s := range sessions {
		byStatus[s.Status]++
		if len(s.Date) >= 7 {
			byMonth[s.Date[:7]]++
		}
	}

	for _, status := range sortedKeys(byStatus) {
		ov.SessionsByStatus = append(ov.SessionsByStatus, StatusCount{
			Status:     status,
			Count:      byStatus[status],
			Percentage: Percent(byStatus[status], len(sessions)),
		})
	}
	for _, month := range sortedKeys(byMonth) {
		ov.SessionsByMonth = append(ov.SessionsByMonth, MonthCount{Month: month, Count: byMonth[month]})
	}

	return ov
}

// ======================================================
// Trends
// ======================================================

const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"

	PeriodMonth = "month"
	PeriodWeek  = "week"
)

type Point struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

type Trend struct {
	Data             []Point `json:"data"`
	Trend            string  `json:"trend"`
	ChangePercentage float64 `json:"change_percentage"`
}

// BuildTrend buckets sessions into the last n periods ending at now (oldest
// first, empty buckets included) and compares the last two buckets.
func BuildTrend(sessions []Session, period string, n int, now time.Time) Trend {
	if n < 2 {
		n = 2
	}

	labels := make([]string, n)
	index := make(map[string]int, n)
	for i := 0; i < n; i++ {
		label := bucketLabel(shift(now, period, -(n-1-i)), period)
		labels[i] = label
		index[label] = i
	}

	counts := make([]int, n)
	for _, s := range sessions {
		d, err := time.ParseInLocation(timezone.DateLayout, s.Date, now.Location())
		if err != nil {
			continue
		}
		if i, ok := index[bucketLabel(d, period)]; ok {
			counts[i]++
		}
	}

	out := Trend{Data: make([]Point, n)}
	for i := range labels {
		out.Data[i] = Point{Date: labels[i], Value: counts[i]}
	}

	prev, last := counts[n-2], counts[n-1]
	switch {
	case prev == 0 && last == 0:
		out.ChangePercentage = 0
	case prev == 0:
		out.ChangePercentage = 100
	default:
		out.ChangePercentage = Round2(float64(last-prev) / float64(prev) * 100)
	}

	switch {
	case out.ChangePercentage > 0:
		out.Trend = TrendUp
	case out.ChangePercentage < 0:
		out.Trend = TrendDown
	default:
		out.Trend = TrendStable
	}

	return out
}

func shift(t time.Time, period string, k int) time.Time {
	if period == PeriodWeek {
		return t.AddDate(0, 0, 7*k)
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return first.AddDate(0, k, 0)
}

func bucketLabel(t time.Time, period string) string {
	if period == PeriodWeek {
		y, w := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	}
	return t.Format("2006-01")
}

// ======================================================
// Helpers
// ======================================================

// AttendanceRate is completed / (completed + canceled) as a percentage.
func AttendanceRate(completed, canceled int) float64 {
	return Percent(completed, completed+canceled)
}

func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return Round2(float64(part) / float64(total) * 100)
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
