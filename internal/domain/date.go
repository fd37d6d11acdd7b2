package domain

import (
	"fmt"
	"time"
)

// Day truncates t to midnight in its own location.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// WeekPeriod identifies the stats week that starts on start.
func WeekPeriod(start time.Time) string {
	return "W" + start.Format("2006-01-02")
}

// MonthPeriod identifies the stats month containing t.
func MonthPeriod(t time.Time) string {
	return fmt.Sprintf("M%04d-%02d", t.Year(), int(t.Month()))
}

// DayPeriod identifies a single day, used by daily missions.
func DayPeriod(t time.Time) string {
	return "D" + t.Format("2006-01-02")
}
