package dashboard

import (
	"fmt"
	"time"
)

// MonthsInWindow is the fixed length of every monthly histogram.
const MonthsInWindow = 12

// WindowMode picks which twelve months a histogram covers.
type WindowMode string

const (
	// WindowRolling ends with the current month.
	WindowRolling WindowMode = "rolling"
	// WindowYear covers January through December of the current year.
	WindowYear WindowMode = "year"
)

// ParseWindowMode converts raw input into a WindowMode. Empty means rolling.
func ParseWindowMode(value string) (WindowMode, error) {
	switch WindowMode(value) {
	case "", WindowRolling:
		return WindowRolling, nil
	case WindowYear:
		return WindowYear, nil
	}
	return "", fmt.Errorf("invalid window mode %q", value)
}

// Bucket is one calendar month of a histogram.
type Bucket struct {
	Label string     `json:"label"`
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Count int64      `json:"count"`
}

// Window returns the first and last instant covered by mode, in now's location.
func Window(now time.Time, mode WindowMode) (time.Time, time.Time) {
	var start time.Time
	if mode == WindowYear {
		start = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	} else {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -(MonthsInWindow - 1), 0)
	}
	end := start.AddDate(0, MonthsInWindow, 0).Add(-time.Nanosecond)
	return start, end
}

// BuildMonthly counts timestamps per month of the window. The result always
// holds twelve chronological buckets; months without records count zero and
// timestamps outside the window are dropped.
func BuildMonthly(now time.Time, mode WindowMode, timestamps []time.Time) []Bucket {
	start, end := Window(now, mode)

	type key struct {
		year  int
		month time.Month
	}
	counts := make(map[key]int64, MonthsInWindow)
	for _, ts := range timestamps {
		ts = ts.In(now.Location())
		if ts.Before(start) || ts.After(end) {
			continue
		}
		counts[key{ts.Year(), ts.Month()}]++
	}

	buckets := make([]Bucket, 0, MonthsInWindow)
	for i := 0; i < MonthsInWindow; i++ {
		month := start.AddDate(0, i, 0)
		buckets = append(buckets, Bucket{
			Label: month.Month().String()[:3],
			Year:  month.Year(),
			Month: month.Month(),
			Count: counts[key{month.Year(), month.Month()}],
		})
	}
	return buckets
}
