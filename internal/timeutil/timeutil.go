// ABOUTME: Time utility functions for mark-read cutoffs
// ABOUTME: Parses period names, ISO dates and RFC3339 timestamps into a since time

package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// StartOfToday returns midnight (00:00:00) of the current day in local time
func StartOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// StartOfYesterday returns midnight (00:00:00) of yesterday in local time
func StartOfYesterday() time.Time {
	return StartOfToday().AddDate(0, 0, -1)
}

// StartOfWeek returns midnight of the most recent Sunday in local time
// Note: Week starts on Sunday
func StartOfWeek() time.Time {
	today := StartOfToday()
	weekday := int(today.Weekday())
	return today.AddDate(0, 0, -weekday)
}

// StartOfMonth returns midnight of the first day of the current month in local time
func StartOfMonth() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// ParsePeriod converts a period string to a time.Time representing the cutoff
// Supported values: "today", "yesterday", "week", "month"
// Returns the start of that period
func ParsePeriod(period string) (time.Time, bool) {
	switch period {
	case "today":
		return StartOfToday(), true
	case "yesterday":
		return StartOfYesterday(), true
	case "week":
		return StartOfWeek(), true
	case "month":
		return StartOfMonth(), true
	default:
		return time.Time{}, false
	}
}

// ParseSince parses the since value of a bulk mark-read. An empty value or
// "all" returns the zero time, which callers treat as the Unix epoch.
func ParseSince(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return time.Time{}, nil
	}
	if t, ok := ParsePeriod(strings.ToLower(s)); ok {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse %q: use all, today, yesterday, week, month, YYYY-MM-DD or RFC3339", s)
}
