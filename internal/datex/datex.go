// Package datex formats calendar day keys and derives habit streaks from a
// day-keyed completion log.
package datex

import "time"

// KeyLayout is the layout of a day key, e.g. "2025-03-01".
const KeyLayout = "2006-01-02"

// MaxStreakDays bounds how far back CalculateStreak looks.
const MaxStreakDays = 365

// DateKey returns the local calendar day of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.Local().Format(KeyLayout)
}

// ParseKey parses a day key in the local time zone.
func ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(KeyLayout, key, time.Local)
}

// CalculateStreak counts consecutive completed days ending today. The scan
// walks back from today and stops at the first day that is false or absent,
// looking at most MaxStreakDays days.
func CalculateStreak(log map[string]bool, now time.Time) int {
	if len(log) == 0 {
		return 0
	}

	day := now.Local()
	streak := 0
	for i := 0; i < MaxStreakDays; i++ {
		if !log[DateKey(day)] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
