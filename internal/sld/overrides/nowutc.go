package overrides

import "time"

// NowUTC returns the current UTC time formatted as RFC3339 with second-level
// precision and a "Z" suffix, e.g. "2006-01-02T15:04:05Z". It is the timestamp
// format for CreatedAt and UpdatedAt.
func NowUTC() string {
	return FormatTime(time.Now())
}

// FormatTime formats t the way NowUTC does.
func FormatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
