package usage

import (
	"regexp"
	"strings"
)

var (
	compoundTime = regexp.MustCompile(`(?i)\b\d+h\b|\b\d+m\b|\b\d+s\b`)
	clockTime    = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?$`)
	signedDelta  = regexp.MustCompile(`^[+-]\d+%`)
	accessCount  = regexp.MustCompile(`^#\d+`)
	weekdayDate  = regexp.MustCompile(`(?i)^(Mon|Tue|Wed|Thu|Fri|Sat|Sun),`)
	metricLabel  = regexp.MustCompile(`(?i)usage time|access count`)
)

// fullWidthPlus is rendered by some digests in place of a zero delta.
const fullWidthPlus = "＋"

// TimeTokenMode selects which spellings count as a usage-time token.
type TimeTokenMode int

const (
	// TimeTokenCompoundOrClock accepts "1h 2m" style values and H:MM[:SS] clock values.
	TimeTokenCompoundOrClock TimeTokenMode = iota
	// TimeTokenCompound accepts only "1h 2m" style values.
	TimeTokenCompound
)

// String returns the flag spelling of the mode.
func (m TimeTokenMode) String() string {
	if m == TimeTokenCompound {
		return "compound"
	}
	return "compound+clock"
}

// Options tunes the heuristics shared by the email and CSV parsers.
type Options struct {
	TimeTokens TimeTokenMode
}

// IsUsageTime reports whether line is a usage-time token under the configured mode.
func (o Options) IsUsageTime(line string) bool {
	if IsCompoundTime(line) {
		return true
	}
	return o.TimeTokens == TimeTokenCompoundOrClock && IsClockTime(line)
}

// IsCompoundTime matches hour/minute/second fragments such as "1h 2m" or "45s".
func IsCompoundTime(line string) bool {
	return compoundTime.MatchString(line)
}

// IsClockTime matches colon-delimited H:MM or H:MM:SS values.
func IsClockTime(line string) bool {
	return clockTime.MatchString(line)
}

// IsDelta matches a signed percentage such as "+15%" or "-3%", or the lone
// full-width plus some digests print for no change.
func IsDelta(line string) bool {
	return signedDelta.MatchString(line) || line == fullWidthPlus
}

// IsAccessCount matches an access-count marker such as "#42".
func IsAccessCount(line string) bool {
	return accessCount.MatchString(line)
}

// IsWeekdayDate matches a date line that starts with a weekday abbreviation and a comma.
func IsWeekdayDate(line string) bool {
	return weekdayDate.MatchString(line)
}

// IsMetricLabel reports whether line mentions a column label rather than an app name.
func IsMetricLabel(line string) bool {
	return metricLabel.MatchString(line)
}

// isHeading compares a line against a lower-case section heading.
func isHeading(line, heading string) bool {
	return strings.ToLower(line) == heading
}

func indexFrom(lines []string, from int, match func(string) bool) int {
	for i := from; i < len(lines); i++ {
		if match(lines[i]) {
			return i
		}
	}
	return -1
}

func lineAt(lines []string, i int) string {
	if i < 0 || i >= len(lines) {
		return ""
	}
	return lines[i]
}
