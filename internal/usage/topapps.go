package usage

import "healthdigest/internal/model"

// ParseTopApps extracts per-app usage between the "Top apps" heading and the
// next "Pinned apps" heading (or the end of input). Every usage-time token
// becomes an entry named by the line before it; the delta, access count and
// access delta are taken from the following lines when they look right.
// Entries keep their order in the source.
func ParseTopApps(lines []string, opts Options) []model.AppUsageEntry {
	apps := []model.AppUsageEntry{}

	start := indexFrom(lines, 0, func(line string) bool { return isHeading(line, headingTopApps) })
	if start < 0 {
		return apps
	}
	end := indexFrom(lines, start+1, func(line string) bool { return isHeading(line, headingPinnedApps) })
	if end < 0 {
		end = len(lines)
	}
	segment := lines[start+1 : end]

	for i := 1; i < len(segment); i++ {
		if !opts.IsUsageTime(segment[i]) {
			continue
		}
		name := segment[i-1]
		if name == "" || IsMetricLabel(name) {
			continue
		}

		entry := model.AppUsageEntry{
			Name:      model.NullString(name),
			UsageTime: model.NullString(segment[i]),
		}
		if next := lineAt(segment, i+1); IsDelta(next) {
			entry.UsageDelta = model.NullString(next)
		}
		if next := lineAt(segment, i+2); IsAccessCount(next) {
			entry.AccessCount = model.NullString(next)
		}
		if next := lineAt(segment, i+3); IsDelta(next) {
			entry.AccessDelta = model.NullString(next)
		}
		apps = append(apps, entry)
	}
	return apps
}
