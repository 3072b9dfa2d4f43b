package usage

import "healthdigest/internal/model"

const (
	headingUsageTime  = "usage time"
	headingTopApps    = "top apps"
	headingPinnedApps = "pinned apps"

	// accessCountWindow is how many lines after the date line may hold the access count.
	accessCountWindow = 5
)

// ParseDailyUsage finds the daily headline: the first weekday-dated line at or
// after the "Usage time" heading, followed by usage time, usage delta and an
// access count within the next few lines. It returns nil when the heading or
// the date line is missing.
func ParseDailyUsage(lines []string) *model.UsageRecord {
	anchor := indexFrom(lines, 0, func(line string) bool { return isHeading(line, headingUsageTime) })
	if anchor < 0 {
		return nil
	}
	dateIdx := indexFrom(lines, anchor, IsWeekdayDate)
	if dateIdx < 0 {
		return nil
	}

	record := &model.UsageRecord{
		Date:       model.NullString(lines[dateIdx]),
		UsageTime:  model.NullString(lineAt(lines, dateIdx+1)),
		UsageDelta: model.NullString(lineAt(lines, dateIdx+2)),
	}
	for i := dateIdx + 1; i <= dateIdx+accessCountWindow && i < len(lines); i++ {
		if IsAccessCount(lines[i]) {
			record.AccessCount = model.NullString(lines[i])
			record.AccessDelta = model.NullString(lineAt(lines, i+1))
			break
		}
	}
	return record
}
