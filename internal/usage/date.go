package usage

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"healthdigest/internal/model"
)

const isoDate = "2006-01-02"

var slashDate = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)

var datedLayouts = []string{
	time.RFC3339Nano,
	isoDate,
	"Mon, Jan 2, 2006",
	"Mon, Jan 2 2006",
	"Mon, January 2, 2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var yearlessLayouts = []string{
	"Mon, Jan 2",
	"Mon, January 2",
	"Jan 2",
}

// NormalizeUsageDate converts the date spellings found in digests to
// YYYY-MM-DD in now's location. Month/day/year with a two-digit year is read
// as 20YY. Dates without a year take now's year, or the previous one when that
// would put them in the future. It returns "" when the value is not a date.
func NormalizeUsageDate(value string, now time.Time) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if m := slashDate.FindStringSubmatch(value); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return ""
		}
		return strconv.Itoa(year) + "-" + pad2(month) + "-" + pad2(day)
	}

	loc := now.Location()
	for _, layout := range datedLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts.In(loc).Format(isoDate)
		}
	}
	for _, layout := range yearlessLayouts {
		ts, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		dated := time.Date(now.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		if dated.After(now.AddDate(0, 0, 1)) {
			dated = dated.AddDate(-1, 0, 0)
		}
		return dated.Format(isoDate)
	}
	return ""
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// IsFreshExport reports whether a stored CSV-sourced snapshot is still current:
// it was read from today's export directory and describes yesterday.
func IsFreshExport(snapshot model.UsageSnapshot, now time.Time) bool {
	if snapshot.Source != model.SourceCSV || snapshot.Daily == nil {
		return false
	}
	today := now.Format(isoDate)
	if snapshot.Directory != today {
		return false
	}
	usageDate := NormalizeUsageDate(snapshot.Daily.Date.String(), now)
	if usageDate == "" {
		return false
	}
	return usageDate == now.AddDate(0, 0, -1).Format(isoDate)
}
