package health

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"healthdigest/internal/model"
)

const (
	keyInBed      = "score.stage_summary.total_in_bed_time_milli"
	keyLightSleep = "score.stage_summary.total_light_sleep_time_milli"
	keyREMSleep   = "score.stage_summary.total_rem_sleep_time_milli"
	keyDeepSleep  = "score.stage_summary.total_slow_wave_sleep_time_milli"
	keySleepDebt  = "score.sleep_needed.need_from_sleep_debt_milli"

	// keySleepDuration is not a record field; the value is derived from the stage totals.
	keySleepDuration = "sleep.total_duration"
)

// metricSpecs lists the curated metrics in evaluation order. Section decides
// where an item is displayed independently of the dataset it is read from.
var metricSpecs = []model.MetricSpec{
	{Dataset: DatasetSleep, Label: "Time in bed", Key: keyInBed, Format: model.FormatDuration, Section: model.SectionSummary},
	{Dataset: DatasetSleep, Label: "Sleep duration", Key: keySleepDuration, Format: model.FormatSleepDuration, Section: model.SectionSleepDetails},
	{Dataset: DatasetSleep, Label: "Sleep performance", Key: "score.sleep_performance_percentage", Format: model.FormatPercent, Section: model.SectionSleepDetails},
	{Dataset: DatasetSleep, Label: "Sleep efficiency", Key: "score.sleep_efficiency_percentage", Format: model.FormatPercent, Section: model.SectionSleepDetails},
	{Dataset: DatasetSleep, Label: "Sleep consistency", Key: "score.sleep_consistency_percentage", Format: model.FormatPercent, Section: model.SectionSleepDetails},
	{Dataset: DatasetSleep, Label: "Sleep debt", Key: keySleepDebt, Format: model.FormatDuration, Section: model.SectionSleepDetails},
	{Dataset: DatasetRecovery, Label: "Recovery score", Key: "score.recovery_score", Format: model.FormatPercent, Section: model.SectionSummary},
	{Dataset: DatasetRecovery, Label: "HRV", Key: "score.hrv_rmssd_milli", Format: model.FormatPlain, Section: model.SectionSleepDetails},
}

// summaryPriority is the display order enforced on the summary section.
var summaryPriority = []string{
	"Time in bed",
	"Recovery score",
	"Sleep duration",
	"Sleep performance",
	"Sleep efficiency",
	"Sleep consistency",
	"Sleep debt",
}

type placedItem struct {
	section model.Section
	item    model.SummaryItem
}

// BuildSummary extracts the curated metrics from the Sleep and Recovery
// datasets. Other datasets are ignored; metrics absent from every record are
// omitted.
func BuildSummary(datasets map[string]model.Dataset) model.HealthSummary {
	return mergeSections(evaluateMetrics(datasets, metricSpecs))
}

func evaluateMetrics(datasets map[string]model.Dataset, specs []model.MetricSpec) []placedItem {
	var placed []placedItem
	for _, spec := range specs {
		dataset, ok := datasets[spec.Dataset]
		if !ok {
			continue
		}
		value, ok := LatestMetric(dataset.Records, spec)
		if !ok {
			continue
		}
		placed = append(placed, placedItem{
			section: spec.Section,
			item:    model.SummaryItem{Label: spec.Label, Value: value},
		})
	}
	return placed
}

// mergeSections routes evaluated items to their display section.
func mergeSections(placed []placedItem) model.HealthSummary {
	out := model.HealthSummary{
		Summary:      []model.SummaryItem{},
		SleepDetails: []model.SummaryItem{},
	}
	for _, p := range placed {
		switch p.section {
		case model.SectionSummary:
			out.Summary = append(out.Summary, p.item)
		case model.SectionSleepDetails:
			out.SleepDetails = append(out.SleepDetails, p.item)
		}
	}
	out.Summary = ReorderSummary(out.Summary)
	return out
}

// LatestMetric scans records from the most recent backwards and formats the
// first value found. A newer record lacking the field is skipped in favour of
// an older one that has it.
func LatestMetric(records []model.NormalizedRecord, spec model.MetricSpec) (string, bool) {
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		if spec.Format == model.FormatSleepDuration {
			if total := sleepStageMillis(record); total != 0 {
				return FormatDuration(total), true
			}
			continue
		}

		value, ok := record.Field(spec.Key)
		if !ok {
			continue
		}
		return FormatValue(spec.Format, value), true
	}
	return "", false
}

// sleepStageMillis sums light, REM and slow-wave sleep; missing stages count as zero.
func sleepStageMillis(record model.NormalizedRecord) float64 {
	var total float64
	for _, key := range []string{keyLightSleep, keyREMSleep, keyDeepSleep} {
		if value, ok := record.Field(key); ok {
			total += value
		}
	}
	return total
}

// FormatValue renders value according to kind.
func FormatValue(kind model.FormatKind, value float64) string {
	switch kind {
	case model.FormatPercent:
		return FormatPercent(value)
	case model.FormatDuration, model.FormatSleepDuration:
		return FormatDuration(value)
	default:
		return FormatPlain(value)
	}
}

// FormatPercent rounds to at most one decimal and appends "%".
func FormatPercent(value float64) string {
	return humanize.Commaf(roundTo(value, 1)) + "%"
}

// FormatPlain rounds to at most two decimals with thousands separators.
func FormatPlain(value float64) string {
	return humanize.Commaf(roundTo(value, 2))
}

// FormatDuration renders milliseconds as HH:MM. Hours do not roll over into days.
func FormatDuration(millis float64) string {
	totalMinutes := int64(math.Floor(millis/float64(time.Minute/time.Millisecond) + 0.5))
	hours := int64(math.Floor(float64(totalMinutes) / 60))
	minutes := totalMinutes % 60
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}

func roundTo(value float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	rounded := math.Round(value*scale) / scale
	if rounded == 0 {
		return 0
	}
	return rounded
}

// ReorderSummary moves the first item of each priority label to the front in
// priority order. Items not in the priority list keep their relative order
// after them. The input slice is not modified.
func ReorderSummary(items []model.SummaryItem) []model.SummaryItem {
	remaining := make([]model.SummaryItem, len(items))
	copy(remaining, items)

	ordered := make([]model.SummaryItem, 0, len(items))
	for _, label := range summaryPriority {
		for idx, item := range remaining {
			if item.Label == label {
				ordered = append(ordered, item)
				remaining = append(remaining[:idx], remaining[idx+1:]...)
				break
			}
		}
	}
	return append(ordered, remaining...)
}

// NewReport assembles the snapshot payload for a health refresh.
func NewReport(datasets []model.Dataset, generatedAt time.Time, includeDatasets bool) model.HealthReport {
	summary := BuildSummary(IndexDatasets(datasets))
	report := model.HealthReport{
		GeneratedAt:  generatedAt,
		Summary:      summary.Summary,
		SleepDetails: summary.SleepDetails,
	}
	if includeDatasets {
		report.Datasets = datasets
	}
	return report
}
