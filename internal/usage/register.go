package usage

import "healthdigest/internal/model"

func init() {
	model.RegisterUsageParser(model.SourceEmail, func(opts model.ParserOptions) model.UsageParser {
		return emailParser{opts: OptionsFrom(opts)}
	})
	model.RegisterUsageParser(model.SourceCSV, func(opts model.ParserOptions) model.UsageParser {
		return csvParser{opts: OptionsFrom(opts)}
	})
}

// OptionsFrom maps the shared parser settings onto usage Options.
func OptionsFrom(opts model.ParserOptions) Options {
	if opts.ClockTimes {
		return Options{TimeTokens: TimeTokenCompoundOrClock}
	}
	return Options{TimeTokens: TimeTokenCompound}
}
