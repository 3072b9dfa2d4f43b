package usage

import (
	"strings"

	"healthdigest/internal/model"
)

// ParseEmail parses a raw digest email (headers, blank line, quoted-printable
// HTML body). It returns nil when the message has no body.
func ParseEmail(raw string, opts Options) (*model.ParsedUsage, error) {
	if err := validateText(raw); err != nil {
		return nil, err
	}
	if ExtractBody(raw) == "" {
		return nil, nil
	}

	lines := ExtractLines(raw)
	return &model.ParsedUsage{
		Daily:   ParseDailyUsage(lines),
		TopApps: ParseTopApps(lines, opts),
	}, nil
}

type emailParser struct {
	opts Options
}

func (p emailParser) Source() model.UsageSource { return model.SourceEmail }

func (p emailParser) Parse(raw string) (*model.ParsedUsage, error) {
	return ParseEmail(raw, p.opts)
}

// MessageID returns the Message-ID header of a raw email without angle
// brackets, or "" when the header block has none.
func MessageID(raw string) string {
	header := raw
	if loc := headerBreak.FindStringIndex(raw); loc != nil {
		header = raw[:loc[0]]
	}
	for _, line := range lineBreak.Split(header, -1) {
		name, value, ok := strings.Cut(line, ":")
		if ok && strings.EqualFold(strings.TrimSpace(name), "message-id") {
			return strings.Trim(strings.TrimSpace(value), "<>")
		}
	}
	return ""
}
