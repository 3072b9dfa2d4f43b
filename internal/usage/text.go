// Package usage recovers daily phone usage from digest emails and CSV exports.
package usage

import (
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrNotText is returned when the input is binary rather than UTF-8 text.
var ErrNotText = errors.New("input is not UTF-8 text")

var (
	headerBreak     = regexp.MustCompile(`\r?\n\r?\n`)
	lineBreak       = regexp.MustCompile(`\r?\n`)
	softLineBreak   = regexp.MustCompile(`=\r?\n`)
	hexEscape       = regexp.MustCompile(`=([A-Fa-f0-9]{2})`)
	htmlTag         = regexp.MustCompile(`<[^>]*>`)
	entityReplacers = [][2]string{
		{"&nbsp;", " "},
		{"&amp;", "&"},
		{"&lt;", "<"},
		{"&gt;", ">"},
		{"&quot;", `"`},
		{"&#39;", "'"},
	}
)

// ExtractBody drops the header block of a MIME message: everything up to the
// first blank line. Input without a blank line is returned whole.
func ExtractBody(raw string) string {
	parts := headerBreak.Split(raw, -1)
	if len(parts) <= 1 {
		return raw
	}
	return strings.Join(parts[1:], "\n\n")
}

// DecodeQuotedPrintable removes soft line breaks and replaces =XX escapes with
// the byte they encode. Malformed escapes are left as they are.
func DecodeQuotedPrintable(input string) string {
	joined := softLineBreak.ReplaceAllString(input, "")
	return hexEscape.ReplaceAllStringFunc(joined, func(escape string) string {
		b, err := strconv.ParseUint(escape[1:], 16, 8)
		if err != nil {
			return escape
		}
		return string([]byte{byte(b)})
	})
}

// StripHTML turns every tag into a line break and decodes the handful of
// entities digest emails use. Other entities are left untouched.
func StripHTML(input string) string {
	text := htmlTag.ReplaceAllString(input, "\n")
	for _, r := range entityReplacers {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return text
}

// SplitLines splits text into trimmed, non-empty lines, preserving order.
func SplitLines(text string) []string {
	var lines []string
	for _, line := range lineBreak.Split(text, -1) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ExtractLines runs the full email text pipeline: body isolation,
// quoted-printable decoding, HTML stripping and line splitting.
func ExtractLines(raw string) []string {
	return SplitLines(StripHTML(DecodeQuotedPrintable(ExtractBody(raw))))
}

// DecodeBase64URL decodes a message encoded with the URL-safe base64 alphabet,
// as returned by the mail API's raw message format. Padding is optional and
// the standard alphabet is accepted too.
func DecodeBase64URL(input string) (string, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(input), "=")
	trimmed = standardAlphabet.Replace(trimmed)
	decoded, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return "", fmt.Errorf("decode base64url: %w", err)
	}
	return string(decoded), nil
}

var standardAlphabet = strings.NewReplacer("+", "-", "/", "_")

func validateText(raw string) error {
	if strings.ContainsRune(raw, 0) || !utf8.ValidString(raw) {
		return ErrNotText
	}
	return nil
}
