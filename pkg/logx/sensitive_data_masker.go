package logx

import (
	"regexp"
)

const masked = "[MASKED]"

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

// Each pattern keeps group 1 and group 2 and masks whatever lies between.
//
//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Headers.
	regexp.MustCompile("(?s)(Authorization: Bearer ).+?(\r)"),
	regexp.MustCompile("(?s)(X-Api-Key: ).+?(\r)"),
	// Bot API token inside a request line or URL.
	regexp.MustCompile(`(/bot)\d+:[\w-]+(/)`),
	// Credentials inside a DSN.
	regexp.MustCompile(`(://[^:/@\s]+:)[^@\s]+(@)`),
	// Exchange-rate provider keys in query strings.
	regexp.MustCompile(`([?&](?:access_key|api_key|apikey|app_id)=)[^&\s]+()`),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("(?:token|botToken|dsn)":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}"+masked+"${2}"))
	}

	return input
}

// NopSensitiveDataMasker leaves the input untouched.
type NopSensitiveDataMasker struct{}

func NewNopSensitiveDataMasker() NopSensitiveDataMasker {
	return NopSensitiveDataMasker{}
}

func (NopSensitiveDataMasker) Mask(input []byte) []byte {
	return input
}
