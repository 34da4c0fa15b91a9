package domain

import "strings"

// OptionParams are the raw string parameters an entry point received.
// Empty values fall back to the entry point's defaults.
type OptionParams struct {
	RenderFormat       string
	UseNewIndentParser string
	ApplyOCR           string
}

// OptionDefaults differ per entry point: the event path enables the new indent parser
// unless told otherwise, the HTTP path does not.
type OptionDefaults struct {
	UseNewIndentParser bool
	ApplyOCR           bool
}

var (
	HTTPOptionDefaults  = OptionDefaults{UseNewIndentParser: false, ApplyOCR: false}
	EventOptionDefaults = OptionDefaults{UseNewIndentParser: true, ApplyOCR: false}
)

// BuildParseOptions turns raw "yes"/"no" parameters into ParseOptions.
func BuildParseOptions(p OptionParams, d OptionDefaults) (ParseOptions, error) {
	format := RenderFormat(strings.ToLower(strings.TrimSpace(p.RenderFormat)))
	if format == "" {
		format = RenderFormatAll
	}
	if !AllowedRenderFormats[format] {
		return ParseOptions{}, ErrInvalidRenderValue
	}
	return ParseOptions{
		RenderFormat:       format,
		UseNewIndentParser: yesNo(p.UseNewIndentParser, d.UseNewIndentParser),
		ApplyOCR:           yesNo(p.ApplyOCR, d.ApplyOCR),
		ParseAndRenderOnly: true,
		ParsePages:         []int{},
	}, nil
}

func yesNo(v string, def bool) bool {
	if v == "" {
		return def
	}
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}
