package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docparse/internal/domain"
)

func TestBuildParseOptions_Defaults(t *testing.T) {
	opts, err := domain.BuildParseOptions(domain.OptionParams{}, domain.EventOptionDefaults)
	require.NoError(t, err)
	assert.Equal(t, domain.RenderFormatAll, opts.RenderFormat)
	assert.True(t, opts.UseNewIndentParser)
	assert.False(t, opts.ApplyOCR)

	opts, err = domain.BuildParseOptions(domain.OptionParams{}, domain.HTTPOptionDefaults)
	require.NoError(t, err)
	assert.False(t, opts.UseNewIndentParser)
}

func TestBuildParseOptions_EmptyValueMeansDefault(t *testing.T) {
	opts, err := domain.BuildParseOptions(domain.OptionParams{UseNewIndentParser: ""}, domain.EventOptionDefaults)
	require.NoError(t, err)
	assert.True(t, opts.UseNewIndentParser)

	opts, err = domain.BuildParseOptions(domain.OptionParams{UseNewIndentParser: "no", ApplyOCR: "YES"}, domain.EventOptionDefaults)
	require.NoError(t, err)
	assert.False(t, opts.UseNewIndentParser)
	assert.True(t, opts.ApplyOCR)
}

func TestBuildParseOptions_RejectsUnknownFormat(t *testing.T) {
	_, err := domain.BuildParseOptions(domain.OptionParams{RenderFormat: "docx"}, domain.HTTPOptionDefaults)
	assert.ErrorIs(t, err, domain.ErrInvalidRenderValue)
}
