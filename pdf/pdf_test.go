package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintOptionsA4(t *testing.T) {
	opts := PrintOptions()
	require.NotNil(t, opts.PaperWidth)
	require.NotNil(t, opts.PaperHeight)
	assert.InDelta(t, 8.27, *opts.PaperWidth, 0.001)
	assert.InDelta(t, 11.69, *opts.PaperHeight, 0.001)
	assert.InDelta(t, 0.98, *opts.MarginTop, 0.001)
	assert.InDelta(t, 0.79, *opts.MarginLeft, 0.001)
	assert.True(t, opts.PrintBackground)
	assert.True(t, opts.DisplayHeaderFooter)
	assert.Contains(t, opts.FooterTemplate, `class="pageNumber"`)
	assert.Contains(t, opts.FooterTemplate, `class="totalPages"`)
}

func TestPrintOptionsAreIndependent(t *testing.T) {
	a, b := PrintOptions(), PrintOptions()
	*a.MarginTop = 5
	assert.InDelta(t, 0.98, *b.MarginTop, 0.001)
}

func TestRenderRejectsEmptyHTML(t *testing.T) {
	r := &RodRenderer{}
	_, err := r.Render(t.Context(), "  \n")
	assert.ErrorIs(t, err, ErrEmptyHTML)
}
