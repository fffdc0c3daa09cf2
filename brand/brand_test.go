package brand

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoadMissingDirectory(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.False(t, cfg.Loaded)
	assert.Empty(t, cfg.Files)
	assert.Empty(t, cfg.TextContext)
}

func TestLoadOrdersContexts(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"guidelines.md":      "Always say *we*.",
		"identity.md":        "\nWe build tools for teams.\n",
		"tone-of-voice.md":   "Friendly and direct.",
		"visual-identity.md": "Teal and white, lots of air.",
		"zz-extra.md":        "Extra notes.",
		"notes.txt":          "ignored",
	})

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.True(t, cfg.Loaded)
	assert.Len(t, cfg.Files, 5)
	assert.Equal(t, "We build tools for teams.", cfg.Files["identity"])

	assert.Equal(t,
		"We build tools for teams.\n\n---\n\nFriendly and direct.\n\n---\n\nAlways say *we*.\n\n---\n\nTeal and white, lots of air.\n\n---\n\nExtra notes.",
		cfg.TextContext)
	assert.Equal(t,
		"Teal and white, lots of air.\n\n---\n\nWe build tools for teams.\n\n---\n\nAlways say *we*.\n\n---\n\nFriendly and direct.\n\n---\n\nExtra notes.",
		cfg.ImageContext)
}

func TestLoadSkipsEmptyTemplates(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"identity.md": "# Identity\n\n<!-- describe the company -->\n\n## Values\n\n- **Mission**: \n- Farbe: #\n-\n",
	})
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.False(t, cfg.Loaded)
	assert.Empty(t, cfg.Files)
}

func TestIsEmptyTemplate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"empty", "", true},
		{"headings only", "# A\n\n## B\n### C", true},
		{"comment", "# A\n<!--\nfill me\n-->", true},
		{"table", "| Farbe | Hex |\n|---|---|\n| Primär | |", true},
		{"label bullets", "- **Primary color**: #00aaff\n- **Font**: Inter", true},
		{"key bullets", "- Primary: #00aaff\n- Secondary:", true},
		{"hints", "Logo verwenden (z.B. auf Folien) ja/nein", false},
		{"only hints", "(z.B. Beispiel) ja/nein", true},
		{"bare bullets", "-\n- #\n-", true},
		{"real sentence", "# Tone\n\nWe speak plainly and avoid jargon.", false},
		{"real bullet", "- Use short sentences in every post.", false},
		{"inline html", "Hello <b>there</b>", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEmptyTemplate(tt.in))
		})
	}
}
