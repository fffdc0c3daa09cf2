package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign_content_creator/campaign"
)

func sampleBundle() Bundle {
	return Bundle{
		Brief: &campaign.Brief{Topic: "AI", TargetAudience: "CTOs", Language: "en", Tone: "calm"},
		Plan: &campaign.Plan{
			CampaignName: "Launch",
			Summary:      "A short launch.",
			Pillars:      []campaign.Pillar{{Name: "Speed", Description: "Fast.", KeyMessages: []string{"m1", "m2"}}},
			Assets: []campaign.PlannedAsset{
				{ID: "linkedin-post-01", Type: campaign.LinkedInPost, Title: "Post", Angle: "a", Pillar: "Speed", CTA: "Go", KeyPoints: []string{"k1"}},
			},
			BrandVoiceGuidelines: "Be brief.",
		},
		Assets: []campaign.GeneratedAsset{
			{ID: "linkedin-post-01", Type: campaign.LinkedInPost, Title: "Post", Content: "Hello", Metadata: map[string]string{"platform": "linkedin"}},
			{ID: "whitepaper-01", Type: campaign.Whitepaper, Title: "WP | Guide", Content: "Über"},
		},
		Review:   &campaign.Review{OverallScore: 8, ConsistencyNotes: "Consistent."},
		Language: "en",
	}
}

func TestExportWritesLayout(t *testing.T) {
	root := t.TempDir()
	e := New(root, zerolog.Nop())
	e.Now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 5, 0, time.UTC) }

	dir, err := e.Export(t.Context(), sampleBundle())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "campaign-2026-03-01T10-00-05"), dir)

	for _, rel := range []string{
		"assets/linkedin/01.md",
		"assets/whitepaper/01.md",
		"content-plan.md",
		"content-plan.json",
		"campaign.json",
		"README.md",
		"preview/index.html",
	} {
		assert.FileExists(t, filepath.Join(dir, rel))
	}

	data, err := os.ReadFile(filepath.Join(dir, "assets/linkedin/01.md"))
	require.NoError(t, err)
	assert.Equal(t, "# Post\n\n> Type: linkedin-post | ID: linkedin-post-01\n\nHello\n", string(data))

	var bundle map[string]any
	data, err = os.ReadFile(filepath.Join(dir, "campaign.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &bundle))
	assets := bundle["assets"].([]any)
	require.Len(t, assets, 2)
	wp := assets[1].(map[string]any)
	assert.Equal(t, float64(4), wp["contentLength"])
	assert.NotContains(t, wp, "content")
	assert.Equal(t, "2026-03-01T10:00:05Z", bundle["generatedAt"])
}

func TestExportRequiresPlan(t *testing.T) {
	_, err := New(t.TempDir(), zerolog.Nop()).Export(t.Context(), Bundle{})
	assert.Error(t, err)
}

func TestRefreshAddsPaths(t *testing.T) {
	e := New(t.TempDir(), zerolog.Nop())
	b := sampleBundle()
	dir, err := e.Export(t.Context(), b)
	require.NoError(t, err)

	b.Assets[1].PDFPath = filepath.Join(dir, "assets", "whitepaper", "whitepaper-01.pdf")
	require.NoError(t, e.Refresh(t.Context(), dir, b))

	html, err := os.ReadFile(filepath.Join(dir, "preview", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), `href="../assets/whitepaper/whitepaper-01.pdf"`)

	data, err := os.ReadFile(filepath.Join(dir, "campaign.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"pdfPath"`)
}

func TestRenderContentPlan(t *testing.T) {
	got := RenderContentPlan(*sampleBundle().Plan)
	want := "# Launch\n\nA short launch.\n\n" +
		"## Content Pillars\n\n### Speed\n\nFast.\n\n- m1\n- m2\n\n" +
		"## Planned Assets\n\n### linkedin-post-01: Post\n\n" +
		"- **Type**: linkedin-post\n- **Angle**: a\n- **Pillar**: Speed\n- **CTA**: Go\n- **Key Points**:\n  - k1\n\n" +
		"## Brand Voice Guidelines\n\nBe brief.\n"
	assert.Equal(t, want, got)
}

func TestRenderReadme(t *testing.T) {
	got := RenderReadme(sampleBundle(), time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(got, "# Launch\n\n> Generated on 2026-03-01 10:00:00\n\n## Overview\n\nA short launch.\n\n"))
	assert.Contains(t, got, "- **Audience**: CTOs\n")
	assert.Contains(t, got, "| whitepaper-01 | whitepaper | WP \\| Guide |\n")
	assert.Contains(t, got, "- **Overall Score**: 8/10\n")
	assert.Contains(t, got, "- `campaign.json` - Complete pipeline output\n")

	bare := RenderReadme(Bundle{}, time.Now())
	assert.True(t, strings.HasPrefix(bare, "# Campaign\n"))
	assert.NotContains(t, bare, "## Review")
}

func TestSanitizeKey(t *testing.T) {
	tests := map[string]string{
		"a/b.md":      "a/b.md",
		"./a//b.md":   "a/b.md",
		"/abs/x.md":   "abs/x.md",
		`win\path.md`: "win/path.md",
		"a/../b.md":   "b.md",
	}
	for in, want := range tests {
		got, err := sanitizeKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	for _, bad := range []string{"", " ", ".", "../x", "a/../../x"} {
		_, err := sanitizeKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestFileStoreWriteHonorsContext(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err = store.Write(ctx, "x.txt", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}
