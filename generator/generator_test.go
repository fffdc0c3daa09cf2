package generator

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign_content_creator/campaign"
	"campaign_content_creator/llm"
)

type recordingLLM struct {
	mu    sync.Mutex
	reqs  []llm.TextRequest
	reply string
	err   error
}

func (r *recordingLLM) GenerateText(_ context.Context, req llm.TextRequest) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.reply, r.err
}

func (r *recordingLLM) GenerateStructured(context.Context, llm.StructuredRequest) (json.RawMessage, error) {
	return nil, llm.ErrNoOutput
}

func TestRegistryCoversEveryType(t *testing.T) {
	reg, err := NewRegistry(&recordingLLM{})
	require.NoError(t, err)

	list := reg.List()
	require.Len(t, list, len(campaign.AllAssetTypes))
	for i, typ := range campaign.AllAssetTypes {
		assert.Equal(t, typ, list[i].Type())
		assert.NotEmpty(t, list[i].Label())
		assert.NotEmpty(t, list[i].Description())
	}
}

func TestRegistryUnknownType(t *testing.T) {
	reg, err := NewRegistry(&recordingLLM{})
	require.NoError(t, err)

	_, err = reg.Get("podcast")
	assert.ErrorIs(t, err, ErrUnknownAssetType)

	_, err = reg.Resolve([]campaign.PlannedAsset{
		{ID: "blog-article-01", Type: campaign.BlogArticle},
		{ID: "podcast-01", Type: "podcast"},
	})
	assert.ErrorIs(t, err, ErrUnknownAssetType)
}

func TestNewRegistryRequiresClient(t *testing.T) {
	_, err := NewRegistry(nil)
	assert.Error(t, err)
}

func TestGenerateBuildsPromptAndMetadata(t *testing.T) {
	tests := []struct {
		typ        campaign.AssetType
		maxTokens  int
		brandAware bool
		platform   string
		format     string
		titleLine  string
	}{
		{campaign.BlogArticle, 8192, false, "Blog/Website", "article", "Title/Topic: Launch"},
		{campaign.Whitepaper, 16384, true, "Download/Gated Content", "whitepaper-pdf", "Title: Launch"},
		{campaign.LandingPage, 8192, true, "Website", "landing-page", "Title/Topic: Launch"},
		{campaign.LinkedInPost, 0, false, "LinkedIn", "post", "Title/Topic: Launch"},
		{campaign.EmailNewsletter, 0, true, "Email", "newsletter", "Title/Topic: Launch"},
	}
	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			fake := &recordingLLM{reply: "  # Launch\n\nBody  "}
			reg, err := NewRegistry(fake)
			require.NoError(t, err)
			g, err := reg.Get(tt.typ)
			require.NoError(t, err)

			planned := campaign.PlannedAsset{
				ID: campaign.AssetID(tt.typ, 1), Type: tt.typ, Title: "Launch",
				Angle: "Fresh", KeyPoints: []string{"one", "two"}, CTA: "Sign up",
			}
			got, err := g.Generate(context.Background(), planned, Options{BrandVoice: "warm", Language: "en", BrandContext: "BRAND RULES"})
			require.NoError(t, err)

			assert.Equal(t, planned.ID, got.ID)
			assert.Equal(t, "Launch", got.Title)
			assert.Equal(t, "# Launch\n\nBody", got.Content)
			assert.Equal(t, tt.platform, got.Metadata["platform"])
			assert.Equal(t, tt.format, got.Metadata["format"])

			require.Len(t, fake.reqs, 1)
			req := fake.reqs[0]
			assert.Equal(t, tt.maxTokens, req.MaxTokens)
			assert.Equal(t, tt.brandAware, strings.Contains(req.System, "BRAND RULES"))
			assert.Contains(t, req.Prompt, tt.titleLine)
			assert.Contains(t, req.Prompt, "- one\n- two\n")
			assert.Contains(t, req.Prompt, "Brand Voice: warm")
			assert.Contains(t, req.Prompt, "Language: en")
		})
	}
}

func TestGenerateFailures(t *testing.T) {
	boom := errors.New("upstream down")
	reg, err := NewRegistry(&recordingLLM{err: boom})
	require.NoError(t, err)
	g, _ := reg.Get(campaign.TwitterPost)
	_, err = g.Generate(context.Background(), campaign.PlannedAsset{ID: "twitter-post-01", Type: campaign.TwitterPost}, Options{})
	assert.ErrorIs(t, err, boom)

	reg, _ = NewRegistry(&recordingLLM{reply: "   "})
	g, _ = reg.Get(campaign.TwitterPost)
	_, err = g.Generate(context.Background(), campaign.PlannedAsset{ID: "twitter-post-01", Type: campaign.TwitterPost}, Options{})
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestPostProcessUnwrapsFence(t *testing.T) {
	got, err := postProcess("```markdown\n# Title\n\nText\n```")
	require.NoError(t, err)
	assert.Equal(t, "# Title\n\nText", got)

	inner := "# Title\n\n```go\nx := 1\n```\n\nDone"
	got, err = postProcess(inner)
	require.NoError(t, err)
	assert.Equal(t, inner, got)
}

func TestBuildRevisionPrompt(t *testing.T) {
	asset := campaign.GeneratedAsset{ID: "blog-article-01", Type: campaign.BlogArticle, Content: "Old text"}
	review := campaign.AssetReview{Issues: []string{"too long"}, Suggestions: []string{"cut intro"}}

	system, user := BuildRevisionPrompt(asset, review, "")
	assert.Equal(t, revisionSystem, system)
	assert.Equal(t, "Original blog-article asset:\n\nOld text\n\nIssues to fix:\n- too long\n\nSuggestions:\n- cut intro\n\nWrite the revised version:", user)

	system, _ = BuildRevisionPrompt(asset, review, "Use du")
	assert.True(t, strings.HasSuffix(system, "style:\n\nUse du"))
}
