package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"campaign_content_creator/campaign"
)

type cannedClient struct {
	raw json.RawMessage
	req StructuredRequest
}

func (c *cannedClient) GenerateText(context.Context, TextRequest) (string, error) {
	return "", ErrNoOutput
}

func (c *cannedClient) GenerateStructured(_ context.Context, req StructuredRequest) (json.RawMessage, error) {
	c.req = req
	return c.raw, nil
}

func TestSchemaForBrief(t *testing.T) {
	schema, err := SchemaFor[campaign.Brief]()
	require.NoError(t, err)

	raw, err := json.Marshal(schema)
	require.NoError(t, err)
	doc := gjson.ParseBytes(raw)

	assert.Equal(t, "object", doc.Get("type").String())
	assert.True(t, doc.Get("properties.requestedAssets").Exists())
	assert.Equal(t, int64(10), doc.Get("properties.requestedAssets.items.properties.count.maximum").Int())
	assert.False(t, doc.Get("$schema").Exists())
}

func TestStructuredDecodesAndValidates(t *testing.T) {
	c := &cannedClient{raw: json.RawMessage(`{
		"topic": "AI automation",
		"targetAudience": "CTOs",
		"goals": ["Awareness"],
		"tone": "calm",
		"keyMessages": ["fast"],
		"language": "en",
		"requestedAssets": [{"type": "blog-article", "count": 1}]
	}`)}

	brief, err := Structured[campaign.Brief](context.Background(), c, "sys", "prompt", "CampaignBrief")
	require.NoError(t, err)
	assert.Equal(t, "AI automation", brief.Topic)
	assert.Equal(t, campaign.BlogArticle, brief.RequestedAssets[0].Type)
	assert.Equal(t, "CampaignBrief", c.req.SchemaName)
	assert.NotEmpty(t, c.req.Schema)
}

func TestStructuredAcceptsSparseOutput(t *testing.T) {
	c := &cannedClient{raw: json.RawMessage(`{"topic":"AI","targetAudience":"","requestedAssets":[]}`)}
	brief, err := Structured[campaign.Brief](context.Background(), c, "", "", "CampaignBrief")
	require.NoError(t, err)
	assert.Empty(t, brief.TargetAudience)
	assert.Empty(t, brief.RequestedAssets)

	c = &cannedClient{raw: json.RawMessage(`{"campaignName":"Launch","assets":[]}`)}
	plan, err := Structured[campaign.Plan](context.Background(), c, "", "", "ContentPlan")
	require.NoError(t, err)
	assert.Empty(t, plan.Assets)
}

func TestStructuredRejectsInvalidShape(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"missing topic", `{"targetAudience":"x","requestedAssets":[{"type":"blog-article","count":1}]}`},
		{"count out of range", `{"topic":"t","targetAudience":"x","requestedAssets":[{"type":"blog-article","count":11}]}`},
		{"wrong type", `{"topic":5}`},
		{"not json", `{"topic":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &cannedClient{raw: json.RawMessage(tt.raw)}
			_, err := Structured[campaign.Brief](context.Background(), c, "", "", "CampaignBrief")
			var sve *SchemaValidationError
			require.ErrorAs(t, err, &sve)
			assert.Equal(t, "CampaignBrief", sve.Schema)
		})
	}
}

func completionServer(t *testing.T, body string, seen *[]byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		b, _ := io.ReadAll(r.Body)
		if seen != nil {
			*seen = b
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	c, err := NewOpenAIClient(&Settings{Provider: "openai", Model: "gpt-test", APIKey: "k", BaseURL: srv.URL + "/v1/"})
	require.NoError(t, err)
	return c
}

func TestOpenAIClientStructuredToolCall(t *testing.T) {
	var seen []byte
	srv := completionServer(t, `{
		"id": "cmpl-1", "object": "chat.completion", "created": 1, "model": "gpt-test",
		"choices": [{
			"index": 0, "finish_reason": "tool_calls",
			"message": {"role": "assistant", "content": null, "tool_calls": [{
				"id": "call_1", "type": "function",
				"function": {"name": "ReviewResult", "arguments": "{\"overallScore\":8}"}
			}]}
		}]
	}`, &seen)

	c := newTestClient(t, srv)
	raw, err := c.GenerateStructured(context.Background(), StructuredRequest{
		System: "sys", Prompt: "review", SchemaName: "ReviewResult",
		Schema: map[string]any{"type": "object"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"overallScore":8}`, string(raw))

	req := gjson.ParseBytes(seen)
	assert.Equal(t, "ReviewResult", req.Get("tool_choice.function.name").String())
	assert.Equal(t, "ReviewResult", req.Get("tools.0.function.name").String())
	assert.Equal(t, int64(DefaultStructuredTokens), req.Get("max_tokens").Int())
	assert.Equal(t, "system", req.Get("messages.0.role").String())
}

func TestOpenAIClientStructuredWithoutToolCall(t *testing.T) {
	srv := completionServer(t, `{
		"id": "cmpl-2", "object": "chat.completion", "created": 1, "model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "sorry"}}]
	}`, nil)

	c := newTestClient(t, srv)
	_, err := c.GenerateStructured(context.Background(), StructuredRequest{SchemaName: "ContentPlan"})
	assert.True(t, errors.Is(err, ErrNoOutput))
}

func TestOpenAIClientText(t *testing.T) {
	var seen []byte
	srv := completionServer(t, `{
		"id": "cmpl-3", "object": "chat.completion", "created": 1, "model": "gpt-test",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "# Hello"}}]
	}`, &seen)

	c := newTestClient(t, srv)
	text, err := c.GenerateText(context.Background(), TextRequest{System: "s", Prompt: "p", MaxTokens: 16384})
	require.NoError(t, err)
	assert.Equal(t, "# Hello", text)
	assert.Equal(t, int64(16384), gjson.GetBytes(seen, "max_tokens").Int())
}

func TestOpenAIClientEmptyText(t *testing.T) {
	srv := completionServer(t, `{
		"id": "cmpl-4", "object": "chat.completion", "created": 1, "model": "gpt-test",
		"choices": []
	}`, nil)

	c := newTestClient(t, srv)
	_, err := c.GenerateText(context.Background(), TextRequest{Prompt: "p"})
	assert.ErrorIs(t, err, ErrNoOutput)
}

func TestNewProvider(t *testing.T) {
	_, err := New(Settings{})
	assert.Error(t, err)

	_, err = New(Settings{Provider: "deepseek", Model: "m", APIKey: "k"})
	assert.ErrorContains(t, err, "base_url")

	_, err = New(Settings{Provider: "claude", Model: "m", APIKey: "k"})
	assert.ErrorContains(t, err, "not supported")

	c, err := New(Settings{Provider: "openai", Model: "m", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)
}

func TestDryRunMockProducesValidCampaign(t *testing.T) {
	m := DryRun("en")
	plan, err := Structured[campaign.Plan](context.Background(), m, "", "", "ContentPlan")
	require.NoError(t, err)
	require.Len(t, plan.Assets, 3)
	assert.Equal(t, "blog-article-01", plan.Assets[0].ID)

	text, err := m.GenerateText(context.Background(), TextRequest{Prompt: "Title/Topic: Hello\nAngle: x"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "# Hello\n"))

	_, err = m.GenerateStructured(context.Background(), StructuredRequest{SchemaName: "Unknown"})
	assert.ErrorIs(t, err, ErrNoOutput)
}
