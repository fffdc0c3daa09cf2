package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"campaign_content_creator/campaign"
)

// Mock is an offline Client for local runs. Structured calls are answered from
// canned JSON keyed by schema name; text calls echo the prompt as Markdown.
type Mock struct {
	Structured map[string]json.RawMessage
}

func (m Mock) GenerateText(_ context.Context, req TextRequest) (string, error) {
	title := "Generated draft"
	for _, line := range strings.Split(req.Prompt, "\n") {
		if v, ok := strings.CutPrefix(line, "Title/Topic: "); ok {
			title = v
			break
		}
		if v, ok := strings.CutPrefix(line, "Title: "); ok {
			title = v
			break
		}
	}
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	sb.WriteString("*Offline draft*\n\n")
	sb.WriteString("This draft was produced without calling a language model.\n\n")
	sb.WriteString("## Brief\n\n")
	sb.WriteString("```\n")
	sb.WriteString(req.Prompt)
	sb.WriteString("\n```\n")
	return sb.String(), nil
}

func (m Mock) GenerateStructured(_ context.Context, req StructuredRequest) (json.RawMessage, error) {
	raw, ok := m.Structured[req.SchemaName]
	if !ok {
		return nil, fmt.Errorf("mock: no canned output for %s: %w", req.SchemaName, ErrNoOutput)
	}
	return raw, nil
}

// DryRun returns a Mock preloaded with a small campaign: one blog article, one
// LinkedIn post and one whitepaper, all reviewed above the revision threshold.
func DryRun(language string) Mock {
	brief := campaign.Brief{
		Topic:          "Offline campaign",
		TargetAudience: "IT decision makers",
		Goals:          []string{"Awareness", "Engagement"},
		Tone:           "Professional, approachable, and knowledgeable",
		KeyMessages:    []string{"Automation pays off", "Start small"},
		Language:       language,
		RequestedAssets: []campaign.AssetRequest{
			{Type: campaign.BlogArticle, Count: 1},
			{Type: campaign.LinkedInPost, Count: 1},
			{Type: campaign.Whitepaper, Count: 1},
		},
	}
	plan := campaign.Plan{
		CampaignName: "Offline campaign",
		Summary:      "A dry run that exercises every stage without network access.",
		Pillars:      []campaign.Pillar{{Name: "Value", Description: "Why it matters", KeyMessages: brief.KeyMessages}},
		Assets: []campaign.PlannedAsset{
			{Type: campaign.BlogArticle, Title: "Why automation pays off", Angle: "Business case", Pillar: "Value", KeyPoints: []string{"Cost", "Speed"}, CTA: "Book a call"},
			{Type: campaign.LinkedInPost, Title: "Three signs you are ready", Angle: "Checklist", Pillar: "Value", KeyPoints: []string{"Data", "Team"}, CTA: "Read the blog"},
			{Type: campaign.Whitepaper, Title: "Automation readiness guide", Angle: "Framework", Pillar: "Value", KeyPoints: []string{"Assessment", "Roadmap"}, CTA: "Contact us"},
		},
		BrandVoiceGuidelines: "Clear, concrete, no buzzwords.",
	}
	plan.Assets = campaign.NormalizeIDs(plan.Assets)
	review := campaign.Review{OverallScore: 8, ConsistencyNotes: "Consistent voice across assets."}
	for _, a := range plan.Assets {
		review.AssetReviews = append(review.AssetReviews, campaign.AssetReview{AssetID: a.ID, Score: 8, Strengths: []string{"Clear structure"}})
	}
	return Mock{Structured: map[string]json.RawMessage{
		"CampaignBrief": mustJSON(brief),
		"ContentPlan":   mustJSON(plan),
		"ReviewResult":  mustJSON(review),
	}}
}

func mustJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
