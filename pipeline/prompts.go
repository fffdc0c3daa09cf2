package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"campaign_content_creator/campaign"
)

const briefSystem = `You are a marketing strategist who parses free-text campaign briefs into structured data.

Extract the following from the user's input:
- Topic: The core subject of the campaign
- Target audience: Who the content is aimed at
- Goals: What the campaign should achieve
- Tone: The desired voice (default: professional but approachable)
- Key messages: The main points to communicate
- Language: Detect from the input text (de or en)
- Requested assets: Which content types and how many
- Constraints: Any specific requirements or limitations

If the user doesn't specify certain fields, use reasonable defaults:
- Goals: ["Awareness", "Engagement"]
- Tone: "Professional, approachable, and knowledgeable"
- If no asset types are mentioned, default to: 2 LinkedIn posts + 1 blog article

Map asset mentions to these exact types:
- LinkedIn/LinkedIn Post → "linkedin-post"
- Twitter/Tweet/X → "twitter-post"
- Blog/Blog Post/Artikel → "blog-article"
- Email/Newsletter → "email-newsletter"
- Instagram/Insta → "instagram-caption"
- Whitepaper/E-Book/Leitfaden → "whitepaper"
- Landing Page/Landingpage → "landing-page"`

func briefPrompt(input, brandContext string) string {
	p := "Parse this campaign brief into structured data:\n\n" + input
	if brandContext != "" {
		p += "\n\n## Brand Context\n\n" + brandContext
	}
	return p
}

const planSystem = `You are a senior content strategist creating a detailed content plan for a marketing campaign.

Your plan should:
1. Define 2-4 content pillars that support the campaign goals
2. Plan each requested asset with a specific angle, key points, and CTA
3. Ensure variety across assets - different angles, hooks, and CTAs
4. Maintain consistent brand voice guidelines
5. Each asset should be self-contained but part of the larger narrative

Asset IDs should follow the pattern: {type}-{number}, e.g. "linkedin-post-01", "blog-article-01"`

func planPrompt(b campaign.Brief) string {
	var sb strings.Builder
	sb.WriteString("Create a content plan for this campaign:\n\n")
	fmt.Fprintf(&sb, "Topic: %s\n", b.Topic)
	fmt.Fprintf(&sb, "Target Audience: %s\n", b.TargetAudience)
	fmt.Fprintf(&sb, "Goals: %s\n", strings.Join(b.Goals, ", "))
	fmt.Fprintf(&sb, "Tone: %s\n", b.Tone)
	fmt.Fprintf(&sb, "Key Messages: %s\n", strings.Join(b.KeyMessages, "; "))
	fmt.Fprintf(&sb, "Language: %s\n", b.Language)
	if len(b.Constraints) > 0 {
		fmt.Fprintf(&sb, "Constraints: %s\n", strings.Join(b.Constraints, "; "))
	}
	sb.WriteString("\nRequested Assets:\n")
	lines := make([]string, 0, len(b.RequestedAssets))
	for _, r := range b.RequestedAssets {
		line := fmt.Sprintf("- %dx %s", r.Count, r.Type)
		if r.Notes != "" {
			line += " (" + r.Notes + ")"
		}
		lines = append(lines, line)
	}
	sb.WriteString(strings.Join(lines, "\n"))
	return sb.String()
}

const reviewSystem = `You are a senior marketing editor reviewing a set of campaign assets for quality and consistency.

Evaluate each asset on:
1. Quality of writing (clarity, engagement, persuasiveness)
2. Adherence to brand voice and tone guidelines
3. Accuracy of key messages
4. Effectiveness of CTA
5. Platform-appropriateness (length, format, style)

Also check cross-asset consistency:
- Are key messages consistent across all assets?
- Is the brand voice uniform?
- Do CTAs complement each other without being repetitive?

Score each asset 1-10 and mark assets scoring below 7 for revision.
Provide an overall campaign score too.`

func reviewPrompt(b campaign.Brief, plan campaign.Plan, assets []campaign.GeneratedAsset, brandContext string) string {
	texts := make([]string, 0, len(assets))
	for _, a := range assets {
		meta, _ := json.Marshal(a.Metadata)
		texts = append(texts, fmt.Sprintf("### %s (%s): %s\n\n%s\n\nMetadata: %s", a.ID, a.Type, a.Title, a.Content, meta))
	}

	var sb strings.Builder
	sb.WriteString("Review these campaign assets for consistency and quality.\n\n")
	sb.WriteString("## Campaign Brief\n")
	fmt.Fprintf(&sb, "- Topic: %s\n", b.Topic)
	fmt.Fprintf(&sb, "- Audience: %s\n", b.TargetAudience)
	fmt.Fprintf(&sb, "- Tone: %s\n", b.Tone)
	fmt.Fprintf(&sb, "- Key Messages: %s\n\n", strings.Join(b.KeyMessages, "; "))
	fmt.Fprintf(&sb, "## Brand Voice Guidelines\n%s\n\n", plan.BrandVoiceGuidelines)
	if brandContext != "" {
		fmt.Fprintf(&sb, "## Brand Guidelines\n%s\n\n", brandContext)
	}
	sb.WriteString("## Assets to Review\n\n")
	sb.WriteString(strings.Join(texts, "\n\n---\n\n"))
	return sb.String()
}
