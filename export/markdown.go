package export

import (
	"fmt"
	"strings"
	"time"

	"campaign_content_creator/campaign"
)

// RenderContentPlan renders the plan as a readable Markdown overview.
func RenderContentPlan(plan campaign.Plan) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n%s\n\n", plan.CampaignName, plan.Summary)

	sb.WriteString("## Content Pillars\n\n")
	for _, p := range plan.Pillars {
		fmt.Fprintf(&sb, "### %s\n\n%s\n\n", p.Name, p.Description)
		for _, m := range p.KeyMessages {
			fmt.Fprintf(&sb, "- %s\n", m)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Planned Assets\n\n")
	for _, a := range plan.Assets {
		fmt.Fprintf(&sb, "### %s: %s\n\n", a.ID, a.Title)
		fmt.Fprintf(&sb, "- **Type**: %s\n", a.Type)
		fmt.Fprintf(&sb, "- **Angle**: %s\n", a.Angle)
		fmt.Fprintf(&sb, "- **Pillar**: %s\n", a.Pillar)
		fmt.Fprintf(&sb, "- **CTA**: %s\n", a.CTA)
		sb.WriteString("- **Key Points**:\n")
		for _, k := range a.KeyPoints {
			fmt.Fprintf(&sb, "  - %s\n", k)
		}
		sb.WriteString("\n")
	}

	fmt.Fprintf(&sb, "## Brand Voice Guidelines\n\n%s\n", plan.BrandVoiceGuidelines)
	return sb.String()
}

// RenderReadme is the campaign directory's README.
func RenderReadme(b Bundle, generatedAt time.Time) string {
	var sb strings.Builder
	name := "Campaign"
	if b.Plan != nil && b.Plan.CampaignName != "" {
		name = b.Plan.CampaignName
	}
	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "> Generated on %s\n\n", generatedAt.Format("2006-01-02 15:04:05"))

	if b.Plan != nil {
		fmt.Fprintf(&sb, "## Overview\n\n%s\n\n", b.Plan.Summary)
	}
	if b.Brief != nil {
		sb.WriteString("## Brief\n\n")
		fmt.Fprintf(&sb, "- **Topic**: %s\n", b.Brief.Topic)
		fmt.Fprintf(&sb, "- **Audience**: %s\n", b.Brief.TargetAudience)
		fmt.Fprintf(&sb, "- **Language**: %s\n", b.Brief.Language)
		fmt.Fprintf(&sb, "- **Tone**: %s\n\n", b.Brief.Tone)
	}

	sb.WriteString("## Generated Assets\n\n")
	sb.WriteString("| ID | Type | Title |\n|---|---|---|\n")
	for _, a := range b.Assets {
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", a.ID, a.Type, strings.ReplaceAll(a.Title, "|", `\|`))
	}

	if b.Review != nil {
		sb.WriteString("\n## Review\n\n")
		fmt.Fprintf(&sb, "- **Overall Score**: %d/10\n", b.Review.OverallScore)
		fmt.Fprintf(&sb, "- **Consistency**: %s\n", b.Review.ConsistencyNotes)
	}

	sb.WriteString("\n## Files\n\n")
	sb.WriteString("- `content-plan.md` - Content plan overview\n")
	sb.WriteString("- `content-plan.json` - Machine-readable content plan\n")
	sb.WriteString("- `assets/` - Individual asset files\n")
	sb.WriteString("- `preview/index.html` - Visual preview of all assets\n")
	sb.WriteString("- `campaign.json` - Complete pipeline output\n")
	return sb.String()
}
