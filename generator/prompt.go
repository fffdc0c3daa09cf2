package generator

import (
	"fmt"
	"strings"

	"campaign_content_creator/campaign"
)

// assetSpec holds the catalogue entry and prompt wording for one asset type.
type assetSpec struct {
	typ         campaign.AssetType
	label       string
	description string
	platform    string
	format      string
	maxTokens   int
	brandAware  bool

	system      string
	intro       string
	titleLabel  string
	angleLabel  string
	pointsLabel string
	ctaLabel    string
	closing     string
}

var specs = []assetSpec{
	{
		typ:         campaign.LinkedInPost,
		label:       "LinkedIn Post",
		description: "Professional LinkedIn post with hashtags and CTA",
		platform:    "LinkedIn",
		format:      "post",
		system: `You are a LinkedIn content expert writing engaging professional posts.

Guidelines:
- Open with a strong hook (first 2 lines visible in preview)
- Use short paragraphs and line breaks for readability
- Include relevant emojis sparingly (1-3 per post)
- End with a clear CTA and 3-5 relevant hashtags
- Optimal length: 150-300 words
- Tone: Professional but personable
- Use storytelling or data-driven hooks when possible`,
		intro:       "Write a LinkedIn post with these specifications:",
		pointsLabel: "Key Points to Cover",
		closing:     "Write the complete post text, ready to publish.",
	},
	{
		typ:         campaign.TwitterPost,
		label:       "Twitter/X Post",
		description: "Tweet or short thread (max 280 chars per tweet)",
		platform:    "Twitter/X",
		format:      "tweet",
		system: `You are a Twitter/X content expert writing concise, engaging tweets.

Guidelines:
- Max 280 characters per tweet (hard limit)
- If a thread is needed, write 3-5 tweets max
- First tweet must hook attention immediately
- Use 1-2 relevant hashtags max
- Be punchy and direct
- Include a CTA in the last tweet`,
		intro:   "Write a tweet or short thread (max 5 tweets) with these specifications:",
		closing: "Format: Number each tweet as [1/N]. If a single tweet suffices, just write one.",
	},
	{
		typ:         campaign.BlogArticle,
		label:       "Blog Article",
		description: "SEO-optimized blog article in Markdown (800-1500 words)",
		platform:    "Blog/Website",
		format:      "article",
		maxTokens:   8192,
		system: `You are a content marketing expert writing SEO-optimized blog articles.

Guidelines:
- Write a compelling headline (H1) and meta description
- Use clear H2/H3 structure
- Include an engaging introduction with a hook
- 800-1500 words optimal length
- Use bullet points, numbered lists where appropriate
- End with a conclusion and CTA
- Write in Markdown format
- Include suggested meta description and keywords in metadata`,
		intro:       "Write a blog article with these specifications:",
		pointsLabel: "Key Points to Cover",
		closing:     "Write the complete article in Markdown format. Start with the H1 headline.",
	},
	{
		typ:         campaign.EmailNewsletter,
		label:       "Email Newsletter",
		description: "Newsletter email with subject line and preview text",
		platform:    "Email",
		format:      "newsletter",
		brandAware:  true,
		system: `You are an email marketing expert writing engaging newsletter content.

Guidelines:
- Write a compelling subject line (max 60 chars)
- Preview text (max 90 chars)
- Personal, conversational tone
- Clear structure: Hook → Value → CTA
- One primary CTA, max one secondary
- 300-600 words optimal length
- Use short paragraphs (2-3 sentences max)
- Write in Markdown format`,
		intro:   "Write a newsletter email with these specifications:",
		closing: "Include Subject Line and Preview Text at the top, then the email body in Markdown.",
	},
	{
		typ:         campaign.InstagramCaption,
		label:       "Instagram Caption",
		description: "Engaging caption with hashtags for Instagram",
		platform:    "Instagram",
		format:      "caption",
		brandAware:  true,
		system: `You are an Instagram content expert writing engaging captions.

Guidelines:
- Start with a strong hook (first line visible in preview)
- Tell a micro-story or share a valuable insight
- Use line breaks for readability
- Include a CTA (comment, save, share, link in bio)
- Add 5-15 relevant hashtags at the end (separated by a line break)
- 150-300 words optimal length
- Use emojis to add personality (3-5 per caption)`,
		intro:   "Write an Instagram caption with these specifications:",
		closing: "Write the complete caption. Place hashtags after a blank line at the end.",
	},
	{
		typ:         campaign.Whitepaper,
		label:       "Whitepaper (PDF)",
		description: "In-depth whitepaper (3000-5000 words), exported as PDF",
		platform:    "Download/Gated Content",
		format:      "whitepaper-pdf",
		maxTokens:   16384,
		brandAware:  true,
		system: `You are an expert B2B content writer creating in-depth whitepapers for IT decision-makers.

Guidelines:
- Write a comprehensive, authoritative document (3000-5000 words)
- Structure: Title Page Info → Executive Summary → Introduction → 4-6 Main Chapters → Conclusion → About the Company
- Use data, frameworks, and practical examples
- Include tables, bullet points, and numbered lists for readability
- Professional, knowledgeable tone without being overly academic
- Each chapter should have actionable takeaways
- Write in Markdown format with clear heading hierarchy (H1 for title, H2 for chapters, H3 for sections)
- Include a table of contents after the executive summary`,
		intro:       "Write a comprehensive whitepaper with these specifications:",
		titleLabel:  "Title",
		angleLabel:  "Angle/Focus",
		pointsLabel: "Key Topics to Cover",
		closing:     "Write the complete whitepaper in Markdown format. This should be a substantial, authoritative document (3000-5000 words) that provides genuine value to IT decision-makers. Include practical frameworks, data points, and actionable recommendations.",
	},
	{
		typ:         campaign.LandingPage,
		label:       "Landing Page",
		description: "Conversion-optimized landing page copy with hero, benefits, FAQ, and CTA",
		platform:    "Website",
		format:      "landing-page",
		maxTokens:   8192,
		brandAware:  true,
		system: `You are a conversion-focused landing page copywriter.

Guidelines:
- Write a compelling hero section with headline, subheadline, and primary CTA
- Include a clear value proposition section (3-4 benefits with short descriptions)
- Add a "How it works" or feature section
- Include social proof / trust signals section (placeholder for testimonials, logos, stats)
- Write a FAQ section (3-5 questions)
- End with a strong closing CTA section
- Output in Markdown format with clear section markers
- Use persuasive, benefit-driven copy, not feature lists
- Keep paragraphs short and scannable
- Every section should guide toward the CTA`,
		intro:       "Write landing page copy with these specifications:",
		pointsLabel: "Key Points to Cover",
		ctaLabel:    "Primary CTA",
		closing: `Write the complete landing page copy in Markdown format. Structure it with clear sections:
1. Hero (H1 headline, subheadline, CTA)
2. Value Proposition / Benefits
3. How It Works / Features
4. Social Proof (use placeholders like [Testimonial] or [Customer Logo])
5. FAQ
6. Closing CTA`,
	},
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// buildAssetPrompt renders the user prompt for one planned asset.
func buildAssetPrompt(s assetSpec, asset campaign.PlannedAsset, opts Options) string {
	var sb strings.Builder
	sb.WriteString(s.intro + "\n\n")
	sb.WriteString(fmt.Sprintf("%s: %s\n", orDefault(s.titleLabel, "Title/Topic"), asset.Title))
	sb.WriteString(fmt.Sprintf("%s: %s\n", orDefault(s.angleLabel, "Angle"), asset.Angle))
	sb.WriteString(orDefault(s.pointsLabel, "Key Points") + ":\n")
	for _, p := range asset.KeyPoints {
		sb.WriteString("- " + p + "\n")
	}
	sb.WriteString(fmt.Sprintf("%s: %s\n", orDefault(s.ctaLabel, "CTA"), asset.CTA))
	sb.WriteString(fmt.Sprintf("Brand Voice: %s\n", opts.BrandVoice))
	sb.WriteString(fmt.Sprintf("Language: %s\n\n", opts.Language))
	sb.WriteString(s.closing)
	return sb.String()
}

const revisionSystem = "You are revising a marketing asset based on editorial feedback. Maintain the same format and structure but address the issues."

// BuildRevisionPrompt renders the system and user prompts that ask for a revised
// version of an asset given the editor's issues and suggestions.
func BuildRevisionPrompt(asset campaign.GeneratedAsset, review campaign.AssetReview, brandContext string) (system, user string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Original %s asset:\n\n%s\n\n", asset.Type, asset.Content))
	sb.WriteString("Issues to fix:\n")
	for _, issue := range review.Issues {
		sb.WriteString("- " + issue + "\n")
	}
	sb.WriteString("\nSuggestions:\n")
	for _, s := range review.Suggestions {
		sb.WriteString("- " + s + "\n")
	}
	sb.WriteString("\nWrite the revised version:")
	return WithBrandContext(revisionSystem, brandContext), sb.String()
}
