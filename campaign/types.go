package campaign

import (
	"fmt"
	"strings"
)

// AssetType identifies one kind of campaign deliverable.
type AssetType string

const (
	LinkedInPost     AssetType = "linkedin-post"
	TwitterPost      AssetType = "twitter-post"
	BlogArticle      AssetType = "blog-article"
	EmailNewsletter  AssetType = "email-newsletter"
	InstagramCaption AssetType = "instagram-caption"
	Whitepaper       AssetType = "whitepaper"
	LandingPage      AssetType = "landing-page"
)

// AllAssetTypes lists every supported type in registry order.
var AllAssetTypes = []AssetType{
	LinkedInPost,
	TwitterPost,
	BlogArticle,
	EmailNewsletter,
	InstagramCaption,
	Whitepaper,
	LandingPage,
}

// Valid reports whether t is one of the supported asset types.
func (t AssetType) Valid() bool {
	for _, known := range AllAssetTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Folder is the export directory for the type: linkedin-post -> linkedin.
func (t AssetType) Folder() string {
	s := string(t)
	if i := strings.Index(s, "-"); i > 0 {
		return s[:i]
	}
	return s
}

// Publishable reports whether assets of this type become pages in the content repository.
func (t AssetType) Publishable() bool {
	return t == BlogArticle || t == LandingPage
}

// ParseAssetType converts user input into an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	t := AssetType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown asset type %q", s)
	}
	return t, nil
}

// AssetRequest is one line of the brief's deliverables: how many of which type.
type AssetRequest struct {
	Type  AssetType `json:"type" jsonschema:"enum=linkedin-post,enum=twitter-post,enum=blog-article,enum=email-newsletter,enum=instagram-caption,enum=whitepaper,enum=landing-page" validate:"required"`
	Count int       `json:"count" jsonschema:"minimum=1,maximum=10" validate:"min=1,max=10"`
	Notes string    `json:"notes,omitempty"`
}

// Brief is the structured form of the free-text campaign request.
type Brief struct {
	Topic           string         `json:"topic" validate:"required"`
	TargetAudience  string         `json:"targetAudience"`
	Goals           []string       `json:"goals"`
	Tone            string         `json:"tone"`
	KeyMessages     []string       `json:"keyMessages"`
	Language        string         `json:"language" jsonschema:"enum=de,enum=en"`
	RequestedAssets []AssetRequest `json:"requestedAssets" validate:"dive"`
	Constraints     []string       `json:"constraints,omitempty"`
}

// RequestSummary renders the requested deliverables as "2x linkedin-post, 1x blog-article".
func (b Brief) RequestSummary() string {
	parts := make([]string, 0, len(b.RequestedAssets))
	for _, r := range b.RequestedAssets {
		parts = append(parts, fmt.Sprintf("%dx %s", r.Count, r.Type))
	}
	return strings.Join(parts, ", ")
}

// Pillar is a thematic strand of the campaign.
type Pillar struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	KeyMessages []string `json:"keyMessages"`
}

// PlannedAsset is the plan entry a generator turns into content.
type PlannedAsset struct {
	ID        string    `json:"id" jsonschema_description:"Pattern {type}-{NN}, e.g. linkedin-post-01"`
	Type      AssetType `json:"type" jsonschema:"enum=linkedin-post,enum=twitter-post,enum=blog-article,enum=email-newsletter,enum=instagram-caption,enum=whitepaper,enum=landing-page" validate:"required"`
	Title     string    `json:"title" validate:"required"`
	Angle     string    `json:"angle"`
	Pillar    string    `json:"pillar"`
	KeyPoints []string  `json:"keyPoints"`
	CTA       string    `json:"cta"`
}

// Plan is the campaign content plan.
type Plan struct {
	CampaignName         string         `json:"campaignName" validate:"required"`
	Summary              string         `json:"summary"`
	Pillars              []Pillar       `json:"pillars" validate:"dive"`
	Assets               []PlannedAsset `json:"assets" validate:"dive"`
	BrandVoiceGuidelines string         `json:"brandVoiceGuidelines"`
}

// GeneratedAsset is produced content. ImagePath and PDFPath are attached by later stages.
type GeneratedAsset struct {
	ID        string            `json:"id"`
	Type      AssetType         `json:"type"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata"`
	ImagePath string            `json:"imagePath,omitempty"`
	PDFPath   string            `json:"pdfPath,omitempty"`
}

// Clone returns a copy that shares no mutable state with a.
func (a GeneratedAsset) Clone() GeneratedAsset {
	out := a
	if a.Metadata != nil {
		out.Metadata = make(map[string]string, len(a.Metadata))
		for k, v := range a.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// CloneAssets copies every asset in the slice.
func CloneAssets(assets []GeneratedAsset) []GeneratedAsset {
	if assets == nil {
		return nil
	}
	out := make([]GeneratedAsset, len(assets))
	for i, a := range assets {
		out[i] = a.Clone()
	}
	return out
}

// AssetReview is the editor's verdict on one asset.
type AssetReview struct {
	AssetID     string   `json:"assetId" validate:"required"`
	Score       int      `json:"score" jsonschema:"minimum=1,maximum=10" validate:"min=1,max=10"`
	Strengths   []string `json:"strengths"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Revised     bool     `json:"revised"`
}

// Review is the quality and consistency review over the whole campaign.
type Review struct {
	OverallScore     int           `json:"overallScore" jsonschema:"minimum=1,maximum=10" validate:"min=1,max=10"`
	ConsistencyNotes string        `json:"consistencyNotes"`
	AssetReviews     []AssetReview `json:"assetReviews" validate:"dive"`
}

// ScoreFor returns the review score of an asset, or 0 when it was not reviewed.
func (r *Review) ScoreFor(assetID string) int {
	if r == nil {
		return 0
	}
	for _, ar := range r.AssetReviews {
		if ar.AssetID == assetID {
			return ar.Score
		}
	}
	return 0
}

// PublishedAsset records where an asset landed in the content repository.
type PublishedAsset struct {
	AssetID  string `json:"assetId"`
	FilePath string `json:"filePath"`
	URL      string `json:"url"`
}

// PublishResult is the outcome of the publish workflow.
type PublishResult struct {
	Published []PublishedAsset `json:"published"`
	PRURL     string           `json:"prUrl,omitempty"`
	Branch    string           `json:"branch"`
	Repo      string           `json:"repo"`
}
