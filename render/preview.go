package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"
	"time"

	"campaign_content_creator/campaign"
)

// PreviewInput is everything the preview page shows.
type PreviewInput struct {
	Plan        *campaign.Plan
	Assets      []campaign.GeneratedAsset
	Review      *campaign.Review
	Language    string
	PreviewDir  string
	GeneratedAt time.Time
}

type previewAsset struct {
	ID           string
	Type         string
	Title        string
	Score        int
	ScoreClass   string
	TypeClass    string
	ImageRelPath string
	PDFRelPath   string
	ContentHTML  template.HTML
}

type previewPage struct {
	CampaignName string
	Summary      string
	Language     string
	AssetCount   int
	ImageCount   int
	PDFCount     int
	OverallScore int
	GeneratedAt  string
	Assets       []previewAsset
}

// ScoreClass maps a review score to its badge style.
func ScoreClass(score int) string {
	switch {
	case score <= 0:
		return ""
	case score >= 8:
		return "score-high"
	case score >= 6:
		return "score-mid"
	default:
		return "score-low"
	}
}

// Preview renders the standalone preview page. Image and PDF links are made
// relative to in.PreviewDir so the exported folder can be moved as a whole.
func Preview(in PreviewInput) (string, error) {
	page := previewPage{
		Language:    in.Language,
		AssetCount:  len(in.Assets),
		GeneratedAt: in.GeneratedAt.Format("2006-01-02 15:04"),
	}
	if in.Plan != nil {
		page.CampaignName = in.Plan.CampaignName
		page.Summary = in.Plan.Summary
	}
	if in.Review != nil {
		page.OverallScore = in.Review.OverallScore
	}
	for _, a := range in.Assets {
		score := in.Review.ScoreFor(a.ID)
		pa := previewAsset{
			ID:          a.ID,
			Type:        string(a.Type),
			Title:       a.Title,
			Score:       score,
			ScoreClass:  ScoreClass(score),
			ContentHTML: template.HTML(ToHTML(a.Content)),
		}
		if a.Type == campaign.Whitepaper {
			pa.TypeClass = "type-badge-whitepaper"
		}
		if a.ImagePath != "" {
			page.ImageCount++
			pa.ImageRelPath = relativeTo(in.PreviewDir, a.ImagePath)
		}
		if a.PDFPath != "" {
			page.PDFCount++
			pa.PDFRelPath = relativeTo(in.PreviewDir, a.PDFPath)
		}
		page.Assets = append(page.Assets, pa)
	}

	var buf bytes.Buffer
	if err := previewTmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render: preview: %w", err)
	}
	return buf.String(), nil
}

func relativeTo(base, target string) string {
	if base == "" {
		return filepath.ToSlash(target)
	}
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.CampaignName}} - Preview</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f5f5f5; color: #333; line-height: 1.6; }
    .container { max-width: 900px; margin: 0 auto; padding: 2rem; }
    header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 3rem 2rem; border-radius: 12px; margin-bottom: 2rem; }
    header h1 { font-size: 2rem; margin-bottom: 0.5rem; }
    header p { opacity: 0.9; font-size: 1.1rem; }
    .stats { display: flex; gap: 1rem; margin-top: 1.5rem; flex-wrap: wrap; }
    .stat { background: rgba(255,255,255,0.2); padding: 0.5rem 1rem; border-radius: 8px; font-size: 0.9rem; }
    .asset-card { background: white; border-radius: 12px; margin-bottom: 1.5rem; box-shadow: 0 2px 8px rgba(0,0,0,0.08); overflow: hidden; }
    .asset-image { width: 100%; max-height: 300px; object-fit: cover; display: block; }
    .asset-body { padding: 2rem; }
    .asset-header { margin-bottom: 1rem; }
    .asset-header h2 { font-size: 1.3rem; margin-bottom: 0.4rem; }
    .asset-meta { color: #888; font-size: 0.85rem; display: flex; gap: 0.5rem; flex-wrap: wrap; }
    .asset-meta span { background: #f0f0f0; padding: 0.2rem 0.6rem; border-radius: 4px; }
    .asset-content { font-size: 0.95rem; border-left: 3px solid #667eea; padding-left: 1.2rem; }
    .asset-content h1 { font-size: 1.2rem; margin: 1.2rem 0 0.5rem; color: #1a202c; }
    .asset-content h2 { font-size: 1.1rem; margin: 1rem 0 0.4rem; color: #2d3748; }
    .asset-content h3 { font-size: 1rem; margin: 0.8rem 0 0.3rem; color: #4a5568; }
    .asset-content p { margin-bottom: 0.6rem; }
    .asset-content ul, .asset-content ol { margin: 0.4rem 0 0.8rem 1.2rem; }
    .asset-content blockquote { border-left: 3px solid #cbd5e0; padding: 0.5rem 1rem; margin: 0.6rem 0; background: #f7fafc; color: #4a5568; font-style: italic; }
    .asset-content code { background: #edf2f7; padding: 0.1rem 0.35rem; border-radius: 3px; font-size: 0.88em; font-family: 'SF Mono', Monaco, Consolas, monospace; }
    .asset-content pre { background: #2d3748; color: #e2e8f0; padding: 0.8rem 1rem; border-radius: 6px; margin: 0.6rem 0; overflow-x: auto; font-size: 0.85em; }
    .asset-content pre code { background: none; padding: 0; color: inherit; }
    .asset-content table { width: 100%; border-collapse: collapse; margin: 0.6rem 0; font-size: 0.9em; }
    .asset-content th { background: #667eea; color: white; padding: 0.5rem 0.7rem; text-align: left; font-weight: 600; }
    .asset-content td { padding: 0.4rem 0.7rem; border-bottom: 1px solid #e2e8f0; }
    .asset-content hr { border: none; border-top: 1px solid #e2e8f0; margin: 1rem 0; }
    .review-badge { display: inline-block; padding: 0.2rem 0.6rem; border-radius: 4px; font-size: 0.8rem; font-weight: 600; }
    .score-high { background: #d4edda; color: #155724; }
    .score-mid { background: #fff3cd; color: #856404; }
    .score-low { background: #f8d7da; color: #721c24; }
    .pdf-link { display: inline-block; margin-top: 1rem; background: #667eea; color: white; padding: 0.5rem 1.2rem; border-radius: 6px; text-decoration: none; font-size: 0.9rem; font-weight: 500; }
    .type-badge-whitepaper { background: #667eea !important; color: white !important; }
    footer { text-align: center; color: #999; padding: 2rem; font-size: 0.85rem; }
  </style>
</head>
<body>
  <div class="container">
    <header>
      <h1>{{.CampaignName}}</h1>
      <p>{{.Summary}}</p>
      <div class="stats">
        <span class="stat">{{.AssetCount}} Assets</span>
        {{if .ImageCount}}<span class="stat">{{.ImageCount}} Images</span>{{end}}
        {{if .PDFCount}}<span class="stat">{{.PDFCount}} PDFs</span>{{end}}
        {{if .OverallScore}}<span class="stat">Score: {{.OverallScore}}/10</span>{{end}}
        <span class="stat">{{.Language}}</span>
      </div>
    </header>
{{range .Assets}}
    <div class="asset-card" id="{{.ID}}">
      {{if .ImageRelPath}}<img class="asset-image" src="{{.ImageRelPath}}" alt="{{.Title}}">{{end}}
      <div class="asset-body">
        <div class="asset-header">
          <h2>{{.Title}}</h2>
          <div class="asset-meta">
            <span class="{{.TypeClass}}">{{.Type}}</span>
            <span>{{.ID}}</span>
            {{if .Score}}<span class="review-badge {{.ScoreClass}}">Score: {{.Score}}/10</span>{{end}}
          </div>
        </div>
        <div class="asset-content">{{.ContentHTML}}</div>
        {{if .PDFRelPath}}<a class="pdf-link" href="{{.PDFRelPath}}">PDF herunterladen</a>{{end}}
      </div>
    </div>
{{end}}
    <footer>Generated by Content Creator Pipeline &mdash; {{.GeneratedAt}}</footer>
  </div>
</body>
</html>
`))
