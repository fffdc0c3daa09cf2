// Package export writes a finished campaign to disk: asset Markdown files, the
// content plan, a JSON bundle, a README and the HTML preview.
package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"campaign_content_creator/campaign"
	"campaign_content_creator/render"
)

// DirTimeLayout names campaign directories: campaign-2026-03-01T10-00-00.
const DirTimeLayout = "2006-01-02T15-04-05"

// Bundle is the pipeline output the exporter writes.
type Bundle struct {
	Brief    *campaign.Brief
	Plan     *campaign.Plan
	Assets   []campaign.GeneratedAsset
	Review   *campaign.Review
	Language string
}

// Exporter creates campaign directories under Root.
type Exporter struct {
	Root string
	Now  func() time.Time
	Log  zerolog.Logger
}

// New returns an Exporter writing below root.
func New(root string, log zerolog.Logger) *Exporter {
	if root == "" {
		root = "output"
	}
	return &Exporter{Root: root, Now: time.Now, Log: log}
}

func (e *Exporter) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// Export creates a fresh campaign directory and writes every file into it.
func (e *Exporter) Export(ctx context.Context, b Bundle) (string, error) {
	if b.Plan == nil {
		return "", errors.New("export: plan is required")
	}
	root, err := filepath.Abs(e.Root)
	if err != nil {
		return "", fmt.Errorf("export: resolve root: %w", err)
	}
	now := e.now()
	dir := filepath.Join(root, "campaign-"+now.UTC().Format(DirTimeLayout))

	store, err := NewFileStore(dir)
	if err != nil {
		return "", err
	}
	for _, sub := range []string{"assets", "preview"} {
		if err := store.Mkdir(sub); err != nil {
			return "", err
		}
	}

	for _, a := range b.Assets {
		if _, err := store.Write(ctx, AssetKey(a), []byte(AssetMarkdown(a))); err != nil {
			return "", err
		}
	}
	if _, err := store.Write(ctx, "content-plan.md", []byte(RenderContentPlan(*b.Plan))); err != nil {
		return "", err
	}
	planJSON, err := json.MarshalIndent(b.Plan, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export: encode plan: %w", err)
	}
	if _, err := store.Write(ctx, "content-plan.json", planJSON); err != nil {
		return "", err
	}
	if err := e.writeSummary(ctx, store, b, now); err != nil {
		return "", err
	}

	e.Log.Info().Str("dir", dir).Int("assets", len(b.Assets)).Msg("campaign exported")
	return dir, nil
}

// Refresh rewrites the files that show image and PDF paths after those were
// attached: the preview page, campaign.json and README.md.
func (e *Exporter) Refresh(ctx context.Context, dir string, b Bundle) error {
	store, err := NewFileStore(dir)
	if err != nil {
		return err
	}
	return e.writeSummary(ctx, store, b, e.now())
}

func (e *Exporter) writeSummary(ctx context.Context, store *FileStore, b Bundle, now time.Time) error {
	html, err := render.Preview(render.PreviewInput{
		Plan:        b.Plan,
		Assets:      b.Assets,
		Review:      b.Review,
		Language:    b.Language,
		PreviewDir:  filepath.Join(store.BasePath(), "preview"),
		GeneratedAt: now,
	})
	if err != nil {
		return err
	}
	if _, err := store.Write(ctx, "preview/index.html", []byte(html)); err != nil {
		return err
	}

	bundle, err := json.MarshalIndent(newCampaignFile(b, now), "", "  ")
	if err != nil {
		return fmt.Errorf("export: encode campaign: %w", err)
	}
	if _, err := store.Write(ctx, "campaign.json", bundle); err != nil {
		return err
	}
	_, err = store.Write(ctx, "README.md", []byte(RenderReadme(b, now)))
	return err
}

// AssetKey is the relative path of an asset's Markdown file,
// e.g. assets/linkedin/01.md.
func AssetKey(a campaign.GeneratedAsset) string {
	return path.Join("assets", a.Type.Folder(), campaign.Sequence(a.ID)+".md")
}

// AssetMarkdown is the exported file content for one asset.
func AssetMarkdown(a campaign.GeneratedAsset) string {
	return fmt.Sprintf("# %s\n\n> Type: %s | ID: %s\n\n%s\n", a.Title, a.Type, a.ID, a.Content)
}

type assetSummary struct {
	ID            string             `json:"id"`
	Type          campaign.AssetType `json:"type"`
	Title         string             `json:"title"`
	Metadata      map[string]string  `json:"metadata"`
	ContentLength int                `json:"contentLength"`
	ImagePath     string             `json:"imagePath,omitempty"`
	PDFPath       string             `json:"pdfPath,omitempty"`
}

type campaignFile struct {
	GeneratedAt time.Time        `json:"generatedAt"`
	Brief       *campaign.Brief  `json:"brief"`
	Plan        *campaign.Plan   `json:"plan"`
	Assets      []assetSummary   `json:"assets"`
	Review      *campaign.Review `json:"review"`
}

func newCampaignFile(b Bundle, now time.Time) campaignFile {
	out := campaignFile{
		GeneratedAt: now.UTC(),
		Brief:       b.Brief,
		Plan:        b.Plan,
		Review:      b.Review,
		Assets:      make([]assetSummary, 0, len(b.Assets)),
	}
	for _, a := range b.Assets {
		out.Assets = append(out.Assets, assetSummary{
			ID:            a.ID,
			Type:          a.Type,
			Title:         a.Title,
			Metadata:      a.Metadata,
			ContentLength: len([]rune(a.Content)),
			ImagePath:     a.ImagePath,
			PDFPath:       a.PDFPath,
		})
	}
	return out
}
