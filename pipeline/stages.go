package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"campaign_content_creator/campaign"
	"campaign_content_creator/export"
	"campaign_content_creator/generator"
	"campaign_content_creator/imagegen"
	"campaign_content_creator/llm"
	"campaign_content_creator/pdf"
	"campaign_content_creator/publisher"
	"campaign_content_creator/render"
)

// RevisionThreshold is the review score below which an asset is rewritten.
const RevisionThreshold = 7

const revisionTokens = 8192

// Publisher pushes publishable assets to the content repository.
type Publisher interface {
	PublishToRepo(ctx context.Context, assets []campaign.GeneratedAsset, campaignName string, opts publisher.PublishOptions) (campaign.PublishResult, error)
}

// Stages holds the services each pipeline stage calls. Images, PDF and
// Publisher are optional; their stages are skipped when nil.
type Stages struct {
	LLM           llm.Client
	Registry      *generator.Registry
	Images        imagegen.Service
	PDF           pdf.Renderer
	Publisher     Publisher
	MaxConcurrent int
	Log           zerolog.Logger
}

// ParseBrief turns the free-text request into a Brief. A non-empty language
// overrides the detected one.
func (s *Stages) ParseBrief(ctx context.Context, input, language, brandContext string) (campaign.Brief, error) {
	brief, err := llm.Structured[campaign.Brief](ctx, s.LLM, briefSystem, briefPrompt(input, brandContext), "CampaignBrief")
	if err != nil {
		return campaign.Brief{}, fmt.Errorf("parse brief: %w", err)
	}
	if language != "" {
		brief.Language = language
	}
	return brief, nil
}

// PlanContent asks for a content plan and renumbers its asset ids so they are
// unique and follow {type}-{NN}.
func (s *Stages) PlanContent(ctx context.Context, brief campaign.Brief) (campaign.Plan, error) {
	plan, err := llm.Structured[campaign.Plan](ctx, s.LLM, planSystem, planPrompt(brief), "ContentPlan")
	if err != nil {
		return campaign.Plan{}, fmt.Errorf("plan content: %w", err)
	}
	plan.Assets = campaign.NormalizeIDs(plan.Assets)
	return plan, nil
}

// GenerateAssets produces one asset per planned entry, in plan order.
func (s *Stages) GenerateAssets(ctx context.Context, plan campaign.Plan, language, brandContext string) ([]campaign.GeneratedAsset, error) {
	gens, err := s.Registry.Resolve(plan.Assets)
	if err != nil {
		return nil, fmt.Errorf("generate assets: %w", err)
	}
	opts := generator.Options{
		BrandVoice:   plan.BrandVoiceGuidelines,
		Language:     language,
		BrandContext: brandContext,
	}
	return inBatches(ctx, plan.Assets, s.MaxConcurrent, func(ctx context.Context, i int, planned campaign.PlannedAsset) (campaign.GeneratedAsset, error) {
		s.Log.Debug().Str("asset", planned.ID).Msg("generating asset")
		return gens[i].Generate(ctx, planned, opts)
	})
}

// ReviewAssets scores every asset in one call, then rewrites the assets that
// scored below RevisionThreshold one after another. The returned slice has the
// same length and order as assets.
func (s *Stages) ReviewAssets(ctx context.Context, brief campaign.Brief, plan campaign.Plan, assets []campaign.GeneratedAsset, brandContext string) (campaign.Review, []campaign.GeneratedAsset, error) {
	review, err := llm.Structured[campaign.Review](ctx, s.LLM, reviewSystem, reviewPrompt(brief, plan, assets, brandContext), "ReviewResult")
	if err != nil {
		return campaign.Review{}, nil, fmt.Errorf("review: %w", err)
	}

	out := campaign.CloneAssets(assets)
	index := make(map[string]int, len(out))
	for i, a := range out {
		index[a.ID] = i
	}

	for ri := range review.AssetReviews {
		ar := &review.AssetReviews[ri]
		ar.Revised = false
		if ar.Score >= RevisionThreshold {
			continue
		}
		idx, ok := index[ar.AssetID]
		if !ok {
			s.Log.Debug().Str("asset", ar.AssetID).Msg("review names unknown asset, skipping")
			continue
		}
		system, prompt := generator.BuildRevisionPrompt(out[idx], *ar, brandContext)
		revised, err := s.LLM.GenerateText(ctx, llm.TextRequest{System: system, Prompt: prompt, MaxTokens: revisionTokens})
		if err != nil {
			return campaign.Review{}, nil, fmt.Errorf("revise %s: %w", ar.AssetID, err)
		}
		out[idx].Content = strings.TrimSpace(revised)
		ar.Revised = true
	}
	return review, out, nil
}

// GenerateImages attaches a header image to each asset, writing
// images/<id>.<ext> below outputDir. Failed assets keep no image; their
// errors are joined into the returned error while the other assets keep
// their new paths.
func (s *Stages) GenerateImages(ctx context.Context, assets []campaign.GeneratedAsset, brief campaign.Brief, outputDir, imageContext string) ([]campaign.GeneratedAsset, error) {
	if s.Images == nil {
		return assets, errors.New("generate images: no image service configured")
	}
	imagesDir := filepath.Join(outputDir, "images")
	errs := make([]error, len(assets))
	out, err := inBatches(ctx, assets, s.MaxConcurrent, func(ctx context.Context, i int, a campaign.GeneratedAsset) (campaign.GeneratedAsset, error) {
		a = a.Clone()
		prompt := imagegen.BuildPrompt(imagegen.PromptInput{
			AssetType:    a.Type,
			Title:        a.Title,
			Topic:        brief.Topic,
			Tone:         brief.Tone,
			BrandContext: imageContext,
		})
		img, err := s.Images.Generate(ctx, prompt)
		if err == nil {
			a.ImagePath, err = imagegen.WriteImage(img, filepath.Join(imagesDir, a.ID+".png"))
		}
		if err != nil {
			s.Log.Warn().Err(err).Str("asset", a.ID).Msg("image generation failed")
			errs[i] = fmt.Errorf("%s: %w", a.ID, err)
		}
		return a, nil
	})
	if err != nil {
		return assets, err
	}
	return out, errors.Join(errs...)
}

// GeneratePDFs prints every whitepaper to assets/whitepaper/<id>.pdf below
// outputDir, using the asset image as cover when one is attached.
func (s *Stages) GeneratePDFs(ctx context.Context, assets []campaign.GeneratedAsset, outputDir, language string) ([]campaign.GeneratedAsset, error) {
	out := campaign.CloneAssets(assets)
	if s.PDF == nil {
		return out, errors.New("generate pdfs: no pdf renderer configured")
	}
	store, err := export.NewFileStore(outputDir)
	if err != nil {
		return out, err
	}
	var errs []error
	for i, a := range out {
		if a.Type != campaign.Whitepaper {
			continue
		}
		path, err := s.printAsset(ctx, store, a, language)
		if err != nil {
			s.Log.Warn().Err(err).Str("asset", a.ID).Msg("pdf generation failed")
			errs = append(errs, fmt.Errorf("%s: %w", a.ID, err))
			continue
		}
		out[i].PDFPath = path
	}
	return out, errors.Join(errs...)
}

func (s *Stages) printAsset(ctx context.Context, store *export.FileStore, a campaign.GeneratedAsset, language string) (string, error) {
	var cover []byte
	if a.ImagePath != "" {
		data, err := os.ReadFile(a.ImagePath)
		if err != nil {
			s.Log.Debug().Err(err).Str("asset", a.ID).Msg("cover image unreadable, printing without")
		} else {
			cover = data
		}
	}
	html, err := render.PrintHTML(render.PrintInput{
		Title:      a.Title,
		Content:    a.Content,
		Language:   language,
		CoverImage: cover,
	})
	if err != nil {
		return "", err
	}
	data, err := s.PDF.Render(ctx, html)
	if err != nil {
		return "", err
	}
	return store.Write(ctx, "assets/whitepaper/"+a.ID+".pdf", data)
}

// Publish hands the assets to the configured publisher.
func (s *Stages) Publish(ctx context.Context, assets []campaign.GeneratedAsset, campaignName string, opts publisher.PublishOptions) (campaign.PublishResult, error) {
	if s.Publisher == nil {
		return campaign.PublishResult{}, errors.New("publish: no publisher configured")
	}
	return s.Publisher.PublishToRepo(ctx, assets, campaignName, opts)
}
