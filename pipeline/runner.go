// Package pipeline runs the campaign stages in order: parse brief, plan,
// generate assets, review, export, images, PDFs and publish.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"campaign_content_creator/brand"
	"campaign_content_creator/campaign"
	"campaign_content_creator/export"
	"campaign_content_creator/publisher"
)

// Stage labels as reported to the Reporter.
const (
	StageParseBrief = "Parse brief"
	StagePlan       = "Plan content"
	StageGenerate   = "Generate assets"
	StageReview     = "Review"
	StageExport     = "Export"
	StageImages     = "Generate images"
	StagePDFs       = "Generate PDFs"
	StagePublish    = "Publish"
)

// StageError wraps the failure of a fatal stage.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }

func (e *StageError) Unwrap() error { return e.Err }

// StageFailure records a non-fatal stage failure.
type StageFailure struct {
	Stage string
	Err   error
}

// PublishOptions controls the optional publish stage.
type PublishOptions struct {
	Enabled   bool
	Repo      string
	Branch    string
	DisablePR bool
}

// Options configures one run.
type Options struct {
	Language   string
	PlanOnly   bool
	SkipImages bool
	Publish    PublishOptions
}

// State is everything a run has produced so far.
type State struct {
	RunID      string
	UserPrompt string
	Language   string
	Brief      *campaign.Brief
	Plan       *campaign.Plan
	Assets     []campaign.GeneratedAsset
	Review     *campaign.Review
	OutputDir  string
	Published  *campaign.PublishResult
	Failures   []StageFailure
}

// Increment is what one stage contributes. Nil fields leave the state as is.
type Increment struct {
	Brief     *campaign.Brief
	Plan      *campaign.Plan
	Assets    []campaign.GeneratedAsset
	Review    *campaign.Review
	OutputDir string
	Published *campaign.PublishResult
}

func (s *State) apply(inc Increment) {
	if inc.Brief != nil {
		s.Brief = inc.Brief
	}
	if inc.Plan != nil {
		s.Plan = inc.Plan
	}
	if inc.Assets != nil {
		s.Assets = inc.Assets
	}
	if inc.Review != nil {
		s.Review = inc.Review
	}
	if inc.OutputDir != "" {
		s.OutputDir = inc.OutputDir
	}
	if inc.Published != nil {
		s.Published = inc.Published
	}
}

func (s *State) bundle() export.Bundle {
	return export.Bundle{
		Brief:    s.Brief,
		Plan:     s.Plan,
		Assets:   s.Assets,
		Review:   s.Review,
		Language: s.Language,
	}
}

// Exporter writes the campaign directory.
type Exporter interface {
	Export(ctx context.Context, b export.Bundle) (string, error)
	Refresh(ctx context.Context, dir string, b export.Bundle) error
}

// Runner executes the stages and owns the state between them.
type Runner struct {
	Stages   *Stages
	Exporter Exporter
	Brand    brand.Config
	Reporter Reporter
	Log      zerolog.Logger
	NewID    func() string
}

// Run executes the pipeline for one free-text request. On a fatal failure the
// partial state is returned together with a *StageError.
func (r *Runner) Run(ctx context.Context, userPrompt string, opts Options) (*State, error) {
	newID := r.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	rep := r.Reporter
	if rep == nil {
		rep = LogReporter{Log: r.Log}
	}
	st := &State{RunID: newID(), UserPrompt: userPrompt, Language: opts.Language}
	log := r.Log.With().Str("run_id", st.RunID).Logger()
	log.Info().Str("language", opts.Language).Msg("pipeline started")

	fatal := func(stage string, err error) (*State, error) {
		rep.StageFailed(stage, err, true)
		log.Error().Err(err).Str("stage", stage).Msg("stage failed")
		return st, &StageError{Stage: stage, Err: err}
	}
	soft := func(stage string, err error) {
		rep.StageFailed(stage, err, false)
		log.Warn().Err(err).Str("stage", stage).Msg("stage failed, continuing")
		st.Failures = append(st.Failures, StageFailure{Stage: stage, Err: err})
	}

	rep.StageStarted(StageParseBrief)
	brief, err := r.Stages.ParseBrief(ctx, userPrompt, opts.Language, r.Brand.TextContext)
	if err != nil {
		return fatal(StageParseBrief, err)
	}
	st.apply(Increment{Brief: &brief})
	if st.Language == "" {
		st.Language = brief.Language
	}
	rep.StageSucceeded(StageParseBrief, fmt.Sprintf("Brief parsed: %s → %s", brief.Topic, brief.RequestSummary()))

	rep.StageStarted(StagePlan)
	plan, err := r.Stages.PlanContent(ctx, brief)
	if err != nil {
		return fatal(StagePlan, err)
	}
	st.apply(Increment{Plan: &plan})
	rep.StageSucceeded(StagePlan, fmt.Sprintf("Content plan ready: %s (%d assets planned)", plan.CampaignName, len(plan.Assets)))

	if opts.PlanOnly {
		return st, nil
	}

	rep.StageStarted(StageGenerate)
	assets, err := r.Stages.GenerateAssets(ctx, plan, st.Language, r.Brand.TextContext)
	if err != nil {
		return fatal(StageGenerate, err)
	}
	st.apply(Increment{Assets: assets})
	rep.StageSucceeded(StageGenerate, fmt.Sprintf("%d assets generated", len(assets)))

	rep.StageStarted(StageReview)
	review, revised, err := r.Stages.ReviewAssets(ctx, brief, plan, st.Assets, r.Brand.TextContext)
	if err != nil {
		return fatal(StageReview, err)
	}
	st.apply(Increment{Review: &review, Assets: revised})
	rep.StageSucceeded(StageReview, reviewSummary(review))

	rep.StageStarted(StageExport)
	dir, err := r.Exporter.Export(ctx, st.bundle())
	if err != nil {
		return fatal(StageExport, err)
	}
	st.apply(Increment{OutputDir: dir})
	rep.StageSucceeded(StageExport, "Campaign exported to "+dir)

	attached := false
	switch {
	case opts.SkipImages:
		rep.StageSkipped(StageImages, "disabled")
	case r.Stages.Images == nil:
		rep.StageSkipped(StageImages, "no image service configured")
	default:
		rep.StageStarted(StageImages)
		withImages, err := r.Stages.GenerateImages(ctx, st.Assets, brief, dir, r.Brand.ImageContext)
		st.apply(Increment{Assets: withImages})
		attached = true
		if err != nil {
			soft(StageImages, err)
		} else {
			rep.StageSucceeded(StageImages, fmt.Sprintf("%d images generated", countImages(st.Assets)))
		}
	}

	if r.Stages.PDF == nil {
		rep.StageSkipped(StagePDFs, "no pdf renderer configured")
	} else if countType(st.Assets, campaign.Whitepaper) > 0 {
		rep.StageStarted(StagePDFs)
		withPDFs, err := r.Stages.GeneratePDFs(ctx, st.Assets, dir, st.Language)
		st.apply(Increment{Assets: withPDFs})
		attached = true
		if err != nil {
			soft(StagePDFs, err)
		} else {
			rep.StageSucceeded(StagePDFs, fmt.Sprintf("%d PDFs generated", countPDFs(st.Assets)))
		}
	} else {
		rep.StageSkipped(StagePDFs, "no whitepapers")
	}

	if attached {
		if err := r.Exporter.Refresh(ctx, dir, st.bundle()); err != nil {
			soft(StageExport, err)
		}
	}

	if opts.Publish.Enabled {
		rep.StageStarted(StagePublish)
		createPR := !opts.Publish.DisablePR
		res, err := r.Stages.Publish(ctx, st.Assets, plan.CampaignName, publisher.PublishOptions{
			Repo:     opts.Publish.Repo,
			Branch:   opts.Publish.Branch,
			CreatePR: &createPR,
		})
		if err != nil {
			soft(StagePublish, err)
		} else {
			st.apply(Increment{Published: &res})
			rep.StageSucceeded(StagePublish, publishSummary(res))
		}
	}

	log.Info().Str("dir", dir).Int("assets", len(st.Assets)).Int("failures", len(st.Failures)).Msg("pipeline finished")
	return st, nil
}

func reviewSummary(r campaign.Review) string {
	s := fmt.Sprintf("Review complete: %d/10 overall", r.OverallScore)
	n := 0
	for _, ar := range r.AssetReviews {
		if ar.Revised {
			n++
		}
	}
	if n > 0 {
		s += fmt.Sprintf(" (%d assets revised)", n)
	}
	return s
}

func publishSummary(res campaign.PublishResult) string {
	if len(res.Published) == 0 {
		return "No publishable assets"
	}
	s := fmt.Sprintf("Published %d asset(s) to %s on %s", len(res.Published), res.Repo, res.Branch)
	if res.PRURL != "" {
		s += " → " + res.PRURL
	}
	return s
}

func countImages(assets []campaign.GeneratedAsset) int {
	n := 0
	for _, a := range assets {
		if a.ImagePath != "" {
			n++
		}
	}
	return n
}

func countPDFs(assets []campaign.GeneratedAsset) int {
	n := 0
	for _, a := range assets {
		if a.PDFPath != "" {
			n++
		}
	}
	return n
}

func countType(assets []campaign.GeneratedAsset, t campaign.AssetType) int {
	n := 0
	for _, a := range assets {
		if a.Type == t {
			n++
		}
	}
	return n
}
