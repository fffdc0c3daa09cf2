package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"campaign_content_creator/campaign"
	"campaign_content_creator/pipeline"
)

func TestTerminalReporter(t *testing.T) {
	var buf bytes.Buffer
	r := newTerminalReporter(&buf)
	var _ pipeline.Reporter = r

	r.StageStarted(pipeline.StageParseBrief)
	r.StageSucceeded(pipeline.StageParseBrief, "Brief parsed: AI → 1x blog-article")
	r.StageSkipped(pipeline.StageImages, "disabled")
	r.StageFailed(pipeline.StagePDFs, errors.New("chrome missing"), false)
	r.StageFailed(pipeline.StageGenerate, errors.New("rate limited"), true)

	out := buf.String()
	assert.Contains(t, out, "Parse brief")
	assert.Contains(t, out, "Brief parsed: AI → 1x blog-article")
	assert.Contains(t, out, "Generate images skipped: disabled")
	assert.Contains(t, out, "chrome missing")
	assert.Contains(t, out, "rate limited")
}

func TestRunSummary(t *testing.T) {
	st := &pipeline.State{
		Plan:      &campaign.Plan{CampaignName: "Launch"},
		Assets:    make([]campaign.GeneratedAsset, 3),
		Review:    &campaign.Review{OverallScore: 8},
		OutputDir: "/tmp/out/campaign-x",
		Published: &campaign.PublishResult{PRURL: "https://github.com/o/r/pull/1"},
		Failures:  []pipeline.StageFailure{{Stage: pipeline.StageImages, Err: errors.New("quota")}},
	}
	out := runSummary(st)
	for _, want := range []string{"Launch", "3", "/tmp/out/campaign-x", "8/10", "pull/1", "quota"} {
		assert.Contains(t, out, want)
	}
}

func TestResolveLanguage(t *testing.T) {
	assert.Equal(t, "de", resolveLanguage("", "de"))
	assert.Equal(t, "en", resolveLanguage("en", "de"))
}

func TestValidLanguage(t *testing.T) {
	assert.NoError(t, validLanguage(""))
	assert.NoError(t, validLanguage("en"))
	assert.Error(t, validLanguage("fr"))
}
