package pipeline

import "github.com/rs/zerolog"

// Reporter receives stage progress.
type Reporter interface {
	StageStarted(stage string)
	StageSucceeded(stage, summary string)
	StageSkipped(stage, reason string)
	StageFailed(stage string, err error, fatal bool)
}

// LogReporter writes progress as log lines.
type LogReporter struct {
	Log zerolog.Logger
}

func (r LogReporter) StageStarted(stage string) {
	r.Log.Info().Str("stage", stage).Msg("stage started")
}

func (r LogReporter) StageSucceeded(stage, summary string) {
	r.Log.Info().Str("stage", stage).Msg(summary)
}

func (r LogReporter) StageSkipped(stage, reason string) {
	r.Log.Info().Str("stage", stage).Str("reason", reason).Msg("stage skipped")
}

func (r LogReporter) StageFailed(stage string, err error, fatal bool) {
	r.Log.Error().Err(err).Str("stage", stage).Bool("fatal", fatal).Msg("stage failed")
}
