package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"campaign_content_creator/brand"
	"campaign_content_creator/config"
	"campaign_content_creator/export"
	"campaign_content_creator/generator"
	"campaign_content_creator/imagegen"
	"campaign_content_creator/llm"
	"campaign_content_creator/logging"
	"campaign_content_creator/pdf"
	"campaign_content_creator/pipeline"
	"campaign_content_creator/publisher"
)

var (
	configPath string
	logLevel   string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:           "content-creator",
		Short:         "Generate, review and publish marketing campaign content",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "path to config.json")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides log.level)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable info logs from the publisher")

	root.AddCommand(newGenerateCmd(), newPlanCmd(), newListAssetsCmd(), newServeCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: ")+err.Error())
		os.Exit(1)
	}
}

// app is everything a command needs after configuration is loaded.
type app struct {
	cfg    config.Config
	log    zerolog.Logger
	brand  brand.Config
	stages *pipeline.Stages
}

type buildOptions struct {
	dryRun   bool
	language string
}

func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, zerolog.Nop(), err
	}
	return cfg, logging.New(cfg.Log.Level, cfg.Log.Pretty), nil
}

func buildApp(ctx context.Context, opts buildOptions) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var client llm.Client
	if opts.dryRun {
		lang := opts.language
		if lang == "" {
			lang = cfg.Pipeline.DefaultLanguage
		}
		client = llm.DryRun(lang)
	} else {
		if err := cfg.RequireLLM(); err != nil {
			return nil, err
		}
		if client, err = llm.New(cfg.LLM.Settings()); err != nil {
			return nil, err
		}
	}
	registry, err := generator.NewRegistry(client)
	if err != nil {
		return nil, err
	}

	stages := &pipeline.Stages{
		LLM:           client,
		Registry:      registry,
		MaxConcurrent: cfg.Pipeline.MaxConcurrent,
		Log:           log,
	}
	if cfg.Image.APIKey != "" && !opts.dryRun {
		images, err := imagegen.NewGeminiService(ctx, cfg.Image.APIKey, cfg.Image.Model)
		if err != nil {
			return nil, err
		}
		stages.Images = images
	}
	if cfg.PDF.Enabled {
		stages.PDF = &pdf.RodRenderer{ControlURL: cfg.PDF.ControlURL, Bin: cfg.PDF.Bin}
	}
	stages.Publisher = publisher.New(publisher.Config{
		DefaultOrg:   cfg.Publish.DefaultOrg,
		DefaultRepo:  cfg.Publish.DefaultRepo,
		BuildCommand: cfg.Publish.BuildCommand,
		Labels:       cfg.Publish.PRLabels,
	}, publisher.NewGitVCS(publisher.ExecRunner{}, cfg.Publish.RemoteBase), verbose, log)

	brandCfg, err := brand.Load(cfg.Brand.Dir)
	if err != nil {
		return nil, err
	}
	if brandCfg.Loaded {
		log.Info().Int("files", len(brandCfg.Files)).Str("dir", cfg.Brand.Dir).Msg("brand guidelines loaded")
	}

	return &app{cfg: cfg, log: log, brand: brandCfg, stages: stages}, nil
}

func (a *app) runner(reporter pipeline.Reporter) *pipeline.Runner {
	return &pipeline.Runner{
		Stages:   a.stages,
		Exporter: export.New(a.cfg.Pipeline.OutputDir, a.log),
		Brand:    a.brand,
		Reporter: reporter,
		Log:      a.log,
	}
}
