package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"campaign_content_creator/export"
	"campaign_content_creator/generator"
	"campaign_content_creator/llm"
	"campaign_content_creator/pipeline"
	"campaign_content_creator/server"
)

type generateFlags struct {
	language   string
	output     string
	skipImages bool
	publish    bool
	repo       string
	branch     string
	noPR       bool
	dryRun     bool
}

func newGenerateCmd() *cobra.Command {
	var f generateFlags
	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Run the full pipeline for a free-text campaign request",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd.Context(), strings.Join(args, " "), f)
		},
	}
	cmd.Flags().StringVarP(&f.language, "language", "l", "", "content language (de or en); defaults to pipeline.default_language")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output root directory (overrides pipeline.output_dir)")
	cmd.Flags().BoolVar(&f.skipImages, "skip-images", false, "do not generate images")
	cmd.Flags().BoolVar(&f.publish, "publish", false, "publish blog articles and landing pages to the content repository")
	cmd.Flags().StringVar(&f.repo, "repo", "", "target repository, org/repo or repo under the default org")
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch name for the publish run")
	cmd.Flags().BoolVar(&f.noPR, "no-pr", false, "push the branch without opening a pull request")
	cmd.Flags().BoolVar(&f.dryRun, "dry-run", false, "use canned model output instead of calling the API")
	return cmd
}

// resolveLanguage returns the -l flag value, or the configured default
// language when the flag is not given.
func resolveLanguage(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

func validLanguage(lang string) error {
	if lang != "" && lang != "de" && lang != "en" {
		return fmt.Errorf("unsupported language %q (use de or en)", lang)
	}
	return nil
}

func runGenerate(ctx context.Context, prompt string, f generateFlags) error {
	if err := validLanguage(f.language); err != nil {
		return err
	}
	if f.dryRun && f.publish {
		return errors.New("--publish cannot be combined with --dry-run")
	}
	a, err := buildApp(ctx, buildOptions{dryRun: f.dryRun, language: f.language})
	if err != nil {
		return err
	}
	if f.output != "" {
		a.cfg.Pipeline.OutputDir = f.output
	}
	lang := resolveLanguage(f.language, a.cfg.Pipeline.DefaultLanguage)

	fmt.Println(titleStyle.Render("Campaign Content Creator"))
	fmt.Println()
	st, err := a.runner(newTerminalReporter(os.Stdout)).Run(ctx, prompt, pipeline.Options{
		Language:   lang,
		SkipImages: f.skipImages,
		Publish: pipeline.PublishOptions{
			Enabled:   f.publish,
			Repo:      f.repo,
			Branch:    f.branch,
			DisablePR: f.noPR,
		},
	})
	if err != nil {
		return err
	}
	fmt.Println()
	fmt.Println(summaryStyle.Render(runSummary(st)))
	return nil
}

func runSummary(st *pipeline.State) string {
	rows := []string{
		row("Campaign", st.Plan.CampaignName),
		row("Assets", fmt.Sprintf("%d", len(st.Assets))),
		row("Output", st.OutputDir),
	}
	if st.Review != nil {
		rows = append(rows, row("Score", fmt.Sprintf("%d/10", st.Review.OverallScore)))
	}
	if st.Published != nil && st.Published.PRURL != "" {
		rows = append(rows, row("Pull request", st.Published.PRURL))
	}
	for _, f := range st.Failures {
		rows = append(rows, row("Failed", warnStyle.Render(f.Stage+": "+f.Err.Error())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func row(label, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
}

func newPlanCmd() *cobra.Command {
	var (
		language string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "plan <prompt>",
		Short: "Parse the request and print the content plan without generating assets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validLanguage(language); err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), buildOptions{dryRun: dryRun, language: language})
			if err != nil {
				return err
			}
			st, err := a.runner(newTerminalReporter(os.Stderr)).Run(cmd.Context(), strings.Join(args, " "), pipeline.Options{
				Language: resolveLanguage(language, a.cfg.Pipeline.DefaultLanguage),
				PlanOnly: true,
			})
			if err != nil {
				return err
			}
			md := export.RenderContentPlan(*st.Plan)
			renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
			if err != nil {
				fmt.Print(md)
				return nil
			}
			out, err := renderer.Render(md)
			if err != nil {
				fmt.Print(md)
				return nil
			}
			fmt.Print(out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&language, "language", "l", "", "content language (de or en); defaults to pipeline.default_language")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "use canned model output instead of calling the API")
	return cmd
}

func newListAssetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-assets",
		Short: "List the supported asset types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := generator.NewRegistry(llm.Mock{})
			if err != nil {
				return err
			}
			fmt.Println(titleStyle.Render("Available asset types"))
			fmt.Println()
			typeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(20)
			for _, g := range registry.List() {
				fmt.Println(lipgloss.JoinHorizontal(lipgloss.Top,
					typeStyle.Render(string(g.Type())),
					labelStyle.Render(g.Label()),
					skipStyle.Render(g.Description()),
				))
			}
			return nil
		},
	}
}

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose the pipeline stages over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := buildApp(ctx, buildOptions{})
			if err != nil {
				return err
			}
			srv, err := server.New(a.stages, a.brand, a.cfg.Pipeline.DefaultLanguage, a.log)
			if err != nil {
				return err
			}
			listen := a.cfg.Server.Addr
			if addr != "" {
				listen = addr
			}
			httpSrv := server.NewHTTPServer(listen, srv.Routes())

			errCh := make(chan error, 1)
			go func() {
				a.log.Info().Str("addr", listen).Msg("starting web server")
				errCh <- httpSrv.Start()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			a.log.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutdown: %w", err)
			}
			return <-errCh
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}
