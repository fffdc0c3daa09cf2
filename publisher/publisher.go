// Package publisher turns publishable campaign assets into MDX pages and
// proposes them to the website content repository as a pull request.
package publisher

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"campaign_content_creator/campaign"
	"campaign_content_creator/render"
)

const (
	DefaultOrg        = "seibert-external"
	DefaultRepo       = "go.seibert.group"
	DefaultRemoteBase = "https://github.com"

	pagesDir = "src/data/pages"
)

// Config holds the content repository settings.
type Config struct {
	DefaultOrg  string
	DefaultRepo string
	// BuildCommand runs in the clone after the pages are written. Empty disables it.
	BuildCommand []string
	Labels       []string
}

// PublishOptions selects the target of one publish run.
type PublishOptions struct {
	// Repo is "org/repo", a bare repo name under the default org, or empty.
	Repo   string
	Branch string
	// CreatePR defaults to true when nil.
	CreatePR *bool
}

// Publisher orchestrates page conversion and the git workflow.
type Publisher struct {
	cfg     Config
	vcs     VCS
	runner  CommandRunner
	now     func() time.Time
	tempDir string
	verbose bool
	logger  zerolog.Logger
}

// Option customizes a Publisher.
type Option func(*Publisher)

// WithClock replaces time.Now for branch names.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) { p.now = now }
}

// WithTempDir sets the parent directory for temporary clones.
func WithTempDir(dir string) Option {
	return func(p *Publisher) { p.tempDir = dir }
}

// WithRunner sets the runner used for the build hook.
func WithRunner(r CommandRunner) Option {
	return func(p *Publisher) { p.runner = r }
}

// New creates a Publisher. A nil vcs uses git and gh from PATH.
func New(cfg Config, vcs VCS, verbose bool, logger zerolog.Logger, opts ...Option) *Publisher {
	if cfg.DefaultOrg == "" {
		cfg.DefaultOrg = DefaultOrg
	}
	if cfg.DefaultRepo == "" {
		cfg.DefaultRepo = DefaultRepo
	}
	p := &Publisher{
		cfg:     cfg,
		vcs:     vcs,
		runner:  ExecRunner{},
		now:     time.Now,
		verbose: verbose,
		logger:  logger,
	}
	for _, o := range opts {
		o(p)
	}
	if p.vcs == nil {
		p.vcs = NewGitVCS(p.runner, "")
	}
	return p
}

func (p *Publisher) infof(format string, args ...interface{}) {
	if !p.verbose {
		return
	}
	p.logger.Info().Msgf(format, args...)
}

// ResolveRepo expands a repo argument to "org/repo".
func (p *Publisher) ResolveRepo(repo string) string {
	repo = strings.TrimSpace(repo)
	switch {
	case repo == "":
		return p.cfg.DefaultOrg + "/" + p.cfg.DefaultRepo
	case strings.Contains(repo, "/"):
		return repo
	default:
		return p.cfg.DefaultOrg + "/" + repo
	}
}

// PublishToRepo writes every blog article and landing page as a draft MDX page
// into a fresh clone, pushes a branch and opens a pull request. Without
// publishable assets it returns an empty result and touches nothing. The
// temporary clone is removed on every path.
func (p *Publisher) PublishToRepo(ctx context.Context, assets []campaign.GeneratedAsset, campaignName string, opts PublishOptions) (campaign.PublishResult, error) {
	var publishable []campaign.GeneratedAsset
	for _, a := range assets {
		if a.Type.Publishable() {
			publishable = append(publishable, a)
		}
	}
	if len(publishable) == 0 {
		p.infof("no publishable assets in campaign %q", campaignName)
		return campaign.PublishResult{}, nil
	}

	repo := p.ResolveRepo(opts.Repo)
	branch := opts.Branch
	if branch == "" {
		branch = fmt.Sprintf("content/%s-%d", render.Slugify(campaignName), p.now().UnixMilli())
	}

	tmp, err := os.MkdirTemp(p.tempDir, "content-publish-")
	if err != nil {
		return campaign.PublishResult{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmp); err != nil {
			p.logger.Warn().Err(err).Str("dir", tmp).Msg("remove temp clone")
		}
	}()
	repoDir := filepath.Join(tmp, "repo")

	p.infof("cloning %s into %s", repo, repoDir)
	if err := p.vcs.Clone(ctx, repo, repoDir); err != nil {
		return campaign.PublishResult{}, err
	}
	if err := p.vcs.CreateBranch(ctx, repoDir, branch); err != nil {
		return campaign.PublishResult{}, err
	}

	published := make([]campaign.PublishedAsset, 0, len(publishable))
	for _, a := range publishable {
		page, err := render.PageMarkup(a)
		if err != nil {
			return campaign.PublishResult{}, fmt.Errorf("convert %s: %w", a.ID, err)
		}
		rel := path.Join(pagesDir, page.Slug+".mdx")
		full := filepath.Join(repoDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return campaign.PublishResult{}, fmt.Errorf("ensure pages dir: %w", err)
		}
		if err := os.WriteFile(full, []byte(page.Source), 0o644); err != nil {
			return campaign.PublishResult{}, fmt.Errorf("write %s: %w", rel, err)
		}
		p.infof("wrote %s", rel)
		published = append(published, campaign.PublishedAsset{
			AssetID:  a.ID,
			FilePath: rel,
			URL:      "/" + page.Slug + "/",
		})
	}

	if len(p.cfg.BuildCommand) > 0 {
		p.infof("running build check: %s", strings.Join(p.cfg.BuildCommand, " "))
		name, args := p.cfg.BuildCommand[0], p.cfg.BuildCommand[1:]
		if out, err := p.runner.Run(ctx, repoDir, name, args...); err != nil {
			return campaign.PublishResult{}, &CommandError{Op: "build", Command: strings.Join(p.cfg.BuildCommand, " "), Output: out, Err: err}
		}
	}

	msg := fmt.Sprintf("Add %d content asset(s) from campaign: %s", len(published), campaignName)
	if err := p.vcs.CommitAll(ctx, repoDir, msg); err != nil {
		return campaign.PublishResult{}, err
	}
	p.infof("pushing branch %s", branch)
	if err := p.vcs.Push(ctx, repoDir, branch); err != nil {
		return campaign.PublishResult{}, err
	}

	res := campaign.PublishResult{Published: published, Branch: branch, Repo: repo}
	if opts.CreatePR == nil || *opts.CreatePR {
		url, err := p.vcs.OpenPullRequest(ctx, repoDir, PullRequest{
			Repo:   repo,
			Title:  "Content: " + campaignName,
			Body:   PullRequestBody(published, campaignName),
			Labels: p.cfg.Labels,
		})
		if err != nil {
			return res, err
		}
		res.PRURL = url
		p.infof("opened %s", url)
	}
	return res, nil
}

// PullRequestBody lists the written pages for reviewers.
func PullRequestBody(published []campaign.PublishedAsset, campaignName string) string {
	lines := make([]string, 0, len(published))
	for _, pa := range published {
		lines = append(lines, fmt.Sprintf("- `%s` → [%s](%s)", pa.FilePath, pa.URL, pa.URL))
	}
	return fmt.Sprintf(`## Content Campaign: %s

Auto-generated content assets:

%s

All pages are created as `+"`draft: true`"+` and need review before publishing.

---
Generated with content-creator pipeline`, campaignName, strings.Join(lines, "\n"))
}
