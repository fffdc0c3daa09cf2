package publisher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign_content_creator/campaign"
)

type call struct {
	Dir  string
	Name string
	Args []string
}

type fakeRunner struct {
	mu     sync.Mutex
	calls  []call
	failOn string
	output map[string]string
	files  []string
}

func (f *fakeRunner) Run(_ context.Context, dir, name string, args ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Dir: dir, Name: name, Args: args})
	key := name + " " + strings.Join(args, " ")
	if name == "git" && len(args) > 0 && args[0] == "add" {
		matches, _ := filepath.Glob(filepath.Join(dir, "src", "data", "pages", "*.mdx"))
		for _, m := range matches {
			f.files = append(f.files, filepath.Base(m))
		}
	}
	if f.failOn != "" && strings.HasPrefix(key, f.failOn) {
		return "remote rejected", errors.New("exit status 1")
	}
	for prefix, out := range f.output {
		if strings.HasPrefix(key, prefix) {
			return out, nil
		}
	}
	return "", nil
}

func (f *fakeRunner) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Name + " " + c.Args[0]
		if len(c.Args) > 1 {
			out[i] += " " + c.Args[1]
		}
	}
	return out
}

func newTestPublisher(t *testing.T, r *fakeRunner, cfg Config) (*Publisher, string) {
	t.Helper()
	tmp := t.TempDir()
	p := New(cfg, NewGitVCS(r, ""), true, zerolog.Nop(),
		WithTempDir(tmp),
		WithRunner(r),
		WithClock(func() time.Time { return time.UnixMilli(1700000000000) }),
	)
	return p, tmp
}

func assets() []campaign.GeneratedAsset {
	return []campaign.GeneratedAsset{
		{ID: "linkedin-post-01", Type: campaign.LinkedInPost, Title: "Post", Content: "hi"},
		{ID: "blog-article-01", Type: campaign.BlogArticle, Title: "Große Pläne", Content: "# Große Pläne\n\nEin ausreichend langer erster Absatz für die Beschreibung.\n\n## Teil\n\nText"},
		{ID: "landing-page-01", Type: campaign.LandingPage, Title: "Start", Content: "# Start\n\n## Hero\nA"},
	}
}

func TestPublishToRepoRunsCommandSequence(t *testing.T) {
	r := &fakeRunner{output: map[string]string{"gh pr create": "https://github.com/acme/site/pull/7\n"}}
	p, tmp := newTestPublisher(t, r, Config{})

	res, err := p.PublishToRepo(t.Context(), assets(), "Spring Launch", PublishOptions{Repo: "acme/site"})
	require.NoError(t, err)

	want := []string{
		"git clone --depth",
		"git checkout -b",
		"git add -A",
		"git commit -m",
		"git push -u",
		"gh pr create",
	}
	if diff := cmp.Diff(want, r.commands()); diff != "" {
		t.Errorf("commands mismatch (-want +got):\n%s", diff)
	}

	clone := r.calls[0]
	assert.Equal(t, "https://github.com/acme/site.git", clone.Args[3])
	assert.True(t, strings.HasPrefix(clone.Args[4], tmp))
	assert.Equal(t, "content/spring-launch-1700000000000", r.calls[1].Args[2])
	assert.Equal(t, "Add 2 content asset(s) from campaign: Spring Launch", r.calls[3].Args[2])
	assert.Equal(t, []string{"push", "-u", "origin", "content/spring-launch-1700000000000"}, r.calls[4].Args)
	assert.ElementsMatch(t, []string{"grosse-plaene.mdx", "start.mdx"}, r.files)

	pr := r.calls[5].Args
	assert.Equal(t, "acme/site", pr[3])
	assert.Equal(t, "Content: Spring Launch", pr[5])
	assert.Contains(t, pr[7], "- `src/data/pages/grosse-plaene.mdx` → [/grosse-plaene/](/grosse-plaene/)")
	assert.Contains(t, pr[7], "`draft: true`")

	assert.Equal(t, "https://github.com/acme/site/pull/7", res.PRURL)
	assert.Equal(t, "acme/site", res.Repo)
	assert.Equal(t, []campaign.PublishedAsset{
		{AssetID: "blog-article-01", FilePath: "src/data/pages/grosse-plaene.mdx", URL: "/grosse-plaene/"},
		{AssetID: "landing-page-01", FilePath: "src/data/pages/start.mdx", URL: "/start/"},
	}, res.Published)

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublishToRepoFailingPushRemovesClone(t *testing.T) {
	r := &fakeRunner{failOn: "git push"}
	p, tmp := newTestPublisher(t, r, Config{})

	_, err := p.PublishToRepo(t.Context(), assets(), "Launch", PublishOptions{})
	require.Error(t, err)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, "push", cmdErr.Op)
	assert.Contains(t, cmdErr.Error(), "remote rejected")

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary clone must be removed")
	assert.NotContains(t, r.commands(), "gh pr create")
}

func TestPublishToRepoNothingPublishable(t *testing.T) {
	r := &fakeRunner{}
	p, tmp := newTestPublisher(t, r, Config{})

	res, err := p.PublishToRepo(t.Context(), assets()[:1], "Launch", PublishOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.Published)
	assert.Empty(t, r.calls)
	entries, _ := os.ReadDir(tmp)
	assert.Empty(t, entries)
}

func TestPublishToRepoWithoutPullRequest(t *testing.T) {
	r := &fakeRunner{}
	p, _ := newTestPublisher(t, r, Config{BuildCommand: []string{"npm", "run", "build"}})
	no := false

	res, err := p.PublishToRepo(t.Context(), assets(), "Launch", PublishOptions{Branch: "content/custom", CreatePR: &no})
	require.NoError(t, err)
	assert.Empty(t, res.PRURL)
	assert.Equal(t, "content/custom", res.Branch)
	assert.Equal(t, "seibert-external/go.seibert.group", res.Repo)
	assert.Equal(t, []string{
		"git clone --depth",
		"git checkout -b",
		"npm run build",
		"git add -A",
		"git commit -m",
		"git push -u",
	}, r.commands())
}

func TestResolveRepo(t *testing.T) {
	p := New(Config{}, &GitVCS{}, false, zerolog.Nop())
	assert.Equal(t, "seibert-external/go.seibert.group", p.ResolveRepo(""))
	assert.Equal(t, "seibert-external/website", p.ResolveRepo("website"))
	assert.Equal(t, "acme/site", p.ResolveRepo("acme/site"))

	p = New(Config{DefaultOrg: "acme", DefaultRepo: "www"}, &GitVCS{}, false, zerolog.Nop())
	assert.Equal(t, "acme/www", p.ResolveRepo(" "))
}

func TestCommandErrorUnwraps(t *testing.T) {
	base := errors.New("boom")
	err := error(&CommandError{Op: "clone", Command: "git clone", Err: base})
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "clone: git clone: boom", err.Error())
}
