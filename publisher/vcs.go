package publisher

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandError is a failed external command, tagged with the publish step
// that ran it.
type CommandError struct {
	Op      string
	Command string
	Output  string
	Err     error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Op, e.Command, e.Err)
	if out := strings.TrimSpace(e.Output); out != "" {
		msg += ": " + out
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// CommandRunner runs one program in dir and returns its standard output. On
// failure the returned string holds whatever the program printed.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return stderr.String() + stdout.String(), err
	}
	return stdout.String(), nil
}

// PullRequest describes the pull request opened after a push.
type PullRequest struct {
	Repo   string
	Title  string
	Body   string
	Labels []string
}

// VCS is the sequence of version-control steps the publisher needs.
type VCS interface {
	Clone(ctx context.Context, repo, dir string) error
	CreateBranch(ctx context.Context, dir, branch string) error
	CommitAll(ctx context.Context, dir, message string) error
	Push(ctx context.Context, dir, branch string) error
	OpenPullRequest(ctx context.Context, dir string, pr PullRequest) (string, error)
}

// GitVCS drives the git and gh command line tools.
type GitVCS struct {
	Runner     CommandRunner
	RemoteBase string
}

// NewGitVCS returns a GitVCS cloning from remoteBase (https://github.com when empty).
func NewGitVCS(runner CommandRunner, remoteBase string) *GitVCS {
	if runner == nil {
		runner = ExecRunner{}
	}
	if remoteBase == "" {
		remoteBase = DefaultRemoteBase
	}
	return &GitVCS{Runner: runner, RemoteBase: strings.TrimRight(remoteBase, "/")}
}

func (g *GitVCS) run(ctx context.Context, op, dir, name string, args ...string) (string, error) {
	out, err := g.Runner.Run(ctx, dir, name, args...)
	if err != nil {
		return out, &CommandError{
			Op:      op,
			Command: name + " " + strings.Join(args, " "),
			Output:  out,
			Err:     err,
		}
	}
	return out, nil
}

func (g *GitVCS) Clone(ctx context.Context, repo, dir string) error {
	url := fmt.Sprintf("%s/%s.git", g.RemoteBase, repo)
	_, err := g.run(ctx, "clone", "", "git", "clone", "--depth", "1", url, dir)
	return err
}

func (g *GitVCS) CreateBranch(ctx context.Context, dir, branch string) error {
	_, err := g.run(ctx, "create branch", dir, "git", "checkout", "-b", branch)
	return err
}

func (g *GitVCS) CommitAll(ctx context.Context, dir, message string) error {
	if _, err := g.run(ctx, "commit", dir, "git", "add", "-A"); err != nil {
		return err
	}
	_, err := g.run(ctx, "commit", dir, "git", "commit", "-m", message)
	return err
}

func (g *GitVCS) Push(ctx context.Context, dir, branch string) error {
	_, err := g.run(ctx, "push", dir, "git", "push", "-u", "origin", branch)
	return err
}

// OpenPullRequest creates the pull request with gh and returns its URL.
func (g *GitVCS) OpenPullRequest(ctx context.Context, dir string, pr PullRequest) (string, error) {
	args := []string{"pr", "create", "--repo", pr.Repo, "--title", pr.Title, "--body", pr.Body}
	for _, l := range pr.Labels {
		args = append(args, "--label", l)
	}
	out, err := g.run(ctx, "open pull request", dir, "gh", args...)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}
