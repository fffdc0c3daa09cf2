package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	stageStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	skipStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(20)
	summaryStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)
)

// terminalReporter prints one styled line per stage event.
type terminalReporter struct {
	mu  sync.Mutex
	out io.Writer
}

func newTerminalReporter(out io.Writer) *terminalReporter {
	return &terminalReporter{out: out}
}

func (r *terminalReporter) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

func (r *terminalReporter) StageStarted(stage string) {
	r.printf("%s %s\n", stageStyle.Render("▶"), stage)
}

func (r *terminalReporter) StageSucceeded(stage, summary string) {
	r.printf("%s %s\n", okStyle.Render("✔"), summary)
}

func (r *terminalReporter) StageSkipped(stage, reason string) {
	r.printf("%s %s\n", skipStyle.Render("○"), skipStyle.Render(stage+" skipped: "+reason))
}

func (r *terminalReporter) StageFailed(stage string, err error, fatal bool) {
	if fatal {
		r.printf("%s %s\n", errorStyle.Render("✘ "+stage+" failed:"), err)
		return
	}
	r.printf("%s %s\n", warnStyle.Render("! "+stage+" failed, continuing:"), err)
}
