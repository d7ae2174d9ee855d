// Package tui renders playback output for terminals.
package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// Renderer transforms markdown before it is written out.
type Renderer func(string) (string, error)

// NewRenderer returns a glamour markdown renderer that picks a light or dark
// style from the terminal background.
func NewRenderer() (Renderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	return r.Render, nil
}

// Plain returns markdown unchanged; used when output is not a terminal.
func Plain(markdown string) (string, error) {
	return markdown, nil
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// AutoRenderer picks glamour for terminals and Plain otherwise.
func AutoRenderer(f *os.File) Renderer {
	if !IsTerminal(f) {
		return Plain
	}
	r, err := NewRenderer()
	if err != nil {
		return Plain
	}
	return r
}

// RulesMarkdown lists the rule catalog as a markdown table, marking the
// highlighted rule in bold with an arrow.
func RulesMarkdown(highlighted domain.Rule) string {
	var sb strings.Builder
	sb.WriteString("| | Rule | Description |\n|---|---|---|\n")
	for _, r := range domain.Rules() {
		marker, id, label := "", r.String(), r.Label()
		if r == highlighted {
			marker, id, label = "➜", "**"+id+"**", "**"+label+"**"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", marker, id, label)
	}
	return sb.String()
}

// StepMarkdown renders one playback step.
func StepMarkdown(step domain.Step) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "### Step %d\n\n", step.Index)
	fmt.Fprintf(&sb, "`%s` → `%s`\n\n", step.Previous, step.Current)
	fmt.Fprintf(&sb, "Production Rule **%s**: %s\n", step.Rule, step.Rule.Label())
	if step.Reached() {
		fmt.Fprintf(&sb, "\n🎯 **Target Achieved!** (%s: %s)\n", step.Goal, step.Goal.Label())
	}
	return sb.String()
}
