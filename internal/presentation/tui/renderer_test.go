package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRulesMarkdown(t *testing.T) {
	md := RulesMarkdown(domain.RuleFillJug2)

	lines := strings.Split(strings.TrimSpace(md), "\n")
	require.Len(t, lines, 2+12)
	assert.Equal(t, "|  | R1 | Fill Jug1 completely |", lines[2])
	assert.Equal(t, "| ➜ | **R2** | **Fill Jug2 completely** |", lines[3])
	assert.Contains(t, lines[13], "R12")
}

func TestStepMarkdown(t *testing.T) {
	step := domain.Step{
		Index:    4,
		Previous: domain.JugState{Jug1: 3, Jug2: 3},
		Current:  domain.JugState{Jug1: 4, Jug2: 2},
		Rule:     domain.RulePourJug2ToJug1,
		Goal:     domain.RuleGoalJug2,
	}
	md := StepMarkdown(step)

	assert.Contains(t, md, "### Step 4")
	assert.Contains(t, md, "`(3, 3)` → `(4, 2)`")
	assert.Contains(t, md, "**R6**: Pour Jug2 → Jug1")
	assert.Contains(t, md, "🎯 **Target Achieved!** (R10")

	step.Goal = domain.RuleNone
	assert.NotContains(t, StepMarkdown(step), "Target Achieved")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|___/")
}

func TestPlain(t *testing.T) {
	out, err := Plain("# title")
	require.NoError(t, err)
	assert.Equal(t, "# title", out)
}
