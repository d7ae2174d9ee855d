package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_Catalog(t *testing.T) {
	want := []string{
		"R1  Fill Jug1 completely",
		"R2  Fill Jug2 completely",
		"R3  Empty Jug1",
		"R4  Empty Jug2",
		"R5  Pour Jug1 → Jug2",
		"R6  Pour Jug2 → Jug1",
		"R7  Pour Jug1 → Jug2 until Jug2 full",
		"R8  Pour Jug2 → Jug1 until Jug1 full",
		"R9  Jug1 == Target → Goal",
		"R10 Jug2 == Target → Goal",
		"R11 Initial State (0,0)",
		"R12 Avoid repeated states / unclassified",
	}

	rules := domain.Rules()
	require.Len(t, rules, 12)
	for i, r := range rules {
		assert.Equal(t, i+1, int(r))
		assert.Equal(t, want[i], r.Display())
	}
}

func TestRule_Goal(t *testing.T) {
	assert.True(t, domain.RuleGoalJug1.IsGoal())
	assert.True(t, domain.RuleGoalJug2.IsGoal())
	assert.False(t, domain.RuleInitial.IsGoal())
	assert.False(t, domain.RuleNone.Valid())
	assert.Equal(t, "R?", domain.Rule(13).String())
}

func TestParseRule(t *testing.T) {
	for _, in := range []string{"R5", "r5", " 5 "} {
		r, err := domain.ParseRule(in)
		require.NoError(t, err)
		assert.Equal(t, domain.RulePourJug1ToJug2, r)
	}

	_, err := domain.ParseRule("R13")
	assert.Error(t, err)
	_, err = domain.ParseRule("fill")
	assert.Error(t, err)
}

func TestRule_JSON(t *testing.T) {
	data, err := json.Marshal(domain.RuleEmptyJug2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":4,"code":"R4","label":"Empty Jug2"}`, string(data))

	var r domain.Rule
	require.NoError(t, json.Unmarshal(data, &r))
	assert.Equal(t, domain.RuleEmptyJug2, r)

	require.NoError(t, json.Unmarshal([]byte(`11`), &r))
	assert.Equal(t, domain.RuleInitial, r)

	step := domain.Step{Index: 2, Rule: domain.RuleFillJug1}
	data, err = json.Marshal(step)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"goal"`)
}

func TestJugState(t *testing.T) {
	s := domain.JugState{Jug1: 4, Jug2: 2}
	assert.Equal(t, "(4, 2)", s.String())
	assert.True(t, s.Holds(2))
	assert.False(t, s.Holds(3))
	assert.True(t, domain.JugState{}.IsInitial())

	visited := map[domain.JugState]bool{{Jug1: 1, Jug2: 2}: true}
	assert.True(t, visited[domain.JugState{Jug1: 1, Jug2: 2}])

	c := domain.Capacities{Jug1: 4, Jug2: 3}
	assert.Equal(t, 4, c.Max())
	assert.True(t, c.Contains(s))
	assert.False(t, c.Contains(domain.JugState{Jug1: 5}))
}

func TestExplain(t *testing.T) {
	got := domain.Explain(3, domain.JugState{Jug1: 4}, domain.JugState{Jug1: 1, Jug2: 3}, domain.RulePourJug1ToJug2)
	assert.Equal(t, "Step 3: State changed from (4, 0) → (1, 3)\nProduction Rule R5 fired.", got)
}
