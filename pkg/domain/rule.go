package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Rule identifies one of the fixed production rules used to explain a
// transition between two states. Ids are stable (1..12) and shared with
// presentation layers, so they must never be renumbered.
type Rule int

const (
	RuleNone Rule = iota // nothing highlighted

	RuleFillJug1          // R1
	RuleFillJug2          // R2
	RuleEmptyJug1         // R3
	RuleEmptyJug2         // R4
	RulePourJug1ToJug2    // R5
	RulePourJug2ToJug1    // R6
	RulePourJug1UntilFull // R7: documented only, never classified
	RulePourJug2UntilFull // R8: documented only, never classified
	RuleGoalJug1          // R9: produced by the goal post-check
	RuleGoalJug2          // R10: produced by the goal post-check
	RuleInitial           // R11
	RuleUnclassified      // R12
)

var ruleLabels = map[Rule]string{
	RuleFillJug1:          "Fill Jug1 completely",
	RuleFillJug2:          "Fill Jug2 completely",
	RuleEmptyJug1:         "Empty Jug1",
	RuleEmptyJug2:         "Empty Jug2",
	RulePourJug1ToJug2:    "Pour Jug1 → Jug2",
	RulePourJug2ToJug1:    "Pour Jug2 → Jug1",
	RulePourJug1UntilFull: "Pour Jug1 → Jug2 until Jug2 full",
	RulePourJug2UntilFull: "Pour Jug2 → Jug1 until Jug1 full",
	RuleGoalJug1:          "Jug1 == Target → Goal",
	RuleGoalJug2:          "Jug2 == Target → Goal",
	RuleInitial:           "Initial State (0,0)",
	RuleUnclassified:      "Avoid repeated states / unclassified",
}

// Rules returns the full catalog in id order.
func Rules() []Rule {
	rules := make([]Rule, 0, len(ruleLabels))
	for r := RuleFillJug1; r <= RuleUnclassified; r++ {
		rules = append(rules, r)
	}
	return rules
}

// Valid reports whether r is one of the 12 catalog entries.
func (r Rule) Valid() bool {
	_, ok := ruleLabels[r]
	return ok
}

// Label returns the fixed human-readable label.
func (r Rule) Label() string {
	return ruleLabels[r]
}

// IsGoal reports whether r announces goal arrival.
func (r Rule) IsGoal() bool {
	return r == RuleGoalJug1 || r == RuleGoalJug2
}

// String returns the short id, e.g. "R5".
func (r Rule) String() string {
	if !r.Valid() {
		return "R?"
	}
	return "R" + strconv.Itoa(int(r))
}

// Display returns the id and label padded the way the rules panel lists them.
func (r Rule) Display() string {
	return fmt.Sprintf("%-3s %s", r.String(), r.Label())
}

// ParseRule accepts "R5", "r5" or "5".
func ParseRule(s string) (Rule, error) {
	clean := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "R")
	n, err := strconv.Atoi(clean)
	if err != nil {
		return RuleNone, fmt.Errorf("invalid rule %q: %w", s, err)
	}
	r := Rule(n)
	if !r.Valid() {
		return RuleNone, fmt.Errorf("invalid rule %q: out of range", s)
	}
	return r, nil
}

// RuleInfo is the wire representation of a rule.
type RuleInfo struct {
	ID    int    `json:"id"`
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Info returns the wire representation of r.
func (r Rule) Info() RuleInfo {
	return RuleInfo{ID: int(r), Code: r.String(), Label: r.Label()}
}

// MarshalJSON encodes the rule as its RuleInfo object.
func (r Rule) MarshalJSON() ([]byte, error) {
	if r == RuleNone {
		return []byte("null"), nil
	}
	return json.Marshal(r.Info())
}

// UnmarshalJSON accepts either a RuleInfo object or a bare id.
func (r *Rule) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RuleNone
		return nil
	}
	var id int
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Rule(id)
		return nil
	}
	var info RuleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return fmt.Errorf("failed to decode rule: %w", err)
	}
	*r = Rule(info.ID)
	return nil
}
