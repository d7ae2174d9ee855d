package domain

import "fmt"

// JugState is the amount of water held by each jug.
// It is a value type: equality and map hashing are by value.
type JugState struct {
	Jug1 int `json:"jug1" yaml:"jug1" mapstructure:"jug1"`
	Jug2 int `json:"jug2" yaml:"jug2" mapstructure:"jug2"`
}

// Initial is the state every search starts from.
var Initial = JugState{}

// IsInitial reports whether both jugs are empty.
func (s JugState) IsInitial() bool {
	return s == Initial
}

// Holds reports whether either jug contains exactly amount.
func (s JugState) Holds(amount int) bool {
	return s.Jug1 == amount || s.Jug2 == amount
}

func (s JugState) String() string {
	return fmt.Sprintf("(%d, %d)", s.Jug1, s.Jug2)
}

// Capacities holds the size of both jugs. Both must be at least 1.
type Capacities struct {
	Jug1 int `json:"cap1" yaml:"cap1" mapstructure:"cap1" validate:"gte=1"`
	Jug2 int `json:"cap2" yaml:"cap2" mapstructure:"cap2" validate:"gte=1"`
}

// Max returns the larger of the two capacities.
func (c Capacities) Max() int {
	return max(c.Jug1, c.Jug2)
}

// Contains reports whether s fits in the bounded state space [0,cap1]x[0,cap2].
func (c Capacities) Contains(s JugState) bool {
	return s.Jug1 >= 0 && s.Jug1 <= c.Jug1 && s.Jug2 >= 0 && s.Jug2 <= c.Jug2
}

// Problem is a single puzzle instance.
type Problem struct {
	Capacities `yaml:",inline" mapstructure:",squash"`
	Target     int `json:"target" yaml:"target" mapstructure:"target" validate:"gte=0"`
}

func (p Problem) String() string {
	return fmt.Sprintf("jugs %d/%d target %d", p.Jug1, p.Jug2, p.Target)
}

// Path is an ordered sequence of states starting at Initial.
type Path []JugState

// Moves returns the number of transitions in the path.
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Last returns the final state of the path.
func (p Path) Last() (JugState, bool) {
	if len(p) == 0 {
		return JugState{}, false
	}
	return p[len(p)-1], true
}

// Solution is the result of a successful search.
type Solution struct {
	Problem Problem `json:"problem"`
	Path    Path    `json:"path"`
	Goal    Rule    `json:"goal"`
}

// Moves returns the number of transitions needed to reach the target.
func (s *Solution) Moves() int {
	return s.Path.Moves()
}

// Transition is a distinct edge of the state space, labelled with the rule of
// the first move (in generation order) that produces it.
type Transition struct {
	From JugState `json:"from"`
	To   JugState `json:"to"`
	Rule Rule     `json:"rule"`
}

// StateSpace is the part of [0,cap1]x[0,cap2] reachable from Initial.
type StateSpace struct {
	States []JugState   `json:"states"` // BFS discovery order, starting at (0,0)
	Edges  []Transition `json:"edges"`
}
