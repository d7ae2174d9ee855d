// Package search implements breadth-first search over the two-jug state graph.
package search

import "github.com/aretw0/waterjug/pkg/domain"

// trail is a path stored as a parent-linked list, so frontier entries share
// the prefix of their parent instead of copying it.
type trail struct {
	state  domain.JugState
	parent *trail
	depth  int
}

func (t *trail) path() domain.Path {
	p := make(domain.Path, t.depth+1)
	for n := t; n != nil; n = n.parent {
		p[n.depth] = n.state
	}
	return p
}

// entry is a frontier element: a state and the path of the parent that
// enqueued it (not yet extended with the state itself).
type entry struct {
	state  domain.JugState
	parent *trail
}

// FindShortestPath returns the shortest sequence of states from (0,0) to the
// first state where either jug holds target. It returns an empty path when
// the target cannot be reached within [0,cap1]x[0,cap2].
//
// Capacities must be positive; callers validate before invoking.
func FindShortestPath(caps domain.Capacities, target int) domain.Path {
	visited := make(map[domain.JugState]struct{})
	queue := []entry{{state: domain.Initial}}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		queue[head] = entry{}

		if _, seen := visited[cur.state]; seen {
			continue
		}
		visited[cur.state] = struct{}{}

		node := &trail{state: cur.state, parent: cur.parent}
		if cur.parent != nil {
			node.depth = cur.parent.depth + 1
		}

		// Goal check happens before expansion: the goal is never expanded.
		if cur.state.Holds(target) {
			return node.path()
		}

		for _, next := range Successors(cur.state, caps) {
			if _, seen := visited[next]; !seen {
				queue = append(queue, entry{state: next, parent: node})
			}
		}
	}
	return domain.Path{}
}

// Explore visits every state reachable from (0,0) and records the distinct
// non-trivial transitions between them, labelled with the first move (in
// generation order) that produces them.
func Explore(caps domain.Capacities) domain.StateSpace {
	var g domain.StateSpace
	seen := map[domain.JugState]struct{}{domain.Initial: {}}
	queue := []domain.JugState{domain.Initial}

	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		g.States = append(g.States, cur)

		edges := make(map[domain.JugState]struct{})
		for _, m := range Moves {
			next := m.Apply(cur, caps)
			if next == cur {
				continue
			}
			if _, dup := edges[next]; !dup {
				edges[next] = struct{}{}
				g.Edges = append(g.Edges, domain.Transition{From: cur, To: next, Rule: m.Rule()})
			}
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return g
}

// Distances returns the BFS depth of every reachable state.
func Distances(caps domain.Capacities) map[domain.JugState]int {
	dist := map[domain.JugState]int{domain.Initial: 0}
	queue := []domain.JugState{domain.Initial}
	for head := 0; head < len(queue); head++ {
		cur := queue[head]
		for _, next := range Successors(cur, caps) {
			if _, ok := dist[next]; !ok {
				dist[next] = dist[cur] + 1
				queue = append(queue, next)
			}
		}
	}
	return dist
}
