package search_test

import (
	"testing"

	"github.com/aretw0/waterjug/internal/search"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func st(a, b int) domain.JugState { return domain.JugState{Jug1: a, Jug2: b} }

func caps(a, b int) domain.Capacities { return domain.Capacities{Jug1: a, Jug2: b} }

func TestFindShortestPath_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		caps   domain.Capacities
		target int
		want   domain.Path
	}{
		{
			name:   "4/3 target 2 reaches jug2 first",
			caps:   caps(4, 3),
			target: 2,
			want:   domain.Path{st(0, 0), st(0, 3), st(3, 0), st(3, 3), st(4, 2)},
		},
		{
			name:   "5/3 target 4",
			caps:   caps(5, 3),
			target: 4,
			want:   domain.Path{st(0, 0), st(5, 0), st(2, 3), st(2, 0), st(0, 2), st(5, 2), st(4, 3)},
		},
		{
			name:   "3/5 target 4",
			caps:   caps(3, 5),
			target: 4,
			want:   domain.Path{st(0, 0), st(0, 5), st(3, 2), st(0, 2), st(2, 0), st(2, 5), st(3, 4)},
		},
		{
			name:   "Target Zero",
			caps:   caps(4, 3),
			target: 0,
			want:   domain.Path{st(0, 0)},
		},
		{
			name:   "Target Equals Capacity",
			caps:   caps(4, 3),
			target: 4,
			want:   domain.Path{st(0, 0), st(4, 0)},
		},
		{
			name:   "Exceeds Both Capacities",
			caps:   caps(2, 2),
			target: 3,
			want:   domain.Path{},
		},
		{
			name:   "Not A Multiple Of GCD",
			caps:   caps(6, 4),
			target: 1,
			want:   domain.Path{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := search.FindShortestPath(tt.caps, tt.target)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindShortestPath_MoveCounts(t *testing.T) {
	assert.Equal(t, 4, search.FindShortestPath(caps(4, 3), 2).Moves())
	assert.Equal(t, 6, search.FindShortestPath(caps(5, 3), 4).Moves())
	assert.Equal(t, 10, search.FindShortestPath(caps(8, 5), 4).Moves())

	last, ok := search.FindShortestPath(caps(5, 3), 4).Last()
	require.True(t, ok)
	assert.Equal(t, 4, last.Jug1)
}

func TestFindShortestPath_Properties(t *testing.T) {
	for cap1 := 1; cap1 <= 9; cap1++ {
		for cap2 := 1; cap2 <= 9; cap2++ {
			c := caps(cap1, cap2)
			dist := search.Distances(c)

			for target := 0; target <= max(cap1, cap2)+2; target++ {
				path := search.FindShortestPath(c, target)

				// Independent minimum over every reachable goal state.
				best := -1
				for s, d := range dist {
					if s.Holds(target) && (best < 0 || d < best) {
						best = d
					}
				}

				if best < 0 {
					assert.Empty(t, path, "caps=%v target=%d", c, target)
					continue
				}
				require.NotEmpty(t, path, "caps=%v target=%d", c, target)
				assert.Equal(t, best, path.Moves(), "shortest caps=%v target=%d", c, target)
				assert.Equal(t, domain.Initial, path[0])

				last, _ := path.Last()
				assert.True(t, last.Holds(target))

				seen := make(map[domain.JugState]bool)
				for i, s := range path {
					assert.False(t, seen[s], "repeated state %v", s)
					seen[s] = true
					assert.True(t, c.Contains(s))
					if i > 0 {
						assert.NotEmpty(t, search.Explain(path[i-1], s, c), "no move explains %v -> %v", path[i-1], s)
					}
				}
				for _, s := range path[:len(path)-1] {
					assert.False(t, s.Holds(target), "goal state %v was expanded", s)
				}
			}

			assert.Empty(t, search.FindShortestPath(c, max(cap1, cap2)+1))
		}
	}
}

func TestFindShortestPath_Deterministic(t *testing.T) {
	first := search.FindShortestPath(caps(7, 3), 5)
	for range 5 {
		assert.Equal(t, first, search.FindShortestPath(caps(7, 3), 5))
	}
}

func TestSuccessors_Order(t *testing.T) {
	got := search.Successors(st(1, 2), caps(4, 3))
	want := [6]domain.JugState{
		st(4, 2), // fill jug1
		st(1, 3), // fill jug2
		st(0, 2), // empty jug1
		st(1, 0), // empty jug2
		st(3, 0), // pour jug2 into jug1
		st(0, 3), // pour jug1 into jug2
	}
	assert.Equal(t, want, got)
}

func TestExplain(t *testing.T) {
	c := caps(4, 3)
	assert.Equal(t, []search.Move{search.FillJug1}, search.Explain(st(0, 3), st(4, 3), c))
	assert.Equal(t, []search.Move{search.PourIntoJug2}, search.Explain(st(4, 0), st(1, 3), c))
	assert.Empty(t, search.Explain(st(0, 3), st(4, 0), c))
	assert.Equal(t, domain.RulePourJug1ToJug2, search.PourIntoJug2.Rule())
	assert.Equal(t, domain.RulePourJug2ToJug1, search.PourIntoJug1.Rule())
}

func TestExplore(t *testing.T) {
	g := search.Explore(caps(4, 3))

	require.NotEmpty(t, g.States)
	assert.Equal(t, domain.Initial, g.States[0])
	assert.Len(t, g.States, len(search.Distances(caps(4, 3))))

	for _, e := range g.Edges {
		assert.NotEqual(t, e.From, e.To)
		moves := search.Explain(e.From, e.To, caps(4, 3))
		require.NotEmpty(t, moves)
		assert.Equal(t, moves[0].Rule(), e.Rule)
	}

	// Every state of a 2/2 puzzle keeps both jugs at 0 or 2.
	for _, s := range search.Explore(caps(2, 2)).States {
		assert.Contains(t, []int{0, 2}, s.Jug1)
		assert.Contains(t, []int{0, 2}, s.Jug2)
	}
}
