/*
Package waterjug solves the two-jug water puzzle and explains every step of the
solution with a fixed catalog of production rules.

Given two jugs of capacities cap1 and cap2 and a target amount, the engine runs
a breadth-first search from (0,0) over the six classic moves (fill, empty and
pour, for each jug) and returns the shortest sequence of states that leaves the
target in either jug. Each transition of the sequence can then be labelled with
one of the twelve rules R1 to R12, and a playback controller replays the
solution one step at a time.

# Architecture

The root package is a thin facade over the core:

  - pkg/domain: value types (JugState, Problem, Solution, Rule) and sentinel errors.
  - internal/search: the BFS engine and the move table.
  - internal/classify: the rule classifier and the goal post-check.
  - pkg/playback: the step-by-step replay controller.

Adapters (HTTP, MCP, session stores, the puzzle catalog) live under
pkg/adapters and talk to the core through the Engine.

# Usage

	eng, err := waterjug.New()
	if err != nil {
		log.Fatal(err)
	}

	sol, err := eng.Solve(ctx, domain.Problem{
		Capacities: domain.Capacities{Jug1: 4, Jug2: 3},
		Target:     2,
	})
	if errors.Is(err, domain.ErrTargetUnreachable) {
		fmt.Println("no solution")
		return
	}

	for _, step := range eng.Steps(sol) {
		fmt.Println(step.Explanation)
	}

# Observability

Lifecycle hooks (domain.LifecycleHooks) fire around every search and on each
playback step. pkg/observability turns them into Prometheus metrics, and
searches are traced with OpenTelemetry when a tracer provider is installed.
*/
package waterjug
