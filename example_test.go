package waterjug_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/waterjug"
	"github.com/aretw0/waterjug/pkg/domain"
)

// ExampleEngine_Solve solves the classic 4/3 puzzle and prints the path.
func ExampleEngine_Solve() {
	eng, err := waterjug.New()
	if err != nil {
		log.Fatal(err)
	}

	sol, err := eng.Solve(context.Background(), domain.Problem{
		Capacities: domain.Capacities{Jug1: 4, Jug2: 3},
		Target:     2,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(sol.Moves(), "moves")
	for _, s := range sol.Path {
		fmt.Println(s)
	}
	// Output:
	// 4 moves
	// (0, 0)
	// (0, 3)
	// (3, 0)
	// (3, 3)
	// (4, 2)
}

// ExampleEngine_Playback replays a solution step by step.
func ExampleEngine_Playback() {
	eng, err := waterjug.New()
	if err != nil {
		log.Fatal(err)
	}

	ctrl, err := eng.Playback(context.Background(), domain.Problem{
		Capacities: domain.Capacities{Jug1: 4, Jug2: 3},
		Target:     4,
	})
	if err != nil {
		log.Fatal(err)
	}

	ctrl.Start()
	for !ctrl.Done() {
		step, err := ctrl.Next()
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(step.Explanation)
		if step.Reached() {
			fmt.Println(step.Goal.Display())
		}
	}
	// Output:
	// Step 0: State changed from (0, 0) → (0, 0)
	// Production Rule R11 fired.
	// Step 1: State changed from (0, 0) → (4, 0)
	// Production Rule R11 fired.
	// R9  Jug1 == Target → Goal
}
