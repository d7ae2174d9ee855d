/*
Package playback replays a solution one state at a time.

A Controller owns an immutable domain.Solution and a cursor. It replaces the
start/next/stop/reset buttons of an interactive front-end with explicit
methods, so no package-level state is needed: every front-end (CLI runner,
HTTP session, MCP tool) holds its own controller or persists its Snapshot.

	ctrl := playback.New(solution)
	ctrl.Start()
	for {
		step, err := ctrl.Next()
		if err != nil {
			break // domain.ErrPlaybackFinished
		}
		fmt.Println(step.Explanation)
	}
*/
package playback
