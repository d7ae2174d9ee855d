// Package runner drives a playback controller from a line-oriented command
// loop.
//
// Commands: start, next (or an empty line), stop, resume, reset, rules, help
// and quit/exit. The IOHandler strategy decides the presentation: TextHandler
// prints explanations for humans, JSONHandler emits one JSON event per line
// for scripts and agents.
package runner
