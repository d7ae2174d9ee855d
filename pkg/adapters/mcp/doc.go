// Package mcp exposes the solver to Model Context Protocol clients.
//
// Tools: solve, classify, list_rules and, with a catalog, list_puzzles.
// Resource: waterjug://rules.
package mcp
