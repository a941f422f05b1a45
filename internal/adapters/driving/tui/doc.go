// Package tui resolves account mismatches, either from a configured policy
// or by asking at the terminal with a small bubbletea prompt.
package tui
