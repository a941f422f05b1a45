// Package handlers implements the per-platform join engine.
//
// Each supported platform is a variant: a table of URLs, selectors and step
// lists. A single engine runs every variant through the same attempt:
// route to the native app or the browser, reconcile the signed-in account,
// then drive the join steps. Steps are explicit found/not-found probes
// marked required or optional, so a missing optional element is never an
// error.
package handlers
