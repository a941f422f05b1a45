// Package browser implements the remote UI controller over Chrome using
// chromedp. A Factory runs one browser with a persistent profile, started
// lazily, and gives every controller its own tab so platform sessions are
// shared while attempts never touch each other's tab.
package browser
