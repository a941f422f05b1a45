// Package mcp exposes the meeting registry to AI assistants over the Model
// Context Protocol: tools to list, add and remove meetings and to read the
// join history, plus read-only meeting resources.
package mcp

import "errors"

// ErrMissingMeetingService is returned when the meeting service is not provided.
var ErrMissingMeetingService = errors.New("mcp: meeting service is required")
