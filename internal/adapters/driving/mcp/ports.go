package mcp

import (
	"github.com/custodia-labs/autojoin/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server calls.
type Ports struct {
	// Meetings is the meeting registry.
	Meetings driving.MeetingService

	// Joiner serves join history. Optional.
	Joiner driving.Joiner

	// Scheduler reports pending triggers. Optional; only set when the
	// server runs inside the scheduling daemon.
	Scheduler driving.Scheduler
}

// Validate ensures the required ports are set.
func (p *Ports) Validate() error {
	if p.Meetings == nil {
		return ErrMissingMeetingService
	}
	return nil
}
