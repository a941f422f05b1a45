package domain

import "time"

// JoinPath records how a meeting was (or would have been) joined.
type JoinPath string

// Join paths.
const (
	JoinPathNone    JoinPath = ""
	JoinPathApp     JoinPath = "app"
	JoinPathBrowser JoinPath = "browser"
)

// String returns the string representation.
func (p JoinPath) String() string {
	if p == JoinPathNone {
		return "none"
	}
	return string(p)
}

// JoinRequest carries the per-meeting join parameters handed to a platform handler.
type JoinRequest struct {
	// Title is shown when a decision is needed.
	Title string

	URL           string
	MeetingID     string
	Password      string
	RequiredEmail string
}

// JoinResult is the outcome of one join attempt. Attempts are reported once
// and never retried.
type JoinResult struct {
	// AttemptID is assigned when the attempt is recorded.
	AttemptID string

	MeetingID string
	Title     string
	Platform  Platform

	// Path is the route the attempt ended on.
	Path JoinPath

	// Account is the signed-in account used, when known.
	Account string

	StartedAt time.Time
	EndedAt   time.Time

	Success bool
	Reason  FailureReason
	Error   string
}

// Duration returns how long the attempt ran.
func (r *JoinResult) Duration() time.Duration {
	if r.EndedAt.IsZero() {
		return 0
	}
	return r.EndedAt.Sub(r.StartedAt)
}
