package domain

import (
	"net/url"
	"strings"
	"time"
)

// Meeting is a scheduled online meeting the automator should join.
// Optional string fields use the empty string for "absent".
type Meeting struct {
	// ID is the opaque unique identifier, stable across persistence round-trips.
	ID string

	// Title is the display name of the meeting.
	Title string

	// Platform is the meeting service.
	Platform Platform

	// StartTime is when the meeting begins.
	StartTime time.Time

	// Duration is how long the meeting runs.
	Duration time.Duration

	// URL is the join link. Required on platforms without a meeting-ID path.
	URL string

	// MeetingID and Password are the meeting's own join credentials.
	MeetingID string
	Password  string

	// Recurring marks a repeating meeting. RecurrencePattern is informational
	// and never expanded into further occurrences.
	Recurring         bool
	RecurrencePattern string

	// RequiredEmail is the account that must be signed in to join.
	// Empty means any account, or an app-only join, is acceptable.
	RequiredEmail string
}

// Validate checks the registration invariants.
func (m *Meeting) Validate() error {
	if strings.TrimSpace(m.ID) == "" {
		return &ValidationError{Field: "id", Reason: "must not be empty"}
	}
	if strings.TrimSpace(m.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if !m.Platform.IsValid() {
		return &ValidationError{Field: "platform", Reason: "must be one of zoom, google_meet, teams"}
	}
	if m.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Reason: "must be set"}
	}
	if m.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must not be negative"}
	}
	if m.URL != "" {
		u, err := url.Parse(m.URL)
		if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			return &ValidationError{Field: "url", Reason: "must be an http(s) link"}
		}
	}
	if m.Platform.RequiresURL() && m.URL == "" {
		return &ValidationError{Field: "url", Reason: "is required for " + m.Platform.DisplayName()}
	}
	if m.URL == "" && m.MeetingID == "" {
		return &ValidationError{Field: "url", Reason: "or meeting_id is required"}
	}
	if m.RequiredEmail != "" && !strings.Contains(m.RequiredEmail, "@") {
		return &ValidationError{Field: "required_email", Reason: "must be an email address"}
	}
	return nil
}

// EndTime returns when the meeting finishes.
func (m *Meeting) EndTime() time.Time {
	return m.StartTime.Add(m.Duration)
}

// FireTime returns when the join attempt should begin.
func (m *Meeting) FireTime(leadTime time.Duration) time.Time {
	return m.StartTime.Add(-leadTime)
}

// IsUpcoming returns true if the meeting has not started yet.
func (m *Meeting) IsUpcoming(now time.Time) bool {
	return m.StartTime.After(now)
}

// HasEnded returns true if the meeting finished before now.
func (m *Meeting) HasEnded(now time.Time) bool {
	return m.EndTime().Before(now)
}

// ShouldSchedule returns true if the meeting must be handed to the scheduler:
// it starts in the future, or it is flagged as recurring.
func (m *Meeting) ShouldSchedule(now time.Time) bool {
	return m.IsUpcoming(now) || m.Recurring
}

// Equal reports whether two meetings carry the same data.
// Start times are compared as instants.
func (m *Meeting) Equal(o *Meeting) bool {
	a, b := *m, *o
	if !a.StartTime.Equal(b.StartTime) {
		return false
	}
	a.StartTime, b.StartTime = time.Time{}, time.Time{}
	return a == b
}

// JoinRequest returns the join parameters for the meeting.
func (m *Meeting) JoinRequest() JoinRequest {
	return JoinRequest{
		Title:         m.Title,
		URL:           m.URL,
		MeetingID:     m.MeetingID,
		Password:      m.Password,
		RequiredEmail: m.RequiredEmail,
	}
}

// SkippedRecord is a persisted meeting that could not be decoded.
type SkippedRecord struct {
	ID    string
	Error string
}

// SnapshotLoad is the result of reading the meeting snapshot.
type SnapshotLoad struct {
	Meetings []Meeting
	Skipped  []SkippedRecord
}

// ImportReport summarises a calendar import.
type ImportReport struct {
	// Source names the importer.
	Source string

	// Added lists the ids of newly registered meetings.
	Added []string

	// Duplicates counts candidates whose id was already registered.
	Duplicates int

	// Rejected lists candidates that failed validation.
	Rejected []SkippedRecord
}
