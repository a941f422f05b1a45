package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

// MeetingOutput is one meeting as reported to the assistant.
type MeetingOutput struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Platform        string `json:"platform"`
	StartTime       string `json:"start_time"`
	DurationMinutes int    `json:"duration_minutes"`
	URL             string `json:"url,omitempty"`
	MeetingID       string `json:"meeting_id,omitempty"`
	Recurring       bool   `json:"recurring,omitempty"`
	RequiredEmail   string `json:"required_email,omitempty"`
}

// ListMeetingsInput filters list_meetings.
type ListMeetingsInput struct {
	Upcoming bool `json:"upcoming,omitempty" jsonschema:"only meetings that have not ended"`
}

// ListMeetingsOutput is the result of list_meetings.
type ListMeetingsOutput struct {
	Meetings []MeetingOutput `json:"meetings"`
	Count    int             `json:"count"`
}

// AddMeetingInput is the input schema for add_meeting.
type AddMeetingInput struct {
	ID              string `json:"id,omitempty" jsonschema:"meeting id; generated when empty"`
	Title           string `json:"title" jsonschema:"meeting title"`
	Platform        string `json:"platform" jsonschema:"zoom, google_meet or teams"`
	StartTime       string `json:"start_time" jsonschema:"start time in RFC 3339 format"`
	DurationMinutes int    `json:"duration_minutes,omitempty" jsonschema:"length in minutes (default 60)"`
	URL             string `json:"url,omitempty" jsonschema:"join link"`
	MeetingID       string `json:"meeting_id,omitempty" jsonschema:"platform meeting id, for zoom"`
	Password        string `json:"password,omitempty" jsonschema:"meeting passcode"`
	Recurring       bool   `json:"recurring,omitempty" jsonschema:"whether the meeting repeats"`
	RequiredEmail   string `json:"required_email,omitempty" jsonschema:"account that must be signed in"`
}

// AddMeetingOutput is the result of add_meeting.
type AddMeetingOutput struct {
	ID    string `json:"id"`
	Added bool   `json:"added"`
}

// RemoveMeetingInput is the input schema for remove_meeting.
type RemoveMeetingInput struct {
	ID string `json:"id" jsonschema:"id of the meeting to remove"`
}

// RemoveMeetingOutput is the result of remove_meeting.
type RemoveMeetingOutput struct {
	Removed bool `json:"removed"`
}

// JoinHistoryInput is the input schema for join_history.
type JoinHistoryInput struct {
	MeetingID string `json:"meeting_id,omitempty" jsonschema:"limit to one meeting"`
	Limit     int    `json:"limit,omitempty" jsonschema:"maximum attempts to return (default 20)"`
}

// AttemptOutput is one recorded join attempt.
type AttemptOutput struct {
	MeetingID string `json:"meeting_id"`
	Title     string `json:"title"`
	Platform  string `json:"platform"`
	Path      string `json:"path"`
	StartedAt string `json:"started_at"`
	Success   bool   `json:"success"`
	Reason    string `json:"reason,omitempty"`
}

// JoinHistoryOutput is the result of join_history.
type JoinHistoryOutput struct {
	Attempts []AttemptOutput `json:"attempts"`
	Count    int             `json:"count"`
}

const defaultHistoryLimit = 20

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_meetings",
		Description: "List meetings registered for automatic joining, ordered by start time",
	}, s.handleListMeetings)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_meeting",
		Description: "Register a meeting to be joined automatically shortly before it starts",
	}, s.handleAddMeeting)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "remove_meeting",
		Description: "Unregister a meeting so it is no longer joined",
	}, s.handleRemoveMeeting)

	if s.ports.Joiner != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "join_history",
			Description: "Show recent automatic join attempts and why failed ones failed",
		}, s.handleJoinHistory)
	}
}

func (s *Server) handleListMeetings(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListMeetingsInput,
) (*mcp.CallToolResult, ListMeetingsOutput, error) {
	now := time.Now()
	out := ListMeetingsOutput{Meetings: []MeetingOutput{}}
	for _, m := range s.ports.Meetings.List(ctx) {
		if input.Upcoming && m.HasEnded(now) {
			continue
		}
		out.Meetings = append(out.Meetings, toMeetingOutput(m))
	}
	out.Count = len(out.Meetings)
	return nil, out, nil
}

func (s *Server) handleAddMeeting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddMeetingInput,
) (*mcp.CallToolResult, AddMeetingOutput, error) {
	meeting, err := input.toMeeting()
	if err != nil {
		return nil, AddMeetingOutput{}, err
	}

	added, err := s.ports.Meetings.Add(ctx, meeting)
	if err != nil {
		return nil, AddMeetingOutput{ID: meeting.ID, Added: added}, err
	}
	return nil, AddMeetingOutput{ID: meeting.ID, Added: added}, nil
}

func (s *Server) handleRemoveMeeting(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RemoveMeetingInput,
) (*mcp.CallToolResult, RemoveMeetingOutput, error) {
	removed, err := s.ports.Meetings.Remove(ctx, input.ID)
	return nil, RemoveMeetingOutput{Removed: removed}, err
}

func (s *Server) handleJoinHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input JoinHistoryInput,
) (*mcp.CallToolResult, JoinHistoryOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	results, err := s.ports.Joiner.History(ctx, input.MeetingID, limit)
	if err != nil {
		return nil, JoinHistoryOutput{}, fmt.Errorf("reading history: %w", err)
	}

	out := JoinHistoryOutput{Attempts: make([]AttemptOutput, len(results)), Count: len(results)}
	for i, r := range results {
		out.Attempts[i] = AttemptOutput{
			MeetingID: r.MeetingID,
			Title:     r.Title,
			Platform:  r.Platform.String(),
			Path:      r.Path.String(),
			StartedAt: r.StartedAt.Format(time.RFC3339),
			Success:   r.Success,
			Reason:    string(r.Reason),
		}
	}
	return nil, out, nil
}

func (in AddMeetingInput) toMeeting() (domain.Meeting, error) {
	start, err := time.Parse(time.RFC3339, in.StartTime)
	if err != nil {
		return domain.Meeting{}, fmt.Errorf("%w: start_time: %w", domain.ErrInvalidInput, err)
	}
	platform, err := domain.ParsePlatform(in.Platform)
	if err != nil {
		return domain.Meeting{}, err
	}

	minutes := in.DurationMinutes
	if minutes <= 0 {
		minutes = 60
	}
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}

	return domain.Meeting{
		ID:            id,
		Title:         in.Title,
		Platform:      platform,
		StartTime:     start,
		Duration:      time.Duration(minutes) * time.Minute,
		URL:           in.URL,
		MeetingID:     in.MeetingID,
		Password:      in.Password,
		Recurring:     in.Recurring,
		RequiredEmail: in.RequiredEmail,
	}, nil
}

func toMeetingOutput(m domain.Meeting) MeetingOutput {
	return MeetingOutput{
		ID:              m.ID,
		Title:           m.Title,
		Platform:        m.Platform.String(),
		StartTime:       m.StartTime.Format(time.RFC3339),
		DurationMinutes: int(m.Duration / time.Minute),
		URL:             m.URL,
		MeetingID:       m.MeetingID,
		Recurring:       m.Recurring,
		RequiredEmail:   m.RequiredEmail,
	}
}
