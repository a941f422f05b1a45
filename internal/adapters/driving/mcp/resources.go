package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

const uriScheme = "autojoin://"

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "meetings",
		Name:        "meetings",
		Description: "All registered meetings",
		MIMEType:    "application/json",
	}, s.handleMeetingsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "meetings/{meetingId}",
		Name:        "meeting",
		Description: "One registered meeting",
		MIMEType:    "application/json",
	}, s.handleMeetingResource)

	if s.ports.Scheduler != nil {
		s.server.AddResource(&mcp.Resource{
			URI:         uriScheme + "triggers",
			Name:        "triggers",
			Description: "Pending join triggers ordered by fire time",
			MIMEType:    "application/json",
		}, s.handleTriggersResource)
	}
}

func (s *Server) handleMeetingsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	meetings := s.ports.Meetings.List(ctx)
	out := make([]MeetingOutput, len(meetings))
	for i, m := range meetings {
		out[i] = toMeetingOutput(m)
	}
	return jsonResource(req.Params.URI, out)
}

func (s *Server) handleMeetingResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractMeetingID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	m, err := s.ports.Meetings.Get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting meeting: %w", err)
	}
	return jsonResource(req.Params.URI, toMeetingOutput(m))
}

func (s *Server) handleTriggersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type triggerInfo struct {
		MeetingID string `json:"meeting_id"`
		Title     string `json:"title"`
		Platform  string `json:"platform"`
		FireTime  string `json:"fire_time"`
	}

	pending := s.ports.Scheduler.Pending()
	out := make([]triggerInfo, len(pending))
	for i, t := range pending {
		out[i] = triggerInfo{
			MeetingID: t.MeetingID,
			Title:     t.Title,
			Platform:  t.Platform.String(),
			FireTime:  t.FireTime.Format(time.RFC3339),
		}
	}
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractMeetingID returns the id from autojoin://meetings/{id}.
func extractMeetingID(uri string) string {
	rest, ok := strings.CutPrefix(uri, uriScheme+"meetings/")
	if !ok || strings.Contains(rest, "/") {
		return ""
	}
	return rest
}
