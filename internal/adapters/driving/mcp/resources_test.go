package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleMeetingsResource(t *testing.T) {
	s := newTestServer(t, &Ports{Meetings: newMockMeetingService(sampleMeeting("m1", time.Now()))})

	res, err := s.handleMeetingsResource(context.Background(), readRequest("autojoin://meetings"))
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Equal(t, "application/json", res.Contents[0].MIMEType)

	var out []MeetingOutput
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "m1", out[0].ID)
}

func TestServer_handleMeetingResource(t *testing.T) {
	s := newTestServer(t, &Ports{Meetings: newMockMeetingService(sampleMeeting("m1", time.Now()))})
	ctx := context.Background()

	res, err := s.handleMeetingResource(ctx, readRequest("autojoin://meetings/m1"))
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"id": "m1"`)

	_, err = s.handleMeetingResource(ctx, readRequest("autojoin://meetings/missing"))
	assert.Error(t, err)

	_, err = s.handleMeetingResource(ctx, readRequest("autojoin://meetings/"))
	assert.Error(t, err)
}

func TestServer_handleTriggersResource(t *testing.T) {
	fire := time.Date(2030, 1, 2, 8, 59, 0, 0, time.UTC)
	sched := &mockScheduler{pending: []domain.Trigger{
		{MeetingID: "m1", Title: "Standup", Platform: domain.PlatformZoom, FireTime: fire},
	}}
	s := newTestServer(t, &Ports{Meetings: newMockMeetingService(), Scheduler: sched})

	res, err := s.handleTriggersResource(context.Background(), readRequest("autojoin://triggers"))
	require.NoError(t, err)
	assert.Contains(t, res.Contents[0].Text, `"fire_time": "2030-01-02T08:59:00Z"`)
}

func TestExtractMeetingID(t *testing.T) {
	tests := map[string]string{
		"autojoin://meetings/abc": "abc",
		"autojoin://meetings/":    "",
		"autojoin://meetings/a/b": "",
		"autojoin://triggers":     "",
		"other://meetings/abc":    "",
	}
	for uri, want := range tests {
		assert.Equal(t, want, extractMeetingID(uri), uri)
	}
}
