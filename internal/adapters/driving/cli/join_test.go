package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func TestJoin_App(t *testing.T) {
	env := newTestEnv(futureMeeting("m1", time.Hour))

	out, err := execute(t, env.services, "join", "m1")

	require.NoError(t, err)
	assert.Contains(t, out, `Joining "Meeting m1" on Zoom`)
	assert.Contains(t, out, "via app")
	assert.Equal(t, []string{"m1"}, env.joiner.joined)
}

func TestJoin_BrowserNoWait(t *testing.T) {
	env := newTestEnv(futureMeeting("m1", time.Hour))
	env.joiner.result = domain.JoinResult{Success: true, Path: domain.JoinPathBrowser, Account: "me@work.example"}

	out, err := execute(t, env.services, "join", "m1", "--no-wait")

	require.NoError(t, err)
	assert.Contains(t, out, "via browser as me@work.example")
	assert.NotContains(t, out, "Ctrl+C")
}

func TestJoin_BrowserWaitsForContext(t *testing.T) {
	env := newTestEnv(futureMeeting("m1", time.Hour))
	env.joiner.result = domain.JoinResult{Success: true, Path: domain.JoinPathBrowser}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	out, err := executeContext(t, ctx, env.services, "join", "m1")

	require.NoError(t, err)
	assert.Contains(t, out, "Press Ctrl+C to leave.")
}

func TestJoin_Failure(t *testing.T) {
	env := newTestEnv(futureMeeting("m1", time.Hour))
	env.joiner.result = domain.JoinResult{Reason: domain.ReasonCredentialMissing, Error: "no password for me@work.example"}

	_, err := execute(t, env.services, "join", "m1")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "credential_missing")
}

func TestJoin_UnknownMeeting(t *testing.T) {
	env := newTestEnv()

	_, err := execute(t, env.services, "join", "nope")

	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, env.joiner.joined)
}
