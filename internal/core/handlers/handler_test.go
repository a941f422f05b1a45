package handlers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/autojoin/internal/core/domain"
)

func TestNew_UnsupportedPlatform(t *testing.T) {
	_, err := New("webex", Deps{})
	assert.ErrorIs(t, err, domain.ErrUnsupportedPlatform)
}

func TestNew_Defaults(t *testing.T) {
	h, err := New(domain.PlatformZoom, Deps{})
	require.NoError(t, err)

	assert.Equal(t, domain.PlatformZoom, h.Platform())
	assert.Equal(t, domain.DefaultStepTimeout, h.opts.StepTimeout)
	assert.Equal(t, DefaultPollInterval, h.opts.PollInterval)
	assert.Equal(t, domain.DefaultDisplayName, h.opts.DisplayName)
}

func TestJoin_ZoomByMeetingID_Browser(t *testing.T) {
	env := newTestEnv()
	env.zoomJoinPage("https://zoom.us/j/123456789")
	h := env.handler(domain.PlatformZoom)

	out, err := h.Join(context.Background(), domain.JoinRequest{
		MeetingID: "123456789",
		Password:  "pw",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.True(t, env.ctrl.navigatedTo("https://zoom.us/j/123456789"))
	assert.Equal(t, "pw", env.ctrl.typed["#inputpasscode"])
	assert.Equal(t, domain.DefaultDisplayName, env.ctrl.typed["#inputname"])
	assert.Contains(t, env.ctrl.cleared, "#inputname")
	assert.True(t, env.ctrl.clicked("button[type='submit']"))
	assert.True(t, env.ctrl.detached, "joined surface stays open")
	assert.Equal(t, 1, env.ctrl.closed)
	assert.Empty(t, env.apps.launches)
}

func TestJoin_ZoomMeetingIDIsNormalised(t *testing.T) {
	env := newTestEnv()
	env.zoomJoinPage("https://zoom.us/j/123456789")
	h := env.handler(domain.PlatformZoom)

	_, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "123 456-789"})

	require.NoError(t, err)
	assert.True(t, env.ctrl.navigatedTo("https://zoom.us/j/123456789"))
	assert.NotContains(t, env.ctrl.typed, "#inputpasscode", "empty password is not typed")
}

func TestJoin_OptionalStepsMayBeAbsent(t *testing.T) {
	env := newTestEnv()
	env.ctrl.onPage("https://zoom.us/j/1", "button[type='submit']")
	h := env.handler(domain.PlatformZoom)

	_, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, []string{"button[type='submit']"}, env.ctrl.clicks)
}

func TestJoin_RequiredStepMissing(t *testing.T) {
	env := newTestEnv()
	env.ctrl.onPage("https://zoom.us/j/1", "#inputname")
	h := env.handler(domain.PlatformZoom)

	out, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRemoteSurfaceTimeout)
	assert.Equal(t, domain.ReasonElementNotFound, domain.ReasonOf(err))
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.False(t, env.ctrl.detached)
	assert.Equal(t, 1, env.ctrl.closed, "controller released on failure")
}

func TestJoin_ZoomApp(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformZoom] = true
	h := env.handler(domain.PlatformZoom)

	out, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "123456789", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathApp, out.Path)
	require.Len(t, env.apps.launches, 1)
	assert.Equal(t,
		[]string{"/usr/bin/zoom", "--join", "--meetingid", "123456789", "--password", "pw"},
		env.apps.launches[0])
	assert.Zero(t, env.factory.created, "app path never opens a browser")
}

func TestJoin_ZoomAppWithURL(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformZoom] = true
	h := env.handler(domain.PlatformZoom)

	_, err := h.Join(context.Background(), domain.JoinRequest{URL: "https://zoom.us/j/42?pwd=x"})

	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/zoom", "--url=https://zoom.us/j/42?pwd=x"}, env.apps.launches[0])
}

func TestJoin_AppLaunchFailureFallsBackToBrowser(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformZoom] = true
	env.apps.launchErr = errors.New("exec format error")
	env.zoomJoinPage("https://zoom.us/j/1")
	h := env.handler(domain.PlatformZoom)

	out, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1"})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.Len(t, env.apps.launches, 1)
	assert.True(t, env.ctrl.navigatedTo("https://zoom.us/j/1"))
}

func TestJoin_ForceBrowser(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformZoom] = true
	env.zoomJoinPage("https://zoom.us/j/1")
	h := env.handler(domain.PlatformZoom)
	h.opts.ForceBrowser = true

	out, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1"})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.Empty(t, env.apps.launches)
}

func TestJoin_TeamsApp(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformTeams] = true
	h := env.handler(domain.PlatformTeams)

	url := "https://teams.microsoft.com/l/meetup-join/abc"
	_, err := h.Join(context.Background(), domain.JoinRequest{URL: url})

	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/bin/teams", "--url", url}, env.apps.launches[0])
}

func TestJoin_TeamsRequiresURL(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformTeams] = true
	h := env.handler(domain.PlatformTeams)

	_, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1"})

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Empty(t, env.apps.launches)
	assert.Zero(t, env.factory.created)
}

func TestJoin_TeamsBrowser(t *testing.T) {
	env := newTestEnv()
	url := "https://teams.microsoft.com/l/meetup-join/abc"
	env.ctrl.onPage(url, "button[data-tid='joinOnWeb']", "button[data-tid='join-btn']")
	h := env.handler(domain.PlatformTeams)

	out, err := h.Join(context.Background(), domain.JoinRequest{URL: url})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.Equal(t, []string{"button[data-tid='joinOnWeb']", "button[data-tid='join-btn']"}, env.ctrl.clicks)
	assert.Equal(t, []string{teamsBaseURL}, env.ctrl.granted)
}

func TestJoin_MeetNeverUsesApp(t *testing.T) {
	env := newTestEnv()
	env.apps.installed[domain.PlatformGoogleMeet] = true
	url := "https://meet.google.com/abc-defg-hij"
	env.ctrl.onPage(url, "button[jsname='Qx7uuf']")
	h := env.handler(domain.PlatformGoogleMeet)

	out, err := h.Join(context.Background(), domain.JoinRequest{URL: url})

	require.NoError(t, err)
	assert.Equal(t, domain.JoinPathBrowser, out.Path)
	assert.Empty(t, env.apps.launches)
	assert.Equal(t, []string{"https://meet.google.com"}, env.ctrl.granted)
}

func TestController_GrantsMediaOnce(t *testing.T) {
	env := newTestEnv()
	h := env.handler(domain.PlatformGoogleMeet)
	ctx := context.Background()

	_, err := h.controller(ctx)
	require.NoError(t, err)
	require.NoError(t, h.Close())
	_, err = h.controller(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, env.factory.created)
	assert.Len(t, env.ctrl.granted, 1)
}

func TestJoin_ControllerStartFailure(t *testing.T) {
	env := newTestEnv()
	env.factory.err = errors.New("chrome not found")
	h := env.handler(domain.PlatformZoom)

	_, err := h.Join(context.Background(), domain.JoinRequest{MeetingID: "1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chrome not found")
	assert.Equal(t, domain.ReasonInternal, domain.ReasonOf(err))
}

func TestJoin_Cancelled(t *testing.T) {
	env := newTestEnv()
	h := env.handler(domain.PlatformZoom)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.Join(ctx, domain.JoinRequest{MeetingID: "1"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, env.ctrl.closed)
}

func TestClose_Idempotent(t *testing.T) {
	env := newTestEnv()
	h := env.handler(domain.PlatformZoom)

	_, err := h.controller(context.Background())
	require.NoError(t, err)

	require.NoError(t, h.Close())
	require.NoError(t, h.Close())
	assert.Equal(t, 1, env.ctrl.closed)
}

func TestZoomJoinURL(t *testing.T) {
	u, err := zoomJoinURL(domain.JoinRequest{URL: "https://example.zoom.us/j/9"})
	require.NoError(t, err)
	assert.Equal(t, "https://example.zoom.us/j/9", u)

	_, err = zoomJoinURL(domain.JoinRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
