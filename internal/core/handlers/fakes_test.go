package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/autojoin/internal/core/domain"
	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// --- Fakes for handler testing ---

// fakeController is a scripted remote surface. Elements are present either
// everywhere (present) or only on one URL (pages). Click hooks mutate the
// surface to model navigation side effects such as signing in.
type fakeController struct {
	mu sync.Mutex

	url     string
	present map[string]bool
	pages   map[string]map[string]bool
	texts   map[string]string
	attrs   map[string]string
	cookies []string
	onClick map[string]func(f *fakeController)

	navigations    []string
	clicks         []string
	typed          map[string]string
	cleared        []string
	granted        []string
	cookiesCleared int
	closed         int
	detached       bool

	navigateErr error
}

var _ driven.RemoteController = (*fakeController)(nil)

func newFakeController() *fakeController {
	return &fakeController{
		present: make(map[string]bool),
		pages:   make(map[string]map[string]bool),
		texts:   make(map[string]string),
		attrs:   make(map[string]string),
		onClick: make(map[string]func(f *fakeController)),
		typed:   make(map[string]string),
	}
}

func (f *fakeController) onPage(url string, selectors ...string) {
	if f.pages[url] == nil {
		f.pages[url] = make(map[string]bool)
	}
	for _, s := range selectors {
		f.pages[url][s] = true
	}
}

func (f *fakeController) exists(selector string) bool {
	return f.present[selector] || f.pages[f.url][selector]
}

func (f *fakeController) Navigate(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.navigateErr != nil {
		return f.navigateErr
	}
	f.url = url
	f.navigations = append(f.navigations, url)
	return nil
}

func (f *fakeController) Exists(_ context.Context, selector string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.exists(selector), nil
}

func (f *fakeController) Click(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.exists(selector) {
		return errors.New("no element " + selector)
	}
	f.clicks = append(f.clicks, selector)
	if hook := f.onClick[selector]; hook != nil {
		hook(f)
	}
	return nil
}

func (f *fakeController) Clear(_ context.Context, selector string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared = append(f.cleared, selector)
	delete(f.typed, selector)
	return nil
}

func (f *fakeController) SendKeys(_ context.Context, selector, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.typed[selector] += text
	return nil
}

func (f *fakeController) Text(_ context.Context, selector string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.texts[selector], nil
}

func (f *fakeController) Attribute(_ context.Context, selector, name string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.attrs[selector+"@"+name]
	return v, ok, nil
}

func (f *fakeController) CookieNames(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cookies...), nil
}

func (f *fakeController) ClearCookies(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cookies = nil
	f.cookiesCleared++
	return nil
}

func (f *fakeController) GrantMediaPermissions(_ context.Context, origin string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.granted = append(f.granted, origin)
	return nil
}

func (f *fakeController) Detach() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.detached = true
	return nil
}

func (f *fakeController) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeController) navigatedTo(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, n := range f.navigations {
		if n == url {
			return true
		}
	}
	return false
}

func (f *fakeController) clicked(selector string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.clicks {
		if c == selector {
			return true
		}
	}
	return false
}

// fakeFactory hands out one controller.
type fakeFactory struct {
	ctrl    *fakeController
	created int
	err     error
}

func (f *fakeFactory) NewController(_ context.Context) (driven.RemoteController, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created++
	return f.ctrl, nil
}

// fakeCredentials is an in-memory credential store.
type fakeCredentials struct {
	secrets map[string]string
	gets    int
}

var _ driven.CredentialStore = (*fakeCredentials)(nil)

func newFakeCredentials() *fakeCredentials {
	return &fakeCredentials{secrets: make(map[string]string)}
}

func (c *fakeCredentials) Get(service, account string) (string, error) {
	c.gets++
	s, ok := c.secrets[service+"/"+account]
	if !ok {
		return "", domain.ErrNotFound
	}
	return s, nil
}

func (c *fakeCredentials) Set(service, account, secret string) error {
	c.secrets[service+"/"+account] = secret
	return nil
}

func (c *fakeCredentials) Delete(service, account string) error {
	delete(c.secrets, service+"/"+account)
	return nil
}

// fakeDecisions returns a fixed decision and counts requests.
type fakeDecisions struct {
	decision domain.Decision
	requests []domain.DecisionRequest
}

func (d *fakeDecisions) Decide(_ context.Context, req domain.DecisionRequest) (domain.Decision, error) {
	d.requests = append(d.requests, req)
	return d.decision, nil
}

// fakeApps is a probe and launcher in one.
type fakeApps struct {
	installed map[domain.Platform]bool
	launchErr error
	launches  [][]string
}

func (a *fakeApps) IsInstalled(p domain.Platform) bool {
	return a.installed[p]
}

func (a *fakeApps) AppPath(p domain.Platform) string {
	if !a.installed[p] {
		return ""
	}
	return "/usr/bin/" + p.String()
}

func (a *fakeApps) Launch(_ context.Context, path string, args []string) error {
	a.launches = append(a.launches, append([]string{path}, args...))
	return a.launchErr
}

// testEnv bundles the fakes behind one handler.
type testEnv struct {
	ctrl      *fakeController
	factory   *fakeFactory
	creds     *fakeCredentials
	decisions *fakeDecisions
	apps      *fakeApps
}

func newTestEnv() *testEnv {
	ctrl := newFakeController()
	return &testEnv{
		ctrl:      ctrl,
		factory:   &fakeFactory{ctrl: ctrl},
		creds:     newFakeCredentials(),
		decisions: &fakeDecisions{decision: domain.DecisionAbort},
		apps:      &fakeApps{installed: make(map[domain.Platform]bool)},
	}
}

func (e *testEnv) handler(p domain.Platform) *PlatformHandler {
	h, err := New(p, Deps{
		Controllers: e.factory,
		Credentials: e.creds,
		Decisions:   e.decisions,
		Probe:       e.apps,
		Launcher:    e.apps,
		Options: Options{
			StepTimeout:  30 * time.Millisecond,
			PollInterval: 2 * time.Millisecond,
		},
	})
	if err != nil {
		panic(err)
	}
	h.sleep = func(context.Context, time.Duration) error { return nil }
	return h
}

// signedIn scripts a zoom profile page showing email as the signed-in account.
func (e *testEnv) zoomSignedIn(email string) {
	e.ctrl.cookies = []string{"_zm_ssid"}
	e.ctrl.onPage(zoomBaseURL+"/profile", ".profile-info", "[aria-label='Sign Out']")
	e.ctrl.texts[".profile-email"] = email
}

// zoomLoginPage scripts the zoom sign-in form; submitting signs in as the
// typed email.
func (e *testEnv) zoomLoginPage() {
	e.ctrl.onPage(zoomBaseURL+"/signin", "#email", "#password", "[type='submit']")
	e.ctrl.onClick["[type='submit']"] = func(f *fakeController) {
		f.cookies = []string{"_zm_ssid"}
		f.onPage(zoomBaseURL+"/profile", ".profile-info")
		f.texts[".profile-email"] = f.typed["#email"]
	}
}

// zoomJoinPage scripts the join-by-id page.
func (e *testEnv) zoomJoinPage(url string) {
	e.ctrl.onPage(url, "#inputname", "#inputpasscode", "button[type='submit']")
}
