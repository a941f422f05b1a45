package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/chromedp/chromedp"

	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// ProfileDirName is the browser profile inside the data directory.
const ProfileDirName = "browser-profile"

// Config configures the browser a Factory starts.
type Config struct {
	// ProfileDir keeps cookies and sign-ins between attempts.
	ProfileDir string

	// ExecPath overrides browser auto-detection.
	ExecPath string

	// Headless runs without a window.
	Headless bool
}

// ConfigForDataDir returns a Config using the profile under dataDir.
func ConfigForDataDir(dataDir string) Config {
	return Config{ProfileDir: filepath.Join(dataDir, ProfileDirName)}
}

// Ensure Factory implements the interface.
var _ driven.RemoteControllerFactory = (*Factory)(nil)

// startFunc opens a context and runs it once so the target exists.
type startFunc func(parent context.Context) (context.Context, context.CancelFunc, error)

// Factory owns one browser process. Only one process may hold a profile
// directory, so every controller is a tab in that browser.
type Factory struct {
	cfg Config

	// openBrowser starts the browser and returns its root context.
	openBrowser startFunc
	// openTab opens a tab under the root context.
	openTab startFunc

	mu         sync.Mutex
	root       context.Context
	cancelRoot context.CancelFunc
}

// NewFactory creates a factory. The browser starts with the first controller.
func NewFactory(cfg Config) *Factory {
	f := &Factory{cfg: cfg}
	f.openBrowser = f.startBrowser
	f.openTab = startTab
	return f
}

// allocatorOptions mirrors the flags meeting pages need: a maximised
// window, no notification prompts, and media permissions granted without
// asking.
func (f *Factory) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts,
		chromedp.Flag("headless", f.cfg.Headless),
		chromedp.Flag("start-maximized", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.Flag("use-fake-ui-for-media-stream", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if f.cfg.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(f.cfg.ProfileDir))
	}
	if f.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(f.cfg.ExecPath))
	}
	return opts
}

// NewController opens a new tab and returns a controller that owns it.
// Closing the controller closes only its tab.
func (f *Factory) NewController(ctx context.Context) (driven.RemoteController, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	root, err := f.browserLocked(ctx)
	if err != nil {
		return nil, err
	}

	tab, cancelTab, err := f.openTab(root)
	if err != nil {
		// The browser may have been closed by the user. Start a new one once.
		f.shutdownLocked()
		if root, err = f.browserLocked(ctx); err != nil {
			return nil, err
		}
		if tab, cancelTab, err = f.openTab(root); err != nil {
			return nil, fmt.Errorf("open tab: %w", err)
		}
	}

	return &Controller{tab: tab, cancel: cancelTab}, nil
}

// Close shuts the browser down, including tabs left open by Detach.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shutdownLocked()
	return nil
}

// browserLocked returns the root context, starting the browser if needed.
// Caller holds f.mu.
func (f *Factory) browserLocked(ctx context.Context) (context.Context, error) {
	if f.root != nil && f.root.Err() == nil {
		return f.root, nil
	}
	f.shutdownLocked()

	if f.cfg.ProfileDir != "" {
		if err := os.MkdirAll(f.cfg.ProfileDir, 0700); err != nil {
			return nil, fmt.Errorf("create browser profile: %w", err)
		}
	}

	// The browser outlives the attempt that started it.
	root, cancel, err := f.openBrowser(context.WithoutCancel(ctx))
	if err != nil {
		return nil, fmt.Errorf("start browser: %w", err)
	}
	f.root, f.cancelRoot = root, cancel
	return root, nil
}

func (f *Factory) shutdownLocked() {
	if f.cancelRoot != nil {
		f.cancelRoot()
	}
	f.root, f.cancelRoot = nil, nil
}

// startBrowser launches Chrome. The root tab stays on about:blank and is
// never handed to a controller, so closing controllers never ends the
// browser.
func (f *Factory) startBrowser(parent context.Context) (context.Context, context.CancelFunc, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, f.allocatorOptions()...)
	rootCtx, cancelRoot := chromedp.NewContext(allocCtx)
	cancel := func() {
		cancelRoot()
		cancelAlloc()
	}
	// Run with no actions starts the browser.
	if err := chromedp.Run(rootCtx); err != nil {
		cancel()
		return nil, nil, err
	}
	return rootCtx, cancel, nil
}

// startTab opens a new tab in the browser that owns parent.
func startTab(parent context.Context) (context.Context, context.CancelFunc, error) {
	tabCtx, cancel := chromedp.NewContext(parent)
	if err := chromedp.Run(tabCtx); err != nil {
		cancel()
		return nil, nil, err
	}
	return tabCtx, cancel, nil
}
