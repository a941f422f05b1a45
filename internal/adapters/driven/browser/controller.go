package browser

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"

	"github.com/custodia-labs/autojoin/internal/core/ports/driven"
)

// ErrClosed is returned by a controller after Close or Detach.
var ErrClosed = errors.New("browser controller closed")

// Ensure Controller implements the interface.
var _ driven.RemoteController = (*Controller)(nil)

// Controller drives one Chrome tab it owns exclusively.
type Controller struct {
	tab    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	done     bool
	detached bool
}

// run executes actions on the tab, bounded by ctx.
func (c *Controller) run(ctx context.Context, actions ...chromedp.Action) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done {
		return ErrClosed
	}

	// The tab context carries the browser; ctx only bounds this call.
	runCtx, cancel := context.WithCancel(c.tab)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// Navigate loads url and waits for the load event.
func (c *Controller) Navigate(ctx context.Context, url string) error {
	if err := c.run(ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate: %w", err)
	}
	return nil
}

// Exists reports whether selector matches anything right now.
func (c *Controller) Exists(ctx context.Context, selector string) (bool, error) {
	var nodes []*cdp.Node
	err := c.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)))
	if err != nil {
		return false, err
	}
	return len(nodes) > 0, nil
}

// Click clicks the first element matching selector.
func (c *Controller) Click(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Click(selector, chromedp.ByQuery))
}

// Clear empties an input.
func (c *Controller) Clear(ctx context.Context, selector string) error {
	return c.run(ctx, chromedp.Clear(selector, chromedp.ByQuery))
}

// SendKeys types text into an element.
func (c *Controller) SendKeys(ctx context.Context, selector, text string) error {
	return c.run(ctx, chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// Text returns the visible text of an element.
func (c *Controller) Text(ctx context.Context, selector string) (string, error) {
	var text string
	if err := c.run(ctx, chromedp.Text(selector, &text, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return text, nil
}

// Attribute returns an attribute value. Absent elements report false
// rather than waiting for the element to appear.
func (c *Controller) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	present, err := c.Exists(ctx, selector)
	if err != nil || !present {
		return "", false, err
	}

	var value string
	var ok bool
	if err := c.run(ctx, chromedp.AttributeValue(selector, name, &value, &ok, chromedp.ByQuery)); err != nil {
		return "", false, err
	}
	return value, ok, nil
}

// CookieNames lists cookies visible to the current page.
func (c *Controller) CookieNames(ctx context.Context) ([]string, error) {
	var cookies []*network.Cookie
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = network.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("read cookies: %w", err)
	}

	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	return names, nil
}

// ClearCookies removes every cookie in the browser.
func (c *Controller) ClearCookies(ctx context.Context) error {
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return storage.ClearCookies().Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("clear cookies: %w", err)
	}
	return nil
}

// GrantMediaPermissions grants camera and microphone to origin.
func (c *Controller) GrantMediaPermissions(ctx context.Context, origin string) error {
	err := c.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		b := chromedp.FromContext(ctx).Browser
		return browser.GrantPermissions([]browser.PermissionType{
			browser.PermissionTypeAudioCapture,
			browser.PermissionTypeVideoCapture,
		}).WithOrigin(origin).Do(cdp.WithExecutor(ctx, b))
	}))
	if err != nil {
		return fmt.Errorf("grant media permissions: %w", err)
	}
	return nil
}

// Detach stops automation and leaves the tab open. The tab stays until the
// factory is closed or this process exits.
func (c *Controller) Detach() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.done = true
	c.detached = true
	return nil
}

// Close closes the tab unless the controller was detached.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached || c.cancel == nil {
		c.done = true
		return nil
	}
	c.done = true
	cancel := c.cancel
	c.cancel = nil
	cancel()
	return nil
}
