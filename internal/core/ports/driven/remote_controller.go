package driven

import "context"

// RemoteController drives one browser-rendered meeting surface.
// A controller is owned by exactly one join attempt and must not be shared.
//
// Element methods address elements by CSS selector. They act on the
// surface as it is at the time of the call and never wait; waiting is
// the caller's concern.
type RemoteController interface {
	// Navigate loads url and waits for the document to be ready.
	Navigate(ctx context.Context, url string) error

	// Exists reports whether an element matching selector is present.
	Exists(ctx context.Context, selector string) (bool, error)

	// Click clicks the first element matching selector.
	Click(ctx context.Context, selector string) error

	// Clear empties an input element.
	Clear(ctx context.Context, selector string) error

	// SendKeys types text into an element.
	SendKeys(ctx context.Context, selector, text string) error

	// Text returns the visible text of an element.
	Text(ctx context.Context, selector string) (string, error)

	// Attribute returns an attribute of an element. The boolean is false
	// when the element or the attribute is absent.
	Attribute(ctx context.Context, selector, name string) (string, bool, error)

	// CookieNames returns the names of the cookies set for the current page.
	CookieNames(ctx context.Context) ([]string, error)

	// ClearCookies removes all cookies.
	ClearCookies(ctx context.Context) error

	// GrantMediaPermissions pre-authorises camera and microphone for origin.
	GrantMediaPermissions(ctx context.Context, origin string) error

	// Detach ends automation but leaves the surface open for the user,
	// so a joined meeting keeps running after the attempt ends.
	Detach() error

	// Close releases the controller. The surface is torn down unless
	// Detach was called first. It is safe to call more than once.
	Close() error
}

// RemoteControllerFactory creates controllers lazily, one per attempt.
type RemoteControllerFactory interface {
	NewController(ctx context.Context) (RemoteController, error)
}
