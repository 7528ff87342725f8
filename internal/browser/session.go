package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/handiism/suno-exporter/internal/progress"
)

// Options configures how a Session reaches the page.
type Options struct {
	// URL is the library, profile or playlist page to open.
	URL string

	// RemoteURL is the DevTools websocket URL of an already running Chrome,
	// e.g. ws://127.0.0.1:9222/devtools/browser/<id>. When set, no browser
	// is started and the page opens in a new tab of that browser, reusing
	// its logged-in session.
	RemoteURL string

	// Headless runs a started browser without a window. Ignored with RemoteURL.
	Headless bool

	// UserAgent overrides the started browser's user agent.
	UserAgent string

	// Signal selects the progress signal.
	Signal Signal

	// LoadTimeout bounds navigation until the document body is ready.
	LoadTimeout time.Duration

	// OnProgress receives browser diagnostics. May be nil.
	OnProgress progress.Func
}

// DefaultOptions returns headless identifier-count options with a 60 second
// load timeout.
func DefaultOptions() Options {
	return Options{
		Headless:    true,
		Signal:      SignalIdentifiers,
		LoadTimeout: 60 * time.Second,
	}
}

// Session is an open browser tab showing a Suno page.
//
// Session implements scroll.Page. It is not safe for concurrent use.
type Session struct {
	ctx     context.Context
	cancels []context.CancelFunc
	signal  Signal
}

// Open starts or attaches to Chrome, navigates to opts.URL and waits for the
// document body.
//
// The session lives until Close is called or ctx is cancelled.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.URL == "" {
		return nil, errors.New("browser: page url is required")
	}
	if opts.Signal == "" {
		opts.Signal = SignalIdentifiers
	}

	s := &Session{signal: opts.Signal}

	var allocCtx context.Context
	var cancel context.CancelFunc
	if opts.RemoteURL != "" {
		allocCtx, cancel = chromedp.NewRemoteAllocator(ctx, opts.RemoteURL)
	} else {
		execOpts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
		)
		if opts.UserAgent != "" {
			execOpts = append(execOpts, chromedp.UserAgent(opts.UserAgent))
		}
		allocCtx, cancel = chromedp.NewExecAllocator(ctx, execOpts...)
	}
	s.cancels = append(s.cancels, cancel)

	// CDP unmarshal errors for protocol events chromedp does not know are noise.
	logf := func(format string, args ...any) {
		opts.OnProgress.Verbose(fmt.Sprintf("chromedp: "+format, args...))
	}
	tabCtx, cancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(logf), chromedp.WithErrorf(logf))
	s.cancels = append(s.cancels, cancel)
	s.ctx = tabCtx

	// Allocate the browser on the long-lived context so the load timeout
	// below cannot tear it down.
	if err := chromedp.Run(tabCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser: %w", err)
	}

	loadCtx := tabCtx
	if opts.LoadTimeout > 0 {
		var cancelLoad context.CancelFunc
		loadCtx, cancelLoad = context.WithTimeout(tabCtx, opts.LoadTimeout)
		defer cancelLoad()
	}
	if err := chromedp.Run(loadCtx,
		chromedp.Navigate(opts.URL),
		chromedp.WaitReady("body"),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("open %s: %w", opts.URL, err)
	}

	return s, nil
}

// run executes actions in the tab, stopping early when ctx is cancelled.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	if err := chromedp.Run(runCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

// ScrollToBottom moves the viewport to the bottom of the document.
func (s *Session) ScrollToBottom(ctx context.Context) error {
	return s.run(ctx, chromedp.Evaluate(scrollToBottomJS, nil))
}

// Progress returns the configured progress signal.
func (s *Session) Progress(ctx context.Context) (int, error) {
	var n int
	if err := s.run(ctx, chromedp.Evaluate(progressScript(s.signal), &n)); err != nil {
		return 0, err
	}
	return n, nil
}

// HTML returns the serialized document.
func (s *Session) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return html, nil
}

// Location returns the current page URL, which may differ from the opened
// one after redirects.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// Close closes the tab and, when the browser was started by Open, the browser.
func (s *Session) Close() {
	for i := len(s.cancels) - 1; i >= 0; i-- {
		s.cancels[i]()
	}
	s.cancels = nil
}
