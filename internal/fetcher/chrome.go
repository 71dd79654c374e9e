package fetcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

const defaultNavTimeout = 60 * time.Second

// ChromeLauncher launches headless Chrome via chromedp.
type ChromeLauncher struct {
	ExecPath    string // optional explicit Chrome binary
	UserDataDir string // optional persistent profile dir
}

// NewChromeLauncher creates a launcher. Both paths may be empty, in which
// case chromedp resolves the binary and uses a throwaway profile.
func NewChromeLauncher(execPath, userDataDir string) *ChromeLauncher {
	return &ChromeLauncher{ExecPath: execPath, UserDataDir: userDataDir}
}

func (l *ChromeLauncher) Name() string { return "chrome" }

// Launch starts the browser process. Failures surface here rather than on
// the first fetch so the orchestrator can report them as fatal for every
// browser-based source.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.NoFirstRun,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-gpu", true),
	)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}
	if l.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(l.UserDataDir))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	return &chromeSession{
		ctx: browserCtx,
		cancel: func() {
			browserCancel()
			allocCancel()
		},
	}, nil
}

type chromeSession struct {
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *chromeSession) FetchText(ctx context.Context, url string, opts Options) (string, error) {
	var text string
	err := s.fetch(ctx, url, opts, chromedp.Text("body", &text, chromedp.ByQuery))
	return text, err
}

func (s *chromeSession) FetchHTML(ctx context.Context, url string, opts Options) (string, error) {
	var html string
	err := s.fetch(ctx, url, opts, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

func (s *chromeSession) fetch(ctx context.Context, url string, opts Options, extract chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultNavTimeout
	}

	// Each fetch gets its own tab; the session keeps one browser process.
	tabCtx, cancelTab := chromedp.NewContext(s.ctx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	actions := []chromedp.Action{network.Enable()}
	if opts.UserAgent != "" {
		actions = append(actions, emulation.SetUserAgentOverride(opts.UserAgent))
	}
	if len(opts.BlockedURLPatterns) > 0 {
		actions = append(actions, network.SetBlockedURLS(opts.BlockedURLPatterns))
	}
	actions = append(actions, chromedp.Navigate(url))
	if opts.WaitDelay > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDelay))
	}
	actions = append(actions, extract)

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %s after %s", ErrTimeout, url, timeout)
		}
		return fmt.Errorf("%w: %s: %v", ErrNavigation, url, err)
	}
	return nil
}

func (s *chromeSession) Close() error {
	s.cancel()
	return nil
}
