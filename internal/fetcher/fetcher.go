package fetcher

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors classifying transport failures. Extractors treat both as
// ordinary errors; the distinction only feeds logs and report details.
var (
	ErrTimeout    = errors.New("fetcher: navigation timeout")
	ErrNavigation = errors.New("fetcher: navigation failed")
)

// DefaultBlockedPatterns skips heavyweight subresources the extractors
// never read.
var DefaultBlockedPatterns = []string{
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.svg",
	"*.woff", "*.woff2", "*.ttf", "*.css",
}

// Options control a single page fetch.
type Options struct {
	UserAgent          string
	Timeout            time.Duration // bounded wait; ErrTimeout past this budget
	WaitDelay          time.Duration // settle time after load for dynamic content
	BlockedURLPatterns []string
}

// Session is one live browser session able to render pages. The stock and
// gold extractors share a single session per fetch cycle.
type Session interface {
	FetchText(ctx context.Context, url string, opts Options) (string, error)
	FetchHTML(ctx context.Context, url string, opts Options) (string, error)
	Close() error
}

// Launcher starts browser sessions.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
	Name() string
}
