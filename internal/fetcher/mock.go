package fetcher

import (
	"context"
	"fmt"
)

// MockLauncher returns canned pages for development and testing.
type MockLauncher struct {
	Pages     map[string]string // url -> rendered body
	LaunchErr error
	Launched  int
	Session   *MockSession // the last session handed out
}

func (m *MockLauncher) Name() string { return "mock" }

func (m *MockLauncher) Launch(_ context.Context) (Session, error) {
	if m.LaunchErr != nil {
		return nil, m.LaunchErr
	}
	m.Launched++
	m.Session = &MockSession{Pages: m.Pages}
	return m.Session, nil
}

// MockSession serves pages from a map; text and HTML fetches share the
// same body but are counted separately.
type MockSession struct {
	Pages       map[string]string
	FetchErr    error
	Fetched     []string
	TextFetches int
	HTMLFetches int
	Closed      bool
}

func (m *MockSession) FetchText(_ context.Context, url string, _ Options) (string, error) {
	m.TextFetches++
	return m.page(url)
}

func (m *MockSession) FetchHTML(_ context.Context, url string, _ Options) (string, error) {
	m.HTMLFetches++
	return m.page(url)
}

func (m *MockSession) page(url string) (string, error) {
	m.Fetched = append(m.Fetched, url)
	if m.FetchErr != nil {
		return "", m.FetchErr
	}
	body, ok := m.Pages[url]
	if !ok {
		return "", fmt.Errorf("%w: no mock page for %s", ErrNavigation, url)
	}
	return body, nil
}

func (m *MockSession) Close() error {
	m.Closed = true
	return nil
}
