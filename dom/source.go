// Package dom reads profile pages: parsed snapshots of the markup plus a
// polling waiter for elements that render late.
package dom

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
)

// Source provides the current page address and its markup. The address can
// change between calls when the user navigates.
type Source interface {
	URL() string
	HTML(ctx context.Context) (string, error)
}

// StaticSource serves a fixed page. Tests swap the URL to simulate
// navigation.
type StaticSource struct {
	mu   sync.Mutex
	url  string
	html string
}

// NewStaticSource creates a StaticSource.
func NewStaticSource(url, html string) *StaticSource {
	return &StaticSource{url: url, html: html}
}

// URL returns the current address.
func (s *StaticSource) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.url
}

// HTML returns the current markup.
func (s *StaticSource) HTML(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.html, nil
}

// Set replaces the page, simulating a navigation.
func (s *StaticSource) Set(url, html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.url = url
	s.html = html
}

// LiveSource renders a page in a headless browser. Profile pages build
// most of their markup with scripts, so a plain GET is not enough.
type LiveSource struct {
	url     string
	timeout time.Duration
}

// NewLiveSource creates a LiveSource for the given address.
func NewLiveSource(url string, timeout time.Duration) *LiveSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &LiveSource{url: url, timeout: timeout}
}

// URL returns the address the source renders.
func (s *LiveSource) URL() string { return s.url }

// HTML renders the page and returns its markup.
func (s *LiveSource) HTML(ctx context.Context) (string, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, s.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(s.url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("page rendering failed: %w", err)
	}
	return html, nil
}
