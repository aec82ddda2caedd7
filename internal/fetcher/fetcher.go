package fetcher

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/hfabian-G/ElementToCsvTool/internal/browser"
)

// WaitStrategy decides when a navigated page counts as ready.
type WaitStrategy string

const (
	WaitStrategyLoad    WaitStrategy = "load"    // wait for the load event
	WaitStrategyElement WaitStrategy = "element" // wait for a selector to appear
	WaitStrategyTime    WaitStrategy = "time"    // wait a fixed number of milliseconds
)

// FetchResult is the rendered snapshot of a page. It holds plain strings
// only, so the browser can be closed before the snapshot is consumed.
type FetchResult struct {
	HTML     string
	Title    string
	URL      string
	LoadTime time.Duration
}

// Fetcher navigates pages and snapshots their rendered document.
type Fetcher struct {
	browser *browser.Browser
}

func NewFetcher(b *browser.Browser) *Fetcher {
	return &Fetcher{browser: b}
}

// Fetch navigates to the URL, applies the wait strategy, and returns the
// rendered outer HTML plus page metadata.
func (f *Fetcher) Fetch(url string, waitStrategy WaitStrategy, waitTarget string, timeout time.Duration) (*FetchResult, error) {
	startTime := time.Now()

	page, err := f.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	if err := page.Timeout(timeout).Navigate(url); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}

	if err := applyWaitStrategy(page, waitStrategy, waitTarget); err != nil {
		return nil, fmt.Errorf("wait strategy failed: %w", err)
	}

	// With the default "load" strategy, additionally wait for network idle
	// so JS-driven pages finish populating dynamic content before the
	// snapshot is taken.
	if waitStrategy == WaitStrategyLoad {
		wait := page.Timeout(timeout).WaitRequestIdle(
			500*time.Millisecond, nil, nil,
			[]proto.NetworkResourceType{proto.NetworkResourceTypeImage, proto.NetworkResourceTypeMedia},
		)
		wait()
	}

	html, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("failed to get page HTML: %w", err)
	}

	info, err := page.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to get page info: %w", err)
	}

	return &FetchResult{
		HTML:     html,
		Title:    info.Title,
		URL:      info.URL,
		LoadTime: time.Since(startTime),
	}, nil
}

func applyWaitStrategy(page *rod.Page, strategy WaitStrategy, target string) error {
	switch strategy {
	case WaitStrategyLoad:
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}

	case WaitStrategyElement:
		if target == "" {
			return fmt.Errorf("wait target is required for element strategy")
		}
		if _, err := page.Element(target); err != nil {
			return fmt.Errorf("failed to wait for element '%s': %w", target, err)
		}

	case WaitStrategyTime:
		if target == "" {
			return fmt.Errorf("wait target is required for time strategy")
		}
		duration, err := time.ParseDuration(target + "ms")
		if err != nil {
			return fmt.Errorf("invalid wait time '%s': %w", target, err)
		}
		time.Sleep(duration)

	default:
		if err := page.WaitLoad(); err != nil {
			return fmt.Errorf("failed to wait for page load: %w", err)
		}
	}

	return nil
}
