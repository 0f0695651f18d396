package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// PreviewSelector is the element that gets captured
const PreviewSelector = "#resume-preview"

// ErrPreviewNotFound means the page has no element to capture
var ErrPreviewNotFound = errors.New("resume preview element not found")

// Rasterizer captures the preview element of an HTML page as a PNG
type Rasterizer interface {
	Rasterize(ctx context.Context, html []byte) ([]byte, error)
}

// ChromeRasterizer drives a headless Chrome through chromedp
type ChromeRasterizer struct {
	// ExecPath overrides the browser binary; empty means look it up
	ExecPath string
	Timeout  time.Duration

	// Scale is the device scale factor. 2 gives print quality output.
	Scale float64

	// ViewportWidth in CSS pixels. Letter width at 96 dpi by default.
	ViewportWidth int64
}

func NewChromeRasterizer(execPath string) *ChromeRasterizer {
	return &ChromeRasterizer{
		ExecPath:      execPath,
		Timeout:       60 * time.Second,
		Scale:         2,
		ViewportWidth: 816,
	}
}

func (c *ChromeRasterizer) Rasterize(ctx context.Context, html []byte) ([]byte, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancel := context.WithTimeout(browserCtx, c.Timeout)
	defer cancel()

	var found bool
	err := chromedp.Run(runCtx,
		chromedp.EmulateViewport(c.ViewportWidth, 1056, chromedp.EmulateScale(c.Scale)),
		emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{R: 255, G: 255, B: 255, A: 1}),
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(fmt.Sprintf("document.querySelector(%q) !== null", PreviewSelector), &found),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load preview: %w", err)
	}
	if !found {
		return nil, ErrPreviewNotFound
	}

	var png []byte
	if err := chromedp.Run(runCtx, chromedp.Screenshot(PreviewSelector, &png, chromedp.ByQuery)); err != nil {
		return nil, fmt.Errorf("failed to capture preview: %w", err)
	}

	return png, nil
}
