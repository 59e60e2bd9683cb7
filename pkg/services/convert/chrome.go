package convert

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 in inches.
const (
	paperWidth  = 8.27
	paperHeight = 11.69
)

// Chrome prints HTML structural documents to PDF with headless Chrome.
type Chrome struct {
	enabled  bool
	execPath string
	// detect finds a browser when no path is configured.
	detect func() string
}

func NewChrome(execPath string, enabled bool) *Chrome {
	return &Chrome{enabled: enabled, execPath: execPath, detect: DetectChromePath}
}

func (c *Chrome) Name() string { return "chrome" }

// Executable returns the browser binary to drive, or ErrUnavailable.
func (c *Chrome) Executable() (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("%w: chrome disabled", ErrUnavailable)
	}
	if c.execPath != "" {
		if _, err := os.Stat(c.execPath); err != nil {
			return "", fmt.Errorf("%w: %s not found", ErrUnavailable, c.execPath)
		}
		return c.execPath, nil
	}
	if path := c.detect(); path != "" {
		return path, nil
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium installation found", ErrUnavailable)
}

func (c *Chrome) Convert(ctx context.Context, in, out string) error {
	switch strings.ToLower(filepath.Ext(in)) {
	case ".html", ".htm":
	default:
		return fmt.Errorf("%w: chrome only prints HTML documents", ErrUnavailable)
	}
	exe, err := c.Executable()
	if err != nil {
		return err
	}

	abs, err := filepath.Abs(in)
	if err != nil {
		return err
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(exe),
		chromedp.NoSandbox, // required in containers
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				WithPaperWidth(paperWidth).
				WithPaperHeight(paperHeight).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return &ConversionFailedError{Converter: c.Name(), Err: err}
	}

	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// DetectChromePath checks CHROME_PATH first, then common install locations
// and PATH.
func DetectChromePath() string {
	if chromePath := os.Getenv("CHROME_PATH"); chromePath != "" {
		if _, err := os.Stat(chromePath); err == nil {
			return chromePath
		}
	}

	paths := []string{
		"/usr/bin/chromium",
		"/usr/bin/chromium-browser",
		"/usr/bin/google-chrome",
		"/usr/bin/google-chrome-stable",
		"/snap/bin/chromium",
		"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	for _, name := range []string{"chromium", "chromium-browser", "google-chrome", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
