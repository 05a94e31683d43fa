// Package export renders a generated transcript document to PDF or PNG
// with headless Chrome.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Exporter drives a headless Chrome instance over a transcript file.
type Exporter struct {
	timeout time.Duration
	logger  *slog.Logger
}

type Config struct {
	Timeout time.Duration // per export run; default 60s
	Logger  *slog.Logger
}

func New(cfg Config) *Exporter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Exporter{timeout: cfg.Timeout, logger: cfg.Logger}
}

// PDF prints the transcript at htmlPath to a PDF file.
func (e *Exporter) PDF(ctx context.Context, htmlPath, outPath string) error {
	var data []byte
	err := e.run(ctx, htmlPath, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		data, _, err = page.PrintToPDF().WithPrintBackground(true).Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("print transcript to pdf: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	e.logger.Info("exported pdf", "in", htmlPath, "out", outPath, "bytes", len(data))
	return nil
}

// Screenshot captures the full transcript page as a PNG file.
func (e *Exporter) Screenshot(ctx context.Context, htmlPath, outPath string) error {
	var data []byte
	err := e.run(ctx, htmlPath, chromedp.FullScreenshot(&data, 90))
	if err != nil {
		return fmt.Errorf("screenshot transcript: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write screenshot: %w", err)
	}
	e.logger.Info("exported screenshot", "in", htmlPath, "out", outPath, "bytes", len(data))
	return nil
}

// run navigates a fresh headless browser to the local file and executes
// the capture action once the page settled.
func (e *Exporter) run(ctx context.Context, htmlPath string, capture chromedp.Action) error {
	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return fmt.Errorf("resolve path %s: %w", htmlPath, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return fmt.Errorf("transcript file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.Flag("allow-file-access-from-files", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	defer allocCancel()
	taskCtx, taskCancel := chromedp.NewContext(allocCtx)
	defer taskCancel()

	return chromedp.Run(taskCtx,
		chromedp.Navigate("file://"+abs),
		// Give the component runtime a moment in deferred-mode documents.
		chromedp.Sleep(time.Second),
		capture,
	)
}
