package pdfio

import (
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/cv-builder/internal/types"
)

//go:embed cv.html
var cvTemplateSrc string

var cvTemplate = template.Must(template.New("cv").Parse(cvTemplateSrc))

// renderTimeout bounds a single Chrome print run.
const renderTimeout = 60 * time.Second

// Renderer turns a CV document into PDF bytes.
type Renderer interface {
	RenderPDF(ctx context.Context, doc types.CvDocument) ([]byte, error)
}

// RenderHTML renders the document through the embedded CV template. All
// field values are HTML-escaped by the template engine.
func RenderHTML(doc types.CvDocument) (string, error) {
	var sb strings.Builder
	if err := cvTemplate.Execute(&sb, doc); err != nil {
		return "", fmt.Errorf("failed to render CV template: %w", err)
	}
	return sb.String(), nil
}

// ChromeRenderer prints the rendered HTML to PDF with headless Chrome.
type ChromeRenderer struct {
	execPath string
}

// NewChromeRenderer creates a renderer. execPath overrides the Chrome
// binary location; empty means chromedp's default lookup.
func NewChromeRenderer(execPath string) *ChromeRenderer {
	return &ChromeRenderer{execPath: execPath}
}

// RenderPDF renders the document to A4 PDF bytes.
func (r *ChromeRenderer) RenderPDF(ctx context.Context, doc types.CvDocument) ([]byte, error) {
	html, err := RenderHTML(doc)
	if err != nil {
		return nil, err
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if r.execPath != "" {
		opts = append(opts, chromedp.ExecPath(r.execPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	runCtx, cancelRun := context.WithTimeout(browserCtx, renderTimeout)
	defer cancelRun()

	// Chrome needs a file URL; data URLs break relative resource handling.
	tmpDir, err := os.MkdirTemp("", "cv-render-")
	if err != nil {
		return nil, fmt.Errorf("failed to create render dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	htmlPath := filepath.Join(tmpDir, "cv.html")
	if err := os.WriteFile(htmlPath, []byte(html), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write render input: %w", err)
	}

	var pdfBuf []byte
	err = chromedp.Run(runCtx,
		chromedp.Navigate("file://"+htmlPath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var printErr error
			// A4: 210mm x 297mm in inches.
			pdfBuf, _, printErr = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return printErr
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print PDF: %w", err)
	}
	return pdfBuf, nil
}
