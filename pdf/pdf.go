// Package pdf prints HTML documents to PDF through headless Chrome.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ErrEmptyHTML is returned when there is nothing to print.
var ErrEmptyHTML = errors.New("pdf: empty html document")

// A4 in inches, margins 2.5cm top/bottom and 2cm left/right.
const (
	a4Width      = 8.27
	a4Height     = 11.69
	marginTopBot = 0.98
	marginSides  = 0.79
)

const footerTemplate = `<div style="font-size:9px;color:#a0aec0;width:100%;text-align:center;"><span class="pageNumber"></span> / <span class="totalPages"></span></div>`

// Renderer turns a complete HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// RodRenderer prints with Chrome via the DevTools protocol. When ControlURL is
// set an already running browser is used; otherwise one is launched per call,
// from Bin when given.
type RodRenderer struct {
	ControlURL string
	Bin        string
}

func (r *RodRenderer) Render(ctx context.Context, html string) ([]byte, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyHTML
	}

	controlURL := r.ControlURL
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if r.Bin != "" {
			l = l.Bin(r.Bin)
		}
		url, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("pdf: launch chrome: %w", err)
		}
		defer l.Cleanup()
		defer l.Kill()
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("pdf: connect to chrome: %w", err)
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("pdf: open page: %w", err)
	}
	defer func() { _ = page.Close() }()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("pdf: set content: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("pdf: wait load: %w", err)
	}

	stream, err := page.PDF(PrintOptions())
	if err != nil {
		return nil, fmt.Errorf("pdf: print: %w", err)
	}
	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("pdf: read stream: %w", err)
	}
	return data, nil
}

// PrintOptions is the A4 page setup with backgrounds and a page-number footer.
func PrintOptions() *proto.PagePrintToPDF {
	return &proto.PagePrintToPDF{
		PrintBackground:     true,
		PaperWidth:          f64(a4Width),
		PaperHeight:         f64(a4Height),
		MarginTop:           f64(marginTopBot),
		MarginBottom:        f64(marginTopBot),
		MarginLeft:          f64(marginSides),
		MarginRight:         f64(marginSides),
		DisplayHeaderFooter: true,
		HeaderTemplate:      "<span></span>",
		FooterTemplate:      footerTemplate,
	}
}

func f64(v float64) *float64 { return &v }
