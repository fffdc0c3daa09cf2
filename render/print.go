package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// PrintInput describes one document laid out for A4 printing.
type PrintInput struct {
	Title    string
	Content  string
	Language string
	// CoverImage is an image file's bytes or an existing data URI.
	CoverImage []byte
	Date       time.Time
}

type printPage struct {
	Language    string
	Title       string
	Subtitle    string
	Date        string
	CoverImage  template.URL
	ContentHTML template.HTML
}

var dateLocales = language.NewMatcher([]language.Tag{language.AmericanEnglish, language.German})

// LongDate formats t as localized "Month Year" for the given language code.
func LongDate(t time.Time, lang string) string {
	var locale monday.Locale = monday.LocaleEnUS
	if tag, err := language.Parse(lang); err == nil {
		if _, idx, conf := dateLocales.Match(tag); idx == 1 && conf != language.No {
			locale = monday.LocaleDeDE
		}
	}
	return monday.Format(t, "January 2006", locale)
}

// DataURI encodes image bytes for inline use. Input that already is a data URI
// is returned unchanged.
func DataURI(data []byte) string {
	if bytes.HasPrefix(data, []byte("data:")) {
		return string(data)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// PrintHTML renders the whitepaper print layout: a cover page with optional
// image, title, subtitle and date, followed by the converted body.
func PrintHTML(in PrintInput) (string, error) {
	header := SplitHeader(in.Content)
	date := in.Date
	if date.IsZero() {
		date = time.Now()
	}
	lang := in.Language
	if lang == "" {
		lang = "en"
	}
	page := printPage{
		Language:    lang,
		Title:       in.Title,
		Subtitle:    header.Subtitle,
		Date:        LongDate(date, lang),
		ContentHTML: template.HTML(ToHTML(in.Content)),
	}
	if page.Title == "" {
		page.Title = header.Title
	}
	if len(in.CoverImage) > 0 {
		page.CoverImage = template.URL(DataURI(in.CoverImage))
	}

	var buf bytes.Buffer
	if err := printTmpl.Execute(&buf, page); err != nil {
		return "", fmt.Errorf("render: print: %w", err)
	}
	return buf.String(), nil
}

var printTmpl = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html lang="{{.Language}}">
<head>
  <meta charset="UTF-8">
  <style>
    @page { size: A4; margin: 2.5cm 2cm; }
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; font-size: 11pt; line-height: 1.7; color: #2d3748; }
    .cover { page-break-after: always; display: flex; flex-direction: column; justify-content: center; align-items: center; min-height: 85vh; text-align: center; }
    .cover-image { width: 100%; max-height: 300px; object-fit: cover; border-radius: 12px; margin-bottom: 3rem; }
    .cover h1 { font-size: 28pt; font-weight: 700; color: #1a202c; margin-bottom: 1rem; line-height: 1.2; }
    .cover .subtitle { font-size: 14pt; color: #667eea; margin-bottom: 2rem; }
    .cover .meta { font-size: 10pt; color: #a0aec0; }
    h1 { font-size: 22pt; color: #1a202c; margin: 2rem 0 1rem; page-break-after: avoid; }
    h2 { font-size: 16pt; color: #2d3748; margin: 1.8rem 0 0.8rem; border-bottom: 2px solid #667eea; padding-bottom: 0.3rem; page-break-after: avoid; }
    h3 { font-size: 13pt; color: #4a5568; margin: 1.2rem 0 0.5rem; page-break-after: avoid; }
    p { margin-bottom: 0.8rem; text-align: justify; }
    ul, ol { margin: 0.5rem 0 1rem 1.5rem; }
    li { margin-bottom: 0.3rem; }
    blockquote { border-left: 3px solid #667eea; padding: 0.8rem 1.2rem; margin: 1rem 0; background: #f7fafc; font-style: italic; color: #4a5568; }
    table { width: 100%; border-collapse: collapse; margin: 1rem 0; font-size: 10pt; }
    th { background: #667eea; color: white; padding: 0.6rem 0.8rem; text-align: left; font-weight: 600; }
    td { padding: 0.5rem 0.8rem; border-bottom: 1px solid #e2e8f0; }
    tr:nth-child(even) td { background: #f7fafc; }
    code { background: #edf2f7; padding: 0.15rem 0.4rem; border-radius: 3px; font-size: 9.5pt; font-family: 'SF Mono', Monaco, monospace; }
    pre { background: #2d3748; color: #e2e8f0; padding: 1rem; border-radius: 6px; margin: 1rem 0; font-size: 9pt; }
    pre code { background: none; padding: 0; color: inherit; }
    hr { border: none; border-top: 1px solid #e2e8f0; margin: 2rem 0; }
  </style>
</head>
<body>
  <div class="cover">
    {{if .CoverImage}}<img class="cover-image" src="{{.CoverImage}}" alt="Cover">{{end}}
    <h1>{{.Title}}</h1>
    <div class="subtitle">{{.Subtitle}}</div>
    <div class="meta">{{.Date}}</div>
  </div>
  <div class="content">
    {{.ContentHTML}}
  </div>
</body>
</html>
`))
