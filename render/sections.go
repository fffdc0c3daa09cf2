// Package render converts generated Markdown into the campaign's output
// formats: preview HTML, print HTML for PDFs and MDX page markup.
//
// The converters are deliberately shallow. They know the handful of block and
// inline structures the generators produce and never fail: malformed input at
// worst ends up as a misplaced paragraph. A "## " line inside a fenced code
// block or quote still counts as a section boundary.
package render

import (
	"regexp"
	"strings"
)

var h2SplitRe = regexp.MustCompile(`(?m)^## `)

// Section is one level-2 heading and the text under it.
type Section struct {
	Heading string
	Body    string
}

// Document is Markdown split at level-2 headings.
type Document struct {
	Intro    string
	Sections []Section
}

// Split divides md into the intro (text before the first "## " line) and one
// section per level-2 heading. Sections without heading and body are dropped.
func Split(md string) Document {
	md = normalizeNewlines(md)
	parts := h2SplitRe.Split(md, -1)

	doc := Document{Intro: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		heading, body, _ := strings.Cut(part, "\n")
		s := Section{Heading: strings.TrimSpace(heading), Body: strings.TrimSpace(body)}
		if s.Heading == "" && s.Body == "" {
			continue
		}
		doc.Sections = append(doc.Sections, s)
	}
	return doc
}

// Header is a document's H1 title, its optional italic subtitle and the rest.
type Header struct {
	Title    string
	Subtitle string
	Rest     string
}

// SplitHeader extracts the first "# " heading and, when the next non-empty line
// is wrapped in asterisks, that line as subtitle. Without a title the whole
// input is returned as Rest.
func SplitHeader(md string) Header {
	lines := strings.Split(normalizeNewlines(md), "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "# ") {
			continue
		}
		h := Header{Title: strings.TrimSpace(strings.TrimPrefix(trimmed, "# "))}
		start := i + 1
		for j := i + 1; j < len(lines); j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" {
				continue
			}
			if len(next) > 2 && strings.HasPrefix(next, "*") && strings.HasSuffix(next, "*") {
				h.Subtitle = strings.Trim(next, "*")
				start = j + 1
			}
			break
		}
		h.Rest = strings.TrimSpace(strings.Join(lines[start:], "\n"))
		return h
	}
	return Header{Rest: strings.TrimSpace(md)}
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
