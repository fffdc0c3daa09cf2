package render

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	fenceMark  = "\x00FENCE"
	inlineMark = "\x01CODE"
)

var (
	fenceRe      = regexp.MustCompile("(?s)```[\\w+-]*[ \\t]*\\n(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")
	placeholder  = regexp.MustCompile(`(\x00FENCE|\x01CODE)(\d+)\x00`)
	tableRe      = regexp.MustCompile(`(?m)^\|(.+)\|[ \t]*\n\|[-| :]+\|[ \t]*\n((?:\|.*\|[ \t]*(?:\n|$))*)`)
	h3Re         = regexp.MustCompile(`(?m)^### (.+)$`)
	h2Re         = regexp.MustCompile(`(?m)^## (.+)$`)
	h1Re         = regexp.MustCompile(`(?m)^# (.+)$`)
	hrRe         = regexp.MustCompile(`(?m)^[ \t]*(?:-{3,}|\*{3,}|_{3,})[ \t]*$`)
	bulletRe     = regexp.MustCompile(`(?m)^([ \t]*)[*+] `)
	taskOpenRe   = regexp.MustCompile(`(?m)^[ \t]*- \[ \] `)
	taskDoneRe   = regexp.MustCompile(`(?m)^[ \t]*- \[[xX]\] `)
	boldItalicRe = regexp.MustCompile(`\*\*\*([^\n]+?)\*\*\*`)
	boldRe       = regexp.MustCompile(`\*\*([^\n]+?)\*\*`)
	italicRe     = regexp.MustCompile(`\*([^*\s][^*\n]*?)\*`)
	quoteRe      = regexp.MustCompile(`(?m)^>[ \t]?(.+)$`)
	quoteMergeRe = regexp.MustCompile(`</blockquote>\n*<blockquote>`)
	orderedRe    = regexp.MustCompile(`^\d+[.)] (.+)$`)
	blockTagRe   = regexp.MustCompile(`^<(?:h[1-6]|ul|ol|li|table|thead|tbody|tr|th|td|pre|blockquote|hr|div|img|p)\b`)

	codeEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// ToHTML converts generated Markdown into an HTML fragment. Rules run in a
// fixed order: fenced code, tables, headings, rules, emphasis, inline code,
// quotes, lists, then paragraph wrapping.
func ToHTML(md string) string {
	s := normalizeNewlines(md)

	var fences []string
	s = fenceRe.ReplaceAllStringFunc(s, func(m string) string {
		code := fenceRe.FindStringSubmatch(m)[1]
		fences = append(fences, "<pre><code>"+codeEscaper.Replace(strings.TrimRight(code, " \t\n"))+"</code></pre>")
		return "\n" + fenceMark + strconv.Itoa(len(fences)-1) + "\x00\n"
	})

	var spans []string
	s = inlineCodeRe.ReplaceAllStringFunc(s, func(m string) string {
		spans = append(spans, "<code>"+codeEscaper.Replace(m[1:len(m)-1])+"</code>")
		return inlineMark + strconv.Itoa(len(spans)-1) + "\x00"
	})

	s = tableRe.ReplaceAllStringFunc(s, renderTable)

	s = h3Re.ReplaceAllString(s, "<h3>$1</h3>")
	s = h2Re.ReplaceAllString(s, "<h2>$1</h2>")
	s = h1Re.ReplaceAllString(s, "<h1>$1</h1>")
	s = hrRe.ReplaceAllString(s, "<hr>")

	s = bulletRe.ReplaceAllString(s, "$1- ")
	s = taskOpenRe.ReplaceAllString(s, "☐ ")
	s = taskDoneRe.ReplaceAllString(s, "☑ ")

	s = boldItalicRe.ReplaceAllString(s, "<strong><em>$1</em></strong>")
	s = boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	s = italicRe.ReplaceAllString(s, "<em>$1</em>")

	s = restore(s, inlineMark, spans)

	s = quoteRe.ReplaceAllString(s, "<blockquote>$1</blockquote>")
	s = renderLists(s)
	s = wrapParagraphs(s)
	s = quoteMergeRe.ReplaceAllString(s, "<br>")

	s = restore(s, fenceMark, fences)
	return strings.TrimSpace(s)
}

func restore(s, mark string, values []string) string {
	if len(values) == 0 {
		return s
	}
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		sub := placeholder.FindStringSubmatch(m)
		if sub[1] != mark {
			return m
		}
		i, err := strconv.Atoi(sub[2])
		if err != nil || i >= len(values) {
			return m
		}
		return values[i]
	})
}

func renderTable(block string) string {
	m := tableRe.FindStringSubmatch(block)
	if m == nil {
		return block
	}
	var b strings.Builder
	b.WriteString("<table><thead><tr>")
	for _, h := range cells(m[1]) {
		fmt.Fprintf(&b, "<th>%s</th>", h)
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range strings.Split(strings.TrimSpace(m[2]), "\n") {
		row = strings.TrimSpace(row)
		if row == "" {
			continue
		}
		b.WriteString("<tr>")
		for _, c := range cells(strings.Trim(row, "|")) {
			fmt.Fprintf(&b, "<td>%s</td>", c)
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
	if strings.HasSuffix(block, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}

func cells(row string) []string {
	var out []string
	for _, c := range strings.Split(row, "|") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

func listItem(line string) (kind, item string) {
	trimmed := strings.TrimLeft(line, " \t")
	switch {
	case strings.HasPrefix(trimmed, "- "):
		return "ul", strings.TrimSpace(trimmed[2:])
	case strings.HasPrefix(trimmed, "☐ "), strings.HasPrefix(trimmed, "☑ "):
		return "ul", strings.TrimSpace(trimmed)
	}
	if m := orderedRe.FindStringSubmatch(trimmed); m != nil {
		return "ol", strings.TrimSpace(m[1])
	}
	return "", ""
}

// renderLists turns runs of list lines into <ul> or <ol> blocks.
func renderLists(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	open := ""
	closeList := func() {
		if open != "" {
			out = append(out, "</"+open+">")
			open = ""
		}
	}
	for _, line := range lines {
		kind, item := listItem(line)
		if kind == "" {
			closeList()
			out = append(out, line)
			continue
		}
		if kind != open {
			closeList()
			out = append(out, "<"+kind+">")
			open = kind
		}
		out = append(out, "<li>"+item+"</li>")
	}
	closeList()
	return strings.Join(out, "\n")
}

func wrapParagraphs(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			lines[i] = ""
		case strings.HasPrefix(trimmed, "</"), blockTagRe.MatchString(trimmed), strings.HasPrefix(trimmed, fenceMark):
			lines[i] = trimmed
		default:
			lines[i] = "<p>" + trimmed + "</p>"
		}
	}
	return strings.Join(lines, "\n")
}
