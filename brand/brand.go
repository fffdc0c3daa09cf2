// Package brand loads the optional brand guideline files that are appended to
// text and image prompts.
package brand

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const separator = "\n\n---\n\n"

var (
	textRelevant  = []string{"identity", "tone-of-voice", "guidelines"}
	imageRelevant = []string{"visual-identity", "image-guidelines", "identity"}
)

// Config is the loaded brand material.
type Config struct {
	// Files maps the file name without .md to its trimmed content.
	Files        map[string]string
	TextContext  string
	ImageContext string
	Loaded       bool
}

// Load reads every non-empty .md file in dir. A missing directory is not an
// error; the returned Config is simply not loaded.
func Load(dir string) (Config, error) {
	cfg := Config{Files: map[string]string{}}

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("brand: read dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return cfg, fmt.Errorf("brand: read %s: %w", name, err)
		}
		content := strings.TrimSpace(string(data))
		if IsEmptyTemplate(content) {
			continue
		}
		cfg.Files[strings.TrimSuffix(name, ".md")] = content
	}

	cfg.Loaded = len(cfg.Files) > 0
	if cfg.Loaded {
		cfg.TextContext = buildContext(cfg.Files, textRelevant)
		cfg.ImageContext = buildContext(cfg.Files, imageRelevant)
	}
	return cfg, nil
}

// buildContext puts the relevant files first in the given order, then every
// other file by name.
func buildContext(files map[string]string, relevant []string) string {
	sections := make([]string, 0, len(files))
	for _, key := range relevant {
		if c, ok := files[key]; ok {
			sections = append(sections, c)
		}
	}
	rest := make([]string, 0, len(files))
	for key := range files {
		if !contains(relevant, key) {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	for _, key := range rest {
		sections = append(sections, files[key])
	}
	return strings.Join(sections, separator)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var (
	md = goldmark.New(goldmark.WithExtensions(extension.Table))

	labelValueRe  = regexp.MustCompile(`^\*\*[^*]+\*\*:\s*.*$`)
	keyValueRe    = regexp.MustCompile(`^[A-Za-zÄÖÜäöüß]+:\s*#?\w*\s*$`)
	exampleHintRe = regexp.MustCompile(`\(z\.?B\.?\s*[^)]*\)`)
)

// IsEmptyTemplate reports whether content is an unfilled template: nothing but
// headings, HTML comments, tables, placeholder "- **Label**: value" or
// "- Key: #value" bullets and example hints.
func IsEmptyTemplate(content string) bool {
	src := []byte(content)
	doc := md.Parser().Parse(text.NewReader(src))

	var sb strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Heading, *east.Table:
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			if node.HTMLBlockType != ast.HTMLBlockType2 {
				sb.WriteString(blockLines(node, src))
			}
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			raw := segmentsText(node.Segments, src)
			if !strings.HasPrefix(raw, "<!--") {
				sb.WriteString(raw)
			}
			return ast.WalkSkipChildren, nil
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			sb.WriteString(blockLines(node, src))
			return ast.WalkSkipChildren, nil
		case *ast.ListItem:
			if isPlaceholderItem(node, src) {
				return ast.WalkSkipChildren, nil
			}
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.URL(src))
		}
		return ast.WalkContinue, nil
	})

	rest := exampleHintRe.ReplaceAllString(sb.String(), "")
	rest = strings.ReplaceAll(rest, "ja/nein", "")
	return strings.IndexFunc(rest, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}

func isPlaceholderItem(item *ast.ListItem, src []byte) bool {
	first := item.FirstChild()
	if first == nil {
		return true
	}
	if first.NextSibling() != nil {
		return false
	}
	switch first.(type) {
	case *ast.TextBlock, *ast.Paragraph:
	default:
		return false
	}
	line := strings.TrimSpace(blockLines(first, src))
	return labelValueRe.MatchString(line) || keyValueRe.MatchString(line)
}

func blockLines(n ast.Node, src []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}

func segmentsText(segs *text.Segments, src []byte) string {
	var sb strings.Builder
	for i := 0; i < segs.Len(); i++ {
		seg := segs.At(i)
		sb.Write(seg.Value(src))
	}
	return sb.String()
}
