package render

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"campaign_content_creator/campaign"
)

const (
	descriptionMinLen = 20
	descriptionMaxLen = 157

	componentPkg = "@seibert/astro-ui/components/"
)

var (
	wrapFenceRe    = regexp.MustCompile("(?s)^```(?:markdown|mdx|md)?[ \\t]*\\n(.*)\\n```$")
	sanitizeRuleRe = regexp.MustCompile(`(?m)^[ \t]*[-*_]{3,}[ \t]*$`)
	metaLineRe     = regexp.MustCompile(`(?im)^\*{0,2}Meta[- ]?(?:Beschreibung|Description)\*{0,2}:.*$`)
	keywordsLineRe = regexp.MustCompile(`(?im)^\*{0,2}Keywords?\*{0,2}:.*$`)
	blankRunRe     = regexp.MustCompile(`\n{3,}`)
	orderedLineRe  = regexp.MustCompile(`^\d+[.)] `)
)

// Page is an asset converted to an MDX page of the content site.
type Page struct {
	Slug        string
	Description string
	Source      string
}

type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	UID         string `yaml:"uid"`
	LandingPage bool   `yaml:"landingPage,omitempty"`
	Draft       bool   `yaml:"draft"`
}

// Sanitize strips what breaks MDX inside JSX components: a fence wrapping the
// whole draft, horizontal rules and meta description or keyword lines. A
// leading code block is left alone; only a fence pair around everything is
// unwrapped.
func Sanitize(content string) string {
	s := strings.TrimSpace(normalizeNewlines(content))
	if m := wrapFenceRe.FindStringSubmatch(s); m != nil && !strings.Contains(m[1], "\n```") {
		s = m[1]
	}
	s = sanitizeRuleRe.ReplaceAllString(s, "")
	s = metaLineRe.ReplaceAllString(s, "")
	s = keywordsLineRe.ReplaceAllString(s, "")
	s = blankRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Describe picks the first substantive line of the body as page description,
// falling back to the title, and truncates it to fit a meta description.
func Describe(header Header, fallback string) string {
	desc := fallback
	for _, line := range strings.Split(header.Rest, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) <= descriptionMinLen || isStructural(line) {
			continue
		}
		desc = line
		break
	}
	if r := []rune(desc); len(r) > descriptionMaxLen {
		desc = string(r[:descriptionMaxLen]) + "..."
	}
	return desc
}

func isStructural(line string) bool {
	for _, p := range []string{"#", "- ", "* ", "+ ", ">", "<", "|"} {
		if strings.HasPrefix(line, p) {
			return true
		}
	}
	return orderedLineRe.MatchString(line)
}

// PageMarkup converts a generated asset into an MDX page: YAML frontmatter
// marked as draft, component imports, a page header and one text block per
// level-2 section. Landing pages alternate white and gray section backgrounds.
func PageMarkup(asset campaign.GeneratedAsset) (Page, error) {
	landing := asset.Type == campaign.LandingPage
	slug := Slugify(asset.Title)
	if slug == "" {
		slug = Slugify(asset.ID)
	}
	header := SplitHeader(Sanitize(asset.Content))
	desc := Describe(header, asset.Title)

	fm, err := yaml.Marshal(frontmatter{
		Title:       asset.Title,
		Description: desc,
		UID:         slug,
		LandingPage: landing,
		Draft:       true,
	})
	if err != nil {
		return Page{}, fmt.Errorf("render: frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")

	components := []string{"Container", "PageHeader", "Section", "TextBlock"}
	if landing {
		components = append(components, "Grid", "FormContact")
	}
	for _, c := range components {
		fmt.Fprintf(&b, "import %s from \"%s%s.astro\";\n", c, componentPkg, c)
	}
	b.WriteString("\n")
	b.WriteString(mdxBody(header, asset.Title, landing))
	b.WriteString("\n")

	return Page{Slug: slug, Description: desc, Source: b.String()}, nil
}

func mdxBody(header Header, fallbackTitle string, landing bool) string {
	title := header.Title
	if title == "" {
		title = fallbackTitle
	}
	doc := Split(header.Rest)

	padding := "md"
	if landing {
		padding = "xl"
	}
	parts := []string{
		fmt.Sprintf(`<Container verticalPadding="%s">`, padding),
		fmt.Sprintf(`  <PageHeader heading={{ text: "%s", level: 1 }}>`, escapeAttr(title)),
	}
	if header.Subtitle != "" {
		parts = append(parts, "    "+header.Subtitle)
	}
	if doc.Intro != "" {
		parts = append(parts, "", doc.Intro)
	}
	parts = append(parts, "  </PageHeader>", "</Container>")

	for i, sec := range doc.Sections {
		open := fmt.Sprintf(`<Container verticalPadding="md" id="%s">`, Slugify(sec.Heading))
		closing := "</Container>"
		if landing && i%2 == 1 {
			open = fmt.Sprintf(`<Section backgroundColor="gray" verticalPadding="lg" id="%s">`, Slugify(sec.Heading))
			closing = "</Section>"
		}
		parts = append(parts,
			"",
			open,
			fmt.Sprintf(`  <TextBlock heading={{ text: "%s", level: 2 }}>`, escapeAttr(sec.Heading)),
			"",
			sec.Body,
			"",
			"  </TextBlock>",
			closing,
		)
	}
	return strings.Join(parts, "\n")
}

var attrEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
