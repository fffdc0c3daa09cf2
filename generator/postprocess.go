package generator

import (
	"errors"
	"regexp"
	"strings"
)

// ErrEmptyContent is returned when the model produced only whitespace.
var ErrEmptyContent = errors.New("model returned empty markdown")

var outerFenceRe = regexp.MustCompile("(?s)^```(?:markdown|md)?\\s*\\n(.*)\\n```$")

// postProcess trims model output and unwraps a Markdown fence around the whole draft.
func postProcess(raw string) (string, error) {
	md := strings.TrimSpace(raw)
	if md == "" {
		return "", ErrEmptyContent
	}
	if m := outerFenceRe.FindStringSubmatch(md); m != nil && !strings.Contains(m[1], "\n```") {
		md = strings.TrimSpace(m[1])
	}
	if md == "" {
		return "", ErrEmptyContent
	}
	return md, nil
}
