// Package markdown converts markdown content to a plain-text mirror.
package markdown

import (
	"regexp"
	"strings"
)

// The substitution order matters for nested cases (a bolded link must lose
// both markers), so the patterns are applied strictly in sequence.
var (
	headerRe     = regexp.MustCompile(`#{1,6}\s?`)
	boldStarRe   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe  = regexp.MustCompile(`__(.*?)__`)
	italStarRe   = regexp.MustCompile(`\*(.*?)\*`)
	italUnderRe  = regexp.MustCompile(`_(.*?)_`)
	strikeRe     = regexp.MustCompile(`~~(.*?)~~`)
	codeRe       = regexp.MustCompile("`{1,3}[^`]*`{1,3}")
	linkRe       = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	listRe       = regexp.MustCompile(`(?m)^\s*[-*+]\s`)
	orderedRe    = regexp.MustCompile(`(?m)^\s*\d+\.\s`)
	blockquoteRe = regexp.MustCompile(`(?m)^\s*>`)
	newlinesRe   = regexp.MustCompile(`\n{3,}`)
)

// Strip renders markdown as plain text: headers, emphasis, strikethrough,
// links, and list/blockquote markers are unwrapped; code spans are removed
// entirely; runs of 3+ newlines collapse to 2; the result is trimmed.
func Strip(text string) string {
	out := headerRe.ReplaceAllString(text, "")
	out = boldStarRe.ReplaceAllString(out, "$1")
	out = boldUnderRe.ReplaceAllString(out, "$1")
	out = italStarRe.ReplaceAllString(out, "$1")
	out = italUnderRe.ReplaceAllString(out, "$1")
	out = strikeRe.ReplaceAllString(out, "$1")
	out = codeRe.ReplaceAllString(out, "")
	out = linkRe.ReplaceAllString(out, "$1")
	out = imageRe.ReplaceAllString(out, "$1")
	out = listRe.ReplaceAllString(out, "")
	out = orderedRe.ReplaceAllString(out, "")
	out = blockquoteRe.ReplaceAllString(out, "")
	out = newlinesRe.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
