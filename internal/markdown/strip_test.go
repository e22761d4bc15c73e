package markdown

import (
	"testing"
)

func TestStrip_HeadersEmphasisLinksLists(t *testing.T) {
	input := "# Title\n\nThis is **bold** and _italic_ with a [link](http://x.com) and\n- item one\n- item two"
	want := "Title\n\nThis is bold and italic with a link and\nitem one\nitem two"
	if got := Strip(input); got != want {
		t.Errorf("Strip = %q, want %q", got, want)
	}
}

func TestStrip_BoldedLink(t *testing.T) {
	// Nested markers: both the bold wrapper and the link syntax must go.
	got := Strip("**[docs](https://example.com/docs)**")
	if got != "docs" {
		t.Errorf("Strip = %q, want %q", got, "docs")
	}
}

func TestStrip_CodeRemovedEntirely(t *testing.T) {
	got := Strip("run `go test ./...` before pushing")
	if got != "run  before pushing" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_ImageAltKept(t *testing.T) {
	// The link substitution runs first and consumes [alt](path), so the
	// leading bang survives for images with non-empty alt text.
	got := Strip("![diagram](assets/arch.png)")
	if got != "!diagram" {
		t.Errorf("Strip = %q, want %q", got, "!diagram")
	}

	// Empty alt is not a valid link body, so the image pattern applies.
	if got := Strip("before ![](assets/arch.png) after"); got != "before  after" {
		t.Errorf("Strip = %q, want %q", got, "before  after")
	}
}

func TestStrip_Strikethrough(t *testing.T) {
	got := Strip("~~obsolete~~ current")
	if got != "obsolete current" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_BlockquotesAndOrderedLists(t *testing.T) {
	got := Strip("> quoted line\n1. first\n2. second")
	if got != "quoted line\nfirst\nsecond" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_CollapsesNewlines(t *testing.T) {
	got := Strip("a\n\n\n\n\nb")
	if got != "a\n\nb" {
		t.Errorf("Strip = %q", got)
	}
}

func TestStrip_Deterministic(t *testing.T) {
	input := "## Heading\n\nsome __bold__ text with *stars*"
	first := Strip(input)
	for i := 0; i < 3; i++ {
		if got := Strip(input); got != first {
			t.Fatalf("Strip not deterministic: %q vs %q", got, first)
		}
	}
}
