package services

import (
	"strings"
	"testing"
)

func TestFormatContent_Headings(t *testing.T) {
	got := FormatContent("# Title\n## Section\n### Subsection")
	for _, want := range []string{"<h2>Title</h2>", "<h3>Section</h3>", "<h4>Subsection</h4>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
}

func TestFormatContent_EmphasisAndCode(t *testing.T) {
	got := FormatContent("**bold** and _italic_ and `x := 1`")
	for _, want := range []string{"<strong>bold</strong>", "<em>italic</em>", "<code>x := 1</code>"} {
		if !strings.Contains(got, want) {
			t.Fatalf("expected %q in output, got %q", want, got)
		}
	}
}

func TestFormatContent_ListsAndLineBreaks(t *testing.T) {
	got := FormatContent("1. first\n- bullet point")
	if !strings.Contains(got, "<br/>1.") {
		t.Fatalf("expected break before numbered item, got %q", got)
	}
	if !strings.Contains(got, "<br/>- bullet point") {
		t.Fatalf("expected break before bullet, got %q", got)
	}
}

func TestFormatContent_LatexSpansPassThrough(t *testing.T) {
	content := `The identity \(e^{i\pi} + 1 = 0\) holds, and **bold** text too.`
	got := FormatContent(content)
	if !strings.Contains(got, `\(e^{i\pi} + 1 = 0\)`) {
		t.Fatalf("inline LaTeX span was modified: %q", got)
	}
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Fatalf("text outside the span must still be formatted: %q", got)
	}
}

func TestFormatContent_DisplayLatexKeepsInternalMarkup(t *testing.T) {
	// Underscores and backticks inside a display span must survive.
	content := `Before \[x_1 + x_2\] after`
	got := FormatContent(content)
	if !strings.Contains(got, `\[x_1 + x_2\]`) {
		t.Fatalf("display LaTeX span was modified: %q", got)
	}
	if strings.Contains(got, "<em>") {
		t.Fatalf("emphasis rule leaked into LaTeX span: %q", got)
	}
}

func TestFormatContent_Deterministic(t *testing.T) {
	content := "# Heading\n**bold** _italic_\n1. item\n\\(a_b\\) and `code`"
	first := FormatContent(content)
	for i := 0; i < 10; i++ {
		if got := FormatContent(content); got != first {
			t.Fatalf("output changed between runs: %q vs %q", first, got)
		}
	}
}

func TestFormatContent_BoldAcrossSpanBoundary(t *testing.T) {
	// A bold marker pair that brackets a LaTeX span is only caught by the
	// final re-pass over the joined output.
	content := `**emphasis around \(x\) math**`
	got := FormatContent(content)
	if !strings.Contains(got, "<strong>") || strings.Contains(got, "**") {
		t.Fatalf("expected straddling bold markers resolved, got %q", got)
	}
}
