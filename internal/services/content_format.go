package services

import (
	"regexp"
	"strings"
)

// ContentFormatter is a pure text-to-markup transform. LaTeX delimiter
// spans pass through untouched so the client-side renderer can typeset
// them; everything else gets a fixed, ordered set of markdown-like
// substitutions. The order is part of the contract: heading rules run
// before emphasis rules, which run before line-break rules, identically on
// every invocation.

var (
	latexSpanRe = regexp.MustCompile(`(?s)\\\[.*?\\\]|\\\(.*?\\\)`)

	headingH4Re  = regexp.MustCompile(`###\s*(.*)`)
	headingH5Re  = regexp.MustCompile(`####\s*(.*)`)
	headingH3Re  = regexp.MustCompile(`##\s*(.*)`)
	headingH2Re  = regexp.MustCompile(`#\s*(.*)`)
	boldRe       = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRe     = regexp.MustCompile(`_(.*?)_`)
	inlineCodeRe = regexp.MustCompile("`([^`]+)`")
	fencedCodeRe = regexp.MustCompile("(?s)```(.*?)```")
	numberedRe   = regexp.MustCompile(`(\d+\.)`)
	bulletRe     = regexp.MustCompile(`-\s`)
)

// FormatContent renders mixed markdown/LaTeX text into display markup.
// Deterministic and stateless: same input, same output.
func FormatContent(content string) string {
	var out strings.Builder

	spans := latexSpanRe.FindAllStringIndex(content, -1)
	last := 0
	for _, span := range spans {
		out.WriteString(formatPlainSpan(content[last:span[0]]))
		out.WriteString(formatLatexSpan(content[span[0]:span[1]]))
		last = span[1]
	}
	out.WriteString(formatPlainSpan(content[last:]))

	// The original renderer re-applies the bold rule once over the joined
	// result, catching bold markers that straddled span boundaries.
	return boldRe.ReplaceAllString(out.String(), "<strong>$1</strong>")
}

// LaTeX spans pass through unmodified aside from normalizing a line break
// directly after an opening display delimiter.
func formatLatexSpan(span string) string {
	return strings.Replace(span, "\\[\n", "<br/>\\[", 1)
}

func formatPlainSpan(span string) string {
	span = headingH4Re.ReplaceAllString(span, "<h4>$1</h4>")
	span = headingH5Re.ReplaceAllString(span, "<h5>$1</h5>")
	span = headingH3Re.ReplaceAllString(span, "<h3>$1</h3>")
	span = headingH2Re.ReplaceAllString(span, "<h2>$1</h2>")
	span = boldRe.ReplaceAllString(span, "<strong>$1</strong>")
	span = italicRe.ReplaceAllString(span, "<em>$1</em>")
	span = inlineCodeRe.ReplaceAllString(span, "<code>$1</code>")
	span = fencedCodeRe.ReplaceAllString(span, "<pre><code>$1</code></pre>")
	span = numberedRe.ReplaceAllString(span, "<br/>$1")
	span = bulletRe.ReplaceAllString(span, "<br/>- ")
	span = strings.ReplaceAll(span, "\n", "<br/>")
	return span
}
