// Package render serializes a document tree back to text formats.
package render

import (
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

// Markdown renders the document as GitHub-flavored markdown. Heading
// levels become #-prefixes, link runs become inline links, and the
// table-of-contents block becomes a contents heading with a link list.
func Markdown(doc *doctree.Document) string {
	var b strings.Builder
	for i, el := range doc.Body {
		if i > 0 {
			b.WriteString("\n")
		}
		switch v := el.(type) {
		case *doctree.Paragraph:
			writeParagraph(&b, v)
		case *doctree.TOC:
			writeTOC(&b, v)
		case *doctree.Table:
			writeTable(&b, v)
		}
	}
	return b.String()
}

func writeParagraph(b *strings.Builder, p *doctree.Paragraph) {
	if p.IsHeading() {
		b.WriteString(strings.Repeat("#", int(p.Level)))
		b.WriteString(" ")
	}
	b.WriteString(inlineMarkdown(p.Body))
	b.WriteString("\n")
}

func writeTOC(b *strings.Builder, toc *doctree.TOC) {
	title := toc.Title
	if title == "" {
		title = "Contents"
	}
	b.WriteString("## " + title + "\n\n")
	for _, entry := range toc.Entries {
		b.WriteString("- " + inlineMarkdown(entry.Body) + "\n")
	}
}

func writeTable(b *strings.Builder, table *doctree.Table) {
	for i, row := range table.Rows {
		b.WriteString("|")
		for _, cell := range row {
			b.WriteString(" " + inlineMarkdown(cell.Body) + " |")
		}
		b.WriteString("\n")
		if i == 0 {
			b.WriteString("|")
			for range row {
				b.WriteString(" --- |")
			}
			b.WriteString("\n")
		}
	}
}

// inlineMarkdown walks the text's link runs: plain runs are emitted
// verbatim, linked runs as [text](url).
func inlineMarkdown(t *doctree.Text) string {
	var b strings.Builder
	cur := ""
	start := 0
	flush := func(end int) {
		if end < start {
			return
		}
		segment := t.Slice(start, end)
		if cur == "" {
			b.WriteString(segment)
		} else {
			b.WriteString("[" + segment + "](" + cur + ")")
		}
	}
	for i := 0; i < t.Len(); i++ {
		url := t.LinkAt(i)
		if url == cur {
			continue
		}
		flush(i - 1)
		cur = url
		start = i
	}
	flush(t.Len() - 1)
	return b.String()
}
