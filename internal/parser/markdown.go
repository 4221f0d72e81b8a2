package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Inline links
// become per-rune hyperlink targets on the paragraph text, and a
// "Contents" heading followed by a list of fragment links becomes the
// document's table-of-contents block.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	root := md.Parser().Parse(text.NewReader(src))

	doc := &doctree.Document{Title: titleFromFilename(filename)}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && isContentsTitle(string(h.Text(src))) {
			if list, ok := n.NextSibling().(*ast.List); ok {
				if toc := buildTOC(string(h.Text(src)), list, src); toc != nil {
					doc.Body = append(doc.Body, toc)
					n = n.NextSibling()
					continue
				}
			}
		}
		doc.Body = append(doc.Body, blocksFrom(n, src)...)
	}

	return doc, nil
}

// blocksFrom converts one top-level markdown block into document
// elements.
func blocksFrom(n ast.Node, src []byte) []doctree.Element {
	switch node := n.(type) {
	case *ast.Heading:
		level := node.Level
		if level > doctree.MaxLevel {
			level = doctree.MaxLevel
		}
		return []doctree.Element{&doctree.Paragraph{
			Level: doctree.HeadingLevel(level),
			Body:  inlineText(node, src, ""),
		}}

	case *ast.Paragraph, *ast.TextBlock:
		return []doctree.Element{&doctree.Paragraph{Body: inlineText(n, src, "")}}

	case *ast.List:
		var out []doctree.Element
		for item := node.FirstChild(); item != nil; item = item.NextSibling() {
			for c := item.FirstChild(); c != nil; c = c.NextSibling() {
				out = append(out, blocksFrom(c, src)...)
			}
		}
		return out

	case *ast.Blockquote:
		var out []doctree.Element
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			out = append(out, blocksFrom(c, src)...)
		}
		return out

	case *extast.Table:
		return []doctree.Element{tableFrom(node, src)}

	default:
		if t := rawLines(n, src); t != "" {
			return []doctree.Element{doctree.NewParagraph(doctree.LevelNone, t)}
		}
		return nil
	}
}

// buildTOC turns a contents list into a TOC block. Every item must be
// a fragment link, otherwise the list is ordinary content.
func buildTOC(title string, list *ast.List, src []byte) *doctree.TOC {
	toc := &doctree.TOC{Title: strings.TrimSpace(title)}
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		entry := inlineText(item, src, "")
		frag := ""
		for i := 0; i < entry.Len(); i++ {
			if url := entry.LinkAt(i); url != "" {
				frag = url
				break
			}
		}
		if !strings.HasPrefix(frag, "#") {
			return nil
		}
		toc.Entries = append(toc.Entries, &doctree.Paragraph{Body: entry})
	}
	if len(toc.Entries) == 0 {
		return nil
	}
	return toc
}

func tableFrom(table *extast.Table, src []byte) *doctree.Table {
	out := &doctree.Table{}
	for row := table.FirstChild(); row != nil; row = row.NextSibling() {
		var cells []*doctree.Paragraph
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cells = append(cells, &doctree.Paragraph{Body: inlineText(cell, src, "")})
		}
		if len(cells) > 0 {
			out.Rows = append(out.Rows, cells)
		}
	}
	return out
}

// inlineText flattens a node's inline children into a Text leaf,
// carrying the enclosing link destination onto every rune inside a
// link.
func inlineText(n ast.Node, src []byte, link string) *doctree.Text {
	t := &doctree.Text{}
	appendInline(n, src, t, link)
	return t
}

func appendInline(n ast.Node, src []byte, t *doctree.Text, link string) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			t.Append(string(v.Value(src)), link)
			if v.SoftLineBreak() || v.HardLineBreak() {
				t.Append(" ", link)
			}
		case *ast.Link:
			appendInline(v, src, t, string(v.Destination))
		case *ast.AutoLink:
			url := string(v.URL(src))
			t.Append(url, url)
		case *ast.Image:
			// Alt text only.
			appendInline(v, src, t, link)
		default:
			appendInline(c, src, t, link)
		}
	}
}

// rawLines reads a block node's source lines verbatim (code blocks and
// other unhandled blocks).
func rawLines(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(src))
	}
	return strings.TrimSpace(b.String())
}
