package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Heading tags become heading
// paragraphs, anchors become per-rune link targets, and a contents
// list (a <nav> of fragment links, or a "Contents" heading followed
// by one) becomes the table-of-contents block.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{Title: titleFromFilename(filename)}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	b := &htmlBuilder{}
	start := root
	if body := findBody(root); body != nil {
		start = body
	}
	b.walk(start)
	b.flushPending()

	doc.Body = b.body
	return doc, nil
}

// htmlBuilder accumulates block elements. A heading titled "Contents"
// is held back until the next list: together they form the TOC block;
// if no such list follows, the heading is emitted as-is.
type htmlBuilder struct {
	body            []doctree.Element
	pendingContents string
	havePending     bool
}

func (b *htmlBuilder) flushPending() {
	if b.havePending {
		b.body = append(b.body, doctree.NewParagraph(doctree.LevelNone, b.pendingContents))
		b.havePending = false
	}
}

func (b *htmlBuilder) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if level := headingLevel(n.Data); level > 0 {
			text := inlineHTMLText(n)
			if isContentsTitle(text.String()) {
				b.flushPending()
				b.pendingContents = strings.TrimSpace(text.String())
				b.havePending = true
				return
			}
			b.flushPending()
			b.body = append(b.body, &doctree.Paragraph{Level: doctree.HeadingLevel(level), Body: text})
			return
		}

		switch n.Data {
		case "script", "style", "header", "footer":
			return
		case "nav":
			if entries := fragmentEntries(n); entries != nil {
				b.flushPending()
				b.body = append(b.body, &doctree.TOC{Title: "Contents", Entries: entries})
				return
			}
		case "ul", "ol":
			if entries := fragmentEntries(n); entries != nil && b.havePending {
				b.body = append(b.body, &doctree.TOC{Title: b.pendingContents, Entries: entries})
				b.havePending = false
				return
			}
			b.flushPending()
		case "table":
			b.flushPending()
			if table := htmlTable(n); table != nil {
				b.body = append(b.body, table)
			}
			return
		case "p", "li", "blockquote", "pre":
			b.flushPending()
			text := inlineHTMLText(n)
			if text.Len() > 0 {
				b.body = append(b.body, &doctree.Paragraph{Body: text})
			}
			return
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.walk(c)
	}
}

// fragmentEntries returns one TOC entry per list item when every item
// of the list is a fragment link, nil otherwise.
func fragmentEntries(n *html.Node) []*doctree.Paragraph {
	var entries []*doctree.Paragraph
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "li" {
			entry := inlineHTMLText(n)
			frag := ""
			for i := 0; i < entry.Len(); i++ {
				if url := entry.LinkAt(i); url != "" {
					frag = url
					break
				}
			}
			if !strings.HasPrefix(frag, "#") {
				return false
			}
			entries = append(entries, &doctree.Paragraph{Body: entry})
			return true
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !visit(c) {
				return false
			}
		}
		return true
	}
	if !visit(n) || len(entries) == 0 {
		return nil
	}
	return entries
}

func htmlTable(n *html.Node) *doctree.Table {
	table := &doctree.Table{}
	var findRows func(*html.Node)
	findRows = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []*doctree.Paragraph
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
					cells = append(cells, &doctree.Paragraph{Body: inlineHTMLText(c)})
				}
			}
			if len(cells) > 0 {
				table.Rows = append(table.Rows, cells)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			findRows(c)
		}
	}
	findRows(n)
	if len(table.Rows) == 0 {
		return nil
	}
	return table
}

// inlineHTMLText flattens an element's text content into a Text leaf,
// collapsing whitespace and carrying anchor hrefs per rune.
func inlineHTMLText(n *html.Node) *doctree.Text {
	t := &doctree.Text{}
	var collect func(*html.Node, string)
	collect = func(n *html.Node, link string) {
		if n.Type == html.TextNode {
			t.Append(collapseSpace(n.Data, t.Len() == 0 || endsInSpace(t)), link)
			return
		}
		if n.Type == html.ElementNode && n.Data == "a" {
			if href := attrVal(n, "href"); href != "" {
				link = href
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c, link)
		}
	}
	collect(n, "")
	trimTrailingSpace(t)
	return t
}

// collapseSpace squashes whitespace runs to single spaces; dropLeading
// also removes a leading space.
func collapseSpace(s string, dropLeading bool) string {
	if s == "" {
		return ""
	}
	out := strings.Join(strings.Fields(s), " ")
	if out == "" {
		if dropLeading {
			return ""
		}
		return " "
	}
	if !dropLeading && (s[0] == ' ' || s[0] == '\n' || s[0] == '\t') {
		out = " " + out
	}
	if last := s[len(s)-1]; last == ' ' || last == '\n' || last == '\t' {
		out = out + " "
	}
	return out
}

func endsInSpace(t *doctree.Text) bool {
	n := t.Len()
	return n > 0 && t.Slice(n-1, n-1) == " "
}

func trimTrailingSpace(t *doctree.Text) {
	for t.Len() > 0 && endsInSpace(t) {
		t.DeleteRange(t.Len()-1, t.Len()-1)
	}
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func attrVal(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return strings.TrimSpace(inlineHTMLText(n).String())
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
