package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/outliner/internal/doctree"
)

func paragraphs(doc *doctree.Document) []*doctree.Paragraph {
	var out []*doctree.Paragraph
	for _, el := range doc.Body {
		if p, ok := el.(*doctree.Paragraph); ok {
			out = append(out, p)
		}
	}
	return out
}

func TestMarkdownParser_HeadingLevels(t *testing.T) {
	input := `# Title

Intro text.

## Section A

### Subsection A1
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	paras := paragraphs(doc)
	if len(paras) != 4 {
		t.Fatalf("expected 4 paragraphs, got %d", len(paras))
	}
	wantLevels := []doctree.HeadingLevel{doctree.Level1, doctree.LevelNone, doctree.Level2, doctree.Level3}
	wantTexts := []string{"Title", "Intro text.", "Section A", "Subsection A1"}
	for i, p := range paras {
		if p.Level != wantLevels[i] {
			t.Errorf("paragraph[%d]: expected level %d, got %d", i, wantLevels[i], p.Level)
		}
		if p.Text() != wantTexts[i] {
			t.Errorf("paragraph[%d]: expected text %q, got %q", i, wantTexts[i], p.Text())
		}
	}
}

func TestMarkdownParser_InlineLinkOffsets(t *testing.T) {
	input := "see [A](#a)text[B](#b)\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "links.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	paras := paragraphs(doc)
	if len(paras) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(paras))
	}
	body := paras[0].Body
	if body.String() != "see AtextB" {
		t.Fatalf("expected flattened text %q, got %q", "see AtextB", body.String())
	}
	if url := body.LinkAt(4); url != "#a" {
		t.Errorf("expected #a at offset 4, got %q", url)
	}
	if url := body.LinkAt(5); url != "" {
		t.Errorf("expected plain text at offset 5, got %q", url)
	}
	if url := body.LinkAt(9); url != "#b" {
		t.Errorf("expected #b at offset 9, got %q", url)
	}
}

func TestMarkdownParser_ContentsListBecomesTOC(t *testing.T) {
	input := `## Table of Contents

- [1. Intro](#intro)
- [2. Scope](#scope)

# 1. Intro
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "toc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	toc := doc.FirstTOC()
	if toc == nil {
		t.Fatal("expected a TOC block")
	}
	if toc.Title != "Table of Contents" {
		t.Errorf("expected TOC title %q, got %q", "Table of Contents", toc.Title)
	}
	if len(toc.Entries) != 2 {
		t.Fatalf("expected 2 TOC entries, got %d", len(toc.Entries))
	}
	if got := toc.Entries[0].Text(); got != "1. Intro" {
		t.Errorf("expected entry %q, got %q", "1. Intro", got)
	}
	if url := toc.Entries[1].Body.LinkAt(0); url != "#scope" {
		t.Errorf("expected entry link #scope, got %q", url)
	}

	// The contents heading itself must not survive as a heading.
	for _, p := range paragraphs(doc) {
		if strings.Contains(strings.ToLower(p.Text()), "table of contents") {
			t.Errorf("contents heading leaked into body: %q", p.Text())
		}
	}
}

func TestMarkdownParser_OrdinaryListStaysContent(t *testing.T) {
	input := `## Table of Contents

- plain item without a link

Body.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "notoc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.FirstTOC() != nil {
		t.Error("a list without fragment links must not become a TOC")
	}
}

func TestMarkdownParser_Table(t *testing.T) {
	input := "| Name | Value |\n| --- | --- |\n| depth | [six](#levels) |\n"
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "table.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var table *doctree.Table
	for _, el := range doc.Body {
		if tb, ok := el.(*doctree.Table); ok {
			table = tb
		}
	}
	if table == nil {
		t.Fatal("expected a table element")
	}
	if len(table.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(table.Rows))
	}
	cell := table.Rows[1][1]
	if cell.Text() != "six" {
		t.Errorf("expected cell text %q, got %q", "six", cell.Text())
	}
	if url := cell.Body.LinkAt(0); url != "#levels" {
		t.Errorf("expected cell link #levels, got %q", url)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Body) != 0 {
		t.Errorf("expected empty body, got %d elements", len(doc.Body))
	}
}
