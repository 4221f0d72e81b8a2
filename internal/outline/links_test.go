package outline

import (
	"testing"

	"github.com/dgallion1/outliner/internal/doctree"
)

func TestExtractLinks_TwoDisjointRuns(t *testing.T) {
	text := &doctree.Text{}
	text.Append("see ", "")
	text.Append("Alpha", "#alpha")
	text.Append(" middle ", "")
	text.Append("Beta", "#beta")
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.Paragraph{Level: doctree.LevelNone, Body: text},
	}}

	spans := ExtractLinks(doc)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}

	if spans[0].Start != 4 || spans[0].End != 8 || spans[0].URL != "#alpha" {
		t.Errorf("span[0]: expected [4,8] #alpha, got [%d,%d] %s", spans[0].Start, spans[0].End, spans[0].URL)
	}
	if spans[0].Display() != "Alpha" {
		t.Errorf("span[0] display: expected %q, got %q", "Alpha", spans[0].Display())
	}
	if spans[1].Start != 17 || spans[1].End != 20 || spans[1].URL != "#beta" {
		t.Errorf("span[1]: expected [17,20] #beta, got [%d,%d] %s", spans[1].Start, spans[1].End, spans[1].URL)
	}
	if spans[1].Display() != "Beta" {
		t.Errorf("span[1] display: expected %q, got %q", "Beta", spans[1].Display())
	}
}

func TestExtractLinks_RunOpenAtEndOfText(t *testing.T) {
	text := &doctree.Text{}
	text.Append("tail ", "")
	text.Append("link", "#tail")
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.Paragraph{Body: text},
	}}

	spans := ExtractLinks(doc)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].End != text.Len()-1 {
		t.Errorf("expected run closed at last rune %d, got %d", text.Len()-1, spans[0].End)
	}
}

func TestExtractLinks_AdjacentDifferentTargets(t *testing.T) {
	text := &doctree.Text{}
	text.Append("AB", "#one")
	text.Append("CD", "#two")
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.Paragraph{Body: text},
	}}

	spans := ExtractLinks(doc)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans for adjacent targets, got %d", len(spans))
	}
	if spans[0].End != 1 || spans[1].Start != 2 {
		t.Errorf("expected split at offset 2, got end=%d start=%d", spans[0].End, spans[1].Start)
	}
}

func TestExtractLinks_ExcludesTOC(t *testing.T) {
	entry := &doctree.Text{}
	entry.Append("1. Intro", "#intro")
	body := &doctree.Text{}
	body.Append("real", "#intro")
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.TOC{Entries: []*doctree.Paragraph{{Body: entry}}},
		&doctree.Paragraph{Body: body},
	}}

	spans := ExtractLinks(doc)
	if len(spans) != 1 {
		t.Fatalf("expected only the body span, got %d", len(spans))
	}
	if spans[0].Owner != body {
		t.Error("expected the span to come from the body paragraph, not the TOC")
	}
}

func TestExtractLinks_DescendsIntoTables(t *testing.T) {
	cell := &doctree.Text{}
	cell.Append("cell link", "#target")
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.Table{Rows: [][]*doctree.Paragraph{
			{{Body: cell}},
		}},
	}}

	spans := ExtractLinks(doc)
	if len(spans) != 1 {
		t.Fatalf("expected 1 span inside the table, got %d", len(spans))
	}
	if spans[0].URL != "#target" {
		t.Errorf("expected URL %q, got %q", "#target", spans[0].URL)
	}
}

func TestExtractLinks_NoLinks(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		doctree.NewParagraph(doctree.LevelNone, "plain text only"),
	}}
	if spans := ExtractLinks(doc); len(spans) != 0 {
		t.Errorf("expected no spans, got %d", len(spans))
	}
}
