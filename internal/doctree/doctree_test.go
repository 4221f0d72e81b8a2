package doctree

import "testing"

func TestText_InsertDeleteRoundTrip(t *testing.T) {
	txt := NewText("2.1. Heading")
	txt.DeleteRange(0, 4)
	if got := txt.String(); got != "Heading" {
		t.Fatalf("expected %q after delete, got %q", "Heading", got)
	}
	txt.InsertText(0, "3. ")
	if got := txt.String(); got != "3. Heading" {
		t.Fatalf("expected %q after insert, got %q", "3. Heading", got)
	}
}

func TestText_InsertPreservesLinks(t *testing.T) {
	txt := &Text{}
	txt.Append("link", "#frag")
	txt.InsertText(0, "1. ")

	if got := txt.String(); got != "1. link" {
		t.Fatalf("expected %q, got %q", "1. link", got)
	}
	if url := txt.LinkAt(0); url != "" {
		t.Errorf("inserted text must carry no link, got %q", url)
	}
	if url := txt.LinkAt(3); url != "#frag" {
		t.Errorf("expected link shifted to offset 3, got %q", url)
	}
	if url := txt.LinkAt(6); url != "#frag" {
		t.Errorf("expected link at last rune, got %q", url)
	}
}

func TestText_SetLink(t *testing.T) {
	txt := NewText("see here")
	txt.SetLink(4, 7, "#target")

	if url := txt.LinkAt(3); url != "" {
		t.Errorf("expected offset 3 unlinked, got %q", url)
	}
	for i := 4; i <= 7; i++ {
		if url := txt.LinkAt(i); url != "#target" {
			t.Errorf("expected #target at offset %d, got %q", i, url)
		}
	}
}

func TestText_DeleteRangeMidSpan(t *testing.T) {
	txt := &Text{}
	txt.Append("abc", "")
	txt.Append("XY", "#x")
	txt.Append("def", "")
	txt.DeleteRange(3, 4)
	if got := txt.String(); got != "abcdef" {
		t.Fatalf("expected %q, got %q", "abcdef", got)
	}
	if url := txt.LinkAt(3); url != "" {
		t.Errorf("expected link removed with its runes, got %q", url)
	}
}

func TestParagraph_IsHeading(t *testing.T) {
	if NewParagraph(LevelNone, "body").IsHeading() {
		t.Error("LevelNone paragraph must not be a heading")
	}
	if !NewParagraph(Level3, "3.1.1. deep").IsHeading() {
		t.Error("Level3 paragraph must be a heading")
	}
}

func TestWalk_PreOrder(t *testing.T) {
	cell := NewParagraph(LevelNone, "cell")
	table := &Table{Rows: [][]*Paragraph{{cell}}}

	var kinds []Kind
	Walk(table, func(e Element) bool {
		kinds = append(kinds, e.Kind())
		return true
	})

	want := []Kind{KindTable, KindParagraph, KindText}
	if len(kinds) != len(want) {
		t.Fatalf("expected %d visits, got %d", len(want), len(kinds))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("visit[%d]: expected kind %d, got %d", i, want[i], kinds[i])
		}
	}
}

func TestDocument_FirstTOC(t *testing.T) {
	doc := &Document{Body: []Element{
		NewParagraph(Level1, "Intro"),
	}}
	if doc.FirstTOC() != nil {
		t.Error("expected nil for a document without a TOC")
	}

	toc := &TOC{Title: "Contents"}
	doc.Body = append([]Element{toc}, doc.Body...)
	if doc.FirstTOC() != toc {
		t.Error("expected the first TOC element back")
	}
}
