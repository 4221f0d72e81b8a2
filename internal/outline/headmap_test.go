package outline

import (
	"errors"
	"testing"

	"github.com/dgallion1/outliner/internal/doctree"
)

func tocEntry(text, fragment string) *doctree.Paragraph {
	t := &doctree.Text{}
	t.Append(text, fragment)
	return &doctree.Paragraph{Body: t}
}

func TestBuildHeadingMap_MapsFragments(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.TOC{Entries: []*doctree.Paragraph{
			tocEntry("1. Intro", "#intro"),
			tocEntry("2. Scope", "#scope"),
		}},
		doctree.NewParagraph(doctree.Level1, "1. Intro"),
		doctree.NewParagraph(doctree.Level1, "2. Scope"),
	}}

	m, err := BuildHeadingMap(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Stale {
		t.Error("expected fresh heading map, got stale")
	}
	if m.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", m.Len())
	}
	if text, ok := m.Lookup("#intro"); !ok || text != "1. Intro" {
		t.Errorf("Lookup(#intro): expected %q, got %q (ok=%v)", "1. Intro", text, ok)
	}
}

func TestBuildHeadingMap_StripsPageNumberArtifact(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.TOC{Entries: []*doctree.Paragraph{
			tocEntry("1. Intro\t3", "#intro"),
		}},
		doctree.NewParagraph(doctree.Level1, "1. Intro"),
	}}

	m, err := BuildHeadingMap(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text, _ := m.Lookup("#intro"); text != "1. Intro" {
		t.Errorf("expected tab suffix stripped, got %q", text)
	}
	if m.Stale {
		t.Error("tab-stripped entry should match the actual heading")
	}
}

func TestBuildHeadingMap_StaleOnTextMismatch(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.TOC{Entries: []*doctree.Paragraph{
			tocEntry("1. Intro", "#intro"),
			tocEntry("2. Scope", "#scope"),
		}},
		doctree.NewParagraph(doctree.Level1, "1. Introduction"),
		doctree.NewParagraph(doctree.Level1, "2. Scope"),
	}}

	m, err := BuildHeadingMap(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Stale {
		t.Error("expected stale flag when TOC text differs from actual heading")
	}
	// Best-effort: the map is still returned and usable.
	if m.Len() != 2 {
		t.Errorf("expected stale map still populated, got %d entries", m.Len())
	}
}

func TestBuildHeadingMap_StaleOnLengthMismatch(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		&doctree.TOC{Entries: []*doctree.Paragraph{
			tocEntry("1. Intro", "#intro"),
		}},
		doctree.NewParagraph(doctree.Level1, "1. Intro"),
		doctree.NewParagraph(doctree.Level1, "2. Added later"),
	}}

	m, err := BuildHeadingMap(doc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Stale {
		t.Error("expected stale flag when heading counts differ")
	}
}

func TestBuildHeadingMap_NoTOC(t *testing.T) {
	doc := &doctree.Document{Body: []doctree.Element{
		doctree.NewParagraph(doctree.Level1, "1. Intro"),
	}}
	if _, err := BuildHeadingMap(doc); !errors.Is(err, ErrNoTOC) {
		t.Errorf("expected ErrNoTOC, got %v", err)
	}
}
