package outline

import (
	"errors"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

// ErrNoTOC means the document has no table-of-contents block to read
// heading identifiers from. The caller must regenerate the TOC before
// resynchronizing links; renumbering is unaffected.
var ErrNoTOC = errors.New("document has no table of contents")

// HeadingMap maps heading fragment identifiers to current heading
// display text, built from one table-of-contents snapshot. Stale is
// set when the TOC entries no longer match the document's actual
// headings position for position; the map is still returned and
// usable, best effort.
type HeadingMap struct {
	labels map[string]string
	Stale  bool
}

// Lookup resolves a fragment identifier to its heading text.
func (m *HeadingMap) Lookup(fragment string) (string, bool) {
	text, ok := m.labels[fragment]
	return text, ok
}

// Len returns the number of mapped headings.
func (m *HeadingMap) Len() int { return len(m.labels) }

// BuildHeadingMap reads the document's first table-of-contents block
// and maps each entry's link target to its display text, with any
// trailing tab-delimited page-number artifact stripped. It then
// compares the TOC texts against the document's actual heading texts
// to detect staleness.
func BuildHeadingMap(doc *doctree.Document) (*HeadingMap, error) {
	toc := doc.FirstTOC()
	if toc == nil {
		return nil, ErrNoTOC
	}

	m := &HeadingMap{labels: make(map[string]string, len(toc.Entries))}
	tocTexts := make([]string, 0, len(toc.Entries))
	for _, entry := range toc.Entries {
		text := entry.Text()
		if i := strings.IndexByte(text, '\t'); i >= 0 {
			text = text[:i]
		}
		tocTexts = append(tocTexts, text)
		if frag := firstLink(entry.Body); frag != "" {
			m.labels[frag] = text
		}
	}

	m.Stale = !equalSequences(tocTexts, Headings(doc))
	return m, nil
}

// firstLink returns the first non-empty link target in a text leaf.
func firstLink(t *doctree.Text) string {
	for i := 0; i < t.Len(); i++ {
		if url := t.LinkAt(i); url != "" {
			return url
		}
	}
	return ""
}

func equalSequences(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
