package outline

import (
	"github.com/dgallion1/outliner/internal/doctree"
)

// Span is one maximal run of characters sharing a hyperlink target.
// Offsets are rune indices into the owning text element at extraction
// time; End is inclusive. Any edit to the owner invalidates them.
type Span struct {
	Owner *doctree.Text
	Start int
	End   int
	URL   string
}

// Display returns the span's current display text.
func (s Span) Display() string {
	return s.Owner.Slice(s.Start, s.End)
}

// ExtractLinks walks the element tree depth-first and collects every
// maximal contiguous linked run in document order. The table-of-contents
// subtree is excluded: its links are synthetic.
func ExtractLinks(doc *doctree.Document) []Span {
	var spans []Span
	for _, el := range doc.Body {
		doctree.Walk(el, func(e doctree.Element) bool {
			switch v := e.(type) {
			case *doctree.TOC:
				return false
			case *doctree.Text:
				spans = append(spans, scanText(v)...)
			}
			return true
		})
	}
	return spans
}

// scanText scans one text leaf left to right. A run opens on the
// transition into a non-empty link target and closes on the first
// position where that target is no longer observed, so the recorded
// end lags the scan by one. A run still open at end-of-text closes on
// the last rune.
func scanText(t *doctree.Text) []Span {
	var spans []Span
	cur := ""
	start := 0
	for i := 0; i < t.Len(); i++ {
		url := t.LinkAt(i)
		if url == cur {
			continue
		}
		if cur != "" {
			spans = append(spans, Span{Owner: t, Start: start, End: i - 1, URL: cur})
		}
		cur = url
		start = i
	}
	if cur != "" {
		spans = append(spans, Span{Owner: t, Start: start, End: t.Len() - 1, URL: cur})
	}
	return spans
}
