package outline

import (
	"sort"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

// DeprecatedLink is a heading link whose target fragment no longer
// resolves to any listed heading. It is reported, never modified.
type DeprecatedLink struct {
	URL     string `json:"url"`
	Display string `json:"display"`
}

// RelinkReport summarizes one link-resynchronization pass.
type RelinkReport struct {
	Rewritten  int              `json:"rewritten"`
	Stale      bool             `json:"stale"` // TOC snapshot disagreed with actual headings.
	Deprecated []DeprecatedLink `json:"deprecated,omitempty"`
}

// ResyncLinks rewrites the display text of every heading-fragment link
// in the document to the canonical short label for its target heading,
// preserving the hyperlink. Links whose target is absent from the
// heading map are left untouched and reported as deprecated. Returns
// ErrNoTOC when the document has no table of contents.
func ResyncLinks(doc *doctree.Document) (*RelinkReport, error) {
	m, err := BuildHeadingMap(doc)
	if err != nil {
		return nil, err
	}

	rep := &RelinkReport{Stale: m.Stale}

	// Collect first, edit after: a span's offsets are only valid until
	// its owner is edited, so rewrites are grouped per owning element
	// and applied in descending start-offset order.
	type rewrite struct {
		span  Span
		label string
	}
	perOwner := make(map[*doctree.Text][]rewrite)
	var owners []*doctree.Text

	for _, sp := range ExtractLinks(doc) {
		if !strings.HasPrefix(sp.URL, "#") {
			continue
		}
		heading, ok := m.Lookup(sp.URL)
		if !ok {
			rep.Deprecated = append(rep.Deprecated, DeprecatedLink{URL: sp.URL, Display: sp.Display()})
			continue
		}
		label := CanonicalLabel(heading)
		if label == "" {
			continue
		}
		if _, seen := perOwner[sp.Owner]; !seen {
			owners = append(owners, sp.Owner)
		}
		perOwner[sp.Owner] = append(perOwner[sp.Owner], rewrite{span: sp, label: label})
	}

	for _, owner := range owners {
		edits := perOwner[owner]
		sort.Slice(edits, func(i, j int) bool {
			return edits[i].span.Start > edits[j].span.Start
		})
		for _, e := range edits {
			owner.DeleteRange(e.span.Start, e.span.End)
			owner.InsertText(e.span.Start, e.label)
			owner.SetLink(e.span.Start, e.span.Start+len([]rune(e.label))-1, e.span.URL)
			rep.Rewritten++
		}
	}

	return rep, nil
}

// CanonicalLabel derives the short link label for a heading's current
// text: "Section 3.2" for a numbered heading "3.2. Methods",
// "Annex B" for "Annex B: Glossary". A heading with neither prefix
// falls back to its raw text.
func CanonicalLabel(heading string) string {
	if prefix := HeadingPrefix(heading); prefix != "" {
		return "Section " + strings.TrimRight(prefix, ". ")
	}
	if marker := AnnexMarker(heading); marker != "" {
		return strings.TrimSuffix(marker, ":")
	}
	return strings.TrimSpace(heading)
}
