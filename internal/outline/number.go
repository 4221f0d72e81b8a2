package outline

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
)

var (
	// Leading numeric prefix of a numbered heading, e.g. "2.3.1. ".
	prefixRe = regexp.MustCompile(`^[0-9.]+ `)
	// Annex/Appendix marker: word starting with A and ending in x/X,
	// a space, one alphanumeric, a colon. E.g. "Annex A:", "Appendix 1:".
	annexRe = regexp.MustCompile(`^A\w*[xX] [0-9A-Za-z]:`)
)

// HeadingPrefix returns the leading numeric prefix of text (including
// its trailing space), or "" if the text is not prefixed.
func HeadingPrefix(text string) string {
	return prefixRe.FindString(text)
}

// AnnexMarker returns the leading Annex/Appendix marker of text
// (including its trailing colon), or "" if there is none.
func AnnexMarker(text string) string {
	return annexRe.FindString(text)
}

// Counters is the six-slot counter vector threaded through one
// numbering pass. Slot 0 counts H1 headings.
type Counters [doctree.MaxLevel]int

// Bump increments the counter for level (1-based) and zeroes every
// deeper counter. Shallower counters are untouched.
func (c *Counters) Bump(level int) {
	c[level-1]++
	for i := level; i < len(c); i++ {
		c[i] = 0
	}
}

// Prefix renders the dotted prefix for a heading at level, using only
// counters 1..level: "c1.c2.….clevel. ".
func (c Counters) Prefix(level int) string {
	var b strings.Builder
	for i := 0; i < level; i++ {
		b.WriteString(strconv.Itoa(c[i]))
		b.WriteByte('.')
	}
	b.WriteByte(' ')
	return b.String()
}

// numbering is a two-state machine: once frozen by an Annex heading it
// never numbers again.
type numberingState int

const (
	stateNumbering numberingState = iota
	stateFrozen
)

// NumberReport summarizes one numbering pass.
type NumberReport struct {
	Numbered  int    `json:"numbered"`  // Headings written with a new or corrected prefix.
	Unchanged int    `json:"unchanged"` // Headings whose prefix was already correct.
	Frozen    bool   `json:"frozen"`    // Whether an Annex heading stopped the pass.
	FrozenAt  string `json:"frozen_at,omitempty"`
}

// Renumber walks the document in order and applies hierarchical
// numeric prefixes to every heading paragraph. An H1 matching the
// Annex pattern freezes numbering and terminates the traversal
// immediately; nothing after it is examined. Re-running on an
// already-numbered document is a no-op.
func Renumber(doc *doctree.Document) NumberReport {
	var counters Counters
	var rep NumberReport
	state := stateNumbering

	walkParagraphs(doc, func(p *doctree.Paragraph) bool {
		if !p.IsHeading() || state == stateFrozen {
			return true
		}
		text := p.Text()
		if p.Level == doctree.Level1 && AnnexMarker(text) != "" {
			state = stateFrozen
			rep.Frozen = true
			rep.FrozenAt = text
			return false // Terminal: stop the whole traversal.
		}

		level := int(p.Level)
		counters.Bump(level)
		applyPrefix(p, counters.Prefix(level), &rep)
		return true
	})

	return rep
}

// applyPrefix splices prefix onto the paragraph, leaving it untouched
// when the existing leading prefix already matches.
func applyPrefix(p *doctree.Paragraph, prefix string, rep *NumberReport) {
	existing := HeadingPrefix(p.Text())
	if existing == prefix {
		rep.Unchanged++
		return
	}
	if existing != "" {
		p.Body.DeleteRange(0, len([]rune(existing))-1)
	}
	p.Body.InsertText(0, prefix)
	rep.Numbered++
}

// walkParagraphs visits every paragraph in document order, descending
// into tables but not into the table-of-contents block. The visitor
// returns false to stop the traversal.
func walkParagraphs(doc *doctree.Document, visit func(*doctree.Paragraph) bool) {
	stopped := false
	for _, el := range doc.Body {
		if stopped {
			return
		}
		doctree.Walk(el, func(e doctree.Element) bool {
			if stopped {
				return false
			}
			switch v := e.(type) {
			case *doctree.TOC:
				return false
			case *doctree.Paragraph:
				if !visit(v) {
					stopped = true
				}
				return false // Paragraph content needs no further descent here.
			}
			return true
		})
	}
}

// Entry is one heading in the document outline.
type Entry struct {
	Level  int    `json:"level"`
	Text   string `json:"text"`
	Prefix string `json:"prefix,omitempty"`
	Annex  bool   `json:"annex,omitempty"`
}

// Entries lists the document's current headings in order, with any
// detected numeric prefix or Annex marker.
func Entries(doc *doctree.Document) []Entry {
	var out []Entry
	walkParagraphs(doc, func(p *doctree.Paragraph) bool {
		if !p.IsHeading() {
			return true
		}
		text := strings.TrimSpace(p.Text())
		out = append(out, Entry{
			Level:  int(p.Level),
			Text:   text,
			Prefix: strings.TrimSpace(HeadingPrefix(text)),
			Annex:  AnnexMarker(text) != "",
		})
		return true
	})
	return out
}

// Headings returns the trimmed text of every heading paragraph in
// document order, excluding the table of contents.
func Headings(doc *doctree.Document) []string {
	var out []string
	walkParagraphs(doc, func(p *doctree.Paragraph) bool {
		if p.IsHeading() {
			out = append(out, strings.TrimSpace(p.Text()))
		}
		return true
	})
	return out
}
