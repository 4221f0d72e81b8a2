package doctree

// Kind tags the element types that make up a document tree.
type Kind int

const (
	KindParagraph Kind = iota
	KindText
	KindTOC
	KindTable
)

// HeadingLevel is a paragraph's nesting depth. LevelNone marks body text.
type HeadingLevel int

const (
	LevelNone HeadingLevel = 0
	Level1    HeadingLevel = 1
	Level2    HeadingLevel = 2
	Level3    HeadingLevel = 3
	Level4    HeadingLevel = 4
	Level5    HeadingLevel = 5
	Level6    HeadingLevel = 6
)

// MaxLevel is the deepest heading level a document can carry.
const MaxLevel = 6

// Element is a node in the document tree. Containers enumerate their
// children in document order; leaves return nil.
type Element interface {
	Kind() Kind
	Children() []Element
}

// Document is the root of a parsed document.
type Document struct {
	Title string
	Body  []Element // Top-level block elements in document order.
}

// Paragraph is a block element with an optional heading level. Its
// content lives in a single Text leaf, mirroring the merged editable
// text of a paragraph.
type Paragraph struct {
	Level HeadingLevel
	Body  *Text
}

// NewParagraph creates a paragraph with plain (unlinked) text.
func NewParagraph(level HeadingLevel, text string) *Paragraph {
	return &Paragraph{Level: level, Body: NewText(text)}
}

func (p *Paragraph) Kind() Kind { return KindParagraph }

func (p *Paragraph) Children() []Element { return []Element{p.Body} }

// Text returns the paragraph's current content.
func (p *Paragraph) Text() string { return p.Body.String() }

// IsHeading reports whether the paragraph carries a heading level.
func (p *Paragraph) IsHeading() bool {
	return p.Level >= Level1 && p.Level <= Level6
}

// Text is a leaf holding rune-indexed content with a per-rune
// hyperlink target. All offsets are rune indices; ranges are
// end-inclusive. Offsets become invalid after any edit to the same
// element.
type Text struct {
	runes []rune
	links []string // Target URL per rune, "" when not linked.
}

// NewText creates a text leaf with no links.
func NewText(s string) *Text {
	t := &Text{}
	t.Append(s, "")
	return t
}

func (t *Text) Kind() Kind { return KindText }

func (t *Text) Children() []Element { return nil }

func (t *Text) Len() int { return len(t.runes) }

func (t *Text) String() string { return string(t.runes) }

// LinkAt returns the hyperlink target at rune index i, "" if none.
func (t *Text) LinkAt(i int) string {
	if i < 0 || i >= len(t.links) {
		return ""
	}
	return t.links[i]
}

// Slice returns the content between start and endInclusive.
func (t *Text) Slice(start, endInclusive int) string {
	if start < 0 || endInclusive >= len(t.runes) || start > endInclusive {
		return ""
	}
	return string(t.runes[start : endInclusive+1])
}

// Append adds s to the end of the text, every rune carrying the given
// link target ("" for plain text).
func (t *Text) Append(s, url string) {
	for _, r := range s {
		t.runes = append(t.runes, r)
		t.links = append(t.links, url)
	}
}

// InsertText inserts s at offset. Inserted runes carry no link.
func (t *Text) InsertText(offset int, s string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(t.runes) {
		offset = len(t.runes)
	}
	ins := []rune(s)
	t.runes = append(t.runes[:offset], append(append([]rune{}, ins...), t.runes[offset:]...)...)
	blank := make([]string, len(ins))
	t.links = append(t.links[:offset], append(blank, t.links[offset:]...)...)
}

// DeleteRange removes runes from start through endInclusive.
func (t *Text) DeleteRange(start, endInclusive int) {
	if start < 0 {
		start = 0
	}
	if endInclusive >= len(t.runes) {
		endInclusive = len(t.runes) - 1
	}
	if start > endInclusive {
		return
	}
	t.runes = append(t.runes[:start], t.runes[endInclusive+1:]...)
	t.links = append(t.links[:start], t.links[endInclusive+1:]...)
}

// SetLink applies a hyperlink target over start through endInclusive.
func (t *Text) SetLink(start, endInclusive int, url string) {
	if start < 0 {
		start = 0
	}
	if endInclusive >= len(t.links) {
		endInclusive = len(t.links) - 1
	}
	for i := start; i <= endInclusive; i++ {
		t.links[i] = url
	}
}

// TOC is the document's table-of-contents block. Entries are synthetic
// link paragraphs, one per listed heading, in document order. Their
// links are maintained by the document store, not by users, so link
// extraction never descends into a TOC.
type TOC struct {
	Title   string // Display title of the contents block.
	Entries []*Paragraph
}

func (t *TOC) Kind() Kind { return KindTOC }

func (t *TOC) Children() []Element {
	out := make([]Element, len(t.Entries))
	for i, e := range t.Entries {
		out[i] = e
	}
	return out
}

// Table is a block container of rows of cells, one paragraph per cell.
type Table struct {
	Rows [][]*Paragraph
}

func (t *Table) Kind() Kind { return KindTable }

func (t *Table) Children() []Element {
	var out []Element
	for _, row := range t.Rows {
		for _, cell := range row {
			out = append(out, cell)
		}
	}
	return out
}

// Walk visits el and its descendants in depth-first pre-order. The
// visitor returns false to stop descending below the current element.
func Walk(el Element, visit func(Element) bool) {
	if !visit(el) {
		return
	}
	for _, c := range el.Children() {
		Walk(c, visit)
	}
}

// FirstTOC returns the document's first table-of-contents element, or
// nil if the document has none.
func (d *Document) FirstTOC() *TOC {
	for _, el := range d.Body {
		if toc, ok := el.(*TOC); ok {
			return toc
		}
	}
	return nil
}
