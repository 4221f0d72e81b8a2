package parser

import (
	"bufio"
	"io"
	"strings"

	"github.com/dgallion1/outliner/internal/doctree"
	"github.com/dgallion1/outliner/internal/outline"
)

// TextParser handles plain text files. Lines carrying a numeric
// outline prefix or an Annex marker are reconstructed as headings so
// an exported numbered document can be re-audited.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return &doctree.Document{
		Title: titleFromFilename(filename),
		Body:  blocksFromLines(lines),
	}, nil
}

// blocksFromLines groups blank-line separated lines into paragraphs,
// promoting numbered and Annex lines to headings.
func blocksFromLines(lines []string) []doctree.Element {
	var body []doctree.Element
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			body = append(body, doctree.NewParagraph(doctree.LevelNone, current.String()))
			current.Reset()
		}
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			flush()
			continue
		}
		if level, ok := lineHeadingLevel(trimmed); ok {
			flush()
			body = append(body, doctree.NewParagraph(level, trimmed))
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	flush()

	return body
}

// lineHeadingLevel derives a heading level from a line's leading
// outline prefix: "3.2. " has two components, so level 2. Annex
// markers are top-level.
func lineHeadingLevel(line string) (doctree.HeadingLevel, bool) {
	if outline.AnnexMarker(line) != "" {
		return doctree.Level1, true
	}
	prefix := outline.HeadingPrefix(line)
	if prefix == "" {
		return doctree.LevelNone, false
	}
	level := strings.Count(strings.TrimSpace(prefix), ".")
	if level < 1 {
		return doctree.LevelNone, false
	}
	if level > doctree.MaxLevel {
		level = doctree.MaxLevel
	}
	return doctree.HeadingLevel(level), true
}
