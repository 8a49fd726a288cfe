// Package source defines page text as seen by the lexer: runes with line and UTF-16 offset lookup.
package source

import (
	"unicode/utf16"
)

// Source is a named page text.
// Positions are rune indexes, document offsets are UTF-16 code units.
type Source struct {
	name          string
	text          string
	runes         []rune
	units         []int
	lineStarts    []int
	prevLineIndex int
}

// New creates new Source.
func New(name, text string) *Source {
	runes := []rune(text)
	s := &Source{name: name, text: text, runes: runes, prevLineIndex: -1}
	s.units = make([]int, len(runes)+1)
	s.lineStarts = []int{0}
	unit := 0
	for i, r := range runes {
		s.units[i] = unit
		unit += utf16.RuneLen(r)
		if r == '\n' {
			s.lineStarts = append(s.lineStarts, i+1)
		}
	}
	s.units[len(runes)] = unit
	return s
}

func (s *Source) Name() string {
	return s.name
}

func (s *Source) Text() string {
	return s.text
}

// Runes returns the source content; callers must not modify it.
func (s *Source) Runes() []rune {
	return s.runes
}

// Len returns source length in runes.
func (s *Source) Len() int {
	return len(s.runes)
}

// Units converts rune position to UTF-16 offset, clamping it to source bounds.
func (s *Source) Units(pos int) int {
	return s.units[s.clamp(pos)]
}

func (s *Source) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if pos > len(s.runes) {
		return len(s.runes)
	}
	return pos
}

// LineCol returns 1-based line and column (in runes) for rune position.
func (s *Source) LineCol(pos int) (line, col int) {
	pos = s.clamp(pos)
	lineIndex := s.findLineIndex(pos)
	return lineIndex + 1, pos - s.lineStarts[lineIndex] + 1
}

// LineText returns the text of 1-based line without its line break.
func (s *Source) LineText(line int) string {
	if line <= 0 || line > len(s.lineStarts) {
		return ""
	}

	start := s.lineStarts[line-1]
	end := len(s.runes)
	if line < len(s.lineStarts) {
		end = s.lineStarts[line] - 1
	}
	return string(s.runes[start:end])
}

func (s *Source) findLineIndex(pos int) int {
	last := len(s.lineStarts) - 1
	if s.prevLineIndex >= 0 && s.lineStarts[s.prevLineIndex] <= pos {
		lineIndex := s.prevLineIndex
		for lineIndex <= last && s.lineStarts[lineIndex] <= pos {
			lineIndex++
		}
		lineIndex--
		s.prevLineIndex = lineIndex
		return lineIndex
	}

	left, right := 0, last
	for left < right {
		index := (left + right + 1) >> 1
		if s.lineStarts[index] <= pos {
			left = index
		} else {
			right = index - 1
		}
	}
	s.prevLineIndex = left
	return left
}

// Pos is a position in a Source, it implements samepage.SourcePos.
type Pos struct {
	src            *Source
	pos, line, col int
}

// NewPos creates Pos for rune position in s.
func NewPos(s *Source, pos int) Pos {
	line, col := s.LineCol(pos)
	return Pos{s, pos, line, col}
}

func (p Pos) Source() *Source {
	return p.src
}

func (p Pos) Pos() int {
	return p.pos
}

// Offset returns UTF-16 offset of the position.
func (p Pos) Offset() int {
	if p.src == nil {
		return 0
	}
	return p.src.Units(p.pos)
}

func (p Pos) Line() int {
	return p.line
}

func (p Pos) Col() int {
	return p.col
}

func (p Pos) SourceName() string {
	if p.src == nil {
		return ""
	}
	return p.src.name
}
