package utils

import (
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// OffsetToPosition converts a byte offset into a zero-based line and a
// character column counted in UTF-16 code units, the unit LSP clients use.
// Offsets past the end clamp to the end of text.
func OffsetToPosition(text string, offset int) (line, character uint32) {
	if offset > len(text) {
		offset = len(text)
	}
	for i, r := range text {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			character = 0
			continue
		}
		character += uint32(utf16.RuneLen(r))
	}
	return line, character
}

// PositionToOffset is the inverse of OffsetToPosition. A column past the end
// of its line clamps to the line end; a line past the end clamps to len(text).
func PositionToOffset(text string, line, character uint32) int {
	offset := 0
	for l := uint32(0); l < line; l++ {
		next := strings.IndexByte(text[offset:], '\n')
		if next < 0 {
			return len(text)
		}
		offset += next + 1
	}

	var units uint32
	for offset < len(text) && units < character {
		r, size := utf8.DecodeRuneInString(text[offset:])
		if r == '\n' {
			break
		}
		n := uint32(utf16.RuneLen(r))
		if units+n > character {
			break
		}
		units += n
		offset += size
	}
	return offset
}
