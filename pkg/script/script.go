// Package script decides whether a display name contains non-Latin script or emoji.
//
// A name is flagged when at least one character belongs to the Arabic ranges, the
// CJK Unified Ideographs block, the basic Cyrillic alphabet, or the emoji table.
package script

import (
	"unicode"

	"github.com/rivo/uniseg"
)

var arabic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0600, Hi: 0x06ff, Stride: 1},
		{Lo: 0x0750, Hi: 0x077f, Stride: 1},
		{Lo: 0xfb50, Hi: 0xfbc1, Stride: 1},
		{Lo: 0xfbd3, Hi: 0xfd3f, Stride: 1},
		{Lo: 0xfd50, Hi: 0xfd8f, Stride: 1},
		{Lo: 0xfd92, Hi: 0xfdc7, Stride: 1},
		{Lo: 0xfdf0, Hi: 0xfdfd, Stride: 1},
		{Lo: 0xfe70, Hi: 0xfefc, Stride: 1},
	},
}

var cjk = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x4e00, Hi: 0x9fff, Stride: 1},
	},
}

// А..я, without Ё and ё.
var cyrillic = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x0410, Hi: 0x044f, Stride: 1},
	},
}

// IsFlagged reports whether name contains a flagged character. It never fails,
// invalid UTF-8 sequences are simply not matched.
func IsFlagged(name string) bool {
	if name == "" {
		return false
	}

	for _, r := range name {
		if unicode.In(r, arabic, cjk, cyrillic) {
			return true
		}
	}

	return HasEmoji(name)
}

// HasEmoji reports whether any user-perceived character of s is an emoji.
// Skin tone modifiers, flags and joined sequences count as one character.
func HasEmoji(s string) bool {
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		for _, r := range gr.Runes() {
			if unicode.Is(emoji, r) {
				return true
			}
		}
	}
	return false
}
