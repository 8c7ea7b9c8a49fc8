// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

// Package ircolor implements the IRC color/format sentinel codec: mIRC
// color codes, hex/RGB true-color codes, and ANSI CSI SGR sequences,
// translated to and from a renderer-neutral color spec string.
package ircolor

// Style sentinel bytes, grounded on the teacher's format.go alias table
// (\x02 bold, \x0f reset, \x16 reverse, \x1d italic, \x1f underline) plus
// the mIRC/hex color sentinels the teacher's table didn't need to
// distinguish (it only ever emitted them, never decoded them).
const (
	Bold      = 0x02
	MIRCColor = 0x03
	HexColor  = 0x04
	Reset     = 0x0F
	Reverse   = 0x16
	Italic    = 0x1D
	Underline = 0x1F
)

// ircToRenderer is the 99-entry mIRC-index -> renderer color-name
// palette. Index 99 is not stored here; callers treat it (and anything
// >= len(ircToRenderer)) as "default".
var ircToRenderer = [99]string{
	"white", "black", "blue", "green", "red", "brown", "purple", "orange",
	"yellow", "lightgreen", "teal", "cyan", "lightblue", "pink", "grey",
	"lightgrey",
	// 16-98 are the IRC "extended colors" de-facto standard, stored as
	// generic "color<N>" identifiers.
	"color16", "color17", "color18", "color19", "color20", "color21",
	"color22", "color23", "color24", "color25", "color26", "color27",
	"color28", "color29", "color30", "color31", "color32", "color33",
	"color34", "color35", "color36", "color37", "color38", "color39",
	"color40", "color41", "color42", "color43", "color44", "color45",
	"color46", "color47", "color48", "color49", "color50", "color51",
	"color52", "color53", "color54", "color55", "color56", "color57",
	"color58", "color59", "color60", "color61", "color62", "color63",
	"color64", "color65", "color66", "color67", "color68", "color69",
	"color70", "color71", "color72", "color73", "color74", "color75",
	"color76", "color77", "color78", "color79", "color80", "color81",
	"color82", "color83", "color84", "color85", "color86", "color87",
	"color88", "color89", "color90", "color91", "color92", "color93",
	"color94", "color95", "color96", "color97", "color98",
}

// RendererColor returns the renderer color spec for mIRC palette index
// idx (taken modulo 100 by the caller beforehand), or "default" for 99
// and out-of-range values (spec §4.3.1).
func RendererColor(idx int) string {
	if idx < 0 || idx >= len(ircToRenderer) {
		return "default"
	}
	return ircToRenderer[idx]
}

// term2irc maps terminal 8/16-color indices (0-15) to IRC mIRC palette
// indices, used by the ANSI decoder (spec §4.3.3 table).
var term2irc = [16]int{
	1,  // black
	4,  // red
	3,  // green
	7,  // yellow
	2,  // blue
	6,  // magenta/purple
	10, // cyan
	0,  // white
	14, // bright black (grey)
	4,  // bright red
	9,  // bright green
	8,  // bright yellow
	12, // bright blue
	13, // bright magenta
	11, // bright cyan
	0,  // bright white
}

// TermToIRC converts a terminal color index (0-15) to its IRC mIRC
// palette index.
func TermToIRC(term int) int {
	if term < 0 || term >= len(term2irc) {
		return 99
	}
	return term2irc[term]
}
