// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import "strings"

// Encoder is the renderer-to-IRC style encoder (spec §4.3.2): the
// inverse of Decoder, accepting the same five style sentinels plus
// 0x03/0x04 color sentinels from renderer-produced text, passing them
// through verbatim or stripping them when KeepColors is false.
type Encoder struct {
	KeepColors bool
}

// Encode copies raw through, stripping every recognized sentinel when
// KeepColors is false. Text is copied by UTF-8 scalar so no codepoint is
// ever split.
func (e *Encoder) Encode(raw string) string {
	if e.KeepColors {
		return raw
	}

	var b strings.Builder
	b.Grow(len(raw))
	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case Bold, Reset, Reverse, Italic, Underline:
			i++
		case MIRCColor:
			i++
			_, _, _, _, n := parseMIRCColor(raw[i:])
			i += n
		case HexColor:
			i++
			_, _, _, _, n := parseHexColor(raw[i:])
			i += n
		default:
			size := utf8ScalarLen(c)
			if i+size > len(raw) {
				size = 1
			}
			b.WriteString(raw[i : i+size])
			i += size
		}
	}
	return b.String()
}

// aliasColor pairs a set of "{name}" aliases with the mIRC sentinel it
// expands to, grounded verbatim on the teacher's color table
// (format.go).
type aliasColor struct {
	aliases []string
	val     string
}

var aliasColors = []aliasColor{
	{[]string{"white"}, "\x0300"},
	{[]string{"black"}, "\x0301"},
	{[]string{"blue", "navy"}, "\x0302"},
	{[]string{"green"}, "\x0303"},
	{[]string{"red"}, "\x0304"},
	{[]string{"brown", "maroon"}, "\x0305"},
	{[]string{"purple"}, "\x0306"},
	{[]string{"orange", "olive", "gold"}, "\x0307"},
	{[]string{"yellow"}, "\x0308"},
	{[]string{"lightgreen", "lime"}, "\x0309"},
	{[]string{"teal"}, "\x0310"},
	{[]string{"cyan"}, "\x0311"},
	{[]string{"lightblue", "royal"}, "\x0312"},
	{[]string{"lightpurple", "pink", "fuchsia"}, "\x0313"},
	{[]string{"grey", "gray"}, "\x0314"},
	{[]string{"lightgrey", "silver"}, "\x0315"},
	{[]string{"bold", "b"}, "\x02"},
	{[]string{"italic", "i"}, "\x1d"},
	{[]string{"reset", "r"}, "\x0f"},
	{[]string{"clear", "c"}, "\x03"},
	{[]string{"reverse"}, "\x16"},
	{[]string{"underline", "ul"}, "\x1f"},
}

// ExpandAliases turns "{red}"-style color names into their mIRC sentinel
// form, the same convenience the teacher's Format exposed for building
// outgoing messages (format.go).
func ExpandAliases(text string) string {
	for _, c := range aliasColors {
		for _, a := range c.aliases {
			text = strings.ReplaceAll(text, "{"+a+"}", c.val)
		}
	}
	return text
}

// StripAliases removes "{color}"-style alias tokens without expanding
// them.
func StripAliases(text string) string {
	for _, c := range aliasColors {
		for _, a := range c.aliases {
			text = strings.ReplaceAll(text, "{"+a+"}", "")
		}
	}
	return text
}
