// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import (
	"strconv"
	"strings"
)

// Decoder is the IRC-to-renderer style decoder (spec §4.3.1). A zero
// Decoder has KeepColors false, so it drops every sentinel.
type Decoder struct {
	// KeepColors, when false, drops every sentinel and emits text bytes
	// only.
	KeepColors bool

	// MIRCRemap and TermRemap override the default color mapping for
	// specific "fg,bg" keys, decimal mIRC/terminal indices respectively,
	// to a renderer color spec string. A key miss falls through to the
	// default table.
	MIRCRemap map[string]string
	TermRemap map[string]string
}

// Span is one decoded run: either a literal text run, or a style/color
// event, in document order.
type Span struct {
	Text string

	Bold, Italic, Underline, Reverse, Reset bool

	HasColor       bool
	Foreground     string
	Background     string
	HasBackground  bool
}

// Decode scans raw left to right, interpreting the five style sentinels
// and the mIRC/hex color sentinels, and returns the ordered span
// sequence. Non-sentinel bytes are copied verbatim, grouped into Span.Text
// runs; multi-byte UTF-8 scalars are never split.
func (d *Decoder) Decode(raw string) []Span {
	var spans []Span
	var textRun strings.Builder

	flush := func() {
		if textRun.Len() > 0 {
			spans = append(spans, Span{Text: textRun.String()})
			textRun.Reset()
		}
	}

	i := 0
	for i < len(raw) {
		c := raw[i]
		switch c {
		case Bold, Reset, Reverse, Italic, Underline:
			flush()
			if d.KeepColors {
				spans = append(spans, styleSpan(c))
			}
			i++
		case MIRCColor:
			flush()
			n := 1
			fg, bg, hasFg, hasBg, consumed := parseMIRCColor(raw[i+1:])
			n += consumed
			if d.KeepColors {
				spans = append(spans, d.mircColorSpan(fg, bg, hasFg, hasBg))
			}
			i += n
		case HexColor:
			flush()
			n := 1
			fg, bg, hasFg, hasBg, consumed := parseHexColor(raw[i+1:])
			n += consumed
			if d.KeepColors {
				spans = append(spans, d.hexColorSpan(fg, bg, hasFg, hasBg))
			}
			i += n
		default:
			size := utf8ScalarLen(c)
			if i+size > len(raw) {
				size = 1
			}
			textRun.WriteString(raw[i : i+size])
			i += size
		}
	}
	flush()
	return spans
}

func styleSpan(c byte) Span {
	switch c {
	case Bold:
		return Span{Bold: true}
	case Reset:
		return Span{Reset: true}
	case Reverse:
		return Span{Reverse: true}
	case Italic:
		return Span{Italic: true}
	case Underline:
		return Span{Underline: true}
	}
	return Span{}
}

// parseMIRCColor reads an optional 1-2 digit fg, optional ",""1-2 digit bg
// following a 0x03 sentinel, returning the digit values mod 100 and how
// many bytes were consumed.
func parseMIRCColor(rest string) (fg, bg int, hasFg, hasBg bool, consumed int) {
	i := 0
	fgDigits := takeDigits(rest, &i, 2)
	if fgDigits != "" {
		n, _ := strconv.Atoi(fgDigits)
		fg, hasFg = n%100, true
	}
	if i < len(rest) && rest[i] == ',' {
		save := i
		i++
		bgDigits := takeDigits(rest, &i, 2)
		if bgDigits != "" {
			n, _ := strconv.Atoi(bgDigits)
			bg, hasBg = n%100, true
		} else {
			i = save
		}
	}
	return fg, bg, hasFg, hasBg, i
}

// parseHexColor reads an optional up-to-6 hex digit fg, optional
// ",<=6 hex digit" bg following a 0x04 sentinel.
func parseHexColor(rest string) (fg, bg string, hasFg, hasBg bool, consumed int) {
	i := 0
	fg = takeHex(rest, &i, 6)
	hasFg = fg != ""
	if i < len(rest) && rest[i] == ',' {
		save := i
		i++
		bg = takeHex(rest, &i, 6)
		if bg != "" {
			hasBg = true
		} else {
			i = save
		}
	}
	return fg, bg, hasFg, hasBg, i
}

func takeDigits(s string, i *int, max int) string {
	start := *i
	for *i < len(s) && *i-start < max && s[*i] >= '0' && s[*i] <= '9' {
		*i++
	}
	return s[start:*i]
}

func takeHex(s string, i *int, max int) string {
	start := *i
	for *i < len(s) && *i-start < max && isHexDigit(s[*i]) {
		*i++
	}
	return s[start:*i]
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func (d *Decoder) mircColorSpan(fg, bg int, hasFg, hasBg bool) Span {
	sp := Span{HasColor: true}
	if hasFg {
		sp.Foreground = d.lookupMIRC(fg, bg, true)
	}
	if hasBg {
		sp.Background = d.lookupMIRC(fg, bg, false)
		sp.HasBackground = true
	}
	return sp
}

func (d *Decoder) lookupMIRC(fg, bg int, wantFg bool) string {
	key := strconv.Itoa(fg) + "," + strconv.Itoa(bg)
	if d.MIRCRemap != nil {
		if v, ok := d.MIRCRemap[key]; ok {
			return v
		}
	}
	if wantFg {
		return RendererColor(fg)
	}
	return RendererColor(bg)
}

func (d *Decoder) hexColorSpan(fg, bg string, hasFg, hasBg bool) Span {
	sp := Span{HasColor: true}
	if hasFg {
		sp.Foreground = d.lookupHex(fg, bg, true)
	}
	if hasBg {
		sp.Background = d.lookupHex(fg, bg, false)
		sp.HasBackground = true
	}
	return sp
}

func (d *Decoder) lookupHex(fg, bg string, wantFg bool) string {
	termFg, termBg := NearestTerminal(fg), NearestTerminal(bg)
	if d.TermRemap != nil {
		key := strconv.Itoa(termFg) + "," + strconv.Itoa(termBg)
		if v, ok := d.TermRemap[key]; ok {
			return v
		}
	}
	term := termFg
	if !wantFg {
		term = termBg
	}
	return RendererColor(TermToIRC(term))
}

func utf8ScalarLen(lead byte) int {
	switch {
	case lead&0x80 == 0x00:
		return 1
	case lead&0xE0 == 0xC0:
		return 2
	case lead&0xF0 == 0xE0:
		return 3
	case lead&0xF8 == 0xF0:
		return 4
	default:
		return 1
	}
}
