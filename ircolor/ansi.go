// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import (
	"strconv"
	"strings"
)

const (
	esc byte = 0x1B
	csi byte = '['
)

// ANSIDecoder decodes ANSI CSI SGR sequences into IRC sentinel bytes
// (spec §4.3.3), carrying bold/italic/underline state across sequences
// so a style sentinel is only emitted on a genuine transition.
type ANSIDecoder struct {
	KeepColors bool

	bold, italic, underline bool
}

// Decode scans raw for `ESC '[' params 'm'` sequences; any other CSI
// sequence is discarded. Non-CSI bytes are copied through verbatim.
func (a *ANSIDecoder) Decode(raw string) string {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		if raw[i] == esc && i+1 < len(raw) && raw[i+1] == csi {
			end := i + 2
			for end < len(raw) && !isCSIFinal(raw[end]) {
				end++
			}
			if end >= len(raw) {
				break
			}
			final := raw[end]
			params := raw[i+2 : end]
			if final == 'm' {
				if a.KeepColors {
					b.WriteString(a.dispatchSGR(params))
				}
			}
			i = end + 1
			continue
		}
		b.WriteByte(raw[i])
		i++
	}
	return b.String()
}

func isCSIFinal(c byte) bool {
	return c >= 0x40 && c <= 0x7E
}

func (a *ANSIDecoder) dispatchSGR(params string) string {
	if params == "" {
		params = "0"
	}
	fields := strings.Split(params, ";")
	var b strings.Builder

	for i := 0; i < len(fields); i++ {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			continue
		}
		switch {
		case n == 0:
			b.WriteByte(Reset)
			a.bold, a.italic, a.underline = false, false, false
		case n == 1 || n == 2:
			a.toggleBold(true, &b)
		case n == 21 || n == 22:
			a.toggleBold(false, &b)
		case n == 3:
			a.toggleItalic(true, &b)
		case n == 23:
			a.toggleItalic(false, &b)
		case n == 4:
			a.toggleUnderline(true, &b)
		case n == 24:
			a.toggleUnderline(false, &b)
		case n >= 30 && n <= 37:
			writeColor(&b, true, TermToIRC(n-30))
		case n == 38:
			i = a.writeExtended(fields, i, &b, true)
		case n == 39:
			writeColor(&b, true, 15)
		case n >= 40 && n <= 47:
			writeColor(&b, false, TermToIRC(n-40))
		case n == 48:
			i = a.writeExtended(fields, i, &b, false)
		case n == 49:
			writeColor(&b, false, 1)
		case n >= 90 && n <= 97:
			writeColor(&b, true, TermToIRC(n-90+8))
		case n >= 100 && n <= 107:
			writeColor(&b, false, TermToIRC(n-100+8))
		}
	}
	return b.String()
}

func (a *ANSIDecoder) toggleBold(on bool, b *strings.Builder) {
	if a.bold != on {
		b.WriteByte(Bold)
		a.bold = on
	}
}

func (a *ANSIDecoder) toggleItalic(on bool, b *strings.Builder) {
	if a.italic != on {
		b.WriteByte(Italic)
		a.italic = on
	}
}

func (a *ANSIDecoder) toggleUnderline(on bool, b *strings.Builder) {
	if a.underline != on {
		b.WriteByte(Underline)
		a.underline = on
	}
}

// writeExtended handles the 38;2;r;g;b / 38;5;n (and 48-prefixed
// background equivalents) extended-color SGR forms, returning the new
// field cursor index after consuming the extra parameters.
func (a *ANSIDecoder) writeExtended(fields []string, i int, b *strings.Builder, fg bool) int {
	if i+1 >= len(fields) {
		return i
	}
	mode := fields[i+1]
	switch mode {
	case "2":
		if i+4 >= len(fields) {
			return i + 1
		}
		r, _ := strconv.Atoi(fields[i+2])
		g, _ := strconv.Atoi(fields[i+3])
		bl, _ := strconv.Atoi(fields[i+4])
		term := NearestTerminal(toHex(r) + toHex(g) + toHex(bl))
		writeColor(b, fg, TermToIRC(term))
		return i + 4
	case "5":
		if i+2 >= len(fields) {
			return i + 1
		}
		n, _ := strconv.Atoi(fields[i+2])
		writeColor(b, fg, TermToIRC(n))
		return i + 2
	}
	return i + 1
}

func toHex(v int) string {
	s := strconv.FormatInt(int64(v), 16)
	if len(s) == 1 {
		s = "0" + s
	}
	return s
}

// writeColor emits a mIRC color sentinel for a foreground-only change.
// Background-only SGR codes still need an explicit (default) foreground
// slot, since "\x03,<n>" alone is not valid mIRC syntax.
func writeColor(b *strings.Builder, fg bool, ircIdx int) {
	b.WriteByte(MIRCColor)
	if fg {
		b.WriteString(strconv.Itoa(ircIdx))
		return
	}
	b.WriteString("99,")
	b.WriteString(strconv.Itoa(ircIdx))
}
