// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package rawring

import (
	"fmt"
	"strings"
)

// DefaultHexDumpWidth is the bytes-per-line used by Entry.Dump when the
// caller doesn't specify one.
const DefaultHexDumpWidth = 16

// HexDump renders data as hex bytes with an ASCII gutter, bytesPerLine
// bytes per row, each row prefixed with prefix (spec §2 shared
// utilities: hex dump, used here for Binary-flagged raw entries that
// can't be printed as text).
func HexDump(data []byte, bytesPerLine int, prefix string) string {
	if bytesPerLine <= 0 {
		bytesPerLine = DefaultHexDumpWidth
	}

	var b strings.Builder
	for offset := 0; offset < len(data); offset += bytesPerLine {
		end := offset + bytesPerLine
		if end > len(data) {
			end = len(data)
		}
		line := data[offset:end]

		if offset > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(prefix)
		for i := 0; i < bytesPerLine; i++ {
			if i > 0 && i%8 == 0 {
				b.WriteByte(' ')
			}
			if i < len(line) {
				fmt.Fprintf(&b, "%02X ", line[i])
			} else {
				b.WriteString("   ")
			}
		}
		b.WriteByte(' ')
		for _, c := range line {
			if c >= 0x20 && c < 0x7f {
				b.WriteByte(c)
			} else {
				b.WriteByte('.')
			}
		}
	}
	return b.String()
}

// Dump renders e.Bytes for display: a hex dump when Binary is set (the
// payload isn't valid text), or the raw bytes as-is otherwise.
func (e Entry) Dump(bytesPerLine int) string {
	if e.Flags.Has(Binary) {
		return HexDump(e.Bytes, bytesPerLine, "  > ")
	}
	return string(e.Bytes)
}
