// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import "strconv"

// xterm256 is the standard 256-color xterm cube/ramp, used as the
// "nearest-terminal" lookup table the spec delegates RGB downsampling to
// (§4.3.1, §4.3.3).
var xterm256 = buildXterm256()

func buildXterm256() [256][3]int {
	var t [256][3]int
	// 0-15: the basic 16 colors, approximated with standard xterm RGB.
	basic := [16][3]int{
		{0, 0, 0}, {205, 0, 0}, {0, 205, 0}, {205, 205, 0},
		{0, 0, 238}, {205, 0, 205}, {0, 205, 205}, {229, 229, 229},
		{127, 127, 127}, {255, 0, 0}, {0, 255, 0}, {255, 255, 0},
		{92, 92, 255}, {255, 0, 255}, {0, 255, 255}, {255, 255, 255},
	}
	for i, c := range basic {
		t[i] = c
	}
	// 16-231: 6x6x6 RGB cube.
	steps := [6]int{0, 95, 135, 175, 215, 255}
	idx := 16
	for r := 0; r < 6; r++ {
		for g := 0; g < 6; g++ {
			for b := 0; b < 6; b++ {
				t[idx] = [3]int{steps[r], steps[g], steps[b]}
				idx++
			}
		}
	}
	// 232-255: grayscale ramp.
	for i := 0; i < 24; i++ {
		v := 8 + i*10
		t[232+i] = [3]int{v, v, v}
	}
	return t
}

// NearestTerminal converts a (possibly short or empty) hex RGB string
// like "f08" or "ff0088" into the nearest 256-color terminal index.
func NearestTerminal(hex string) int {
	r, g, b := parseHexRGB(hex)
	best, bestDist := 0, -1
	for i, c := range xterm256 {
		dr, dg, db := r-c[0], g-c[1], b-c[2]
		dist := dr*dr + dg*dg + db*db
		if bestDist < 0 || dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// parseHexRGB expands a 1-6 digit hex string to an (r,g,b) triple,
// treating it as up to 2 hex digits per channel, zero-padded.
func parseHexRGB(hex string) (r, g, b int) {
	padded := hex
	for len(padded) < 6 {
		padded += "0"
	}
	r = hexByte(padded[0:2])
	g = hexByte(padded[2:4])
	b = hexByte(padded[4:6])
	return
}

func hexByte(s string) int {
	n, err := strconv.ParseInt(s, 16, 32)
	if err != nil {
		return 0
	}
	return int(n)
}
