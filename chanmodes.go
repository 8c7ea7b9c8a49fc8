// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import "strings"

// ChanModeClasses classifies CHANMODES=A,B,C,D (spec §6.2's ISUPPORT
// fold, extended here since channel mode tracking needs the four-way
// split to know which mode letters carry an argument).
//
// A: always takes an arg (list mode: ban, exempt, invex, …).
// B: always takes an arg (key, forward, …).
// C: takes an arg only when being set.
// D: never takes an arg.
type ChanModeClasses struct {
	raw string
	a, b, c, d string
}

// DefaultChanModeClasses is applied before ISUPPORT has advertised a
// CHANMODES token.
var DefaultChanModeClasses = ChanModeClasses{raw: "b,k,l,imnpst", a: "b", b: "k", c: "l", d: "imnpst"}

// ParseChanModeClasses decodes an ISUPPORT CHANMODES value. A malformed
// value (not exactly 4 comma-separated groups) falls back to
// DefaultChanModeClasses.
func ParseChanModeClasses(raw string) ChanModeClasses {
	parts := strings.SplitN(raw, ",", 4)
	if len(parts) != 4 {
		return DefaultChanModeClasses
	}
	return ChanModeClasses{raw: raw, a: parts[0], b: parts[1], c: parts[2], d: parts[3]}
}

func (c ChanModeClasses) hasArg(adding bool, mode byte) bool {
	switch {
	case strings.IndexByte(c.a, mode) >= 0:
		return true
	case strings.IndexByte(c.b, mode) >= 0:
		return true
	case strings.IndexByte(c.c, mode) >= 0:
		return adding
	default:
		return false
	}
}

// ModeChange is one +/- flag decoded from a MODE command's flags+args
// (spec §3.1's channel mode tracking).
type ModeChange struct {
	Add  bool
	Mode byte
	Arg  string // "" if this mode letter takes no argument
}

// ParseModeChange decodes a MODE command's "<flags> [args...]" pair
// into individual ModeChanges, consuming arguments left to right for
// every flag that classes says takes one (spec §3.1, grounded on the
// teacher's CModes.parse, modes.go).
func ParseModeChange(classes ChanModeClasses, prefixModes, flags string, args []string) []ModeChange {
	var out []ModeChange
	add := true
	argN := 0

	for i := 0; i < len(flags); i++ {
		switch flags[i] {
		case '+':
			add = true
			continue
		case '-':
			add = false
			continue
		}

		mode := flags[i]
		mc := ModeChange{Add: add, Mode: mode}

		takesArg := classes.hasArg(add, mode) || strings.IndexByte(prefixModes, mode) >= 0
		if takesArg && argN < len(args) {
			mc.Arg = args[argN]
			argN++
		}
		out = append(out, mc)
	}
	return out
}

// ApplyChanModes folds a MODE target's decoded changes into the
// channel's Modes set (spec §3.1): D/C/B-class modes with no list
// semantics are tracked as a simple set of letters, replacing on
// add/remove; A-class (list) modes and prefix-class modes are not
// tracked here since their state lives on Nick.Prefixes or in a
// separate ban-list view the core doesn't maintain.
func ApplyChanModes(current map[byte]string, classes ChanModeClasses, prefixModes string, changes []ModeChange) map[byte]string {
	if current == nil {
		current = make(map[byte]string)
	}
	for _, mc := range changes {
		if strings.IndexByte(classes.a, mc.Mode) >= 0 || strings.IndexByte(prefixModes, mc.Mode) >= 0 {
			continue
		}
		if mc.Add {
			current[mc.Mode] = mc.Arg
		} else {
			delete(current, mc.Mode)
		}
	}
	return current
}
