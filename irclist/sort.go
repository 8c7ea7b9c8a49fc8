// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package irclist

import (
	"sort"
	"strings"
)

// sortField is one parsed comma-separated sort-spec field (spec §4.4
// Sort): a field name, optionally prefixed by any combination of '-'
// (reverse) and '~' (case-insensitive), stackable so "--" toggles
// reverse back off.
type sortField struct {
	name       string
	reverse    bool
	ignoreCase bool
}

func parseSortSpec(spec string) []sortField {
	var fields []sortField
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		f := sortField{}
		i := 0
		for i < len(raw) {
			switch raw[i] {
			case '-':
				f.reverse = !f.reverse
				i++
			case '~':
				f.ignoreCase = true
				i++
			default:
				f.name = raw[i:]
				i = len(raw)
			}
		}
		fields = append(fields, f)
	}
	return fields
}

func compareField(a, b *Entry, f sortField) int {
	var cmp int
	switch f.name {
	case "users":
		cmp = a.Users - b.Users
	case "topic":
		cmp = compareStrings(a.Topic, b.Topic, f.ignoreCase)
	case "name2":
		cmp = compareStrings(a.Name2, b.Name2, f.ignoreCase)
	default: // "name" and anything unrecognized
		cmp = compareStrings(a.Name, b.Name, f.ignoreCase)
	}
	if f.reverse {
		cmp = -cmp
	}
	return cmp
}

func compareStrings(a, b string, ignoreCase bool) int {
	if ignoreCase {
		a, b = strings.ToLower(a), strings.ToLower(b)
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Sort orders entries in place per the comma-separated spec string,
// walking fields left to right and returning the first non-zero
// comparison (spec §4.4 Sort).
func Sort(entries []*Entry, spec string) {
	fields := parseSortSpec(spec)
	if len(fields) == 0 {
		return
	}
	sort.SliceStable(entries, func(i, j int) bool {
		for _, f := range fields {
			if c := compareField(entries[i], entries[j], f); c != 0 {
				return c < 0
			}
		}
		return false
	})
}
