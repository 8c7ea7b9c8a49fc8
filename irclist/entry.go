// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

// Package irclist implements the channel-list pipeline: LIST reply
// ingestion, filtering, sorting, and a selection cursor over the result.
package irclist

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Entry is one channel-list row (spec §3.3).
type Entry struct {
	Name  string // raw name including sigil
	Name2 string // Name with leading sigil run stripped
	Users int
	Topic string
}

// stripSigil strips the leading run of sigil bytes from a channel name.
func stripSigil(name, chantypes string) string {
	i := 0
	for i < len(name) && strings.IndexByte(chantypes, name[i]) >= 0 {
		i++
	}
	return name[i:]
}

// Ingest parses a redirected LIST reply: a newline-joined stream of raw
// IRC lines. Only command "322" with at least 3 params contributes an
// entry (spec §4.4 Ingest). parseFn decomposes one line into
// (command, params); callers pass ircore.Parse-equivalent semantics.
func Ingest(raw string, chantypes string, parseFn func(line string) (command string, params []string)) []*Entry {
	var entries []*Entry
	for _, line := range strings.Split(raw, "\n") {
		if line == "" {
			continue
		}
		cmd, params := parseFn(line)
		if cmd != "322" || len(params) < 3 {
			continue
		}
		name := params[1]
		users, _ := strconv.Atoi(params[2])
		topic := ""
		if len(params) >= 4 {
			topic = params[3]
		}
		entries = append(entries, &Entry{
			Name:  name,
			Name2: stripSigil(name, chantypes),
			Users: users,
			Topic: topic,
		})
	}
	return entries
}

// MaxNameWidth returns the maximum display width (not byte length) of
// Name across entries, used for column alignment.
func MaxNameWidth(entries []*Entry) int {
	max := 0
	for _, e := range entries {
		if w := runewidth.StringWidth(e.Name); w > max {
			max = w
		}
	}
	return max
}
