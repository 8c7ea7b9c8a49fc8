// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package irclist

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// Filter compiles filterStr once (spec §4.4 Filter) and returns a
// predicate over *Entry.
type Filter struct {
	fn func(*Entry) bool
}

// NewFilter parses filterStr into a reusable Filter. A malformed "c:"
// expression yields a Filter that rejects everything, rather than an
// error, matching the pipeline's "filtering never blocks rendering"
// posture.
func NewFilter(filterStr string) *Filter {
	s := strings.TrimSpace(filterStr)

	switch {
	case s == "" || s == "*":
		return &Filter{fn: func(*Entry) bool { return true }}

	case strings.HasPrefix(s, "c:"):
		program, err := expr.Compile(s[2:], expr.AsBool())
		if err != nil {
			return &Filter{fn: func(*Entry) bool { return false }}
		}
		return &Filter{fn: func(e *Entry) bool {
			env := map[string]interface{}{
				"name": e.Name, "name2": e.Name2, "users": e.Users, "topic": e.Topic, "entry": e,
			}
			out, err := expr.Run(program, env)
			if err != nil {
				return false
			}
			b, _ := out.(bool)
			return b
		}}

	case strings.HasPrefix(s, "n:"):
		pat := s[2:]
		return &Filter{fn: func(e *Entry) bool { return matchPattern(pat, e.Name) }}

	case strings.HasPrefix(s, "t:"):
		pat := s[2:]
		return &Filter{fn: func(e *Entry) bool { return matchPattern(pat, e.Topic) }}

	case strings.HasPrefix(s, "u:"):
		return &Filter{fn: userFilter(s[2:])}

	default:
		return &Filter{fn: func(e *Entry) bool {
			return matchPattern(s, e.Name) || matchPattern(s, e.Topic)
		}}
	}
}

// Apply returns the subset of entries that pass the filter.
func (f *Filter) Apply(entries []*Entry) []*Entry {
	var out []*Entry
	for _, e := range entries {
		if f.fn(e) {
			out = append(out, e)
		}
	}
	return out
}

// matchPattern applies a case-insensitive substring test when pat
// contains no '*', or a glob otherwise (spec §4.4 n:/t: semantics).
func matchPattern(pat, value string) bool {
	if !strings.Contains(pat, "*") {
		return strings.Contains(strings.ToLower(value), strings.ToLower(pat))
	}
	ok, err := filepath.Match(strings.ToLower(pat), strings.ToLower(value))
	return err == nil && ok
}

// userFilter implements "u:<n>" (>=), "u:>n" (>), "u:<n" (< -- note the
// leading '<' shares a byte with the filter's own prefix character, so
// it's disambiguated by position: a second '<' here means "less than").
func userFilter(rest string) func(*Entry) bool {
	if rest == "" {
		return func(*Entry) bool { return true }
	}

	op := byte('>')
	hasOp := rest[0] == '>' || rest[0] == '<'
	if rest[0] == '=' {
		hasOp, op = true, '='
	}
	numStr := rest
	if hasOp {
		op = rest[0]
		numStr = rest[1:]
	}

	n, err := strconv.Atoi(numStr)
	if err != nil {
		return func(*Entry) bool { return false }
	}

	switch op {
	case '>':
		if !hasOp {
			return func(e *Entry) bool { return e.Users >= n }
		}
		return func(e *Entry) bool { return e.Users > n }
	case '<':
		return func(e *Entry) bool { return e.Users < n }
	default:
		return func(e *Entry) bool { return e.Users >= n }
	}
}
