// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import "strings"

// knownCaps are the capability tokens the core understands well enough to
// apply their values to Server state, adapted from the teacher's
// possibleCap table (cap.go) and pared down to the ones spec §3.1/§4.2
// actually consume.
var knownCaps = map[string]bool{
	"batch":             true,
	"draft/multiline":   true,
	"echo-message":      true,
	"extended-join":     true,
	"account-notify":    true,
	"away-notify":       true,
	"chghost":           true,
	"multi-prefix":      true,
	"cap-notify":        true,
	"userhost-in-names": true,
}

// ParseCapLS decodes one "CAP * LS" trailing value into a token->values
// map, same shape as the teacher's parseCap (cap.go), generalized to
// accept any token set rather than a client-local possibleCap table.
func ParseCapLS(raw string) map[string][]string {
	out := make(map[string][]string)
	for _, tok := range strings.Fields(raw) {
		if i := strings.IndexByte(tok, '='); i > 0 && i+1 < len(tok) {
			out[tok[:i]] = strings.Split(tok[i+1:], ",")
		} else if i := strings.IndexByte(tok, '='); i > 0 {
			out[tok[:i]] = []string{}
		} else {
			out[tok] = nil
		}
	}
	return out
}

// ApplyCapLS enables every token in offered that the core knows how to
// use, and folds draft/multiline's "max-bytes=N,max-lines=N" value into
// Server.MultilineMaxBytes/MultilineMaxLines.
func (s *Server) ApplyCapLS(offered map[string][]string) (request []string) {
	for tok, vals := range offered {
		lower := strings.ToLower(tok)
		if !knownCaps[lower] {
			continue
		}
		request = append(request, tok)
		if lower == "draft/multiline" {
			s.applyMultilineValue(vals)
		}
	}
	return request
}

// applyMultilineValue parses draft/multiline's comma-separated
// "max-bytes=N,max-lines=N" capability value (spec §4.2).
func (s *Server) applyMultilineValue(vals []string) {
	var maxBytes, maxLines int
	for _, v := range vals {
		if i := strings.IndexByte(v, '='); i > 0 {
			key, num := v[:i], v[i+1:]
			n, ok := atoiSafe(num)
			if !ok {
				continue
			}
			switch key {
			case "max-bytes":
				maxBytes = n
			case "max-lines":
				maxLines = n
			}
		}
	}
	s.mu.Lock()
	s.MultilineMaxBytes = maxBytes
	s.MultilineMaxLines = maxLines
	s.mu.Unlock()
}

// AckCap enables tokens acknowledged via "CAP * ACK".
func (s *Server) AckCap(raw string) {
	for _, tok := range strings.Fields(raw) {
		enable := true
		if strings.HasPrefix(tok, "-") {
			enable, tok = false, tok[1:]
		}
		s.SetCap(tok, enable)
	}
}
