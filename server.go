// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import (
	"log"
	"sort"
	"strings"
	"sync"

	cmap "github.com/orcaman/concurrent-map"

	"github.com/kestrelchat/ircore/ircfg"
	"github.com/kestrelchat/ircore/rawring"
)

// DefaultRawRingCapacity bounds the raw-message ring installed by
// NewServer (spec §3.6).
const DefaultRawRingCapacity = 500

// Default values applied when ISUPPORT hasn't (yet) advertised otherwise
// (spec §3.1).
const (
	DefaultChanTypes    = "#&"
	DefaultPrefixModes  = "ov"
	DefaultPrefixChars  = "@+"
	DefaultMsgMaxLength = 512
)

// UTF8Mapping controls nick validity checking (spec §3.1).
type UTF8Mapping int

const (
	UTF8MappingNone UTF8Mapping = iota
	UTF8MappingRFC8265
)

// Server holds the per-connection state the core reads and writes (spec
// §3.1). Collections that may be touched from relay client goroutines
// while the core's own event loop runs concurrently are backed by
// cmap.ConcurrentMap, the same structure the teacher uses for its
// client/channel state (state.go).
type Server struct {
	mu sync.RWMutex

	Name          string
	IsConnected   bool
	TLSConnected  bool
	Nick          string
	Host          string

	PrefixModes string
	PrefixChars string

	// ChanModes classifies CHANMODES=A,B,C,D so MODE lines can be
	// decoded without guessing which letters take an argument.
	ChanModes ChanModeClasses

	ChanTypes   string
	UTF8Mapping UTF8Mapping

	NickMaxLength int
	UserMaxLength int
	HostMaxLength int
	MsgMaxLength  int

	// DisableSplit bypasses Split entirely, emitting a single frame
	// regardless of MsgMaxLength. Distinct from MsgMaxLength==0, which
	// instead falls back to the 512-byte default budget.
	DisableSplit bool

	MultilineMaxBytes int
	MultilineMaxLines int

	Monitor int

	Channels cmap.ConcurrentMap // name (casefolded) -> *Channel
	Notify   cmap.ConcurrentMap // nick (casefolded) -> *ircnotify.Entry

	// RawLog is the bounded ring of raw wire traffic kept for
	// observability (spec §3.6). Nil disables recording.
	RawLog *rawring.Ring

	capList map[string]bool

	Log *log.Logger
}

// NewServer returns a Server with spec-mandated defaults applied. Logger
// may be nil, in which case a discarding logger is installed, matching
// the teacher's Config.Logger default (client.go).
func NewServer(name string, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(discardWriter{}, "", 0)
	}
	return &Server{
		Name:         name,
		ChanTypes:    DefaultChanTypes,
		ChanModes:    DefaultChanModeClasses,
		PrefixModes:  DefaultPrefixModes,
		PrefixChars:  DefaultPrefixChars,
		MsgMaxLength: DefaultMsgMaxLength,
		Channels:     cmap.New(),
		Notify:       cmap.New(),
		RawLog:       rawring.New(DefaultRawRingCapacity),
		capList:      make(map[string]bool),
		Log:          logger,
	}
}

// RecordRaw appends one raw wire line to RawLog, if installed. Sent and
// Recv classify direction; Binary marks a payload the codec couldn't
// decode as UTF-8, matching the relay layer's own framing distinction.
func (s *Server) RecordRaw(flags rawring.Flag, b []byte) {
	if s.RawLog == nil {
		return
	}
	s.RawLog.Push(s.Name, flags, b)
}

// NewServerFromOptions builds a Server the way NewServer does, then
// applies any overrides present in opts (spec §6.6): the raw-message
// ring capacity and the outbound split length budget are the two
// Server-level knobs a deployment can tune through the mapping
// interface rather than ISUPPORT.
func NewServerFromOptions(name string, opts *ircfg.Options, logger *log.Logger) *Server {
	s := NewServer(name, logger)
	if opts == nil {
		return s
	}
	s.RawLog = rawring.New(opts.IntMin(ircfg.KeyRawMessageCap, DefaultRawRingCapacity, 1))
	s.MsgMaxLength = opts.IntMin(ircfg.KeySplitMaxLength, DefaultMsgMaxLength, 1)
	return s
}

// BanMaskFor expands opts' configured ban-mask template (ircfg.
// KeyBanMaskTemplate, default DefaultBanMaskTemplate) against n's host
// mask (spec §2, §6.6).
func (s *Server) BanMaskFor(n *Nick, opts *ircfg.Options) string {
	template := DefaultBanMaskTemplate
	if opts != nil {
		template = opts.String(ircfg.KeyBanMaskTemplate, DefaultBanMaskTemplate)
	}
	n.mu.RLock()
	host := n.Host
	n.mu.RUnlock()
	return BanMask(template, n.Name, host)
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// HasCap reports whether token is an enabled capability.
func (s *Server) HasCap(token string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.capList[strings.ToLower(token)]
}

// SetCap enables or disables a capability token.
func (s *Server) SetCap(token string, enabled bool) {
	token = strings.ToLower(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		s.capList[token] = true
	} else {
		delete(s.capList, token)
	}
}

// CapList returns the sorted set of enabled capability tokens.
func (s *Server) CapList() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.capList))
	for k := range s.capList {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ApplyISupport folds one RPL_ISUPPORT (005) parameter list into the
// server's tunable limits (spec §6.2). Unknown tokens are ignored.
// PREFIX re-application reallocates every tracked Nick's prefix string so
// the length invariant in spec §3.5 holds atomically.
func (s *Server) ApplyISupport(params []string) {
	for _, tok := range params {
		if tok == "" || strings.HasPrefix(tok, ":") {
			continue
		}
		key, val, hasVal := tok, "", false
		if i := strings.IndexByte(tok, '='); i >= 0 {
			key, val, hasVal = tok[:i], tok[i+1:], true
		}
		key = strings.ToUpper(key)

		switch key {
		case "CHANTYPES":
			if hasVal && val != "" {
				s.mu.Lock()
				s.ChanTypes = val
				s.mu.Unlock()
			}
		case "PREFIX":
			if hasVal {
				modes, chars := parseISupportPrefix(val)
				if len(modes) == len(chars) {
					s.applyPrefixes(modes, chars)
				}
			}
		case "NICKLEN":
			if n, ok := atoiSafe(val); ok && hasVal {
				s.mu.Lock()
				s.NickMaxLength = n
				s.mu.Unlock()
			}
		case "USERLEN":
			if n, ok := atoiSafe(val); ok && hasVal {
				s.mu.Lock()
				s.UserMaxLength = n
				s.mu.Unlock()
			}
		case "HOSTLEN":
			if n, ok := atoiSafe(val); ok && hasVal {
				s.mu.Lock()
				s.HostMaxLength = n
				s.mu.Unlock()
			}
		case "CHANMODES":
			if hasVal && val != "" {
				classes := ParseChanModeClasses(val)
				s.mu.Lock()
				s.ChanModes = classes
				s.mu.Unlock()
			}
		case "MONITOR":
			if n, ok := atoiSafe(val); ok && hasVal {
				s.mu.Lock()
				s.Monitor = n
				s.mu.Unlock()
			}
		case "UTF8MAPPING", "UTF8ONLY":
			s.mu.Lock()
			if val == "rfc8265" || key == "UTF8ONLY" {
				s.UTF8Mapping = UTF8MappingRFC8265
			}
			s.mu.Unlock()
		case "NETWORK":
			s.mu.Lock()
			s.Name = val
			s.mu.Unlock()
		}
	}
}

func atoiSafe(s string) (int, bool) {
	n := 0
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, true
}

// parseISupportPrefix decodes ISUPPORT's "PREFIX=(ov)@+" form.
func parseISupportPrefix(raw string) (modes, chars string) {
	if len(raw) == 0 || raw[0] != '(' {
		return "", ""
	}
	i := strings.IndexByte(raw, ')')
	if i < 0 {
		return "", ""
	}
	return raw[1:i], raw[i+1:]
}

// applyPrefixes installs a new prefix_modes/prefix_chars pair and
// reallocates every tracked Nick's positional prefix string to the new
// length, preserving which modes were set where possible (spec §3.5).
func (s *Server) applyPrefixes(modes, chars string) {
	s.mu.Lock()
	oldModes, oldChars := s.PrefixModes, s.PrefixChars
	s.PrefixModes = modes
	s.PrefixChars = chars
	s.mu.Unlock()

	for item := range s.Channels.IterBuffered() {
		ch, ok := item.Val.(*Channel)
		if !ok {
			continue
		}
		for nickItem := range ch.Nicks.IterBuffered() {
			n, ok := nickItem.Val.(*Nick)
			if !ok {
				continue
			}
			n.reallocatePrefixes(oldModes, oldChars, modes, chars)
		}
	}
}
