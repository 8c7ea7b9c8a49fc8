// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import (
	"strings"
	"sync"
	"time"

	cmap "github.com/orcaman/concurrent-map"
)

// Nick is a user as seen within one channel (spec §3.5). Prefixes is
// positional: byte i is PrefixChars[i] when the corresponding mode is
// set, or a space otherwise. The display prefix is the highest-ranked
// (lowest index) set byte.
type Nick struct {
	mu sync.RWMutex

	Name     string
	Host     string
	Account  string
	Realname string

	Prefixes string

	Joined time.Time
}

// NewNick returns a Nick with its Prefixes string sized to the server's
// current prefix count, all positions unset.
func NewNick(name string, s *Server) *Nick {
	s.mu.RLock()
	n := len(s.PrefixChars)
	s.mu.RUnlock()
	return &Nick{Name: name, Prefixes: strings.Repeat(" ", n), Joined: time.Now()}
}

// Prefix returns the single highest-ranked set prefix byte, or "" if none
// are set.
func (n *Nick) Prefix() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for i := 0; i < len(n.Prefixes); i++ {
		if n.Prefixes[i] != ' ' {
			return string(n.Prefixes[i])
		}
	}
	return ""
}

// HasMode reports whether the channel mode letter (e.g. 'o', 'v') is set
// for this nick, per the server's current PrefixModes ordering.
func (n *Nick) HasMode(mode byte, s *Server) bool {
	s.mu.RLock()
	idx := strings.IndexByte(s.PrefixModes, mode)
	s.mu.RUnlock()
	if idx < 0 {
		return false
	}
	n.mu.RLock()
	defer n.mu.RUnlock()
	return idx < len(n.Prefixes) && n.Prefixes[idx] != ' '
}

// SetMode sets or clears the positional bit for mode, per the server's
// current PrefixModes ordering.
func (n *Nick) SetMode(mode byte, set bool, s *Server) {
	s.mu.RLock()
	idx := strings.IndexByte(s.PrefixModes, mode)
	chars := s.PrefixChars
	s.mu.RUnlock()
	if idx < 0 {
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	b := []byte(n.Prefixes)
	for len(b) <= idx {
		b = append(b, ' ')
	}
	if set && idx < len(chars) {
		b[idx] = chars[idx]
	} else {
		b[idx] = ' '
	}
	n.Prefixes = string(b)
}

// SortKey returns a key for stable nick-list ordering: prefix rank (0 =
// highest) ahead of case-folded name, matching the "highest-ranked set
// byte" display rule of spec §3.5.
func (n *Nick) SortKey() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	rank := len(n.Prefixes)
	for i := 0; i < len(n.Prefixes); i++ {
		if n.Prefixes[i] != ' ' {
			rank = i
			break
		}
	}
	return string(rune('a'+rank)) + ToRFC1459(n.Name)
}

// reallocatePrefixes rebuilds Prefixes for a new PREFIX token, carrying
// forward any modes that still exist under the new mode set and dropping
// ones that don't (spec §3.5's atomic-reallocation invariant).
func (n *Nick) reallocatePrefixes(oldModes, oldChars, newModes, newChars string) {
	n.mu.Lock()
	old := n.Prefixes
	fresh := make([]byte, len(newChars))
	for i := range fresh {
		fresh[i] = ' '
	}
	for i := 0; i < len(oldModes) && i < len(old); i++ {
		if old[i] == ' ' {
			continue
		}
		if j := strings.IndexByte(newModes, oldModes[i]); j >= 0 && j < len(fresh) {
			fresh[j] = newChars[j]
		}
	}
	n.Prefixes = string(fresh)
	n.mu.Unlock()
}

// DefaultBanMaskTemplate is applied when no ban.mask_template override is
// configured (spec §6.6), matching the original's network.ban_mask_default.
const DefaultBanMaskTemplate = "*!$ident@$host"

// BanMask expands a ban-mask template against a nick name and its
// "ident@hostname" host string (spec §2 shared utilities). The
// recognized placeholders are $nick, $user (the raw ident token),
// $ident (the same, with a leading "~" collapsed to "*" the way a
// failed-identd ident is masked), and $host. Returns "" if host isn't
// in "ident@hostname" form, matching the original's refusal to
// template a mask it can't fully resolve.
func BanMask(template, nick, host string) string {
	at := strings.IndexByte(host, '@')
	if at < 0 {
		return ""
	}
	user := host[:at]
	hostname := host[at+1:]
	ident := user
	if strings.HasPrefix(user, "~") {
		ident = "*"
	}
	r := strings.NewReplacer("$nick", nick, "$user", user, "$ident", ident, "$host", hostname)
	return r.Replace(template)
}

// Channel is a joined channel and its tracked nick list (spec §3.1/§3.5
// collections).
type Channel struct {
	Name  string
	Topic string

	Nicks cmap.ConcurrentMap // casefolded nick -> *Nick
}

// NewChannel returns an empty, tracked Channel.
func NewChannel(name string) *Channel {
	return &Channel{Name: name, Nicks: cmap.New()}
}

// ToRFC1459 casefolds a nick/channel name per RFC 1459 ({}|^ map to []\~).
func ToRFC1459(name string) string {
	b := []byte(strings.ToLower(name))
	for i, c := range b {
		switch c {
		case '{':
			b[i] = '['
		case '}':
			b[i] = ']'
		case '|':
			b[i] = '\\'
		case '^':
			b[i] = '~'
		}
	}
	return string(b)
}
