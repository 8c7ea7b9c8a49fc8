// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

// Package ircfg provides the typed options reader the core consumes
// (spec §6.6): a mapping interface over string keys, requested by name,
// grounded on the teacher's serverOptions (state.go, a
// cmap.ConcurrentMap of raw strings) but expressed as a standalone
// interface so the core never depends on a specific file format.
package ircfg

import (
	"strconv"
	"strings"
)

// Source is the mapping interface the core requests configuration
// through. A Source is expected to be safe for concurrent reads.
type Source interface {
	Get(key string) (string, bool)
}

// MapSource is the simplest Source: a plain map.
type MapSource map[string]string

// Get implements Source.
func (m MapSource) Get(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// Known configuration keys (spec §6.6).
const (
	KeyListSortDefault  = "list.sort_default"
	KeyListTopicStrip   = "list.topic_strip"
	KeyColorMIRCRemap   = "color.mirc_remap"
	KeyColorTermRemap   = "color.term_remap"
	KeyNotifyTags       = "notify.tags"
	KeyNotifyISONPeriod = "notify.ison_period"
	KeyNotifyWHOISPeriod = "notify.whois_period"
	KeyRawMessageCap    = "raw.message_cap"
	KeySplitMaxLength   = "split.max_length"
	KeyFloodHighCount   = "flood.high_count"
	KeyFloodLowCount    = "flood.low_count"
	KeyNetworkColorsSend = "network.colors_send"
	KeyNetworkColorsRecv = "network.colors_recv"
	KeyBanMaskTemplate  = "ban.mask_template"
)

// Options is a typed front-end over a Source, applying the defaults and
// type conversions the core's consumers expect.
type Options struct {
	src Source
}

// New wraps src.
func New(src Source) *Options { return &Options{src: src} }

// String returns the raw value for key, or def if absent.
func (o *Options) String(key, def string) string {
	if v, ok := o.src.Get(key); ok {
		return v
	}
	return def
}

// Bool returns key parsed as a bool ("1"/"true"/"yes" are true), or def.
func (o *Options) Bool(key string, def bool) bool {
	v, ok := o.src.Get(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}

// Int returns key parsed as an int, or def if absent or malformed.
func (o *Options) Int(key string, def int) int {
	v, ok := o.src.Get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// IntMin returns Int(key, def), clamped to be >= min (used for periods
// that must be >= 1 per spec §6.6).
func (o *Options) IntMin(key string, def, min int) int {
	n := o.Int(key, def)
	if n < min {
		return min
	}
	return n
}

// StringMap parses a "k1=v1,k2=v2" value into a map, used for the color
// remap tables (spec §4.3.1). Keys may themselves contain commas (the
// remap tables key on "fg,bg"): a comma-separated segment without '=' is
// joined to the segment that follows it, so "4,1=red,2,1=blue" yields
// {"4,1": "red", "2,1": "blue"}.
func (o *Options) StringMap(key string) map[string]string {
	v, ok := o.src.Get(key)
	if !ok || v == "" {
		return nil
	}
	out := make(map[string]string)
	pending := ""
	for _, seg := range strings.Split(v, ",") {
		pair := pending + seg
		if i := strings.IndexByte(pair, '='); i > 0 {
			out[pair[:i]] = pair[i+1:]
			pending = ""
		} else {
			pending = pair + ","
		}
	}
	return out
}
