// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircnotify

import (
	"time"

	"github.com/kestrelchat/ircore"
)

// Edge is an emitted presence-transition signal (spec §4.5 Edge
// detection).
type Edge struct {
	Kind string // "join", "quit", "away", "back", "still_away"
	Nick string
	Host string
	Text string // away message, for "away"/"still_away"
}

// Engine drives one server's notify watch list: ISON/MONITOR/WHOIS
// polling and redirect-completion state transitions.
type Engine struct {
	server *ircore.Server
	bus    *ircore.SignalBus

	watch       []*Entry
	isonPeriod  time.Duration
	whoisPeriod time.Duration

	pendingISON []string
}

// NewEngine returns an Engine bound to server, emitting edges on bus.
func NewEngine(server *ircore.Server, bus *ircore.SignalBus) *Engine {
	return &Engine{server: server, bus: bus, isonPeriod: time.Minute, whoisPeriod: time.Minute}
}

// SetWatchList replaces the watch list wholesale (e.g. after config
// change). It does not change the timer periods; see SetPeriods.
func (e *Engine) SetWatchList(entries []*Entry) {
	e.watch = entries
}

// SetPeriods reschedules both timers, in minutes, per spec §4.5.
func (e *Engine) SetPeriods(isonMinutes, whoisMinutes int) {
	e.isonPeriod = time.Duration(isonMinutes) * time.Minute
	e.whoisPeriod = time.Duration(whoisMinutes) * time.Minute
}

func (e *Engine) lookup(nick string) *Entry {
	for _, w := range e.watch {
		if ircore.ToRFC1459(w.Nick) == ircore.ToRFC1459(nick) {
			return w
		}
	}
	return nil
}

// TickISON builds the ISON lines to send for this tick (spec §4.5 Tick —
// ISON timer): only applies when MONITOR is unsupported (server.Monitor
// == 0) and the watch list is non-empty. Returns the wire frames to send,
// each to be sent with a redirect labeled "ison/notify".
func (e *Engine) TickISON() []string {
	if e.server.Monitor != 0 || len(e.watch) == 0 {
		return nil
	}

	nicks := make([]string, len(e.watch))
	for i, w := range e.watch {
		nicks[i] = w.Nick
	}
	e.pendingISON = nicks

	text := ""
	for i, n := range nicks {
		if i > 0 {
			text += " "
		}
		text += n
	}
	result := ircore.Split(e.server, "ISON", "", nil, text)
	frames := make([]string, len(result.Frames))
	for i, f := range result.Frames {
		frames[i] = f.Line
	}
	return frames
}

// CompleteISON implements the ISON redirect-completion rule: every nick
// in onlineNicks is marked online; every nick that was sent but absent
// from the reply is marked offline. Presence transitions emit join/quit
// edges.
func (e *Engine) CompleteISON(onlineNicks []string) []Edge {
	online := make(map[string]bool, len(onlineNicks))
	for _, n := range onlineNicks {
		online[ircore.ToRFC1459(n)] = true
	}

	var edges []Edge
	for _, sent := range e.pendingISON {
		w := e.lookup(sent)
		if w == nil {
			continue
		}
		wasOnline := w.IsOnServer == PresenceOnline
		nowOnline := online[ircore.ToRFC1459(sent)]

		if nowOnline {
			w.IsOnServer = PresenceOnline
			if !wasOnline {
				edges = append(edges, Edge{Kind: "join", Nick: w.Nick})
			}
		} else {
			w.IsOnServer = PresenceOffline
			if wasOnline {
				edges = append(edges, Edge{Kind: "quit", Nick: w.Nick})
			}
		}
	}
	e.pendingISON = nil

	for _, ed := range edges {
		e.bus.Emit(e.server, ed.Kind, ed)
	}
	return edges
}

// TickWHOIS returns the WHOIS sends due this tick for entries with
// CheckAway set (spec §4.5 Tick — WHOIS timer), each redirected with
// label "whois/notify".
func (e *Engine) TickWHOIS() []string {
	var frames []string
	for _, w := range e.watch {
		if !w.CheckAway {
			continue
		}
		frames = append(frames, "WHOIS :"+w.Nick)
	}
	return frames
}

// CompleteWHOIS applies one WHOIS redirect's captured replies (numerics
// 301 away, 401 no-such-nick) to the given nick's watch entry, emitting
// away/back/still_away edges on transition (spec §4.5).
func (e *Engine) CompleteWHOIS(nick string, saw301 bool, awayText string, saw401 bool) []Edge {
	w := e.lookup(nick)
	if w == nil {
		return nil
	}

	if saw401 {
		// ISON loop owns is_on_server; WHOIS leaves it untouched.
		return nil
	}

	var edges []Edge
	hadAway := w.hasAway
	oldText := w.AwayMessage

	if saw301 {
		w.AwayMessage = awayText
		w.hasAway = true
		switch {
		case !hadAway:
			edges = append(edges, Edge{Kind: "away", Nick: w.Nick, Text: awayText})
		case oldText != awayText:
			edges = append(edges, Edge{Kind: "still_away", Nick: w.Nick, Text: awayText})
		}
	} else {
		w.AwayMessage = ""
		w.hasAway = false
		if hadAway {
			edges = append(edges, Edge{Kind: "back", Nick: w.Nick})
		}
	}

	for _, ed := range edges {
		e.bus.Emit(e.server, ed.Kind, ed)
	}
	return edges
}

// MonitorAdd builds a "MONITOR +" frame set for newly watched nicks when
// server.Monitor > 0 (spec §4.5 MONITOR path).
func MonitorAdd(server *ircore.Server, nicks []string) []string {
	return monitorFrames(server, "+", nicks)
}

// MonitorRemove builds a "MONITOR -" frame set for unwatched nicks.
func MonitorRemove(server *ircore.Server, nicks []string) []string {
	return monitorFrames(server, "-", nicks)
}

// MonitorTeardown returns the single "MONITOR C" frame clearing the
// server-side monitor list.
func MonitorTeardown() string { return "MONITOR C" }

func monitorFrames(server *ircore.Server, sign string, nicks []string) []string {
	if len(nicks) == 0 {
		return nil
	}
	csv := ""
	for i, n := range nicks {
		if i > 0 {
			csv += ","
		}
		csv += n
	}
	result := ircore.Split(server, "MONITOR", "", nil, sign+csv)
	frames := make([]string, len(result.Frames))
	for i, f := range result.Frames {
		frames[i] = f.Line
	}
	return frames
}

// ApplyMonitorReply applies a "MONITOR * ONLINE"/"OFFLINE" reply's nick
// list directly to watch-entry presence, per spec §4.5's "Server-side
// replies … drive state directly."
func (e *Engine) ApplyMonitorReply(online bool, nicks []string) []Edge {
	var edges []Edge
	for _, nick := range nicks {
		w := e.lookup(nick)
		if w == nil {
			continue
		}
		wasOnline := w.IsOnServer == PresenceOnline
		if online {
			w.IsOnServer = PresenceOnline
			if !wasOnline {
				edges = append(edges, Edge{Kind: "join", Nick: w.Nick})
			}
		} else {
			w.IsOnServer = PresenceOffline
			if wasOnline {
				edges = append(edges, Edge{Kind: "quit", Nick: w.Nick})
			}
		}
	}
	for _, ed := range edges {
		e.bus.Emit(e.server, ed.Kind, ed)
	}
	return edges
}
