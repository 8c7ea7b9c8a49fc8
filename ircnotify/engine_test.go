// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircnotify

import (
	"testing"

	"github.com/kestrelchat/ircore"
)

func newTestEngine() (*Engine, *ircore.Server) {
	s := ircore.NewServer("test", nil)
	bus := ircore.NewSignalBus()
	e := NewEngine(s, bus)
	e.SetWatchList([]*Entry{
		{Nick: "alice"},
		{Nick: "bob"},
	})
	return e, s
}

func TestTickISONSkippedWhenMonitorSupported(t *testing.T) {
	e, s := newTestEngine()
	s.Monitor = 5
	if frames := e.TickISON(); frames != nil {
		t.Fatalf("expected no ISON frames when MONITOR supported, got %v", frames)
	}
}

func TestISONJoinQuitEdgeDetection(t *testing.T) {
	e, _ := newTestEngine()
	e.TickISON()

	edges := e.CompleteISON([]string{"alice"})
	if len(edges) != 1 || edges[0].Kind != "join" || edges[0].Nick != "alice" {
		t.Fatalf("expected alice join edge, got %#v", edges)
	}

	// Second tick: alice still online (no edge), bob never appeared (no edge, was already offline).
	e.TickISON()
	edges = e.CompleteISON([]string{"alice"})
	if len(edges) != 0 {
		t.Fatalf("expected no edges on steady state, got %#v", edges)
	}

	// Third tick: alice drops off.
	e.TickISON()
	edges = e.CompleteISON([]string{})
	if len(edges) != 1 || edges[0].Kind != "quit" || edges[0].Nick != "alice" {
		t.Fatalf("expected alice quit edge, got %#v", edges)
	}
}

func TestWHOISAwayBackStillAwayTransitions(t *testing.T) {
	e, _ := newTestEngine()
	e.watch[0].CheckAway = true

	edges := e.CompleteWHOIS("alice", true, "gone fishing", false)
	if len(edges) != 1 || edges[0].Kind != "away" {
		t.Fatalf("expected away edge, got %#v", edges)
	}

	edges = e.CompleteWHOIS("alice", true, "still gone", false)
	if len(edges) != 1 || edges[0].Kind != "still_away" {
		t.Fatalf("expected still_away edge, got %#v", edges)
	}

	edges = e.CompleteWHOIS("alice", true, "still gone", false)
	if len(edges) != 0 {
		t.Fatalf("expected no edge for unchanged away text, got %#v", edges)
	}

	edges = e.CompleteWHOIS("alice", false, "", false)
	if len(edges) != 1 || edges[0].Kind != "back" {
		t.Fatalf("expected back edge, got %#v", edges)
	}
}

func TestWHOISNoSuchNickLeavesPresenceUntouched(t *testing.T) {
	e, _ := newTestEngine()
	e.watch[0].IsOnServer = PresenceOnline
	edges := e.CompleteWHOIS("alice", false, "", true)
	if edges != nil {
		t.Fatalf("expected no edges on 401, got %#v", edges)
	}
	if e.watch[0].IsOnServer != PresenceOnline {
		t.Fatalf("expected presence untouched by 401, got %v", e.watch[0].IsOnServer)
	}
}

func TestMonitorReplyDrivesPresenceDirectly(t *testing.T) {
	e, _ := newTestEngine()
	edges := e.ApplyMonitorReply(true, []string{"bob"})
	if len(edges) != 1 || edges[0].Kind != "join" || edges[0].Nick != "bob" {
		t.Fatalf("expected bob join edge, got %#v", edges)
	}

	edges = e.ApplyMonitorReply(false, []string{"bob"})
	if len(edges) != 1 || edges[0].Kind != "quit" {
		t.Fatalf("expected bob quit edge, got %#v", edges)
	}
}

func TestMonitorAddRemoveFrames(t *testing.T) {
	s := ircore.NewServer("test", nil)
	frames := MonitorAdd(s, []string{"alice", "bob"})
	if len(frames) != 1 || frames[0] != "MONITOR + alice,bob" {
		t.Fatalf("unexpected MonitorAdd frames: %#v", frames)
	}
	frames = MonitorRemove(s, []string{"alice"})
	if len(frames) != 1 || frames[0] != "MONITOR - alice" {
		t.Fatalf("unexpected MonitorRemove frames: %#v", frames)
	}
}
