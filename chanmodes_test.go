// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import "testing"

func TestParseChanModeClassesWellFormed(t *testing.T) {
	c := ParseChanModeClasses("beI,k,l,imnpstaqz")
	if !c.hasArg(true, 'b') || !c.hasArg(false, 'b') {
		t.Fatal("expected A-class mode b to always take an arg")
	}
	if !c.hasArg(true, 'l') || c.hasArg(false, 'l') {
		t.Fatal("expected C-class mode l to take an arg only when set")
	}
	if c.hasArg(true, 'n') || c.hasArg(false, 'n') {
		t.Fatal("expected D-class mode n to never take an arg")
	}
}

func TestParseChanModeClassesMalformedFallsBack(t *testing.T) {
	c := ParseChanModeClasses("just-one-group")
	if c.raw != DefaultChanModeClasses.raw {
		t.Fatalf("expected fallback to default classes, got %+v", c)
	}
}

func TestApplyISupportAppliesChanModes(t *testing.T) {
	s := NewServer("test", nil)
	s.ApplyISupport([]string{"CHANMODES=beI,k,l,imnpstaqz"})
	if !s.ChanModes.hasArg(true, 'k') {
		t.Fatal("expected k to take an arg after CHANMODES applied")
	}
}

func TestParseModeChangeConsumesArgsLeftToRight(t *testing.T) {
	classes := ParseChanModeClasses("beI,k,l,imnpstaqz")
	changes := ParseModeChange(classes, "ov", "+ov-l", []string{"alice", "bob"})
	if len(changes) != 3 {
		t.Fatalf("expected 3 changes, got %d: %#v", len(changes), changes)
	}
	if changes[0].Mode != 'o' || !changes[0].Add || changes[0].Arg != "alice" {
		t.Fatalf("unexpected first change: %+v", changes[0])
	}
	if changes[1].Mode != 'v' || !changes[1].Add || changes[1].Arg != "bob" {
		t.Fatalf("unexpected second change: %+v", changes[1])
	}
	if changes[2].Mode != 'l' || changes[2].Add || changes[2].Arg != "" {
		t.Fatalf("unexpected third change: %+v", changes[2])
	}
}

func TestApplyChanModesTracksDAndCClassesOnly(t *testing.T) {
	classes := ParseChanModeClasses("beI,k,l,imnpstaqz")
	changes := ParseModeChange(classes, "ov", "+ntl-b", []string{"50", "*!*@host"})

	current := ApplyChanModes(nil, classes, "ov", changes)
	if _, ok := current['b']; ok {
		t.Fatal("expected A-class mode b to not be tracked")
	}
	if current['n'] != "" {
		t.Fatalf("expected n tracked with empty arg, got %q", current['n'])
	}
	if current['l'] != "50" {
		t.Fatalf("expected l tracked with arg 50, got %q", current['l'])
	}
}

func TestApplyChanModesRemovesOnUnset(t *testing.T) {
	classes := ParseChanModeClasses("beI,k,l,imnpstaqz")
	current := map[byte]string{'m': ""}
	changes := ParseModeChange(classes, "ov", "-m", nil)
	current = ApplyChanModes(current, classes, "ov", changes)
	if _, ok := current['m']; ok {
		t.Fatal("expected m removed after -m")
	}
}
