// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircfg

import "testing"

func TestOptionsStringBoolInt(t *testing.T) {
	o := New(MapSource{
		KeyListSortDefault: "users",
		KeyListTopicStrip:  "yes",
		KeyRawMessageCap:   "500",
	})

	if got := o.String(KeyListSortDefault, "name"); got != "users" {
		t.Fatalf("unexpected string: %q", got)
	}
	if got := o.String("missing.key", "fallback"); got != "fallback" {
		t.Fatalf("unexpected default string: %q", got)
	}
	if !o.Bool(KeyListTopicStrip, false) {
		t.Fatal("expected true for 'yes'")
	}
	if o.Bool("missing.key", false) {
		t.Fatal("expected default false for missing key")
	}
	if got := o.Int(KeyRawMessageCap, 100); got != 500 {
		t.Fatalf("unexpected int: %d", got)
	}
	if got := o.Int("missing.key", 100); got != 100 {
		t.Fatalf("unexpected default int: %d", got)
	}
}

func TestOptionsIntMinClamps(t *testing.T) {
	o := New(MapSource{KeyNotifyISONPeriod: "0"})
	if got := o.IntMin(KeyNotifyISONPeriod, 5, 1); got != 1 {
		t.Fatalf("expected clamp to minimum 1, got %d", got)
	}
}

func TestOptionsStringMap(t *testing.T) {
	o := New(MapSource{KeyColorMIRCRemap: "4,1=red,2,1=blue"})
	m := o.StringMap(KeyColorMIRCRemap)
	if m["4,1"] != "red" || m["2,1"] != "blue" {
		t.Fatalf("unexpected map: %#v", m)
	}
}

func TestOptionsStringMapAbsent(t *testing.T) {
	o := New(MapSource{})
	if m := o.StringMap(KeyColorTermRemap); m != nil {
		t.Fatalf("expected nil for absent key, got %#v", m)
	}
}
