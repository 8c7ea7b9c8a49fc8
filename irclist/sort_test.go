// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package irclist

import "testing"

func TestSortByUsersDescending(t *testing.T) {
	entries := []*Entry{
		{Name: "#a", Users: 10},
		{Name: "#b", Users: 50},
		{Name: "#c", Users: 30},
	}
	Sort(entries, "-users")
	want := []string{"#b", "#c", "#a"}
	for i, w := range want {
		if entries[i].Name != w {
			t.Fatalf("position %d: got %q want %q (full: %#v)", i, entries[i].Name, w, entries)
		}
	}
}

func TestSortStackedReverseCancels(t *testing.T) {
	entries := []*Entry{
		{Name: "#a", Users: 10},
		{Name: "#b", Users: 50},
	}
	Sort(entries, "--users")
	if entries[0].Name != "#a" || entries[1].Name != "#b" {
		t.Fatalf("expected double-reverse to cancel out, got %#v", entries)
	}
}

func TestSortCaseInsensitiveName(t *testing.T) {
	entries := []*Entry{
		{Name: "#Zeta"},
		{Name: "#alpha"},
	}
	Sort(entries, "~name")
	if entries[0].Name != "#alpha" || entries[1].Name != "#Zeta" {
		t.Fatalf("expected case-insensitive alpha order, got %#v", entries)
	}
}

func TestSortMultiFieldTiebreak(t *testing.T) {
	entries := []*Entry{
		{Name: "#b", Users: 10},
		{Name: "#a", Users: 10},
		{Name: "#c", Users: 20},
	}
	Sort(entries, "users,name")
	want := []string{"#a", "#b", "#c"}
	for i, w := range want {
		if entries[i].Name != w {
			t.Fatalf("position %d: got %q want %q", i, entries[i].Name, w)
		}
	}
}
