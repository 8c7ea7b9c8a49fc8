// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import "testing"

func TestExpandAliases(t *testing.T) {
	got := ExpandAliases("{red}danger{reset}")
	want := "\x0304danger\x0f"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestStripAliases(t *testing.T) {
	got := StripAliases("{bold}hello{reset}")
	if got != "hello" {
		t.Fatalf("expected aliases stripped, got %q", got)
	}
}

func TestEncoderKeepColorsPassthrough(t *testing.T) {
	e := &Encoder{KeepColors: true}
	raw := "\x02bold\x0f"
	if got := e.Encode(raw); got != raw {
		t.Fatalf("expected passthrough, got %q", got)
	}
}

func TestEncoderStripsSentinels(t *testing.T) {
	e := &Encoder{KeepColors: false}
	got := e.Encode("\x02bold\x0311,05colored\x0fend")
	if got != "boldcoloredend" {
		t.Fatalf("expected sentinels stripped, got %q", got)
	}
}

func TestEncoderStripPreservesMultibyteUTF8(t *testing.T) {
	e := &Encoder{KeepColors: false}
	got := e.Encode("\x02日本語\x0f")
	if got != "日本語" {
		t.Fatalf("expected multibyte text preserved, got %q", got)
	}
}
