// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import (
	"strings"
	"testing"
)

func TestSplitPrivmsgBudget(t *testing.T) {
	s := NewServer("test", nil)
	s.MsgMaxLength = 160

	text := strings.Repeat("a", 200)
	result := Split(s, "PRIVMSG", "#channel", nil, text)

	if len(result.Frames) < 2 {
		t.Fatalf("expected multiple frames, got %d", len(result.Frames))
	}
	for _, f := range result.Frames {
		if len(f.Line) > s.MsgMaxLength-2 {
			t.Errorf("frame %q exceeds budget: %d > %d", f.Line, len(f.Line), s.MsgMaxLength-2)
		}
	}
}

func TestSplitPrivmsgNoSplitWhenShort(t *testing.T) {
	s := NewServer("test", nil)
	result := Split(s, "PRIVMSG", "#channel", nil, "hello")
	if len(result.Frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(result.Frames))
	}
	if result.Frames[0].Line != "PRIVMSG #channel :hello" {
		t.Fatalf("unexpected frame: %q", result.Frames[0].Line)
	}
}

func TestSplitJoinKeepsChannelKeyPairing(t *testing.T) {
	s := NewServer("test", nil)
	s.MsgMaxLength = 120

	result := Split(s, "JOIN", "#alpha,#bravo,#charlie key1,key2,key3", nil, "")
	if len(result.Frames) < 2 {
		t.Fatalf("expected split across multiple frames, got %d: %v", len(result.Frames), result.Frames)
	}

	for _, f := range result.Frames {
		fields := strings.Fields(strings.TrimPrefix(f.Line, "JOIN "))
		if len(fields) != 2 {
			continue
		}
		chans := strings.Split(fields[0], ",")
		keys := strings.Split(fields[1], ",")
		if len(keys) > len(chans) {
			t.Fatalf("more keys than channels on frame %q", f.Line)
		}
	}
}

func TestSplitCTCPAction(t *testing.T) {
	s := NewServer("test", nil)
	s.MsgMaxLength = 200

	body := strings.Repeat("b", 200)
	msg := "\x01ACTION " + body + "\x01"
	result := Split(s, "PRIVMSG", "#channel", nil, msg)

	if len(result.Frames) < 2 {
		t.Fatalf("expected multiple CTCP frames, got %d", len(result.Frames))
	}
	for _, f := range result.Frames {
		if !strings.HasPrefix(f.Line, "PRIVMSG #channel :\x01ACTION ") {
			t.Errorf("frame missing CTCP header: %q", f.Line)
		}
		if !strings.HasSuffix(f.Line, "\x01") {
			t.Errorf("frame missing CTCP terminator: %q", f.Line)
		}
	}
}

func TestSplitMultilineBatchFraming(t *testing.T) {
	s := NewServer("test", nil)
	s.SetCap("batch", true)
	s.SetCap("draft/multiline", true)

	result := Split(s, "PRIVMSG", "#channel", nil, "test\n\nline 3")

	if len(result.Frames) != 5 {
		t.Fatalf("expected 5 frames, got %d: %v", len(result.Frames), result.Frames)
	}
	if !strings.HasPrefix(result.Frames[0].Line, "BATCH +") {
		t.Errorf("frame 0 should open a batch, got %q", result.Frames[0].Line)
	}
	if !strings.HasSuffix(result.Frames[0].Line, "draft/multiline #channel") {
		t.Errorf("unexpected batch-open frame: %q", result.Frames[0].Line)
	}
	if !strings.HasPrefix(result.Frames[4].Line, "BATCH -") {
		t.Errorf("frame 4 should close the batch, got %q", result.Frames[4].Line)
	}
	if len(result.MultilineEcho) != 1 || result.MultilineEcho[0] != "test\n\nline 3" {
		t.Fatalf("unexpected multiline echo: %#v", result.MultilineEcho)
	}
}

func TestSplitAuthenticateChunking(t *testing.T) {
	payload := strings.Repeat("x", 400)
	result := Split(NewServer("test", nil), "AUTHENTICATE", "", nil, payload)

	if len(result.Frames) != 2 {
		t.Fatalf("expected a 400-byte chunk plus a '+' sentinel, got %d", len(result.Frames))
	}
	if result.Frames[1].Line != "AUTHENTICATE +" {
		t.Fatalf("expected sentinel frame, got %q", result.Frames[1].Line)
	}
}

func TestSplitMonitorPreservesSign(t *testing.T) {
	s := NewServer("test", nil)
	s.MsgMaxLength = 40

	result := Split(s, "MONITOR", "", nil, "+nick1,nick2,nick3,nick4,nick5")
	for _, f := range result.Frames {
		if !strings.HasPrefix(f.Line, "MONITOR + ") {
			t.Errorf("expected sign preserved on every frame, got %q", f.Line)
		}
	}
}
