// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"
)

func TestParseCommandWithID(t *testing.T) {
	c, err := ParseCommand("(123) info version")
	if err != nil {
		t.Fatalf("ParseCommand: %v", err)
	}
	if c.ID != "123" || c.Verb != "info" || len(c.Args) != 1 || c.Args[0] != "version" {
		t.Fatalf("unexpected command: %#v", c)
	}
}

func TestParseCommandUnknownVerb(t *testing.T) {
	c, err := ParseCommand("bogus arg")
	if err != ErrUnknownVerb {
		t.Fatalf("expected ErrUnknownVerb, got %v", err)
	}
	if c.Verb != "bogus" {
		t.Fatalf("unexpected verb: %q", c.Verb)
	}
}

func TestParseCommandTooFewArgs(t *testing.T) {
	_, err := ParseCommand("hdata")
	if err != ErrTooFewArgs {
		t.Fatalf("expected ErrTooFewArgs, got %v", err)
	}
}

func TestSessionHandshakePicksStrongestHash(t *testing.T) {
	s := NewSession("secret", "")
	algo, comp, err := s.Handshake([]string{"password_hash_algo=plain:sha256:sha512", "compression=zlib"})
	if err != nil {
		t.Fatalf("Handshake: %v", err)
	}
	if algo != "sha512" {
		t.Fatalf("expected sha512 chosen, got %q", algo)
	}
	if comp != CompressionZlib {
		t.Fatalf("expected zlib chosen, got %v", comp)
	}
}

func TestSessionInitPlainPassword(t *testing.T) {
	s := NewSession("secret", "")
	if err := s.Init([]string{"password=secret"}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !s.Authenticated {
		t.Fatal("expected Authenticated=true")
	}
}

func TestSessionInitWrongPasswordFails(t *testing.T) {
	s := NewSession("secret", "")
	if err := s.Init([]string{"password=wrong"}); err == nil {
		t.Fatal("expected auth failure")
	}
	if s.Authenticated {
		t.Fatal("expected Authenticated=false")
	}
}

func TestSessionInitHashedPassword(t *testing.T) {
	s := NewSession("secret", "")
	sum := sha256.Sum256([]byte("secret"))
	digest := hex.EncodeToString(sum[:])
	if err := s.Init([]string{"password_hash=sha256:" + digest}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !s.Authenticated {
		t.Fatal("expected Authenticated=true")
	}
}

func TestSyncFlagsWildcardAndTarget(t *testing.T) {
	s := NewSession("x", "")
	target, flags := ParseSyncArgs([]string{"irc.server.libera", "nicklist"})
	s.ApplySync(target, flags)

	if !s.WantsEvent("irc.server.libera", SyncNicklist) {
		t.Fatal("expected nicklist sync on explicit target")
	}
	if s.WantsEvent("irc.server.libera", SyncBuffer) {
		t.Fatal("did not expect buffer sync")
	}

	s.ApplySync("*", SyncBuffer)
	if !s.WantsEvent("anything", SyncBuffer) {
		t.Fatal("expected wildcard sync to apply to any target")
	}

	s.ApplyDesync("*", SyncBuffer)
	if s.WantsEvent("anything", SyncBuffer) {
		t.Fatal("expected desync to clear wildcard flag")
	}
}

func TestParseSyncArgsSingleArgIsBufferNotFlags(t *testing.T) {
	target, flags := ParseSyncArgs([]string{"irc.server.libera"})
	if target != "irc.server.libera" {
		t.Fatalf("expected bare arg treated as buffer target, got target=%q", target)
	}
	if flags != (SyncBuffer | SyncNicklist | SyncBuffers | SyncUpgrade) {
		t.Fatalf("expected default all-flags when only a buffer is given, got %v", flags)
	}
}

func TestParseSyncArgsSingleArgFlagListStaysWildcard(t *testing.T) {
	target, flags := ParseSyncArgs([]string{"nicklist,buffer"})
	if target != "*" {
		t.Fatalf("expected wildcard target for a bare flag list, got %q", target)
	}
	if flags != (SyncNicklist | SyncBuffer) {
		t.Fatalf("unexpected flags: %v", flags)
	}
}
