// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package irclist

import "testing"

func TestPipelineStateMachine(t *testing.T) {
	p := NewPipeline("#&", fakeParse)
	if p.State() != Idle {
		t.Fatalf("expected Idle, got %v", p.State())
	}

	if err := p.ReceiveReply("322 me #alpha 5 :hi"); err != ErrNotAwaiting {
		t.Fatalf("expected ErrNotAwaiting before ArmList, got %v", err)
	}

	p.ArmList()
	if p.State() != Awaiting {
		t.Fatalf("expected Awaiting, got %v", p.State())
	}

	if err := p.ReceiveReply("322 me #alpha 5 :hi\n322 me #bravo 1 :lo"); err != nil {
		t.Fatalf("ReceiveReply: %v", err)
	}
	if p.State() != Displayed {
		t.Fatalf("expected Displayed, got %v", p.State())
	}
	if len(p.FilterChannels()) != 2 {
		t.Fatalf("expected 2 channels, got %d", len(p.FilterChannels()))
	}
}

func TestPipelineReceiveErrorReturnsToIdle(t *testing.T) {
	p := NewPipeline("#&", fakeParse)
	p.ArmList()
	p.ReceiveError()
	if p.State() != Idle {
		t.Fatalf("expected Idle after ReceiveError, got %v", p.State())
	}
}

func TestPipelineFilterAndSelectionClamp(t *testing.T) {
	p := NewPipeline("#&", fakeParse)
	p.ArmList()
	p.ReceiveReply("322 me #alpha 5 :hi\n322 me #bravo 1 :lo\n322 me #charlie 9 :x")

	p.SetFilter("u:>3")
	if len(p.FilterChannels()) != 2 {
		t.Fatalf("expected 2 entries after filter, got %d", len(p.FilterChannels()))
	}

	p.MoveSelection(10)
	if p.SelectedLine() != len(p.FilterChannels())-1 {
		t.Fatalf("expected selection clamped to last index, got %d", p.SelectedLine())
	}

	p.MoveSelection(-100)
	if p.SelectedLine() != 0 {
		t.Fatalf("expected selection clamped to 0, got %d", p.SelectedLine())
	}
}
