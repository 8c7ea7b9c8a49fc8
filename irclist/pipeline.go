// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package irclist

import "errors"

// State is the per-server list-pipeline state machine (spec §4.4).
type State int

const (
	Idle State = iota
	Awaiting
	Displayed
)

// ErrNotAwaiting is returned when a redirected reply arrives while the
// pipeline isn't expecting one.
var ErrNotAwaiting = errors.New("irclist: reply received while not awaiting")

// Pipeline holds one server's channel list, filter, sort, and selection
// cursor.
type Pipeline struct {
	state State

	chantypes string
	parseFn   func(line string) (command string, params []string)

	channels       []*Entry
	filterStr      string
	sortStr        string
	filterChannels []*Entry

	selectedLine int
}

// NewPipeline returns an idle Pipeline for one server.
func NewPipeline(chantypes string, parseFn func(line string) (command string, params []string)) *Pipeline {
	return &Pipeline{state: Idle, chantypes: chantypes, parseFn: parseFn}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State { return p.state }

// ArmList transitions idle -> awaiting when a /list is sent and its
// redirect is armed.
func (p *Pipeline) ArmList() {
	p.state = Awaiting
}

// ReceiveReply ingests a redirected LIST reply, recomputes
// filter_channels, and transitions awaiting -> displayed.
func (p *Pipeline) ReceiveReply(raw string) error {
	if p.state != Awaiting {
		return ErrNotAwaiting
	}
	p.channels = Ingest(raw, p.chantypes, p.parseFn)
	p.recompute()
	p.state = Displayed
	return nil
}

// ReceiveError transitions awaiting -> idle on a redirect error.
func (p *Pipeline) ReceiveError() {
	p.state = Idle
}

// Close frees the pipeline state (buffer closed).
func (p *Pipeline) Close() {
	*p = Pipeline{state: Idle, chantypes: p.chantypes, parseFn: p.parseFn}
}

// SetFilter installs a new filter string and recomputes the view.
func (p *Pipeline) SetFilter(filterStr string) {
	p.filterStr = filterStr
	p.recompute()
}

// SetSort installs a new sort spec and recomputes the view.
func (p *Pipeline) SetSort(sortStr string) {
	p.sortStr = sortStr
	p.recompute()
}

func (p *Pipeline) recompute() {
	f := NewFilter(p.filterStr)
	filtered := f.Apply(p.channels)
	Sort(filtered, p.sortStr)
	p.filterChannels = filtered
	p.clampSelection()
}

// FilterChannels returns the filter-passed subset in sort order.
func (p *Pipeline) FilterChannels() []*Entry { return p.filterChannels }

// SelectedLine returns the current cursor index, always valid into
// FilterChannels() (or 0 when empty).
func (p *Pipeline) SelectedLine() int { return p.selectedLine }

func (p *Pipeline) clampSelection() {
	if len(p.filterChannels) == 0 {
		p.selectedLine = 0
		return
	}
	if p.selectedLine >= len(p.filterChannels) {
		p.selectedLine = len(p.filterChannels) - 1
	}
	if p.selectedLine < 0 {
		p.selectedLine = 0
	}
}

// MoveSelection shifts the cursor by delta, clamping to the valid range.
func (p *Pipeline) MoveSelection(delta int) {
	p.selectedLine += delta
	p.clampSelection()
}
