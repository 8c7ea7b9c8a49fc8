// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircolor

import "sync"

// ringSize is the fixed capacity of the decoded-string ring (spec
// §4.3.4: "last N (=32) decoded strings").
const ringSize = 32

// Ring is a fixed-capacity, caller-keyed cache of recently decoded
// strings. It exists so callers that don't want to own decoded-string
// memory can borrow a stable reference via DecodeConst instead.
type Ring struct {
	mu      sync.Mutex
	entries map[uint64]string
	order   []uint64
}

// NewRing returns an empty Ring.
func NewRing() *Ring {
	return &Ring{entries: make(map[uint64]string, ringSize)}
}

// DecodeConst decodes raw once per distinct seq and returns a borrow into
// the ring; repeated calls with the same seq return the same backing
// string without redoing the decode. Insertion evicts the oldest entry
// once the ring is at capacity.
func (r *Ring) DecodeConst(seq uint64, d *Decoder, raw string) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.entries[seq]; ok {
		return v
	}

	var b []byte
	for _, sp := range d.Decode(raw) {
		b = append(b, sp.Text...)
	}
	decoded := string(b)

	if len(r.order) >= ringSize {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.entries, oldest)
	}
	r.entries[seq] = decoded
	r.order = append(r.order, seq)

	return decoded
}

// Len reports the current number of entries held by the ring.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}
