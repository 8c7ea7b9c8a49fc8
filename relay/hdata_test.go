// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

import "testing"

func TestHdataRoundTrip(t *testing.T) {
	keys := []FieldSpec{
		{Name: "number", Type: TagInt},
		{Name: "name", Type: TagString},
	}
	h := &Hdata{
		Hpath: "buffer",
		Keys:  keys,
		Rows: []Row{
			{Pointers: []string{"1a2b"}, Values: map[string]interface{}{"number": int32(1), "name": "core.weechat"}},
			{Pointers: []string{"3c4d"}, Values: map[string]interface{}{"number": int32(2), "name": "irc.server.libera"}},
		},
	}

	w := NewWriter("")
	if err := WriteHdata(w, true, h); err != nil {
		t.Fatalf("WriteHdata: %v", err)
	}

	r := NewReader(w.Bytes())
	r.ReadID()

	tag, err := r.ReadTag()
	if err != nil || tag != TagHdata {
		t.Fatalf("ReadTag: %q, %v", tag, err)
	}

	got, err := ReadHdata(r)
	if err != nil {
		t.Fatalf("ReadHdata: %v", err)
	}
	if got.Hpath != "buffer" || len(got.Rows) != 2 {
		t.Fatalf("unexpected hdata: %#v", got)
	}
	if got.Rows[1].Values["name"] != "irc.server.libera" {
		t.Fatalf("unexpected row 1 name: %#v", got.Rows[1].Values)
	}
	if got.Rows[0].Pointers[0] != "1a2b" {
		t.Fatalf("unexpected row 0 pointer: %#v", got.Rows[0].Pointers)
	}
}

func TestHdataRejectsPointerCountMismatch(t *testing.T) {
	h := &Hdata{
		Hpath: "buffer/nicklist_item",
		Keys:  []FieldSpec{{Name: "name", Type: TagString}},
		Rows: []Row{
			{Pointers: []string{"only-one"}, Values: map[string]interface{}{"name": "x"}},
		},
	}
	w := NewWriter("")
	if err := WriteHdata(w, false, h); err == nil {
		t.Fatal("expected pointer-count mismatch error")
	}
}

func TestParseEncodeKeysRoundTrip(t *testing.T) {
	raw := "number:int,name:str,hidden:chr"
	fields := ParseKeys(raw)
	if len(fields) != 3 {
		t.Fatalf("unexpected field count: %#v", fields)
	}
	if EncodeKeys(fields) != raw {
		t.Fatalf("re-encode mismatch: %q", EncodeKeys(fields))
	}
}

func TestHashtableRoundTripStrStr(t *testing.T) {
	h := &Hashtable{
		KeyType:   TagString,
		ValueType: TagString,
		Pairs:     map[string]string{"error": "invalid password"},
	}
	w := NewWriter("")
	WriteHashtable(w, true, h)

	r := NewReader(w.Bytes())
	r.ReadID()
	tag, err := r.ReadTag()
	if err != nil || tag != TagHashtable {
		t.Fatalf("ReadTag: %q, %v", tag, err)
	}
	got, err := ReadHashtable(r)
	if err != nil {
		t.Fatalf("ReadHashtable: %v", err)
	}
	if got.Pairs["error"] != "invalid password" {
		t.Fatalf("unexpected pairs: %#v", got.Pairs)
	}
}

func TestHashtableRoundTripStrInt(t *testing.T) {
	// A str/int hashtable exercises a non-string ValueType: WriteHashtable
	// must encode the value as an int, not as a raw string (spec §4.6).
	h := &Hashtable{
		KeyType:   TagString,
		ValueType: TagInt,
		Pairs:     map[string]string{"count": "42"},
	}
	w := NewWriter("")
	WriteHashtable(w, false, h)

	r := NewReader(w.Bytes())
	got, err := ReadHashtable(r)
	if err != nil {
		t.Fatalf("ReadHashtable: %v", err)
	}
	if got.KeyType != TagString || got.ValueType != TagInt {
		t.Fatalf("unexpected types: key=%q value=%q", got.KeyType, got.ValueType)
	}
	if got.Pairs["count"] != "42" {
		t.Fatalf("unexpected pairs: %#v", got.Pairs)
	}

	// The wire payload must actually be int-encoded (4 bytes), not a
	// length-prefixed string, or this test would pass for the old bug too.
	w2 := NewWriter("")
	w2.WriteInt(false, 42)
	wantIntBytes := w2.Bytes()

	w3 := NewWriter("")
	writeHashtableValue(w3, TagInt, "42")
	if string(w3.Bytes()) != string(wantIntBytes) {
		t.Fatalf("expected int-encoded value, got %v want %v", w3.Bytes(), wantIntBytes)
	}
}
