// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircfg

import "testing"

func TestLoadYAMLFlatDocument(t *testing.T) {
	doc := []byte("list.sort_default: users\nraw.message_cap: \"1000\"\n")
	src, err := LoadYAML(doc)
	if err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if v, ok := src.Get(KeyListSortDefault); !ok || v != "users" {
		t.Fatalf("unexpected value: %q, %v", v, ok)
	}
	if v, ok := src.Get(KeyRawMessageCap); !ok || v != "1000" {
		t.Fatalf("unexpected value: %q, %v", v, ok)
	}
}
