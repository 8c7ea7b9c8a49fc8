// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

// NicklistItem is one row of the fixed nicklist hdata shape (spec §4.6
// nicklist encoding): hpath "buffer/nicklist_item", keys
// {group,visible,level,name,color,prefix,prefix_color}.
type NicklistItem struct {
	Group       byte // 1 if a group row, 0 if a nick row
	Visible     byte
	Level       int32
	Name        string
	Color       string
	Prefix      string
	PrefixColor string
}

// NicklistDiffOp is one diff row's leading "_diff" character (spec §4.6
// Diff characters).
type NicklistDiffOp byte

const (
	DiffParentContext NicklistDiffOp = '^'
	DiffAdd           NicklistDiffOp = '+'
	DiffRemove        NicklistDiffOp = '-'
	DiffChange        NicklistDiffOp = '*'
)

var nicklistKeys = []FieldSpec{
	{Name: "group", Type: TagChar},
	{Name: "visible", Type: TagChar},
	{Name: "level", Type: TagInt},
	{Name: "name", Type: TagString},
	{Name: "color", Type: TagString},
	{Name: "prefix", Type: TagString},
	{Name: "prefix_color", Type: TagString},
}

var nicklistDiffKeys = append([]FieldSpec{{Name: "_diff", Type: TagChar}}, nicklistKeys...)

// EncodeNicklist writes a full-snapshot hda for items, one row per item,
// with one pointer per hpath segment: the buffer segment is written as a
// null pointer ("0"), since no buffer pointer is passed in, followed by
// the item's own pointer.
func EncodeNicklist(w *Writer, pointers []string, items []NicklistItem) error {
	h := &Hdata{Hpath: "buffer/nicklist_item", Keys: nicklistKeys}
	for i, it := range items {
		ptr := ""
		if i < len(pointers) {
			ptr = pointers[i]
		}
		h.Rows = append(h.Rows, Row{
			Pointers: []string{"", ptr},
			Values:   nicklistValues(it),
		})
	}
	return WriteHdata(w, true, h)
}

// DiffEntry is one changed nicklist row to encode as a diff.
type DiffEntry struct {
	Op       NicklistDiffOp
	Pointer  string
	ParentOf string // pointer of the parent group, for DiffAdd context rows
	Item     NicklistItem
}

// EncodeNicklistDiff encodes a diff batch, per spec §4.6: a batch of
// additions first emits the parent-group context row once, and
// consecutive additions sharing the parent omit redundant context rows.
// Rows carry the same two pointers as EncodeNicklist (a null buffer
// pointer, then the row's own pointer). If len(entries) reaches or
// exceeds len(fullItems), the encoder falls back to a full snapshot via
// EncodeNicklist.
func EncodeNicklistDiff(w *Writer, entries []DiffEntry, fullPointers []string, fullItems []NicklistItem) error {
	if len(entries) >= len(fullItems) && len(fullItems) > 0 {
		return EncodeNicklist(w, fullPointers, fullItems)
	}

	h := &Hdata{Hpath: "buffer/nicklist_item", Keys: nicklistDiffKeys}

	var lastParent string
	var haveParent bool

	for _, e := range entries {
		if e.Op == DiffAdd && (!haveParent || e.ParentOf != lastParent) {
			h.Rows = append(h.Rows, Row{
				Pointers: []string{"", e.ParentOf},
				Values:   diffValues(DiffParentContext, NicklistItem{}),
			})
			lastParent, haveParent = e.ParentOf, true
		}
		h.Rows = append(h.Rows, Row{
			Pointers: []string{"", e.Pointer},
			Values:   diffValues(e.Op, e.Item),
		})
	}

	return WriteHdata(w, true, h)
}

func nicklistValues(it NicklistItem) map[string]interface{} {
	return map[string]interface{}{
		"group": it.Group, "visible": it.Visible, "level": it.Level,
		"name": it.Name, "color": it.Color, "prefix": it.Prefix, "prefix_color": it.PrefixColor,
	}
}

func diffValues(op NicklistDiffOp, it NicklistItem) map[string]interface{} {
	v := nicklistValues(it)
	v["_diff"] = byte(op)
	return v
}
