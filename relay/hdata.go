// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

import (
	"fmt"
	"strconv"
	"strings"
)

// FieldSpec is one "name:type" entry from an hdata's keys string (spec
// §4.6 "hda rows").
type FieldSpec struct {
	Name string
	Type Tag
}

// ParseKeys decodes "name1:type1,name2:type2,…" into field specs.
func ParseKeys(keys string) []FieldSpec {
	var out []FieldSpec
	for _, part := range strings.Split(keys, ",") {
		if part == "" {
			continue
		}
		i := strings.IndexByte(part, ':')
		if i < 0 {
			continue
		}
		out = append(out, FieldSpec{Name: part[:i], Type: Tag(part[i+1:])})
	}
	return out
}

// EncodeKeys is the inverse of ParseKeys.
func EncodeKeys(fields []FieldSpec) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f.Name + ":" + string(f.Type)
	}
	return strings.Join(parts, ",")
}

// Row is one hdata record: one pointer per hpath segment, then field
// values in keys order, keyed by field name.
type Row struct {
	Pointers []string
	Values   map[string]interface{}
}

// Hdata is a decoded "hda" record set (spec §4.6).
type Hdata struct {
	Hpath string
	Keys  []FieldSpec
	Rows  []Row
}

// WriteHdata encodes an hda object: str hpath + str keys + int row count
// + rows (one ptr per hpath segment, then field values in keys order).
func WriteHdata(w *Writer, tagged bool, h *Hdata) error {
	if tagged {
		w.writeTag(TagHdata)
	}
	w.WriteString(h.Hpath)
	w.WriteString(EncodeKeys(h.Keys))
	w.WriteInt(false, int32(len(h.Rows)))

	segCount := len(strings.Split(h.Hpath, "/"))
	for _, row := range h.Rows {
		if len(row.Pointers) != segCount {
			return fmt.Errorf("relay: row has %d pointers, hpath %q needs %d", len(row.Pointers), h.Hpath, segCount)
		}
		for _, p := range row.Pointers {
			w.WritePointer(false, p)
		}
		for _, f := range h.Keys {
			if err := writeField(w, f, row.Values[f.Name]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeField(w *Writer, f FieldSpec, v interface{}) error {
	switch f.Type {
	case TagChar:
		b, _ := v.(byte)
		w.WriteChar(false, b)
	case TagInt:
		n, _ := v.(int32)
		w.WriteInt(false, n)
	case TagLong:
		n, _ := v.(int64)
		w.WriteLong(false, n)
	case TagString:
		s, _ := v.(string)
		w.WriteString(s)
	case TagBuffer:
		b, _ := v.([]byte)
		w.WriteBuffer(false, b)
	case TagPointer:
		s, _ := v.(string)
		w.WritePointer(false, s)
	case TagTime:
		n, _ := v.(int64)
		w.WriteTime(false, n)
	case TagArray:
		ss, ok := v.([]string)
		if ok {
			w.WriteArrayStrings(false, ss)
			return nil
		}
		ii, _ := v.([]int32)
		w.WriteArrayInts(false, ii)
	default:
		return fmt.Errorf("relay: unsupported field type %q", f.Type)
	}
	return nil
}

// ReadHdata decodes an hda object (the tag itself must already have been
// consumed by the caller via Reader.ReadTag).
func ReadHdata(r *Reader) (*Hdata, error) {
	hpath, err := r.readStringRaw()
	if err != nil {
		return nil, err
	}
	keysStr, err := r.readStringRaw()
	if err != nil {
		return nil, err
	}
	keys := ParseKeys(keysStr)

	count, err := r.ReadInt()
	if err != nil {
		return nil, err
	}

	segCount := len(strings.Split(hpath, "/"))
	h := &Hdata{Hpath: hpath, Keys: keys}

	for i := int32(0); i < count; i++ {
		row := Row{Values: make(map[string]interface{}, len(keys))}
		for s := 0; s < segCount; s++ {
			p, err := r.ReadPointer()
			if err != nil {
				return nil, err
			}
			row.Pointers = append(row.Pointers, p)
		}
		for _, f := range keys {
			v, err := readField(r, f)
			if err != nil {
				return nil, err
			}
			row.Values[f.Name] = v
		}
		h.Rows = append(h.Rows, row)
	}
	return h, nil
}

func readField(r *Reader, f FieldSpec) (interface{}, error) {
	switch f.Type {
	case TagChar:
		return r.ReadChar()
	case TagInt:
		return r.ReadInt()
	case TagLong:
		return r.ReadLong()
	case TagString:
		s, _, err := r.ReadStringN()
		return s, err
	case TagBuffer:
		return r.ReadBuffer()
	case TagPointer:
		return r.ReadPointer()
	case TagTime:
		return r.ReadTime()
	case TagArray:
		elemTag, err := r.ReadTag()
		if err != nil {
			return nil, err
		}
		count, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		switch elemTag {
		case TagString:
			out := make([]string, count)
			for i := range out {
				s, _, err := r.ReadStringN()
				if err != nil {
					return nil, err
				}
				out[i] = s
			}
			return out, nil
		case TagInt:
			out := make([]int32, count)
			for i := range out {
				v, err := r.ReadInt()
				if err != nil {
					return nil, err
				}
				out[i] = v
			}
			return out, nil
		default:
			return nil, fmt.Errorf("relay: unsupported array element type %q", elemTag)
		}
	default:
		return nil, fmt.Errorf("relay: unsupported field type %q", f.Type)
	}
}

// Hashtable is a decoded "htb" object (spec §4.6, design note on
// runtime-typed hashtables).
type Hashtable struct {
	KeyType   Tag
	ValueType Tag
	Pairs     map[string]string
}

// WriteHashtable encodes an htb object. Pairs are kept as plain Go
// strings regardless of KeyType/ValueType; writeHashtableValue encodes
// each one on the wire according to its declared kind (spec §4.6's
// hashtable can carry any of chr/int/lon/str/buf/ptr/tim per side).
func WriteHashtable(w *Writer, tagged bool, h *Hashtable) {
	if tagged {
		w.writeTag(TagHashtable)
	}
	w.writeTag(h.KeyType)
	w.writeTag(h.ValueType)
	w.WriteInt(false, int32(len(h.Pairs)))
	for k, v := range h.Pairs {
		writeHashtableValue(w, h.KeyType, k)
		writeHashtableValue(w, h.ValueType, v)
	}
}

// writeHashtableValue encodes s on the wire as kind, untagged (the
// hashtable header already declared the kind for every entry).
func writeHashtableValue(w *Writer, kind Tag, s string) {
	switch kind {
	case TagChar:
		var c byte
		if len(s) > 0 {
			c = s[0]
		}
		w.WriteChar(false, c)
	case TagInt:
		n, _ := strconv.ParseInt(s, 10, 32)
		w.WriteInt(false, int32(n))
	case TagLong:
		n, _ := strconv.ParseInt(s, 10, 64)
		w.WriteLong(false, n)
	case TagBuffer:
		w.WriteBuffer(false, []byte(s))
	case TagPointer:
		w.WritePointer(false, s)
	case TagTime:
		n, _ := strconv.ParseInt(s, 10, 64)
		w.WriteTime(false, n)
	default:
		w.WriteString(s)
	}
}

// readHashtableValue is writeHashtableValue's inverse, rendering
// non-string kinds back to their decimal/hex string form so Pairs stays
// uniformly string-typed.
func readHashtableValue(r *Reader, kind Tag) (string, error) {
	switch kind {
	case TagChar:
		c, err := r.ReadChar()
		if err != nil {
			return "", err
		}
		return string(c), nil
	case TagInt:
		n, err := r.ReadInt()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(int64(n), 10), nil
	case TagLong:
		n, err := r.ReadLong()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	case TagBuffer:
		b, err := r.ReadBuffer()
		if err != nil {
			return "", err
		}
		return string(b), nil
	case TagPointer:
		return r.ReadPointer()
	case TagTime:
		n, err := r.ReadTime()
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(n, 10), nil
	default:
		s, _, err := r.ReadStringN()
		return s, err
	}
}

// ReadHashtable decodes an htb object, using KeyType/ValueType to
// decode each entry's wire representation.
func ReadHashtable(r *Reader) (*Hashtable, error) {
	keyTag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	valTag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	count, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	h := &Hashtable{KeyType: keyTag, ValueType: valTag, Pairs: make(map[string]string, count)}
	for i := int32(0); i < count; i++ {
		k, err := readHashtableValue(r, keyTag)
		if err != nil {
			return nil, err
		}
		v, err := readHashtableValue(r, valTag)
		if err != nil {
			return nil, err
		}
		h.Pairs[k] = v
	}
	return h, nil
}
