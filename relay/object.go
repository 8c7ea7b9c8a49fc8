// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/kestrelchat/ircore"
)

// Tag is a 3-byte ASCII object-type tag (spec §4.6 Object encoding).
type Tag string

const (
	TagChar     Tag = "chr"
	TagInt      Tag = "int"
	TagLong     Tag = "lon"
	TagString   Tag = "str"
	TagBuffer   Tag = "buf"
	TagPointer  Tag = "ptr"
	TagTime     Tag = "tim"
	TagHashtable Tag = "htb"
	TagHdata    Tag = "hda"
	TagInfo     Tag = "inf"
	TagInfolist Tag = "inl"
	TagArray    Tag = "arr"
)

// nullLength is the str/buf length prefix that discriminates a NULL value
// from an empty one (spec §4.6: "−1 = NULL, 0 = empty").
const (
	nullLength int32 = -1
)

// Writer accumulates an encoded payload: a string id followed by zero or
// more objects (spec §4.6 Payload layout).
type Writer struct {
	buf []byte
}

// NewWriter starts a payload with the given message id.
func NewWriter(id string) *Writer {
	w := &Writer{}
	w.WriteString(id)
	return w
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte { return w.buf }

func (w *Writer) writeTag(t Tag) { w.buf = append(w.buf, t[0], t[1], t[2]) }

// WriteChar writes a "chr" object.
func (w *Writer) WriteChar(tagged bool, c byte) {
	if tagged {
		w.writeTag(TagChar)
	}
	w.buf = append(w.buf, c)
}

// WriteInt writes an "int" object.
func (w *Writer) WriteInt(tagged bool, v int32) {
	if tagged {
		w.writeTag(TagInt)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf = append(w.buf, b[:]...)
}

// WriteLong writes a "lon" object: a 1-byte length N, then N ASCII
// decimal digits (sign allowed).
func (w *Writer) WriteLong(tagged bool, v int64) {
	if tagged {
		w.writeTag(TagLong)
	}
	s := strconv.FormatInt(v, 10)
	w.buf = append(w.buf, byte(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteString writes a "str" object: a 32-bit signed length prefix (−1 =
// NULL) then the bytes.
func (w *Writer) WriteString(s string) { w.writeLenPrefixedRaw(false, s) }

// WriteStringTagged writes a tagged "str" object.
func (w *Writer) WriteStringTagged(s string) { w.writeLenPrefixedRaw(true, s) }

// WriteNullString writes a NULL "str" object.
func (w *Writer) WriteNullString(tagged bool) { w.writeNullLenPrefixed(tagged, TagString) }

func (w *Writer) writeLenPrefixedRaw(tagged bool, s string) {
	if tagged {
		w.writeTag(TagString)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(int32(len(s))))
	w.buf = append(w.buf, b[:]...)
	w.buf = append(w.buf, s...)
}

func (w *Writer) writeNullLenPrefixed(tagged bool, t Tag) {
	if tagged {
		w.writeTag(t)
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(nullLength))
	w.buf = append(w.buf, b[:]...)
}

// WriteBuffer writes a "buf" object.
func (w *Writer) WriteBuffer(tagged bool, data []byte) {
	if tagged {
		w.writeTag(TagBuffer)
	}
	if data == nil {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(nullLength))
		w.buf = append(w.buf, b[:]...)
		return
	}
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(int32(len(data))))
	w.buf = append(w.buf, b[:]...)
	w.buf = append(w.buf, data...)
}

// WritePointer writes a "ptr" object: a 1-byte length N then N ASCII
// lowercase hex digits (no "0x").
func (w *Writer) WritePointer(tagged bool, hex string) {
	if tagged {
		w.writeTag(TagPointer)
	}
	if hex == "" {
		hex = "0"
	}
	w.buf = append(w.buf, byte(len(hex)))
	w.buf = append(w.buf, hex...)
}

// WriteTime writes a "tim" object: a 1-byte length N then N ASCII
// decimal digits (seconds since epoch).
func (w *Writer) WriteTime(tagged bool, unixSeconds int64) {
	if tagged {
		w.writeTag(TagTime)
	}
	s := strconv.FormatInt(unixSeconds, 10)
	w.buf = append(w.buf, byte(len(s)))
	w.buf = append(w.buf, s...)
}

// WriteArrayStrings writes an "arr" object of "str" elements.
func (w *Writer) WriteArrayStrings(tagged bool, values []string) {
	if tagged {
		w.writeTag(TagArray)
	}
	w.writeTag(TagString)
	w.WriteInt(false, int32(len(values)))
	for _, v := range values {
		w.WriteString(v)
	}
}

// WriteArrayInts writes an "arr" object of "int" elements.
func (w *Writer) WriteArrayInts(tagged bool, values []int32) {
	if tagged {
		w.writeTag(TagArray)
	}
	w.writeTag(TagInt)
	w.WriteInt(false, int32(len(values)))
	for _, v := range values {
		w.WriteInt(false, v)
	}
}

// WriteInfo writes an "inf" object: name + value, both "str".
func (w *Writer) WriteInfo(tagged bool, name, value string) {
	if tagged {
		w.writeTag(TagInfo)
	}
	w.WriteString(name)
	w.WriteString(value)
}

// Reader walks a decoded payload byte-by-byte (spec §4.6 decoder side).
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps a decoded payload for sequential reads.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// ReadID reads the leading message id string.
func (r *Reader) ReadID() (string, error) { return r.readStringRaw() }

// ReadTag reads the next object's 3-byte type tag.
func (r *Reader) ReadTag() (Tag, error) {
	if r.pos+3 > len(r.buf) {
		return "", ircore.ErrFrameTruncated
	}
	t := Tag(r.buf[r.pos : r.pos+3])
	r.pos += 3
	return t, nil
}

func (r *Reader) need(n int) error {
	if r.pos+n > len(r.buf) {
		return ircore.ErrFrameTruncated
	}
	return nil
}

// ReadChar reads a "chr" payload.
func (r *Reader) ReadChar() (byte, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	c := r.buf[r.pos]
	r.pos++
	return c, nil
}

// ReadInt reads an "int" payload.
func (r *Reader) ReadInt() (int32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4]))
	r.pos += 4
	return v, nil
}

// ReadLong reads a "lon" payload.
func (r *Reader) ReadLong() (int64, error) {
	n, err := r.readByteLen()
	if err != nil {
		return 0, err
	}
	if err := r.need(n); err != nil {
		return 0, err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return strconv.ParseInt(s, 10, 64)
}

func (r *Reader) readByteLen() (int, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	n := int(r.buf[r.pos])
	r.pos++
	return n, nil
}

// readStringRaw reads a 32-bit length-prefixed string, returning "" for
// both NULL and empty (use ReadStringN to discriminate).
func (r *Reader) readStringRaw() (string, error) {
	s, _, err := r.ReadStringN()
	return s, err
}

// ReadStringN reads a "str"/"buf"-shaped length-prefixed value,
// discriminating NULL (isNull=true) from empty.
func (r *Reader) ReadStringN() (value string, isNull bool, err error) {
	if err := r.need(4); err != nil {
		return "", false, err
	}
	n := int32(binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4]))
	r.pos += 4
	if n == nullLength {
		return "", true, nil
	}
	if n < 0 {
		return "", false, fmt.Errorf("relay: invalid length prefix %d", n)
	}
	if err := r.need(int(n)); err != nil {
		return "", false, err
	}
	s := string(r.buf[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, false, nil
}

// ReadBuffer reads a "buf" payload, returning nil for NULL.
func (r *Reader) ReadBuffer() ([]byte, error) {
	if err := r.need(4); err != nil {
		return nil, err
	}
	n := int32(binary.BigEndian.Uint32(r.buf[r.pos : r.pos+4]))
	r.pos += 4
	if n == nullLength {
		return nil, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("relay: invalid length prefix %d", n)
	}
	if err := r.need(int(n)); err != nil {
		return nil, err
	}
	b := append([]byte(nil), r.buf[r.pos:r.pos+int(n)]...)
	r.pos += int(n)
	return b, nil
}

// ReadPointer reads a "ptr" payload.
func (r *Reader) ReadPointer() (string, error) {
	n, err := r.readByteLen()
	if err != nil {
		return "", err
	}
	if err := r.need(n); err != nil {
		return "", err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return s, nil
}

// ReadTime reads a "tim" payload.
func (r *Reader) ReadTime() (int64, error) {
	n, err := r.readByteLen()
	if err != nil {
		return 0, err
	}
	if err := r.need(n); err != nil {
		return 0, err
	}
	s := string(r.buf[r.pos : r.pos+n])
	r.pos += n
	return strconv.ParseInt(s, 10, 64)
}

// ReadArrayStrings reads an "arr" of "str" payload, reading the element
// tag itself and rejecting any element tag other than TagString.
func (r *Reader) ReadArrayStrings() ([]string, error) {
	elemTag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	if elemTag != TagString {
		return nil, fmt.Errorf("relay: expected str array element, got %q", elemTag)
	}
	count, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	out := make([]string, count)
	for i := range out {
		s, _, err := r.ReadStringN()
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// ReadArrayInts reads an "arr" of "int" payload.
func (r *Reader) ReadArrayInts() ([]int32, error) {
	elemTag, err := r.ReadTag()
	if err != nil {
		return nil, err
	}
	if elemTag != TagInt {
		return nil, fmt.Errorf("relay: expected int array element, got %q", elemTag)
	}
	count, err := r.ReadInt()
	if err != nil {
		return nil, err
	}
	out := make([]int32, count)
	for i := range out {
		v, err := r.ReadInt()
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ReadInfo reads an "inf" payload: name + value.
func (r *Reader) ReadInfo() (name, value string, err error) {
	name, err = r.readStringRaw()
	if err != nil {
		return "", "", err
	}
	value, err = r.readStringRaw()
	return name, value, err
}

// Remaining reports how many bytes are left unread.
func (r *Reader) Remaining() int { return len(r.buf) - r.pos }
