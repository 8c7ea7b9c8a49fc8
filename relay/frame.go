// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

// Package relay implements the WeeChat-relay-style binary protocol
// (spec §4.6): length-prefixed frames carrying a typed object stream,
// hdata record sets, nicklist diffs, and a command/auth handshake.
package relay

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/kestrelchat/ircore"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Compression identifies a frame's compression byte.
type Compression byte

const (
	CompressionNone Compression = 0
	CompressionZlib Compression = 1
	CompressionZstd Compression = 2
)

const headerLen = 5 // uint32 length + uint8 compression

// EncodeFrame compresses payload with the one algorithm named by want
// (zlib or zstd; CompressionNone skips compression) and prepends the
// 5-byte header. Compression is
// applied only if it's strictly smaller than the uncompressed payload
// (spec §4.6 Frame layout); otherwise the frame falls back to
// compression=0.
func EncodeFrame(payload []byte, want Compression) ([]byte, error) {
	body := payload
	comp := CompressionNone

	switch want {
	case CompressionZlib:
		if c, err := compressZlib(payload); err == nil && len(c) < len(payload) {
			body, comp = c, CompressionZlib
		}
	case CompressionZstd:
		if c, err := compressZstd(payload); err == nil && len(c) < len(payload) {
			body, comp = c, CompressionZstd
		}
	}

	total := uint32(headerLen + len(body))
	out := make([]byte, headerLen, int(total))
	binary.BigEndian.PutUint32(out[0:4], total)
	out[4] = byte(comp)
	out = append(out, body...)
	return out, nil
}

// DecodeFrame reads one frame from buf. If buf doesn't yet contain a
// full frame, it returns ircore.ErrFrameTruncated so the transport can
// wait for more bytes (spec §7 "need more bytes").
func DecodeFrame(buf []byte) (payload []byte, consumed int, err error) {
	if len(buf) < headerLen {
		return nil, 0, ircore.ErrFrameTruncated
	}
	total := binary.BigEndian.Uint32(buf[0:4])
	if total < headerLen || len(buf) < int(total) {
		return nil, 0, ircore.ErrFrameTruncated
	}
	comp := Compression(buf[4])
	body := buf[headerLen:total]

	switch comp {
	case CompressionNone:
		payload = append([]byte(nil), body...)
	case CompressionZlib:
		payload, err = decompressZlib(body)
	case CompressionZstd:
		payload, err = decompressZstd(body)
	default:
		payload = append([]byte(nil), body...)
	}
	if err != nil {
		return nil, 0, err
	}
	return payload, int(total), nil
}

func compressZlib(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressZlib(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func compressZstd(data []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, err
	}
	defer enc.Close()
	return enc.EncodeAll(data, nil), nil
}

func decompressZstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}
