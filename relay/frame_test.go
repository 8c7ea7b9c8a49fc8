// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package relay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFrameRoundTripNoCompression(t *testing.T) {
	w := NewWriter("")
	w.WriteStringTagged("hello world")

	frame, err := EncodeFrame(w.Bytes(), CompressionNone)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}

	payload, consumed, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, len(frame), consumed, "expected to consume entire frame")
	require.Equal(t, w.Bytes(), payload)
}

func TestFrameRoundTripZlib(t *testing.T) {
	payload := []byte(strings.Repeat("compress-me ", 200))

	frame, err := EncodeFrame(payload, CompressionZlib)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if frame[4] != byte(CompressionZlib) {
		t.Fatalf("expected zlib compression byte, got %d", frame[4])
	}

	got, consumed, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, len(frame), consumed, "expected full consumption")
	require.Equal(t, payload, got, "payload mismatch after zlib round trip")
}

func TestFrameRoundTripZstd(t *testing.T) {
	payload := []byte(strings.Repeat("zstd-me ", 200))

	frame, err := EncodeFrame(payload, CompressionZstd)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if frame[4] != byte(CompressionZstd) {
		t.Fatalf("expected zstd compression byte, got %d", frame[4])
	}

	got, _, err := DecodeFrame(frame)
	require.NoError(t, err)
	require.Equal(t, payload, got, "payload mismatch after zstd round trip")
}

func TestFrameCompressionSkippedWhenLarger(t *testing.T) {
	payload := []byte("x")

	frame, err := EncodeFrame(payload, CompressionZlib)
	if err != nil {
		t.Fatalf("EncodeFrame: %v", err)
	}
	if frame[4] != byte(CompressionNone) {
		t.Fatalf("expected fallback to no compression for tiny payload, got %d", frame[4])
	}
}

func TestDecodeFrameTruncated(t *testing.T) {
	_, _, err := DecodeFrame([]byte{0, 0, 0})
	if err == nil {
		t.Fatal("expected error for truncated header")
	}

	w := NewWriter("")
	w.WriteStringTagged("partial")
	frame, _ := EncodeFrame(w.Bytes(), CompressionNone)
	_, _, err = DecodeFrame(frame[:len(frame)-2])
	if err == nil {
		t.Fatal("expected error for truncated body")
	}
}
