// Copyright (c) kestrelchat authors. All rights reserved. Use of this
// source code is governed by the MIT license that can be found in the
// LICENSE file.

package ircore

import "errors"

// Sentinel errors, declared as exported package-level vars built with
// errors.New, exposed for errors.Is comparisons.
var (
	// ErrAuthFailed is returned by the relay handshake and init commands
	// when a client's hash algo or credentials are rejected.
	ErrAuthFailed = errors.New("ircore: authentication failed")

	// ErrRedirectTimeout reports that a redirected command (spec §5
	// notify engine) got no matching reply in time. No function in this
	// module returns it; it is exported for callers that wait on
	// redirects.
	ErrRedirectTimeout = errors.New("ircore: redirect wait timed out")

	// ErrQueueFull is returned by the outbound queue when a send is
	// attempted past its configured capacity.
	ErrQueueFull = errors.New("ircore: outbound queue full")

	// ErrFrameTruncated is returned by the relay codec when a frame's
	// declared length exceeds the bytes actually available.
	ErrFrameTruncated = errors.New("ircore: relay frame truncated")
)
