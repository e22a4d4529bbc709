package utils

import "io"

// drainLimit bounds how much of an unread body is discarded before closing.
const drainLimit = 64 << 10

// DrainClose discards what is left of an HTTP response body, up to a limit,
// then closes it so the keep-alive connection goes back to the pool.
func DrainClose(rc io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, rc, drainLimit)
	_ = rc.Close()
}
