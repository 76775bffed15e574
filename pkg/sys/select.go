//go:build !windows && !plan9

package sys

import (
	"time"

	"golang.org/x/sys/unix"
)

// Select waits until a descriptor in one of the given sets becomes ready, or
// until the timeout elapses. A negative timeout blocks indefinitely. It
// returns the number of ready descriptors; 0 means the wait timed out.
//
// Select may fail with EINTR when a signal arrives during the wait; callers
// are expected to just retry.
func Select(nfd int, r, w, e *FdSet, timeout time.Duration) (int, error) {
	var ptimeval *unix.Timeval
	if timeout >= 0 {
		timeval := unix.NsecToTimeval(int64(timeout))
		ptimeval = &timeval
	}
	return unix.Select(nfd, r.s(), w.s(), e.s(), ptimeval)
}
