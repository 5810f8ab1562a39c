// Package osutil bundles the small platform shims the core needs: the
// calling OS thread id (spdlog's os_unix.cpp/os_windows.cpp use gettid(),
// pthread_threadid_np, or GetCurrentThreadId depending on platform; this
// package exposes one ThreadID() that calls gettid() on Linux and falls
// back to a process-unique counter value elsewhere) and the platform end-of-line
// sequence used by the default pattern formatter.
package osutil

import (
	"runtime"
)

// EOL is the default pattern formatter's line terminator: "\r\n" on
// Windows, "\n" everywhere else, matching spdlog's os::default_eol().
var EOL = eol

// ThreadID returns an OS-level identifier for the calling thread, used to
// populate LogRecord.ThreadID. On platforms with direct OS thread-id
// support it returns a real kernel thread id; elsewhere it returns a
// best-effort process-unique value. Callers must not depend on any
// particular numbering scheme beyond "stable for the lifetime of the call".
func ThreadID() uint64 {
	return threadID()
}

// NumCPU reports the number of logical CPUs.
func NumCPU() int {
	return runtime.NumCPU()
}
