//go:build !linux

package osutil

import (
	"os"
	"sync"
)

var eol = defaultEOL()

func defaultEOL() string {
	if os.PathSeparator == '\\' {
		return "\r\n"
	}
	return "\n"
}

// threadID hands out an increasing process-unique number. Platforms without
// a direct thread-id syscall exposed via golang.org/x/sys don't get a true
// kernel tid from Go without cgo, so this trades exactness for a value that
// is at least unique and monotonic, which is all LogRecord's thread_id
// field is documented to require ("opaque numeric").
var (
	tidMu   sync.Mutex
	tidNext uint64 = 1
)

func threadID() uint64 {
	tidMu.Lock()
	defer tidMu.Unlock()
	id := tidNext
	tidNext++
	return id
}
