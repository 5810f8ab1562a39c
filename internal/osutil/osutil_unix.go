//go:build linux

package osutil

import "golang.org/x/sys/unix"

var eol = "\n"

func threadID() uint64 {
	return uint64(unix.Gettid())
}
