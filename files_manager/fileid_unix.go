//go:build unix

package files_manager

import (
	"os"
	"syscall"
)

type fileID struct {
	dev uint64
	ino uint64
}

func identify(_ string, info os.FileInfo) (fileID, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return fileID{}, false
	}
	return fileID{dev: uint64(st.Dev), ino: uint64(st.Ino)}, true
}
