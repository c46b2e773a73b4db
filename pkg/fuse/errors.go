// Package fuse exposes a mounted volume to the host kernel through the FUSE
// protocol. Nodes are thin path wrappers; every request goes through the
// driver's operation table.
package fuse

import (
	"errors"
	"syscall"

	"bazil.org/fuse"

	"github.com/example/ext2fs/pkg/vfs"
)

// errno converts a driver error to the errno FUSE reports to the kernel.
func errno(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, vfs.ErrNotExist):
		return fuse.Errno(syscall.ENOENT)
	case errors.Is(err, vfs.ErrIsDir):
		return fuse.Errno(syscall.EISDIR)
	case errors.Is(err, vfs.ErrNotDir):
		return fuse.Errno(syscall.ENOTDIR)
	case errors.Is(err, vfs.ErrExist):
		return fuse.Errno(syscall.EEXIST)
	case errors.Is(err, vfs.ErrNotEmpty):
		return fuse.Errno(syscall.ENOTEMPTY)
	case errors.Is(err, vfs.ErrReadOnly):
		return fuse.Errno(syscall.EROFS)
	case errors.Is(err, vfs.ErrBusy):
		return fuse.Errno(syscall.EBUSY)
	case errors.Is(err, vfs.ErrTooManyFiles):
		return fuse.Errno(syscall.EMFILE)
	case errors.Is(err, vfs.ErrNotPermitted):
		return fuse.Errno(syscall.EPERM)
	case errors.Is(err, vfs.ErrInvalid), errors.Is(err, vfs.ErrBadHandle):
		return fuse.Errno(syscall.EINVAL)
	case errors.Is(err, vfs.ErrCorrupt), errors.Is(err, vfs.ErrIO):
		return fuse.Errno(syscall.EIO)
	default:
		return fuse.Errno(syscall.EIO)
	}
}
