package fuse

import (
	"syscall"
	"testing"
	"time"

	"bazil.org/fuse"

	"github.com/example/ext2fs/pkg/vfs"
)

func TestErrno(t *testing.T) {
	cases := []struct {
		err  error
		want syscall.Errno
	}{
		{vfs.ErrNotExist, syscall.ENOENT},
		{vfs.ErrIsDir, syscall.EISDIR},
		{vfs.ErrNotDir, syscall.ENOTDIR},
		{vfs.ErrExist, syscall.EEXIST},
		{vfs.ErrNotEmpty, syscall.ENOTEMPTY},
		{vfs.ErrReadOnly, syscall.EROFS},
		{vfs.ErrBusy, syscall.EBUSY},
		{vfs.ErrTooManyFiles, syscall.EMFILE},
		{vfs.ErrNotPermitted, syscall.EPERM},
		{vfs.ErrInvalid, syscall.EINVAL},
		{vfs.ErrBadHandle, syscall.EINVAL},
		{vfs.ErrCorrupt, syscall.EIO},
		{vfs.ErrIO, syscall.EIO},
		{syscall.EAGAIN, syscall.EIO},
	}
	for _, c := range cases {
		got := errno(c.err)
		if got != fuse.Errno(c.want) {
			t.Errorf("errno(%v) = %v, want %v", c.err, got, fuse.Errno(c.want))
		}
	}

	// Wrapped errors map the same as bare sentinels.
	wrapped := &vfs.OpError{Op: "open", Path: "/x", Err: vfs.ErrNotExist}
	if got := errno(wrapped); got != fuse.Errno(syscall.ENOENT) {
		t.Errorf("errno(wrapped) = %v, want ENOENT", got)
	}

	if errno(nil) != nil {
		t.Error("errno(nil) is not nil")
	}
}

func TestFillAttr(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	st := vfs.Stat{
		Inode:   42,
		Size:    1234,
		ModTime: now,
		Type:    vfs.TypeDirectory,
		Attr:    vfs.AttrRead | vfs.AttrWrite,
	}

	var attr fuse.Attr
	fillAttr(&attr, st)

	if attr.Inode != 42 || attr.Size != 1234 || !attr.Mtime.Equal(now) {
		t.Errorf("attr = %+v", attr)
	}
	if !attr.Mode.IsDir() {
		t.Error("directory mode bit not set")
	}
	if attr.Mode.Perm()&0o400 == 0 || attr.Mode.Perm()&0o200 == 0 {
		t.Errorf("permissions = %v, want owner read+write", attr.Mode.Perm())
	}

	st.Type = vfs.TypeFile
	st.Attr = vfs.AttrRead
	fillAttr(&attr, st)
	if attr.Mode.IsDir() {
		t.Error("file reported as directory")
	}
	if attr.Mode.Perm()&0o200 != 0 {
		t.Error("write bit set on read-only file")
	}
}
