package vfs

import (
	"errors"
)

// Open resolves path on the mount and returns a handle to it. Write,
// truncate, and create intent are rejected: file content is immutable
// through this driver. Directories must be opened with OpenDir and nothing
// else may be.
func (m *Mount) Open(path string, mode OpenMode) (Handle, error) {
	if mode&(OpenWrite|OpenTrunc) != 0 {
		return 0, opErr("open", path, ErrReadOnly)
	}

	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()

	// Claim a free slot before resolving, so resolution cannot race the
	// table full check even if the lock is ever split.
	fd := -1
	for i := range f.fh {
		if f.fh[i].inodeNum == 0 {
			f.fh[i].inodeNum = reservedInode
			fd = i
			break
		}
	}
	if fd < 0 {
		return 0, opErr("open", path, ErrTooManyFiles)
	}

	ino, num, err := m.vol.InodeByPath(path)
	if err != nil {
		f.fh[fd].inodeNum = 0
		if errors.Is(err, ErrNotExist) && mode&OpenCreate != 0 {
			// Creation is unsupported; a create request for a missing
			// path reports the filesystem read-only, not absent.
			err = ErrReadOnly
		}
		return 0, opErr("open", path, err)
	}

	if ino.IsDir() && mode&OpenDir == 0 {
		f.fh[fd].inodeNum = 0
		m.vol.InodePut(ino)
		return 0, opErr("open", path, ErrIsDir)
	}
	if mode&OpenDir != 0 && !ino.IsDir() {
		f.fh[fd].inodeNum = 0
		m.vol.InodePut(ino)
		return 0, opErr("open", path, ErrNotDir)
	}

	f.fh[fd] = fileHandle{
		inodeNum: num,
		mode:     mode,
		inode:    ino,
		mnt:      m,
	}

	// Handles are slot index plus one; zero stays invalid.
	return Handle(fd + 1), nil
}

// Close releases the handle's inode reference and frees its slot. Closing
// an invalid or already-closed handle does nothing.
func (f *FS) Close(h Handle) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil {
		return
	}
	s.mnt.vol.InodePut(s.inode)
	*s = fileHandle{}
}

// Fcntl performs a file-control operation on the handle. GetFlags returns
// the mode captured at open time; SetFlags, GetFD, and SetFD succeed as
// no-ops.
func (f *FS) Fcntl(h Handle, cmd FcntlCmd) (OpenMode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil {
		return 0, ErrBadHandle
	}

	switch cmd {
	case GetFlags:
		return s.mode, nil
	case SetFlags, GetFD, SetFD:
		return 0, nil
	default:
		return 0, ErrInvalid
	}
}
