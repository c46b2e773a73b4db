package vfs

import (
	"time"
)

// Mkdir creates an empty directory at path, inheriting mode and ownership
// from the parent. A freshly allocated inode that cannot be initialized or
// linked is deallocated again; no orphan survives a failed mkdir.
func (m *Mount) Mkdir(path string) error {
	if path == "" {
		// The root already exists.
		return opErr("mkdir", path, ErrExist)
	}
	if m.flags&MountReadWrite == 0 {
		return opErr("mkdir", path, ErrReadOnly)
	}
	parent, leaf, ok := splitPath(path)
	if !ok {
		return opErr("mkdir", path, ErrNotExist)
	}

	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()
	vol := m.vol

	pino, pnum, err := vol.InodeByPath(parent)
	if err != nil {
		return opErr("mkdir", path, err)
	}
	defer vol.InodePut(pino)
	if !pino.IsDir() {
		return opErr("mkdir", path, ErrNotDir)
	}

	if _, exists := vol.LookupEntry(pino, leaf); exists {
		return opErr("mkdir", path, ErrExist)
	}

	nino, nnum, err := vol.InodeAlloc(pnum)
	if err != nil {
		return opErr("mkdir", path, err)
	}
	defer vol.InodePut(nino)

	// Inherit the interesting parts from the parent.
	now := uint32(time.Now().Unix())
	nino.Mode = pino.Mode
	nino.UID, nino.GID = pino.UID, pino.GID
	nino.UIDHigh, nino.GIDHigh = pino.UIDHigh, pino.GIDHigh
	nino.Atime, nino.Ctime, nino.Mtime = now, now, now

	if err := vol.InitDir(nino, nnum, pnum); err != nil {
		if derr := vol.InodeDeref(nnum, true); derr != nil {
			f.log.WithField("path", path).WithError(derr).
				Debug("failed to release unlinked directory inode")
		}
		return opErr("mkdir", path, err)
	}

	if err := vol.AddEntry(pino, leaf, nnum, nino); err != nil {
		if derr := vol.InodeDeref(nnum, true); derr != nil {
			f.log.WithField("path", path).WithError(derr).
				Debug("failed to release unlinked directory inode")
		}
		return opErr("mkdir", path, err)
	}

	// The new directory's ".." is one more reference to the parent.
	pino.Links++
	pino.MarkDirty()
	return nil
}
