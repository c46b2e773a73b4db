package vfs

import (
	"time"
)

// Unlink removes the directory entry for a non-directory object and drops
// the inode's link reference. It refuses while any handle holds the inode
// open. The entry removal is durable before the dereference: a failure in
// the dereference leaves an unreachable inode, never a dangling entry.
func (m *Mount) Unlink(path string) error {
	if path == "" {
		// The root cannot be unlinked.
		return opErr("unlink", path, ErrNotPermitted)
	}
	if m.flags&MountReadWrite == 0 {
		return opErr("unlink", path, ErrReadOnly)
	}
	parent, leaf, ok := splitPath(path)
	if !ok {
		return opErr("unlink", path, ErrNotPermitted)
	}

	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()
	vol := m.vol

	pino, _, err := vol.InodeByPath(parent)
	if err != nil {
		return opErr("unlink", path, err)
	}
	defer vol.InodePut(pino)
	if !pino.IsDir() {
		return opErr("unlink", path, ErrNotDir)
	}

	ent, found := vol.LookupEntry(pino, leaf)
	if !found {
		return opErr("unlink", path, ErrNotExist)
	}

	ino, err := vol.InodeGet(ent.Inode)
	if err != nil {
		return opErr("unlink", path, ErrIO)
	}
	defer vol.InodePut(ino)

	// Directories come off through Rmdir only.
	if ino.IsDir() {
		return opErr("unlink", path, ErrNotPermitted)
	}

	if f.inodeBusy(ent.Inode) {
		return opErr("unlink", path, ErrBusy)
	}

	removed, err := vol.RemoveEntry(pino, leaf)
	if err != nil {
		return opErr("unlink", path, err)
	}

	now := uint32(time.Now().Unix())
	pino.Ctime, pino.Mtime = now, now
	pino.MarkDirty()

	if err := vol.InodeDeref(removed, false); err != nil {
		return opErr("unlink", path, err)
	}
	return nil
}

// Rmdir removes a directory: its entry comes out of the parent, the
// directory inode is dereferenced with its contents, and the parent loses
// the link the subdirectory held on it. Emptiness is NOT verified; removing
// a non-empty directory strands its children's inodes in the backend's
// accounting. Callers that care must check first.
func (m *Mount) Rmdir(path string) error {
	if path == "" || path == "/" {
		return opErr("rmdir", path, ErrNotPermitted)
	}
	if m.flags&MountReadWrite == 0 {
		return opErr("rmdir", path, ErrReadOnly)
	}
	parent, leaf, ok := splitPath(path)
	if !ok {
		return opErr("rmdir", path, ErrNotPermitted)
	}

	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()
	vol := m.vol

	pino, _, err := vol.InodeByPath(parent)
	if err != nil {
		return opErr("rmdir", path, err)
	}
	defer vol.InodePut(pino)
	if !pino.IsDir() {
		return opErr("rmdir", path, ErrNotDir)
	}

	ent, found := vol.LookupEntry(pino, leaf)
	if !found {
		return opErr("rmdir", path, ErrNotExist)
	}

	ino, err := vol.InodeGet(ent.Inode)
	if err != nil {
		return opErr("rmdir", path, ErrIO)
	}
	defer vol.InodePut(ino)

	// Non-directories come off through Unlink only.
	if !ino.IsDir() {
		return opErr("rmdir", path, ErrNotPermitted)
	}

	if f.inodeBusy(ent.Inode) {
		return opErr("rmdir", path, ErrBusy)
	}

	removed, err := vol.RemoveEntry(pino, leaf)
	if err != nil {
		return opErr("rmdir", path, err)
	}

	if err := vol.InodeDeref(removed, true); err != nil {
		return opErr("rmdir", path, err)
	}

	// The subdirectory's ".." no longer references the parent.
	now := uint32(time.Now().Unix())
	pino.Ctime, pino.Mtime = now, now
	pino.Links--
	pino.MarkDirty()
	return nil
}
