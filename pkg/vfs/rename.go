package vfs

// Rename moves the object at oldPath to newPath, in the same or a different
// directory of the same mount. An existing object at newPath is replaced,
// unless it is a non-empty directory or types conflict. Moving a directory
// between parents rewrites its ".." and shifts the parents' link counts.
func (m *Mount) Rename(oldPath, newPath string) error {
	if oldPath == "" || newPath == "" {
		return opErr("rename", oldPath, ErrInvalid)
	}
	if m.flags&MountReadWrite == 0 {
		return opErr("rename", oldPath, ErrReadOnly)
	}
	sparent, sleaf, ok := splitPath(oldPath)
	if !ok {
		return opErr("rename", oldPath, ErrInvalid)
	}
	dparent, dleaf, ok := splitPath(newPath)
	if !ok {
		return opErr("rename", newPath, ErrInvalid)
	}

	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()
	vol := m.vol

	pino, _, err := vol.InodeByPath(sparent)
	if err != nil {
		return opErr("rename", oldPath, err)
	}
	defer vol.InodePut(pino)
	if !pino.IsDir() {
		return opErr("rename", oldPath, ErrNotDir)
	}

	sent, found := vol.LookupEntry(pino, sleaf)
	if !found {
		return opErr("rename", oldPath, ErrNotExist)
	}
	srcNum := sent.Inode

	sino, err := vol.InodeGet(srcNum)
	if err != nil {
		return opErr("rename", oldPath, ErrIO)
	}
	defer vol.InodePut(sino)
	srcIsDir := sino.IsDir()

	dpino, dpnum, err := vol.InodeByPath(dparent)
	if err != nil {
		return opErr("rename", newPath, err)
	}
	defer vol.InodePut(dpino)
	if !dpino.IsDir() {
		return opErr("rename", newPath, ErrNotDir)
	}

	// A live object at the destination is replaced in place, with the same
	// restrictions POSIX rename carries: a directory only replaces an empty
	// directory, a file never replaces a directory.
	if dent, exists := vol.LookupEntry(dpino, dleaf); exists {
		dino, err := vol.InodeGet(dent.Inode)
		if err != nil {
			return opErr("rename", newPath, ErrIO)
		}
		defer vol.InodePut(dino)
		dstIsDir := dino.IsDir()

		if dstIsDir && !srcIsDir {
			return opErr("rename", newPath, ErrIsDir)
		}
		if dstIsDir && srcIsDir {
			empty, err := vol.EmptyDir(dino)
			if err != nil {
				return opErr("rename", newPath, ErrIO)
			}
			if !empty {
				return opErr("rename", newPath, ErrNotEmpty)
			}
		}
		if f.inodeBusy(dent.Inode) {
			return opErr("rename", newPath, ErrBusy)
		}

		removed, err := vol.RemoveEntry(dpino, dleaf)
		if err != nil {
			return opErr("rename", newPath, ErrIO)
		}
		if err := vol.InodeDeref(removed, dstIsDir); err != nil {
			return opErr("rename", newPath, ErrIO)
		}
		if dstIsDir {
			dpino.Links--
			dpino.MarkDirty()
		}
	}

	if err := vol.AddEntry(dpino, dleaf, srcNum, sino); err != nil {
		return opErr("rename", newPath, ErrIO)
	}
	if _, err := vol.RemoveEntry(pino, sleaf); err != nil {
		return opErr("rename", oldPath, ErrIO)
	}

	if srcIsDir {
		// The moved directory's ".." must follow it to the new parent.
		if err := vol.RedirectEntry(sino, "..", dpnum); err != nil {
			return opErr("rename", newPath, ErrIO)
		}
		pino.Links--
		pino.MarkDirty()
		dpino.Links++
		dpino.MarkDirty()
	}
	return nil
}
