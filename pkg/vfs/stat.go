package vfs

import (
	"time"

	"github.com/example/ext2fs/pkg/ext2"
)

// Stat resolves path and reports the object's identity, size, modification
// time, type, and owner read/write permission bits.
func (m *Mount) Stat(path string) (Stat, error) {
	f := m.fs
	f.mu.Lock()
	defer f.mu.Unlock()

	ino, num, err := m.vol.InodeByPath(path)
	if err != nil {
		return Stat{}, opErr("stat", path, err)
	}
	defer m.vol.InodePut(ino)

	st := Stat{
		Device:  m.id,
		Inode:   num,
		Size:    int64(ino.Size),
		ModTime: time.Unix(int64(ino.Mtime), 0),
	}

	switch ino.Mode & ext2.TypeMask {
	case ext2.ModeSymlink:
		st.Type = TypeSymlink
	case ext2.ModeFile:
		st.Type = TypeFile
	case ext2.ModeDir:
		st.Type = TypeDirectory
	case ext2.ModeSocket, ext2.ModeFIFO, ext2.ModeBlock, ext2.ModeChar:
		st.Type = TypeSpecial
	default:
		st.Type = TypeUnknown
	}

	if ino.Mode&ext2.PermOwnerRead != 0 {
		st.Attr |= AttrRead
	}
	if ino.Mode&ext2.PermOwnerWrite != 0 {
		st.Attr |= AttrWrite
	}
	return st, nil
}
