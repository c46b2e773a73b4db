package vfs

import (
	"time"

	"github.com/example/ext2fs/pkg/ext2"
)

// ReadDir returns the next live entry of an open directory, or (nil, nil)
// at end-of-directory. Tombstoned records are skipped without surfacing.
// The returned record is reused by the next ReadDir on the same handle.
func (f *FS) ReadDir(h Handle) (*Dirent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil || s.mode&OpenDir == 0 {
		return nil, ErrInvalid
	}

	vol := s.mnt.vol
	bs := uint64(vol.BlockSize())
	lbs := vol.LogBlockSize()

	for {
		if s.ptr >= uint64(s.inode.Size) {
			return nil, nil
		}

		block, err := vol.ReadBlock(s.inode, uint32(s.ptr>>lbs))
		if err != nil {
			return nil, err
		}

		ent, err := ext2.DecodeDirEntry(block, uint32(s.ptr&(bs-1)))
		if err != nil {
			return nil, err
		}
		// A record length of zero cannot advance the cursor; the
		// directory is damaged.
		if ent.RecLen == 0 {
			return nil, ErrCorrupt
		}

		if ent.Inode == 0 {
			s.ptr += uint64(ent.RecLen)
			continue
		}

		ino, err := vol.InodeGet(ent.Inode)
		if err != nil {
			return nil, ErrIO
		}
		s.dent = Dirent{
			Name:    ent.Name,
			Size:    int64(ino.Size),
			ModTime: time.Unix(int64(ino.Mtime), 0),
			Dir:     ino.IsDir(),
		}
		vol.InodePut(ino)

		s.ptr += uint64(ent.RecLen)
		return &s.dent, nil
	}
}
