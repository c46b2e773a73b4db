package memfs

import (
	"fmt"

	"github.com/example/ext2fs/pkg/ext2"
)

// dirBlocks returns the block map for a directory inode.
func (v *Volume) dirBlocks(dir *ext2.Inode) ([]uint64, error) {
	st, ok := v.inodes[dir.Num]
	if !ok {
		return nil, ext2.ErrIO
	}
	return st.blocks, nil
}

// walkEntries calls fn for every record in dir, tombstones included. fn
// returns true to stop the walk; walkEntries then reports whether it was
// stopped. The block passed to fn may be mutated and written back with
// writeBlock.
func (v *Volume) walkEntries(dir *ext2.Inode, fn func(block []byte, blockNum uint64, off uint32, ent ext2.DirEntry) (bool, error)) (bool, error) {
	blocks, err := v.dirBlocks(dir)
	if err != nil {
		return false, err
	}

	for _, blockNum := range blocks {
		if err := v.dev.ReadBlocks(blockNum, 1, v.scratch); err != nil {
			return false, err
		}
		for off := uint32(0); off < v.blockSize; {
			ent, err := ext2.DecodeDirEntry(v.scratch, off)
			if err != nil {
				return false, err
			}
			if ent.RecLen == 0 {
				return false, ext2.ErrCorrupt
			}
			stop, err := fn(v.scratch, blockNum, off, ent)
			if err != nil {
				return false, err
			}
			if stop {
				return true, nil
			}
			off += uint32(ent.RecLen)
		}
	}
	return false, nil
}

// LookupEntry searches dir for a live entry with the given name.
func (v *Volume) LookupEntry(dir *ext2.Inode, name string) (*ext2.DirEntry, bool) {
	var found ext2.DirEntry
	stopped, err := v.walkEntries(dir, func(_ []byte, _ uint64, _ uint32, ent ext2.DirEntry) (bool, error) {
		if ent.Inode != 0 && ent.Name == name {
			found = ent
			return true, nil
		}
		return false, nil
	})
	if err != nil || !stopped {
		return nil, false
	}
	return &found, true
}

// AddEntry links name to inode num in dir. It reclaims a tombstone or the
// tail slack of a live record when one is big enough, and otherwise extends
// the directory by one block.
func (v *Volume) AddEntry(dir *ext2.Inode, name string, num uint32, target *ext2.Inode) error {
	if len(name) == 0 || len(name) > maxNameLen {
		return fmt.Errorf("memfs: bad entry name %q", name)
	}

	need := ext2.DirEntrySize(len(name))
	newEnt := ext2.DirEntry{
		Inode:   num,
		NameLen: uint8(len(name)),
		Type:    ext2.FileTypeForMode(target.Mode),
		Name:    name,
	}

	placed, err := v.walkEntries(dir, func(block []byte, blockNum uint64, off uint32, ent ext2.DirEntry) (bool, error) {
		if ent.Inode == 0 && ent.RecLen >= need {
			// Claim the tombstone, keeping its full record length.
			newEnt.RecLen = ent.RecLen
			ext2.EncodeDirEntry(block, off, newEnt)
			return true, v.writeBlock(blockNum, block)
		}
		if ent.Inode != 0 {
			used := ext2.DirEntrySize(int(ent.NameLen))
			if ent.RecLen-used >= need {
				// Split the slack off the end of this record.
				newEnt.RecLen = ent.RecLen - used
				ent.RecLen = used
				ext2.EncodeDirEntry(block, off, ent)
				ext2.EncodeDirEntry(block, off+uint32(used), newEnt)
				return true, v.writeBlock(blockNum, block)
			}
		}
		return false, nil
	})
	if err != nil {
		return err
	}
	if placed {
		return nil
	}

	// No room anywhere; grow the directory by a block.
	blockNum, err := v.allocBlock()
	if err != nil {
		return err
	}
	block := make([]byte, v.blockSize)
	newEnt.RecLen = uint16(v.blockSize)
	ext2.EncodeDirEntry(block, 0, newEnt)
	if err := v.writeBlock(blockNum, block); err != nil {
		v.freeList = append(v.freeList, blockNum)
		return err
	}

	st := v.inodes[dir.Num]
	st.blocks = append(st.blocks, blockNum)
	dir.Size += v.blockSize
	dir.MarkDirty()
	return nil
}

// RemoveEntry tombstones the named entry and returns the inode number it
// referenced. The record keeps its length so the space stays reusable.
func (v *Volume) RemoveEntry(dir *ext2.Inode, name string) (uint32, error) {
	var removed uint32
	stopped, err := v.walkEntries(dir, func(block []byte, blockNum uint64, off uint32, ent ext2.DirEntry) (bool, error) {
		if ent.Inode == 0 || ent.Name != name {
			return false, nil
		}
		removed = ent.Inode
		ent.Inode = 0
		ext2.EncodeDirEntry(block, off, ent)
		return true, v.writeBlock(blockNum, block)
	})
	if err != nil {
		return 0, err
	}
	if !stopped {
		return 0, ext2.ErrNotExist
	}
	return removed, nil
}

// RedirectEntry points the named entry at a different inode number.
func (v *Volume) RedirectEntry(dir *ext2.Inode, name string, num uint32) error {
	stopped, err := v.walkEntries(dir, func(block []byte, blockNum uint64, off uint32, ent ext2.DirEntry) (bool, error) {
		if ent.Inode == 0 || ent.Name != name {
			return false, nil
		}
		ent.Inode = num
		ext2.EncodeDirEntry(block, off, ent)
		return true, v.writeBlock(blockNum, block)
	})
	if err != nil {
		return err
	}
	if !stopped {
		return ext2.ErrNotExist
	}
	return nil
}

// EmptyDir reports whether dir holds no live entries besides "." and "..".
func (v *Volume) EmptyDir(dir *ext2.Inode) (bool, error) {
	stopped, err := v.walkEntries(dir, func(_ []byte, _ uint64, _ uint32, ent ext2.DirEntry) (bool, error) {
		if ent.Inode != 0 && ent.Name != "." && ent.Name != ".." {
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return false, err
	}
	return !stopped, nil
}

// InitDir lays out a freshly allocated inode as an empty directory with "."
// and ".." entries. The caller links it into its parent afterwards.
func (v *Volume) InitDir(ino *ext2.Inode, num, parent uint32) error {
	blockNum, err := v.allocBlock()
	if err != nil {
		return err
	}

	block := make([]byte, v.blockSize)
	dot := ext2.DirEntry{
		Inode:   num,
		RecLen:  ext2.DirEntrySize(1),
		NameLen: 1,
		Type:    ext2.FileTypeDirectory,
		Name:    ".",
	}
	dotdot := ext2.DirEntry{
		Inode:   parent,
		RecLen:  uint16(v.blockSize) - dot.RecLen,
		NameLen: 2,
		Type:    ext2.FileTypeDirectory,
		Name:    "..",
	}
	ext2.EncodeDirEntry(block, 0, dot)
	ext2.EncodeDirEntry(block, uint32(dot.RecLen), dotdot)
	if err := v.writeBlock(blockNum, block); err != nil {
		v.freeList = append(v.freeList, blockNum)
		return err
	}

	st, ok := v.inodes[ino.Num]
	if !ok {
		return ext2.ErrIO
	}
	st.blocks = append(st.blocks, blockNum)
	ino.Mode = ino.Mode&^ext2.TypeMask | ext2.ModeDir
	ino.Size = v.blockSize
	ino.Links = 2
	ino.MarkDirty()
	return nil
}
