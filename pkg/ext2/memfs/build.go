package memfs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/example/ext2fs/pkg/ext2"
)

// Builder surface: tests and tools use these to populate a volume before it
// is handed to the driver. The driver itself never creates file content.

// splitPath separates a path into its parent directory and leaf name.
func splitPath(path string) (parent, leaf string, err error) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", "", fmt.Errorf("memfs: path %q has no parent", path)
	}
	return path[:i], path[i+1:], nil
}

// WriteFile creates a regular file at path with the given content. A zero
// mode defaults to a 0644 regular file.
func (v *Volume) WriteFile(path string, data []byte, mode uint16) error {
	if mode == 0 {
		mode = ext2.ModeFile | 0o644
	}
	return v.addNode(path, mode, data)
}

// MkDir creates an empty directory at path. A zero mode defaults to 0755.
func (v *Volume) MkDir(path string, mode uint16) error {
	if mode == 0 {
		mode = ext2.ModeDir | 0o755
	}
	mode = mode&^ext2.TypeMask | ext2.ModeDir

	parent, leaf, err := splitPath(path)
	if err != nil {
		return err
	}

	pino, pnum, err := v.InodeByPath(parent)
	if err != nil {
		return err
	}
	defer v.InodePut(pino)

	if _, ok := v.LookupEntry(pino, leaf); ok {
		return ext2.ErrExist
	}

	ino, num, err := v.InodeAlloc(pnum)
	if err != nil {
		return err
	}
	defer v.InodePut(ino)

	now := uint32(time.Now().Unix())
	ino.Mode = mode
	ino.Atime, ino.Ctime, ino.Mtime = now, now, now
	if err := v.InitDir(ino, num, pnum); err != nil {
		return err
	}
	if err := v.AddEntry(pino, leaf, num, ino); err != nil {
		return err
	}
	pino.Links++
	pino.MarkDirty()
	return nil
}

// MkNode creates an entry whose inode carries an arbitrary mode and no data.
// Useful for placing symlinks and special files on a test volume.
func (v *Volume) MkNode(path string, mode uint16) error {
	return v.addNode(path, mode, nil)
}

func (v *Volume) addNode(path string, mode uint16, data []byte) error {
	parent, leaf, err := splitPath(path)
	if err != nil {
		return err
	}

	pino, pnum, err := v.InodeByPath(parent)
	if err != nil {
		return err
	}
	defer v.InodePut(pino)
	if !pino.IsDir() {
		return ext2.ErrNotDir
	}

	if _, ok := v.LookupEntry(pino, leaf); ok {
		return ext2.ErrExist
	}

	ino, num, err := v.InodeAlloc(pnum)
	if err != nil {
		return err
	}
	defer v.InodePut(ino)

	now := uint32(time.Now().Unix())
	ino.Mode = mode
	ino.Atime, ino.Ctime, ino.Mtime = now, now, now
	ino.Links = 1
	ino.Size = uint32(len(data))

	st := v.inodes[num]
	for off := 0; off < len(data); off += int(v.blockSize) {
		blockNum, err := v.allocBlock()
		if err != nil {
			return err
		}
		block := make([]byte, v.blockSize)
		copy(block, data[off:])
		if err := v.writeBlock(blockNum, block); err != nil {
			return err
		}
		st.blocks = append(st.blocks, blockNum)
	}

	if err := v.AddEntry(pino, leaf, num, ino); err != nil {
		return err
	}
	ino.MarkDirty()
	return nil
}

// FromDir copies a host directory tree onto the volume.
func (v *Volume) FromDir(root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		dst := "/" + filepath.ToSlash(rel)

		if d.IsDir() {
			return v.MkDir(dst, 0)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		return v.WriteFile(dst, data, 0)
	})
}
