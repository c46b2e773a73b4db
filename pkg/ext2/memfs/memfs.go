// Package memfs is an in-memory implementation of the ext2 backend contract.
// Inode metadata lives in a refcounted table; file and directory data live in
// genuine on-disk encoding on a block device, so the driver above it sees
// real record-length arithmetic, tombstones, and block boundaries.
package memfs

import (
	"fmt"
	"math/bits"
	"strings"
	"time"

	"github.com/example/ext2fs/pkg/ext2"
)

const maxNameLen = 255

// Volume implements ext2.Volume over a writable block device.
type Volume struct {
	dev ext2.BlockDevice
	w   ext2.BlockWriter

	blockSize uint32
	logBS     uint32

	inodes    map[uint32]*inodeState
	nextInode uint32

	nextBlock uint64
	freeList  []uint64

	scratch []byte
}

// inodeState pairs an inode with its reference count and block map. A doomed
// inode has been dereferenced to zero links but is still held by someone; it
// is reaped on the final put.
type inodeState struct {
	ino    *ext2.Inode
	refs   int
	doomed bool
	blocks []uint64
}

// Open formats a fresh volume on dev with an empty root directory. The
// logical block size is the device block size, which must be a power of two.
func Open(dev ext2.BlockDevice) (*Volume, error) {
	bs := dev.BlockSize()
	if bs == 0 || bs&(bs-1) != 0 {
		return nil, fmt.Errorf("memfs: block size %d is not a power of two", bs)
	}
	w, ok := dev.(ext2.BlockWriter)
	if !ok {
		return nil, fmt.Errorf("memfs: device is not writable")
	}

	v := &Volume{
		dev:       dev,
		w:         w,
		blockSize: bs,
		logBS:     uint32(bits.TrailingZeros32(bs)),
		inodes:    make(map[uint32]*inodeState),
		nextInode: ext2.RootInode,
		scratch:   make([]byte, bs),
	}

	root, num, err := v.InodeAlloc(0)
	if err != nil {
		return nil, err
	}
	now := uint32(time.Now().Unix())
	root.Mode = ext2.ModeDir | 0o755
	root.Atime, root.Ctime, root.Mtime = now, now, now
	if err := v.InitDir(root, num, num); err != nil {
		return nil, err
	}
	v.InodePut(root)

	return v, nil
}

// BlockSize returns the logical block size in bytes.
func (v *Volume) BlockSize() uint32 {
	return v.blockSize
}

// LogBlockSize returns log2 of the logical block size.
func (v *Volume) LogBlockSize() uint32 {
	return v.logBS
}

// Close releases the volume.
func (v *Volume) Close() error {
	v.inodes = nil
	v.freeList = nil
	return nil
}

// InodeByPath resolves a slash-separated path from the root. The empty path
// resolves to the root directory itself.
func (v *Volume) InodeByPath(path string) (*ext2.Inode, uint32, error) {
	cur, err := v.InodeGet(ext2.RootInode)
	if err != nil {
		return nil, 0, err
	}
	num := ext2.RootInode

	for _, name := range strings.Split(path, "/") {
		if name == "" {
			continue
		}
		if !cur.IsDir() {
			v.InodePut(cur)
			return nil, 0, ext2.ErrNotDir
		}
		ent, ok := v.LookupEntry(cur, name)
		if !ok {
			v.InodePut(cur)
			return nil, 0, ext2.ErrNotExist
		}
		next, err := v.InodeGet(ent.Inode)
		if err != nil {
			v.InodePut(cur)
			return nil, 0, err
		}
		v.InodePut(cur)
		cur, num = next, ent.Inode
	}

	return cur, num, nil
}

// InodeGet acquires the inode with the given number.
func (v *Volume) InodeGet(num uint32) (*ext2.Inode, error) {
	st, ok := v.inodes[num]
	if !ok {
		return nil, ext2.ErrIO
	}
	st.refs++
	return st.ino, nil
}

// InodePut releases one reference to an inode.
func (v *Volume) InodePut(ino *ext2.Inode) {
	if ino == nil {
		return
	}
	st, ok := v.inodes[ino.Num]
	if !ok || st.refs == 0 {
		return
	}
	st.refs--
	if st.refs == 0 && st.doomed {
		v.reap(ino.Num, st)
	}
}

// InodeAlloc allocates a fresh inode with no type, links, or data.
func (v *Volume) InodeAlloc(parent uint32) (*ext2.Inode, uint32, error) {
	num := v.nextInode
	v.nextInode++
	st := &inodeState{ino: &ext2.Inode{Num: num}, refs: 1}
	v.inodes[num] = st
	return st.ino, num, nil
}

// InodeDeref drops one directory-entry reference. A directory is released
// once only its own "." reference remains; anything else is released at
// zero. Data blocks return to the free list when the inode goes.
func (v *Volume) InodeDeref(num uint32, dir bool) error {
	st, ok := v.inodes[num]
	if !ok {
		return ext2.ErrIO
	}
	if st.ino.Links > 0 {
		st.ino.Links--
	}
	if st.ino.Links == 0 || (dir && st.ino.Links <= 1) {
		if st.refs > 0 {
			st.doomed = true
		} else {
			v.reap(num, st)
		}
	}
	return nil
}

func (v *Volume) reap(num uint32, st *inodeState) {
	v.freeList = append(v.freeList, st.blocks...)
	delete(v.inodes, num)
}

// ReadBlock returns the inode's index-th logical block. The returned slice
// is reused by the next block read.
func (v *Volume) ReadBlock(ino *ext2.Inode, index uint32) ([]byte, error) {
	st, ok := v.inodes[ino.Num]
	if !ok || int(index) >= len(st.blocks) {
		return nil, ext2.ErrIO
	}
	if err := v.dev.ReadBlocks(st.blocks[index], 1, v.scratch); err != nil {
		return nil, err
	}
	return v.scratch, nil
}

func (v *Volume) writeBlock(block uint64, data []byte) error {
	return v.w.WriteBlocks(block, 1, data)
}

func (v *Volume) allocBlock() (uint64, error) {
	if n := len(v.freeList); n > 0 {
		b := v.freeList[n-1]
		v.freeList = v.freeList[:n-1]
		return b, nil
	}
	if v.nextBlock >= v.dev.Blocks() {
		return 0, ext2.ErrNoSpace
	}
	b := v.nextBlock
	v.nextBlock++
	return b, nil
}

// LiveRefs returns the total number of outstanding inode references. Tests
// use it to prove that every acquire was matched by a release.
func (v *Volume) LiveRefs() int {
	total := 0
	for _, st := range v.inodes {
		total += st.refs
	}
	return total
}

// FreeBlocks returns the number of blocks on the free list.
func (v *Volume) FreeBlocks() int {
	return len(v.freeList)
}

// InodeCount returns the number of allocated inodes.
func (v *Volume) InodeCount() int {
	return len(v.inodes)
}

var _ ext2.Volume = (*Volume)(nil)
