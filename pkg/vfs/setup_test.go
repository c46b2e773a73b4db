package vfs

import (
	"testing"

	"github.com/example/ext2fs/pkg/ext2"
	"github.com/example/ext2fs/pkg/ext2/memfs"
)

const testBlockSize = 1024

// bigFileSize spans multiple blocks with a partial tail.
const bigFileSize = 3000

func bigFileContent() []byte {
	data := make([]byte, bigFileSize)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

// newTestMount builds a registry with one mounted memfs volume populated with
// a small tree. The raw volume is returned for backend introspection.
func newTestMount(t *testing.T, flags MountFlags) (*FS, *Mount, *memfs.Volume) {
	t.Helper()

	var mv *memfs.Volume
	f := New(func(dev ext2.BlockDevice, readWrite bool) (ext2.Volume, error) {
		v, err := memfs.Open(dev)
		mv = v
		return v, err
	})

	dev := memfs.NewDevice(testBlockSize, 64)
	m, err := f.Mount("/fd", dev, flags)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	populate(t, mv)
	return f, m, mv
}

func populate(t *testing.T, v *memfs.Volume) {
	t.Helper()

	files := map[string][]byte{
		"/file.txt": []byte("hello, world\n"),
		"/big.bin":  bigFileContent(),
	}
	for path, data := range files {
		if err := v.WriteFile(path, data, 0); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}

	for _, path := range []string{"/dir", "/a", "/b", "/empty"} {
		if err := v.MkDir(path, 0); err != nil {
			t.Fatalf("MkDir(%s): %v", path, err)
		}
	}

	nested := map[string][]byte{
		"/dir/a.txt": []byte("alpha\n"),
		"/dir/b.txt": []byte("bravo\n"),
		"/a/x.txt":   []byte("x-ray\n"),
	}
	for path, data := range nested {
		if err := v.WriteFile(path, data, 0); err != nil {
			t.Fatalf("WriteFile(%s): %v", path, err)
		}
	}

	nodes := map[string]uint16{
		"/link":  ext2.ModeSymlink | 0o777,
		"/fifo":  ext2.ModeFIFO | 0o644,
		"/weird": 0x3000 | 0o644,
	}
	for path, mode := range nodes {
		if err := v.MkNode(path, mode); err != nil {
			t.Fatalf("MkNode(%s): %v", path, err)
		}
	}
}

// rootLinkCount reads the root directory's link count off the backend.
func rootLinkCount(t *testing.T, v *memfs.Volume) uint16 {
	t.Helper()
	ino, err := v.InodeGet(ext2.RootInode)
	if err != nil {
		t.Fatalf("InodeGet(root): %v", err)
	}
	defer v.InodePut(ino)
	return ino.Links
}

// checkNoLeaks asserts that every inode reference taken during the test was
// released.
func checkNoLeaks(t *testing.T, v *memfs.Volume) {
	t.Helper()
	if refs := v.LiveRefs(); refs != 0 {
		t.Errorf("outstanding inode references after test: %d", refs)
	}
}

// faultVolume wraps a backend volume and lets a test override block reads.
type faultVolume struct {
	ext2.Volume
	readBlock func(ino *ext2.Inode, index uint32) ([]byte, error)
}

func (v *faultVolume) ReadBlock(ino *ext2.Inode, index uint32) ([]byte, error) {
	if v.readBlock != nil {
		return v.readBlock(ino, index)
	}
	return v.Volume.ReadBlock(ino, index)
}

// newFaultMount builds a mount whose volume routes block reads through
// readBlock. The fault hook is installed after population so the tree builds
// cleanly.
func newFaultMount(t *testing.T, readBlock func(ino *ext2.Inode, index uint32) ([]byte, error)) (*FS, *Mount) {
	t.Helper()

	fv := &faultVolume{}
	f := New(func(dev ext2.BlockDevice, readWrite bool) (ext2.Volume, error) {
		v, err := memfs.Open(dev)
		if err != nil {
			return nil, err
		}
		populate(t, v)
		fv.Volume = v
		return fv, nil
	})

	dev := memfs.NewDevice(testBlockSize, 64)
	m, err := f.Mount("/fd", dev, 0)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	fv.readBlock = readBlock
	return f, m
}
