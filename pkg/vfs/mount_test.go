package vfs

import (
	"errors"
	"testing"

	"github.com/example/ext2fs/pkg/ext2"
	"github.com/example/ext2fs/pkg/ext2/memfs"
	"github.com/sirupsen/logrus"
)

func openMemfs(dev ext2.BlockDevice, readWrite bool) (ext2.Volume, error) {
	return memfs.Open(dev)
}

// readOnlyDevice hides the write side of a device.
type readOnlyDevice struct {
	dev *memfs.Device
}

func (d readOnlyDevice) BlockSize() uint32 { return d.dev.BlockSize() }
func (d readOnlyDevice) Blocks() uint64    { return d.dev.Blocks() }
func (d readOnlyDevice) ReadBlocks(start uint64, count uint32, buf []byte) error {
	return d.dev.ReadBlocks(start, count, buf)
}

func TestMountReadWriteNeedsWritableDevice(t *testing.T) {
	f := New(openMemfs, WithLogger(logrus.New()))
	dev := readOnlyDevice{dev: memfs.NewDevice(testBlockSize, 16)}

	if _, err := f.Mount("/fd", dev, MountReadWrite); !errors.Is(err, ErrReadOnly) {
		t.Errorf("read-write mount on read-only device = %v, want ErrReadOnly", err)
	}
}

func TestMountDuplicatePath(t *testing.T) {
	f := New(openMemfs)

	if _, err := f.Mount("/fd", memfs.NewDevice(testBlockSize, 16), 0); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	_, err := f.Mount("/fd", memfs.NewDevice(testBlockSize, 16), 0)
	if !errors.Is(err, ErrExist) {
		t.Errorf("duplicate mount = %v, want ErrExist", err)
	}
}

func TestMountOpenFailure(t *testing.T) {
	boom := errors.New("bad superblock")
	f := New(func(dev ext2.BlockDevice, readWrite bool) (ext2.Volume, error) {
		return nil, boom
	})

	_, err := f.Mount("/fd", memfs.NewDevice(testBlockSize, 16), 0)
	if !errors.Is(err, boom) {
		t.Errorf("Mount with failing open = %v, want %v", err, boom)
	}
	// The failed mount left no registration behind.
	if err := f.Unmount("/fd"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Unmount after failed mount = %v, want ErrNotExist", err)
	}
}

func TestUnmount(t *testing.T) {
	f := New(openMemfs)

	if _, err := f.Mount("/fd", memfs.NewDevice(testBlockSize, 16), 0); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if err := f.Unmount("/fd"); err != nil {
		t.Fatalf("Unmount: %v", err)
	}
	if err := f.Unmount("/fd"); !errors.Is(err, ErrNotExist) {
		t.Errorf("second Unmount = %v, want ErrNotExist", err)
	}

	// The path is reusable after unmount.
	if _, err := f.Mount("/fd", memfs.NewDevice(testBlockSize, 16), 0); err != nil {
		t.Fatalf("Mount after unmount: %v", err)
	}
}

func TestMountIdentity(t *testing.T) {
	f := New(openMemfs)

	m1, err := f.Mount("/fd1", memfs.NewDevice(testBlockSize, 16), 0)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	m2, err := f.Mount("/fd2", memfs.NewDevice(testBlockSize, 16), 0)
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if m1.Path() != "/fd1" || m2.Path() != "/fd2" {
		t.Errorf("mount paths = %q, %q", m1.Path(), m2.Path())
	}
	if m1.ID() == m2.ID() {
		t.Error("distinct mounts share an identity token")
	}

	st1, err := m1.Stat("/")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if st1.Device != m1.ID() {
		t.Errorf("Stat.Device = %v, want %v", st1.Device, m1.ID())
	}
}

func TestShutdown(t *testing.T) {
	f := New(openMemfs)

	if _, err := f.Mount("/fd1", memfs.NewDevice(testBlockSize, 16), 0); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := f.Mount("/fd2", memfs.NewDevice(testBlockSize, 16), 0); err != nil {
		t.Fatalf("Mount: %v", err)
	}

	if err := f.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if err := f.Unmount("/fd1"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Unmount after shutdown = %v, want ErrNotExist", err)
	}
	_, err := f.Mount("/fd3", memfs.NewDevice(testBlockSize, 16), 0)
	if !errors.Is(err, ErrShutDown) {
		t.Errorf("Mount after shutdown = %v, want ErrShutDown", err)
	}
}
