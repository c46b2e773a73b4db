// Package vfs adapts an ext2 backend volume to a synchronous virtual-
// filesystem operation table: a fixed-capacity open-handle table, block-
// oriented read/seek machinery, directory iteration, and the structural
// mutators (rename, unlink, mkdir, rmdir). One global lock serializes every
// operation across every mount; the driver is built for a host where bounded
// resources matter more than parallelism.
package vfs

import (
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/ext2"
)

// MaxOpenFiles is the capacity of the handle table. There is no dynamic
// growth; the sixteen-slot table bounds the driver's memory use.
const MaxOpenFiles = 16

// reservedInode marks a handle slot claimed by an open still resolving its
// path. A real inode number never takes this value.
const reservedInode = ^uint32(0)

// OpenVolume initializes a backend volume from a block device. readWrite
// reflects the mount's read-write flag.
type OpenVolume func(dev ext2.BlockDevice, readWrite bool) (ext2.Volume, error)

// fileHandle is one slot of the handle table. inodeNum zero means free;
// reservedInode means claimed but not yet resolved. inode is owned by the
// slot and released exactly once, on close or open failure.
type fileHandle struct {
	inodeNum uint32
	mode     OpenMode
	ptr      uint64
	inode    *ext2.Inode
	mnt      *Mount
	dent     Dirent
}

// FS is the mount registry and handle table. All operations on all mounts
// created from one FS share its lock.
type FS struct {
	mu sync.Mutex

	open OpenVolume
	log  logrus.FieldLogger

	mounts map[string]*Mount
	fh     [MaxOpenFiles]fileHandle
	shut   bool
}

// Option configures an FS.
type Option func(*FS)

// WithLogger sets the logger used for mount lifecycle events.
func WithLogger(log logrus.FieldLogger) Option {
	return func(f *FS) {
		f.log = log
	}
}

// New creates an empty registry. open is called once per mount to
// initialize the backend volume from the mount's block device.
func New(open OpenVolume, opts ...Option) *FS {
	f := &FS{
		open:   open,
		log:    logrus.StandardLogger(),
		mounts: make(map[string]*Mount),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Mount is one active volume: the pairing of a mount path, a backend volume,
// and the flags it was mounted with. Path-based operations live here;
// handle-based operations live on FS.
type Mount struct {
	fs    *FS
	path  string
	id    uuid.UUID
	vol   ext2.Volume
	flags MountFlags
}

// Path returns the mount path.
func (m *Mount) Path() string {
	return m.path
}

// ID returns the mount's identity token, as surfaced in Stat.Device.
func (m *Mount) ID() uuid.UUID {
	return m.id
}

// FS returns the registry the mount belongs to. Handle-based operations live
// there.
func (m *Mount) FS() *FS {
	return m.fs
}

// Mount initializes a volume on dev and registers it under path. Read-write
// mounting requires a device that can write blocks. On failure nothing is
// registered and nothing is left allocated.
func (f *FS) Mount(path string, dev ext2.BlockDevice, flags MountFlags) (*Mount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.shut {
		return nil, opErr("mount", path, ErrShutDown)
	}

	if flags&MountReadWrite != 0 && !ext2.Writable(dev) {
		f.log.WithField("path", path).
			Debug("device does not support writing, cannot mount read-write")
		return nil, opErr("mount", path, ErrReadOnly)
	}

	if _, ok := f.mounts[path]; ok {
		return nil, opErr("mount", path, ErrExist)
	}

	vol, err := f.open(dev, flags&MountReadWrite != 0)
	if err != nil {
		f.log.WithField("path", path).WithError(err).
			Debug("device does not contain a mountable volume")
		return nil, opErr("mount", path, err)
	}

	m := &Mount{
		fs:    f,
		path:  path,
		id:    uuid.New(),
		vol:   vol,
		flags: flags,
	}
	f.mounts[path] = m

	f.log.WithFields(logrus.Fields{
		"path":      path,
		"mount":     m.id,
		"readwrite": flags&MountReadWrite != 0,
	}).Debug("mounted volume")

	return m, nil
}

// Unmount removes the mount registered under path and releases its backend
// volume. Handles still open against the mount are not inspected or
// invalidated; operations on them afterwards reference a released volume.
func (f *FS) Unmount(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, ok := f.mounts[path]
	if !ok {
		return opErr("unmount", path, ErrNotExist)
	}
	delete(f.mounts, path)

	if err := m.vol.Close(); err != nil {
		f.log.WithField("path", path).WithError(err).Warn("volume close failed")
	}
	f.log.WithField("path", path).Debug("unmounted volume")
	return nil
}

// Shutdown force-unmounts everything still registered and marks the
// registry closed. As with Unmount, open handles are left alone.
func (f *FS) Shutdown() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for path, m := range f.mounts {
		if err := m.vol.Close(); err != nil {
			f.log.WithField("path", path).WithError(err).Warn("volume close failed")
		}
		delete(f.mounts, path)
	}
	f.shut = true
	return nil
}

// slot validates a handle and returns its table slot, or nil. The caller
// holds f.mu.
func (f *FS) slot(h Handle) *fileHandle {
	fd := int(h) - 1
	if fd < 0 || fd >= MaxOpenFiles {
		return nil
	}
	s := &f.fh[fd]
	if s.inodeNum == 0 || s.inodeNum == reservedInode {
		return nil
	}
	return s
}

// inodeBusy reports whether any open handle references the inode. The
// caller holds f.mu.
func (f *FS) inodeBusy(num uint32) bool {
	for i := range f.fh {
		if f.fh[i].inodeNum == num {
			return true
		}
	}
	return false
}

// splitPath separates a path into the parent directory path and the leaf
// name at the final separator. A path with no separator cannot name a
// parent and is rejected by every structural mutator.
func splitPath(path string) (parent, leaf string, ok bool) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", "", false
	}
	return path[:i], path[i+1:], true
}
