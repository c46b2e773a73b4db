package vfs

import (
	"time"

	"github.com/google/uuid"
)

// Handle identifies one open file or directory. The zero Handle is never
// valid; handles are small integers so a stale one can be detected instead
// of dereferenced.
type Handle int

// OpenMode carries the intent flags captured at open time.
type OpenMode uint32

const (
	// OpenRead is plain read intent; it is implied and may be zero.
	OpenRead OpenMode = 1 << iota
	// OpenWrite requests write access. Always rejected: file content is
	// immutable through this driver.
	OpenWrite
	// OpenCreate requests creation when the path is missing. Rejected as
	// read-only when the path does not resolve.
	OpenCreate
	// OpenTrunc requests truncation. Always rejected.
	OpenTrunc
	// OpenDir opens a directory for entry iteration.
	OpenDir
)

// MountFlags configure one mount.
type MountFlags uint32

const (
	// MountReadWrite enables the structural mutators (rename, unlink,
	// mkdir, rmdir). File content stays read-only regardless.
	MountReadWrite MountFlags = 1 << 0
)

// FcntlCmd selects a file-control operation.
type FcntlCmd int

const (
	// GetFlags returns the open mode captured at open time.
	GetFlags FcntlCmd = iota
	// SetFlags is accepted as a no-op.
	SetFlags
	// GetFD is accepted as a no-op.
	GetFD
	// SetFD is accepted as a no-op.
	SetFD
)

// Dirent is one directory entry as reported to callers. The record returned
// by ReadDir is reused by the next ReadDir on the same handle.
type Dirent struct {
	Name    string
	Size    int64
	ModTime time.Time
	Dir     bool
}

// FileType is the closed type enumeration reported by Stat.
type FileType int

const (
	// TypeUnknown is the fallback for unrecognized mode bits.
	TypeUnknown FileType = iota
	// TypeFile is a regular file.
	TypeFile
	// TypeDirectory is a directory.
	TypeDirectory
	// TypeSymlink is a symbolic link.
	TypeSymlink
	// TypeSpecial covers pipes, sockets, and device nodes.
	TypeSpecial
)

// String returns a string representation of the file type.
func (t FileType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "directory"
	case TypeSymlink:
		return "symlink"
	case TypeSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// Attr carries the coarse access flags derived from the owner permission
// bits.
type Attr uint32

const (
	// AttrRead is set when the owner read bit is set.
	AttrRead Attr = 1 << iota
	// AttrWrite is set when the owner write bit is set.
	AttrWrite
)

// Stat describes one filesystem object.
type Stat struct {
	// Device identifies the mount the object lives on.
	Device uuid.UUID

	// Inode is the object's inode number, unique within the mount.
	Inode uint32

	Size    int64
	ModTime time.Time
	Type    FileType
	Attr    Attr
}
