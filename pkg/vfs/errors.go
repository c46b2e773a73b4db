package vfs

import (
	"errors"
	"fmt"

	"github.com/example/ext2fs/pkg/ext2"
)

// Backend errors surfaced unchanged through the driver, re-exported so
// callers can match them without importing the backend package.
var (
	ErrNotExist = ext2.ErrNotExist
	ErrNotDir   = ext2.ErrNotDir
	ErrIsDir    = ext2.ErrIsDir
	ErrExist    = ext2.ErrExist
	ErrNotEmpty = ext2.ErrNotEmpty
	ErrIO       = ext2.ErrIO
	ErrCorrupt  = ext2.ErrCorrupt
)

// Errors originating in the driver itself.
var (
	// ErrTooManyFiles is returned by Open when every handle slot is in use.
	ErrTooManyFiles = errors.New("too many open files")

	// ErrReadOnly rejects content writes always, and structural mutation
	// on mounts without the read-write flag.
	ErrReadOnly = errors.New("read-only file system")

	// ErrBusy rejects structural mutation of an inode some handle still
	// references.
	ErrBusy = errors.New("resource busy")

	// ErrInvalid covers bad handles, bad seek origins, and paths that
	// cannot name a parent directory.
	ErrInvalid = errors.New("invalid argument")

	// ErrBadHandle is the file-control flavor of a bad handle.
	ErrBadHandle = errors.New("bad file handle")

	// ErrNotPermitted rejects unlinking directories, rmdir of
	// non-directories, and removal of the filesystem root.
	ErrNotPermitted = errors.New("operation not permitted")

	// ErrShutDown rejects mounting after the registry was shut down.
	ErrShutDown = errors.New("filesystem driver is shut down")
)

// OpError records an operation, the path it was applied to, and the error
// that stopped it.
type OpError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *OpError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *OpError) Unwrap() error {
	return e.Err
}

func opErr(op, path string, err error) error {
	return &OpError{Op: op, Path: path, Err: err}
}
