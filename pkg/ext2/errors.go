package ext2

import "errors"

// Errors shared between the backend and the VFS driver. They map onto the
// conventional POSIX codes at the outer boundary.
var (
	ErrNotExist = errors.New("no such file or directory")
	ErrNotDir   = errors.New("not a directory")
	ErrIsDir    = errors.New("is a directory")
	ErrExist    = errors.New("file exists")
	ErrNotEmpty = errors.New("directory not empty")
	ErrIO       = errors.New("input/output error")
	ErrCorrupt  = errors.New("corrupted directory entry")
	ErrNoSpace  = errors.New("no space left on device")
)
