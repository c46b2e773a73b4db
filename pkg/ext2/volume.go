package ext2

// Volume is the backend contract the VFS driver is written against. It owns
// the on-disk structure: inode storage and reference counting, directory
// entry search and mutation, and block allocation. Every method is invoked
// under the driver's global lock; implementations do not need their own
// synchronization.
//
// Reference counting: every inode returned by InodeByPath, InodeGet, or
// InodeAlloc carries one reference that the caller must release with exactly
// one InodePut, on success and error paths alike. InodePut after InodeDeref
// is permitted; the backend frees the inode only once the link count is zero
// and the last reference is gone.
type Volume interface {
	// BlockSize returns the logical block size in bytes.
	BlockSize() uint32

	// LogBlockSize returns log2 of the logical block size.
	LogBlockSize() uint32

	// InodeByPath resolves a slash-separated path from the root and returns
	// the inode and its number. The empty path resolves to the root
	// directory. Returns ErrNotExist if a component is missing and
	// ErrNotDir if a non-final component is not a directory.
	InodeByPath(path string) (*Inode, uint32, error)

	// InodeGet acquires the inode with the given number.
	InodeGet(num uint32) (*Inode, error)

	// InodePut releases one reference to an inode. A nil inode is ignored.
	InodePut(ino *Inode)

	// InodeAlloc allocates a fresh inode, placed near the parent. The
	// returned inode has no type, no links, and no data.
	InodeAlloc(parent uint32) (*Inode, uint32, error)

	// InodeDeref drops one directory-entry reference to the inode,
	// releasing its data blocks and the inode itself when no references
	// remain. dir must reflect whether the entry referenced a directory.
	InodeDeref(num uint32, dir bool) error

	// ReadBlock returns the data of the inode's index-th logical block. The
	// returned slice is backend-owned and valid until the next call.
	ReadBlock(ino *Inode, index uint32) ([]byte, error)

	// LookupEntry searches dir for a live entry with the given name.
	LookupEntry(dir *Inode, name string) (*DirEntry, bool)

	// AddEntry links name to inode number num in dir, extending the
	// directory by a block if no existing block has room. target is the
	// inode being linked; its mode supplies the entry's type hint.
	AddEntry(dir *Inode, name string, num uint32, target *Inode) error

	// RemoveEntry tombstones the named entry in dir and returns the inode
	// number it referenced.
	RemoveEntry(dir *Inode, name string) (uint32, error)

	// RedirectEntry points the named entry in dir at a different inode
	// number. Used to rewrite ".." when a directory moves.
	RedirectEntry(dir *Inode, name string, num uint32) error

	// EmptyDir reports whether dir contains no live entries besides "."
	// and "..".
	EmptyDir(dir *Inode) (bool, error)

	// InitDir initializes a freshly allocated inode as an empty directory
	// with "." and ".." entries referencing itself and parent.
	InitDir(ino *Inode, num, parent uint32) error

	// Close releases the volume and everything it holds.
	Close() error
}
