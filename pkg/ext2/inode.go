package ext2

// Inode type and permission bits, as stored in i_mode on disk.
const (
	TypeMask uint16 = 0xF000

	ModeFIFO    uint16 = 0x1000
	ModeChar    uint16 = 0x2000
	ModeDir     uint16 = 0x4000
	ModeBlock   uint16 = 0x6000
	ModeFile    uint16 = 0x8000
	ModeSymlink uint16 = 0xA000
	ModeSocket  uint16 = 0xC000

	PermOwnerRead  uint16 = 0x0100
	PermOwnerWrite uint16 = 0x0080
)

// RootInode is the inode number of the root directory.
const RootInode uint32 = 2

// Inode is the backend's view of one filesystem object. Only the fields the
// driver consumes are surfaced; the backend owns everything else, including
// the block map.
type Inode struct {
	Num uint32

	Mode    uint16
	UID     uint16
	GID     uint16
	UIDHigh uint16
	GIDHigh uint16

	Size  uint32
	Links uint16

	Atime uint32
	Ctime uint32
	Mtime uint32

	dirty bool
}

// MarkDirty flags the inode for write-back by the backend.
func (ino *Inode) MarkDirty() {
	ino.dirty = true
}

// Dirty reports whether the inode has unflushed changes.
func (ino *Inode) Dirty() bool {
	return ino.dirty
}

// ClearDirty is called by the backend once the inode has been written back.
func (ino *Inode) ClearDirty() {
	ino.dirty = false
}

// IsDir reports whether the inode describes a directory.
func (ino *Inode) IsDir() bool {
	return ino.Mode&TypeMask == ModeDir
}
