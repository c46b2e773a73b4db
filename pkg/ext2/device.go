package ext2

// BlockDevice is the raw storage a volume lives on. Reads and writes are in
// whole device blocks; the volume layers its own logical block size on top.
type BlockDevice interface {
	// BlockSize returns the device block size in bytes.
	BlockSize() uint32

	// Blocks returns the number of blocks on the device.
	Blocks() uint64

	// ReadBlocks reads count blocks starting at start into buf, which must
	// hold at least count*BlockSize() bytes.
	ReadBlocks(start uint64, count uint32, buf []byte) error
}

// BlockWriter is implemented by devices that support writing. A device that
// does not implement it can only back read-only mounts.
type BlockWriter interface {
	// WriteBlocks writes count blocks from buf starting at start.
	WriteBlocks(start uint64, count uint32, buf []byte) error
}

// Writable reports whether the device supports writing blocks.
func Writable(dev BlockDevice) bool {
	_, ok := dev.(BlockWriter)
	return ok
}
