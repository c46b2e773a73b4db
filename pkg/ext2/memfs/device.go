package memfs

import (
	"github.com/example/ext2fs/pkg/ext2"
)

// Device is a RAM-backed block device.
type Device struct {
	blockSize uint32
	data      []byte
}

// NewDevice creates a device with the given block size and block count.
func NewDevice(blockSize uint32, blocks uint64) *Device {
	return &Device{
		blockSize: blockSize,
		data:      make([]byte, uint64(blockSize)*blocks),
	}
}

// BlockSize returns the device block size in bytes.
func (d *Device) BlockSize() uint32 {
	return d.blockSize
}

// Blocks returns the number of blocks on the device.
func (d *Device) Blocks() uint64 {
	return uint64(len(d.data)) / uint64(d.blockSize)
}

// ReadBlocks reads count blocks starting at start into buf.
func (d *Device) ReadBlocks(start uint64, count uint32, buf []byte) error {
	off, n, err := d.extent(start, count, buf)
	if err != nil {
		return err
	}
	copy(buf[:n], d.data[off:off+n])
	return nil
}

// WriteBlocks writes count blocks from buf starting at start.
func (d *Device) WriteBlocks(start uint64, count uint32, buf []byte) error {
	off, n, err := d.extent(start, count, buf)
	if err != nil {
		return err
	}
	copy(d.data[off:off+n], buf[:n])
	return nil
}

func (d *Device) extent(start uint64, count uint32, buf []byte) (off, n uint64, err error) {
	off = start * uint64(d.blockSize)
	n = uint64(count) * uint64(d.blockSize)
	if off+n > uint64(len(d.data)) || uint64(len(buf)) < n {
		return 0, 0, ext2.ErrIO
	}
	return off, n, nil
}

var _ ext2.BlockDevice = (*Device)(nil)
var _ ext2.BlockWriter = (*Device)(nil)
