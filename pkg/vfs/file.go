package vfs

import (
	"io"
)

// Read copies file content at the handle's cursor into buf and advances the
// cursor by the bytes returned. The request is clamped to the remaining
// file size. A backend failure mid-transfer reports only the error; the
// prefix already copied into buf is valid but uncounted.
func (f *FS) Read(h Handle, buf []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil || s.mode&OpenDir != 0 {
		return 0, ErrInvalid
	}

	cnt := uint64(len(buf))
	size := uint64(s.inode.Size)
	if s.ptr+cnt > size {
		cnt = size - s.ptr
	}
	if cnt == 0 {
		return 0, nil
	}

	vol := s.mnt.vol
	bs := uint64(vol.BlockSize())
	lbs := vol.LogBlockSize()
	total := cnt
	out := buf

	// A cursor inside a block transfers only to that block's end first.
	if bo := s.ptr & (bs - 1); bo != 0 {
		block, err := vol.ReadBlock(s.inode, uint32(s.ptr>>lbs))
		if err != nil {
			return 0, err
		}
		n := bs - bo
		if cnt < n {
			n = cnt
		}
		copy(out, block[bo:bo+n])
		s.ptr += n
		cnt -= n
		out = out[n:]
	}

	for cnt > 0 {
		block, err := vol.ReadBlock(s.inode, uint32(s.ptr>>lbs))
		if err != nil {
			return 0, err
		}
		n := bs
		if cnt < n {
			n = cnt
		}
		copy(out, block[:n])
		s.ptr += n
		cnt -= n
		out = out[n:]
	}

	return int(total), nil
}

// Seek repositions the handle's cursor. whence is io.SeekStart,
// io.SeekCurrent, or io.SeekEnd; anything else is an error. The resulting
// cursor is clamped to [0, size] — seeking past end-of-file lands on
// end-of-file rather than failing.
func (f *FS) Seek(h Handle, offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil || s.mode&OpenDir != 0 {
		return 0, ErrInvalid
	}

	var pos int64
	switch whence {
	case io.SeekStart:
		pos = offset
	case io.SeekCurrent:
		pos = int64(s.ptr) + offset
	case io.SeekEnd:
		pos = int64(s.inode.Size) + offset
	default:
		return 0, ErrInvalid
	}

	if pos < 0 {
		pos = 0
	}
	if pos > int64(s.inode.Size) {
		pos = int64(s.inode.Size)
	}
	s.ptr = uint64(pos)
	return pos, nil
}

// Tell returns the handle's cursor position.
func (f *FS) Tell(h Handle) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil || s.mode&OpenDir != 0 {
		return 0, ErrInvalid
	}
	return int64(s.ptr), nil
}

// Size returns the total size of the open file.
func (f *FS) Size(h Handle) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := f.slot(h)
	if s == nil || s.mode&OpenDir != 0 {
		return 0, ErrInvalid
	}
	return int64(s.inode.Size), nil
}
