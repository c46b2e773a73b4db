package ext2

import "encoding/binary"

// On-disk directory entry header layout: inode (4 bytes), rec_len (2),
// name_len (1), file type (1), then name_len bytes of name. Records are
// 4-byte aligned and never cross a block boundary.
const DirEntryHeaderLen = 4 + 2 + 1 + 1

// Directory entry file-type hints.
const (
	FileTypeUnknown uint8 = iota
	FileTypeRegular
	FileTypeDirectory
	FileTypeChar
	FileTypeBlock
	FileTypeFIFO
	FileTypeSocket
	FileTypeSymlink
)

// DirEntry is one decoded directory entry record. A zero Inode marks a
// tombstone: the record still occupies RecLen bytes but names nothing.
type DirEntry struct {
	Inode   uint32
	RecLen  uint16
	NameLen uint8
	Type    uint8
	Name    string
}

// DirEntrySize returns the space a record with the given name length
// occupies: header plus name, rounded up to 4 bytes.
func DirEntrySize(nameLen int) uint16 {
	n := DirEntryHeaderLen + nameLen
	if n%4 != 0 {
		n += 4 - n%4
	}
	return uint16(n)
}

// DecodeDirEntry decodes the record starting at off within a directory data
// block. A record whose header or name runs past the end of the block is
// corrupt. A RecLen of zero is returned as-is; the caller decides how to
// treat it.
func DecodeDirEntry(block []byte, off uint32) (DirEntry, error) {
	if int(off)+DirEntryHeaderLen > len(block) {
		return DirEntry{}, ErrCorrupt
	}

	ent := DirEntry{
		Inode:   binary.LittleEndian.Uint32(block[off:]),
		RecLen:  binary.LittleEndian.Uint16(block[off+4:]),
		NameLen: block[off+6],
		Type:    block[off+7],
	}

	nameEnd := int(off) + DirEntryHeaderLen + int(ent.NameLen)
	if nameEnd > len(block) {
		return DirEntry{}, ErrCorrupt
	}
	ent.Name = string(block[int(off)+DirEntryHeaderLen : nameEnd])

	return ent, nil
}

// EncodeDirEntry writes ent at off within a directory data block. The caller
// is responsible for having sized ent.RecLen so the record fits.
func EncodeDirEntry(block []byte, off uint32, ent DirEntry) {
	binary.LittleEndian.PutUint32(block[off:], ent.Inode)
	binary.LittleEndian.PutUint16(block[off+4:], ent.RecLen)
	block[off+6] = ent.NameLen
	block[off+7] = ent.Type
	copy(block[off+DirEntryHeaderLen:], ent.Name[:ent.NameLen])
}

// FileTypeForMode returns the directory-entry type hint for an inode mode.
func FileTypeForMode(mode uint16) uint8 {
	switch mode & TypeMask {
	case ModeFile:
		return FileTypeRegular
	case ModeDir:
		return FileTypeDirectory
	case ModeChar:
		return FileTypeChar
	case ModeBlock:
		return FileTypeBlock
	case ModeFIFO:
		return FileTypeFIFO
	case ModeSocket:
		return FileTypeSocket
	case ModeSymlink:
		return FileTypeSymlink
	default:
		return FileTypeUnknown
	}
}
