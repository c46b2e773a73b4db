package fuse

import (
	"context"
	"io"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"

	"github.com/example/ext2fs/pkg/vfs"
)

// File is a regular-file node.
type File struct {
	tree *Tree
	path string
}

// Attr fills in the file's attributes.
func (f *File) Attr(ctx context.Context, attr *fuse.Attr) error {
	st, err := f.tree.mnt.Stat(f.path)
	if err != nil {
		return errno(err)
	}
	fillAttr(attr, st)
	return nil
}

// Open pins a driver handle for the kernel's file handle.
func (f *File) Open(ctx context.Context, req *fuse.OpenRequest, resp *fuse.OpenResponse) (fs.Handle, error) {
	h, err := f.tree.mnt.Open(f.path, vfs.OpenRead)
	if err != nil {
		return nil, errno(err)
	}
	return &fileHandle{tree: f.tree, h: h}, nil
}

// fileHandle serves reads against one open driver handle.
type fileHandle struct {
	tree *Tree
	h    vfs.Handle
}

// Read copies req.Size bytes at req.Offset into the response.
func (fh *fileHandle) Read(ctx context.Context, req *fuse.ReadRequest, resp *fuse.ReadResponse) error {
	reg := fh.tree.mnt.FS()
	if _, err := reg.Seek(fh.h, req.Offset, io.SeekStart); err != nil {
		return errno(err)
	}
	buf := make([]byte, req.Size)
	n, err := reg.Read(fh.h, buf)
	if err != nil {
		return errno(err)
	}
	resp.Data = buf[:n]
	return nil
}

// Release drops the driver handle.
func (fh *fileHandle) Release(ctx context.Context, req *fuse.ReleaseRequest) error {
	fh.tree.mnt.FS().Close(fh.h)
	return nil
}
