package fuse

import (
	"context"
	"os"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/vfs"
)

// Dir is a directory node. It carries only its path; every request resolves
// through the driver.
type Dir struct {
	tree *Tree
	path string
}

// Attr fills in the directory's attributes.
func (d *Dir) Attr(ctx context.Context, attr *fuse.Attr) error {
	st, err := d.tree.mnt.Stat(d.path)
	if err != nil {
		return errno(err)
	}
	fillAttr(attr, st)
	return nil
}

// Lookup resolves one entry of the directory to a node.
func (d *Dir) Lookup(ctx context.Context, name string) (fs.Node, error) {
	path := childPath(d.path, name)
	st, err := d.tree.mnt.Stat(path)
	if err != nil {
		return nil, errno(err)
	}
	if st.Type == vfs.TypeDirectory {
		return &Dir{tree: d.tree, path: path}, nil
	}
	return &File{tree: d.tree, path: path}, nil
}

// ReadDirAll iterates the directory and returns every live entry.
func (d *Dir) ReadDirAll(ctx context.Context) ([]fuse.Dirent, error) {
	h, err := d.tree.mnt.Open(d.path, vfs.OpenDir)
	if err != nil {
		return nil, errno(err)
	}
	defer d.tree.mnt.FS().Close(h)

	var out []fuse.Dirent
	for {
		ent, err := d.tree.mnt.FS().ReadDir(h)
		if err != nil {
			return nil, errno(err)
		}
		if ent == nil {
			return out, nil
		}
		typ := fuse.DT_File
		if ent.Dir {
			typ = fuse.DT_Dir
		}
		out = append(out, fuse.Dirent{Name: ent.Name, Type: typ})
	}
}

// Mkdir creates a subdirectory.
func (d *Dir) Mkdir(ctx context.Context, req *fuse.MkdirRequest) (fs.Node, error) {
	path := childPath(d.path, req.Name)
	if err := d.tree.mnt.Mkdir(path); err != nil {
		return nil, errno(err)
	}
	d.tree.log.WithField("path", path).Debug("mkdir")
	return &Dir{tree: d.tree, path: path}, nil
}

// Remove unlinks a file or removes a subdirectory.
func (d *Dir) Remove(ctx context.Context, req *fuse.RemoveRequest) error {
	path := childPath(d.path, req.Name)
	var err error
	if req.Dir {
		err = d.tree.mnt.Rmdir(path)
	} else {
		err = d.tree.mnt.Unlink(path)
	}
	if err != nil {
		return errno(err)
	}
	d.tree.log.WithField("path", path).Debug("remove")
	return nil
}

// Rename moves an entry into newDir, which must be a directory node of the
// same tree.
func (d *Dir) Rename(ctx context.Context, req *fuse.RenameRequest, newDir fs.Node) error {
	nd, ok := newDir.(*Dir)
	if !ok || nd.tree != d.tree {
		return fuse.Errno(syscall.EXDEV)
	}
	oldPath := childPath(d.path, req.OldName)
	newPath := childPath(nd.path, req.NewName)
	if err := d.tree.mnt.Rename(oldPath, newPath); err != nil {
		return errno(err)
	}
	d.tree.log.WithFields(logrus.Fields{
		"from": oldPath,
		"to":   newPath,
	}).Debug("rename")
	return nil
}

func fillAttr(attr *fuse.Attr, st vfs.Stat) {
	attr.Inode = uint64(st.Inode)
	attr.Size = uint64(st.Size)
	attr.Mtime = st.ModTime
	attr.Ctime = st.ModTime

	var mode os.FileMode
	switch st.Type {
	case vfs.TypeDirectory:
		mode = os.ModeDir
	case vfs.TypeSymlink:
		mode = os.ModeSymlink
	case vfs.TypeSpecial:
		mode = os.ModeIrregular
	}
	if st.Attr&vfs.AttrRead != 0 {
		mode |= 0o444
	}
	if st.Attr&vfs.AttrWrite != 0 {
		mode |= 0o200
	}
	attr.Mode = mode
}
