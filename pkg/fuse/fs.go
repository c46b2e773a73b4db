package fuse

import (
	"bazil.org/fuse/fs"
	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/vfs"
)

// Tree adapts one mounted volume to the FUSE filesystem interface.
type Tree struct {
	mnt *vfs.Mount
	log logrus.FieldLogger
}

// NewTree wraps a mounted volume for serving.
func NewTree(mnt *vfs.Mount, log logrus.FieldLogger) *Tree {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Tree{mnt: mnt, log: log}
}

// Root returns the root directory node.
func (t *Tree) Root() (fs.Node, error) {
	return &Dir{tree: t, path: ""}, nil
}

// childPath joins a directory's path with an entry name.
func childPath(dir, name string) string {
	return dir + "/" + name
}
