package fuse

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/vfs"
)

// Options configure one FUSE export.
type Options struct {
	MountPoint string
	ReadOnly   bool
	Debug      bool
}

// Serve exports mnt at the mount point and blocks until the process receives
// SIGINT or SIGTERM, then unmounts.
func Serve(mnt *vfs.Mount, log logrus.FieldLogger, opts Options) error {
	if log == nil {
		log = logrus.StandardLogger()
	}

	mountOpts := []fuse.MountOption{
		fuse.FSName("ext2fs"),
		fuse.Subtype("ext2"),
	}
	if opts.ReadOnly {
		mountOpts = append(mountOpts, fuse.ReadOnly())
	}
	if opts.Debug {
		fuse.Debug = func(msg interface{}) {
			log.Debugf("fuse: %v", msg)
		}
	}

	log.WithField("mountpoint", opts.MountPoint).Info("mounting FUSE filesystem")
	conn, err := fuse.Mount(opts.MountPoint, mountOpts...)
	if err != nil {
		return fmt.Errorf("fuse mount: %w", err)
	}
	defer conn.Close()

	done := make(chan error, 1)
	go func() {
		done <- fs.Serve(conn, NewTree(mnt, log))
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("fuse serve: %w", err)
		}
		return nil
	case s := <-sig:
		log.WithField("signal", s).Info("unmounting")
		if err := Unmount(opts.MountPoint); err != nil {
			log.WithError(err).Warn("unmount failed; filesystem may still be attached")
		}
		return <-done
	}
}

// Unmount detaches the filesystem at the mount point.
func Unmount(mountPoint string) error {
	return fuse.Unmount(mountPoint)
}
