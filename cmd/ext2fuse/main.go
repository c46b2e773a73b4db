// Command ext2fuse builds an in-memory volume from a host directory tree and
// exports it to the kernel over FUSE.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/ext2"
	"github.com/example/ext2fs/pkg/ext2/memfs"
	"github.com/example/ext2fs/pkg/fuse"
	"github.com/example/ext2fs/pkg/vfs"
)

func main() {
	mountPoint := flag.String("mount", "", "mount point for the filesystem")
	src := flag.String("src", "", "host directory to copy onto the volume")
	blockSize := flag.Uint("bs", 1024, "volume block size in bytes")
	blocks := flag.Uint64("blocks", 65536, "volume size in blocks")
	readWrite := flag.Bool("rw", false, "allow structural mutation (rename, unlink, mkdir, rmdir)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *mountPoint == "" {
		fmt.Fprintln(os.Stderr, "error: -mount is required")
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if _, err := os.Stat(*mountPoint); os.IsNotExist(err) {
		log.WithField("path", *mountPoint).Info("creating mount point")
		if err := os.MkdirAll(*mountPoint, 0o755); err != nil {
			log.WithError(err).Fatal("failed to create mount point")
		}
	}

	reg := vfs.New(func(dev ext2.BlockDevice, _ bool) (ext2.Volume, error) {
		vol, err := memfs.Open(dev)
		if err != nil {
			return nil, err
		}
		if *src != "" {
			if err := vol.FromDir(*src); err != nil {
				return nil, err
			}
		}
		return vol, nil
	}, vfs.WithLogger(log))

	var flags vfs.MountFlags
	if *readWrite {
		flags |= vfs.MountReadWrite
	}

	dev := memfs.NewDevice(uint32(*blockSize), *blocks)
	mnt, err := reg.Mount(*mountPoint, dev, flags)
	if err != nil {
		log.WithError(err).Fatal("failed to mount volume")
	}
	defer reg.Shutdown()

	opts := fuse.Options{
		MountPoint: *mountPoint,
		ReadOnly:   !*readWrite,
		Debug:      *debug,
	}
	if err := fuse.Serve(mnt, log, opts); err != nil {
		log.WithError(err).Fatal("serve failed")
	}
}
