// Command ext2ls builds an in-memory volume from a host directory tree and
// lists a directory on it, exercising the driver without a kernel mount.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/example/ext2fs/pkg/ext2"
	"github.com/example/ext2fs/pkg/ext2/memfs"
	"github.com/example/ext2fs/pkg/vfs"
)

func main() {
	src := flag.String("src", "", "host directory to copy onto the volume")
	dir := flag.String("dir", "/", "directory on the volume to list")
	long := flag.Bool("l", false, "long listing with size and time")
	flag.Parse()

	if *src == "" {
		fmt.Fprintln(os.Stderr, "error: -src is required")
		flag.Usage()
		os.Exit(1)
	}

	log := logrus.New()

	reg := vfs.New(func(dev ext2.BlockDevice, _ bool) (ext2.Volume, error) {
		vol, err := memfs.Open(dev)
		if err != nil {
			return nil, err
		}
		if err := vol.FromDir(*src); err != nil {
			return nil, err
		}
		return vol, nil
	}, vfs.WithLogger(log))

	dev := memfs.NewDevice(1024, 65536)
	mnt, err := reg.Mount("/fd", dev, 0)
	if err != nil {
		log.WithError(err).Fatal("failed to mount volume")
	}
	defer reg.Shutdown()

	h, err := mnt.Open(*dir, vfs.OpenDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open directory")
	}
	defer reg.Close(h)

	for {
		ent, err := reg.ReadDir(h)
		if err != nil {
			log.WithError(err).Fatal("readdir failed")
		}
		if ent == nil {
			return
		}
		if !*long {
			fmt.Println(ent.Name)
			continue
		}
		kind := "-"
		if ent.Dir {
			kind = "d"
		}
		fmt.Printf("%s %10d %s %s\n", kind, ent.Size, ent.ModTime.Format("2006-01-02 15:04"), ent.Name)
	}
}
