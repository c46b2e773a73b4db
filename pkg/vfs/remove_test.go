package vfs

import (
	"errors"
	"testing"
)

func TestUnlink(t *testing.T) {
	_, m, mv := newTestMount(t, MountReadWrite)

	free := mv.FreeBlocks()
	if err := m.Unlink("/file.txt"); err != nil {
		t.Fatalf("Unlink: %v", err)
	}

	if _, err := m.Stat("/file.txt"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Stat after unlink = %v, want ErrNotExist", err)
	}
	if mv.FreeBlocks() <= free {
		t.Error("unlink did not release the file's data blocks")
	}
	checkNoLeaks(t, mv)
}

func TestUnlinkBusy(t *testing.T) {
	f, m, mv := newTestMount(t, MountReadWrite)

	h, err := m.Open("/file.txt", OpenRead)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := m.Unlink("/file.txt"); !errors.Is(err, ErrBusy) {
		t.Fatalf("Unlink of open file = %v, want ErrBusy", err)
	}
	if _, err := m.Stat("/file.txt"); err != nil {
		t.Fatalf("open file vanished after refused unlink: %v", err)
	}

	f.Close(h)
	if err := m.Unlink("/file.txt"); err != nil {
		t.Fatalf("Unlink after close: %v", err)
	}
	checkNoLeaks(t, mv)
}

func TestUnlinkErrors(t *testing.T) {
	_, m, mv := newTestMount(t, MountReadWrite)

	cases := []struct {
		name string
		path string
		want error
	}{
		{"directory", "/dir", ErrNotPermitted},
		{"missing", "/nope.txt", ErrNotExist},
		{"root", "", ErrNotPermitted},
		{"no separator", "file.txt", ErrNotPermitted},
		{"through file", "/file.txt/x", ErrNotDir},
	}
	for _, c := range cases {
		if err := m.Unlink(c.path); !errors.Is(err, c.want) {
			t.Errorf("Unlink(%s) = %v, want %v", c.name, err, c.want)
		}
	}
	checkNoLeaks(t, mv)
}

func TestUnlinkReadOnlyMount(t *testing.T) {
	_, m, _ := newTestMount(t, 0)

	if err := m.Unlink("/file.txt"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Unlink on read-only mount = %v, want ErrReadOnly", err)
	}
}

func TestRmdir(t *testing.T) {
	_, m, mv := newTestMount(t, MountReadWrite)

	rootLinks := rootLinkCount(t, mv)
	if err := m.Rmdir("/empty"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}

	if _, err := m.Stat("/empty"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Stat after rmdir = %v, want ErrNotExist", err)
	}
	if got := rootLinkCount(t, mv); got != rootLinks-1 {
		t.Errorf("root link count = %d, want %d", got, rootLinks-1)
	}
	checkNoLeaks(t, mv)
}

// Emptiness is deliberately not checked: removing a populated directory
// succeeds and strands its children.
func TestRmdirNonEmptySucceeds(t *testing.T) {
	_, m, mv := newTestMount(t, MountReadWrite)

	if err := m.Rmdir("/dir"); err != nil {
		t.Fatalf("Rmdir of non-empty directory = %v, want success", err)
	}
	if _, err := m.Stat("/dir"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Stat after rmdir = %v, want ErrNotExist", err)
	}
	if _, err := m.Stat("/dir/a.txt"); !errors.Is(err, ErrNotExist) {
		t.Errorf("Stat of stranded child = %v, want ErrNotExist", err)
	}
	checkNoLeaks(t, mv)
}

func TestRmdirBusy(t *testing.T) {
	f, m, mv := newTestMount(t, MountReadWrite)

	h, err := m.Open("/empty", OpenDir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if err := m.Rmdir("/empty"); !errors.Is(err, ErrBusy) {
		t.Fatalf("Rmdir of open directory = %v, want ErrBusy", err)
	}

	f.Close(h)
	if err := m.Rmdir("/empty"); err != nil {
		t.Fatalf("Rmdir after close: %v", err)
	}
	checkNoLeaks(t, mv)
}

func TestRmdirErrors(t *testing.T) {
	_, m, mv := newTestMount(t, MountReadWrite)

	cases := []struct {
		name string
		path string
		want error
	}{
		{"regular file", "/file.txt", ErrNotPermitted},
		{"missing", "/nope", ErrNotExist},
		{"root slash", "/", ErrNotPermitted},
		{"root empty", "", ErrNotPermitted},
		{"no separator", "dir", ErrNotPermitted},
	}
	for _, c := range cases {
		if err := m.Rmdir(c.path); !errors.Is(err, c.want) {
			t.Errorf("Rmdir(%s) = %v, want %v", c.name, err, c.want)
		}
	}

	if err := m.Rmdir("/empty"); err != nil {
		t.Fatalf("Rmdir: %v", err)
	}
	checkNoLeaks(t, mv)
}

func TestRmdirReadOnlyMount(t *testing.T) {
	_, m, _ := newTestMount(t, 0)

	if err := m.Rmdir("/empty"); !errors.Is(err, ErrReadOnly) {
		t.Errorf("Rmdir on read-only mount = %v, want ErrReadOnly", err)
	}
}
