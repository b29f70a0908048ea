package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempInbox(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempInbox(t)
	content := []byte("# Hello\n- [ ] world\n")
	if err := s.Write("note.md", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("note.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("del.md", []byte("bye"))
	if err := s.Delete("del.md"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.md"); err == nil {
		t.Error("expected error reading deleted file")
	}
}

func TestMoveIntoFailed(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("bad.md", []byte("data"))
	dst := filepath.Join(FailedDir, "bad.md")
	if err := s.Move("bad.md", dst); err != nil {
		t.Fatalf("Move: %v", err)
	}
	got, err := s.Read(dst)
	if err != nil {
		t.Fatalf("Read after move: %v", err)
	}
	if string(got) != "data" {
		t.Errorf("content = %q", got)
	}
	if _, err := s.Read("bad.md"); err == nil {
		t.Error("old path should not exist")
	}
}

func TestList_SkipsFailedHiddenAndOtherFiles(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("a.md", []byte("a"))
	_ = s.Write("sub/b.md", []byte("b"))
	_ = s.Write("readme.txt", []byte("not md"))
	_ = s.Write(".draft.md", []byte("hidden"))
	_ = s.Write(filepath.Join(FailedDir, "c.md"), []byte("failed"))

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(items), items)
	}
}

func TestList_OldestFirst(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("new.md", []byte("n"))
	_ = s.Write("old.md", []byte("o"))
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(filepath.Join(s.Root(), "old.md"), past, past); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[0].Path != "old.md" || items[1].Path != "new.md" {
		t.Errorf("order = %v", items)
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempInbox(t)
	for _, p := range []string{"../../etc/passwd", "../outside.md", "/etc/shadow"} {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
		if err := s.Delete(p); err == nil {
			t.Errorf("expected error for delete of %q", p)
		}
	}
}

func TestAtomicWriteLeavesNoTempFiles(t *testing.T) {
	s := tempInbox(t)
	_ = s.Write("atomic.md", []byte("original"))
	if err := s.Write("atomic.md", []byte("updated")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic.md")
	if string(got) != "updated" {
		t.Errorf("expected updated content, got %q", got)
	}
	matches, _ := filepath.Glob(filepath.Join(s.root, ".noteflow-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	if _, err := NewFS(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "noteflow-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	if _, err := NewFS(f.Name()); err == nil {
		t.Error("expected error when root is a file")
	}
}
