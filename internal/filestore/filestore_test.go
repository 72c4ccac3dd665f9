package filestore_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"orga/internal/domain"
	"orga/internal/filestore"
)

func TestModeThreshold(t *testing.T) {
	mb := int64(1024 * 1024)
	cases := []struct {
		size    int64
		limitMB float64
		want    string
	}{
		{100, 20, domain.StorageEmbedded},
		{20 * mb, 20, domain.StorageWorkspace},
		{20*mb - 1, 20, domain.StorageEmbedded},
		{3 * mb, 2, domain.StorageWorkspace},
		{100, 0, domain.StorageWorkspace},
		{19 * mb, -1, domain.StorageEmbedded},
		{21 * mb, -1, domain.StorageWorkspace},
	}
	for _, c := range cases {
		if got := filestore.Mode(c.size, c.limitMB); got != c.want {
			t.Fatalf("Mode(%d, %g) = %s, want %s", c.size, c.limitMB, got, c.want)
		}
	}
}

func TestUnlinkedWorkspaceRefusesEverything(t *testing.T) {
	var w filestore.Workspace
	if w.Linked() {
		t.Fatal("zero workspace must be unlinked")
	}
	if _, err := w.Save("d1", "a.txt", []byte("x")); !errors.Is(err, filestore.ErrNotLinked) {
		t.Fatalf("Save = %v", err)
	}
	if _, err := w.Load("a.txt"); !errors.Is(err, filestore.ErrNotLinked) {
		t.Fatalf("Load = %v", err)
	}
	if err := w.Remove("a.txt"); !errors.Is(err, filestore.ErrNotLinked) {
		t.Fatalf("Remove = %v", err)
	}
	if _, err := filestore.Link(""); !errors.Is(err, filestore.ErrNotLinked) {
		t.Fatalf("Link(\"\") = %v", err)
	}
}

func TestSaveLoadRemoveRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "attachments")
	w, err := filestore.Link(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("Link should create the directory: %v", err)
	}

	payload := []byte("design notes")
	name, err := w.Save("doc-1", "notes.md", payload)
	if err != nil {
		t.Fatal(err)
	}
	if name != "doc-1-notes.md" {
		t.Fatalf("stored name = %q", name)
	}

	got, err := w.Load(name)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Fatalf("round trip mismatch: %q", got)
	}

	if err := w.Remove(name); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Load(name); err == nil {
		t.Fatal("load after remove should fail")
	}
	// Removing a missing file is not an error.
	if err := w.Remove(name); err != nil {
		t.Fatalf("second remove = %v", err)
	}
}

func TestChecksum(t *testing.T) {
	// sha256("abc"), a fixed vector.
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := filestore.Checksum([]byte("abc")); got != want {
		t.Fatalf("Checksum = %s", got)
	}
	if filestore.Checksum([]byte("abc")) == filestore.Checksum([]byte("abd")) {
		t.Fatal("different payloads should not collide")
	}
}
