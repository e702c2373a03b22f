package manifest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManifestRoundtrip(t *testing.T) {
	m := Manifest{
		{
			Folder: "000_About",
			Files: []FileRecord{
				{File: "hero.jpg", Width: 3440, Height: 1720},
			},
		},
		{
			Folder: "A",
			Files: []FileRecord{
				{File: "photo.jpg", Width: 1920, Height: 1440},
				{File: "other.jpg", Width: 2560, Height: 1440},
			},
		},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "listing.json")
	if err := Write(m, path); err != nil {
		t.Fatalf("write: %v", err)
	}

	m2, err := Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if len(m2) != 2 {
		t.Fatalf("folders: got %d, want 2", len(m2))
	}
	if m2[0].Folder != "000_About" || m2[1].Folder != "A" {
		t.Errorf("folder order not preserved: %q, %q", m2[0].Folder, m2[1].Folder)
	}
	if len(m2[1].Files) != 2 {
		t.Fatalf("files in A: got %d, want 2", len(m2[1].Files))
	}
	got := m2[1].Files[0]
	if got.File != "photo.jpg" || got.Width != 1920 || got.Height != 1440 {
		t.Errorf("record mismatch: %+v", got)
	}
	if m2.TotalFiles() != 3 {
		t.Errorf("total files: got %d, want 3", m2.TotalFiles())
	}
}

func TestManifestFieldCasing(t *testing.T) {
	m := Manifest{
		{Folder: "A", Files: []FileRecord{{File: "p.jpg", Width: 10, Height: 20}}},
	}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(data)
	for _, field := range []string{`"folder"`, `"files"`, `"file"`, `"width"`, `"height"`} {
		if !strings.Contains(s, field) {
			t.Errorf("serialized manifest missing field %s: %s", field, s)
		}
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing manifest")
	}
}

func TestReadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(path); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestReadIgnoresUnknownFields(t *testing.T) {
	raw := `[{"folder":"A","files":[{"file":"p.jpg","width":1,"height":2,"future":true}],"extra":1}]`
	path := filepath.Join(t.TempDir(), "listing.json")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}
	m, err := Read(path)
	if err != nil {
		t.Fatalf("read with unknown fields: %v", err)
	}
	if len(m) != 1 || m[0].Files[0].File != "p.jpg" {
		t.Errorf("parsed manifest wrong: %+v", m)
	}
}
