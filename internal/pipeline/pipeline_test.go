package pipeline

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
}

func decodeSize(t *testing.T, path string) (int, int) {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return cfg.Width, cfg.Height
}

// buildSourceTree lays out two gallery folders plus one corrupt file.
func buildSourceTree(t *testing.T) string {
	t.Helper()
	src := t.TempDir()
	for _, folder := range []string{"000_About", "A"} {
		if err := os.Mkdir(filepath.Join(src, folder), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writePNG(t, filepath.Join(src, "000_About", "hero.png"), 10, 5)
	writePNG(t, filepath.Join(src, "A", "landscape.png"), 40, 30)
	writePNG(t, filepath.Join(src, "A", "portrait.png"), 20, 30)
	if err := os.WriteFile(filepath.Join(src, "A", "broken.png"), []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	return src
}

func TestRunGeneratesManifestAndDerivatives(t *testing.T) {
	src := buildSourceTree(t)
	dest := t.TempDir()

	p := New(Options{
		SourceDir:        src,
		DestDir:          dest,
		Policy:           NewPolicy("000_About", 20, 12),
		WriteDerivatives: true,
		Workers:          2,
	})

	m, report, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(m) != 2 {
		t.Fatalf("manifest folders: got %d, want 2", len(m))
	}
	if m[0].Folder != "000_About" || m[1].Folder != "A" {
		t.Errorf("folder order: %q, %q", m[0].Folder, m[1].Folder)
	}

	// Wide folder: width fixed to 20.
	if len(m[0].Files) != 1 {
		t.Fatalf("000_About files: got %d, want 1", len(m[0].Files))
	}
	hero := m[0].Files[0]
	if hero.File != "hero.png" || hero.Width != 20 || hero.Height != 10 {
		t.Errorf("hero record: %+v", hero)
	}

	// Regular folder: height fixed to 12; corrupt file omitted.
	if len(m[1].Files) != 2 {
		t.Fatalf("A files: got %d, want 2 (corrupt file must be skipped)", len(m[1].Files))
	}
	landscape := m[1].Files[0]
	if landscape.File != "landscape.png" || landscape.Width != 16 || landscape.Height != 12 {
		t.Errorf("landscape record: %+v", landscape)
	}
	portrait := m[1].Files[1]
	if portrait.File != "portrait.png" || portrait.Width != 8 || portrait.Height != 12 {
		t.Errorf("portrait record: %+v", portrait)
	}

	// Derivative tree mirrors the manifest, with resized pixels.
	for _, listing := range m {
		for _, rec := range listing.Files {
			path := filepath.Join(dest, listing.Folder, rec.File)
			w, h := decodeSize(t, path)
			if w != rec.Width || h != rec.Height {
				t.Errorf("%s/%s on disk is %dx%d, record says %dx%d",
					listing.Folder, rec.File, w, h, rec.Width, rec.Height)
			}
		}
	}
	if _, err := os.Stat(filepath.Join(dest, "A", "broken.png")); !os.IsNotExist(err) {
		t.Error("corrupt file produced a derivative")
	}

	processed, failed := report.Totals()
	if processed != 3 || failed != 1 {
		t.Errorf("report totals: processed=%d failed=%d, want 3/1", processed, failed)
	}
}

func TestRunManifestOnlyLeavesDestAlone(t *testing.T) {
	src := buildSourceTree(t)
	dest := t.TempDir()
	marker := filepath.Join(dest, "keep.txt")
	if err := os.WriteFile(marker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Options{
		SourceDir:        src,
		DestDir:          dest,
		Policy:           NewPolicy("000_About", 20, 12),
		WriteDerivatives: false,
	})

	m, _, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Dimensions are still computed without writing anything.
	if m.TotalFiles() != 3 {
		t.Errorf("total files: got %d, want 3", m.TotalFiles())
	}
	if _, err := os.Stat(marker); err != nil {
		t.Error("manifest-only run touched the destination tree")
	}
	if _, err := os.Stat(filepath.Join(dest, "A")); !os.IsNotExist(err) {
		t.Error("manifest-only run created destination folders")
	}
}

func TestRunMissingSourceRoot(t *testing.T) {
	p := New(Options{
		SourceDir: filepath.Join(t.TempDir(), "missing"),
		DestDir:   t.TempDir(),
		Policy:    NewPolicy("000_About", 20, 12),
	})
	if _, _, err := p.Run(); err == nil {
		t.Fatal("expected error for missing source root")
	}
}

func TestRunFolderListingFailureIsIsolated(t *testing.T) {
	src := t.TempDir()
	if err := os.Mkdir(filepath.Join(src, "good"), 0o755); err != nil {
		t.Fatal(err)
	}
	writePNG(t, filepath.Join(src, "good", "a.png"), 30, 10)
	// A plain file among the top-level entries cannot be listed as a
	// folder; the run must carry on past it.
	if err := os.WriteFile(filepath.Join(src, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := New(Options{
		SourceDir:        src,
		DestDir:          t.TempDir(),
		Policy:           NewPolicy("000_About", 20, 10),
	})

	m, report, err := p.Run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(m) != 2 {
		t.Fatalf("manifest folders: got %d, want 2", len(m))
	}
	if len(m[0].Files) != 1 || m[0].Files[0].Width != 30 {
		t.Errorf("good folder record: %+v", m[0].Files)
	}
	if len(m[1].Files) != 0 {
		t.Errorf("stray entry produced records: %+v", m[1].Files)
	}
	_, failed := report.Totals()
	if failed != 1 {
		t.Errorf("failed count: got %d, want 1", failed)
	}
}
