package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/AnyUserName/galleryctl/internal/manifest"
	"github.com/AnyUserName/galleryctl/pkg/logger"
)

// FileResult tags the outcome of processing a single source file, so a
// failed file is distinguishable from one that was never processed.
type FileResult struct {
	Record manifest.FileRecord
	Err    error
}

// FolderResult collects per-file outcomes for one source folder.
// Err is set when the folder listing itself failed.
type FolderResult struct {
	Folder string
	Files  []FileResult
	Err    error
}

// processFolder lists one source folder and processes its files with
// bounded fan-out. Each file writes to a distinct destination path, so
// no coordination beyond the WaitGroup is needed.
func (p *Pipeline) processFolder(folder string) FolderResult {
	result := FolderResult{Folder: folder}

	files, err := ListFiles(filepath.Join(p.opts.SourceDir, folder))
	if err != nil {
		result.Err = err
		return result
	}

	rule := p.opts.Policy.Resolve(folder)

	result.Files = make([]FileResult, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()
			p.sem <- struct{}{}
			defer func() { <-p.sem }()

			logger.Log.Debug().Str("folder", folder).Str("file", file).Msg("processing")
			result.Files[idx] = p.processFile(folder, file, rule)
		}(i, file)
	}
	wg.Wait()

	return result
}

// processFile reads the source image's intrinsic dimensions, computes
// the derivative dimensions under the folder's rule, and optionally
// writes the resized derivative to the mirrored destination path.
// Dimension metadata is recorded whether or not a derivative is written.
func (p *Pipeline) processFile(folder, file string, rule Rule) FileResult {
	srcPath := filepath.Join(p.opts.SourceDir, folder, file)

	f, err := os.Open(srcPath)
	if err != nil {
		return FileResult{Err: fmt.Errorf("open %s/%s: %w", folder, file, err)}
	}
	cfg, _, err := image.DecodeConfig(f)
	f.Close()
	if err != nil {
		return FileResult{Err: fmt.Errorf("decode %s/%s: %w", folder, file, err)}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return FileResult{Err: fmt.Errorf("decode %s/%s: empty dimensions", folder, file)}
	}

	width, height := rule.Apply(cfg.Width, cfg.Height)
	record := manifest.FileRecord{File: file, Width: width, Height: height}

	if p.opts.WriteDerivatives {
		img, err := imaging.Open(srcPath)
		if err != nil {
			return FileResult{Err: fmt.Errorf("load %s/%s: %w", folder, file, err)}
		}

		var resized image.Image
		if rule.Fix == FixWidth {
			resized = imaging.Resize(img, rule.Target, 0, imaging.Lanczos)
		} else {
			resized = imaging.Resize(img, 0, rule.Target, imaging.Lanczos)
		}

		destPath := filepath.Join(p.opts.DestDir, folder, file)
		if err := imaging.Save(resized, destPath); err != nil {
			return FileResult{Err: fmt.Errorf("save %s/%s: %w", folder, file, err)}
		}
	}

	return FileResult{Record: record}
}
