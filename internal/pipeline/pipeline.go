package pipeline

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/AnyUserName/galleryctl/internal/manifest"
	"github.com/AnyUserName/galleryctl/pkg/logger"
)

// Options holds all parameters for a generation run.
type Options struct {
	SourceDir        string
	DestDir          string
	Policy           Policy
	WriteDerivatives bool
	Workers          int
}

// Pipeline orchestrates the generation stage: walk, prepare, resize,
// aggregate.
type Pipeline struct {
	opts Options
	sem  chan struct{}
}

// New creates a configured pipeline.
func New(opts Options) *Pipeline {
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		opts: opts,
		sem:  make(chan struct{}, opts.Workers),
	}
}

// Run executes the generation stage and returns the manifest plus a
// per-folder report. Per-file failures are logged and skipped; only a
// missing source root or an unpreparable destination tree is fatal.
func (p *Pipeline) Run() (manifest.Manifest, *Report, error) {
	folders, err := ListFolders(p.opts.SourceDir)
	if err != nil {
		return nil, nil, fmt.Errorf("scan source: %w", err)
	}
	if len(folders) == 0 {
		return nil, nil, fmt.Errorf("no folders found in %s", p.opts.SourceDir)
	}

	logger.Log.Debug().Int("folders", len(folders)).Msg("source scanned")

	if p.opts.WriteDerivatives {
		if err := PrepareDest(p.opts.DestDir, folders); err != nil {
			return nil, nil, fmt.Errorf("prepare destination: %w", err)
		}
	}

	// Process folders concurrently, collecting results keyed by folder
	// name so a skipped folder cannot shift another folder's records.
	results := make(map[string]FolderResult, len(folders))
	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, folder := range folders {
		wg.Add(1)
		go func(folder string) {
			defer wg.Done()
			r := p.processFolder(folder)
			mu.Lock()
			results[folder] = r
			mu.Unlock()
		}(folder)
	}
	wg.Wait()

	m := make(manifest.Manifest, 0, len(folders))
	report := &Report{}
	for _, folder := range folders {
		r := results[folder]
		fr := FolderReport{Folder: folder}

		if r.Err != nil {
			logger.Log.Error().Err(r.Err).Str("folder", folder).Msg("folder skipped")
			fr.Failed++
			report.Folders = append(report.Folders, fr)
			m = append(m, manifest.FolderListing{Folder: folder, Files: []manifest.FileRecord{}})
			continue
		}

		listing := manifest.FolderListing{Folder: folder, Files: make([]manifest.FileRecord, 0, len(r.Files))}
		for _, res := range r.Files {
			if res.Err != nil {
				logger.Log.Error().Err(res.Err).Str("folder", folder).Msg("file skipped")
				fr.Failed++
				continue
			}
			listing.Files = append(listing.Files, res.Record)
			fr.Processed++
		}
		m = append(m, listing)
		report.Folders = append(report.Folders, fr)
	}

	return m, report, nil
}

// Report summarizes a generation run per folder.
type Report struct {
	Folders []FolderReport
}

// FolderReport counts the outcomes within one folder.
type FolderReport struct {
	Folder    string
	Processed int
	Failed    int
}

// Totals sums processed and failed counts across all folders.
func (r *Report) Totals() (processed, failed int) {
	for _, f := range r.Folders {
		processed += f.Processed
		failed += f.Failed
	}
	return processed, failed
}
