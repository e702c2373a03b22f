package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/galleryctl/internal/config"
	"github.com/AnyUserName/galleryctl/internal/manifest"
	"github.com/AnyUserName/galleryctl/internal/pipeline"
)

var (
	processDest       string
	processOut        string
	processMode       string
	processWorkers    int
	processHeight     int
	processWidth      int
	processWideFolder string
)

var processCmd = &cobra.Command{
	Use:   "process [source_dir]",
	Short: "Generate resized derivatives and the JSON listing",
	Long: `Walks the top-level subfolders of the source directory, computes
derivative dimensions for every image, and depending on --mode writes
resized derivatives into a mirrored destination tree and/or a JSON
listing describing them.

The destination subfolders are deleted and recreated before any
derivative is written. Images in the wide folder are resized to a fixed
width; every other folder is resized to a fixed height.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processDest, "dest", "d", "", "destination directory for derivatives (default from env)")
	processCmd.Flags().StringVarP(&processOut, "out", "o", "", "listing output path (default from env)")
	processCmd.Flags().StringVarP(&processMode, "mode", "m", "both", "what to produce: manifest, derivatives, or both")
	processCmd.Flags().IntVarP(&processWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	processCmd.Flags().IntVar(&processHeight, "height", 0, "target height for regular folders (default from env)")
	processCmd.Flags().IntVar(&processWidth, "width", 0, "target width for the wide folder (default from env)")
	processCmd.Flags().StringVar(&processWideFolder, "wide-folder", "", "folder resized by width instead of height (default from env)")
	rootCmd.AddCommand(processCmd)
}

func runProcess(_ *cobra.Command, args []string) error {
	cfg := config.Load()
	start := time.Now()

	sourceDir := cfg.Paths.SourceDir
	if len(args) == 1 {
		sourceDir = args[0]
	}
	destDir := processDest
	if destDir == "" {
		destDir = cfg.Paths.DestDir
	}
	outPath := processOut
	if outPath == "" {
		outPath = cfg.Paths.ManifestPath
	}
	height := processHeight
	if height <= 0 {
		height = cfg.Resize.TargetHeight
	}
	width := processWidth
	if width <= 0 {
		width = cfg.Resize.TargetWidth
	}
	wideFolder := processWideFolder
	if wideFolder == "" {
		wideFolder = cfg.Resize.WideFolder
	}

	var generateManifest, writeDerivatives bool
	switch processMode {
	case "manifest":
		generateManifest = true
	case "derivatives":
		writeDerivatives = true
	case "both":
		generateManifest = true
		writeDerivatives = true
	default:
		return fmt.Errorf("unknown mode %q (want manifest, derivatives, or both)", processMode)
	}

	p := pipeline.New(pipeline.Options{
		SourceDir:        sourceDir,
		DestDir:          destDir,
		Policy:           pipeline.NewPolicy(wideFolder, width, height),
		WriteDerivatives: writeDerivatives,
		Workers:          processWorkers,
	})

	m, report, err := p.Run()
	if err != nil {
		return fmt.Errorf("process: %w", err)
	}

	if generateManifest {
		if err := manifest.Write(m, outPath); err != nil {
			return err
		}
	}

	printProcessReport(report, outPath, generateManifest, time.Since(start))
	return nil
}

func printProcessReport(r *pipeline.Report, outPath string, wroteManifest bool, elapsed time.Duration) {
	processed, failed := r.Totals()

	fmt.Println()
	fmt.Printf("  Folders:   %d\n", len(r.Folders))
	fmt.Printf("  Processed: %d\n", processed)
	if failed > 0 {
		fmt.Printf("  Failed:    %d\n", failed)
	}
	fmt.Printf("  Time:      %s\n", elapsed.Round(time.Millisecond))
	if wroteManifest {
		fmt.Printf("  Listing:   %s\n", outPath)
	}
	fmt.Println()

	for _, f := range r.Folders {
		line := fmt.Sprintf("    %-30s %4d files", f.Folder, f.Processed)
		if f.Failed > 0 {
			line += fmt.Sprintf("  (%d failed)", f.Failed)
		}
		fmt.Println(line)
	}
	fmt.Println()
}
