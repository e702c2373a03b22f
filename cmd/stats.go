package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/galleryctl/internal/config"
	"github.com/AnyUserName/galleryctl/internal/manifest"
)

var statsCmd = &cobra.Command{
	Use:   "stats [manifest_path]",
	Short: "Display statistics for a generated listing",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := config.Load().Paths.ManifestPath
	if len(args) == 1 {
		path = args[0]
	}

	m, err := manifest.Read(path)
	if err != nil {
		return err
	}

	printStats(m)
	return nil
}

func printStats(m manifest.Manifest) {
	fmt.Println()
	fmt.Printf("  Folders: %d\n", len(m))
	fmt.Printf("  Files:   %d\n", m.TotalFiles())
	fmt.Println()

	minW, minH := -1, -1
	maxW, maxH := 0, 0
	for _, listing := range m {
		fmt.Printf("    %-30s %4d files\n", listing.Folder, len(listing.Files))
		for _, rec := range listing.Files {
			if minW < 0 || rec.Width < minW {
				minW = rec.Width
			}
			if minH < 0 || rec.Height < minH {
				minH = rec.Height
			}
			if rec.Width > maxW {
				maxW = rec.Width
			}
			if rec.Height > maxH {
				maxH = rec.Height
			}
		}
	}
	fmt.Println()

	if m.TotalFiles() > 0 {
		fmt.Printf("  Smallest: %dx%d\n", minW, minH)
		fmt.Printf("  Largest:  %dx%d\n", maxW, maxH)
		fmt.Println()
	}

	// Empty folders upload nothing; worth calling out.
	var warnings []string
	for _, listing := range m {
		if len(listing.Files) == 0 {
			warnings = append(warnings, fmt.Sprintf("folder %q has no files", listing.Folder))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}
