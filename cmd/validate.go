package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/galleryctl/internal/config"
	"github.com/AnyUserName/galleryctl/internal/manifest"
)

var validateDest string

var validateCmd = &cobra.Command{
	Use:   "validate [manifest_path]",
	Short: "Check that the listing and the derivative tree agree",
	Long: `Cross-checks the JSON listing against the derivative tree: every
record must name a file that exists on disk, every file on disk must
appear in the listing, and records must carry sane dimensions. Run this
before "upload" to catch a stale or half-written listing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateDest, "dest", "d", "", "derivative tree to check against (default from env)")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, args []string) error {
	cfg := config.Load()

	manifestPath := cfg.Paths.ManifestPath
	if len(args) == 1 {
		manifestPath = args[0]
	}
	destDir := validateDest
	if destDir == "" {
		destDir = cfg.Paths.DestDir
	}

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}

	errs := validateManifest(m, destDir)
	if len(errs) == 0 {
		fmt.Println("  ✓ Listing is valid")
		fmt.Printf("  ✓ %d folders, %d files — tree and listing agree\n", len(m), m.TotalFiles())
		return nil
	}

	fmt.Printf("  ✗ Listing has %d problem(s):\n", len(errs))
	for _, e := range errs {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("validation failed with %d errors", len(errs))
}

func validateManifest(m manifest.Manifest, destDir string) []string {
	var errs []string

	seenFolders := map[string]bool{}
	for _, listing := range m {
		if seenFolders[listing.Folder] {
			errs = append(errs, fmt.Sprintf("folder %q listed twice", listing.Folder))
		}
		seenFolders[listing.Folder] = true

		folderDir := filepath.Join(destDir, listing.Folder)
		info, err := os.Stat(folderDir)
		if err != nil || !info.IsDir() {
			errs = append(errs, fmt.Sprintf("folder %q: directory missing under %s", listing.Folder, destDir))
			continue
		}

		seenFiles := map[string]bool{}
		for i, rec := range listing.Files {
			if rec.File == "" {
				errs = append(errs, fmt.Sprintf("folder %q: record[%d] has empty file name", listing.Folder, i))
				continue
			}
			if seenFiles[rec.File] {
				errs = append(errs, fmt.Sprintf("folder %q: file %q listed twice", listing.Folder, rec.File))
			}
			seenFiles[rec.File] = true

			if rec.Width <= 0 || rec.Height <= 0 {
				errs = append(errs, fmt.Sprintf("folder %q file %q: invalid dimensions %dx%d",
					listing.Folder, rec.File, rec.Width, rec.Height))
			}
			if _, err := os.Stat(filepath.Join(folderDir, rec.File)); err != nil {
				errs = append(errs, fmt.Sprintf("folder %q file %q: not found on disk", listing.Folder, rec.File))
			}
		}

		// Files on disk the listing doesn't know about would never be
		// uploaded; flag them too.
		entries, err := os.ReadDir(folderDir)
		if err != nil {
			errs = append(errs, fmt.Sprintf("folder %q: %v", listing.Folder, err))
			continue
		}
		for _, e := range entries {
			if !seenFiles[e.Name()] {
				errs = append(errs, fmt.Sprintf("folder %q: %q on disk but not in listing", listing.Folder, e.Name()))
			}
		}
	}

	return errs
}
