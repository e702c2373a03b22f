package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/galleryctl/internal/b2"
	"github.com/AnyUserName/galleryctl/internal/config"
	"github.com/AnyUserName/galleryctl/internal/manifest"
	"github.com/AnyUserName/galleryctl/internal/uploader"
)

var uploadDest string

var uploadCmd = &cobra.Command{
	Use:   "upload [manifest_path]",
	Short: "Upload every derivative named in the listing to B2",
	Long: `Reads the JSON listing produced by "process" and uploads each
derivative to the configured Backblaze B2 bucket, one file at a time,
with its width and height attached as info headers.

Requires B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET_ID in the
environment (a .env file is honored). Uploads run strictly serially:
the upload endpoint rejects concurrent requests on one token.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVarP(&uploadDest, "dest", "d", "", "derivative tree to read files from (default from env)")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	start := time.Now()

	manifestPath := cfg.Paths.ManifestPath
	if len(args) == 1 {
		manifestPath = args[0]
	}
	destDir := uploadDest
	if destDir == "" {
		destDir = cfg.Paths.DestDir
	}

	m, err := manifest.Read(manifestPath)
	if err != nil {
		return err
	}

	if cfg.B2.AccountID == "" || cfg.B2.ApplicationKey == "" || cfg.B2.BucketID == "" {
		return errors.New("B2_ACCOUNT_ID, B2_APPLICATION_KEY and B2_BUCKET_ID must be set")
	}

	ctx := cmd.Context()
	client := b2.New(cfg.B2.AccountID, cfg.B2.ApplicationKey)

	cred, err := uploader.OpenSession(ctx, client, cfg.B2.BucketID)
	if err != nil {
		return fmt.Errorf("open upload session: %w", err)
	}

	driver := uploader.New(client, cred, uploader.Options{
		DestDir:     destDir,
		ContentType: cfg.B2.ContentType,
	})
	summary := driver.Run(ctx, m)

	printUploadSummary(summary, time.Since(start))
	return nil
}

func printUploadSummary(s uploader.Summary, elapsed time.Duration) {
	uploaded, failed := s.Totals()

	fmt.Println()
	fmt.Printf("  Uploaded: %d\n", uploaded)
	if failed > 0 {
		fmt.Printf("  Failed:   %d\n", failed)
	}
	fmt.Printf("  Time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Println()

	for _, f := range s.Folders {
		line := fmt.Sprintf("    %-30s %4d uploaded", f.Folder, f.Uploaded)
		if f.Failed > 0 {
			line += fmt.Sprintf("  (%d failed)", f.Failed)
		}
		fmt.Println(line)
	}
	fmt.Println()
}
