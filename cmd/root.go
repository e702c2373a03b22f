package cmd

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/AnyUserName/galleryctl/pkg/logger"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "galleryctl",
	Short: "Batch gallery preprocessor and object-storage uploader",
	Long: `galleryctl prepares a photo gallery for publishing in two stages:

  process — walk a source tree of image subfolders, write resized
            derivatives into a mirrored destination tree, and record
            every derivative's dimensions in a JSON listing.
  upload  — read the listing and push each derivative, with its
            dimensions as metadata, to a Backblaze B2 bucket.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	cobra.OnInitialize(func() {
		logger.SetVerbose(verbose)
	})
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"galleryctl %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}
