package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/galleryctl/pkg/logger"
)

// PrepareDest tears down and rebuilds the destination tree: every
// existing entry under destRoot is removed, then one empty subfolder is
// created per source folder. Derivative writes fail when their target
// directory is missing, so this must finish before generation starts.
func PrepareDest(destRoot string, folders []string) error {
	entries, err := os.ReadDir(destRoot)
	if err != nil {
		return fmt.Errorf("destination root %s: %w", destRoot, err)
	}

	for _, e := range entries {
		path := filepath.Join(destRoot, e.Name())
		if err := os.RemoveAll(path); err != nil {
			logger.Log.Warn().Err(err).Str("path", path).Msg("could not remove destination entry")
		}
	}

	for _, folder := range folders {
		if err := os.Mkdir(filepath.Join(destRoot, folder), 0o755); err != nil {
			return fmt.Errorf("create destination folder %s: %w", folder, err)
		}
	}
	return nil
}
