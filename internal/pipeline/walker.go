package pipeline

import (
	"fmt"
	"os"
)

// ListFolders returns the names of the immediate children of root in
// sorted order. No filtering is applied; the source tree is expected to
// contain only image subfolders.
func ListFolders(root string) ([]string, error) {
	return listNames(root)
}

// ListFiles returns the sorted names of the entries in one folder.
func ListFiles(dir string) ([]string, error) {
	return listNames(dir)
}

func listNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names, nil
}
