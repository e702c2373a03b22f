package manifest

// FileRecord describes one derivative image. Width and height are the
// computed target dimensions of the derivative, not the source's.
type FileRecord struct {
	File   string `json:"file"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// FolderListing groups the records of one top-level source subfolder.
// File order follows the sorted directory listing at generation time.
type FolderListing struct {
	Folder string       `json:"folder"`
	Files  []FileRecord `json:"files"`
}

// Manifest is the full listing bridging the generation and upload
// stages: one FolderListing per top-level folder, in listing order.
// It is the single source of truth for what gets uploaded; the upload
// stage never re-lists the filesystem.
type Manifest []FolderListing

// TotalFiles counts records across all folders.
func (m Manifest) TotalFiles() int {
	n := 0
	for _, l := range m {
		n += len(l.Files)
	}
	return n
}
