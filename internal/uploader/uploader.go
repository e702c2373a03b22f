package uploader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/AnyUserName/galleryctl/internal/b2"
	"github.com/AnyUserName/galleryctl/internal/manifest"
	"github.com/AnyUserName/galleryctl/pkg/logger"
)

// Storage is the narrow contract the upload stage needs from the
// object-storage service.
type Storage interface {
	Authorize(ctx context.Context) error
	UploadURL(ctx context.Context, bucketID string) (b2.UploadCredential, error)
	Upload(ctx context.Context, cred b2.UploadCredential, r b2.UploadRequest) error
}

// OpenSession authorizes against the storage service and allocates an
// upload endpoint for the bucket. Failure here is fatal to the stage;
// there is no retry.
func OpenSession(ctx context.Context, store Storage, bucketID string) (b2.UploadCredential, error) {
	if err := store.Authorize(ctx); err != nil {
		return b2.UploadCredential{}, fmt.Errorf("authorize: %w", err)
	}
	cred, err := store.UploadURL(ctx, bucketID)
	if err != nil {
		return b2.UploadCredential{}, fmt.Errorf("allocate upload endpoint: %w", err)
	}
	return cred, nil
}

// Options configures a Driver.
type Options struct {
	DestDir     string // root of the derivative tree
	ContentType string
}

// Driver uploads every manifest record, strictly one at a time. The
// storage service rejects concurrent uploads against a single
// URL/token pair, so each upload must complete before the next begins.
type Driver struct {
	store Storage
	cred  b2.UploadCredential
	opts  Options
}

// New creates a driver bound to one upload credential.
func New(store Storage, cred b2.UploadCredential, opts Options) *Driver {
	return &Driver{store: store, cred: cred, opts: opts}
}

// Run iterates the manifest in folder then file order and uploads each
// derivative with its dimensions as info headers. A failed upload is
// logged and the loop continues; the summary records the outcome per
// folder.
func (d *Driver) Run(ctx context.Context, m manifest.Manifest) Summary {
	var sum Summary
	for _, listing := range m {
		fs := FolderSummary{Folder: listing.Folder}
		for _, rec := range listing.Files {
			if err := d.uploadOne(ctx, listing.Folder, rec); err != nil {
				logger.Log.Error().Err(err).
					Str("folder", listing.Folder).
					Str("file", rec.File).
					Msg("upload failed")
				fs.Failed++
				continue
			}
			logger.Log.Debug().
				Str("folder", listing.Folder).
				Str("file", rec.File).
				Msg("uploaded")
			fs.Uploaded++
		}
		sum.Folders = append(sum.Folders, fs)
	}
	return sum
}

// uploadOne reads the derivative bytes from the mirrored destination
// path named by the manifest and pushes them under the key
// <folder>/<file>. The manifest is trusted; the tree is never relisted.
func (d *Driver) uploadOne(ctx context.Context, folder string, rec manifest.FileRecord) error {
	body, err := os.ReadFile(filepath.Join(d.opts.DestDir, folder, rec.File))
	if err != nil {
		return fmt.Errorf("read derivative: %w", err)
	}
	return d.store.Upload(ctx, d.cred, b2.UploadRequest{
		Name:        folder + "/" + rec.File,
		ContentType: d.opts.ContentType,
		Body:        body,
		Info: map[string]string{
			"width":  strconv.Itoa(rec.Width),
			"height": strconv.Itoa(rec.Height),
		},
	})
}

// Summary reports upload outcomes per folder.
type Summary struct {
	Folders []FolderSummary
}

// FolderSummary counts uploads within one folder.
type FolderSummary struct {
	Folder   string
	Uploaded int
	Failed   int
}

// Totals sums uploaded and failed counts across all folders.
func (s Summary) Totals() (uploaded, failed int) {
	for _, f := range s.Folders {
		uploaded += f.Uploaded
		failed += f.Failed
	}
	return uploaded, failed
}
