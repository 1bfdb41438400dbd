package delivery

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io/fs"

	"adapterforge/internal/gateway/repository/archive"
	"adapterforge/internal/generator"
)

const archiveName = "adapter.zip"

// ZipDeliverer packs the tree into a zip archive, stashes it in the
// archive store and returns a time-limited download locator. Requires no
// credential: a validated answer set and a completed tree are enough.
type ZipDeliverer struct {
	store archive.Store
	// downloadBase prefixes gateway-served download paths for stores
	// that cannot presign, e.g. "/download".
	downloadBase string
}

func NewZipDeliverer(store archive.Store, downloadBase string) *ZipDeliverer {
	if downloadBase == "" {
		downloadBase = "/download"
	}
	return &ZipDeliverer{store: store, downloadBase: downloadBase}
}

func (d *ZipDeliverer) Authorize(context.Context) error {
	return nil
}

func (d *ZipDeliverer) Deliver(ctx context.Context, runID string, tree *generator.Tree) (string, error) {
	if tree == nil || tree.Len() == 0 {
		return "", fmt.Errorf("nothing to archive")
	}
	blob, err := Pack(tree)
	if err != nil {
		return "", fmt.Errorf("pack archive: %w", err)
	}
	if err := d.store.Put(ctx, runID, archiveName, blob); err != nil {
		return "", fmt.Errorf("store archive: %w", err)
	}
	url, err := d.store.GetURL(ctx, runID, archiveName)
	if err != nil {
		return "", fmt.Errorf("resolve download url: %w", err)
	}
	if url == "" {
		url = d.downloadBase + "/" + runID + "/" + archiveName
	}
	return url, nil
}

// Pack serializes the tree into a zip blob. Files are written in tree
// (path) order with zeroed timestamps, keeping the archive byte-identical
// for identical trees.
func Pack(tree *generator.Tree) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for _, f := range tree.Files() {
		hdr := &zip.FileHeader{
			Name:   f.Path,
			Method: zip.Deflate,
		}
		mode := fs.FileMode(0o644)
		if f.Executable {
			mode = 0o755
		}
		hdr.SetMode(mode)
		fw, err := w.CreateHeader(hdr)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(f.Content); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
