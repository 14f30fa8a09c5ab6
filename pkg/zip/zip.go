// Package zip bundles generated outputs into a single downloadable archive.
package zip

import (
	"archive/zip"
	"bytes"
)

// Asset is one file to include in the archive.
type Asset struct {
	Filename string
	Data     []byte
}

// ArchiveAssets writes all assets into an in-memory zip. Assets that cannot
// be added are skipped rather than aborting the archive.
func ArchiveAssets(assets []Asset) []byte {
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	for _, asset := range assets {
		w, err := zw.Create(asset.Filename)
		if err != nil {
			continue
		}
		_, _ = w.Write(asset.Data)
	}
	_ = zw.Close()
	return buf.Bytes()
}
