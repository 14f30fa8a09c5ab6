package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveAssets(t *testing.T) {
	archive := ArchiveAssets([]Asset{
		{Filename: "gen-1-img-1.png", Data: []byte("first")},
		{Filename: "gen-1-img-2.png", Data: []byte("second")},
	})

	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("entries = %d, want 2", len(reader.File))
	}

	want := map[string]string{
		"gen-1-img-1.png": "first",
		"gen-1-img-2.png": "second",
	}
	for _, file := range reader.File {
		rc, err := file.Open()
		if err != nil {
			t.Fatalf("open %s: %v", file.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", file.Name, err)
		}
		if string(data) != want[file.Name] {
			t.Fatalf("%s = %q, want %q", file.Name, data, want[file.Name])
		}
	}
}

func TestArchiveAssetsEmpty(t *testing.T) {
	archive := ArchiveAssets(nil)
	reader, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	if len(reader.File) != 0 {
		t.Fatalf("entries = %d, want 0", len(reader.File))
	}
}
