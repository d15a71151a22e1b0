// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/flate"

	"github.com/docgraph-foundation/docgraph/lib/document"
	"github.com/docgraph-foundation/docgraph/lib/ref"
)

// ManifestVersion is the archive format version written to new
// manifests. Readers reject manifests with a newer version.
const ManifestVersion = 1

// manifestName is the well-known manifest entry inside an archive.
const manifestName = "manifest.json"

// Manifest names the archive's root document and every record it
// carries.
type Manifest struct {
	Version int             `json:"version"`
	Root    ref.DocumentID  `json:"root"`
	Records []ManifestEntry `json:"records"`
}

// ManifestEntry describes one record file in the archive.
type ManifestEntry struct {
	ID       ref.DocumentID `json:"id"`
	File     string         `json:"file"`
	Checksum string         `json:"checksum"`
}

// Zip writes the graph reachable from root as an archive: one JSON
// record per document plus a manifest with a BLAKE3 checksum per
// record. The walk is the clone engine's dry run, so the arena is not
// mutated and the closure matches what a clone of root would cover.
func Zip(w io.Writer, store *document.Store, root *document.Document) error {
	closure := store.CloneMapOf(root)
	ids := make([]ref.DocumentID, 0, len(closure))
	for id := range closure {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	archive := zip.NewWriter(w)
	archive.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.DefaultCompression)
	})

	manifest := Manifest{Version: ManifestVersion, Root: root.ID()}
	for _, id := range ids {
		record := document.RecordOf(closure[id])
		data, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("export: serializing record %s: %w", id, err)
		}
		name := id.String() + ".json"
		entry, err := archive.Create(name)
		if err != nil {
			return fmt.Errorf("export: creating archive entry %s: %w", name, err)
		}
		if _, err := entry.Write(data); err != nil {
			return fmt.Errorf("export: writing archive entry %s: %w", name, err)
		}
		manifest.Records = append(manifest.Records, ManifestEntry{
			ID:       id,
			File:     name,
			Checksum: FormatDigest(HashRecord(data)),
		})
	}

	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("export: serializing manifest: %w", err)
	}
	entry, err := archive.Create(manifestName)
	if err != nil {
		return fmt.Errorf("export: creating manifest entry: %w", err)
	}
	if _, err := entry.Write(manifestData); err != nil {
		return fmt.Errorf("export: writing manifest: %w", err)
	}
	if err := archive.Close(); err != nil {
		return fmt.Errorf("export: finalizing archive: %w", err)
	}
	return nil
}

// ReadArchive parses an archive, verifies every record against its
// manifest checksum, and returns the manifest plus the records in
// manifest order. A checksum mismatch or a record the manifest does not
// name is an error; nothing is installed anywhere.
func ReadArchive(r io.ReaderAt, size int64) (*Manifest, []*document.Record, error) {
	archive, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, fmt.Errorf("export: opening archive: %w", err)
	}
	archive.RegisterDecompressor(zip.Deflate, func(in io.Reader) io.ReadCloser {
		return flate.NewReader(in)
	})

	files := make(map[string]*zip.File, len(archive.File))
	for _, file := range archive.File {
		files[file.Name] = file
	}

	manifestFile, ok := files[manifestName]
	if !ok {
		return nil, nil, fmt.Errorf("export: archive has no %s", manifestName)
	}
	manifestData, err := readEntry(manifestFile)
	if err != nil {
		return nil, nil, err
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestData, &manifest); err != nil {
		return nil, nil, fmt.Errorf("export: parsing manifest: %w", err)
	}
	if manifest.Version > ManifestVersion {
		return nil, nil, fmt.Errorf("export: manifest version %d is newer than supported %d",
			manifest.Version, ManifestVersion)
	}

	records := make([]*document.Record, 0, len(manifest.Records))
	for _, entry := range manifest.Records {
		file, ok := files[entry.File]
		if !ok {
			return nil, nil, fmt.Errorf("export: manifest names missing file %s", entry.File)
		}
		data, err := readEntry(file)
		if err != nil {
			return nil, nil, err
		}
		want, err := ParseDigest(entry.Checksum)
		if err != nil {
			return nil, nil, fmt.Errorf("export: manifest checksum for %s: %w", entry.File, err)
		}
		if got := HashRecord(data); got != want {
			return nil, nil, fmt.Errorf("export: checksum mismatch for %s", entry.File)
		}
		var record document.Record
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, nil, fmt.Errorf("export: parsing record %s: %w", entry.File, err)
		}
		if record.ID != entry.ID {
			return nil, nil, fmt.Errorf("export: record %s carries ID %s, manifest says %s",
				entry.File, record.ID, entry.ID)
		}
		records = append(records, &record)
	}
	return &manifest, records, nil
}

// Import installs an archive's records into the store and returns the
// root document.
func Import(store *document.Store, r io.ReaderAt, size int64) (*document.Document, error) {
	manifest, records, err := ReadArchive(r, size)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		store.Materialize(record)
	}
	root, err := store.Lookup(manifest.Root)
	if err != nil {
		return nil, fmt.Errorf("export: archive root %s missing from its own records: %w",
			manifest.Root, err)
	}
	return root, nil
}

func readEntry(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("export: opening %s: %w", file.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("export: reading %s: %w", file.Name, err)
	}
	return data, nil
}
