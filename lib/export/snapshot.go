// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/docgraph-foundation/docgraph/lib/codec"
	"github.com/docgraph-foundation/docgraph/lib/document"
)

// snapshotMagic opens every snapshot. The trailing byte is the header
// format version.
var snapshotMagic = [8]byte{'D', 'G', 'S', 'N', 'A', 'P', 0, 1}

// CompressionTag identifies the algorithm applied to the snapshot
// payload. The tag is stored as one byte in the header; the values are
// format constants.
type CompressionTag uint8

const (
	// CompressionNone stores the payload uncompressed.
	CompressionNone CompressionTag = 0

	// CompressionLZ4 applies LZ4 block compression. Fast default.
	CompressionLZ4 CompressionTag = 1

	// CompressionZstd applies zstd at the default level. Better ratio
	// for the text-heavy payloads document graphs produce.
	CompressionZstd CompressionTag = 2
)

// String returns the tag's human-readable name.
func (tag CompressionTag) String() string {
	switch tag {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZstd:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", tag)
	}
}

// ParseCompressionTag parses a tag from its string form.
func ParseCompressionTag(name string) (CompressionTag, error) {
	switch name {
	case "none":
		return CompressionNone, nil
	case "lz4":
		return CompressionLZ4, nil
	case "zstd":
		return CompressionZstd, nil
	default:
		return 0, fmt.Errorf("unknown compression tag: %q", name)
	}
}

// zstdEncoder and zstdDecoder are reused across calls; both are safe
// for concurrent use.
var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	zstdEncoder, err = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic("export: zstd encoder initialization failed: " + err.Error())
	}
	zstdDecoder, err = zstd.NewReader(nil)
	if err != nil {
		panic("export: zstd decoder initialization failed: " + err.Error())
	}
}

// snapshotPayload is the CBOR body of a snapshot.
type snapshotPayload struct {
	Version int                `cbor:"version"`
	Records []*document.Record `cbor:"records"`
}

// WriteSnapshot serializes the store's whole arena behind a fixed
// header: magic, compression tag, uncompressed payload length, and the
// BLAKE3 digest of the uncompressed payload. Records are emitted in ID
// order, so equal arenas snapshot to equal bytes. A payload the chosen
// algorithm cannot shrink is stored uncompressed with the tag rewritten
// to none.
func WriteSnapshot(w io.Writer, store *document.Store, tag CompressionTag) error {
	payload := snapshotPayload{Version: ManifestVersion}
	for _, doc := range store.Documents() {
		payload.Records = append(payload.Records, document.RecordOf(doc))
	}
	raw, err := codec.Marshal(payload)
	if err != nil {
		return fmt.Errorf("export: encoding snapshot: %w", err)
	}
	digest := HashSnapshot(raw)

	body, tag, err := compress(raw, tag)
	if err != nil {
		return fmt.Errorf("export: compressing snapshot: %w", err)
	}

	header := make([]byte, 0, len(snapshotMagic)+1+8+len(digest))
	header = append(header, snapshotMagic[:]...)
	header = append(header, byte(tag))
	header = binary.BigEndian.AppendUint64(header, uint64(len(raw)))
	header = append(header, digest[:]...)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("export: writing snapshot header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("export: writing snapshot payload: %w", err)
	}
	return nil
}

// ReadSnapshot verifies a snapshot's integrity and installs its records
// into the store. Returns the number of records installed. A corrupt
// snapshot installs nothing.
func ReadSnapshot(r io.Reader, store *document.Store) (int, error) {
	header := make([]byte, len(snapshotMagic)+1+8+32)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, fmt.Errorf("export: reading snapshot header: %w", err)
	}
	if [8]byte(header[:8]) != snapshotMagic {
		return 0, fmt.Errorf("export: not a snapshot (bad magic)")
	}
	tag := CompressionTag(header[8])
	rawLength := binary.BigEndian.Uint64(header[9:17])
	var digest Digest
	copy(digest[:], header[17:49])

	body, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("export: reading snapshot payload: %w", err)
	}
	raw, err := decompress(body, tag, int(rawLength))
	if err != nil {
		return 0, fmt.Errorf("export: decompressing snapshot: %w", err)
	}
	if HashSnapshot(raw) != digest {
		return 0, fmt.Errorf("export: snapshot digest mismatch")
	}

	var payload snapshotPayload
	if err := codec.Unmarshal(raw, &payload); err != nil {
		return 0, fmt.Errorf("export: decoding snapshot: %w", err)
	}
	if payload.Version > ManifestVersion {
		return 0, fmt.Errorf("export: snapshot version %d is newer than supported %d",
			payload.Version, ManifestVersion)
	}
	for _, record := range payload.Records {
		store.Materialize(record)
	}
	return len(payload.Records), nil
}

func compress(raw []byte, tag CompressionTag) ([]byte, CompressionTag, error) {
	switch tag {
	case CompressionNone:
		return raw, tag, nil

	case CompressionLZ4:
		bound := lz4.CompressBlockBound(len(raw))
		destination := make([]byte, bound)
		written, err := lz4.CompressBlock(raw, destination, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("lz4 compress: %w", err)
		}
		// A zero result means the block was incompressible.
		if written == 0 || written >= len(raw) {
			return raw, CompressionNone, nil
		}
		return destination[:written], tag, nil

	case CompressionZstd:
		compressed := zstdEncoder.EncodeAll(raw, nil)
		if len(compressed) >= len(raw) {
			return raw, CompressionNone, nil
		}
		return compressed, tag, nil

	default:
		return nil, 0, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}

func decompress(body []byte, tag CompressionTag, rawLength int) ([]byte, error) {
	switch tag {
	case CompressionNone:
		if len(body) != rawLength {
			return nil, fmt.Errorf("uncompressed payload is %d bytes, header says %d",
				len(body), rawLength)
		}
		return body, nil

	case CompressionLZ4:
		destination := make([]byte, rawLength)
		read, err := lz4.UncompressBlock(body, destination)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		if read != rawLength {
			return nil, fmt.Errorf("lz4 decompress: got %d bytes, expected %d", read, rawLength)
		}
		return destination, nil

	case CompressionZstd:
		result, err := zstdDecoder.DecodeAll(body, make([]byte, 0, rawLength))
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}
		if len(result) != rawLength {
			return nil, fmt.Errorf("zstd decompress: got %d bytes, expected %d", len(result), rawLength)
		}
		return result, nil

	default:
		return nil, fmt.Errorf("unsupported compression tag: %d", tag)
	}
}
