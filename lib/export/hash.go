// Copyright 2026 The Docgraph Authors
// SPDX-License-Identifier: Apache-2.0

package export

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// domainKey is a 32-byte key for BLAKE3 keyed hashing. Domain
// separation ensures the same bytes digest differently in different
// contexts, so a record checksum can never be confused with a snapshot
// digest.
type domainKey [32]byte

// Domain separation keys. These are format constants — changing them
// invalidates every existing archive and snapshot. The byte values are
// the ASCII encoding of the domain name, zero-padded to 32 bytes, so
// the keys stay readable in hex dumps.
var (
	recordDomainKey = domainKey{
		'd', 'o', 'c', 'g', 'r', 'a', 'p', 'h', '.', 'e', 'x', 'p', 'o', 'r', 't', '.',
		'r', 'e', 'c', 'o', 'r', 'd', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}

	snapshotDomainKey = domainKey{
		'd', 'o', 'c', 'g', 'r', 'a', 'p', 'h', '.', 'e', 'x', 'p', 'o', 'r', 't', '.',
		's', 'n', 'a', 'p', 's', 'h', 'o', 't', 0, 0, 0, 0, 0, 0, 0, 0,
	}
)

// HashRecord computes the record-domain digest of a serialized record.
// This is the checksum stored per record in the archive manifest.
func HashRecord(data []byte) Digest {
	return keyedHash(recordDomainKey, data)
}

// HashSnapshot computes the snapshot-domain digest of an uncompressed
// snapshot payload.
func HashSnapshot(data []byte) Digest {
	return keyedHash(snapshotDomainKey, data)
}

// FormatDigest returns the hex encoding used in manifests and CLI
// output.
func FormatDigest(digest Digest) string {
	return hex.EncodeToString(digest[:])
}

// ParseDigest parses a 64-character hex string into a Digest.
func ParseDigest(hexString string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(hexString)
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != 32 {
		return digest, fmt.Errorf("digest is %d bytes, want 32", len(decoded))
	}
	copy(digest[:], decoded)
	return digest, nil
}

func keyedHash(key domainKey, data []byte) Digest {
	// NewKeyed only fails for a wrong key length, which domainKey rules
	// out.
	hasher, err := blake3.NewKeyed(key[:])
	if err != nil {
		panic("export: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}
