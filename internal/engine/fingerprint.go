package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/cespare/xxhash/v2"
)

const (
	// Files at or above this size are fingerprinted from their head and tail
	// only, so very large media files never force a full read.
	partialThreshold = 100 * 1024 * 1024

	// Bytes hashed from each end of a large file.
	partialChunkSize = 5 * 1024 * 1024
)

// FingerprintMethod records how a fingerprint was derived.
type FingerprintMethod int

const (
	MethodFull FingerprintMethod = iota
	MethodPartial
)

func (m FingerprintMethod) String() string {
	if m == MethodPartial {
		return "partial"
	}
	return "full"
}

// Fingerprint is a content-derived identity for a file. Two files with equal
// fingerprints are treated as identical content and only one is ever copied.
type Fingerprint struct {
	Sum    string
	Method FingerprintMethod
}

// String returns the ledger form of the fingerprint. The method tag keeps
// full and partial sums from ever colliding with each other.
func (fp Fingerprint) String() string {
	if fp.Method == MethodPartial {
		return fp.Sum + "_partial_xxh64"
	}
	return fp.Sum + "_xxh64"
}

// FingerprintFile computes the fingerprint of the file at path. Files under
// 100 MiB are hashed whole; larger files are hashed from their first and last
// 5 MiB only. The partial mode trades collision risk for speed: two distinct
// large files with identical head, tail, and length would collide, which is
// acceptable for dedup (not integrity).
func FingerprintFile(path string, size int64) (Fingerprint, error) {
	return fingerprintFile(path, size, partialThreshold, partialChunkSize)
}

func fingerprintFile(path string, size, threshold, chunk int64) (Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := xxhash.New()

	if size < threshold {
		if _, err := io.Copy(h, f); err != nil {
			return Fingerprint{}, fmt.Errorf("hash %s: %w", path, err)
		}
		return Fingerprint{Sum: hexSum(h.Sum64()), Method: MethodFull}, nil
	}

	if _, err := io.CopyN(h, f, chunk); err != nil {
		return Fingerprint{}, fmt.Errorf("hash head of %s: %w", path, err)
	}
	if _, err := f.Seek(-chunk, io.SeekEnd); err != nil {
		return Fingerprint{}, fmt.Errorf("seek tail of %s: %w", path, err)
	}
	if _, err := io.Copy(h, f); err != nil {
		return Fingerprint{}, fmt.Errorf("hash tail of %s: %w", path, err)
	}
	return Fingerprint{Sum: hexSum(h.Sum64()), Method: MethodPartial}, nil
}

func hexSum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}
