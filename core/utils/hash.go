package utils

import (
	"crypto/sha1"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
)

// Digests holds the cryptographic digests and byte count of a content
// stream. SHA1 and SHA512 are lowercase hex encoded, matching the Modrinth
// index format.
type Digests struct {
	SHA1   string
	SHA512 string
	Size   int64
}

// DigestWriter computes SHA-1 and SHA-512 digests and a byte count of
// everything written through it. It is used to hash a download while the
// bytes are streamed to disk, without buffering the file in memory.
type DigestWriter struct {
	sha1   hash.Hash
	sha512 hash.Hash
	size   int64
}

// NewDigestWriter creates a DigestWriter ready for use.
func NewDigestWriter() *DigestWriter {
	return &DigestWriter{
		sha1:   sha1.New(),
		sha512: sha512.New(),
	}
}

// Write implements io.Writer. It never fails.
func (w *DigestWriter) Write(p []byte) (int, error) {
	w.sha1.Write(p)
	w.sha512.Write(p)
	w.size += int64(len(p))
	return len(p), nil
}

// Sum returns the digests of everything written so far.
func (w *DigestWriter) Sum() Digests {
	return Digests{
		SHA1:   hex.EncodeToString(w.sha1.Sum(nil)),
		SHA512: hex.EncodeToString(w.sha512.Sum(nil)),
		Size:   w.size,
	}
}

// HashFile computes the digests of a local file.
func HashFile(path string) (Digests, error) {
	f, err := os.Open(path)
	if err != nil {
		return Digests{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	w := NewDigestWriter()
	if _, err := io.Copy(w, f); err != nil {
		return Digests{}, fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return w.Sum(), nil
}
