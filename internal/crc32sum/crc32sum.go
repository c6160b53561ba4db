// Package crc32sum computes the CRC32 fingerprints used to identify ROM
// images in the cartridge database.
package crc32sum

import (
	"fmt"
	"hash"
	"hash/crc32"
	"io"
)

// readSize bounds how much of a stream is held in memory while summing.
const readSize = 65536

// Digest accumulates a CRC32 (IEEE polynomial) checksum over written bytes.
type Digest struct {
	h hash.Hash32
}

// New creates an empty Digest.
func New() *Digest {
	return &Digest{h: crc32.NewIEEE()}
}

// Write adds p to the running checksum.
func (d *Digest) Write(p []byte) (int, error) {
	return d.h.Write(p) //nolint:wrapcheck // hash writes never fail
}

// Hex returns the checksum in canonical form: eight uppercase hex digits,
// zero padded. Database keys use the same form.
func (d *Digest) Hex() string {
	return fmt.Sprintf("%08X", d.h.Sum32())
}

// Sum streams r to completion and returns the canonical checksum of
// everything read.
func Sum(r io.Reader) (string, error) {
	d := New()
	buf := make([]byte, readSize)
	if _, err := io.CopyBuffer(d, r, buf); err != nil {
		return "", fmt.Errorf("checksum stream: %w", err)
	}
	return d.Hex(), nil
}
