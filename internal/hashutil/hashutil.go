// Package hashutil provides the two pure hashing primitives lit's object
// store is built on: SHA-1 identity hashes for commits/branches and CRC-32
// fingerprints for diffs.
package hashutil

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"hash/crc32"
	"strconv"
)

// Sha1 is a fixed 20-byte SHA-1 digest.
type Sha1 [sha1.Size]byte

// Crc32 is a 32-bit unsigned CRC-32/IEEE checksum.
type Crc32 uint32

// ComputeSha1 hashes an arbitrary byte sequence.
func ComputeSha1(data []byte) Sha1 {
	return Sha1(sha1.Sum(data))
}

// ComputeCrc32 hashes an arbitrary byte sequence using the IEEE
// polynomial, the same checksum gitp4transfer uses for blob
// fingerprints.
func ComputeCrc32(data []byte) Crc32 {
	return Crc32(crc32.ChecksumIEEE(data))
}

// Hex lowercase-encodes a Sha1 to 40 hex characters.
func (h Sha1) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Sha1) String() string { return h.Hex() }

// IsZero reports whether h is the zero-value hash (never a real digest).
func (h Sha1) IsZero() bool {
	return h == Sha1{}
}

// Sha1FromHex decodes exactly 40 hex characters (either case) into a Sha1.
// Any other length, or any non-hex character, is an error.
func Sha1FromHex(s string) (Sha1, error) {
	var h Sha1
	if len(s) != sha1.Size*2 {
		return h, fmt.Errorf("hashutil: sha1 hex must be %d characters, got %d", sha1.Size*2, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("hashutil: invalid sha1 hex %q: %w", s, err)
	}
	copy(h[:], b)
	return h, nil
}

// Decimal renders a Crc32 the historical way lit's object store does: a
// decimal string zero-padded to at least 4 digits (for fan-out), despite
// the on-disk field historically being called "hex". Fan-out directories
// are built from this decimal string's own prefix (see
// objstore.DiffFanoutPath), not from true hex digits.
func (c Crc32) Decimal() string {
	return fmt.Sprintf("%04d", uint32(c))
}

// Crc32FromDecimal parses the decimal encoding produced by Decimal.
func Crc32FromDecimal(s string) (Crc32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("hashutil: invalid crc32 decimal %q: %w", s, err)
	}
	return Crc32(v), nil
}
