package integrity

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"strings"
)

// Checksum represents a single checksum of an asset for a specific algorithm.
// It doesn't contain the size of the contents.
type Checksum struct {
	Algorithm Algorithm
	Hash      []byte
}

// ChecksumFromSRI parses a subresource integrity string of the form
// "<algorithm>-<base64 hash>", as it appears in integrity attributes
// and import map integrity sections.
func ChecksumFromSRI(integrity string) (Checksum, error) {
	var checksum Checksum
	if len(integrity) < 7 {
		return checksum, fmt.Errorf("malformed sri string %q", integrity)
	}
	switch integrity[:7] {
	case "sha256-":
		checksum.Algorithm = SHA256
	case "sha384-":
		checksum.Algorithm = SHA384
	case "sha512-":
		checksum.Algorithm = SHA512
	default:
		return checksum, fmt.Errorf("unsupported algorithm in sri: %s", integrity)
	}

	hash, err := base64.StdEncoding.DecodeString(integrity[7:])
	if err != nil {
		return checksum, fmt.Errorf("failed to decode sri hash from base64 in %q: %w", integrity, err)
	}
	if len(hash) != checksum.Algorithm.SizeBytes() {
		return checksum, fmt.Errorf("unexpected hash size in sri %q: got %d, want %d", integrity, len(hash), checksum.Algorithm.SizeBytes())
	}
	checksum.Hash = hash
	return checksum, nil
}

// Sum computes the checksum of data with the given algorithm.
func Sum(algorithm Algorithm, data []byte) Checksum {
	hasher := algorithm.Hasher()
	hasher.Write(data)
	return Checksum{Algorithm: algorithm, Hash: hasher.Sum(nil)}
}

func (c Checksum) ToSRI() string {
	return fmt.Sprintf("%s-%s", c.Algorithm.String(), base64.StdEncoding.EncodeToString(c.Hash))
}

// ETag renders the checksum as a strong HTTP entity tag.
func (c Checksum) ETag() string {
	return `"` + c.ToSRI() + `"`
}

func (c Checksum) Equals(other Checksum) bool {
	return c.Algorithm == other.Algorithm && len(c.Hash) > 0 && len(other.Hash) > 0 && bytes.Equal(c.Hash, other.Hash)
}

// Empty returns true if the checksum is empty.
func (c Checksum) Empty() bool {
	return len(c.Hash) == 0
}

type Algorithm struct{ name string }

func (a Algorithm) String() string { return a.name }

func AlgorithmFromString(name string) (Algorithm, bool) {
	name = strings.ToLower(name)
	switch name {
	case "sha256":
		return SHA256, true
	case "sha384":
		return SHA384, true
	case "sha512":
		return SHA512, true
	}
	return Algorithm{}, false
}

func (a Algorithm) SizeBytes() int {
	switch a {
	case SHA256:
		return 32
	case SHA384:
		return 48
	case SHA512:
		return 64
	}
	// Should be unreachable.
	panic("unsupported algorithm")
}

// Hasher returns a fresh hash state for the algorithm.
func (a Algorithm) Hasher() hash.Hash {
	switch a {
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	}
	// Should be unreachable.
	panic("unsupported algorithm")
}

var (
	SHA256          Algorithm = Algorithm{"sha256"}
	SHA384          Algorithm = Algorithm{"sha384"}
	SHA512          Algorithm = Algorithm{"sha512"}
	KnownAlgorithms           = []Algorithm{SHA256, SHA384, SHA512}
)
