// Package cryptox computes content digests for documents before they leave
// the client, so the proof shown to the user does not depend on trusting
// the anchoring service.
package cryptox

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a 256-bit digest function.
type Algorithm string

const (
	SHA256     Algorithm = "sha256"
	SHA3_256   Algorithm = "sha3-256"
	BLAKE2b256 Algorithm = "blake2b-256"
)

var ErrUnsupportedAlgorithm = errors.New("unsupported digest algorithm")

func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case "":
		return SHA256, nil
	case SHA256, SHA3_256, BLAKE2b256:
		return a, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, s)
	}
}

// Hasher produces lowercase hex digests. It is stateless and safe for
// concurrent use.
type Hasher struct {
	alg Algorithm
}

func NewHasher(alg Algorithm) (*Hasher, error) {
	if _, err := newHash(alg); err != nil {
		return nil, err
	}
	return &Hasher{alg: alg}, nil
}

func (h *Hasher) Algorithm() Algorithm { return h.alg }

// Digest reads r to EOF and returns the hex digest of everything read.
// A read failure returns an error; a partial digest is never returned.
func (h *Hasher) Digest(r io.Reader) (string, error) {
	sum, err := h.sum(r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum), nil
}

func (h *Hasher) DigestBytes(b []byte) (string, error) {
	return h.Digest(bytes.NewReader(b))
}

func (h *Hasher) sum(r io.Reader) ([]byte, error) {
	hh, err := newHash(h.alg)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(hh, r); err != nil {
		return nil, fmt.Errorf("digest: read content: %w", err)
	}
	return hh.Sum(nil), nil
}

func newHash(alg Algorithm) (hash.Hash, error) {
	switch alg {
	case SHA256:
		return sha256.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case BLAKE2b256:
		return blake2b.New256(nil)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
	}
}
