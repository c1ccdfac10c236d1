package cryptox

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var multihashCodes = map[Algorithm]uint64{
	SHA256:     multihash.SHA2_256,
	SHA3_256:   multihash.SHA3_256,
	BLAKE2b256: multihash.BLAKE2B_MIN + 31,
}

// ContentID wraps a hex digest produced by this hasher into a CIDv1 with the
// raw codec, so the same file can be located on content-addressed storage.
func (h *Hasher) ContentID(digestHex string) (string, error) {
	sum, err := hex.DecodeString(digestHex)
	if err != nil {
		return "", fmt.Errorf("content id: decode digest: %w", err)
	}

	code, ok := multihashCodes[h.alg]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, h.alg)
	}

	mh, err := multihash.Encode(sum, code)
	if err != nil {
		return "", fmt.Errorf("content id: %w", err)
	}
	return cid.NewCidV1(cid.Raw, mh).String(), nil
}
