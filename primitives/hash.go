package primitives

import (
	"sync"

	"github.com/btcsuite/btcd/btcec/v2"
	sha256simd "github.com/minio/sha256-simd"
)

// Tag literals BIP-352 defines for its three tagged-hash families.
// Typed as constants so a call site can't typo a tag string the way a
// bare literal would allow.
const (
	TagInputs       = "BIP0352/Inputs"
	TagLabel        = "BIP0352/Label"
	TagSharedSecret = "BIP0352/SharedSecret"
)

// precomputed SHA256(tag) for the three tags above, the same caching
// trick BIP-340's reference implementation applies to its own tagged
// hashes.
var (
	tagHashInputs       [32]byte
	tagHashLabel        [32]byte
	tagHashSharedSecret [32]byte
	tagHashInitOnce     sync.Once
)

func initTagHashes() {
	tagHashInputs = sha256simd.Sum256([]byte(TagInputs))
	tagHashLabel = sha256simd.Sum256([]byte(TagLabel))
	tagHashSharedSecret = sha256simd.Sum256([]byte(TagSharedSecret))
}

func tagPrefix(tag string) [32]byte {
	tagHashInitOnce.Do(initTagHashes)
	switch tag {
	case TagInputs:
		return tagHashInputs
	case TagLabel:
		return tagHashLabel
	case TagSharedSecret:
		return tagHashSharedSecret
	default:
		return sha256simd.Sum256([]byte(tag))
	}
}

// TaggedHash computes SHA256(SHA256(tag) || SHA256(tag) || data...) as
// BIP-340 defines it, where data is the concatenation of parts in
// order.
func TaggedHash(tag string, parts ...[]byte) [32]byte {
	prefix := tagPrefix(tag)

	h := sha256simd.New()
	h.Write(prefix[:])
	h.Write(prefix[:])
	for _, part := range parts {
		h.Write(part)
	}

	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// TaggedHashScalar computes TaggedHash(tag, parts...) and reduces it modulo
// the group order n, surfacing ErrScalarOutOfRange both when the digest
// is >= n and when it reduces to zero - both are the ~2^-128 "overflow"
// case callers are expected to retry on.
func TaggedHashScalar(tag string, parts ...[]byte) (*Scalar, error) {
	digest := TaggedHash(tag, parts...)

	var inner btcec.ModNScalar
	overflow := inner.SetBytes(&digest)
	if overflow != 0 {
		return nil, &ScalarError{Err: ErrScalarOutOfRange}
	}
	if inner.IsZero() {
		return nil, &ScalarError{Err: ErrScalarZero}
	}
	return scalarFromModNScalar(inner), nil
}
