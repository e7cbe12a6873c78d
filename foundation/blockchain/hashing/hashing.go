// Package hashing provides the content hashing used to link and mine blocks.
package hashing

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ZeroHash represents a hash code of zeros.
const ZeroHash string = "0x0000000000000000000000000000000000000000000000000000000000000000"

// Size is the number of bytes in a digest.
const Size = sha256.Size

// =============================================================================

// Sum returns the SHA-256 digest of the canonical encoding of the value. The
// canonical encoding is the JSON form of the value, which is stable for
// structs since fields are always written in declaration order.
//
// A value that can't be encoded is a programming error and Sum panics.
func Sum(value any) [Size]byte {
	data, err := json.Marshal(value)
	if err != nil {
		panic(fmt.Sprintf("hashing: unable to encode %T: %s", value, err))
	}

	return sha256.Sum256(data)
}

// Hash returns a unique string for the value.
func Hash(value any) string {
	digest := Sum(value)
	return ToHex(digest)
}

// ToHex converts a digest into its 0x prefixed hex form.
func ToHex(digest [Size]byte) string {
	return hexutil.Encode(digest[:])
}

// FromHex converts a 0x prefixed hex string back into a digest.
func FromHex(hash string) ([Size]byte, error) {
	var digest [Size]byte

	data, err := hexutil.Decode(hash)
	if err != nil {
		return digest, fmt.Errorf("decoding hash %q: %w", hash, err)
	}

	if len(data) != Size {
		return digest, fmt.Errorf("hash %q has %d bytes, exp %d", hash, len(data), Size)
	}

	copy(digest[:], data)
	return digest, nil
}
