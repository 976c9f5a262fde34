// Package signature provides helper functions for handling the blockchain
// signature and hashing needs.
package signature

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Sizes of the values the signature scheme works with.
const (
	PublicKeyLength = ed25519.PublicKeySize
	SignatureLength = ed25519.SignatureSize
	HashLength      = sha256.Size
)

var (
	// fieldPrime is 2^255 - 19, public keys must encode a y coordinate below it.
	fieldPrime = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))

	// groupOrder is the order of the base point, S must be below it.
	groupOrder, _ = new(big.Int).SetString("7237005577332262213973186563042994240857116359379907606001950938285454250989", 10)
)

// =============================================================================

// Hash returns the sha256 of the concatenation of the specified values.
func Hash(values ...[]byte) []byte {
	h := sha256.New()
	for _, v := range values {
		h.Write(v)
	}
	return h.Sum(nil)
}

// Hasher accumulates data for a rolling sha256 hash.
type Hasher struct {
	h hash.Hash
}

// NewHasher constructs a hasher ready to accept data.
func NewHasher() *Hasher {
	return &Hasher{h: sha256.New()}
}

// Write adds the data to the running hash.
func (h *Hasher) Write(data []byte) {
	h.h.Write(data)
}

// Sum returns the hash of all the data written so far.
func (h *Hasher) Sum() []byte {
	return h.h.Sum(nil)
}

// ToID converts the first 8 bytes of a hash into an identifier. The bytes
// are read little endian.
func ToID(hash []byte) int64 {
	if len(hash) < 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(hash[:8]))
}

// AccountID derives the account identifier owned by the public key.
func AccountID(publicKey []byte) int64 {
	return ToID(Hash(publicKey))
}

// =============================================================================

// KeyFromSeed derives the private key for a secret phrase.
func KeyFromSeed(secret string) ed25519.PrivateKey {
	seed := sha256.Sum256([]byte(secret))
	return ed25519.NewKeyFromSeed(seed[:])
}

// PublicKey returns the public key bytes for the private key.
func PublicKey(privateKey ed25519.PrivateKey) []byte {
	return []byte(privateKey.Public().(ed25519.PublicKey))
}

// Sign uses the specified private key to sign the message.
func Sign(message []byte, privateKey ed25519.PrivateKey) []byte {
	return ed25519.Sign(privateKey, message)
}

// Verify checks the signature was produced over the message by the owner of
// the public key. When canonical encodings are enforced, both the key and the
// signature must be in their canonical form.
func Verify(sig []byte, message []byte, publicKey []byte, enforceCanonical bool) bool {
	if len(sig) != SignatureLength || len(publicKey) != PublicKeyLength {
		return false
	}

	if enforceCanonical {
		if !IsCanonicalPublicKey(publicKey) || !IsCanonicalSignature(sig) {
			return false
		}
	}

	return ed25519.Verify(ed25519.PublicKey(publicKey), message, sig)
}

// IsCanonicalPublicKey reports whether the key encodes a y coordinate
// that is reduced modulo the field prime.
func IsCanonicalPublicKey(publicKey []byte) bool {
	if len(publicKey) != PublicKeyLength {
		return false
	}

	y := littleEndianInt(publicKey)
	y.SetBit(y, 255, 0)

	return y.Cmp(fieldPrime) < 0
}

// IsCanonicalSignature reports whether the S half of the signature is
// reduced modulo the group order.
func IsCanonicalSignature(sig []byte) bool {
	if len(sig) != SignatureLength {
		return false
	}

	s := littleEndianInt(sig[32:])
	return s.Cmp(groupOrder) < 0
}

// Encode returns the hex form of the bytes used in logs and the api.
func Encode(b []byte) string {
	return hexutil.Encode(b)
}

// littleEndianInt reads the bytes as an unsigned little endian integer.
func littleEndianInt(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
