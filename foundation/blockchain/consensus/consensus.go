// Package consensus implements the proof of stake rules a block must satisfy
// before it can extend the chain.
package consensus

import (
	"bytes"
	"encoding/binary"
	"math/big"

	"github.com/libertyswede/nxtnode/foundation/blockchain/database"
	"github.com/libertyswede/nxtnode/foundation/blockchain/signature"
)

// two64 is the numerator of the difficulty of a block.
var two64 = new(big.Int).Lsh(big.NewInt(1), 64)

// BaseTarget sets the base target and cumulative difficulty of the current
// block from the previous block. A block without a previous block is the
// genesis block.
func BaseTarget(previous *database.Block, current *database.Block) {
	if previous == nil || current.PreviousBlockID == 0 {
		current.BaseTarget = database.InitialBaseTarget
		current.CumulativeDifficulty = new(big.Int)
		return
	}

	prev := previous.BaseTarget
	elapsed := int64(current.Timestamp - previous.Timestamp)

	target := new(big.Int).Mul(big.NewInt(prev), big.NewInt(elapsed))
	target.Quo(target, big.NewInt(60))

	var next int64
	switch {
	case !target.IsInt64() || target.Int64() < 0 || target.Int64() > database.MaxBaseTarget:
		next = database.MaxBaseTarget
	default:
		next = target.Int64()
	}

	if next < prev/2 {
		next = prev / 2
	}
	if next == 0 {
		next = 1
	}

	twofold := prev * 2
	if twofold < 0 {
		twofold = database.MaxBaseTarget
	}
	if next > twofold {
		next = twofold
	}

	cd := new(big.Int)
	if previous.CumulativeDifficulty != nil {
		cd.Set(previous.CumulativeDifficulty)
	}
	cd.Add(cd, new(big.Int).Quo(two64, big.NewInt(next)))

	current.BaseTarget = next
	current.CumulativeDifficulty = cd
}

// Hit reads the first 8 bytes of the hash as an unsigned little endian
// value.
func Hit(hash []byte) *big.Int {
	if len(hash) < 8 {
		return new(big.Int)
	}
	return new(big.Int).SetUint64(binary.LittleEndian.Uint64(hash[:8]))
}

// Target returns the value a generator's hit must stay below.
func Target(previous *database.Block, effectiveBalance int64, elapsed int32) *big.Int {
	target := new(big.Int).Mul(big.NewInt(previous.BaseTarget), big.NewInt(effectiveBalance))
	return target.Mul(target, big.NewInt(int64(elapsed)))
}

// VerifyGenerationSignature checks the generation signature chains from the
// previous block and that the generator's stake earned the right to forge
// after the elapsed time.
func VerifyGenerationSignature(block *database.Block, previous *database.Block, generator *database.Account) bool {
	if block.Version == 1 && !signature.Verify(block.GenerationSignature, previous.GenerationSignature, block.GeneratorPublicKey, false) {
		return false
	}

	var effectiveBalance int64
	if generator != nil {
		effectiveBalance = generator.EffectiveBalance()
	}
	if effectiveBalance <= 0 {
		return false
	}

	var hash []byte
	if block.Version == 1 {
		hash = signature.Hash(block.GenerationSignature)
	} else {
		hash = signature.Hash(previous.GenerationSignature, block.GeneratorPublicKey)
		if !bytes.Equal(block.GenerationSignature, hash) {
			return false
		}
	}

	target := Target(previous, effectiveBalance, block.Timestamp-previous.Timestamp)
	return Hit(hash).Cmp(target) < 0
}

// VerifyBlockSignature checks the block was signed by its generator and
// binds the generator key at the height.
func VerifyBlockSignature(block *database.Block, generator *database.Account, height int32) bool {
	if generator == nil {
		return false
	}

	data := block.Bytes()
	data = data[:len(data)-signature.SignatureLength]

	if !signature.Verify(block.BlockSignature, data, block.GeneratorPublicKey, block.Version >= 3) {
		return false
	}

	return generator.SetAndVerifyPublicKey(block.GeneratorPublicKey, height)
}

// GenerationSignature returns the generation signature a generator places in
// the block following the previous block.
func GenerationSignature(version int32, previous *database.Block, privateKey []byte) []byte {
	if version == 1 {
		return signature.Sign(previous.GenerationSignature, privateKey)
	}
	return signature.Hash(previous.GenerationSignature, signature.PublicKey(privateKey))
}
