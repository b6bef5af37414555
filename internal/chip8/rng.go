package chip8

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
	mrand "math/rand"
)

// newRandSource builds the PRNG source backing Cxkk. Determinism for
// tests is a hard requirement of the fake-seed branch (spec.md §4.2),
// so useTrue=false always yields the same sequence for a given seed.
// No third-party PRNG is pulled in here: none of the five complete
// example repos (or the pack's other_examples) import one for Go; see
// DESIGN.md.
func newRandSource(useTrue bool, fakeSeed uint64) mrand.Source {
	if !useTrue {
		return mrand.NewSource(int64(fakeSeed))
	}

	n, err := rand.Int(rand.Reader, big.NewInt(0).SetUint64(^uint64(0)))
	if err != nil {
		var buf [8]byte
		_, _ = rand.Read(buf[:])
		return mrand.NewSource(int64(binary.BigEndian.Uint64(buf[:])))
	}
	return mrand.NewSource(n.Int64())
}
