// Package entropy provides the random source shared by spread rolls, event
// checks and intervention sampling. A seeded source replays a session
// exactly; the crypto source is used when no seed is configured.
package entropy

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	mrand "math/rand/v2"
)

// Source is the only randomness the simulation consumes.
type Source interface {
	// Float64 returns a uniform value in [0, 1).
	Float64() float64
	// IntN returns a uniform value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewSeeded returns a deterministic PCG source. Equal seeds yield equal
// sequences on every platform.
func NewSeeded(seed int64) Source {
	// Non-cryptographic PRNG is intentional for deterministic replays.
	// #nosec G404
	return mrand.New(mrand.NewPCG(seedWord(seed, "a"), seedWord(seed, "b")))
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(fmt.Sprintf("%d:%s", seed, salt)))
	return h.Sum64()
}

// Crypto is a non-replayable source backed by crypto/rand.
type Crypto struct{}

// Float64 implements Source.
func (Crypto) Float64() float64 {
	return cryptoRandFloat()
}

// IntN implements Source.
func (Crypto) IntN(n int) int {
	if n <= 0 {
		panic("entropy: IntN called with n <= 0")
	}
	return int(cryptoRandFloat() * float64(n))
}

// cryptoRandFloat generates a random float64 using crypto/rand.
func cryptoRandFloat() float64 {
	var buf [8]byte
	_, err := rand.Read(buf[:])
	if err != nil {
		// This should never happen but return 0.5 as a safe default.
		return 0.5
	}
	// Use only 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Sequence replays a fixed list of floats, cycling when exhausted. It lets
// tests force rolls: a Sequence of 0 triggers every Bernoulli check.
type Sequence struct {
	Values []float64
	next   int
}

// Fixed returns a Sequence over vals. With no values it always yields 0.
func Fixed(vals ...float64) *Sequence {
	return &Sequence{Values: vals}
}

// Float64 implements Source.
func (s *Sequence) Float64() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	v := s.Values[s.next%len(s.Values)]
	s.next++
	return v
}

// IntN implements Source by scaling the next float into [0, n).
func (s *Sequence) IntN(n int) int {
	if n <= 0 {
		panic("entropy: IntN called with n <= 0")
	}
	return min(int(s.Float64()*float64(n)), n-1)
}
