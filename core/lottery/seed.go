package lottery

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/sha3"
)

// SeedSource supplies entropy for a single draw.
type SeedSource interface {
	NextSeed() []byte
}

// StateSeed derives seeds from the hash of the last committed state and a
// persisted nonce (the tx count), so seeds do not repeat across restarts. Every
// caller can read both inputs. It is predictable and must be replaced by a VRF
// or oracle backed source wherever fairness matters.
type StateSeed struct {
	hash    func() []byte
	nonce   func() uint64
	counter uint64
	lock    sync.Mutex
}

func NewStateSeed(hash func() []byte, nonce func() uint64) *StateSeed {
	return &StateSeed{hash: hash, nonce: nonce}
}

func (s *StateSeed) NextSeed() []byte {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.counter++
	input := make([]byte, 16)
	binary.BigEndian.PutUint64(input[:8], s.nonce())
	binary.BigEndian.PutUint64(input[8:], s.counter)

	return keccak256(s.hash(), input)
}

// RandomSeed reads seeds from the operating system CSPRNG.
type RandomSeed struct{}

func (RandomSeed) NextSeed() []byte {
	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		panic(err)
	}

	return seed
}

// FixedSeed always returns the same seed.
type FixedSeed []byte

func (s FixedSeed) NextSeed() []byte {
	seed := make([]byte, len(s))
	copy(seed, s)
	return seed
}

func keccak256(data ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range data {
		hasher.Write(b)
	}

	return hasher.Sum(nil)
}
