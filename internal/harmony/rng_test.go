package harmony

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRandDeterministic(t *testing.T) {
	a := NewRand(12345)
	b := NewRand(12345)

	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Next(), b.Next(), "draw %d diverged", i)
	}
}

func TestRandRange(t *testing.T) {
	r := NewRand(1)
	for i := 0; i < 1000; i++ {
		v := r.Next()
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestRandSeedsDiverge(t *testing.T) {
	a := NewRand(1)
	b := NewRand(2)
	assert.NotEqual(t, a.Next(), b.Next())
}

func TestSeedFor(t *testing.T) {
	// Single byte, no instruments: the hash is the byte value itself.
	assert.Equal(t, uint32(97), SeedFor([]byte("a"), nil))

	content := []byte("<score-partwise/>")
	s1 := SeedFor(content, []string{"Violin", "Cello"})
	s2 := SeedFor(content, []string{"Violin", "Cello"})
	assert.Equal(t, s1, s2)

	// Instrument names feed the hash.
	s3 := SeedFor(content, []string{"Violin", "Viola"})
	assert.NotEqual(t, s1, s3)

	// Instrument bytes are hashed in order, exactly as if concatenated
	// onto the content.
	assert.Equal(t,
		SeedFor([]byte("xyAB"), nil),
		SeedFor([]byte("xy"), []string{"A", "B"}))
}
