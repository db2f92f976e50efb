package warp

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScrambleKnownBytes pins the transform to hand-computed values:
// key "C" normalizes to [8,32,130], content 0x41 scrambles to
// 73 (65+8), then the trailer zeros become 32, 130, and 8 as the
// phase wraps around.
func TestScrambleKnownBytes(t *testing.T) {
	key, err := DeriveKey("C")
	require.NoError(t, err)
	require.Equal(t, Key{8, 32, 130}, key)

	coder := New(key)
	got := coder.ScrambleBytes([]byte{0x41})
	assert.Equal(t, []byte{73, 32, 130, 8}, got)
}

func TestDescrambleKnownBytes(t *testing.T) {
	key, err := DeriveKey("C")
	require.NoError(t, err)

	coder := New(key)
	content, err := coder.DescrambleBytes([]byte{73, 32, 130, 8})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x41}, content)
}

func TestScrambleEmptyContent(t *testing.T) {
	key, err := DeriveKey("C")
	require.NoError(t, err)

	coder := New(key)
	artifact := coder.ScrambleBytes(nil)
	require.Len(t, artifact, 3)
	// The artifact is nothing but the scrambled trailer.
	assert.Equal(t, []byte{8, 32, 130}, artifact)

	content, err := coder.DescrambleBytes(artifact)
	require.NoError(t, err)
	assert.Empty(t, content)
}

// TestWindowSizeIndependence exercises the absolute-phase invariant:
// the window only bounds memory, so every window size must produce
// bit-identical output, including sizes that are not multiples of 3.
func TestWindowSizeIndependence(t *testing.T) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "cipher_test",
		Level: hclog.Warn,
	})

	rng := rand.New(rand.NewSource(3))
	content := make([]byte, 10000)
	rng.Read(content)

	key, err := DeriveKey("w1ndOw/Key+64")
	require.NoError(t, err)

	reference := New(key, WithLogger(logger)).ScrambleBytes(content)
	require.Len(t, reference, len(content)+3)

	for _, window := range []int{1, 2, 3, 4, 5, 7, 64, 1000, 4096, 1 << 20} {
		coder := New(key, WithWindowSize(window), WithLogger(logger))

		scrambled := coder.ScrambleBytes(content)
		assert.Equal(t, reference, scrambled, "window size %d", window)

		descrambled, err := coder.DescrambleBytes(reference)
		require.NoError(t, err, "window size %d", window)
		assert.Equal(t, content, descrambled, "window size %d", window)
	}
}

func TestRoundTripLengths(t *testing.T) {
	key, err := DeriveKey("Tr1p/Key")
	require.NoError(t, err)
	coder := New(key, WithWindowSize(4096))

	rng := rand.New(rand.NewSource(7))
	for _, n := range []int{0, 1, 2, 3, 4, 5, 1021, 4095, 4096, 4097, 100000} {
		content := make([]byte, n)
		rng.Read(content)

		artifact := coder.ScrambleBytes(content)
		require.Len(t, artifact, n+3, "content length %d", n)

		got, err := coder.DescrambleBytes(artifact)
		require.NoError(t, err, "content length %d", n)
		assert.True(t, bytes.Equal(content, got), "content length %d", n)
	}
}

func TestKeyEquivalentScrambles(t *testing.T) {
	// Keys that normalize identically must scramble identically.
	k1, err := DeriveKey("C")
	require.NoError(t, err)
	k2, err := DeriveKey("CCCC")
	require.NoError(t, err)
	require.Equal(t, k1, k2)

	rng := rand.New(rand.NewSource(11))
	content := make([]byte, 2048)
	rng.Read(content)

	assert.Equal(t,
		New(k1).ScrambleBytes(content),
		New(k2).ScrambleBytes(content))
}
