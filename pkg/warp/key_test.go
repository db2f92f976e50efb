package warp

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	testCases := []struct {
		name string
		raw  string
		want Key
	}{
		{
			name: "single character C",
			raw:  "C",
			want: Key{8, 32, 130},
		},
		{
			name: "four copies of C",
			raw:  "CCCC",
			want: Key{8, 32, 130},
		},
		{
			name: "all-zero fold gets fixed replacements",
			raw:  "A",
			want: Key{1, 2, 4},
		},
		{
			name: "AAAA folds to zero too",
			raw:  "AAAA",
			want: Key{1, 2, 4},
		},
		{
			name: "plus sign",
			raw:  "+",
			want: Key{251, 239, 190},
		},
		{
			name: "two characters extend cyclically",
			raw:  "AB",
			want: Key{1, 16, 1},
		},
		{
			name: "doubled segment cancels to zero fold",
			raw:  "ABCDABCD",
			want: Key{1, 2, 4},
		},
		{
			name: "five characters use leading extension",
			raw:  "AAAAB",
			want: Key{4, 2, 4},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DeriveKey(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDeriveKeyErrors(t *testing.T) {
	testCases := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{name: "empty key", raw: "", wantErr: ErrEmptyKey},
		{name: "punctuation", raw: "abc!", wantErr: ErrBadKeyChar},
		{name: "space", raw: "a b", wantErr: ErrBadKeyChar},
		{name: "standard base64 padding is not a key char", raw: "Zm8=", wantErr: ErrBadKeyChar},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveKey(tc.raw)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestDeriveKeyNeverZeroOctets(t *testing.T) {
	rng := rand.New(rand.NewSource(64))
	for i := 0; i < 500; i++ {
		raw := randomKeyString(rng, 1+rng.Intn(40))
		key, err := DeriveKey(raw)
		require.NoError(t, err, "key %q", raw)
		for r := 0; r < 3; r++ {
			assert.NotZero(t, key[r], "key %q octet %d", raw, r)
		}
	}
}

func TestDeriveKeyExtensionEquivalence(t *testing.T) {
	// A key shorter than a full segment is equivalent to the same key
	// explicitly padded with its own leading characters.
	pairs := [][2]string{
		{"C", "CCCC"},
		{"AB", "ABAB"},
		{"xyz", "xyzx"},
		{"AAAAB", "BAAA"},
	}
	for _, pair := range pairs {
		a, err := DeriveKey(pair[0])
		require.NoError(t, err)
		b, err := DeriveKey(pair[1])
		require.NoError(t, err)
		assert.Equal(t, a, b, "%q vs %q", pair[0], pair[1])
	}
}

func TestKeyEncode(t *testing.T) {
	key := Key{8, 32, 130}
	assert.Equal(t, "CCCC", key.Encode())
}

func TestKeyEncodeRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(65))
	for i := 0; i < 200; i++ {
		key, err := DeriveKey(randomKeyString(rng, 1+rng.Intn(20)))
		require.NoError(t, err)

		again, err := DeriveKey(key.Encode())
		require.NoError(t, err)
		assert.Equal(t, key, again)
	}
}

func randomKeyString(rng *rand.Rand, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(encodeTable[rng.Intn(64)])
	}
	return b.String()
}
