// Package warp implements the Warp64 keyed byte-scrambling transform.
//
// Warp64 is a reversible, non-cryptographic scramble: an arbitrary
// base64 key string is normalized down to three non-zero octets, and
// each byte of the stream is shifted by the key octet selected by the
// byte's absolute offset mod 3. Three zero octets are appended before
// scrambling; after descrambling they verify the key, and on their own
// they let an equivalent key be recovered from any scrambled artifact.
// Warp64 offers no protection against anyone who has read this
// paragraph.
package warp

// Key is a normalized scrambling key: three octets, each in [1,255].
type Key [3]byte

// Replacement octets used when a normalized key component comes out
// zero. Fixed values, shared by every implementation of the format.
const (
	zeroSub0 = 1
	zeroSub1 = 2
	zeroSub2 = 4
)

const encodeTable = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// decode64 returns the 6-bit value of a base64 alphabet character, or
// -1 if c is not in the alphabet.
func decode64(c byte) int {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26
	case c >= '0' && c <= '9':
		return int(c-'0') + 52
	case c == '+':
		return 62
	case c == '/':
		return 63
	default:
		return -1
	}
}

// IsKeyChar reports whether c is in the 64-character key alphabet.
func IsKeyChar(c byte) bool {
	return decode64(c) >= 0
}

// DeriveKey normalizes an arbitrary-length key string into a Key.
//
// The key is extended with its own leading characters up to a multiple
// of four, each 4-character group is base64-decoded into 24 bits, and
// all groups are XORed together. Any zero octet in the folded value is
// replaced by a fixed non-zero constant so that the transform always
// moves every byte.
//
// Distinct key strings can normalize to the same Key; two keys that do
// are interchangeable for every Warp64 operation.
//
// Returns ErrEmptyKey for an empty string and ErrBadKeyChar if any
// character falls outside A-Z a-z 0-9 + /.
func DeriveKey(raw string) (Key, error) {
	if len(raw) == 0 {
		return Key{}, ErrEmptyKey
	}

	var mixed uint32
	for base := 0; base < len(raw); base += 4 {
		var acc uint32
		for i := 0; i < 4; i++ {
			// Past the end of the key, cycle back to the start.
			// At most three characters are reused, and only for
			// the final group.
			j := base + i
			if j >= len(raw) {
				j = (j - len(raw)) % len(raw)
			}
			d := decode64(raw[j])
			if d < 0 {
				return Key{}, ErrBadKeyChar
			}
			acc = acc<<6 | uint32(d)
		}
		mixed ^= acc
	}

	k := Key{
		byte(mixed >> 16),
		byte(mixed >> 8),
		byte(mixed),
	}
	if k[0] == 0 {
		k[0] = zeroSub0
	}
	if k[1] == 0 {
		k[1] = zeroSub1
	}
	if k[2] == 0 {
		k[2] = zeroSub2
	}
	return k, nil
}

// Encode renders the key as four base64 characters. Feeding the result
// back through DeriveKey yields the identical Key, so the encoding is
// a usable replacement for a lost key string.
func (k Key) Encode() string {
	mixed := uint32(k[0])<<16 | uint32(k[1])<<8 | uint32(k[2])
	return string([]byte{
		encodeTable[mixed>>18&0x3f],
		encodeTable[mixed>>12&0x3f],
		encodeTable[mixed>>6&0x3f],
		encodeTable[mixed&0x3f],
	})
}
