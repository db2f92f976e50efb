package warp

// RecoverKey reconstructs the normalized key that scrambled an
// artifact from its last three octets and the absolute offset of the
// first of them (so the artifact is offset+3 bytes long).
//
// The trailer octets were zero before scrambling, so each one is the
// raw key octet for its residue class; the offset determines which
// class the first trailer byte landed in, and the three octets only
// need to be rotated back into key order. The result always equals the
// key the artifact was scrambled with — there is no failure mode.
// Applied to bytes that did not come out of a Warp64 scramble, it
// still returns a well-formed value; only a descramble attempt can
// expose that it is meaningless.
func RecoverKey(trail [3]byte, offset int64) Key {
	z := 3 - offset%3
	return Key{
		trail[z%3],
		trail[(z+1)%3],
		trail[(z+2)%3],
	}
}
