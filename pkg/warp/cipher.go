package warp

import (
	"fmt"
	"io"
)

// trailerLen is the number of zero octets appended to the content
// before scrambling. The trailer is what makes key verification and
// key recovery possible.
const trailerLen = 3

// phaseTables holds the three 256-entry substitution tables, one per
// offset residue class. Built once per operation and immutable after.
type phaseTables [3][256]byte

// newPhaseTables builds substitution tables for the given key. With
// inverse set, each table undoes the corresponding forward table.
func newPhaseTables(key Key, inverse bool) *phaseTables {
	var t phaseTables
	for r := 0; r < 3; r++ {
		k := int(key[r])
		if inverse {
			k = 256 - k
		}
		for j := 0; j < 256; j++ {
			t[r][j] = byte((j + k) % 256)
		}
	}
	return &t
}

// transform runs the windowed substitution over srcLen bytes of src,
// writing the result to dst. With trailer set, three virtual zero
// octets are processed after the real input, so the output is
// srcLen+3 bytes long; the zeros are synthesized per byte, never
// buffered.
//
// Each window covers an absolute range of the stream, and the table
// selector for its first byte is the window's absolute start offset
// mod 3. Output is bit-identical for any window size; the window only
// bounds memory use.
func (c *Coder) transform(dst io.Writer, src io.Reader, srcLen int64, tables *phaseTables, trailer bool) error {
	total := srcLen
	if trailer {
		total += trailerLen
	}

	// One input and one output buffer, reused for every window.
	win := int64(c.window)
	in := make([]byte, c.window)
	out := make([]byte, c.window)

	for base := int64(0); base < total; base += win {
		ws := total - base
		if ws > win {
			ws = win
		}

		// Portion of this window backed by real input; the rest is
		// the virtual trailer.
		wsi := srcLen - base
		if wsi > ws {
			wsi = ws
		}
		if wsi < 0 {
			wsi = 0
		}

		if wsi > 0 {
			if _, err := io.ReadFull(src, in[:wsi]); err != nil {
				return fmt.Errorf("reading window at offset %d: %w", base, err)
			}
		}

		r := int(base % 3)
		for i := int64(0); i < ws; i++ {
			var v byte
			if i < wsi {
				v = in[i]
			}
			out[i] = tables[r][v]
			r++
			if r == 3 {
				r = 0
			}
		}

		if _, err := dst.Write(out[:ws]); err != nil {
			return fmt.Errorf("writing window at offset %d: %w", base, err)
		}

		c.logger.Trace("processed window", "offset", base, "size", ws, "input_size", wsi)
	}

	return nil
}
