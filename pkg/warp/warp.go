package warp

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-hclog"
)

// WindowTarget is the default window size aimed for when processing a
// stream. The actual default is this value rounded up to a whole
// multiple of the OS page size.
const WindowTarget = 4 * 1024 * 1024

// Coder applies the Warp64 transform for one normalized key.
//
// A Coder is cheap to construct and safe for sequential reuse across
// any number of streams. It holds no per-stream state; transform
// buffers are allocated per call.
type Coder struct {
	key    Key
	window int
	logger hclog.Logger
}

// Option configures a Coder.
type Option func(*Coder)

// WithWindowSize overrides the window size in bytes. The window bounds
// memory use only; any positive size produces identical output.
func WithWindowSize(n int) Option {
	return func(c *Coder) {
		if n > 0 {
			c.window = n
		}
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Coder) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Coder for the given normalized key.
func New(key Key, opts ...Option) *Coder {
	c := &Coder{
		key:    key,
		window: defaultWindowSize(),
		logger: hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// defaultWindowSize rounds WindowTarget up to a page-size multiple.
func defaultWindowSize() int {
	page := os.Getpagesize()
	if page < 1 {
		return WindowTarget
	}
	pages := WindowTarget / page
	if WindowTarget%page != 0 {
		pages++
	}
	if pages < 1 {
		pages = 1
	}
	return pages * page
}

// Key returns the coder's normalized key.
func (c *Coder) Key() Key {
	return c.key
}

// Scramble applies the forward transform to length bytes read from
// src and writes the scrambled artifact to dst. The artifact is
// exactly length+3 bytes: the transformed content followed by the
// transformed zero trailer.
func (c *Coder) Scramble(dst io.Writer, src io.Reader, length int64) error {
	c.logger.Debug("scrambling stream", "content_length", length, "window", c.window)
	return c.transform(dst, src, length, newPhaseTables(c.key, false), true)
}

// Descramble applies the inverse transform to a scrambled artifact of
// the given length and writes the recovered content, length-3 bytes,
// to dst.
//
// The trailer is verified before anything is written: the last three
// octets are inverse-transformed at their absolute offsets, and unless
// all three come out zero the key does not match and ErrWrongKey is
// returned with no output produced. ErrTruncated is returned for
// artifacts shorter than three bytes.
func (c *Coder) Descramble(dst io.Writer, src io.ReaderAt, length int64) error {
	if length < trailerLen {
		return ErrTruncated
	}

	tables := newPhaseTables(c.key, true)

	var trail [trailerLen]byte
	if _, err := src.ReadAt(trail[:], length-trailerLen); err != nil {
		return fmt.Errorf("reading trailer: %w", err)
	}
	for i := 0; i < trailerLen; i++ {
		r := (length - trailerLen + int64(i)) % 3
		if tables[r][trail[i]] != 0 {
			return ErrWrongKey
		}
	}

	c.logger.Debug("descrambling stream", "content_length", length-trailerLen, "window", c.window)
	content := io.NewSectionReader(src, 0, length-trailerLen)
	return c.transform(dst, content, length-trailerLen, tables, false)
}

// ScrambleBytes is Scramble over an in-memory content slice.
func (c *Coder) ScrambleBytes(content []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(len(content) + trailerLen)
	// Writes to a bytes.Buffer cannot fail and the reader cannot
	// return a short count, so the streaming engine cannot error here.
	if err := c.Scramble(&buf, bytes.NewReader(content), int64(len(content))); err != nil {
		panic(fmt.Sprintf("warp: in-memory scramble failed: %v", err))
	}
	return buf.Bytes()
}

// DescrambleBytes is Descramble over an in-memory artifact.
func (c *Coder) DescrambleBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if len(data) >= trailerLen {
		buf.Grow(len(data) - trailerLen)
	}
	if err := c.Descramble(&buf, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
