package logging

import (
	"bytes"
	"io"
)

// PrefixWriter prepends a marker to every line written through it.
// Writes are buffered until a newline arrives, so a log line split
// across several Write calls still gets exactly one prefix.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter wraps w so each completed line starts with prefix.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{prefix: []byte(prefix), writer: w}
}

// Write implements io.Writer. Complete lines are flushed with the
// prefix; a trailing partial line stays pending until its newline
// shows up.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.pending.Write(p)

	for {
		data := pw.pending.Bytes()
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		if _, err := pw.writer.Write(pw.prefix); err != nil {
			return 0, err
		}
		if _, err := pw.writer.Write(data[:nl+1]); err != nil {
			return 0, err
		}
		pw.pending.Next(nl + 1)
	}

	return len(p), nil
}
