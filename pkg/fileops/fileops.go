// Package fileops applies the Warp64 transform to files on disk,
// carrying the surrounding conventions: the .warp64 suffix, the
// never-overwrite output policy, and removal of the input file once
// an operation has fully succeeded.
package fileops

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/binwarp/warp64/pkg/warp"
)

// Suffix marks scrambled files.
const Suffix = ".warp64"

var (
	ErrHasSuffix      = errors.New("input file may not have the .warp64 suffix")
	ErrMissingSuffix  = errors.New("input file must have the .warp64 suffix")
	ErrBadSuffixPos   = errors.New("invalid .warp64 suffix position")
	ErrNotRegularFile = errors.New("input path is not a regular file")
)

// Ops runs file-level scramble and descramble operations with a
// configured coder.
type Ops struct {
	coder  *warp.Coder
	logger hclog.Logger
}

// New returns an Ops using the given coder. A nil logger discards
// all output.
func New(coder *warp.Coder, logger hclog.Logger) *Ops {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Ops{coder: coder, logger: logger}
}

// ScrambledPath returns the output path for scrambling input: the
// input path with the suffix appended. The input itself must not
// already carry the suffix.
func ScrambledPath(path string) (string, error) {
	if strings.HasSuffix(path, Suffix) {
		return "", ErrHasSuffix
	}
	return path + Suffix, nil
}

// UnscrambledPath returns the output path for descrambling input: the
// input path with the suffix stripped. The remainder must be a
// non-empty file name, not a bare directory prefix.
func UnscrambledPath(path string) (string, error) {
	if !strings.HasSuffix(path, Suffix) {
		return "", ErrMissingSuffix
	}
	trimmed := path[:len(path)-len(Suffix)]
	if trimmed == "" || strings.HasSuffix(trimmed, string(os.PathSeparator)) {
		return "", ErrBadSuffixPos
	}
	return trimmed, nil
}

// ScrambleFile scrambles path into path + ".warp64" and removes the
// input on success. The output file must not already exist. Returns
// the output path written.
func (o *Ops) ScrambleFile(path string) (string, error) {
	outPath, err := ScrambledPath(path)
	if err != nil {
		return "", err
	}

	size, err := regularFileSize(path)
	if err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	o.logger.Info("scrambling", "input", path, "output", outPath, "content_length", size)

	err = o.writeOutput(outPath, func(out *os.File) error {
		return o.coder.Scramble(out, in, size)
	})
	if err != nil {
		return "", err
	}

	return outPath, o.removeInput(path)
}

// DescrambleFile descrambles path (which must end in ".warp64") into
// the suffix-stripped path and removes the input on success. The key
// is verified against the trailer before any content is written; a
// mismatch fails with warp.ErrWrongKey and leaves the input intact.
// Returns the output path written.
func (o *Ops) DescrambleFile(path string) (string, error) {
	outPath, err := UnscrambledPath(path)
	if err != nil {
		return "", err
	}

	size, err := regularFileSize(path)
	if err != nil {
		return "", err
	}

	in, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	o.logger.Info("descrambling", "input", path, "output", outPath, "artifact_length", size)

	err = o.writeOutput(outPath, func(out *os.File) error {
		return o.coder.Descramble(out, in, size)
	})
	if err != nil {
		return "", err
	}

	return outPath, o.removeInput(path)
}

// ReadTrailer returns the last three bytes of the file at path and
// the absolute offset of the first of them. Fails with
// warp.ErrTruncated for files shorter than three bytes.
func ReadTrailer(path string) (trail [3]byte, offset int64, err error) {
	size, err := regularFileSize(path)
	if err != nil {
		return trail, 0, err
	}
	if size < 3 {
		return trail, 0, warp.ErrTruncated
	}

	f, err := os.Open(path)
	if err != nil {
		return trail, 0, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	offset = size - 3
	if _, err := f.ReadAt(trail[:], offset); err != nil {
		return trail, 0, fmt.Errorf("reading trailer: %w", err)
	}
	return trail, offset, nil
}

// writeOutput creates outPath exclusively, runs fn against it, and
// removes the file again if fn or the close fails. Existing files are
// never overwritten.
func (o *Ops) writeOutput(outPath string, fn func(*os.File) error) error {
	out, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("output %q already exists: %w", outPath, err)
		}
		return fmt.Errorf("creating output: %w", err)
	}

	err = fn(out)
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing output: %w", cerr)
	}
	if err != nil {
		if rmErr := os.Remove(outPath); rmErr != nil {
			o.logger.Error("failed to clean up output file", "path", outPath, "error", rmErr)
		}
		return err
	}
	return nil
}

// removeInput deletes the consumed input file after a fully
// successful operation.
func (o *Ops) removeInput(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing input: %w", err)
	}
	o.logger.Debug("removed input file", "path", path)
	return nil
}

func regularFileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat input: %w", err)
	}
	if !info.Mode().IsRegular() {
		return 0, ErrNotRegularFile
	}
	return info.Size(), nil
}
