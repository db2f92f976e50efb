// Package keyio obtains and validates the raw scrambling key string.
// The key never goes through loggers, argv, or the console echo.
package keyio

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/binwarp/warp64/pkg/warp"
)

// MaxKeyLength is the longest accepted key string.
const MaxKeyLength = 255

var ErrKeyTooLong = fmt.Errorf("scrambling key may have at most %d characters", MaxKeyLength)

// Validate checks a raw key string against the key rules: non-empty,
// at most MaxKeyLength characters, base64 alphabet only.
func Validate(key string) error {
	if len(key) == 0 {
		return warp.ErrEmptyKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	for i := 0; i < len(key); i++ {
		if !warp.IsKeyChar(key[i]) {
			return warp.ErrBadKeyChar
		}
	}
	return nil
}

// Prompt reads the key from the terminal with echo suppressed, so the
// key shows up neither on screen nor in console history. Fails when
// stdin is not a terminal; use a key file for non-interactive runs.
func Prompt() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("standard input is not a terminal; use --key-file")
	}

	fmt.Fprint(os.Stderr, "Enter scrambling key: ")
	line, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}

	key := string(line)
	if err := Validate(key); err != nil {
		return "", err
	}
	return key, nil
}

// ReadKeyFile reads the key from the first line of a file.
func ReadKeyFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening key file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", fmt.Errorf("reading key file: %w", err)
		}
		return "", warp.ErrEmptyKey
	}

	key := strings.TrimRight(scanner.Text(), "\r")
	if err := Validate(key); err != nil {
		return "", err
	}
	return key, nil
}
