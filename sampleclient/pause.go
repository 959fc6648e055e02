// Copyright 2021 mamezou-tech. All rights reserved.

package sampleclient

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

// WaitForKey returns a func that waits for a key press on f.
// If f is not a terminal, the func reads up to the end of the next line instead.
// End of input counts as a key press.
func WaitForKey(f *os.File) func() error {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		r := bufio.NewReader(f)
		return func() error {
			if _, err := r.ReadString('\n'); err != nil && err != io.EOF {
				return errors.Wrap(err, "Error reading input")
			}
			return nil
		}
	}
	return func() error {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(err, "Error setting terminal to raw mode")
		}
		defer term.Restore(fd, state)
		var b [1]byte
		if _, err := f.Read(b[:]); err != nil && err != io.EOF {
			return errors.Wrap(err, "Error reading key")
		}
		return nil
	}
}
