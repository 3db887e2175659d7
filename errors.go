package bti

import (
	"errors"
	"io"
)

// A FormatError reports that a header field holds a value that doesn't
// correspond to any known enumerant.
type FormatError string

func (e FormatError) Error() string { return "bti: invalid format: " + string(e) }

// An IOError reports that the underlying stream failed or ran out before the
// expected number of bytes could be read or written.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return "bti: " + e.Op + ": " + e.Err.Error() }

// Unwrap returns the underlying error.
func (e *IOError) Unwrap() error { return e.Err }

// ErrBufferSize is returned when the pixel buffer of a texture doesn't hold
// exactly width * height RGBA pixels.
var ErrBufferSize = errors.New("bti: pixel buffer does not match texture dimensions")

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
