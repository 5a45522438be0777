package testutil

import "errors"

// ErrSimulated is a sentinel error for testing error handling paths
var ErrSimulated = errors.New("simulated error for testing")

// FailingReader returns ErrSimulated on every read.
type FailingReader struct{}

func (FailingReader) Read([]byte) (int, error) { return 0, ErrSimulated }
