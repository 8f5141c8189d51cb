//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import "github.com/cockroachdb/errors"

// ErrTopology is the sentinel that Parse's topology errors wrap;
// compare against it with errors.Is.
var ErrTopology = errors.New("circuit: gate references an unpopulated wire")

// ErrParse is the sentinel a malformed circuit file's error wraps.
var ErrParse = errors.New("circuit: malformed circuit description")

// ErrLengthMismatch is the sentinel for evaluator/encoder/decoder
// calls whose argument length does not match the circuit's expected
// input or output length.
var ErrLengthMismatch = errors.New("circuit: length mismatch")

// NewLengthMismatch reports a bit/label slice of the wrong length.
func NewLengthMismatch(what string, got, want int) error {
	return errors.Wrapf(ErrLengthMismatch, "%s: got %d, expected %d",
		what, got, want)
}
