//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package garble

import "github.com/cockroachdb/errors"

// ErrDecryptionFailure is the sentinel a scheme's Evaluate wraps when a
// garbled gate's ciphertext rows yield zero or more than one candidate
// output label. Under honest garbling this never happens; it signals
// a corrupted garbled circuit or a wrong input label.
var ErrDecryptionFailure = errors.New("garble: gate decryption failed")

// ErrDecodeMismatch is the sentinel a scheme's Decode wraps when an
// output label matches neither of the decoder's two candidate labels
// for that wire.
var ErrDecodeMismatch = errors.New("garble: output label matches neither known label")

// NewDecryptionFailure reports which gate failed to decrypt and how
// many candidate rows matched (0 or more than 1; exactly 1 is success).
func NewDecryptionFailure(gate int, matches int) error {
	return errors.Wrapf(ErrDecryptionFailure, "gate %d: %d candidate rows matched", gate, matches)
}
