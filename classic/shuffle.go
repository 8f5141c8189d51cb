//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package classic

import (
	"crypto/rand"
	"math/big"

	"github.com/cockroachdb/errors"
)

// shuffleRows permutes rows in place with a Fisher-Yates shuffle
// driven by crypto/rand, so a garbled table's row order leaks nothing
// about which row corresponds to which input combination.
func shuffleRows(rows []row) error {
	for i := len(rows) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return errors.Wrap(err, "classic: shuffling garbled table")
		}
		j := n.Int64()
		rows[i], rows[j] = rows[j], rows[i]
	}
	return nil
}
