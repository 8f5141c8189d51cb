//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package classic

import (
	"testing"

	"github.com/markkurossi/garbled/internal/gctest"
	"github.com/markkurossi/garbled/label"
)

func TestConformance(t *testing.T) {
	gctest.RunConformance[label.Label, *GarbledCircuit, *Encoder, *Decoder](t, Garble)
}
