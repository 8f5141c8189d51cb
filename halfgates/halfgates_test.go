//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package halfgates

import (
	"crypto/aes"
	"encoding/hex"
	"testing"

	"github.com/markkurossi/garbled/internal/gctest"
	"github.com/markkurossi/garbled/label"
)

func TestConformance(t *testing.T) {
	gctest.RunConformance[label.Label, *GarbledCircuit, *Encoder, *Decoder](t, Garble)
}

// TestAES128Vector pins the fixed-key block cipher this scheme builds
// its correlation-robust hash from to the standard AES-128 test
// vector, independent of any circuit.
func TestAES128Vector(t *testing.T) {
	key, err := hex.DecodeString("74c9f191b902f96c32243e13b35f12af")
	if err != nil {
		t.Fatal(err)
	}
	msg, err := hex.DecodeString("8014bfb6e600f1cd5eeccec5112c4cf9")
	if err != nil {
		t.Fatal(err)
	}
	want, err := hex.DecodeString("7f16ae5c795b1886b8ca08b6966a7a7c")
	if err != nil {
		t.Fatal(err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		t.Fatal(err)
	}
	got := make([]byte, 16)
	block.Encrypt(got, msg)

	if hex.EncodeToString(got) != hex.EncodeToString(want) {
		t.Errorf("AES-128(key, msg) = %x, want %x", got, want)
	}
}
