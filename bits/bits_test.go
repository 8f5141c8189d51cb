//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package bits

import (
	"math/rand"
	"testing"
)

func TestU64RoundTrip(t *testing.T) {
	cases := []uint64{0, 1, 2, 15, 5000, 14894156165, 258290865, ^uint64(0)}
	for _, x := range cases {
		got := BitsToU64(U64ToBits(x))
		if got != x {
			t.Errorf("U64 roundtrip of %d gave %d", x, got)
		}
	}
}

func TestU64BitOrderIsLittleEndian(t *testing.T) {
	bits := U64ToBits(1)
	if !bits[0] {
		t.Fatal("U64ToBits(1): bit 0 must be set (little-endian bit order)")
	}
	for i := 1; i < 64; i++ {
		if bits[i] {
			t.Fatalf("U64ToBits(1): bit %d set, want only bit 0", i)
		}
	}
}

func TestU8RoundTrip(t *testing.T) {
	for x := 0; x < 256; x++ {
		got := BitsToU8(U8ToBits(byte(x)))
		if got != byte(x) {
			t.Errorf("U8 roundtrip of %d gave %d", x, got)
		}
	}
}

func TestU8BitOrderIsBigEndian(t *testing.T) {
	bits := U8ToBits(0x80)
	if !bits[0] {
		t.Fatal("U8ToBits(0x80): bit 0 must be set (big-endian bit order)")
	}
	for i := 1; i < 8; i++ {
		if bits[i] {
			t.Fatalf("U8ToBits(0x80): bit %d set, want only bit 0", i)
		}
	}
}

func TestU64RoundTripRandom(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		x := rnd.Uint64()
		if got := BitsToU64(U64ToBits(x)); got != x {
			t.Fatalf("roundtrip of %d gave %d", x, got)
		}
	}
}
