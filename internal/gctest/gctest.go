//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package gctest holds the conformance suite shared by every garbling
// scheme's tests: given a scheme's Garble function, it checks that
// garble_compute agrees with the circuit's plaintext Evaluate on the
// module's Bristol fixtures and on a battery of randomly generated
// circuits.
package gctest

import (
	"math/rand"
	"os"
	"testing"

	"github.com/markkurossi/garbled/bits"
	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/garble"
)

// LoadCircuit parses the Bristol-fashion fixture at path, failing the
// test on any parse or topology error.
func LoadCircuit(t *testing.T, path string) *circuit.Circuit {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()

	c, err := circuit.Parse(f)
	if err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return c
}

// RandomCircuit builds a deterministic pseudo-random circuit with the
// given input width and gate count, for property testing the garbling
// contract against circuit.Evaluate rather than a fixed-function
// fixture. Every gate's inputs are drawn from already-populated
// wires, so the result always passes VerifyTopology.
func RandomCircuit(seed int64, inputWidth, gateCount int) *circuit.Circuit {
	rnd := rand.New(rand.NewSource(seed))

	gates := make([]circuit.Gate, gateCount)
	stats := make(map[circuit.Operation]int)
	for i := 0; i < gateCount; i++ {
		output := circuit.Wire(inputWidth + i)
		populated := inputWidth + i

		var op circuit.Operation
		switch rnd.Intn(3) {
		case 0:
			op = circuit.XOR
		case 1:
			op = circuit.AND
		default:
			op = circuit.INV
		}

		g := circuit.Gate{
			Input0: circuit.Wire(rnd.Intn(populated)),
			Output: output,
			Op:     op,
		}
		if op != circuit.INV {
			g.Input1 = circuit.Wire(rnd.Intn(populated))
		}
		gates[i] = g
		stats[op]++
	}

	return &circuit.Circuit{
		Inputs:  circuit.IO{{Name: "in", Size: inputWidth}},
		Outputs: circuit.IO{{Name: "out", Size: gateCount}},
		Gates:   gates,
		Stats:   stats,
	}
}

// garbleFunc is the signature every scheme's Garble function shares,
// parameterized over its own label type and concrete garbled-circuit,
// encoder, and decoder types.
type garbleFunc[L any, GC garble.GarbledCircuit[L], E garble.Encoder[L], D garble.Decoder[L]] func(*circuit.Circuit) (GC, E, D, error)

// RunConformance checks garble_compute against circuit.Evaluate across
// the module's Bristol fixtures and a battery of random circuits.
func RunConformance[L any, GC garble.GarbledCircuit[L], E garble.Encoder[L], D garble.Decoder[L]](
	t *testing.T, garbleCircuit garbleFunc[L, GC, E, D],
) {
	t.Helper()

	t.Run("zero_equal4", func(t *testing.T) {
		c := LoadCircuit(t, "../testdata/zero_equal4.txt")
		cases := []struct {
			in   uint8
			want bool
		}{
			{0, true},
			{1, false},
			{5, false},
			{15, false},
		}
		for _, tc := range cases {
			checkScalar(t, c, garbleCircuit, uint64(tc.in), 4, []bool{tc.want})
		}
	})

	t.Run("adder4", func(t *testing.T) {
		c := LoadCircuit(t, "../testdata/adder4.txt")
		cases := []struct{ a, b, want uint64 }{
			{0, 0, 0},
			{1, 1, 2},
			{10, 5, 15},
			{0, 5, 5},
		}
		for _, tc := range cases {
			checkBinop(t, c, garbleCircuit, tc.a, tc.b, 4, tc.want)
		}
	})

	t.Run("subtract4", func(t *testing.T) {
		c := LoadCircuit(t, "../testdata/subtract4.txt")
		cases := []struct{ a, b, want uint64 }{
			{0, 0, 0},
			{5, 3, 2},
			{10, 5, 5},
			{15, 1, 14},
		}
		for _, tc := range cases {
			checkBinop(t, c, garbleCircuit, tc.a, tc.b, 4, tc.want)
		}
	})

	t.Run("mult2", func(t *testing.T) {
		c := LoadCircuit(t, "../testdata/mult2.txt")
		cases := []struct{ a, b, want uint64 }{
			{0, 0, 0},
			{1, 1, 1},
			{3, 3, 9},
			{2, 3, 6},
		}
		for _, tc := range cases {
			checkBinop(t, c, garbleCircuit, tc.a, tc.b, 2, tc.want)
		}
	})

	t.Run("random circuits", func(t *testing.T) {
		for seed := int64(0); seed < 20; seed++ {
			c := RandomCircuit(seed, 8, 40)
			gc, enc, dec, err := garbleCircuit(c)
			if err != nil {
				t.Fatalf("seed %d: garbling: %v", seed, err)
			}
			rnd := rand.New(rand.NewSource(seed + 1000))
			for trial := 0; trial < 5; trial++ {
				input := make([]bool, c.InputLength())
				for i := range input {
					input[i] = rnd.Intn(2) == 1
				}
				want, err := c.Evaluate(input)
				if err != nil {
					t.Fatalf("seed %d: plaintext evaluate: %v", seed, err)
				}
				got, err := garble.Compute[L, GC, E, D](gc, enc, dec, input)
				if err != nil {
					t.Fatalf("seed %d: garbled compute: %v", seed, err)
				}
				if !boolsEqual(got, want) {
					t.Fatalf("seed %d trial %d: garbled=%v plaintext=%v", seed, trial, got, want)
				}
			}
		}
	})
}

func checkBinop[L any, GC garble.GarbledCircuit[L], E garble.Encoder[L], D garble.Decoder[L]](
	t *testing.T, c *circuit.Circuit, garbleCircuit garbleFunc[L, GC, E, D],
	a, b uint64, width int, want uint64,
) {
	t.Helper()
	input := append(lowBits(a, width), lowBits(b, width)...)
	gc, enc, dec, err := garbleCircuit(c)
	if err != nil {
		t.Fatalf("garbling: %v", err)
	}
	got, err := garble.Compute[L, GC, E, D](gc, enc, dec, input)
	if err != nil {
		t.Fatalf("garbled compute: %v", err)
	}
	gotValue := bitsToUint(got)
	if gotValue != want {
		t.Errorf("(%d, %d) = %d, want %d", a, b, gotValue, want)
	}

	plain, err := c.Evaluate(input)
	if err != nil {
		t.Fatalf("plaintext evaluate: %v", err)
	}
	if !boolsEqual(got, plain) {
		t.Errorf("(%d, %d): garbled=%v disagrees with plaintext=%v", a, b, got, plain)
	}
}

func checkScalar[L any, GC garble.GarbledCircuit[L], E garble.Encoder[L], D garble.Decoder[L]](
	t *testing.T, c *circuit.Circuit, garbleCircuit garbleFunc[L, GC, E, D],
	x uint64, width int, want []bool,
) {
	t.Helper()
	input := lowBits(x, width)
	gc, enc, dec, err := garbleCircuit(c)
	if err != nil {
		t.Fatalf("garbling: %v", err)
	}
	got, err := garble.Compute[L, GC, E, D](gc, enc, dec, input)
	if err != nil {
		t.Fatalf("garbled compute: %v", err)
	}
	if !boolsEqual(got, want) {
		t.Errorf("f(%d) = %v, want %v", x, got, want)
	}
}

func lowBits(x uint64, width int) []bool {
	full := bits.U64ToBits(x)
	return append([]bool(nil), full[:width]...)
}

func bitsToUint(in []bool) uint64 {
	var x uint64
	for i := len(in) - 1; i >= 0; i-- {
		x <<= 1
		if in[i] {
			x |= 1
		}
	}
	return x
}

func boolsEqual(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
