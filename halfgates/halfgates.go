//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package halfgates implements the Zahur-Rosulek-Evans half-gates
// garbling scheme: free-XOR via a global difference R, a fixed-key
// AES-128 block cipher standing in for the correlation-robust hash,
// point-and-permute via each label's LSB, and an AND gate garbled as
// exactly two ciphertexts (the "generator" and "evaluator" half
// gates). INV is eliminated entirely by swapping a wire's label pair
// at garble time and aliasing the gate to a Copy.
package halfgates

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/cockroachdb/errors"

	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/garble"
	"github.com/markkurossi/garbled/label"
)

type gateKind byte

const (
	gateCopy gateKind = iota
	gateXor
	gateAnd
)

type garbledGate struct {
	Input0 circuit.Wire
	Input1 circuit.Wire
	Output circuit.Wire
	Kind   gateKind
}

// andCipher is the pair of ciphertexts (T_G, T_E) a single half-gates
// AND gate garbles to.
type andCipher struct {
	Tg label.Label
	Te label.Label
}

// Encoder maps plaintext input bits to half-gates labels.
type Encoder struct {
	inner []label.Wire
}

// Encode implements garble.Encoder[label.Label].
func (e *Encoder) Encode(bits []bool) ([]label.Label, error) {
	if len(bits) != len(e.inner) {
		return nil, circuit.NewLengthMismatch("halfgates encoder input", len(bits), len(e.inner))
	}
	out := make([]label.Label, len(bits))
	for i, b := range bits {
		if b {
			out[i] = e.inner[i].L1
		} else {
			out[i] = e.inner[i].L0
		}
	}
	return out, nil
}

// Decoder maps half-gates output labels back to plaintext bits via
// point-and-permute: d[i] is the permute bit of wire i's false label,
// so the plaintext bit is the output label's LSB XORed with d[i].
type Decoder struct {
	inner []bool
}

// Decode implements garble.Decoder[label.Label].
func (d *Decoder) Decode(labels []label.Label) ([]bool, error) {
	if len(labels) != len(d.inner) {
		return nil, circuit.NewLengthMismatch("halfgates decoder input", len(labels), len(d.inner))
	}
	out := make([]bool, len(labels))
	for i, l := range labels {
		out[i] = l.LSB() != d.inner[i]
	}
	return out, nil
}

// GarbledCircuit is a half-gates-garbled circuit: the gate list
// rewritten to Copy/Xor/And form, the AND gates' ciphertexts in
// evaluation order, and the fixed AES-128 key shared by garbler and
// evaluator.
type GarbledCircuit struct {
	inputLength  int
	outputLength int
	gates        []garbledGate
	ciphers      []andCipher
	key          [16]byte
}

// Evaluate implements garble.GarbledCircuit[label.Label].
func (gc *GarbledCircuit) Evaluate(input []label.Label) ([]label.Label, error) {
	if len(input) != gc.inputLength {
		return nil, circuit.NewLengthMismatch("halfgates circuit input", len(input), gc.inputLength)
	}
	block, err := aes.NewCipher(gc.key[:])
	if err != nil {
		return nil, errors.Wrap(err, "halfgates: initializing block cipher")
	}

	values := make([]label.Label, gc.inputLength+len(gc.gates))
	copy(values, input)

	andIdx := 0
	for _, g := range gc.gates {
		switch g.Kind {
		case gateCopy:
			values[g.Output] = values[g.Input0]
		case gateXor:
			values[g.Output] = values[g.Input0].Xor(values[g.Input1])
		case gateAnd:
			if andIdx >= len(gc.ciphers) {
				return nil, errors.Wrap(garble.ErrDecryptionFailure, "halfgates: AND gate ciphertexts exhausted")
			}
			c := gc.ciphers[andIdx]
			andIdx++

			sa := values[g.Input0].LSB()
			sb := values[g.Input1].LSB()

			wg := encryptBlock(block, values[g.Input0])
			if sa {
				wg = wg.Xor(c.Tg)
			}

			we := encryptBlock(block, values[g.Input1])
			if sb {
				we = we.Xor(c.Te.Xor(values[g.Input0]))
			}

			values[g.Output] = wg.Xor(we)
		}
	}

	out := make([]label.Label, gc.outputLength)
	copy(out, values[len(values)-gc.outputLength:])
	return out, nil
}

// GarbleCompute implements the garbling contract's convenience
// operation for the half-gates scheme.
func (gc *GarbledCircuit) GarbleCompute(enc *Encoder, dec *Decoder, bits []bool) ([]bool, error) {
	return garble.Compute[label.Label, *GarbledCircuit, *Encoder, *Decoder](gc, enc, dec, bits)
}

// Garble garbles c under the half-gates scheme, returning the garbled
// circuit together with its input encoder and output decoder.
func Garble(c *circuit.Circuit) (*GarbledCircuit, *Encoder, *Decoder, error) {
	var key [16]byte
	if _, err := rand.Read(key[:]); err != nil {
		return nil, nil, nil, errors.Wrap(err, "halfgates: sampling AES key")
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "halfgates: initializing block cipher")
	}

	r, err := label.NewRandom()
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "halfgates: sampling global difference")
	}
	r.SetLSB(true)

	n := c.InputLength() + len(c.Gates)
	labels := make([]label.Wire, n)
	for i := 0; i < c.InputLength(); i++ {
		l0, err := label.NewRandom()
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "halfgates: sampling input label")
		}
		labels[i] = label.Wire{L0: l0, L1: l0.Xor(r)}
	}
	encoding := append([]label.Wire(nil), labels[:c.InputLength()]...)

	var ciphers []andCipher
	gates := make([]garbledGate, len(c.Gates))
	for gi, g := range c.Gates {
		switch g.Op {
		case circuit.INV:
			// Alias the output to the input wire with its label pair
			// swapped: whichever label previously meant "false" now
			// means "true", which is exactly NOT. Input0's own pair is
			// left untouched so any other gate (or output) still
			// reading that wire keeps seeing its original meaning.
			a := labels[g.Input0]
			labels[g.Output] = label.Wire{L0: a.L1, L1: a.L0}
			gates[gi] = garbledGate{Input0: g.Input0, Output: g.Output, Kind: gateCopy}

		case circuit.XOR:
			l0 := labels[g.Input0].L0.Xor(labels[g.Input1].L0)
			labels[g.Output] = label.Wire{L0: l0, L1: l0.Xor(r)}
			gates[gi] = garbledGate{Input0: g.Input0, Input1: g.Input1, Output: g.Output, Kind: gateXor}

		case circuit.AND:
			wa, wb := labels[g.Input0], labels[g.Input1]
			pa := wa.L0.LSB()
			pb := wb.L0.LSB()

			h0a := encryptBlock(block, wa.L0)
			h1a := encryptBlock(block, wa.L1)
			tg := h0a.Xor(h1a)
			if pb {
				tg = tg.Xor(r)
			}
			w0g := h0a
			if pa {
				w0g = w0g.Xor(tg)
			}

			h0b := encryptBlock(block, wb.L0)
			h1b := encryptBlock(block, wb.L1)
			te := h0b.Xor(h1b).Xor(wa.L0)
			w0e := h0b
			if pb {
				w0e = w0e.Xor(te.Xor(wa.L0))
			}

			w0 := w0g.Xor(w0e)
			labels[g.Output] = label.Wire{L0: w0, L1: w0.Xor(r)}
			ciphers = append(ciphers, andCipher{Tg: tg, Te: te})
			gates[gi] = garbledGate{Input0: g.Input0, Input1: g.Input1, Output: g.Output, Kind: gateAnd}
		}
	}

	decoding := make([]bool, c.OutputLength())
	tail := labels[n-c.OutputLength():]
	for i, w := range tail {
		decoding[i] = w.L0.LSB()
	}

	gc := &GarbledCircuit{
		inputLength:  c.InputLength(),
		outputLength: c.OutputLength(),
		gates:        gates,
		ciphers:      ciphers,
		key:          key,
	}
	return gc, &Encoder{inner: encoding}, &Decoder{inner: decoding}, nil
}

func encryptBlock(block cipher.Block, in label.Label) label.Label {
	var out label.Label
	b := in.Bytes()
	dst := make([]byte, len(b))
	block.Encrypt(dst, b)
	copy(out[:], dst)
	return out
}
