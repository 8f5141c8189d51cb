//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package classic implements the textbook garbling scheme: a SHA-256
// based hash function and a four-row (two-row for INV) permuted
// garbled table per gate, with decryption-by-trial-and-tag-check
// standing in for point-and-permute.
package classic

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/cockroachdb/errors"

	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/garble"
	"github.com/markkurossi/garbled/label"
)

// hBytes is the SHA-256 digest size; labelBytes is half of that, so a
// row's padding of labelBytes zero bytes occupies the other half. A
// candidate row decrypts correctly only when the hash happens to
// cancel the zero padding exactly, which occurs with probability
// 2^-(8*labelBytes) for a wrong key.
const (
	hBytes     = sha256.Size
	labelBytes = hBytes / 2
)

// pair holds a wire's two labels, indexed by truth value: pair[0] is
// the label for false, pair[1] for true.
type pair [2]label.Label

func idx(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Encoder maps plaintext input bits to classic labels.
type Encoder struct {
	inner []pair
}

// Encode implements garble.Encoder[label.Label].
func (e *Encoder) Encode(bits []bool) ([]label.Label, error) {
	if len(bits) != len(e.inner) {
		return nil, circuit.NewLengthMismatch("classic encoder input", len(bits), len(e.inner))
	}
	out := make([]label.Label, len(bits))
	for i, b := range bits {
		out[i] = e.inner[i][idx(b)]
	}
	return out, nil
}

// Decoder maps classic output labels back to plaintext bits.
type Decoder struct {
	inner []pair
}

// Decode implements garble.Decoder[label.Label].
func (d *Decoder) Decode(labels []label.Label) ([]bool, error) {
	if len(labels) != len(d.inner) {
		return nil, circuit.NewLengthMismatch("classic decoder input", len(labels), len(d.inner))
	}
	out := make([]bool, len(labels))
	for i, l := range labels {
		switch l {
		case d.inner[i][1]:
			out[i] = true
		case d.inner[i][0]:
			out[i] = false
		default:
			return nil, errors.Wrapf(garble.ErrDecodeMismatch, "output wire %d", i)
		}
	}
	return out, nil
}

// row is one ciphertext in a gate's garbled table: the output label,
// padded with labelBytes zero bytes, XORed with the row's hash.
type row [hBytes]byte

// GarbledCircuit is a classic-garbled circuit: the original circuit's
// gate list (shared, not copied) plus one permuted table of rows per
// gate.
type GarbledCircuit struct {
	inputLength  int
	outputLength int
	gates        []circuit.Gate
	ciphers      [][]row
}

// Evaluate implements garble.GarbledCircuit[label.Label].
func (gc *GarbledCircuit) Evaluate(input []label.Label) ([]label.Label, error) {
	if len(input) != gc.inputLength {
		return nil, circuit.NewLengthMismatch("classic circuit input", len(input), gc.inputLength)
	}

	values := make([]label.Label, gc.inputLength+len(gc.gates))
	copy(values, input)

	for gi, g := range gc.gates {
		var h [hBytes]byte
		if g.Op == circuit.INV {
			h = hash(values[g.Input0].Bytes(), wireTag(g.Output))
		} else {
			h = hash(values[g.Input0].Bytes(), values[g.Input1].Bytes(), wireTag(g.Output))
		}

		matches := 0
		var found label.Label
		for _, r := range gc.ciphers[gi] {
			cand := xorRow(r, h)
			if allZero(cand[labelBytes:]) {
				matches++
				copy(found[:], cand[:labelBytes])
			}
		}
		if matches != 1 {
			return nil, garble.NewDecryptionFailure(gi, matches)
		}
		values[g.Output] = found
	}

	out := make([]label.Label, gc.outputLength)
	copy(out, values[len(values)-gc.outputLength:])
	return out, nil
}

// GarbleCompute implements the garbling contract's convenience
// operation for the classic scheme.
func (gc *GarbledCircuit) GarbleCompute(enc *Encoder, dec *Decoder, bits []bool) ([]bool, error) {
	return garble.Compute[label.Label, *GarbledCircuit, *Encoder, *Decoder](gc, enc, dec, bits)
}

// Garble garbles c under the classic scheme, returning the garbled
// circuit together with its input encoder and output decoder.
func Garble(c *circuit.Circuit) (*GarbledCircuit, *Encoder, *Decoder, error) {
	n := c.InputLength() + len(c.Gates)
	labels := make([]pair, n)
	for i := range labels {
		l0, err := label.NewRandom()
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "classic: sampling label")
		}
		l1, err := label.NewRandom()
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "classic: sampling label")
		}
		labels[i] = pair{l0, l1}
	}

	encoding := append([]pair(nil), labels[:c.InputLength()]...)
	decoding := append([]pair(nil), labels[n-c.OutputLength():]...)

	ciphers := make([][]row, len(c.Gates))
	for gi, g := range c.Gates {
		var rows []row
		if g.Op == circuit.INV {
			rows = garbleUnary(g, labels)
		} else {
			rows = garbleBinary(g, labels)
		}
		if err := shuffleRows(rows); err != nil {
			return nil, nil, nil, err
		}
		ciphers[gi] = rows
	}

	gc := &GarbledCircuit{
		inputLength:  c.InputLength(),
		outputLength: c.OutputLength(),
		gates:        c.Gates,
		ciphers:      ciphers,
	}
	return gc, &Encoder{inner: encoding}, &Decoder{inner: decoding}, nil
}

func garbleUnary(g circuit.Gate, labels []pair) []row {
	rows := make([]row, 2)
	for _, in := range []bool{false, true} {
		h := hash(labels[g.Input0][idx(in)].Bytes(), wireTag(g.Output))
		// INV(in) = !in: the garbled row for input value `in` encrypts
		// the output label for the opposite truth value.
		out := labels[g.Output][idx(!in)]
		rows[idx(in)] = xorRow(padLabel(out), h)
	}
	return rows
}

func garbleBinary(g circuit.Gate, labels []pair) []row {
	rows := make([]row, 4)
	i := 0
	for _, left := range []bool{false, true} {
		for _, right := range []bool{false, true} {
			h := hash(labels[g.Input0][idx(left)].Bytes(), labels[g.Input1][idx(right)].Bytes(), wireTag(g.Output))
			var result bool
			if g.Op == circuit.AND {
				result = left && right
			} else {
				result = left != right
			}
			out := labels[g.Output][idx(result)]
			rows[i] = xorRow(padLabel(out), h)
			i++
		}
	}
	return rows
}

func hash(parts ...[]byte) [hBytes]byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	var out [hBytes]byte
	copy(out[:], h.Sum(nil))
	return out
}

func wireTag(w circuit.Wire) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(w))
	return b[:]
}

func padLabel(l label.Label) [hBytes]byte {
	var out [hBytes]byte
	copy(out[:labelBytes], l.Bytes())
	return out
}

func xorRow(a, b [hBytes]byte) [hBytes]byte {
	var out [hBytes]byte
	for i := range out {
		out[i] = a[i] ^ b[i]
	}
	return out
}

func allZero(b []byte) bool {
	for _, v := range b {
		if v != 0 {
			return false
		}
	}
	return true
}
