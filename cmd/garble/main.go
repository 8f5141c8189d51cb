//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Command garble parses a Bristol-fashion circuit file, garbles it
// under the chosen scheme, and checks the garbled evaluation against
// the plaintext oracle.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/markkurossi/tabulate"

	"github.com/markkurossi/garbled/circuit"
	"github.com/markkurossi/garbled/classic"
	"github.com/markkurossi/garbled/garble"
	"github.com/markkurossi/garbled/halfgates"
	"github.com/markkurossi/garbled/label"
)

func main() {
	scheme := flag.String("scheme", "halfgates", "garbling scheme: classic or halfgates")
	input := flag.String("input", "", "comma-separated input bits, in input-wire order (wire 0 first)")
	objdump := flag.Bool("objdump", false, "print a gate-count table instead of evaluating")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: garble [flags] <circuit-file>")
	}
	file := flag.Arg(0)

	f, err := os.Open(file)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	c, err := circuit.Parse(f)
	if err != nil {
		log.Fatalf("parsing %s: %v", file, err)
	}

	if *objdump {
		printObjdump(file, c)
		return
	}

	in, err := parseInput(*input, c.InputLength())
	if err != nil {
		log.Fatal(err)
	}

	plain, err := c.Evaluate(in)
	if err != nil {
		log.Fatalf("plaintext evaluate: %v", err)
	}

	var garbled []bool
	switch *scheme {
	case "classic":
		garbled, err = runClassic(c, in)
	case "halfgates":
		garbled, err = runHalfGates(c, in)
	default:
		log.Fatalf("unknown scheme %q", *scheme)
	}
	if err != nil {
		log.Fatalf("%s: %v", *scheme, err)
	}

	fmt.Printf("plaintext:  %v\n", bitsToString(plain))
	fmt.Printf("garbled:    %v\n", bitsToString(garbled))
	if !equal(plain, garbled) {
		log.Fatal("MISMATCH: garbled evaluation disagrees with the plaintext oracle")
	}
	fmt.Println("OK")
}

func runClassic(c *circuit.Circuit, in []bool) ([]bool, error) {
	gc, enc, dec, err := classic.Garble(c)
	if err != nil {
		return nil, err
	}
	return garble.Compute[label.Label, *classic.GarbledCircuit, *classic.Encoder, *classic.Decoder](gc, enc, dec, in)
}

func runHalfGates(c *circuit.Circuit, in []bool) ([]bool, error) {
	gc, enc, dec, err := halfgates.Garble(c)
	if err != nil {
		return nil, err
	}
	return garble.Compute[label.Label, *halfgates.GarbledCircuit, *halfgates.Encoder, *halfgates.Decoder](gc, enc, dec, in)
}

func printObjdump(file string, c *circuit.Circuit) {
	tab := tabulate.New(tabulate.Github)
	tab.Header("File")
	tab.Header("XOR").SetAlign(tabulate.MR)
	tab.Header("AND").SetAlign(tabulate.MR)
	tab.Header("INV").SetAlign(tabulate.MR)
	tab.Header("Gates").SetAlign(tabulate.MR)
	tab.Header("Wires").SetAlign(tabulate.MR)
	tab.Header("Cost").SetAlign(tabulate.MR)

	row := tab.Row()
	row.Column(file)
	row.Column(fmt.Sprintf("%d", c.Stats[circuit.XOR]))
	row.Column(fmt.Sprintf("%d", c.Stats[circuit.AND]))
	row.Column(fmt.Sprintf("%d", c.Stats[circuit.INV]))
	row.Column(fmt.Sprintf("%d", len(c.Gates)))
	row.Column(fmt.Sprintf("%d", c.NumWires()))
	row.Column(fmt.Sprintf("%d", c.Cost()))

	tab.Print(os.Stdout)
}

func parseInput(spec string, width int) ([]bool, error) {
	in := make([]bool, width)
	if spec == "" {
		return in, nil
	}
	var n int
	for i := 0; i < len(spec) && n < width; i++ {
		switch spec[i] {
		case '0':
			in[n] = false
			n++
		case '1':
			in[n] = true
			n++
		case ',', ' ':
		default:
			return nil, fmt.Errorf("invalid input bit %q", spec[i])
		}
	}
	return in, nil
}

func bitsToString(in []bool) string {
	b := make([]byte, len(in))
	for i, v := range in {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func equal(a, b []bool) bool {
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
