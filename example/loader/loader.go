package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/narpfel/ihex"
)

// Prints the areas of an Intel HEX file and, optionally, a flat window of it.
func main() {
	var input string
	var from uint
	var size uint
	var padding uint

	flag.StringVar(&input, "i", "example.hex", "Intel HEX file to read")
	flag.UintVar(&from, "a", 0, "Start address of binary window")
	flag.UintVar(&size, "n", 0, "Size of binary window")
	flag.UintVar(&padding, "p", 0xFF, "Padding byte for gaps")

	flag.Parse()

	if flag.NArg() != 0 {
		log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
	}

	mem, err := ihex.ReadFile(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	fmt.Printf("mode: %d-bit\n", mem.Mode())
	if adr, ok := mem.GetStartAddress(); ok {
		fmt.Printf("start: %#08x\n", adr)
	}
	for _, area := range mem.Areas() {
		fmt.Printf("%#08x: %d bytes\n", area.Address, len(area.Data))
	}
	if size != 0 {
		fmt.Printf("% x\n", mem.ToBinary(uint32(from), uint32(size), byte(padding)))
	}
}
