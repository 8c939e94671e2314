package main

import (
	"encoding/hex"
	"flag"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/narpfel/ihex"
)

// Writes an Intel HEX file from command line arguments of the form
// ADDRESS=HEXBYTES, e.g. 0x10008000=01020304.
func main() {
	var output string
	var mode uint
	var row int
	var start string

	flag.StringVar(&output, "o", "output.hex", "Intel HEX file to write")
	flag.UintVar(&mode, "m", 32, "Addressing mode (8, 16 or 32)")
	flag.IntVar(&row, "r", ihex.DefaultRowBytes, "Data bytes per record")
	flag.StringVar(&start, "s", "", "Start address")

	flag.Parse()

	mem := ihex.NewImage()
	if err := mem.SetMode(ihex.Mode(mode)); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if err := mem.SetRowBytes(row); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if len(start) != 0 {
		adr, err := strconv.ParseUint(start, 0, 32)
		if err != nil {
			log.Fatalf("%v: start: %v", os.Args[0], err)
		}
		mem.SetStartAddress(uint32(adr))
	}

	for _, arg := range flag.Args() {
		adr, data, err := parseArea(arg)
		if err != nil {
			log.Fatalf("%v: %v: %v", os.Args[0], arg, err)
		}
		if err = mem.InsertData(adr, data); err != nil {
			log.Fatalf("%v: %v: %v", os.Args[0], arg, err)
		}
	}

	if err := mem.WriteFile(output); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}

func parseArea(arg string) (uint32, []byte, error) {
	adrText, dataText, ok := strings.Cut(arg, "=")
	if !ok {
		return 0, nil, strconv.ErrSyntax
	}
	adr, err := strconv.ParseUint(adrText, 0, 32)
	if err != nil {
		return 0, nil, err
	}
	data, err := hex.DecodeString(dataText)
	if err != nil {
		return 0, nil, err
	}
	return uint32(adr), data, nil
}
