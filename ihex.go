// Package ihex reads and writes Intel HEX files.
//
// An Intel HEX file is decoded into an Image: a sparse set of contiguous
// areas, the addressing mode (8, 16 or 32 bit) implied by its base-address
// records and an optional start address. Encoding an Image produces the
// records back in ascending address order, emitting extended segment or
// extended linear address records as the selected mode requires.
package ihex

import (
	"bufio"
	"io"
	"iter"
	"os"
	"strings"
)

// Read decodes an Intel HEX stream into a new Image.
func Read(reader io.Reader) (*Image, error) {
	m := NewImage()
	if err := m.ParseIntelHex(reader); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadLines decodes a sequence of Intel HEX lines into a new Image.
func ReadLines(lines iter.Seq[string]) (*Image, error) {
	m := NewImage()
	if err := m.ParseLines(lines); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile decodes the named Intel HEX file into a new Image.
func ReadFile(name string) (*Image, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// ParseIntelHex replaces the contents of m with the decoded stream. On
// error m is left unchanged.
func (m *Image) ParseIntelHex(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	lines := func(yield func(string) bool) {
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}

	err := m.ParseLines(lines)
	if serr := scanner.Err(); serr != nil {
		return wrapError(FormatError, serr.Error(), serr)
	}
	return err
}

// ParseLines replaces the contents of m with the decoded lines. Surrounding
// whitespace and blank lines are ignored, and nothing after the end of file
// record is read. Input without an end of file record is rejected with
// FormatError, although some other Intel HEX readers accept it. The row
// width of m is kept. On error m is left unchanged.
func (m *Image) ParseLines(lines iter.Seq[string]) error {
	tmp := NewImage()
	tmp.rowBytes = m.rowBytes

	state := addressState{mode: Mode8}
	var lineNum uint
	eof := false
	for line := range lines {
		lineNum++
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		rec, err := ParseLine(line)
		if err == nil {
			eof, err = tmp.parseRecord(&state, rec)
		}
		if err != nil {
			return atLine(err, lineNum)
		}
		if eof {
			break
		}
	}
	if !eof {
		return atLine(newError(FormatError, f("no end of file line")), lineNum)
	}

	tmp.mode = state.mode
	*m = *tmp
	return nil
}

func (m *Image) parseRecord(state *addressState, rec Record) (eof bool, err error) {
	switch rec.Type {
	case DataRecord:
		err = m.InsertData(state.absolute(rec.Address), rec.Data)
	case EOFRecord:
		eof, err = true, checkEOF(rec)
	case ExtendedSegmentAddressRecord, ExtendedLinearAddressRecord:
		err = state.apply(rec)
	case StartSegmentAddressRecord, StartLinearAddressRecord:
		if m.startFlag {
			return false, newError(FormatError, f("multiple start address lines"))
		}
		var adr uint32
		if adr, err = getStartAddress(rec); err != nil {
			return false, err
		}
		m.SetStartAddress(adr)
		if rec.Type == StartSegmentAddressRecord {
			state.mode = Mode16
		} else {
			state.mode = Mode32
		}
	default:
		err = newError(FormatError, f("invalid record type %02X", byte(rec.Type)))
	}
	return eof, err
}

// Encode returns the Intel HEX text for m. It fails with RangeError,
// before producing any output, if an area lies outside what the mode can
// address.
func (m *Image) Encode() (string, error) {
	var sb strings.Builder

	state := addressState{mode: m.mode}
	for _, a := range m.areas {
		if err := m.encodeArea(&sb, &state, a); err != nil {
			return "", err
		}
	}

	if m.startFlag {
		var err error
		switch m.mode {
		case Mode16:
			err = writeRecord(&sb, startRecord(StartSegmentAddressRecord, m.startAddress))
		case Mode32:
			err = writeRecord(&sb, startRecord(StartLinearAddressRecord, m.startAddress))
		}
		if err != nil {
			return "", err
		}
	}

	if err := writeRecord(&sb, Record{Type: EOFRecord}); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// encodeArea writes one area as rows of at most rowBytes. Outside 8-bit
// mode a row never crosses a 64 KiB boundary.
func (m *Image) encodeArea(sb *strings.Builder, state *addressState, a *Area) error {
	limit := m.mode.limit()
	for pos := 0; pos < len(a.Data); {
		abs := uint64(a.Address) + uint64(pos)
		if abs >= limit {
			return newError(RangeError, f("address %#x out of range in %d-bit mode", abs, uint8(m.mode)))
		}

		n := min(m.rowBytes, len(a.Data)-pos)
		if m.mode != Mode8 {
			n = min(n, int((abs|0xFFFF)+1-abs))
		}

		offset, base := state.locate(uint32(abs))
		if base != nil {
			if err := writeRecord(sb, *base); err != nil {
				return err
			}
		}
		rec := Record{Type: DataRecord, Address: offset, Data: a.Data[pos : pos+n]}
		if err := writeRecord(sb, rec); err != nil {
			return err
		}
		pos += n
	}
	return nil
}

func writeRecord(sb *strings.Builder, rec Record) error {
	line, err := MakeLine(rec.Type, rec.Address, rec.Data)
	if err != nil {
		return err
	}
	sb.WriteString(line)
	return nil
}

// DumpIntelHex writes the Intel HEX text for m to writer.
func (m *Image) DumpIntelHex(writer io.Writer) error {
	text, err := m.Encode()
	if err != nil {
		return err
	}
	_, err = io.WriteString(writer, text)
	return err
}

// WriteFile writes the Intel HEX text for m to the named file.
func (m *Image) WriteFile(name string) (err error) {
	text, err := m.Encode()
	if err != nil {
		return err
	}

	file, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	_, err = io.WriteString(file, text)
	return err
}
