package ihex

import (
	"encoding/binary"
)

// Mode selects the family of base-address records used by an Image.
type Mode uint8

const (
	Mode8  Mode = 8  // Plain 16-bit address space, no base records
	Mode16 Mode = 16 // Extended/start segment address records
	Mode32 Mode = 32 // Extended/start linear address records
)

func (m Mode) valid() bool {
	return m == Mode8 || m == Mode16 || m == Mode32
}

// limit is one past the highest row address the mode can express.
func (m Mode) limit() uint64 {
	switch m {
	case Mode8:
		return 0x10000
	case Mode16:
		return 0x100000
	}
	return 0x100000000
}

// addressState tracks the base address that record offsets are relative to.
type addressState struct {
	mode Mode
	base uint32 // Absolute address of offset 0
}

// locate splits abs into a record offset and reports the base record that
// has to precede the data record, if the current base does not cover abs.
func (s *addressState) locate(abs uint32) (offset uint16, rec *Record) {
	offset = uint16(abs & 0xFFFF)
	base := abs - uint32(offset)

	switch s.mode {
	case Mode16:
		if base != s.base {
			s.base = base
			rec = baseRecord(ExtendedSegmentAddressRecord, uint16(base>>4))
		}
	case Mode32:
		if base != s.base {
			s.base = base
			rec = baseRecord(ExtendedLinearAddressRecord, uint16(base>>16))
		}
	}
	return offset, rec
}

// absolute resolves a data record offset against the current base.
func (s *addressState) absolute(offset uint16) uint32 {
	return s.base + uint32(offset)
}

// apply consumes an extended address record.
func (s *addressState) apply(rec Record) error {
	value, err := getBaseAddress(rec)
	if err != nil {
		return err
	}
	switch rec.Type {
	case ExtendedSegmentAddressRecord:
		s.mode = Mode16
		s.base = uint32(value) << 4
	case ExtendedLinearAddressRecord:
		s.mode = Mode32
		s.base = uint32(value) << 16
	}
	return nil
}

func baseRecord(t RecordType, value uint16) *Record {
	data := make([]byte, 2)
	binary.BigEndian.PutUint16(data, value)
	return &Record{Type: t, Data: data}
}
