package ihex

import (
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// RecordType is the type byte of an Intel HEX record.
type RecordType byte

// Constants definitions of IntelHex record types
const (
	DataRecord                   RecordType = 0x00 // Record with data bytes
	EOFRecord                    RecordType = 0x01 // Record with end of file indicator
	ExtendedSegmentAddressRecord RecordType = 0x02 // Record with segment base (address bits 4..19)
	StartSegmentAddressRecord    RecordType = 0x03 // Record with CS:IP start address
	ExtendedLinearAddressRecord  RecordType = 0x04 // Record with upper 16 bits of linear address
	StartLinearAddressRecord     RecordType = 0x05 // Record with 32-bit start address
)

func (t RecordType) String() string {
	switch t {
	case DataRecord:
		return "data"
	case EOFRecord:
		return "end of file"
	case ExtendedSegmentAddressRecord:
		return "extended segment address"
	case StartSegmentAddressRecord:
		return "start segment address"
	case ExtendedLinearAddressRecord:
		return "extended linear address"
	case StartLinearAddressRecord:
		return "start linear address"
	}
	return f("type %02X", byte(t))
}

// MaxRecordData is the largest payload one record can carry.
const MaxRecordData = 0xFF

// Record is one decoded line.
type Record struct {
	Type    RecordType
	Address uint16 // 16-bit offset field as encoded
	Data    []byte
}

// Checksum returns the two's complement of the byte sum, as stored in the
// last byte of every record.
func Checksum(bytes []byte) byte {
	var sum byte
	for _, b := range bytes {
		sum += b
	}
	return -sum
}

// ParseLine decodes a single record. The line must not carry surrounding
// whitespace.
func ParseLine(line string) (Record, error) {
	if len(line) == 0 || line[0] != ':' {
		return Record{}, newError(FormatError, f("no colon char on the first line character"))
	}
	bytes, err := hex.DecodeString(line[1:])
	if err != nil {
		return Record{}, wrapError(FormatError, f("invalid hex data: %v", err), err)
	}
	if len(bytes) < 5 {
		return Record{}, newError(FormatError, f("not enough data bytes"))
	}
	size := int(bytes[0])
	if len(bytes) < size+5 {
		return Record{}, newError(FormatError, f("record truncated (%d of %d bytes)", len(bytes), size+5))
	}
	if len(bytes) > size+5 {
		return Record{}, newError(FormatError, f("incorrect data length"))
	}
	sum := Checksum(bytes[:size+4])
	if last := bytes[size+4]; sum != last {
		return Record{}, newError(ChecksumError, f("incorrect checksum (sum = %02X != %02X)", sum, last))
	}
	return Record{
		Type:    RecordType(bytes[3]),
		Address: binary.BigEndian.Uint16(bytes[1:3]),
		Data:    bytes[4 : size+4],
	}, nil
}

// MakeLine encodes a single record, terminated by a newline.
func MakeLine(t RecordType, adr uint16, data []byte) (string, error) {
	if len(data) > MaxRecordData {
		return "", newError(RangeError, f("record data too long (%d bytes)", len(data)))
	}
	bytes := make([]byte, 4, len(data)+5)
	bytes[0] = byte(len(data))
	binary.BigEndian.PutUint16(bytes[1:3], adr)
	bytes[3] = byte(t)
	bytes = append(bytes, data...)
	bytes = append(bytes, Checksum(bytes))

	var sb strings.Builder
	sb.Grow(2*len(bytes) + 2)
	sb.WriteByte(':')
	sb.WriteString(strings.ToUpper(hex.EncodeToString(bytes)))
	sb.WriteByte('\n')
	return sb.String(), nil
}

// String returns the encoded record. A payload too long for one record
// yields a diagnostic instead.
func (r Record) String() string {
	line, err := MakeLine(r.Type, r.Address, r.Data)
	if err != nil {
		return f("invalid %v record (%d bytes)", r.Type, len(r.Data))
	}
	return line
}
