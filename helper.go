package ihex

import (
	"encoding/binary"
)

func checkEOF(rec Record) error {
	if len(rec.Data) != 0 {
		return newError(FormatError, f("incorrect data length field in eof line"))
	}
	if rec.Address != 0 {
		return newError(FormatError, f("incorrect address field in eof line"))
	}
	return nil
}

func getBaseAddress(rec Record) (uint16, error) {
	if len(rec.Data) != 2 {
		return 0, newError(FormatError, f("incorrect data length field in %v line", rec.Type))
	}
	if rec.Address != 0 {
		return 0, newError(FormatError, f("incorrect address field in %v line", rec.Type))
	}
	return binary.BigEndian.Uint16(rec.Data), nil
}

func getStartAddress(rec Record) (uint32, error) {
	if len(rec.Data) != 4 {
		return 0, newError(FormatError, f("incorrect data length field in %v line", rec.Type))
	}
	if rec.Address != 0 {
		return 0, newError(FormatError, f("incorrect address field in %v line", rec.Type))
	}
	return binary.BigEndian.Uint32(rec.Data), nil
}

func startRecord(t RecordType, adr uint32) Record {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, adr)
	return Record{Type: t, Data: data}
}
