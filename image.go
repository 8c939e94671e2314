package ihex

import (
	"bytes"
	"slices"
	"sort"
)

// DefaultRowBytes is the number of data bytes per record written by a new Image.
const DefaultRowBytes = 16

// Area is a contiguous run of known bytes.
type Area struct {
	Address uint32 // Starting address of area
	Data    []byte // Area bytes
}

func (a *Area) end() uint64 {
	return uint64(a.Address) + uint64(len(a.Data))
}

// Image is a sparse memory image with the addressing mode and start
// address of the Intel HEX file it came from or is written to.
type Image struct {
	areas        []*Area // Sorted by address, never overlapping or touching
	startAddress uint32  // Linear start address, or CS<<16 | IP
	startFlag    bool    // Start address is set
	mode         Mode    // Base-address record family
	rowBytes     int     // Data bytes per written record
}

// NewImage returns an empty image in 8-bit mode with the default row width.
func NewImage() *Image {
	m := new(Image)
	m.Clear()
	return m
}

// Clear drops all areas and the start address and restores the defaults.
func (m *Image) Clear() {
	m.areas = []*Area{}
	m.startAddress = 0
	m.startFlag = false
	m.mode = Mode8
	m.rowBytes = DefaultRowBytes
}

func (m *Image) Mode() Mode {
	return m.mode
}

// SetMode selects which base-address records Encode emits.
func (m *Image) SetMode(mode Mode) error {
	if !mode.valid() {
		return newError(ConfigError, f("invalid mode: %d", mode))
	}
	m.mode = mode
	return nil
}

func (m *Image) RowBytes() int {
	return m.rowBytes
}

// SetRowBytes sets the output row width, 1 to 255 bytes.
func (m *Image) SetRowBytes(n int) error {
	if n < 1 || n > MaxRecordData {
		return newError(ConfigError, f("value out of range: (%d)", n))
	}
	m.rowBytes = n
	return nil
}

// GetStartAddress returns the start address, packed as CS<<16 | IP for
// segmented images.
func (m *Image) GetStartAddress() (adr uint32, ok bool) {
	if m.startFlag {
		return m.startAddress, true
	}
	return 0, false
}

// SetStartAddress sets a 32-bit linear start address.
func (m *Image) SetStartAddress(adr uint32) {
	m.startAddress = adr
	m.startFlag = true
}

// GetStartSegment returns the start address as a CS:IP pair.
func (m *Image) GetStartSegment() (cs, ip uint16, ok bool) {
	if m.startFlag {
		return uint16(m.startAddress >> 16), uint16(m.startAddress), true
	}
	return 0, 0, false
}

// SetStartSegment sets a CS:IP start address.
func (m *Image) SetStartSegment(cs, ip uint16) {
	m.SetStartAddress(uint32(cs)<<16 | uint32(ip))
}

func (m *Image) ClearStartAddress() {
	m.startAddress = 0
	m.startFlag = false
}

// Areas returns copies of all areas in ascending address order.
func (m *Image) Areas() []Area {
	areas := make([]Area, 0, len(m.areas))
	for _, a := range m.areas {
		areas = append(areas, Area{Address: a.Address, Data: slices.Clone(a.Data)})
	}
	return areas
}

// InsertData stores bytes at adr. Every area the new range overlaps or
// touches is merged with it into one area; the new bytes win where they
// overlap stored ones.
func (m *Image) InsertData(adr uint32, bytes []byte) error {
	end := uint64(adr) + uint64(len(bytes))
	if end > 1<<32 {
		return newError(RangeError, f("data at %#x exceeds 32-bit address space", adr))
	}
	if len(bytes) == 0 {
		return nil
	}

	i := m.search(adr)
	j := i + sort.Search(len(m.areas)-i, func(n int) bool {
		return uint64(m.areas[i+n].Address) > end
	})

	if j == i+1 && m.areas[i].Address <= adr {
		// Only one area involved and nothing in front of it: overwrite
		// in place, growing the tail with append.
		a := m.areas[i]
		off := adr - a.Address
		if end <= a.end() {
			copy(a.Data[off:], bytes)
		} else {
			a.Data = append(a.Data[:off], bytes...)
		}
		return nil
	}

	start, stop := uint64(adr), end
	if i < j {
		start = min(start, uint64(m.areas[i].Address))
		stop = max(stop, m.areas[j-1].end())
	}
	data := make([]byte, stop-start)
	for _, a := range m.areas[i:j] {
		copy(data[uint64(a.Address)-start:], a.Data)
	}
	copy(data[uint64(adr)-start:], bytes)

	m.areas = slices.Replace(m.areas, i, j, &Area{Address: uint32(start), Data: data})
	return nil
}

// GetArea returns the start of the area containing adr. The address just
// past an area's last byte counts as contained.
func (m *Image) GetArea(adr uint32) (uint32, error) {
	if i := m.search(adr); i < len(m.areas) && m.areas[i].Address <= adr {
		return m.areas[i].Address, nil
	}
	return 0, newError(NotFoundError, f("no area contains address %#x", adr))
}

// search returns the index of the first area ending at or after adr.
func (m *Image) search(adr uint32) int {
	return sort.Search(len(m.areas), func(n int) bool {
		return m.areas[n].end() >= uint64(adr)
	})
}

// ToBinary flattens size bytes starting at address, filling gaps with padding.
func (m *Image) ToBinary(address uint32, size uint32, padding byte) []byte {
	data := bytes.Repeat([]byte{padding}, int(size))

	lo, hi := uint64(address), uint64(address)+uint64(size)
	for _, a := range m.areas {
		start, stop := max(lo, uint64(a.Address)), min(hi, a.end())
		if start < stop {
			copy(data[start-lo:stop-lo], a.Data[start-uint64(a.Address):])
		}
	}

	return data
}
