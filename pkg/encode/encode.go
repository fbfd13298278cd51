// Package encode serializes a ranked result list into one contiguous
// buffer: a fixed header, one fixed-width record per winner, and a
// trailing string pool that stores every distinct string exactly once.
// The buffer is a process-local transfer format for crossing a plugin
// boundary without re-marshaling; the logical layout is the contract, the
// field widths are not.
package encode

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Record is one winner in its encoded form.
type Record struct {
	Index uint32
	Kind  uint8

	Label      string
	FilterText string
	ModuleName string
	TypeName   string
	InsertText string

	TextScore     float64
	SemanticScore float64

	EraseLen uint16
	// GroupID ties an overload set together; -1 means ungrouped.
	GroupID       int32
	HasDiagnostic bool
}

const (
	magic   = 0x424B5231 // "RKB1" little-endian on disk
	version = 1

	headerSize = 12 // magic + version + reserved + count
	recordSize = 48

	flagDiagnostic = 1 << 0
	flagGrouped    = 1 << 1
)

// Encode renders the records into a single buffer.
func Encode(records []Record) []byte {
	pool := newStringPool()

	// Intern up front so the pool region can be sized before writing.
	type offsets struct{ label, filter, module, typeName, insert uint32 }
	offs := make([]offsets, len(records))
	for i, r := range records {
		offs[i] = offsets{
			label:    pool.intern(r.Label),
			filter:   pool.intern(r.FilterText),
			module:   pool.intern(r.ModuleName),
			typeName: pool.intern(r.TypeName),
			insert:   pool.intern(r.InsertText),
		}
	}

	buf := make([]byte, headerSize+recordSize*len(records)+len(pool.data))
	binary.LittleEndian.PutUint32(buf[0:], magic)
	binary.LittleEndian.PutUint16(buf[4:], version)
	binary.LittleEndian.PutUint16(buf[6:], 0)
	binary.LittleEndian.PutUint32(buf[8:], uint32(len(records)))

	at := headerSize
	for i, r := range records {
		flags := uint8(0)
		if r.HasDiagnostic {
			flags |= flagDiagnostic
		}
		groupID := uint32(0)
		if r.GroupID >= 0 {
			flags |= flagGrouped
			groupID = uint32(r.GroupID)
		}

		binary.LittleEndian.PutUint32(buf[at:], r.Index)
		buf[at+4] = r.Kind
		buf[at+5] = flags
		binary.LittleEndian.PutUint16(buf[at+6:], r.EraseLen)
		binary.LittleEndian.PutUint32(buf[at+8:], groupID)
		binary.LittleEndian.PutUint64(buf[at+12:], math.Float64bits(r.TextScore))
		binary.LittleEndian.PutUint64(buf[at+20:], math.Float64bits(r.SemanticScore))
		binary.LittleEndian.PutUint32(buf[at+28:], offs[i].label)
		binary.LittleEndian.PutUint32(buf[at+32:], offs[i].filter)
		binary.LittleEndian.PutUint32(buf[at+36:], offs[i].module)
		binary.LittleEndian.PutUint32(buf[at+40:], offs[i].typeName)
		binary.LittleEndian.PutUint32(buf[at+44:], offs[i].insert)
		at += recordSize
	}

	copy(buf[at:], pool.data)
	return buf
}

// Decode parses a buffer produced by Encode.
func Decode(buf []byte) ([]Record, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("encode: buffer too short for header: %d bytes", len(buf))
	}
	if got := binary.LittleEndian.Uint32(buf[0:]); got != magic {
		return nil, fmt.Errorf("encode: bad magic 0x%08x", got)
	}
	if got := binary.LittleEndian.Uint16(buf[4:]); got != version {
		return nil, fmt.Errorf("encode: unsupported version %d", got)
	}
	count := int(binary.LittleEndian.Uint32(buf[8:]))
	poolStart := headerSize + recordSize*count
	if len(buf) < poolStart {
		return nil, fmt.Errorf("encode: buffer truncated: %d records need %d bytes, have %d",
			count, poolStart, len(buf))
	}
	pool := buf[poolStart:]

	records := make([]Record, count)
	at := headerSize
	for i := range records {
		r := &records[i]
		r.Index = binary.LittleEndian.Uint32(buf[at:])
		r.Kind = buf[at+4]
		flags := buf[at+5]
		r.EraseLen = binary.LittleEndian.Uint16(buf[at+6:])
		r.HasDiagnostic = flags&flagDiagnostic != 0
		if flags&flagGrouped != 0 {
			r.GroupID = int32(binary.LittleEndian.Uint32(buf[at+8:]))
		} else {
			r.GroupID = -1
		}
		r.TextScore = math.Float64frombits(binary.LittleEndian.Uint64(buf[at+12:]))
		r.SemanticScore = math.Float64frombits(binary.LittleEndian.Uint64(buf[at+20:]))

		var err error
		if r.Label, err = poolString(pool, buf[at+28:]); err != nil {
			return nil, err
		}
		if r.FilterText, err = poolString(pool, buf[at+32:]); err != nil {
			return nil, err
		}
		if r.ModuleName, err = poolString(pool, buf[at+36:]); err != nil {
			return nil, err
		}
		if r.TypeName, err = poolString(pool, buf[at+40:]); err != nil {
			return nil, err
		}
		if r.InsertText, err = poolString(pool, buf[at+44:]); err != nil {
			return nil, err
		}
		at += recordSize
	}
	return records, nil
}

// stringPool deduplicates by value: every distinct string is stored once
// as a 4 byte length plus bytes, and referenced by its offset.
type stringPool struct {
	data    []byte
	offsets map[string]uint32
}

func newStringPool() *stringPool {
	return &stringPool{offsets: make(map[string]uint32)}
}

func (p *stringPool) intern(s string) uint32 {
	if off, ok := p.offsets[s]; ok {
		return off
	}
	off := uint32(len(p.data))
	p.data = binary.LittleEndian.AppendUint32(p.data, uint32(len(s)))
	p.data = append(p.data, s...)
	p.offsets[s] = off
	return off
}

func poolString(pool, offField []byte) (string, error) {
	off := binary.LittleEndian.Uint32(offField)
	if int(off)+4 > len(pool) {
		return "", fmt.Errorf("encode: string offset %d outside pool of %d bytes", off, len(pool))
	}
	length := binary.LittleEndian.Uint32(pool[off:])
	end := int(off) + 4 + int(length)
	if end > len(pool) {
		return "", fmt.Errorf("encode: string at offset %d overruns pool", off)
	}
	return string(pool[off+4 : end]), nil
}
