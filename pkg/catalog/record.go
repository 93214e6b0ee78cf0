package catalog

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math"
	"time"

	"github.com/segmentio/ksuid"
)

// recordHeaderSize is the fixed prefix of an encoded entity:
// [CRC32(4)][Timestamp(8)][X(8)][Y(8)][ID(20)][DataSize(4)]
const recordHeaderSize = 4 + 8 + 8 + 8 + idSize + 4

const idSize = 20 // ksuid binary length

// RecordCodec serializes entities for the persistence layer. The CRC32 covers
// everything after the checksum field, so a torn or corrupted record is
// rejected on decode instead of resurfacing as a bogus entity.
type RecordCodec struct{}

// NewRecordCodec creates a new record codec instance.
func NewRecordCodec() *RecordCodec {
	return &RecordCodec{}
}

// Encode serializes an entity into the binary record format.
func (c *RecordCodec) Encode(e *Entity) ([]byte, error) {
	if e == nil {
		return nil, fmt.Errorf("codec: nil entity")
	}

	buf := make([]byte, recordHeaderSize+len(e.Data))

	binary.LittleEndian.PutUint64(buf[4:], uint64(time.Now().UnixNano()))
	binary.LittleEndian.PutUint64(buf[12:], math.Float64bits(e.X))
	binary.LittleEndian.PutUint64(buf[20:], math.Float64bits(e.Y))
	copy(buf[28:], e.ID.Bytes())
	binary.LittleEndian.PutUint32(buf[48:], uint32(len(e.Data)))
	copy(buf[recordHeaderSize:], e.Data)

	binary.LittleEndian.PutUint32(buf[0:], crc32.ChecksumIEEE(buf[4:]))
	return buf, nil
}

// Decode deserializes a binary record back into an entity.
func (c *RecordCodec) Decode(data []byte) (*Entity, error) {
	if len(data) < recordHeaderSize {
		return nil, fmt.Errorf("codec: record too short: %d bytes", len(data))
	}

	stored := binary.LittleEndian.Uint32(data[0:])
	if actual := crc32.ChecksumIEEE(data[4:]); actual != stored {
		return nil, fmt.Errorf("codec: CRC mismatch: stored %08x, computed %08x", stored, actual)
	}

	dataSize := binary.LittleEndian.Uint32(data[48:])
	if len(data) != recordHeaderSize+int(dataSize) {
		return nil, fmt.Errorf("codec: record size mismatch: have %d bytes, header says %d",
			len(data), recordHeaderSize+int(dataSize))
	}

	id, err := ksuid.FromBytes(data[28 : 28+idSize])
	if err != nil {
		return nil, fmt.Errorf("codec: invalid entity id: %w", err)
	}

	e := &Entity{
		ID: id,
		X:  math.Float64frombits(binary.LittleEndian.Uint64(data[12:])),
		Y:  math.Float64frombits(binary.LittleEndian.Uint64(data[20:])),
	}
	if dataSize > 0 {
		e.Data = make([]byte, dataSize)
		copy(e.Data, data[recordHeaderSize:])
	}
	return e, nil
}
