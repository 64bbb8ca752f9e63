// Package extrafield parses and builds the ZIP "extra field" byte stream
// (a list of header_id/payload chunks), and defines the RISC OS ARC0
// (Spark/SparkFS) chunk payload that carries load/exec/attribute metadata.
package extrafield

import (
	"encoding/binary"
	"errors"

	"github.com/cespare/xxhash/v2"
)

// ErrCorrupt is returned when a chunk declares a length that runs past
// the end of the extra field buffer.
var ErrCorrupt = errors.New("extrafield: chunk length runs past end of buffer")

// RiscosHeaderID is the ZIP extra-field header id allocated for RISC OS
// specific information.
const RiscosHeaderID = 0x4341

// arc0Signature identifies the SparkFS ("ARC0") payload layout within a
// RISC OS chunk; other signatures could in principle share header id
// RiscosHeaderID, though none are otherwise documented.
const arc0Signature = 0x30435241

// Chunk is one header_id/payload record of the extra field.
type Chunk struct {
	HeaderID uint16
	Payload  []byte
}

// Parse splits the extra field into its constituent chunks, in order.
// A chunk whose declared payload length runs past the end of the buffer
// is treated as corruption: parsing stops and ErrCorrupt is returned
// alongside whatever chunks were already parsed.
func Parse(extra []byte) ([]Chunk, error) {
	var chunks []Chunk
	for len(extra) > 0 {
		if len(extra) < 4 {
			// Trailing garbage shorter than a header is tolerated silently.
			break
		}
		headerID := binary.LittleEndian.Uint16(extra[0:2])
		length := int(binary.LittleEndian.Uint16(extra[2:4]))
		if length > len(extra)-4 {
			return chunks, ErrCorrupt
		}
		payload := make([]byte, length)
		copy(payload, extra[4:4+length])
		chunks = append(chunks, Chunk{HeaderID: headerID, Payload: payload})
		extra = extra[4+length:]
	}
	return chunks, nil
}

// Build concatenates chunks back into an extra field byte stream.
func Build(chunks []Chunk) []byte {
	size := 0
	for _, c := range chunks {
		size += 4 + len(c.Payload)
	}
	out := make([]byte, 0, size)
	var hdr [4]byte
	for _, c := range chunks {
		binary.LittleEndian.PutUint16(hdr[0:2], c.HeaderID)
		binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(c.Payload)))
		out = append(out, hdr[:]...)
		out = append(out, c.Payload...)
	}
	return out
}

// ARC0 is the decoded payload of a RISC OS ("ARC0"/SparkFS) extra-field
// chunk: load/exec addresses and the RISC OS attribute word.
type ARC0 struct {
	Load uint32
	Exec uint32
	Attr uint32
}

// ParseARC0 decodes a RISC OS chunk payload. ok is false if the payload
// is shorter than the 20-byte ARC0 layout or doesn't carry the ARC0
// signature; bytes beyond the first 20 are ignored.
func ParseARC0(payload []byte) (ARC0, bool) {
	if len(payload) < 20 {
		return ARC0{}, false
	}
	sig := binary.LittleEndian.Uint32(payload[0:4])
	if sig != arc0Signature {
		return ARC0{}, false
	}
	return ARC0{
		Load: binary.LittleEndian.Uint32(payload[4:8]),
		Exec: binary.LittleEndian.Uint32(payload[8:12]),
		Attr: binary.LittleEndian.Uint32(payload[12:16]),
	}, true
}

// Payload encodes a into the 20-byte ARC0 chunk payload, with the
// reserved trailing word always zero, per spec.md §4.4/§6.1.
func (a ARC0) Payload() []byte {
	out := make([]byte, 20)
	binary.LittleEndian.PutUint32(out[0:4], arc0Signature)
	binary.LittleEndian.PutUint32(out[4:8], a.Load)
	binary.LittleEndian.PutUint32(out[8:12], a.Exec)
	binary.LittleEndian.PutUint32(out[12:16], a.Attr)
	binary.LittleEndian.PutUint32(out[16:20], 0)
	return out
}

// FindARC0 returns the index of the RISC OS/ARC0 chunk within chunks, or
// -1 if none is present.
func FindARC0(chunks []Chunk) int {
	for i, c := range chunks {
		if c.HeaderID != RiscosHeaderID {
			continue
		}
		if len(c.Payload) >= 4 && binary.LittleEndian.Uint32(c.Payload[0:4]) == arc0Signature {
			return i
		}
	}
	return -1
}

// ReplaceOrAppendARC0 returns chunks with the RISC OS chunk set to a,
// replacing an existing ARC0 chunk in place or appending a new one.
func ReplaceOrAppendARC0(chunks []Chunk, a ARC0) []Chunk {
	newChunk := Chunk{HeaderID: RiscosHeaderID, Payload: a.Payload()}
	if i := FindARC0(chunks); i >= 0 {
		out := make([]Chunk, len(chunks))
		copy(out, chunks)
		out[i] = newChunk
		return out
	}
	return append(append([]Chunk{}, chunks...), newChunk)
}

// RemoveARC0 returns chunks with any RISC OS/ARC0 chunk removed.
func RemoveARC0(chunks []Chunk) []Chunk {
	i := FindARC0(chunks)
	if i < 0 {
		return chunks
	}
	out := make([]Chunk, 0, len(chunks)-1)
	out = append(out, chunks[:i]...)
	out = append(out, chunks[i+1:]...)
	return out
}

// Digest returns a fast content hash of the raw extra field, used to
// compare a rebuilt extra field against the one a record was parsed from.
func Digest(extra []byte) uint64 {
	return xxhash.Sum64(extra)
}
