package buffer

import (
	"encoding/binary"
	"errors"
	"math"
	"math/bits"
)

// ByteMinSize is the smallest capacity a ByteBuffer allocates.
const ByteMinSize = 64

// ErrShortBuffer is recorded when a read runs past the written data.
var ErrShortBuffer = errors.New("buffer: read past end of data")

// ErrUnterminated is recorded when a zero-terminated string has no terminator.
var ErrUnterminated = errors.New("buffer: unterminated string")

// ByteBuffer is a growable octet buffer with typed little-endian put/get
// operations. Writes append at the end; reads consume from an independent
// cursor, so a buffer filled during construction can be rewound and read back.
//
// Read errors are sticky: once a read fails every further read returns the
// zero value, and Err reports the first failure.
type ByteBuffer struct {
	data []byte // len(data) is the capacity
	n    int    // bytes written
	pos  int    // read cursor
	err  error
}

// NewByteBuffer returns a buffer with room for at least initsize bytes.
func NewByteBuffer(initsize int) *ByteBuffer {
	b := &ByteBuffer{}
	b.realloc(initsize)
	return b
}

// FromBytes returns a buffer holding a copy of data with the cursor at the
// start, ready for reading.
func FromBytes(data []byte) *ByteBuffer {
	b := NewByteBuffer(len(data))
	b.PutB(data)
	return b
}

func powerCeil(x int) int {
	if x <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(x-1))
}

func (b *ByteBuffer) realloc(newsize int) {
	if b.data == nil {
		size := ByteMinSize
		if newsize > ByteMinSize {
			size = powerCeil(newsize)
		}
		b.data = make([]byte, size)
		b.n = 0
		return
	}
	if m := len(b.data); newsize >= m {
		if size := m * 3 / 2; size > newsize {
			newsize = size
		}
		grown := make([]byte, newsize)
		copy(grown, b.data[:b.n])
		b.data = grown
	}
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// PutC appends one byte.
func (b *ByteBuffer) PutC(c byte) {
	if b.data == nil || b.n >= len(b.data) {
		b.realloc(b.n + 1)
	}
	b.data[b.n] = c
	b.n++
}

// PutB appends raw bytes.
func (b *ByteBuffer) PutB(p []byte) {
	if b.data == nil || b.n+len(p) > len(b.data) {
		b.realloc(b.n + len(p))
	}
	b.n += copy(b.data[b.n:], p)
}

// PutS appends the bytes of s without a terminator or length.
func (b *ByteBuffer) PutS(s string) {
	if b.data == nil || b.n+len(s) > len(b.data) {
		b.realloc(b.n + len(s))
	}
	b.n += copy(b.data[b.n:], s)
}

// PutSZ appends s followed by a zero byte.
func (b *ByteBuffer) PutSZ(s string) {
	b.PutS(s)
	b.PutC(0)
}

// PutLS appends s prefixed by its byte length as a uint32.
func (b *ByteBuffer) PutLS(s string) {
	b.PutU32(uint32(len(s)))
	b.PutS(s)
}

func (b *ByteBuffer) PutI8(v int8) { b.PutC(byte(v)) }
func (b *ByteBuffer) PutU8(v uint8) { b.PutC(v) }
func (b *ByteBuffer) PutI16(v int16) { b.PutU16(uint16(v)) }
func (b *ByteBuffer) PutI32(v int32) { b.PutU32(uint32(v)) }
func (b *ByteBuffer) PutI64(v int64) { b.PutU64(uint64(v)) }

func (b *ByteBuffer) PutU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.PutB(tmp[:])
}

func (b *ByteBuffer) PutU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.PutB(tmp[:])
}

func (b *ByteBuffer) PutU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	b.PutB(tmp[:])
}

func (b *ByteBuffer) PutF32(f float32) { b.PutU32(math.Float32bits(f)) }
func (b *ByteBuffer) PutF64(f float64) { b.PutU64(math.Float64bits(f)) }

// ---------------------------------------------------------------------------
// Reading
// ---------------------------------------------------------------------------

// next returns the next k unread bytes and advances the cursor, or nil after
// recording ErrShortBuffer.
func (b *ByteBuffer) next(k int) []byte {
	if b.err != nil {
		return nil
	}
	if k < 0 || b.pos+k > b.n {
		b.err = ErrShortBuffer
		return nil
	}
	p := b.data[b.pos : b.pos+k]
	b.pos += k
	return p
}

func (b *ByteBuffer) GetU8() uint8 {
	p := b.next(1)
	if p == nil {
		return 0
	}
	return p[0]
}

func (b *ByteBuffer) GetI8() int8 { return int8(b.GetU8()) }

func (b *ByteBuffer) GetU16() uint16 {
	p := b.next(2)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(p)
}

func (b *ByteBuffer) GetI16() int16 { return int16(b.GetU16()) }

func (b *ByteBuffer) GetU32() uint32 {
	p := b.next(4)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(p)
}

func (b *ByteBuffer) GetI32() int32 { return int32(b.GetU32()) }

func (b *ByteBuffer) GetU64() uint64 {
	p := b.next(8)
	if p == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(p)
}

func (b *ByteBuffer) GetI64() int64 { return int64(b.GetU64()) }
func (b *ByteBuffer) GetF32() float32 { return math.Float32frombits(b.GetU32()) }
func (b *ByteBuffer) GetF64() float64 { return math.Float64frombits(b.GetU64()) }

// GetB returns a copy of the next k bytes.
func (b *ByteBuffer) GetB(k int) []byte {
	p := b.next(k)
	if p == nil {
		return nil
	}
	out := make([]byte, k)
	copy(out, p)
	return out
}

// GetSZ reads a zero-terminated string and consumes the terminator.
func (b *ByteBuffer) GetSZ() string {
	if b.err != nil {
		return ""
	}
	for i := b.pos; i < b.n; i++ {
		if b.data[i] == 0 {
			s := string(b.data[b.pos:i])
			b.pos = i + 1
			return s
		}
	}
	b.err = ErrUnterminated
	return ""
}

// GetLS reads a uint32 length-prefixed string.
func (b *ByteBuffer) GetLS() string {
	size := b.GetU32()
	if b.err != nil {
		return ""
	}
	if uint64(size) > uint64(b.n-b.pos) {
		b.err = ErrShortBuffer
		return ""
	}
	return string(b.next(int(size)))
}

// ---------------------------------------------------------------------------
// Cursor and state
// ---------------------------------------------------------------------------

// Err returns the first read error, if any.
func (b *ByteBuffer) Err() error { return b.err }

// Pos returns the read cursor.
func (b *ByteBuffer) Pos() int { return b.pos }

// Seek moves the read cursor to an absolute offset within the written data.
func (b *ByteBuffer) Seek(off int) {
	if off < 0 || off > b.n {
		b.err = ErrShortBuffer
		return
	}
	b.pos = off
}

// Rewind moves the cursor back to the start and clears any read error.
func (b *ByteBuffer) Rewind() {
	b.pos = 0
	b.err = nil
}

// Remaining returns the number of unread bytes.
func (b *ByteBuffer) Remaining() int { return b.n - b.pos }

// Len returns the number of bytes written.
func (b *ByteBuffer) Len() int { return b.n }

// Cap returns the allocated capacity.
func (b *ByteBuffer) Cap() int { return len(b.data) }

// Bytes returns the written bytes. The slice aliases the buffer.
func (b *ByteBuffer) Bytes() []byte { return b.data[:b.n] }

// Reset discards all content and the cursor, keeping the allocation.
func (b *ByteBuffer) Reset() {
	b.n = 0
	b.pos = 0
	b.err = nil
}
