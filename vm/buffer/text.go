// Package buffer provides the two growable buffers used by the runtime: a
// TextBuffer for assembling strings and a ByteBuffer for the little-endian
// serialization of compiled functions.
//
// Both grow with the same rule. An empty buffer is allocated at
// max(requested, minimum); after that, whenever the required size reaches the
// capacity, the capacity becomes max(requested, capacity*3/2).
package buffer

import "unicode/utf8"

// TextMinSize is the inline storage of a TextBuffer. Strings that fit are
// built without touching the heap.
const TextMinSize = 64

// TextBuffer is an append-only byte string builder with 64 bytes of inline
// storage. The zero value is ready to use. A TextBuffer must not be copied
// after first use.
type TextBuffer struct {
	addr  *TextBuffer
	n     int // bytes written
	m     int // capacity, 0 until first write
	small [TextMinSize]byte
	heap  []byte // non-nil once the inline storage is outgrown
}

func (b *TextBuffer) copyCheck() {
	if b.addr == nil {
		b.addr = b
	} else if b.addr != b {
		panic("buffer: illegal use of non-zero TextBuffer copied by value")
	}
}

func (b *TextBuffer) store() []byte {
	if b.heap != nil {
		return b.heap
	}
	return b.small[:]
}

func (b *TextBuffer) realloc(newsize int) {
	if b.m == 0 {
		if newsize <= TextMinSize {
			b.m = TextMinSize
			return
		}
		b.heap = make([]byte, newsize)
		b.m = newsize
		return
	}
	if newsize >= b.m {
		if size := b.m * 3 / 2; size > newsize {
			newsize = size
		}
		grown := make([]byte, newsize)
		copy(grown, b.store()[:b.n])
		b.heap = grown
		b.m = newsize
	}
}

// PutC appends a single byte.
func (b *TextBuffer) PutC(c byte) {
	b.copyCheck()
	if b.m == 0 || b.n >= b.m {
		b.realloc(b.n + 1)
	}
	b.store()[b.n] = c
	b.n++
}

// PutRune appends the UTF-8 encoding of r.
func (b *TextBuffer) PutRune(r rune) {
	if r < utf8.RuneSelf {
		b.PutC(byte(r))
		return
	}
	var tmp [utf8.UTFMax]byte
	n := utf8.EncodeRune(tmp[:], r)
	b.PutB(tmp[:n])
}

// PutS appends a string.
func (b *TextBuffer) PutS(s string) {
	b.copyCheck()
	if b.m == 0 || b.n+len(s) >= b.m {
		b.realloc(b.n + len(s))
	}
	b.n += copy(b.store()[b.n:], s)
}

// PutB appends raw bytes.
func (b *TextBuffer) PutB(data []byte) {
	b.copyCheck()
	if b.m == 0 || b.n+len(data) >= b.m {
		b.realloc(b.n + len(data))
	}
	b.n += copy(b.store()[b.n:], data)
}

// Len returns the number of bytes written.
func (b *TextBuffer) Len() int { return b.n }

// Cap returns the current capacity, or 0 if nothing has been written.
func (b *TextBuffer) Cap() int { return b.m }

// Inline reports whether the content still lives in the inline storage.
func (b *TextBuffer) Inline() bool { return b.heap == nil }

// Bytes returns the written bytes. The slice aliases the buffer and is only
// valid until the next write.
func (b *TextBuffer) Bytes() []byte { return b.store()[:b.n] }

// String returns a copy of the written bytes as a string.
func (b *TextBuffer) String() string { return string(b.store()[:b.n]) }

// Reset empties the buffer, keeping its capacity.
func (b *TextBuffer) Reset() { b.n = 0 }
