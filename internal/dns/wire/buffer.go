// Package wire implements the DNS wire format (RFC 1035): a fixed 512-byte
// cursor-based buffer, the 12-byte header bitfield layout, length-prefixed
// domain names with compression-pointer support, and question/resource
// record/packet encoding and decoding.
package wire

import "fmt"

// bufferSize is the classic UDP DNS payload ceiling this codec targets.
const bufferSize = 512

// maxPointerJumps bounds compression-pointer chasing so a pathological
// (but structurally backward) chain of pointers cannot make a single
// ReadQName call do unbounded work.
const maxPointerJumps = 20

// maxNameLength is the maximum decoded dotted-name length RFC 1035 allows.
const maxNameLength = 255

// Buffer is a fixed-capacity 512-octet window with a read/write cursor.
// It is single-owner: callers never see the backing array directly, only
// typed reads and writes, so pos and size can never drift out of sync with
// each other the way a raw slice alias would allow.
type Buffer struct {
	buf  [bufferSize]byte
	pos  int
	size int
}

// NewBuffer returns an empty buffer ready for writing from offset 0.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// FromBytes returns a buffer pre-loaded with data (e.g. a received
// datagram), positioned at offset 0 for reading. It fails if data exceeds
// the 512-byte wire ceiling.
func FromBytes(data []byte) (*Buffer, error) {
	if len(data) > bufferSize {
		return nil, fmt.Errorf("%w: message of %d bytes exceeds %d byte limit", ErrOverflow, len(data), bufferSize)
	}
	b := &Buffer{size: len(data)}
	copy(b.buf[:], data)
	return b, nil
}

// Pos returns the current cursor position.
func (b *Buffer) Pos() int { return b.pos }

// Size returns the number of bytes written (or received) so far.
func (b *Buffer) Size() int { return b.size }

// Seek repositions the read/write cursor without touching size. Used by
// DecodePacket to rewind to offset 0 before reading a freshly received
// datagram.
func (b *Buffer) Seek(pos int) {
	b.pos = pos
}

// Bytes returns the written region as a slice aliasing the internal array.
// It is a short-lived borrow intended to be handed directly to a single
// socket send call, not retained past that call.
func (b *Buffer) Bytes() []byte {
	return b.buf[:b.size]
}

func (b *Buffer) extend(upto int) {
	if upto > b.size {
		b.size = upto
	}
}

// ReadU8 reads one byte at the cursor, advancing it by one.
func (b *Buffer) ReadU8() (uint8, error) {
	v, err := b.ReadU8At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos++
	return v, nil
}

// ReadU8At reads one byte at an absolute offset without moving the cursor.
func (b *Buffer) ReadU8At(p int) (uint8, error) {
	if p < 0 || p+1 > bufferSize {
		return 0, fmt.Errorf("%w: read u8 at %d", ErrOverflow, p)
	}
	if p+1 > b.size {
		return 0, fmt.Errorf("%w: read u8 at %d past end of %d-byte message", ErrUnexpectedEOF, p, b.size)
	}
	return b.buf[p], nil
}

// ReadU16 reads a big-endian uint16 at the cursor, advancing it by two.
func (b *Buffer) ReadU16() (uint16, error) {
	v, err := b.ReadU16At(b.pos)
	if err != nil {
		return 0, err
	}
	b.pos += 2
	return v, nil
}

// ReadU16At reads a big-endian uint16 at an absolute offset without moving
// the cursor. Used for chasing compression pointers.
func (b *Buffer) ReadU16At(p int) (uint16, error) {
	if p < 0 || p+2 > bufferSize {
		return 0, fmt.Errorf("%w: read u16 at %d", ErrOverflow, p)
	}
	if p+2 > b.size {
		return 0, fmt.Errorf("%w: read u16 at %d past end of %d-byte message", ErrUnexpectedEOF, p, b.size)
	}
	return uint16(b.buf[p])<<8 | uint16(b.buf[p+1]), nil
}

// ReadU32 reads a big-endian uint32 at the cursor, advancing it by four.
func (b *Buffer) ReadU32() (uint32, error) {
	if b.pos+4 > bufferSize {
		return 0, fmt.Errorf("%w: read u32 at %d", ErrOverflow, b.pos)
	}
	hi, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	lo, err := b.ReadU16()
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// WriteU8 writes one byte at the cursor, advancing it by one.
func (b *Buffer) WriteU8(v uint8) error {
	if b.pos+1 > bufferSize {
		return fmt.Errorf("%w: write u8 at %d", ErrOverflow, b.pos)
	}
	b.buf[b.pos] = v
	b.pos++
	b.extend(b.pos)
	return nil
}

// WriteU16 writes a big-endian uint16 at the cursor, advancing it by two.
func (b *Buffer) WriteU16(v uint16) error {
	if b.pos+2 > bufferSize {
		return fmt.Errorf("%w: write u16 at %d", ErrOverflow, b.pos)
	}
	b.buf[b.pos] = byte(v >> 8)
	b.buf[b.pos+1] = byte(v)
	b.pos += 2
	b.extend(b.pos)
	return nil
}

// WriteU32 writes a big-endian uint32 at the cursor, advancing it by four.
func (b *Buffer) WriteU32(v uint32) error {
	if err := b.WriteU16(uint16(v >> 16)); err != nil {
		return err
	}
	return b.WriteU16(uint16(v))
}

// SetU16 overwrites a previously reserved two-byte slot at an absolute
// offset without moving the cursor. Used to back-patch rdlength once the
// rdata's encoded length is known.
func (b *Buffer) SetU16(val uint16, p int) error {
	if p < 0 || p+2 > bufferSize {
		return fmt.Errorf("%w: set u16 at %d", ErrOverflow, p)
	}
	b.buf[p] = byte(val >> 8)
	b.buf[p+1] = byte(val)
	b.extend(p + 2)
	return nil
}

// writeBytes writes raw bytes at the cursor, advancing it by len(data).
func (b *Buffer) writeBytes(data []byte) error {
	if b.pos+len(data) > bufferSize {
		return fmt.Errorf("%w: write %d bytes at %d", ErrOverflow, len(data), b.pos)
	}
	copy(b.buf[b.pos:], data)
	b.pos += len(data)
	b.extend(b.pos)
	return nil
}

// readBytesAt reads n raw bytes at an absolute offset without moving the
// cursor.
func (b *Buffer) readBytesAt(p, n int) ([]byte, error) {
	if p < 0 || p+n > bufferSize {
		return nil, fmt.Errorf("%w: read %d bytes at %d", ErrOverflow, n, p)
	}
	if p+n > b.size {
		return nil, fmt.Errorf("%w: read %d bytes at %d past end of %d-byte message", ErrUnexpectedEOF, n, p, b.size)
	}
	out := make([]byte, n)
	copy(out, b.buf[p:p+n])
	return out, nil
}
