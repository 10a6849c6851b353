package wire

import (
	"fmt"

	"github.com/haukened/rr-dns/internal/dns/domain"
)

// Header is the 12-byte fixed section present at the start of every DNS
// message.
type Header struct {
	ID      uint16
	QR      bool
	Opcode  uint8
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	Z       uint8
	RCode   domain.RCode
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// Encode writes the header's 12 bytes at the buffer's cursor.
func (h Header) Encode(b *Buffer) error {
	if err := b.WriteU16(h.ID); err != nil {
		return err
	}

	var flags uint16
	if h.QR {
		flags |= 1 << 15
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= 1 << 10
	}
	if h.TC {
		flags |= 1 << 9
	}
	if h.RD {
		flags |= 1 << 8
	}
	if h.RA {
		flags |= 1 << 7
	}
	flags |= uint16(h.Z&0x07) << 4
	flags |= uint16(h.RCode) & 0x0F

	if err := b.WriteU16(flags); err != nil {
		return err
	}
	if err := b.WriteU16(h.QDCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.ANCount); err != nil {
		return err
	}
	if err := b.WriteU16(h.NSCount); err != nil {
		return err
	}
	return b.WriteU16(h.ARCount)
}

// DecodeHeader reads a 12-byte header at the buffer's cursor.
func DecodeHeader(b *Buffer) (Header, error) {
	var h Header

	id, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: header id: %v", ErrUnexpectedEOF, err)
	}
	h.ID = id

	flags, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: header flags: %v", ErrUnexpectedEOF, err)
	}
	h.QR = flags&(1<<15) != 0
	h.Opcode = uint8(flags>>11) & 0x0F
	h.AA = flags&(1<<10) != 0
	h.TC = flags&(1<<9) != 0
	h.RD = flags&(1<<8) != 0
	h.RA = flags&(1<<7) != 0
	h.Z = uint8(flags>>4) & 0x07
	h.RCode = domain.RCode(flags & 0x0F)
	if !h.RCode.IsValid() {
		return Header{}, fmt.Errorf("%w: rcode %d out of range", ErrMalformedHeader, h.RCode)
	}

	qd, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: qdcount: %v", ErrUnexpectedEOF, err)
	}
	h.QDCount = qd

	an, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: ancount: %v", ErrUnexpectedEOF, err)
	}
	h.ANCount = an

	ns, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: nscount: %v", ErrUnexpectedEOF, err)
	}
	h.NSCount = ns

	ar, err := b.ReadU16()
	if err != nil {
		return Header{}, fmt.Errorf("%w: arcount: %v", ErrUnexpectedEOF, err)
	}
	h.ARCount = ar

	return h, nil
}
