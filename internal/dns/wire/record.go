package wire

import (
	"fmt"

	"github.com/haukened/rr-dns/internal/dns/domain"
)

// Record is a decoded resource record. Exactly one of the typed fields is
// meaningful, selected by RType. Unsupported wire types decode as a record
// with RType.IsValid() == false, carrying RDLength and the raw RData bytes
// but no typed rdata.
type Record struct {
	Name   string
	RType  domain.RRType
	Class  domain.RRClass
	TTL    uint32
	RDLength uint16

	// A holds the four octets of an A record's address.
	A [4]byte
	// Host holds the target of an NS, CNAME, or MX record.
	Host string
	// Priority holds an MX record's preference value.
	Priority uint16
	// AAAA holds the eight 16-bit groups of an AAAA record's address.
	AAAA [8]uint16
	// RData holds the raw rdata bytes of a record whose type the codec
	// does not decode a typed payload for, so it can be re-emitted
	// unchanged on encode.
	RData []byte
}

// DecodeRecord reads one resource record at the buffer's cursor.
func DecodeRecord(b *Buffer) (Record, error) {
	name, err := b.ReadQName()
	if err != nil {
		return Record{}, err
	}

	rtypeNum, err := b.ReadU16()
	if err != nil {
		return Record{}, fmt.Errorf("%w: record rtype: %v", ErrUnexpectedEOF, err)
	}
	classNum, err := b.ReadU16()
	if err != nil {
		return Record{}, fmt.Errorf("%w: record class: %v", ErrUnexpectedEOF, err)
	}
	ttl, err := b.ReadU32()
	if err != nil {
		return Record{}, fmt.Errorf("%w: record ttl: %v", ErrUnexpectedEOF, err)
	}
	rdlength, err := b.ReadU16()
	if err != nil {
		return Record{}, fmt.Errorf("%w: record rdlength: %v", ErrUnexpectedEOF, err)
	}

	rec := Record{
		Name:     name,
		RType:    domain.RRType(rtypeNum),
		Class:    domain.RRClass(classNum),
		TTL:      ttl,
		RDLength: rdlength,
	}

	switch rec.RType {
	case domain.RRTypeA:
		v, err := b.ReadU32()
		if err != nil {
			return Record{}, fmt.Errorf("%w: A rdata: %v", ErrUnexpectedEOF, err)
		}
		rec.A = [4]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}

	case domain.RRTypeNS, domain.RRTypeCNAME:
		host, err := b.ReadQName()
		if err != nil {
			return Record{}, err
		}
		rec.Host = host

	case domain.RRTypeMX:
		priority, err := b.ReadU16()
		if err != nil {
			return Record{}, fmt.Errorf("%w: MX priority: %v", ErrUnexpectedEOF, err)
		}
		host, err := b.ReadQName()
		if err != nil {
			return Record{}, err
		}
		rec.Priority = priority
		rec.Host = host

	case domain.RRTypeAAAA:
		for i := 0; i < 8; i++ {
			v, err := b.ReadU16()
			if err != nil {
				return Record{}, fmt.Errorf("%w: AAAA rdata: %v", ErrUnexpectedEOF, err)
			}
			rec.AAAA[i] = v
		}

	default:
		data, err := b.readBytesAt(b.pos, int(rdlength))
		if err != nil {
			return Record{}, fmt.Errorf("%w: unknown rdata: %v", ErrUnexpectedEOF, err)
		}
		rec.RData = data
		b.pos += int(rdlength)
	}

	return rec, nil
}

// Encode writes the record at the buffer's cursor, reserving and
// back-patching rdlength as needed for variable-length rdata. The
// back-patch formula (current position minus the placeholder's position
// minus two) is applied uniformly across every variant, including the
// fixed-length A and AAAA records.
func (r Record) Encode(b *Buffer) error {
	if err := b.WriteQName(r.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(r.RType)); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(r.Class)); err != nil {
		return err
	}
	if err := b.WriteU32(r.TTL); err != nil {
		return err
	}

	placeholder := b.Pos()
	if err := b.WriteU16(0); err != nil {
		return err
	}

	switch r.RType {
	case domain.RRTypeA:
		if err := b.writeBytes(r.A[:]); err != nil {
			return err
		}

	case domain.RRTypeNS, domain.RRTypeCNAME:
		if err := b.WriteQName(r.Host); err != nil {
			return err
		}

	case domain.RRTypeMX:
		if err := b.WriteU16(r.Priority); err != nil {
			return err
		}
		if err := b.WriteQName(r.Host); err != nil {
			return err
		}

	case domain.RRTypeAAAA:
		for _, group := range r.AAAA {
			if err := b.WriteU16(group); err != nil {
				return err
			}
		}

	default:
		if err := b.writeBytes(r.RData); err != nil {
			return err
		}
	}

	rdlength := uint16(b.Pos() - (placeholder + 2))
	return b.SetU16(rdlength, placeholder)
}
