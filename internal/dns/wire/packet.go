package wire

import "fmt"

// Packet is a fully decoded (or about to be encoded) DNS message: the
// header plus its three record sections.
type Packet struct {
	Header     Header
	Questions  []Question
	Answers    []Record
	Authority  []Record
	Additional []Record
}

// DecodePacket resets the buffer's cursor to 0 and decodes a complete
// message: header, then qdcount questions, then ancount/nscount/arcount
// records into their respective sections, in that order with no padding.
func DecodePacket(b *Buffer) (Packet, error) {
	b.Seek(0)

	header, err := DecodeHeader(b)
	if err != nil {
		return Packet{}, err
	}

	p := Packet{Header: header}

	p.Questions = make([]Question, 0, header.QDCount)
	for i := uint16(0); i < header.QDCount; i++ {
		q, err := DecodeQuestion(b)
		if err != nil {
			return Packet{}, fmt.Errorf("question %d: %w", i, err)
		}
		p.Questions = append(p.Questions, q)
	}

	p.Answers, err = decodeRecords(b, header.ANCount)
	if err != nil {
		return Packet{}, fmt.Errorf("answer section: %w", err)
	}
	p.Authority, err = decodeRecords(b, header.NSCount)
	if err != nil {
		return Packet{}, fmt.Errorf("authority section: %w", err)
	}
	p.Additional, err = decodeRecords(b, header.ARCount)
	if err != nil {
		return Packet{}, fmt.Errorf("additional section: %w", err)
	}

	return p, nil
}

func decodeRecords(b *Buffer, count uint16) ([]Record, error) {
	records := make([]Record, 0, count)
	for i := uint16(0); i < count; i++ {
		r, err := DecodeRecord(b)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		records = append(records, r)
	}
	return records, nil
}

// Encode writes the packet into a fresh buffer: header, questions,
// answers, authority, additional, in that order. The header's section
// counts are derived from the slice lengths rather than trusted as given.
func (p Packet) Encode() (*Buffer, error) {
	b := NewBuffer()

	h := p.Header
	h.QDCount = uint16(len(p.Questions))
	h.ANCount = uint16(len(p.Answers))
	h.NSCount = uint16(len(p.Authority))
	h.ARCount = uint16(len(p.Additional))

	if err := h.Encode(b); err != nil {
		return nil, err
	}
	for i, q := range p.Questions {
		if err := q.Encode(b); err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
	}
	if err := encodeRecords(b, p.Answers, "answer"); err != nil {
		return nil, err
	}
	if err := encodeRecords(b, p.Authority, "authority"); err != nil {
		return nil, err
	}
	if err := encodeRecords(b, p.Additional, "additional"); err != nil {
		return nil, err
	}

	return b, nil
}

func encodeRecords(b *Buffer, records []Record, section string) error {
	for i, r := range records {
		if err := r.Encode(b); err != nil {
			return fmt.Errorf("%s record %d: %w", section, i, err)
		}
	}
	return nil
}
