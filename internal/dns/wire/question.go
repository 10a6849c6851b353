package wire

import (
	"fmt"

	"github.com/haukened/rr-dns/internal/dns/domain"
)

// Question is a single entry in a message's question section.
type Question struct {
	Name  string
	QType domain.RRType
	Class domain.RRClass
}

// DecodeQuestion reads one question at the buffer's cursor.
func DecodeQuestion(b *Buffer) (Question, error) {
	name, err := b.ReadQName()
	if err != nil {
		return Question{}, err
	}
	qtype, err := b.ReadU16()
	if err != nil {
		return Question{}, fmt.Errorf("%w: question qtype: %v", ErrUnexpectedEOF, err)
	}
	class, err := b.ReadU16()
	if err != nil {
		return Question{}, fmt.Errorf("%w: question class: %v", ErrUnexpectedEOF, err)
	}
	return Question{Name: name, QType: domain.RRType(qtype), Class: domain.RRClass(class)}, nil
}

// Encode writes the question at the buffer's cursor.
func (q Question) Encode(b *Buffer) error {
	if err := b.WriteQName(q.Name); err != nil {
		return err
	}
	if err := b.WriteU16(uint16(q.QType)); err != nil {
		return err
	}
	return b.WriteU16(uint16(q.Class))
}
