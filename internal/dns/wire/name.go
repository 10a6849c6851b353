package wire

import (
	"fmt"
	"strings"
)

// ReadQName decodes a domain name starting at the cursor, following
// compression pointers as needed, and advances the cursor past the name's
// own encoding (a pointer counts as two bytes; the bytes at the pointer's
// target belong to wherever they live in the message and never move the
// caller's cursor).
func (b *Buffer) ReadQName() (string, error) {
	name, end, err := b.decodeNameAt(b.pos, 0, 0)
	if err != nil {
		return "", err
	}
	b.pos = end
	return name, nil
}

// decodeNameAt decodes a name starting at offset start. It returns the
// decoded dotted name and the offset immediately following this level's
// own encoding (the byte after a terminating zero label, or the byte after
// a two-byte pointer). depth counts pointer jumps taken by the calling
// chain so a long but structurally backward chain cannot loop forever.
// totalLen carries the decoded-octet count across pointer jumps so the
// 255-octet bound applies to the fully assembled name, not just the
// portion decoded at this indirection level.
func (b *Buffer) decodeNameAt(start int, depth int, totalLen int) (string, int, error) {
	var labels []string
	cur := start

	for {
		lb, err := b.ReadU8At(cur)
		if err != nil {
			return "", 0, fmt.Errorf("%w: %v", ErrMalformedName, err)
		}

		switch {
		case lb&0xC0 == 0xC0:
			second, err := b.ReadU8At(cur + 1)
			if err != nil {
				return "", 0, fmt.Errorf("%w: truncated compression pointer: %v", ErrMalformedName, err)
			}
			target := int(lb&0x3F)<<8 | int(second)
			if target >= cur {
				return "", 0, fmt.Errorf("%w: pointer at %d targets non-backward offset %d", ErrMalformedName, cur, target)
			}
			depth++
			if depth > maxPointerJumps {
				return "", 0, fmt.Errorf("%w: exceeded %d compression pointer jumps", ErrMalformedName, maxPointerJumps)
			}
			suffix, _, err := b.decodeNameAt(target, depth, totalLen)
			if err != nil {
				return "", 0, err
			}
			labels = append(labels, suffix)
			return strings.Join(labels, ""), cur + 2, nil

		case lb == 0:
			cur++
			return strings.Join(labels, ""), cur, nil

		default:
			if lb > 63 {
				return "", 0, fmt.Errorf("%w: label length %d exceeds 63", ErrMalformedName, lb)
			}
			data, err := b.readBytesAt(cur+1, int(lb))
			if err != nil {
				return "", 0, fmt.Errorf("%w: truncated label: %v", ErrMalformedName, err)
			}
			totalLen += len(data) + 1
			if totalLen > maxNameLength {
				return "", 0, fmt.Errorf("%w: decoded name exceeds %d octets", ErrMalformedName, maxNameLength)
			}
			labels = append(labels, string(data)+".")
			cur += 1 + int(lb)
		}
	}
}

// WriteQName encodes a dotted domain name as length-prefixed labels
// terminated by a zero byte. It never emits compression pointers; every
// written name is self-contained.
func (b *Buffer) WriteQName(name string) error {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return b.WriteU8(0)
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) == 0 || len(label) > 63 {
			return fmt.Errorf("%w: label %q has invalid length", ErrMalformedName, label)
		}
		if err := b.WriteU8(uint8(len(label))); err != nil {
			return err
		}
		if err := b.writeBytes([]byte(label)); err != nil {
			return err
		}
	}
	return b.WriteU8(0)
}
