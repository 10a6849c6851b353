package wire

import "testing"

func TestName_WriteReadRoundtrip(t *testing.T) {
	cases := []string{"example.com.", "a.b.c.", "single."}
	for _, name := range cases {
		b := NewBuffer()
		if err := b.WriteQName(name); err != nil {
			t.Fatalf("WriteQName(%q): %v", name, err)
		}
		b.Seek(0)
		got, err := b.ReadQName()
		if err != nil {
			t.Fatalf("ReadQName: %v", err)
		}
		if got != name {
			t.Errorf("got %q, want %q", got, name)
		}
	}
}

func TestName_EmptyWritesRootLabel(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteQName(""); err != nil {
		t.Fatalf("WriteQName: %v", err)
	}
	if b.Size() != 1 {
		t.Errorf("size = %d, want 1", b.Size())
	}
}

func TestName_CompressionPointer(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteQName("example.com."); err != nil {
		t.Fatalf("WriteQName: %v", err)
	}
	pointerPos := b.Pos()
	// Pointer to offset 0, where "example.com." begins.
	if err := b.WriteU16(0xC000); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	b.Seek(pointerPos)
	got, err := b.ReadQName()
	if err != nil {
		t.Fatalf("ReadQName: %v", err)
	}
	if got != "example.com." {
		t.Errorf("got %q, want %q", got, "example.com.")
	}
	if b.Pos() != pointerPos+2 {
		t.Errorf("cursor = %d, want %d", b.Pos(), pointerPos+2)
	}
}

func TestName_NonBackwardPointerRejected(t *testing.T) {
	b := NewBuffer()
	// A pointer at offset 0 targeting offset 0 is not strictly backward.
	if err := b.WriteU16(0xC000); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}
	b.Seek(0)
	if _, err := b.ReadQName(); err == nil {
		t.Error("expected malformed name error, got nil")
	}
}

func TestName_ReservedLengthBitsRejected(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteU8(0x40); err != nil { // 01xxxxxx: reserved
		t.Fatalf("WriteU8: %v", err)
	}
	b.Seek(0)
	if _, err := b.ReadQName(); err == nil {
		t.Error("expected malformed name error, got nil")
	}
}

func TestName_TruncatedLabelFails(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteU8(10); err != nil { // claims 10 bytes of label, writes none
		t.Fatalf("WriteU8: %v", err)
	}
	b.Seek(0)
	if _, err := b.ReadQName(); err == nil {
		t.Error("expected error for truncated label, got nil")
	}
}

func TestName_RejectsOverlongLabel(t *testing.T) {
	b := NewBuffer()
	if err := b.WriteQName(string(make([]byte, 64)) + "."); err == nil {
		t.Error("expected error for label over 63 octets, got nil")
	}
}

// TestName_TotalLengthAcrossPointerRejected verifies the 255-octet bound
// applies to the fully assembled name, not just the portion decoded before
// a compression pointer jump. Neither half exceeds the bound on its own;
// only their sum does.
func TestName_TotalLengthAcrossPointerRejected(t *testing.T) {
	b := NewBuffer()

	// Suffix chain at offset 0: a single 63-byte label, decodes to 64
	// octets on its own — well under the 255 bound.
	suffixLabel := bytesOf('b', 63)
	if err := b.WriteU8(63); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}
	if err := b.writeBytes(suffixLabel); err != nil {
		t.Fatalf("writeBytes: %v", err)
	}
	if err := b.WriteU8(0); err != nil {
		t.Fatalf("WriteU8: %v", err)
	}

	// Prefix: three 63-byte labels (192 octets), also under the bound on
	// its own, followed by a backward pointer to the suffix above. 192 +
	// 64 = 256, which must be rejected even though each half passes.
	prefixStart := b.Pos()
	prefixLabel := bytesOf('a', 63)
	for i := 0; i < 3; i++ {
		if err := b.WriteU8(63); err != nil {
			t.Fatalf("WriteU8: %v", err)
		}
		if err := b.writeBytes(prefixLabel); err != nil {
			t.Fatalf("writeBytes: %v", err)
		}
	}
	if err := b.WriteU16(0xC000); err != nil {
		t.Fatalf("WriteU16: %v", err)
	}

	b.Seek(prefixStart)
	if _, err := b.ReadQName(); err == nil {
		t.Error("expected malformed name error for combined length over 255 octets, got nil")
	}
}

func bytesOf(c byte, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = c
	}
	return out
}
