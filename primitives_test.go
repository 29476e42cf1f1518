package tdms

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestDecoderReadsPrimitivesLittleEndian(t *testing.T) {
	buf := []byte{
		0x2A,                   // u8 = 42
		0x01, 0x02,             // u16 = 0x0201
		0x01, 0x02, 0x03, 0x04, // u32 = 0x04030201
	}
	d := newDecoder(bytes.NewReader(buf), binary.LittleEndian)

	u8, err := d.readU8()
	if err != nil || u8 != 0x2A {
		t.Fatalf("readU8: got %d, %v", u8, err)
	}
	u16, err := d.readU16()
	if err != nil || u16 != 0x0201 {
		t.Fatalf("readU16: got %x, %v", u16, err)
	}
	u32, err := d.readU32()
	if err != nil || u32 != 0x04030201 {
		t.Fatalf("readU32: got %x, %v", u32, err)
	}
}

func TestDecoderReadsFloats(t *testing.T) {
	buf := make([]byte, 12)
	binary.LittleEndian.PutUint32(buf[0:4], 0x3F800000) // float32(1.0)
	binary.LittleEndian.PutUint64(buf[4:12], 0x3FF0000000000000) // float64(1.0)

	d := newDecoder(bytes.NewReader(buf), binary.LittleEndian)

	f32, err := d.readF32()
	if err != nil || f32 != 1.0 {
		t.Fatalf("readF32: got %v, %v", f32, err)
	}
	f64, err := d.readF64()
	if err != nil || f64 != 1.0 {
		t.Fatalf("readF64: got %v, %v", f64, err)
	}
}

func TestDecoderReadsLengthPrefixedString(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(5))
	buf.WriteString("hello")

	d := newDecoder(&buf, binary.LittleEndian)
	s, err := d.readString()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "hello" {
		t.Fatalf("expected %q, got %q", "hello", s)
	}
}

func TestDecoderRejectsInvalidUTF8String(t *testing.T) {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	buf.Write([]byte{0xFF, 0xFE})

	d := newDecoder(&buf, binary.LittleEndian)
	_, err := d.readString()
	if err == nil {
		t.Fatalf("expected error for invalid utf-8")
	}
}

func TestDecoderTimestampFieldOrderByByteOrder(t *testing.T) {
	// Little-endian: fractions (u64) then seconds (i64).
	var le bytes.Buffer
	binary.Write(&le, binary.LittleEndian, uint64(123))
	binary.Write(&le, binary.LittleEndian, int64(456))

	d := newDecoder(&le, binary.LittleEndian)
	ts, err := d.readTimestamp()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Seconds != 456 || ts.SecondFractions != 123 {
		t.Fatalf("expected seconds=456 fractions=123, got seconds=%d fractions=%d", ts.Seconds, ts.SecondFractions)
	}

	// Big-endian: seconds (i64) then fractions (u64).
	var be bytes.Buffer
	binary.Write(&be, binary.BigEndian, int64(456))
	binary.Write(&be, binary.BigEndian, uint64(123))

	d = newDecoder(&be, binary.BigEndian)
	ts, err = d.readTimestamp()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Seconds != 456 || ts.SecondFractions != 123 {
		t.Fatalf("expected seconds=456 fractions=123, got seconds=%d fractions=%d", ts.Seconds, ts.SecondFractions)
	}
}
