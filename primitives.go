package tdms

import (
	"encoding/binary"
	"io"
	"math"
	"unicode/utf8"
)

// decoder reads fixed-width primitives, length-prefixed strings, and TDMS
// timestamps from a byte source in a single byte order. No buffering, no
// look-ahead: every call advances the underlying cursor by exactly the bytes
// it consumed. Byte order is a parameter of the decoder, not a field carried
// on each decoded value, per spec.md's "endianness is a parser parameter"
// design note.
type decoder struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [16]byte
}

func newDecoder(r io.Reader, order binary.ByteOrder) *decoder {
	return &decoder{r: r, order: order}
}

func (d *decoder) readFull(n int) ([]byte, error) {
	b := d.buf[:n]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return nil, ioErrorf(err)
	}
	return b, nil
}

func (d *decoder) readU8() (uint8, error) {
	b, err := d.readFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *decoder) readU16() (uint16, error) {
	b, err := d.readFull(2)
	if err != nil {
		return 0, err
	}
	return d.order.Uint16(b), nil
}

func (d *decoder) readU32() (uint32, error) {
	b, err := d.readFull(4)
	if err != nil {
		return 0, err
	}
	return d.order.Uint32(b), nil
}

func (d *decoder) readU64() (uint64, error) {
	b, err := d.readFull(8)
	if err != nil {
		return 0, err
	}
	return d.order.Uint64(b), nil
}

func (d *decoder) readI8() (int8, error) {
	v, err := d.readU8()
	return int8(v), err
}

func (d *decoder) readI16() (int16, error) {
	v, err := d.readU16()
	return int16(v), err
}

func (d *decoder) readI32() (int32, error) {
	v, err := d.readU32()
	return int32(v), err
}

func (d *decoder) readI64() (int64, error) {
	v, err := d.readU64()
	return int64(v), err
}

func (d *decoder) readF32() (float32, error) {
	v, err := d.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (d *decoder) readF64() (float64, error) {
	v, err := d.readU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// readString reads a u32 length prefix followed by that many UTF-8 bytes.
func (d *decoder) readString() (string, error) {
	length, err := d.readU32()
	if err != nil {
		return "", err
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return "", ioErrorf(err)
	}

	if !utf8.Valid(buf) {
		return "", &Utf8Error{Source: errInvalidUTF8Bytes}
	}

	return string(buf), nil
}

// readTimestamp reads a 16-byte TDMS timestamp. Field order on the wire is
// byte-order dependent: little-endian stores the fractional-second u64
// first, then the seconds i64; big-endian stores seconds first. This
// asymmetry reflects the TDMS specification and must be preserved exactly.
func (d *decoder) readTimestamp() (Timestamp, error) {
	b, err := d.readFull(16)
	if err != nil {
		return Timestamp{}, err
	}

	if d.order == binary.LittleEndian {
		fractions := d.order.Uint64(b[0:8])
		seconds := int64(d.order.Uint64(b[8:16]))
		return Timestamp{Seconds: seconds, SecondFractions: fractions}, nil
	}

	seconds := int64(d.order.Uint64(b[0:8]))
	fractions := d.order.Uint64(b[8:16])
	return Timestamp{Seconds: seconds, SecondFractions: fractions}, nil
}

var errInvalidUTF8Bytes = ErrInvalidUTF8
