package tdms

import (
	"fmt"
	"time"
)

// Property is a single name/value pair attached to the root, a group, or a
// channel. Property lists preserve insertion order per object and accumulate
// across segments: a later segment can add new properties or overwrite the
// value of an existing one, but never removes one.
type Property struct {
	Name     string
	TypeCode DataType
	Value    any
}

// String implements fmt.Stringer.
func (p Property) String() string {
	return fmt.Sprintf("%s: %v", p.Name, p.Value)
}

// AsInt8 returns the property value as an int8.
func (p Property) AsInt8() (int8, error) { v, ok := p.Value.(int8); return v, asErr(ok) }

// AsInt16 returns the property value as an int16.
func (p Property) AsInt16() (int16, error) { v, ok := p.Value.(int16); return v, asErr(ok) }

// AsInt32 returns the property value as an int32.
func (p Property) AsInt32() (int32, error) { v, ok := p.Value.(int32); return v, asErr(ok) }

// AsInt64 returns the property value as an int64.
func (p Property) AsInt64() (int64, error) { v, ok := p.Value.(int64); return v, asErr(ok) }

// AsUint8 returns the property value as a uint8.
func (p Property) AsUint8() (uint8, error) { v, ok := p.Value.(uint8); return v, asErr(ok) }

// AsUint16 returns the property value as a uint16.
func (p Property) AsUint16() (uint16, error) { v, ok := p.Value.(uint16); return v, asErr(ok) }

// AsUint32 returns the property value as a uint32.
func (p Property) AsUint32() (uint32, error) { v, ok := p.Value.(uint32); return v, asErr(ok) }

// AsUint64 returns the property value as a uint64.
func (p Property) AsUint64() (uint64, error) { v, ok := p.Value.(uint64); return v, asErr(ok) }

// AsFloat32 returns the property value as a float32.
func (p Property) AsFloat32() (float32, error) { v, ok := p.Value.(float32); return v, asErr(ok) }

// AsFloat64 returns the property value as a float64.
func (p Property) AsFloat64() (float64, error) { v, ok := p.Value.(float64); return v, asErr(ok) }

// AsString returns the property value as a string.
func (p Property) AsString() (string, error) { v, ok := p.Value.(string); return v, asErr(ok) }

// AsTimestamp returns the property value as a Timestamp.
func (p Property) AsTimestamp() (Timestamp, error) {
	v, ok := p.Value.(Timestamp)
	return v, asErr(ok)
}

// AsTime converts the property's Timestamp value to a time.Time.
func (p Property) AsTime() (time.Time, error) {
	v, ok := p.Value.(Timestamp)
	if !ok {
		return time.Time{}, ErrIncorrectType
	}
	return v.AsTime(), nil
}

func asErr(ok bool) error {
	if ok {
		return nil
	}
	return ErrIncorrectType
}

// readPropertyValue reads one property value given its type tag, per the
// twelve semantic kinds spec.md §3 allows for properties. Any other kind is
// a hard error. Strings are the one kind readable here that channel data
// reads refuse.
func readPropertyValue(d *decoder, typeCode DataType) (any, error) {
	switch typeCode {
	case DataTypeInt8:
		return d.readI8()
	case DataTypeInt16:
		return d.readI16()
	case DataTypeInt32:
		return d.readI32()
	case DataTypeInt64:
		return d.readI64()
	case DataTypeUint8:
		return d.readU8()
	case DataTypeUint16:
		return d.readU16()
	case DataTypeUint32:
		return d.readU32()
	case DataTypeUint64:
		return d.readU64()
	case DataTypeSingleFloat, DataTypeSingleWithUnit:
		return d.readF32()
	case DataTypeDoubleFloat, DataTypeDoubleWithUnit:
		return d.readF64()
	case DataTypeString:
		return d.readString()
	case DataTypeTimestamp:
		return d.readTimestamp()
	default:
		return nil, formatErrorf(-1, "unsupported property type 0x%X", uint32(typeCode))
	}
}
