package tdms

import "fmt"

// DataType is the closed enumeration of TDMS element types, identified by
// their wire tag. The set is fixed by the TDMS specification; callers cannot
// extend it.
type DataType uint32

const (
	DataTypeVoid           DataType = 0x00
	DataTypeInt8           DataType = 0x01
	DataTypeInt16          DataType = 0x02
	DataTypeInt32          DataType = 0x03
	DataTypeInt64          DataType = 0x04
	DataTypeUint8          DataType = 0x05
	DataTypeUint16         DataType = 0x06
	DataTypeUint32         DataType = 0x07
	DataTypeUint64         DataType = 0x08
	DataTypeSingleFloat    DataType = 0x09
	DataTypeDoubleFloat    DataType = 0x0A
	DataTypeExtendedFloat  DataType = 0x0B
	DataTypeSingleWithUnit DataType = 0x19
	DataTypeDoubleWithUnit DataType = 0x1A
	DataTypeExtendedWithUnit DataType = 0x1B
	DataTypeString         DataType = 0x20
	DataTypeBoolean        DataType = 0x21
	DataTypeTimestamp      DataType = 0x44
	DataTypeFixedPoint     DataType = 0x4F
	DataTypeComplexSingle  DataType = 0x08000C
	DataTypeComplexDouble  DataType = 0x10000D
	DataTypeDAQmxRawData   DataType = 0xFFFFFFFF
)

// elementKind is the closed set of kinds the engine can materialize into a
// typed buffer. Unlike DataType, which enumerates everything the wire format
// can name, elementKind enumerates only what ReadAll (directory.go) can
// actually fill. This sealed dispatch is intentional: the set of readable
// kinds is controlled entirely by the engine, not by callers.
type elementKind int

const (
	kindUnreadable elementKind = iota
	kindInt8
	kindInt16
	kindInt32
	kindInt64
	kindUint8
	kindUint16
	kindUint32
	kindUint64
	kindFloat32
	kindFloat64
	kindTimestamp
)

// Size returns the fixed wire size in bytes of one element of this type, or 0
// when the type has no fixed size (Void, String, FixedPoint).
func (dt DataType) Size() int {
	switch dt {
	case DataTypeInt8, DataTypeUint8, DataTypeBoolean:
		return 1
	case DataTypeInt16, DataTypeUint16:
		return 2
	case DataTypeInt32, DataTypeUint32, DataTypeSingleFloat, DataTypeSingleWithUnit:
		return 4
	case DataTypeInt64, DataTypeUint64, DataTypeDoubleFloat, DataTypeDoubleWithUnit, DataTypeComplexSingle:
		return 8
	case DataTypeExtendedFloat, DataTypeExtendedWithUnit, DataTypeTimestamp, DataTypeComplexDouble:
		return 16
	default:
		return 0
	}
}

// kind maps a DataType to the elementKind the extractor can fill a buffer
// with, or kindUnreadable when spec.md's non-goals exclude it from channel
// data reads (strings, booleans, extended floats, fixed-point, complex,
// DAQmx raw data).
func (dt DataType) kind() elementKind {
	switch dt {
	case DataTypeInt8:
		return kindInt8
	case DataTypeInt16:
		return kindInt16
	case DataTypeInt32:
		return kindInt32
	case DataTypeInt64:
		return kindInt64
	case DataTypeUint8:
		return kindUint8
	case DataTypeUint16:
		return kindUint16
	case DataTypeUint32:
		return kindUint32
	case DataTypeUint64:
		return kindUint64
	case DataTypeSingleFloat, DataTypeSingleWithUnit:
		return kindFloat32
	case DataTypeDoubleFloat, DataTypeDoubleWithUnit:
		return kindFloat64
	case DataTypeTimestamp:
		return kindTimestamp
	default:
		return kindUnreadable
	}
}

// Name returns a human-readable name for the type, used in error messages.
func (dt DataType) Name() string {
	switch dt {
	case DataTypeVoid:
		return "Void"
	case DataTypeInt8:
		return "Int8"
	case DataTypeInt16:
		return "Int16"
	case DataTypeInt32:
		return "Int32"
	case DataTypeInt64:
		return "Int64"
	case DataTypeUint8:
		return "Uint8"
	case DataTypeUint16:
		return "Uint16"
	case DataTypeUint32:
		return "Uint32"
	case DataTypeUint64:
		return "Uint64"
	case DataTypeSingleFloat, DataTypeSingleWithUnit:
		return "SingleFloat"
	case DataTypeDoubleFloat, DataTypeDoubleWithUnit:
		return "DoubleFloat"
	case DataTypeExtendedFloat, DataTypeExtendedWithUnit:
		return "ExtendedFloat"
	case DataTypeString:
		return "String"
	case DataTypeBoolean:
		return "Boolean"
	case DataTypeTimestamp:
		return "Timestamp"
	case DataTypeFixedPoint:
		return "FixedPoint"
	case DataTypeComplexSingle:
		return "ComplexSingleFloat"
	case DataTypeComplexDouble:
		return "ComplexDoubleFloat"
	case DataTypeDAQmxRawData:
		return "DAQmxRawData"
	default:
		return fmt.Sprintf("Unknown(0x%X)", uint32(dt))
	}
}

// validDataType reports whether tag is a known wire tag. Unknown tags are a
// fatal FormatError per spec.md §4.2.
func validDataType(tag uint32) bool {
	switch DataType(tag) {
	case DataTypeVoid, DataTypeInt8, DataTypeInt16, DataTypeInt32, DataTypeInt64,
		DataTypeUint8, DataTypeUint16, DataTypeUint32, DataTypeUint64,
		DataTypeSingleFloat, DataTypeDoubleFloat, DataTypeExtendedFloat,
		DataTypeSingleWithUnit, DataTypeDoubleWithUnit, DataTypeExtendedWithUnit,
		DataTypeString, DataTypeBoolean, DataTypeTimestamp, DataTypeFixedPoint,
		DataTypeComplexSingle, DataTypeComplexDouble, DataTypeDAQmxRawData:
		return true
	default:
		return false
	}
}
