package eventstream

import (
	"encoding/binary"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValueType tags the wire encoding of a header value.
type ValueType uint8

// Header value tags, in wire order per CONTRACT_WIRE.md.
const (
	TypeBoolTrue  ValueType = 0
	TypeBoolFalse ValueType = 1
	TypeByte      ValueType = 2
	TypeShort     ValueType = 3
	TypeInteger   ValueType = 4
	TypeLong      ValueType = 5
	TypeByteArray ValueType = 6
	TypeString    ValueType = 7
	TypeTimestamp ValueType = 8
	TypeUUID      ValueType = 9
)

func (t ValueType) String() string {
	switch t {
	case TypeBoolTrue:
		return "bool-true"
	case TypeBoolFalse:
		return "bool-false"
	case TypeByte:
		return "byte"
	case TypeShort:
		return "short"
	case TypeInteger:
		return "integer"
	case TypeLong:
		return "long"
	case TypeByteArray:
		return "byte-array"
	case TypeString:
		return "string"
	case TypeTimestamp:
		return "timestamp"
	case TypeUUID:
		return "uuid"
	default:
		return fmt.Sprintf("value-type(%d)", uint8(t))
	}
}

const (
	maxHeaderName  = 255
	maxHeaderValue = 65535
)

// Value is one typed header value. The concrete types below cover every
// wire tag; anything else fails encoding.
type Value interface {
	// Type returns the wire tag this value encodes as.
	Type() ValueType
}

// BoolValue encodes as TypeBoolTrue or TypeBoolFalse. The tag alone
// carries the value; there is no body.
type BoolValue bool

func (v BoolValue) Type() ValueType {
	if v {
		return TypeBoolTrue
	}
	return TypeBoolFalse
}

// ByteValue is a signed 8-bit header value.
type ByteValue int8

func (ByteValue) Type() ValueType { return TypeByte }

// ShortValue is a signed big-endian 16-bit header value.
type ShortValue int16

func (ShortValue) Type() ValueType { return TypeShort }

// IntegerValue is a signed big-endian 32-bit header value.
type IntegerValue int32

func (IntegerValue) Type() ValueType { return TypeInteger }

// LongValue is a signed big-endian 64-bit header value.
type LongValue int64

func (LongValue) Type() ValueType { return TypeLong }

// BytesValue is a length-prefixed opaque header value.
type BytesValue []byte

func (BytesValue) Type() ValueType { return TypeByteArray }

// StringValue is a length-prefixed UTF-8 header value. The control
// headers such as ":message-type" all use this tag.
type StringValue string

func (StringValue) Type() ValueType { return TypeString }

// TimestampValue is a millisecond-precision instant, carried on the
// wire as a big-endian int64 of milliseconds since the Unix epoch.
type TimestampValue time.Time

func (TimestampValue) Type() ValueType { return TypeTimestamp }

// Time returns the instant in UTC.
func (v TimestampValue) Time() time.Time { return time.Time(v).UTC() }

// UUIDValue is a 16-byte RFC 4122 identifier header value.
type UUIDValue uuid.UUID

func (UUIDValue) Type() ValueType { return TypeUUID }

// Header is one name/value pair from a frame's header block.
type Header struct {
	Name  string
	Value Value
}

// Headers holds a frame's header block in wire order. Duplicate names
// are preserved; lookups return the first occurrence.
type Headers []Header

// Get returns the first header value named name.
func (hs Headers) Get(name string) (Value, bool) {
	for _, h := range hs {
		if h.Name == name {
			return h.Value, true
		}
	}
	return nil, false
}

// GetString returns the first string-tagged header named name. A header
// present under a different tag does not match.
func (hs Headers) GetString(name string) (string, bool) {
	v, ok := hs.Get(name)
	if !ok {
		return "", false
	}
	s, ok := v.(StringValue)
	if !ok {
		return "", false
	}
	return string(s), true
}

// decodeHeaders parses an exact header region. Entries must consume the
// region completely: a field that runs past the end, or trailing bytes
// that do not form a whole entry, is a structural error.
func decodeHeaders(region []byte) (Headers, error) {
	var hs Headers
	off := 0
	for off < len(region) {
		name, next, err := decodeHeaderName(region, off)
		if err != nil {
			return nil, err
		}
		off = next
		if off >= len(region) {
			return nil, structuralf("header %q has no value tag", name)
		}
		tag := ValueType(region[off])
		off++
		v, next, err := decodeValue(region, off, tag, name)
		if err != nil {
			return nil, err
		}
		off = next
		hs = append(hs, Header{Name: name, Value: v})
	}
	return hs, nil
}

func decodeHeaderName(region []byte, off int) (string, int, error) {
	nameLen := int(region[off])
	off++
	if nameLen == 0 {
		return "", 0, structuralf("header name length is zero at offset %d", off-1)
	}
	if off+nameLen > len(region) {
		return "", 0, structuralf("header name overruns block: need %d bytes, %d remain", nameLen, len(region)-off)
	}
	name := region[off : off+nameLen]
	if !utf8.Valid(name) {
		return "", 0, structuralf("header name at offset %d is not valid UTF-8", off)
	}
	return string(name), off + nameLen, nil
}

func decodeValue(region []byte, off int, tag ValueType, name string) (Value, int, error) {
	need := func(n int) error {
		if off+n > len(region) {
			return structuralf("header %q value overruns block: need %d bytes, %d remain", name, n, len(region)-off)
		}
		return nil
	}
	switch tag {
	case TypeBoolTrue:
		return BoolValue(true), off, nil
	case TypeBoolFalse:
		return BoolValue(false), off, nil
	case TypeByte:
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return ByteValue(int8(region[off])), off + 1, nil
	case TypeShort:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return ShortValue(int16(binary.BigEndian.Uint16(region[off:]))), off + 2, nil
	case TypeInteger:
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return IntegerValue(int32(binary.BigEndian.Uint32(region[off:]))), off + 4, nil
	case TypeLong:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		return LongValue(int64(binary.BigEndian.Uint64(region[off:]))), off + 8, nil
	case TypeByteArray:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		n := int(binary.BigEndian.Uint16(region[off:]))
		off += 2
		if err := need(n); err != nil {
			return nil, 0, err
		}
		b := make([]byte, n)
		copy(b, region[off:off+n])
		return BytesValue(b), off + n, nil
	case TypeString:
		if err := need(2); err != nil {
			return nil, 0, err
		}
		n := int(binary.BigEndian.Uint16(region[off:]))
		off += 2
		if err := need(n); err != nil {
			return nil, 0, err
		}
		s := region[off : off+n]
		if !utf8.Valid(s) {
			return nil, 0, structuralf("header %q string value is not valid UTF-8", name)
		}
		return StringValue(s), off + n, nil
	case TypeTimestamp:
		if err := need(8); err != nil {
			return nil, 0, err
		}
		ms := int64(binary.BigEndian.Uint64(region[off:]))
		return TimestampValue(time.UnixMilli(ms).UTC()), off + 8, nil
	case TypeUUID:
		if err := need(16); err != nil {
			return nil, 0, err
		}
		var id uuid.UUID
		copy(id[:], region[off:off+16])
		return UUIDValue(id), off + 16, nil
	default:
		return nil, 0, structuralf("header %q has unknown value tag %d", name, uint8(tag))
	}
}

// encodeHeaders serialises headers into one wire block.
func encodeHeaders(hs Headers) ([]byte, error) {
	var block []byte
	for _, h := range hs {
		b, err := appendHeader(block, h)
		if err != nil {
			return nil, err
		}
		block = b
	}
	return block, nil
}

func appendHeader(dst []byte, h Header) ([]byte, error) {
	if len(h.Name) == 0 {
		return nil, structuralf("header name must not be empty")
	}
	if len(h.Name) > maxHeaderName {
		return nil, structuralf("header name %q exceeds %d bytes", h.Name, maxHeaderName)
	}
	if h.Value == nil {
		return nil, structuralf("header %q has a nil value", h.Name)
	}
	dst = append(dst, byte(len(h.Name)))
	dst = append(dst, h.Name...)
	dst = append(dst, byte(h.Value.Type()))
	return appendValue(dst, h)
}

func appendValue(dst []byte, h Header) ([]byte, error) {
	switch v := h.Value.(type) {
	case BoolValue:
		// The tag already encodes the value.
		return dst, nil
	case ByteValue:
		return append(dst, byte(v)), nil
	case ShortValue:
		return binary.BigEndian.AppendUint16(dst, uint16(v)), nil
	case IntegerValue:
		return binary.BigEndian.AppendUint32(dst, uint32(v)), nil
	case LongValue:
		return binary.BigEndian.AppendUint64(dst, uint64(v)), nil
	case BytesValue:
		if len(v) > maxHeaderValue {
			return nil, structuralf("header %q value of %d bytes exceeds %d", h.Name, len(v), maxHeaderValue)
		}
		dst = binary.BigEndian.AppendUint16(dst, uint16(len(v)))
		return append(dst, v...), nil
	case StringValue:
		if len(v) > maxHeaderValue {
			return nil, structuralf("header %q value of %d bytes exceeds %d", h.Name, len(v), maxHeaderValue)
		}
		dst = binary.BigEndian.AppendUint16(dst, uint16(len(v)))
		return append(dst, v...), nil
	case TimestampValue:
		return binary.BigEndian.AppendUint64(dst, uint64(time.Time(v).UnixMilli())), nil
	case UUIDValue:
		return append(dst, v[:]...), nil
	default:
		return nil, structuralf("header %q has unsupported value type %T", h.Name, h.Value)
	}
}
