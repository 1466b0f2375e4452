// Package bookingpb holds the booking.v1 wire messages and service
// descriptor. Messages are encoded field by field with protowire and stay
// byte-compatible with api/booking/v1/booking.proto.
package bookingpb

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

var ErrInvalidUTF8 = errors.New("string field contains invalid UTF-8")

// Message is implemented by every booking.v1 message.
type Message interface {
	AppendWire(b []byte) []byte
	UnmarshalWire(b []byte) error
}

func Marshal(m Message) ([]byte, error) {
	return m.AppendWire(nil), nil
}

func Unmarshal(b []byte, m Message) error {
	return m.UnmarshalWire(b)
}

// field is one decoded tag/value pair. Only varint and length-delimited
// values are kept; other wire types are skipped by decode.
type field struct {
	num protowire.Number
	typ protowire.Type
	v   uint64
	b   []byte
}

func (f field) is(num protowire.Number, typ protowire.Type) bool {
	return f.num == num && f.typ == typ
}

// str stores a proto3 string field, which must be valid UTF-8.
func (f field) str(dst *string) error {
	if !utf8.Valid(f.b) {
		return fmt.Errorf("field %d: %w", f.num, ErrInvalidUTF8)
	}
	*dst = string(f.b)
	return nil
}

func (f field) i64() int64    { return int64(f.v) }
func (f field) i32() int32    { return int32(int64(f.v)) }
func (f field) boolean() bool { return f.v != 0 }

func decode(buf []byte, fn func(f field) error) error {
	for len(buf) > 0 {
		num, typ, n := protowire.ConsumeTag(buf)
		if n < 0 {
			return protowire.ParseError(n)
		}
		buf = buf[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(buf)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.v = v
			buf = buf[n:]
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(buf)
			if n < 0 {
				return protowire.ParseError(n)
			}
			f.b = v
			buf = buf[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, buf)
			if n < 0 {
				return protowire.ParseError(n)
			}
			buf = buf[n:]
			continue
		}

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

// proto3 scalars are omitted when they hold the zero value.

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendInt64(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(v))
}

func appendInt32(b []byte, num protowire.Number, v int32) []byte {
	return appendInt64(b, num, int64(v))
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeBool(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m.AppendWire(nil))
}
