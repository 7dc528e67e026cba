// Package abiwire implements the AbiEncodedValue wire codec: a discriminated
// wrapper over a byte string distinguishing static vs. dynamic ABI encoding.
package abiwire

import (
	"bytes"
	"fmt"
	"math/big"
)

// Kind discriminates the two AbiEncodedValue shapes.
type Kind int

const (
	KindStatic Kind = iota
	KindDynamic
)

// Value is the decoded form of an AbiEncodedValue: an opaque ABI encoding
// plus whether it was carried as a static or dynamic wire value.
type Value struct {
	Kind     Kind
	Encoding []byte
}

func Static(encoding []byte) Value  { return Value{Kind: KindStatic, Encoding: encoding} }
func Dynamic(encoding []byte) Value { return Value{Kind: KindDynamic, Encoding: encoding} }

func (v Value) IsDynamic() bool { return v.Kind == KindDynamic }

// dynamicPrefix is the fixed 96-byte header: three 32-byte
// words 0x...0040, 0x...0060, 0x...0000 — the outer tuple(string "", T)'s
// head (offset-to-string, offset-to-T) followed by the empty string's
// zero-length word.
var dynamicPrefix = func() []byte {
	b := make([]byte, 96)
	b[31] = 0x40
	b[63] = 0x60
	return b
}()

// Encode renders a Value back into its wire AbiEncodedValue form. It is the
// exact inverse of Decode: Decode(Encode(v)) == v for both shapes.
func Encode(v Value) []byte {
	if v.Kind == KindDynamic {
		out := make([]byte, 96+len(v.Encoding))
		copy(out, dynamicPrefix)
		copy(out[96:], v.Encoding)
		return out
	}

	out := make([]byte, 32+len(v.Encoding)+32)
	length := big.NewInt(int64(len(v.Encoding))).Bytes()
	copy(out[32-len(length):32], length)
	copy(out[32:32+len(v.Encoding)], v.Encoding)
	// trailing 32 bytes are the zero-length tail of the empty string and are
	// left as the zero value.
	return out
}

// Decode parses the wire AbiEncodedValue form:
// either the blob begins with the canonical dynamic prefix (strip it; the
// remainder is T's own dynamic ABI encoding), or it is a static block
// [length(32)][encoding][zero-pad(32)] whose trailing 32 bytes must be zero
// and whose length header must equal len(encoding).
func Decode(b []byte) (Value, error) {
	if len(b) >= 96 && bytes.Equal(b[:96], dynamicPrefix) {
		encoding := make([]byte, len(b)-96)
		copy(encoding, b[96:])
		return Dynamic(encoding), nil
	}

	if len(b) < 64 {
		return Value{}, fmt.Errorf("abiwire: blob of %d bytes too short for a static AbiEncodedValue", len(b))
	}

	trailing := b[len(b)-32:]
	for _, x := range trailing {
		if x != 0 {
			return Value{}, fmt.Errorf("abiwire: malformed static padding, trailing 32 bytes are not all zero")
		}
	}

	lengthHeader := new(big.Int).SetBytes(b[:32])
	encoding := b[32 : len(b)-32]
	if lengthHeader.Cmp(big.NewInt(int64(len(encoding)))) != 0 {
		return Value{}, fmt.Errorf(
			"abiwire: static length header %s does not match encoding length %d",
			lengthHeader, len(encoding),
		)
	}

	out := make([]byte, len(encoding))
	copy(out, encoding)
	return Static(out), nil
}

// DecodeUint256 requires a Static value whose encoding ABI-decodes as a
// uint256 — the shape Formula.Variable and several other fields need.
func DecodeUint256(v Value) (*big.Int, error) {
	if v.Kind != KindStatic {
		return nil, fmt.Errorf("abiwire: expected a static value, got dynamic")
	}
	if len(v.Encoding) != 32 {
		return nil, fmt.Errorf("abiwire: expected a 32-byte uint256 encoding, got %d bytes", len(v.Encoding))
	}
	return new(big.Int).SetBytes(v.Encoding), nil
}

// EncodeUint256 wraps n as a Static AbiEncodedValue, the inverse of
// DecodeUint256.
func EncodeUint256(n *big.Int) Value {
	buf := make([]byte, 32)
	n.FillBytes(buf)
	return Static(buf)
}

// EncodeAddress wraps a 20-byte address as a Static AbiEncodedValue
// (left-padded to 32 bytes per ABI "address" encoding).
func EncodeAddress(addr [20]byte) Value {
	buf := make([]byte, 32)
	copy(buf[12:], addr[:])
	return Static(buf)
}
