package abiwire

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode_RoundTrip_Static(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		{},
		bytesOf(1),
		bytesOf(32),
		bytesOf(33),
		bytesOf(96),
	}

	for _, encoding := range cases {
		v := Static(encoding)
		blob := Encode(v)
		got, err := Decode(blob)
		require.NoError(t, err)
		assert.Equal(t, KindStatic, got.Kind)
		assert.Equal(t, v.Encoding, got.Encoding)
	}
}

func TestEncodeDecode_RoundTrip_Dynamic(t *testing.T) {
	t.Parallel()

	cases := [][]byte{
		{},
		bytesOf(1),
		bytesOf(64),
	}

	for _, encoding := range cases {
		v := Dynamic(encoding)
		blob := Encode(v)
		got, err := Decode(blob)
		require.NoError(t, err)
		assert.Equal(t, KindDynamic, got.Kind)
		assert.Equal(t, v.Encoding, got.Encoding)
	}
}

func TestDecode_RejectsNonZeroStaticPadding(t *testing.T) {
	t.Parallel()

	blob := Encode(Static(bytesOf(32)))
	blob[len(blob)-1] = 0x01 // corrupt the trailing zero-pad

	_, err := Decode(blob)
	assert.ErrorContains(t, err, "malformed static padding")
}

func TestDecode_RejectsMismatchedLengthHeader(t *testing.T) {
	t.Parallel()

	blob := Encode(Static(bytesOf(32)))
	blob[31] = 0x21 // claim length 33 instead of 32

	_, err := Decode(blob)
	assert.ErrorContains(t, err, "length header")
}

func TestDecode_RejectsTooShortBlob(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytesOf(10))
	assert.ErrorContains(t, err, "too short")
}

func TestUint256_RoundTrip(t *testing.T) {
	t.Parallel()

	n := big.NewInt(1234567890)
	v := EncodeUint256(n)

	got, err := DecodeUint256(v)
	require.NoError(t, err)
	assert.Equal(t, 0, n.Cmp(got))
}

func TestDecodeUint256_RejectsDynamic(t *testing.T) {
	t.Parallel()

	_, err := DecodeUint256(Dynamic(bytesOf(32)))
	assert.ErrorContains(t, err, "expected a static value")
}

func bytesOf(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i + 1)
	}
	return b
}
