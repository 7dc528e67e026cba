package codec

import (
	"fmt"
	"math/big"
)

// maxSafeInteger is the 53-bit ceiling enforced on any uint256 index value
// (variable indices, recipient indices, ...), chosen to preserve
// interoperability with hosts whose native integer type is an IEEE-754
// double.
const maxSafeInteger = (int64(1) << 53) - 1

// safeIndex converts a uint256 transported as *big.Int into a host int,
// rejecting anything outside the 53-bit safe-integer range.
func safeIndex(n *big.Int) (int, error) {
	if n == nil {
		return 0, fmt.Errorf("codec: nil integer index")
	}
	if n.Sign() < 0 {
		return 0, fmt.Errorf("codec: negative integer index %s", n)
	}
	if !n.IsInt64() || n.Int64() > maxSafeInteger {
		return 0, fmt.Errorf("codec: integer index %s exceeds the 53-bit safe-integer range", n)
	}
	return int(n.Int64()), nil
}

func safeUint64(n *big.Int) (uint64, error) {
	if n == nil {
		return 0, fmt.Errorf("codec: nil integer value")
	}
	if n.Sign() < 0 {
		return 0, fmt.Errorf("codec: negative integer value %s", n)
	}
	if !n.IsInt64() || n.Int64() > maxSafeInteger {
		return 0, fmt.Errorf("codec: integer value %s exceeds the 53-bit safe-integer range", n)
	}
	return uint64(n.Int64()), nil
}
