// Package xtypes holds the small, dependency-light value types the solver's
// core packages share: raw EVM addresses/hashes and the ERC-7930
// chain-qualified account wire format.
package xtypes

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// Address is a raw 20-byte EVM address.
type Address [20]byte

// Hash is a raw 32-byte value (keccak output, storage slot, tx hash, ...).
type Hash [32]byte

// ZeroAddress is the all-zero Address.
var ZeroAddress = Address{}

// BytesToAddress left-pads/truncates b into an Address. Callers that need a
// strict 20-byte check should use AddressFromBytes instead.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > 20 {
		b = b[len(b)-20:]
	}
	copy(a[20-len(b):], b)
	return a
}

// AddressFromBytes requires exactly 20 bytes.
func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != 20 {
		return Address{}, fmt.Errorf("xtypes: address must be 20 bytes, got %d", len(b))
	}
	var a Address
	copy(a[:], b)
	return a, nil
}

func (a Address) Bytes() []byte { return a[:] }

// Checksum renders the address in EIP-55 mixed-case checksum form, the same
// keccak-then-fold idiom used for storage-slot derivation in
// chain/engine_registry.go's EngineRegistrySlotKeyAuthorizedEngine.
func (a Address) Checksum() string {
	lower := hex.EncodeToString(a[:])

	keccak := sha3.NewLegacyKeccak256()
	keccak.Write([]byte(lower))
	digest := keccak.Sum(nil)

	out := make([]byte, len(lower))
	for i, c := range []byte(lower) {
		if c >= '0' && c <= '9' {
			out[i] = c
			continue
		}
		// nibble i uses bit (7 - 4*(i%2)) of digest[i/2]
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x8 != 0 {
			out[i] = c - 'a' + 'A'
		} else {
			out[i] = c
		}
	}
	return "0x" + string(out)
}

func (a Address) String() string { return a.Checksum() }

func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(h[32-len(b):], b)
	return h
}

func (h Hash) Bytes() []byte { return h[:] }
