// Package signature implements a witness resolver kind backed by ECDSA
// signature verification over secp256k1, the curve the rest of the module's
// dependency graph already pulls in via btcec.
package signature

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"golang.org/x/crypto/sha3"

	"github.com/xgr-network/xgr-solver/abiwire"
)

const pubKeyLen = 33 // compressed secp256k1 public key

// Resolver verifies that Data carries pubKey(33 bytes) || DER-encoded
// signature over keccak256(concat(values[i].Encoding)). On success it
// returns the signer's 20-byte address, derived the same way as any EVM
// account, wrapped as a Static AbiEncodedValue; callers reference the
// verified signer through the witness variable like any other value.
//
// Kind is the string plans must use in VariableRole.Witness.kind to select
// this plugin.
const Kind = "signature"

type Resolver struct{}

func New() *Resolver { return &Resolver{} }

func (Resolver) Resolve(_ context.Context, data []byte, values []abiwire.Value) (abiwire.Value, error) {
	if len(data) <= pubKeyLen {
		return abiwire.Value{}, fmt.Errorf("witness/signature: data too short to carry a public key and signature")
	}

	pubKey, err := btcec.ParsePubKey(data[:pubKeyLen])
	if err != nil {
		return abiwire.Value{}, fmt.Errorf("witness/signature: invalid public key: %w", err)
	}

	sig, err := ecdsa.ParseDERSignature(data[pubKeyLen:])
	if err != nil {
		return abiwire.Value{}, fmt.Errorf("witness/signature: invalid signature encoding: %w", err)
	}

	hash := hashValues(values)
	if !sig.Verify(hash, pubKey) {
		return abiwire.Value{}, fmt.Errorf("witness/signature: signature verification failed")
	}

	return abiwire.EncodeAddress(addressOf(pubKey)), nil
}

func hashValues(values []abiwire.Value) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, v := range values {
		h.Write(v.Encoding)
	}
	return h.Sum(nil)
}

// addressOf derives an EVM-style address from an uncompressed public key:
// the low 20 bytes of keccak256(x || y), dropping the leading 0x04 prefix
// byte (the same key-to-address idiom go-ethereum's `crypto` package uses,
// reproduced here to avoid an extra dependency for one helper).
func addressOf(pubKey *btcec.PublicKey) (addr [20]byte) {
	uncompressed := pubKey.SerializeUncompressed()
	h := sha3.NewLegacyKeccak256()
	h.Write(uncompressed[1:])
	digest := h.Sum(nil)
	copy(addr[:], digest[12:])
	return addr
}
