package xtypes

import (
	"fmt"
	"math/big"
)

// erc7930Version and erc7930ChainType are the only wire constants the core
// accepts.
const (
	erc7930Version  = 0x0001
	erc7930ChainType = 0x0000
)

// Account is a chain-qualified address: an (address, chainId) pair.
type Account struct {
	Address Address
	ChainID *big.Int
}

func NewAccount(addr Address, chainID *big.Int) Account {
	return Account{Address: addr, ChainID: chainID}
}

func (a Account) String() string {
	return fmt.Sprintf("%s@%s", a.Address.Checksum(), a.ChainID.String())
}

func (a Account) Equal(o Account) bool {
	if a.Address != o.Address {
		return false
	}
	if a.ChainID == nil || o.ChainID == nil {
		return a.ChainID == o.ChainID
	}
	return a.ChainID.Cmp(o.ChainID) == 0
}

// DecodeAccount parses the canonical ERC-7930 binary form:
//
//	version(2) || chainType(2) || len(1) || chainRef || len(1) || address
//
// The core accepts only version == 0x0001 and chainType == 0x0000; chainRef
// is a big-endian unsigned integer and address must be exactly 20 bytes.
func DecodeAccount(b []byte) (Account, error) {
	if len(b) < 2+2+1 {
		return Account{}, fmt.Errorf("xtypes: erc-7930 blob too short (%d bytes)", len(b))
	}

	version := uint16(b[0])<<8 | uint16(b[1])
	if version != erc7930Version {
		return Account{}, fmt.Errorf("xtypes: unsupported erc-7930 version 0x%04x", version)
	}

	chainType := uint16(b[2])<<8 | uint16(b[3])
	if chainType != erc7930ChainType {
		return Account{}, fmt.Errorf("xtypes: unsupported erc-7930 chain type 0x%04x", chainType)
	}

	off := 4
	if off >= len(b) {
		return Account{}, fmt.Errorf("xtypes: erc-7930 blob missing chainRef length")
	}
	chainRefLen := int(b[off])
	off++
	if off+chainRefLen > len(b) {
		return Account{}, fmt.Errorf("xtypes: erc-7930 blob truncated chainRef")
	}
	chainID := new(big.Int).SetBytes(b[off : off+chainRefLen])
	off += chainRefLen

	if off >= len(b) {
		return Account{}, fmt.Errorf("xtypes: erc-7930 blob missing address length")
	}
	addrLen := int(b[off])
	off++
	if addrLen != 20 {
		return Account{}, fmt.Errorf("xtypes: erc-7930 address length must be 20, got %d", addrLen)
	}
	if off+addrLen != len(b) {
		return Account{}, fmt.Errorf("xtypes: erc-7930 blob has %d trailing bytes", len(b)-(off+addrLen))
	}

	addr, err := AddressFromBytes(b[off : off+addrLen])
	if err != nil {
		return Account{}, err
	}

	return Account{Address: addr, ChainID: chainID}, nil
}

// EncodeAccount produces the canonical ERC-7930 binary form described above.
// It is the module's only writer of this format; within the module only
// tests call it, to build and round-trip encoded Accounts.
func EncodeAccount(a Account) []byte {
	chainID := a.ChainID
	if chainID == nil {
		chainID = new(big.Int)
	}
	ref := chainID.Bytes()
	if len(ref) == 0 {
		ref = []byte{0}
	}

	out := make([]byte, 0, 4+1+len(ref)+1+20)
	out = append(out, byte(erc7930Version>>8), byte(erc7930Version))
	out = append(out, byte(erc7930ChainType>>8), byte(erc7930ChainType))
	out = append(out, byte(len(ref)))
	out = append(out, ref...)
	out = append(out, 20)
	out = append(out, a.Address.Bytes()...)
	return out
}
