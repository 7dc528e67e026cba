// Package callbuilder composes ABI call data from a selector and a mixed
// list of literal and variable-bound arguments.
package callbuilder

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/xgr-network/xgr-solver/abiwire"
	"github.com/xgr-network/xgr-solver/plan"
)

// VariableGetter resolves a Variable argument to its current value; it is
// the slice of VariableEnv's contract that the call builder needs.
type VariableGetter interface {
	Get(ctx context.Context, varIdx int) (abiwire.Value, error)
}

// ResolveArguments turns a plan's Argument list into AbiEncodedValues,
// pulling Variable arguments through env.
func ResolveArguments(ctx context.Context, args []plan.Argument, env VariableGetter) ([]abiwire.Value, error) {
	out := make([]abiwire.Value, len(args))
	for i, a := range args {
		switch a.Kind {
		case plan.ArgumentVariable:
			v, err := env.Get(ctx, a.VarIdx)
			if err != nil {
				return nil, fmt.Errorf("callbuilder: argument %d (variable %d): %w", i, a.VarIdx, err)
			}
			out[i] = v
		case plan.ArgumentLiteral:
			out[i] = a.Literal
		default:
			return nil, fmt.Errorf("callbuilder: argument %d has unknown kind %v", i, a.Kind)
		}
	}
	return out, nil
}

// BuildCallData composes calldata from a 4-byte selector and an ordered list
// of AbiEncodedValues using the head/tail layout: the head
// holds either a static value inline or a 32-byte offset to the value's
// position in the tail region; the tail holds every dynamic value's
// encoding, in order.
func BuildCallData(selector [4]byte, args []abiwire.Value) ([]byte, error) {
	headsSize := 0
	for _, v := range args {
		if v.IsDynamic() {
			headsSize += 32
		} else {
			headsSize += len(v.Encoding)
		}
	}

	heads := make([]byte, 0, headsSize)
	tails := make([]byte, 0)
	tailCursor := headsSize

	for _, v := range args {
		if v.IsDynamic() {
			var offset [32]byte
			binary.BigEndian.PutUint64(offset[24:], uint64(tailCursor))
			heads = append(heads, offset[:]...)
			tails = append(tails, v.Encoding...)
			tailCursor += len(v.Encoding)
		} else {
			heads = append(heads, v.Encoding...)
		}
	}

	out := make([]byte, 0, 4+len(heads)+len(tails))
	out = append(out, selector[:]...)
	out = append(out, heads...)
	out = append(out, tails...)
	return out, nil
}

// DecodeCallData is BuildCallData's inverse, used by tests to verify
// round-trip layout: it requires the caller to
// supply, per argument, whether it is expected to be static or dynamic and
// (for static) its width, since the wire layout alone does not self-describe
// argument boundaries.
func DecodeCallData(data []byte, shapes []ArgShape) (selector [4]byte, args []abiwire.Value, err error) {
	if len(data) < 4 {
		return selector, nil, fmt.Errorf("callbuilder: calldata too short for a selector")
	}
	copy(selector[:], data[:4])
	body := data[4:]

	headsSize := 0
	for _, s := range shapes {
		if s.Dynamic {
			headsSize += 32
		} else {
			headsSize += s.StaticWidth
		}
	}
	if len(body) < headsSize {
		return selector, nil, fmt.Errorf("callbuilder: calldata shorter than declared head size")
	}

	args = make([]abiwire.Value, len(shapes))
	cursor := 0
	for i, s := range shapes {
		if s.Dynamic {
			offset := binary.BigEndian.Uint64(body[cursor+24 : cursor+32])
			cursor += 32
			if int(offset) > len(body) {
				return selector, nil, fmt.Errorf("callbuilder: argument %d offset out of range", i)
			}
			// Without an explicit length this only works for the last
			// dynamic argument (callers in tests that need interior dynamic
			// args must supply shapes with BytesLen for this purpose).
			end := len(body)
			if s.BytesLen >= 0 {
				end = int(offset) + s.BytesLen
			}
			args[i] = abiwire.Dynamic(body[int(offset):end])
		} else {
			args[i] = abiwire.Static(body[cursor : cursor+s.StaticWidth])
			cursor += s.StaticWidth
		}
	}
	return selector, args, nil
}

// ArgShape describes an argument's expected wire shape for DecodeCallData.
type ArgShape struct {
	Dynamic     bool
	StaticWidth int // byte width of the inline static value, if Dynamic == false
	BytesLen    int // length of a dynamic argument's tail data; -1 means "rest of buffer"
}
