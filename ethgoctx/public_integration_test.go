package ethgoctx

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/require"

	"github.com/xgr-network/xgr-solver/internal/testutil/mockrpc"
	"github.com/xgr-network/xgr-solver/internal/xtypes"
	"github.com/xgr-network/xgr-solver/solverctx"
)

func TestPublicClient_Call_ReturnsDecodedResult(t *testing.T) {
	srv := mockrpc.NewServer()
	defer srv.Close()
	srv.OnResult("eth_call", "0x0000000000000000000000000000000000000000000000000000000000000001")

	cl, err := rpc.DialContext(context.Background(), srv.URL)
	require.NoError(t, err)
	defer cl.Close()

	pc := &publicClient{cl: cl}
	out, err := pc.Call(context.Background(), solverctx.CallRequest{To: xtypes.Address{}, Data: []byte{0x01}})
	require.NoError(t, err)
	require.Equal(t, 32, len(out))
}

func TestPublicClient_SimulateCalls_SurfacesRevertData(t *testing.T) {
	srv := mockrpc.NewServer()
	defer srv.Close()
	srv.On("eth_call", mockrpc.Reply{ErrData: "0xdeadbeef"})

	cl, err := rpc.DialContext(context.Background(), srv.URL)
	require.NoError(t, err)
	defer cl.Close()

	pc := &publicClient{cl: cl}
	results, err := pc.SimulateCalls(context.Background(), solverctx.SimulateRequest{
		Calls: []solverctx.SimulateCall{{To: xtypes.Address{}, Data: []byte{0x01}}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.False(t, results[0].Success)

	want, _ := hex.DecodeString("deadbeef")
	require.Equal(t, want, results[0].RevertData)
}

func TestPublicClient_GetBlock_DecodesTimestamp(t *testing.T) {
	srv := mockrpc.NewServer()
	defer srv.Close()
	srv.OnResult("eth_getBlockByNumber", map[string]string{
		"number":    "0x64",
		"timestamp": "0x5f5e100",
	})

	cl, err := rpc.DialContext(context.Background(), srv.URL)
	require.NoError(t, err)
	defer cl.Close()

	pc := &publicClient{cl: cl}
	blk, err := pc.GetBlock(context.Background(), 100)
	require.NoError(t, err)
	require.Equal(t, uint64(100), blk.Number)
	require.Equal(t, uint64(0x5f5e100), blk.Timestamp)
}
