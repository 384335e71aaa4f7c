package proving

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"
)

type staticRegistry struct {
	shards []ShardInfo
	err    error
}

func (r *staticRegistry) ListShards(context.Context) ([]ShardInfo, error) {
	return r.shards, r.err
}

func TestReconcile(t *testing.T) {
	c, _, _, el := newTestCoordinator(t, testConfig(), respondAfter(0))
	ctx := context.Background()

	a := ShardInfo{ShardID: "a", NodeID: "n1", PeerID: "p1", Size: 10}
	b := ShardInfo{ShardID: "b", NodeID: "n2", PeerID: "p2", Size: 10}
	reg := &staticRegistry{shards: []ShardInfo{a, b}}

	res, err := c.Reconcile(ctx, reg)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, res.Started)
	require.Empty(t, res.Restarted)
	require.Empty(t, res.Stopped)
	require.Len(t, c.MonitoredShards(), 2)

	// unchanged registry is a no-op
	res, err = c.Reconcile(ctx, reg)
	require.NoError(t, err)
	require.Equal(t, ReconcileResult{}, res)
	require.Len(t, el.ofType(EvtMonitoringStarted), 2)

	moved := b
	moved.NodeID, moved.PeerID = "n3", "p3"
	reg.shards = []ShardInfo{moved, {ShardID: "broken"}}

	res, err = c.Reconcile(ctx, reg)
	require.ErrorIs(t, err, ErrInvalidShardInfo)
	require.Equal(t, []string{"b"}, res.Restarted)
	require.Equal(t, []string{"a"}, res.Stopped)

	shards := c.MonitoredShards()
	require.Equal(t, []ShardInfo{moved}, shards)
}

func TestReconcileRegistryError(t *testing.T) {
	c, _, _, _ := newTestCoordinator(t, testConfig(), respondAfter(0))

	_, err := c.Reconcile(context.Background(), &staticRegistry{err: xerrors.New("registry offline")})
	require.ErrorContains(t, err, "registry offline")
	require.Empty(t, c.MonitoredShards())
}
