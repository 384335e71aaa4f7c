package impl

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/raulk/clock"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/client"
	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/journal"
	"github.com/filecoin-project/shardproof/journal/alerting"
	"github.com/filecoin-project/shardproof/storage/proving"
)

type honestTransport struct {
	clk clock.Clock
}

func (h *honestTransport) SendChallenge(_ context.Context, _ string, req proving.ChallengeRequest) (*proving.ChallengeResponse, error) {
	proof, err := proving.ComputeProof(make([]byte, req.Spec.Length), req.Spec.Nonce)
	if err != nil {
		return nil, err
	}
	return &proving.ChallengeResponse{
		ChallengeID: req.ChallengeID,
		Proof:       proof,
		Timestamp:   h.clk.Now().UTC().Format(time.RFC3339Nano),
		SegmentSize: req.Spec.Length,
	}, nil
}

// blockingTransport holds challenges until release is closed.
type blockingTransport struct {
	honestTransport
	called  chan struct{}
	release chan struct{}
}

func (b *blockingTransport) SendChallenge(ctx context.Context, peerID string, req proving.ChallengeRequest) (*proving.ChallengeResponse, error) {
	b.called <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.honestTransport.SendChallenge(ctx, peerID, req)
}

func startAPI(t *testing.T) (api.ShardProof, *ShardProofAPI) {
	return startAPIWithTransport(t, func(clk clock.Clock) proving.Transport {
		return &honestTransport{clk: clk}
	})
}

func startAPIWithTransport(t *testing.T, transport func(clock.Clock) proving.Transport) (api.ShardProof, *ShardProofAPI) {
	mock := clock.NewMock()
	cfg := proving.DefaultConfig()
	cfg.CleanupInterval = 24 * time.Hour

	c, err := proving.NewCoordinator(cfg, transport(mock), proving.WithClock(mock))
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	impl := &ShardProofAPI{
		Coordinator: c,
		Alerting:    alerting.NewAlertingSystem(journal.NilJournal()),
	}

	rpcServer := jsonrpc.NewServer(jsonrpc.WithServerErrors(api.RPCErrors))
	rpcServer.Register("ShardProof", impl)
	srv := httptest.NewServer(rpcServer)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	cl, closer, err := client.NewShardProofRPC(ctx, "ws://"+srv.Listener.Addr().String(), nil)
	require.NoError(t, err)
	t.Cleanup(closer)

	return cl, impl
}

var shard = proving.ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: "p1", Size: 4096}

func TestAPIVersion(t *testing.T) {
	cl, _ := startAPI(t)

	v, err := cl.Version(context.Background())
	require.NoError(t, err)
	require.True(t, v.APIVersion.EqMajorMinor(build.APIVersion))
	require.Equal(t, build.UserVersion(), v.Version)
}

func TestAPIVerifyShard(t *testing.T) {
	cl, _ := startAPI(t)
	ctx := context.Background()

	res, err := cl.VerifyShard(ctx, shard)
	require.NoError(t, err)
	require.Equal(t, proving.OutcomeVerified, res.Outcome)
	require.True(t, res.Success)

	rel, err := cl.NodeReliability(ctx, "n1")
	require.NoError(t, err)
	require.EqualValues(t, 1, rel.TotalChallenges)
	require.Equal(t, 1.0, rel.ReliabilityScore)

	hist, err := cl.NodeHistory(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, hist, 1)

	reliable, err := cl.NodeList(ctx, api.NodesReliable)
	require.NoError(t, err)
	require.Len(t, reliable, 1)

	unreliable, err := cl.NodeList(ctx, api.NodesUnreliable)
	require.NoError(t, err)
	require.Empty(t, unreliable)

	_, err = cl.NodeList(ctx, "bogus")
	require.ErrorContains(t, err, "unknown node filter")

	st, err := cl.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, st.TotalNodes)
	require.EqualValues(t, 1, st.TotalChallenges)
	require.Equal(t, 1.0, st.OverallSuccessRate)
}

func TestAPIErrors(t *testing.T) {
	cl, _ := startAPI(t)
	ctx := context.Background()

	_, err := cl.NodeReliability(ctx, "nobody")
	require.ErrorContains(t, err, "node not found")
	require.ErrorIs(t, err, api.ErrNodeNotFound)

	err = cl.StartMonitoring(ctx, proving.ShardInfo{ShardID: "s1"})
	var invalid *api.ErrInvalidShardInfo
	require.ErrorAs(t, err, &invalid)
	require.Contains(t, invalid.Message, "missing node id")
	require.ErrorContains(t, err, "missing node id")
}

func TestAPIVerificationInProgress(t *testing.T) {
	tr := &blockingTransport{
		called:  make(chan struct{}, 1),
		release: make(chan struct{}),
	}
	cl, _ := startAPIWithTransport(t, func(clk clock.Clock) proving.Transport {
		tr.clk = clk
		return tr
	})
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := cl.VerifyShard(ctx, shard)
		done <- err
	}()
	<-tr.called

	_, err := cl.VerifyShard(ctx, shard)
	require.ErrorIs(t, err, api.ErrVerificationInProgress)

	close(tr.release)
	require.NoError(t, <-done)
}

func TestAPIMonitoring(t *testing.T) {
	cl, _ := startAPI(t)
	ctx := context.Background()

	require.NoError(t, cl.StartMonitoring(ctx, shard))

	shards, err := cl.MonitoredShards(ctx)
	require.NoError(t, err)
	require.Equal(t, []proving.ShardInfo{shard}, shards)

	res, err := cl.VerifyAll(ctx)
	require.NoError(t, err)
	require.Len(t, res, 1)
	require.True(t, res[0].Success)

	require.NoError(t, cl.CleanupExpired(ctx))

	require.NoError(t, cl.StopMonitoring(ctx, "s1"))
	shards, err = cl.MonitoredShards(ctx)
	require.NoError(t, err)
	require.Empty(t, shards)
}

func TestAPIAlerts(t *testing.T) {
	cl, impl := startAPI(t)

	at := impl.Alerting.AddAlertType("node-unreliable", "n1")
	impl.Alerting.Raise(at, map[string]string{"node": "n1"})

	alerts, err := cl.Alerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 1)
	require.True(t, alerts[0].Active)
	require.Equal(t, "n1", alerts[0].Type.Subsystem)
}
