package posnet

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/shardproof/storage/proving"
)

func setupPeers(t *testing.T, shards map[string][]byte) (client, node host.Host, src *DirSource) {
	dir := t.TempDir()
	for id, data := range shards {
		require.NoError(t, os.WriteFile(filepath.Join(dir, id), data, 0644))
	}
	src, err := NewDirSource(dir)
	require.NoError(t, err)

	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })

	client, err = mn.GenPeer()
	require.NoError(t, err)
	node, err = mn.GenPeer()
	require.NoError(t, err)
	require.NoError(t, mn.LinkAll())
	require.NoError(t, mn.ConnectAllButSelf())

	r, err := NewResponder(node, src, 128)
	require.NoError(t, err)
	r.Start()
	t.Cleanup(r.Stop)

	return client, node, src
}

func shardData(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i * 7)
	}
	return b
}

func TestChallengeRoundTrip(t *testing.T) {
	data := shardData(10_000)
	client, node, _ := setupPeers(t, map[string][]byte{"s1": data})

	req := proving.ChallengeRequest{
		ChallengeID: "c1",
		ShardID:     "s1",
		Spec: proving.ChallengeSpec{
			Type:      proving.SegmentHash,
			Offset:    1000,
			Length:    4096,
			Nonce:     "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
			Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	resp, err := NewTransport(client).SendChallenge(ctx, node.ID().String(), req)
	require.NoError(t, err)

	want, err := proving.ComputeProof(data[1000:5096], req.Spec.Nonce)
	require.NoError(t, err)
	require.Equal(t, want, resp.Proof)
	require.Equal(t, "c1", resp.ChallengeID)
	require.Equal(t, int64(4096), resp.SegmentSize)

	_, err = time.Parse(time.RFC3339Nano, resp.Timestamp)
	require.NoError(t, err)

	// same challenge id again is a replay
	_, err = NewTransport(client).SendChallenge(ctx, node.ID().String(), req)
	require.ErrorContains(t, err, "peer rejected challenge")
	require.ErrorContains(t, err, "already answered")
	var refused *proving.RefusedError
	require.ErrorAs(t, err, &refused)
	require.Equal(t, node.ID().String(), refused.PeerID)
}

func TestChallengeRefusals(t *testing.T) {
	client, node, _ := setupPeers(t, map[string][]byte{"s1": shardData(100)})
	tr := NewTransport(client)
	ctx := context.Background()

	nonce := "00000000000000000000000000000000000000000000000000000000000000ff"

	_, err := tr.SendChallenge(ctx, node.ID().String(), proving.ChallengeRequest{
		ChallengeID: "missing-shard",
		ShardID:     "nope",
		Spec:        proving.ChallengeSpec{Type: proving.SegmentHash, Length: 10, Nonce: nonce},
	})
	require.ErrorContains(t, err, "peer rejected challenge")

	_, err = tr.SendChallenge(ctx, node.ID().String(), proving.ChallengeRequest{
		ChallengeID: "traversal",
		ShardID:     "../s1",
		Spec:        proving.ChallengeSpec{Type: proving.SegmentHash, Length: 10, Nonce: nonce},
	})
	require.ErrorContains(t, err, "invalid shard id")

	_, err = tr.SendChallenge(ctx, node.ID().String(), proving.ChallengeRequest{
		ChallengeID: "merkle",
		ShardID:     "s1",
		Spec:        proving.ChallengeSpec{Type: "merkle_path", Length: 10, Nonce: nonce},
	})
	require.ErrorContains(t, err, "unsupported challenge type")

	_, err = tr.SendChallenge(ctx, "not-a-peer-id", proving.ChallengeRequest{ChallengeID: "x"})
	require.ErrorContains(t, err, "parsing peer id")
}

func TestCoordinatorOverLibp2p(t *testing.T) {
	data := shardData(20_000)
	client, node, src := setupPeers(t, map[string][]byte{"s1": data})

	cfg := proving.DefaultConfig()
	cfg.ChallengeTimeout = 10 * time.Second
	c, err := proving.NewCoordinator(cfg, NewTransport(client),
		proving.WithProofValidator(&proving.SegmentHashValidator{Source: src}))
	require.NoError(t, err)
	t.Cleanup(c.Shutdown)

	info := proving.ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: node.ID().String(), Size: int64(len(data))}
	for i := 0; i < 3; i++ {
		res, err := c.VerifyOnce(context.Background(), info)
		require.NoError(t, err)
		require.True(t, res.Success, "reason: %s, error: %s", res.Reason, res.Error)
	}

	rel, ok := c.Tracker().Get("n1")
	require.True(t, ok)
	require.Equal(t, uint64(3), rel.SuccessfulChallenges)
	require.True(t, rel.IsReliable)

	// a node that lost its copy fails verification
	lost := proving.ShardInfo{ShardID: "s2", NodeID: "n1", PeerID: node.ID().String(), Size: 100}
	res, err := c.VerifyOnce(context.Background(), lost)
	require.NoError(t, err)
	require.False(t, res.Success)
	require.Equal(t, proving.OutcomeError, res.Outcome)
}

func TestDirSourceShortRead(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1"), []byte("0123456789"), 0644))

	src, err := NewDirSource(dir)
	require.NoError(t, err)

	b, err := src.ReadSegment("s1", 6, 10)
	require.NoError(t, err)
	require.Equal(t, []byte("6789"), b)

	_, err = NewDirSource(filepath.Join(dir, "s1"))
	require.Error(t, err)
}

func TestAddPeerAddrs(t *testing.T) {
	mn := mocknet.New()
	defer mn.Close() //nolint:errcheck

	h, err := mn.GenPeer()
	require.NoError(t, err)
	other, err := mn.GenPeer()
	require.NoError(t, err)

	require.NoError(t, AddPeerAddrs(h, other.ID().String(), []string{"/ip4/10.0.0.1/tcp/4001"}))
	require.NotEmpty(t, h.Peerstore().Addrs(other.ID()))

	require.Error(t, AddPeerAddrs(h, other.ID().String(), []string{"not an addr"}))
	require.Error(t, AddPeerAddrs(h, "bogus", nil))
}

func TestResponderAnswersChallengeOnce(t *testing.T) {
	dir := t.TempDir()
	data := shardData(8192)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1"), data, 0644))
	src, err := NewDirSource(dir)
	require.NoError(t, err)

	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })
	h, err := mn.GenPeer()
	require.NoError(t, err)

	r, err := NewResponder(h, src, 128)
	require.NoError(t, err)

	req := proving.ChallengeRequest{
		ChallengeID: "c1",
		ShardID:     "s1",
		Spec: proving.ChallengeSpec{
			Type:   proving.SegmentHash,
			Length: 4096,
			Nonce:  "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef",
		},
	}

	const streams = 16
	var (
		wg       sync.WaitGroup
		lk       sync.Mutex
		answered int
	)
	for i := 0; i < streams; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if resp := r.answer(req); resp.Error == "" {
				lk.Lock()
				answered++
				lk.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Equal(t, 1, answered)
}

func TestResponderRetriesAfterReadFailure(t *testing.T) {
	dir := t.TempDir()
	src, err := NewDirSource(dir)
	require.NoError(t, err)

	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })
	h, err := mn.GenPeer()
	require.NoError(t, err)

	r, err := NewResponder(h, src, 128)
	require.NoError(t, err)

	req := proving.ChallengeRequest{
		ChallengeID: "c1",
		ShardID:     "s1",
		Spec: proving.ChallengeSpec{
			Type:   proving.SegmentHash,
			Length: 100,
			Nonce:  "00000000000000000000000000000000000000000000000000000000000000ff",
		},
	}

	resp := r.answer(req)
	require.Contains(t, resp.Error, "reading segment")

	// the shard shows up; the failed attempt must not have consumed the id
	require.NoError(t, os.WriteFile(filepath.Join(dir, "s1"), shardData(100), 0644))
	resp = r.answer(req)
	require.Empty(t, resp.Error)
	require.Equal(t, "c1", resp.ChallengeID)
}
