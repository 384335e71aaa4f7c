package node

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/peer"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/client"
	"github.com/filecoin-project/shardproof/node/config"
	"github.com/filecoin-project/shardproof/storage/proving"
)

type testNode struct {
	api  api.ShardProof
	id   peer.ID
	stop StopFunc
}

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.Libp2p.IdentityPath = ""
	cfg.Journal.Path = t.TempDir()
	return cfg
}

func startNode(t *testing.T, ctx context.Context, mn mocknet.Mocknet, cfg *config.Config) testNode {
	pk, _, err := crypto.GenerateEd25519Key(nil)
	require.NoError(t, err)
	id, err := peer.IDFromPrivateKey(pk)
	require.NoError(t, err)

	var a api.ShardProof
	stop, err := New(ctx,
		Config(cfg),
		MockHost(mn),
		Override(new(crypto.PrivKey), pk),
		ShardProofAPI(&a),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stop(context.Background()) })

	return testNode{api: a, id: id, stop: stop}
}

func TestNodeRequiresConfig(t *testing.T) {
	_, err := New(context.Background())
	require.ErrorContains(t, err, "node config not set")

	cfg := config.Default()
	_, err = New(context.Background(), Config(cfg), Config(cfg))
	require.ErrorContains(t, err, "config already applied")
}

func TestCoordinatorAndStorageNode(t *testing.T) {
	ctx := context.Background()
	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })

	shardDir := t.TempDir()
	data := make([]byte, 12_000)
	for i := range data {
		data[i] = byte(i % 251)
	}
	require.NoError(t, os.WriteFile(filepath.Join(shardDir, "s1"), data, 0644))

	storageCfg := testConfig(t)
	storageCfg.Responder.Enable = true
	storageCfg.Responder.ShardDir = shardDir
	storage := startNode(t, ctx, mn, storageCfg)

	regPath := filepath.Join(t.TempDir(), "shards.toml")
	require.NoError(t, os.WriteFile(regPath, []byte(fmt.Sprintf(`
[[Shard]]
  ShardID = "s1"
  NodeID = "n1"
  PeerID = "%s"
  Size = %d
`, storage.id, len(data))), 0644))

	coordCfg := testConfig(t)
	coordCfg.Registry.Path = regPath
	coordCfg.Proving.ReferenceShardDir = shardDir
	coord := startNode(t, ctx, mn, coordCfg)

	require.NoError(t, mn.LinkAll())

	shards, err := coord.api.MonitoredShards(ctx)
	require.NoError(t, err)
	require.Len(t, shards, 1)
	require.Equal(t, storage.id.String(), shards[0].PeerID)

	res, err := coord.api.VerifyShard(ctx, shards[0])
	require.NoError(t, err)
	require.True(t, res.Success, "reason: %s, error: %s", res.Reason, res.Error)

	batch, err := coord.api.VerifyAll(ctx)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	require.True(t, batch[0].Success, batch[0].Error)

	rel, err := coord.api.NodeReliability(ctx, "n1")
	require.NoError(t, err)
	require.EqualValues(t, 2, rel.SuccessfulChallenges)

	// the storage node runs no registry and has challenged nobody
	st, err := storage.api.Statistics(ctx)
	require.NoError(t, err)
	require.Zero(t, st.TotalNodes)

	require.NoError(t, coord.stop(ctx))
	_, err = coord.api.VerifyShard(ctx, shards[0])
	require.ErrorIs(t, err, api.ErrShuttingDown)

	_, err = os.Stat(filepath.Join(coordCfg.Journal.Path, "journal", "shardproof-journal.ndjson"))
	require.NoError(t, err)
}

func TestShardProofHandler(t *testing.T) {
	ctx := context.Background()
	mn := mocknet.New()
	t.Cleanup(func() { _ = mn.Close() })

	n := startNode(t, ctx, mn, testConfig(t))

	h, err := ShardProofHandler(n.api)
	require.NoError(t, err)
	srv := httptest.NewServer(h)
	defer srv.Close()

	cl, closer, err := client.NewShardProofRPC(ctx, "ws://"+srv.Listener.Addr().String()+"/rpc/v0", nil)
	require.NoError(t, err)
	defer closer()

	err = cl.StartMonitoring(ctx, proving.ShardInfo{ShardID: "s1", NodeID: "n1", PeerID: n.id.String()})
	require.NoError(t, err)

	shards, err := cl.MonitoredShards(ctx)
	require.NoError(t, err)
	require.Len(t, shards, 1)

	resp, err := http.Get(srv.URL + "/debug/metrics")
	require.NoError(t, err)
	defer resp.Body.Close() //nolint:errcheck
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "shardproof_proving_monitored_shards")
}
