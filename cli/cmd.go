package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	logging "github.com/ipfs/go-log/v2"
	"github.com/multiformats/go-multiaddr"
	manet "github.com/multiformats/go-multiaddr/net"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/go-jsonrpc"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/api/client"
)

var log = logging.Logger("cli")

const (
	metadataContext = "context"
	// metadataTestAPI holds an api.ShardProof injected by tests.
	metadataTestAPI = "test-shardproof-api"
)

// FlagAPIAddr is the daemon API multiaddr, shared by all client commands.
var FlagAPIAddr = &cli.StringFlag{
	Name:    "api",
	Usage:   "multiaddress of the shardproof daemon api",
	Value:   "/ip4/127.0.0.1/tcp/3456/http",
	EnvVars: []string{"SHARDPROOF_API"},
}

// GetShardProofAPI dials the daemon named by the --api flag.
func GetShardProofAPI(cctx *cli.Context) (api.ShardProof, jsonrpc.ClientCloser, error) {
	if tn, ok := cctx.App.Metadata[metadataTestAPI]; ok {
		return tn.(api.ShardProof), func() {}, nil
	}

	ma, err := multiaddr.NewMultiaddr(cctx.String(FlagAPIAddr.Name))
	if err != nil {
		return nil, nil, xerrors.Errorf("parsing api address: %w", err)
	}
	_, addr, err := manet.DialArgs(ma)
	if err != nil {
		return nil, nil, xerrors.Errorf("resolving api address: %w", err)
	}

	return client.NewShardProofRPC(cctx.Context, "ws://"+addr+"/rpc/v0", http.Header{})
}

// ReqContext returns context for cli execution. Calling it for the first time
// installs SIGTERM handler that will close returned context.
// Not safe for concurrent execution.
func ReqContext(cctx *cli.Context) context.Context {
	if uctx, ok := cctx.App.Metadata[metadataContext]; ok {
		// unchecked cast as if something else is in there
		// it is crash worthy either way
		return uctx.(context.Context)
	}

	ctx, done := context.WithCancel(cctx.Context)
	sigChan := make(chan os.Signal, 2)
	go func() {
		<-sigChan
		done()
	}()
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	if cctx.App.Metadata == nil {
		cctx.App.Metadata = map[string]interface{}{}
	}
	cctx.App.Metadata[metadataContext] = ctx
	return ctx
}

func WithCategory(cat string, cmd *cli.Command) *cli.Command {
	cmd.Category = cat
	return cmd
}

var Commands = []*cli.Command{
	WithCategory("basic", StatsCmd),
	WithCategory("basic", NodesCmd),
	WithCategory("basic", AlertsCmd),
	WithCategory("proving", MonitorCmd),
	WithCategory("proving", VerifyCmd),
	WithCategory("developer", VersionCmd),
}
