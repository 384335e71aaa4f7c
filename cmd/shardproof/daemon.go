package main

import (
	"context"
	_ "net/http/pprof"

	"github.com/multiformats/go-multiaddr"
	"github.com/urfave/cli/v2"
	"go.opencensus.io/stats"
	"go.opencensus.io/tag"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/api"
	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/lib/shardlog"
	"github.com/filecoin-project/shardproof/metrics"
	"github.com/filecoin-project/shardproof/node"
	"github.com/filecoin-project/shardproof/node/config"
)

// DaemonCmd is the `shardproof daemon` command
var DaemonCmd = &cli.Command{
	Name:  "daemon",
	Usage: "Start a shardproof daemon process",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "api-listen",
			Usage: "override the API listen multiaddress from the config",
		},
		&cli.StringFlag{
			Name:  "registry",
			Usage: "override the shard registry file from the config",
		},
		&cli.BoolFlag{
			Name:  "responder",
			Usage: "answer challenges for shards in [Responder] ShardDir",
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := config.FromFile(cctx.String(FlagConfig), config.Default())
		if err != nil {
			return xerrors.Errorf("loading config: %w", err)
		}
		if cctx.IsSet("api-listen") {
			cfg.API.ListenAddress = cctx.String("api-listen")
		}
		if cctx.IsSet("registry") {
			cfg.Registry.Path = cctx.String("registry")
		}
		if cctx.Bool("responder") {
			cfg.Responder.Enable = true
		}

		if err := shardlog.ApplySubsystemLevels(cfg.Logging.SubsystemLevels); err != nil {
			return err
		}

		ctx, _ := tag.New(context.Background(),
			tag.Insert(metrics.Version, build.BuildVersion),
			tag.Insert(metrics.Commit, build.CurrentCommit),
		)

		endpoint, err := multiaddr.NewMultiaddr(cfg.API.ListenAddress)
		if err != nil {
			return xerrors.Errorf("parsing api listen address: %w", err)
		}

		var sp api.ShardProof
		stop, err := node.New(ctx,
			node.Config(cfg),
			node.ShardProofAPI(&sp),
		)
		if err != nil {
			return xerrors.Errorf("initializing node: %w", err)
		}

		h, err := node.ShardProofHandler(sp)
		if err != nil {
			return xerrors.Errorf("failed to instantiate rpc handler: %w", err)
		}
		stats.Record(ctx, metrics.ShardproofInfo.M(1))

		rpcStopper, err := node.ServeRPC(h, "shardproof-daemon", endpoint)
		if err != nil {
			return xerrors.Errorf("failed to start json-rpc endpoint: %s", err)
		}

		// Monitor for shutdown.
		finishCh := node.MonitorShutdown(make(chan struct{}),
			node.ShutdownHandler{Component: "rpc server", StopFunc: rpcStopper},
			node.ShutdownHandler{Component: "node", StopFunc: stop},
		)
		<-finishCh

		return nil
	},
}
