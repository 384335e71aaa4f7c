package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

var shardFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "node",
		Usage:    "id of the node storing the shard",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "peer",
		Usage:    "libp2p peer id of the storage node",
		Required: true,
	},
	&cli.Int64Flag{
		Name:  "size",
		Usage: "shard size in bytes",
	},
	&cli.StringFlag{
		Name:  "hash",
		Usage: "expected content hash of the shard",
	},
}

func shardFromFlags(cctx *cli.Context) (proving.ShardInfo, error) {
	if cctx.NArg() != 1 {
		return proving.ShardInfo{}, xerrors.New("expected a shard id")
	}
	return proving.ShardInfo{
		ShardID: cctx.Args().First(),
		NodeID:  cctx.String("node"),
		PeerID:  cctx.String("peer"),
		Size:    cctx.Int64("size"),
		Hash:    cctx.String("hash"),
	}, nil
}

var MonitorCmd = &cli.Command{
	Name:  "monitor",
	Usage: "Manage periodic shard verification",
	Subcommands: []*cli.Command{
		monitorStartCmd,
		monitorStopCmd,
		monitorListCmd,
	},
}

var monitorStartCmd = &cli.Command{
	Name:      "start",
	Usage:     "Start periodically challenging a shard",
	ArgsUsage: "[shardID]",
	Flags:     shardFlags,
	Action: func(cctx *cli.Context) error {
		info, err := shardFromFlags(cctx)
		if err != nil {
			return err
		}

		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		if err := api.StartMonitoring(ReqContext(cctx), info); err != nil {
			return xerrors.Errorf("start monitoring %s: %w", info.ShardID, err)
		}
		fmt.Fprintf(cctx.App.Writer, "monitoring shard %s on node %s\n", info.ShardID, info.NodeID)
		return nil
	},
}

var monitorStopCmd = &cli.Command{
	Name:      "stop",
	Usage:     "Stop challenging a shard",
	ArgsUsage: "[shardID]",
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return xerrors.New("expected a shard id")
		}

		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		return api.StopMonitoring(ReqContext(cctx), cctx.Args().First())
	},
}

var monitorListCmd = &cli.Command{
	Name:  "list",
	Usage: "List monitored shards",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		shards, err := api.MonitoredShards(ReqContext(cctx))
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cctx.App.Writer, 4, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "Shard\tNode\tPeer\tSize")
		for _, s := range shards {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.ShardID, s.NodeID, s.PeerID, humanize.IBytes(uint64(s.Size)))
		}
		return tw.Flush()
	},
}
