package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/api"
)

var NodesCmd = &cli.Command{
	Name:  "nodes",
	Usage: "Inspect storage node reliability",
	Subcommands: []*cli.Command{
		nodesListCmd,
		nodesShowCmd,
	},
}

var nodesListCmd = &cli.Command{
	Name:  "list",
	Usage: "List tracked storage nodes",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "reliable",
			Usage: "only list reliable nodes",
		},
		&cli.BoolFlag{
			Name:  "unreliable",
			Usage: "only list unreliable nodes",
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.Bool("reliable") && cctx.Bool("unreliable") {
			return xerrors.New("--reliable and --unreliable are mutually exclusive")
		}
		filter := api.NodesAll
		switch {
		case cctx.Bool("reliable"):
			filter = api.NodesReliable
		case cctx.Bool("unreliable"):
			filter = api.NodesUnreliable
		}

		napi, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		nodes, err := napi.NodeList(ctx, filter)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cctx.App.Writer, 4, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "Node\tStatus\tScore\tChallenges\tFailed\tAvg Resp\tLast")
		for _, n := range nodes {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
				n.NodeID, reliabilityStr(n), scoreStr(n.ReliabilityScore),
				n.TotalChallenges, n.FailedChallenges, msStr(n.AverageResponseTime), agoStr(n.LastChallenge))
		}
		return tw.Flush()
	},
}

var nodesShowCmd = &cli.Command{
	Name:      "show",
	Usage:     "Show reliability and recent challenges of a node",
	ArgsUsage: "[nodeID]",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "history",
			Usage: "number of most recent challenges to print",
			Value: 10,
		},
	},
	Action: func(cctx *cli.Context) error {
		if cctx.NArg() != 1 {
			return xerrors.New("expected a node id")
		}
		nodeID := cctx.Args().First()

		napi, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		rel, err := napi.NodeReliability(ctx, nodeID)
		if err != nil {
			return xerrors.Errorf("getting node %s: %w", nodeID, err)
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "Node:       %s [%s]\n", rel.NodeID, reliabilityStr(*rel))
		fmt.Fprintf(w, "Peer:       %s\n", rel.PeerID)
		fmt.Fprintf(w, "Score:      %s\n", scoreStr(rel.ReliabilityScore))
		fmt.Fprintf(w, "Challenges: %d (%d ok, %d failed)\n", rel.TotalChallenges, rel.SuccessfulChallenges, rel.FailedChallenges)
		fmt.Fprintf(w, "Avg resp:   %s\n", msStr(rel.AverageResponseTime))
		fmt.Fprintf(w, "Last:       %s\n", agoStr(rel.LastChallenge))

		hist, err := napi.NodeHistory(ctx, nodeID)
		if err != nil {
			return err
		}
		if n := cctx.Int("history"); n >= 0 && len(hist) > n {
			hist = hist[len(hist)-n:]
		}
		if len(hist) == 0 {
			return nil
		}

		fmt.Fprintln(w, "\nRecent challenges:")
		tw := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
		for _, h := range hist {
			res := color.GreenString("ok")
			if !h.Success {
				res = color.RedString("failed")
			}
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", h.Timestamp.Format("2006-01-02 15:04:05"), res, h.ResponseTime, scoreStr(h.ReliabilityScore))
		}
		return tw.Flush()
	},
}
