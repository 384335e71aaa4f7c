package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

var VerifyCmd = &cli.Command{
	Name:      "verify",
	Usage:     "Challenge a shard once and wait for the outcome",
	ArgsUsage: "[shardID]",
	Flags: append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "challenge every monitored shard once",
		},
	}, optionalShardFlags()...),
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)
		w := cctx.App.Writer

		if cctx.Bool("all") {
			res, err := api.VerifyAll(ctx)
			if err != nil {
				return err
			}

			failed := 0
			tw := tabwriter.NewWriter(w, 4, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(tw, "Shard\tNode\tResult\tDetail")
			for _, r := range res {
				detail := r.Error
				outcome := color.RedString("error")
				if r.Result != nil {
					outcome = outcomeStr(r.Result.Outcome)
					detail = r.Result.Reason
				}
				if !r.Success {
					failed++
				}
				_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.ShardID, r.NodeID, outcome, detail)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return xerrors.Errorf("%d of %d shards failed verification", failed, len(res))
			}
			return nil
		}

		if cctx.String("node") == "" || cctx.String("peer") == "" {
			return xerrors.New("--node and --peer are required unless --all is set")
		}
		info, err := shardFromFlags(cctx)
		if err != nil {
			return err
		}

		res, err := api.VerifyShard(ctx, info)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "Challenge:  %s\n", res.ChallengeID)
		fmt.Fprintf(w, "Outcome:    %s\n", outcomeStr(res.Outcome))
		if res.Reason != "" {
			fmt.Fprintf(w, "Reason:     %s\n", res.Reason)
		}
		if res.Error != "" {
			fmt.Fprintf(w, "Error:      %s\n", res.Error)
		}
		fmt.Fprintf(w, "Resp time:  %s\n", res.ResponseTime)
		if res.Reliability != nil {
			fmt.Fprintf(w, "Node score: %s [%s]\n", scoreStr(res.Reliability.ReliabilityScore), reliabilityStr(*res.Reliability))
		}
		if !res.Success {
			return xerrors.Errorf("shard %s failed verification", info.ShardID)
		}
		return nil
	},
}

func optionalShardFlags() []cli.Flag {
	out := make([]cli.Flag, 0, len(shardFlags))
	for _, f := range shardFlags {
		if sf, ok := f.(*cli.StringFlag); ok && sf.Required {
			c := *sf
			c.Required = false
			f = &c
		}
		out = append(out, f)
	}
	return out
}

func outcomeStr(o proving.Outcome) string {
	switch o {
	case proving.OutcomeVerified:
		return color.GreenString(string(o))
	case proving.OutcomeAborted:
		return color.YellowString(string(o))
	}
	return color.RedString(string(o))
}
