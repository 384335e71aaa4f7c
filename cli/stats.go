package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var StatsCmd = &cli.Command{
	Name:  "stats",
	Usage: "Print aggregate proving statistics",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()
		ctx := ReqContext(cctx)

		st, err := api.Statistics(ctx)
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		fmt.Fprintf(w, "Nodes:      %d (%s, %s)\n", st.TotalNodes,
			color.GreenString("%d reliable", st.ReliableNodes),
			color.RedString("%d unreliable", st.UnreliableNodes))
		fmt.Fprintf(w, "Challenges: %s total, %s successful, %s failed\n",
			humanize.Comma(int64(st.TotalChallenges)),
			humanize.Comma(int64(st.SuccessfulChallenges)),
			humanize.Comma(int64(st.FailedChallenges)))
		fmt.Fprintf(w, "Success:    %s\n", scoreStr(st.OverallSuccessRate))
		fmt.Fprintf(w, "Avg resp:   %s\n", msStr(st.AverageResponseTime))
		fmt.Fprintf(w, "Active:     %d challenges\n", st.ActiveChallenges)
		fmt.Fprintf(w, "Monitored:  %d shards\n", st.MonitoredShards)

		alerts, err := api.Alerts(ctx)
		if err != nil {
			return err
		}
		active := 0
		for _, a := range alerts {
			if a.Active {
				active++
			}
		}
		if active > 0 {
			fmt.Fprintf(w, "%s (check %s)\n", color.RedString("⚠ %d Active alerts", active), color.YellowString("shardproof alerts"))
		}
		return nil
	},
}
