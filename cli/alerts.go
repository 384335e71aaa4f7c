package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var AlertsCmd = &cli.Command{
	Name:  "alerts",
	Usage: "Get alert states",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "all",
			Usage: "get all (active and inactive) alerts",
		},
	},
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		alerts, err := api.Alerts(ReqContext(cctx))
		if err != nil {
			return err
		}

		w := cctx.App.Writer
		all := cctx.Bool("all")
		for _, alert := range alerts {
			if !all && !alert.Active {
				continue
			}

			active := color.RedString("active  ")
			if !alert.Active {
				active = color.GreenString("inactive")
			}

			fmt.Fprintf(w, "%s %s:%s\n", active, alert.Type.System, alert.Type.Subsystem)
			if alert.LastResolved != nil {
				fmt.Fprintf(w, "        last resolved at %s; reason: %s\n", alert.LastResolved.Time.Truncate(0), alert.LastResolved.Message)
			}
			if alert.LastActive != nil {
				fmt.Fprintf(w, "        %s %s; reason: %s\n", color.YellowString("last raised at"), alert.LastActive.Time.Truncate(0), alert.LastActive.Message)
			}
		}
		return nil
	},
}
