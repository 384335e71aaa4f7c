package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/filecoin-project/shardproof/build"
)

var VersionCmd = &cli.Command{
	Name:  "version",
	Usage: "Print version",
	Action: func(cctx *cli.Context) error {
		api, closer, err := GetShardProofAPI(cctx)
		if err != nil {
			return err
		}
		defer closer()

		v, err := api.Version(ReqContext(cctx))
		if err != nil {
			return err
		}
		fmt.Fprintln(cctx.App.Writer, "Daemon: ", v.Version, "+api", v.APIVersion)

		fmt.Fprintln(cctx.App.Writer, "Local: ", build.UserVersion())
		return nil
	},
}
