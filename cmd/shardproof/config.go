package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/filecoin-project/shardproof/node/config"
)

var configCmd = &cli.Command{
	Name:  "config",
	Usage: "Manage node config",
	Subcommands: []*cli.Command{
		configDefaultCmd,
		configShowCmd,
	},
}

var configDefaultCmd = &cli.Command{
	Name:  "default",
	Usage: "Print default node config",
	Action: func(cctx *cli.Context) error {
		cb, err := config.ConfigComment(config.Default())
		if err != nil {
			return err
		}

		fmt.Fprintln(cctx.App.Writer, string(cb))
		return nil
	},
}

var configShowCmd = &cli.Command{
	Name:  "show",
	Usage: "Print the config the daemon would start with, after defaults and environment",
	Action: func(cctx *cli.Context) error {
		cfg, err := config.FromFile(cctx.String(FlagConfig), config.Default())
		if err != nil {
			return err
		}

		cb, err := config.ConfigComment(cfg)
		if err != nil {
			return err
		}

		fmt.Fprintln(cctx.App.Writer, string(cb))
		return nil
	},
}
