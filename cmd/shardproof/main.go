package main

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/filecoin-project/shardproof/build"
	lcli "github.com/filecoin-project/shardproof/cli"
	"github.com/filecoin-project/shardproof/lib/shardlog"
)

var log = logging.Logger("main")

const FlagConfig = "config"

func main() {
	shardlog.SetupLogLevels()

	local := []*cli.Command{
		DaemonCmd,
		configCmd,
	}

	app := &cli.App{
		Name:                 "shardproof",
		Usage:                "Proof-of-storage challenge coordinator for sharded storage networks",
		Version:              build.UserVersion(),
		EnableBashCompletion: true,
		Flags: []cli.Flag{
			lcli.FlagAPIAddr,
			&cli.StringFlag{
				Name:    FlagConfig,
				EnvVars: []string{"SHARDPROOF_CONFIG"},
				Value:   "~/.shardproof/config.toml",
				Usage:   "daemon config file",
			},
		},

		Commands: append(local, lcli.Commands...),
	}
	app.Setup()

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}
