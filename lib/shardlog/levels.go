package shardlog

import (
	"os"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"
)

// SetupLogLevels applies the default subsystem levels. GOLOG_LOG_LEVEL, when
// set, takes precedence and is left alone.
func SetupLogLevels() {
	if _, set := os.LookupEnv("GOLOG_LOG_LEVEL"); !set {
		_ = logging.SetLogLevel("*", "INFO")
		_ = logging.SetLogLevel("dht", "ERROR")
		_ = logging.SetLogLevel("swarm2", "WARN")
		_ = logging.SetLogLevel("connmgr", "WARN")
		_ = logging.SetLogLevel("rpc", "ERROR")
	}
}

// ApplySubsystemLevels sets per-subsystem levels from configuration.
func ApplySubsystemLevels(levels map[string]string) error {
	for sys, lvl := range levels {
		if err := logging.SetLogLevel(sys, lvl); err != nil {
			return xerrors.Errorf("setting log level for %s: %w", sys, err)
		}
	}
	return nil
}
