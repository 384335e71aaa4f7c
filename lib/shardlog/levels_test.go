package shardlog

import (
	"testing"

	logging "github.com/ipfs/go-log/v2"
	"github.com/stretchr/testify/require"
)

var _ = logging.Logger("shardlog-test")

func TestApplySubsystemLevels(t *testing.T) {
	require.NoError(t, ApplySubsystemLevels(map[string]string{"shardlog-test": "debug"}))
	require.Error(t, ApplySubsystemLevels(map[string]string{"shardlog-test": "loud"}))
}
