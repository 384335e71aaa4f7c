package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/filecoin-project/shardproof/storage/proving"
)

func TestDefaultMatchesCoordinatorDefaults(t *testing.T) {
	require.Equal(t, proving.DefaultConfig(), Default().Proving.ToProvingConfig())
}

func TestDecodeNothing(t *testing.T) {
	cfg, err := FromReader(bytes.NewReader(nil), Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestMissingFileIsDefault(t *testing.T) {
	cfg, err := FromFile(filepath.Join(t.TempDir(), "nope.toml"), Default())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestPartialConfig(t *testing.T) {
	cfgString := `
[Proving]
  ChallengeInterval = "10m"
  FailureThreshold = 5

[Registry]
  Path = "/etc/shardproof/shards.toml"

[Logging.SubsystemLevels]
  proving = "debug"
`
	expected := Default()
	expected.Proving.ChallengeInterval = Duration(10 * time.Minute)
	expected.Proving.FailureThreshold = 5
	expected.Registry.Path = "/etc/shardproof/shards.toml"
	expected.Logging.SubsystemLevels = map[string]string{"proving": "debug"}

	fname := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(fname, []byte(cfgString), 0644))

	cfg, err := FromFile(fname, Default())
	require.NoError(t, err)
	require.Equal(t, expected, cfg)
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("SHARDPROOF_PROVING_RETRYATTEMPTS", "7")

	cfg, err := FromReader(bytes.NewReader(nil), Default())
	require.NoError(t, err)
	require.Equal(t, 7, cfg.Proving.RetryAttempts)
}

func TestInvalidProvingSection(t *testing.T) {
	_, err := FromReader(strings.NewReader("[Proving]\n  ReliableScore = 1.5\n"), Default())
	require.ErrorContains(t, err, "[Proving]")

	_, err = FromReader(strings.NewReader("[Proving]\n  ChallengeTimeout = \"soon\"\n"), Default())
	require.Error(t, err)
}

func TestConfigCommentRoundTrip(t *testing.T) {
	b, err := ConfigComment(Default())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(b, []byte("# Default config:\n")))
	require.Contains(t, string(b), "[Proving]")
	require.Contains(t, string(b), `#  ChallengeInterval = "1h0m0s"`)

	// every value is commented out, so decoding yields the defaults
	cfg, err := FromReader(bytes.NewReader(b), Default())
	require.NoError(t, err)
	require.Equal(t, Default().Proving, cfg.Proving)
	require.Equal(t, Default().API, cfg.API)
	require.Equal(t, Default().Libp2p, cfg.Libp2p)
}
