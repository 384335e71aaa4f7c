package config

import (
	"encoding"
	"time"

	"github.com/filecoin-project/shardproof/storage/proving"
)

// Default returns the default config
func Default() *Config {
	pc := proving.DefaultConfig()

	return &Config{
		API: API{
			ListenAddress: "/ip4/127.0.0.1/tcp/3456/http",
			Timeout:       Duration(30 * time.Second),
		},
		Libp2p: Libp2p{
			ListenAddresses: []string{
				"/ip4/0.0.0.0/tcp/0",
				"/ip6/::/tcp/0",
			},
			IdentityPath: "~/.shardproof/identity.key",
		},
		Proving: Proving{
			ChallengeTimeout:  Duration(pc.ChallengeTimeout),
			ChallengeInterval: Duration(pc.ChallengeInterval),
			MaxChallengeSize:  pc.MaxChallengeSize,
			FailureThreshold:  pc.FailureThreshold,
			RetryAttempts:     pc.RetryAttempts,
			CleanupInterval:   Duration(pc.CleanupInterval),
			ReliableScore:     pc.ReliableScore,
			HistorySize:       pc.HistorySize,
			BatchParallelism:  pc.BatchParallelism,
		},
		Responder: Responder{
			ShardDir:        "~/.shardproof/shards",
			ReplayCacheSize: 4096,
		},
		Registry: Registry{
			ResyncInterval: Duration(10 * time.Minute),
		},
		Journal: Journal{
			Path: "~/.shardproof",
		},
	}
}

// ToProvingConfig converts the [Proving] section into coordinator settings.
func (p Proving) ToProvingConfig() proving.Config {
	return proving.Config{
		ChallengeTimeout:  time.Duration(p.ChallengeTimeout),
		ChallengeInterval: time.Duration(p.ChallengeInterval),
		MaxChallengeSize:  p.MaxChallengeSize,
		FailureThreshold:  p.FailureThreshold,
		RetryAttempts:     p.RetryAttempts,
		CleanupInterval:   time.Duration(p.CleanupInterval),
		ReliableScore:     p.ReliableScore,
		HistorySize:       p.HistorySize,
		BatchParallelism:  p.BatchParallelism,
	}
}

var _ encoding.TextMarshaler = (*Duration)(nil)
var _ encoding.TextUnmarshaler = (*Duration)(nil)

// Duration is a wrapper type for time.Duration
// for decoding and encoding from/to TOML
type Duration time.Duration

// UnmarshalText implements interface for TOML decoding
func (dur *Duration) UnmarshalText(text []byte) error {
	d, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*dur = Duration(d)
	return err
}

func (dur Duration) MarshalText() ([]byte, error) {
	d := time.Duration(dur)
	return []byte(d.String()), nil
}
