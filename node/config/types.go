package config

// // NOTE: ONLY PUT STRUCT DEFINITIONS IN THIS FILE

// Config is the shardproof daemon config
type Config struct {
	API       API
	Libp2p    Libp2p
	Proving   Proving
	Responder Responder
	Registry  Registry
	Journal   Journal
	Logging   Logging
}

// API contains configs for API endpoint
type API struct {
	// Binding address for the shardproof API and metrics endpoint.
	// Format: multiaddress
	ListenAddress string
	Timeout       Duration
}

// Libp2p contains configs for libp2p
type Libp2p struct {
	// Binding address for the libp2p host - 0 means random port.
	// Format: multiaddress; see https://multiformats.io/multiaddr/
	ListenAddresses []string
	// File holding the host's private key. Created on first start.
	IdentityPath string
}

// Proving configures the challenge coordinator
type Proving struct {
	// How long a storage node has to answer a challenge.
	ChallengeTimeout Duration
	// Time between verification cycles of a monitored shard.
	ChallengeInterval Duration
	// Upper bound of the challenged segment, in bytes.
	MaxChallengeSize int64
	// Failed challenges after which a node is unreliable regardless of its score.
	FailureThreshold uint64
	// Transport errors are retried this many times within ChallengeTimeout.
	RetryAttempts int
	// Period of the sweep that expires stale challenges.
	CleanupInterval Duration
	// Minimum success ratio of a reliable node.
	ReliableScore float64
	// Number of challenge records retained per node.
	HistorySize int
	// Number of concurrent cycles in a batch verification.
	BatchParallelism int

	// Directory of trusted shard replicas. When set, proofs are recomputed
	// from these files instead of only being checked for shape and freshness.
	ReferenceShardDir string
}

// Responder configures answering challenges for locally stored shards
type Responder struct {
	Enable bool
	// Directory with one file per shard, named by shard id.
	ShardDir        string
	ReplayCacheSize int
}

// Registry is the source of the monitored shard set
type Registry struct {
	// Path to a TOML shard list. Empty disables the registry.
	Path string
	// Full resync period, in addition to reloading when the file changes.
	ResyncInterval Duration
}

type Journal struct {
	// Directory the journal is written under. Empty disables journaling.
	Path string
	// Comma separated system:event pairs to leave out of the journal.
	DisabledEvents string
}

// Logging is the logging system config
type Logging struct {
	// SubsystemLevels specify per-subsystem log levels
	SubsystemLevels map[string]string
}
