package proving

import (
	"time"

	"golang.org/x/xerrors"
)

// Config controls challenge sizing, timing and reliability classification.
type Config struct {
	// ChallengeTimeout bounds how long a node has to answer a challenge.
	ChallengeTimeout time.Duration
	// ChallengeInterval is the period between verification cycles of a
	// monitored shard.
	ChallengeInterval time.Duration
	// MaxChallengeSize caps the challenged segment length in bytes.
	MaxChallengeSize int64
	// FailureThreshold is the number of failed challenges at which a node is
	// classified unreliable regardless of its score.
	FailureThreshold uint64
	// RetryAttempts is how many times a transport error is retried within
	// the challenge timeout before the cycle counts as failed.
	RetryAttempts int

	CleanupInterval  time.Duration
	ReliableScore    float64
	HistorySize      int
	BatchParallelism int
}

func DefaultConfig() Config {
	return Config{
		ChallengeTimeout:  30 * time.Second,
		ChallengeInterval: time.Hour,
		MaxChallengeSize:  4096,
		FailureThreshold:  3,
		RetryAttempts:     2,
		CleanupInterval:   30 * time.Second,
		ReliableScore:     0.8,
		HistorySize:       100,
		BatchParallelism:  8,
	}
}

func (c Config) Validate() error {
	switch {
	case c.ChallengeTimeout <= 0:
		return xerrors.Errorf("challenge timeout must be positive, got %s", c.ChallengeTimeout)
	case c.ChallengeInterval <= 0:
		return xerrors.Errorf("challenge interval must be positive, got %s", c.ChallengeInterval)
	case c.CleanupInterval <= 0:
		return xerrors.Errorf("cleanup interval must be positive, got %s", c.CleanupInterval)
	case c.MaxChallengeSize <= 0:
		return xerrors.Errorf("max challenge size must be positive, got %d", c.MaxChallengeSize)
	case c.FailureThreshold == 0:
		return xerrors.Errorf("failure threshold must be at least 1")
	case c.RetryAttempts < 0:
		return xerrors.Errorf("retry attempts can't be negative, got %d", c.RetryAttempts)
	case c.ReliableScore < 0 || c.ReliableScore > 1:
		return xerrors.Errorf("reliable score must be within [0, 1], got %f", c.ReliableScore)
	case c.HistorySize <= 0:
		return xerrors.Errorf("history size must be positive, got %d", c.HistorySize)
	case c.BatchParallelism <= 0:
		return xerrors.Errorf("batch parallelism must be positive, got %d", c.BatchParallelism)
	}
	return nil
}
