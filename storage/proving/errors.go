package proving

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrInvalidShardInfo is returned when a caller hands over a shard
	// description that cannot be challenged.
	ErrInvalidShardInfo = xerrors.New("invalid shard info")

	// ErrVerificationInProgress is returned when a cycle for the same shard
	// is still awaiting its response.
	ErrVerificationInProgress = xerrors.New("verification already in progress for shard")

	ErrShutdown = xerrors.New("coordinator is shut down")

	// ErrChallengeTimeout is the dispatch outcome when no response arrived
	// within the challenge timeout.
	ErrChallengeTimeout = xerrors.New("challenge response timed out")

	ErrProofMismatch = xerrors.New("proof does not match segment")

	errAborted = xerrors.New("challenge dispatch aborted")
)

// RefusedError is returned by a Transport when the node answered but
// declined the challenge. A refusal is final and is not retried.
type RefusedError struct {
	PeerID string
	Reason string
}

func (e *RefusedError) Error() string {
	return fmt.Sprintf("peer %s refused challenge: %s", e.PeerID, e.Reason)
}
