package api

import (
	"github.com/filecoin-project/go-jsonrpc"
)

const (
	EInvalidShardInfo = iota + jsonrpc.FirstUserCode
	ENodeNotFound
	EShuttingDown
	EVerificationInProgress
)

var (
	RPCErrors = jsonrpc.NewErrors()

	// ErrNodeNotFound signals that no challenge was ever sent to the node.
	ErrNodeNotFound = &errNodeNotFound{}
	// ErrShuttingDown signals that the coordinator no longer accepts work.
	ErrShuttingDown = &errShuttingDown{}
	// ErrVerificationInProgress signals that a cycle for the same shard is
	// still running.
	ErrVerificationInProgress = &errVerificationInProgress{}

	_ error                 = (*ErrInvalidShardInfo)(nil)
	_ jsonrpc.RPCErrorCodec = (*ErrInvalidShardInfo)(nil)
	_ error                 = (*errNodeNotFound)(nil)
	_ error                 = (*errShuttingDown)(nil)
	_ error                 = (*errVerificationInProgress)(nil)
)

func init() {
	RPCErrors.Register(EInvalidShardInfo, new(*ErrInvalidShardInfo))
	RPCErrors.Register(ENodeNotFound, new(*errNodeNotFound))
	RPCErrors.Register(EShuttingDown, new(*errShuttingDown))
	RPCErrors.Register(EVerificationInProgress, new(*errVerificationInProgress))
}

// ErrInvalidShardInfo signals that a shard description was rejected.
type ErrInvalidShardInfo struct {
	Message string
}

func (e *ErrInvalidShardInfo) Error() string { return e.Message }

func (e *ErrInvalidShardInfo) FromJSONRPCError(jerr jsonrpc.JSONRPCError) error {
	e.Message = jerr.Message
	return nil
}

func (e *ErrInvalidShardInfo) ToJSONRPCError() (jsonrpc.JSONRPCError, error) {
	return jsonrpc.JSONRPCError{Code: EInvalidShardInfo, Message: e.Message}, nil
}

type errNodeNotFound struct{}

func (errNodeNotFound) Error() string { return "node not found" }

// Is matches any instance, including ones decoded by the RPC client.
func (errNodeNotFound) Is(target error) bool {
	_, ok := target.(*errNodeNotFound)
	return ok
}

type errShuttingDown struct{}

func (errShuttingDown) Error() string { return "proving coordinator is shutting down" }

// Is matches any instance, including ones decoded by the RPC client.
func (errShuttingDown) Is(target error) bool {
	_, ok := target.(*errShuttingDown)
	return ok
}

type errVerificationInProgress struct{}

func (errVerificationInProgress) Error() string { return "verification already in progress for shard" }

// Is matches any instance, including ones decoded by the RPC client.
func (errVerificationInProgress) Is(target error) bool {
	_, ok := target.(*errVerificationInProgress)
	return ok
}
