package posnet

import (
	"io"
	"time"

	cbor "github.com/ipfs/go-ipld-cbor"
	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-msgio"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

const ProtocolID = "/shardproof/challenge/1.0.0"

var log = logging.Logger("posnet")

const (
	maxMessageSize   = 64 << 10
	maxSegmentLength = 16 << 20

	streamReadDeadline = 10 * time.Second
	writeResDeadline   = 10 * time.Second
	// used when the caller's context carries no deadline
	defaultStreamTimeout = time.Minute
)

func init() {
	cbor.RegisterCborType(ChallengeMsg{})
	cbor.RegisterCborType(ResponseMsg{})
}

// ChallengeMsg is the wire form of a challenge request.
type ChallengeMsg struct {
	ChallengeID string
	ShardID     string
	Type        string
	Offset      int64
	Length      int64
	Nonce       string
	Timestamp   string
}

// ResponseMsg carries either a proof or the reason the node refused to
// produce one.
type ResponseMsg struct {
	ChallengeID string
	Proof       string
	Timestamp   string
	SegmentSize int64
	Error       string
}

func challengeMsg(req proving.ChallengeRequest) *ChallengeMsg {
	return &ChallengeMsg{
		ChallengeID: req.ChallengeID,
		ShardID:     req.ShardID,
		Type:        req.Spec.Type,
		Offset:      req.Spec.Offset,
		Length:      req.Spec.Length,
		Nonce:       req.Spec.Nonce,
		Timestamp:   req.Spec.Timestamp,
	}
}

func (m *ChallengeMsg) request() proving.ChallengeRequest {
	return proving.ChallengeRequest{
		ChallengeID: m.ChallengeID,
		ShardID:     m.ShardID,
		Spec: proving.ChallengeSpec{
			Type:      m.Type,
			Offset:    m.Offset,
			Length:    m.Length,
			Nonce:     m.Nonce,
			Timestamp: m.Timestamp,
		},
	}
}

func writeMsg(w io.Writer, obj interface{}) error {
	b, err := cbor.DumpObject(obj)
	if err != nil {
		return xerrors.Errorf("encoding message: %w", err)
	}
	if err := msgio.NewVarintWriter(w).WriteMsg(b); err != nil {
		return xerrors.Errorf("writing message: %w", err)
	}
	return nil
}

func readMsg(r io.Reader, out interface{}) error {
	mr := msgio.NewVarintReaderSize(r, maxMessageSize)
	b, err := mr.ReadMsg()
	if err != nil {
		return xerrors.Errorf("reading message: %w", err)
	}
	defer mr.ReleaseMsg(b)

	if err := cbor.DecodeInto(b, out); err != nil {
		return xerrors.Errorf("decoding message: %w", err)
	}
	return nil
}
