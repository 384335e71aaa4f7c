package posnet

import (
	"context"
	"time"

	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/multiformats/go-multiaddr"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

// Transport sends challenges to storage nodes over libp2p streams.
type Transport struct {
	h host.Host
}

var _ proving.Transport = (*Transport)(nil)

func NewTransport(h host.Host) *Transport {
	return &Transport{h: h}
}

func (t *Transport) SendChallenge(ctx context.Context, peerID string, req proving.ChallengeRequest) (*proving.ChallengeResponse, error) {
	pid, err := peer.Decode(peerID)
	if err != nil {
		return nil, xerrors.Errorf("parsing peer id %q: %w", peerID, err)
	}

	s, err := t.h.NewStream(ctx, pid, ProtocolID)
	if err != nil {
		return nil, xerrors.Errorf("opening challenge stream to %s: %w", pid, err)
	}
	defer s.Close() //nolint:errcheck

	// the coordinator cancels instead of setting a deadline
	stop := context.AfterFunc(ctx, func() {
		_ = s.Reset()
	})
	defer stop()

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(defaultStreamTimeout)
	}
	_ = s.SetDeadline(deadline)

	if err := writeMsg(s, challengeMsg(req)); err != nil {
		_ = s.Reset()
		return nil, xerrors.Errorf("sending challenge %s: %w", req.ChallengeID, err)
	}
	_ = s.CloseWrite()

	var resp ResponseMsg
	if err := readMsg(s, &resp); err != nil {
		return nil, xerrors.Errorf("reading response to challenge %s: %w", req.ChallengeID, err)
	}

	if resp.Error != "" {
		return nil, xerrors.Errorf("peer rejected challenge %s: %w", req.ChallengeID,
			&proving.RefusedError{PeerID: peerID, Reason: resp.Error})
	}

	return &proving.ChallengeResponse{
		ChallengeID: resp.ChallengeID,
		Proof:       resp.Proof,
		Timestamp:   resp.Timestamp,
		SegmentSize: resp.SegmentSize,
	}, nil
}

// AddPeerAddrs makes a storage node dialable by recording its listen
// addresses in the host's peerstore.
func AddPeerAddrs(h host.Host, peerID string, addrs []string) error {
	pid, err := peer.Decode(peerID)
	if err != nil {
		return xerrors.Errorf("parsing peer id %q: %w", peerID, err)
	}

	mas := make([]multiaddr.Multiaddr, 0, len(addrs))
	for _, a := range addrs {
		ma, err := multiaddr.NewMultiaddr(a)
		if err != nil {
			return xerrors.Errorf("parsing address %q of peer %s: %w", a, pid, err)
		}
		mas = append(mas, ma)
	}

	h.Peerstore().AddAddrs(pid, mas, peerstore.PermanentAddrTTL)
	return nil
}
