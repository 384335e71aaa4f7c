package lp2p

import (
	"context"
	"os"
	"path/filepath"

	logging "github.com/ipfs/go-log/v2"
	"github.com/libp2p/go-libp2p"
	"github.com/libp2p/go-libp2p/core/crypto"
	"github.com/libp2p/go-libp2p/core/host"
	"github.com/libp2p/go-libp2p/core/peer"
	"github.com/libp2p/go-libp2p/core/peerstore"
	"github.com/libp2p/go-libp2p/p2p/host/peerstore/pstoremem"
	mocknet "github.com/libp2p/go-libp2p/p2p/net/mock"
	"github.com/mitchellh/go-homedir"
	"github.com/multiformats/go-multiaddr"
	"go.uber.org/fx"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/build"
	"github.com/filecoin-project/shardproof/node/config"
)

var log = logging.Logger("p2pnode")

// Identity loads the host key from cfg.IdentityPath, generating and storing
// a new ed25519 key on first start. An empty path yields an ephemeral key.
func Identity(cfg config.Libp2p) (crypto.PrivKey, error) {
	if cfg.IdentityPath == "" {
		pk, _, err := crypto.GenerateEd25519Key(nil)
		return pk, err
	}

	path, err := homedir.Expand(cfg.IdentityPath)
	if err != nil {
		return nil, xerrors.Errorf("expanding identity path: %w", err)
	}

	kb, err := os.ReadFile(path)
	switch {
	case err == nil:
		pk, err := crypto.UnmarshalPrivateKey(kb)
		if err != nil {
			return nil, xerrors.Errorf("decoding identity %s: %w", path, err)
		}
		return pk, nil
	case !os.IsNotExist(err):
		return nil, xerrors.Errorf("reading identity: %w", err)
	}

	pk, _, err := crypto.GenerateEd25519Key(nil)
	if err != nil {
		return nil, err
	}
	kb, err = crypto.MarshalPrivateKey(pk)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, xerrors.Errorf("creating identity dir: %w", err)
	}
	if err := os.WriteFile(path, kb, 0600); err != nil {
		return nil, xerrors.Errorf("writing identity: %w", err)
	}

	id, _ := peer.IDFromPrivateKey(pk)
	log.Infow("generated new libp2p identity", "peer", id, "path", path)
	return pk, nil
}

func Host(lc fx.Lifecycle, pkey crypto.PrivKey, cfg config.Libp2p) (host.Host, error) {
	h, err := libp2p.New(
		libp2p.Identity(pkey),
		libp2p.ListenAddrStrings(cfg.ListenAddresses...),
		libp2p.Ping(true),
		libp2p.UserAgent("shardproof-"+build.UserVersion()),
	)
	if err != nil {
		return nil, xerrors.Errorf("creating libp2p host: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Infow("libp2p host up", "peer", h.ID(), "addrs", h.Addrs())
			return nil
		},
		OnStop: func(context.Context) error {
			return h.Close()
		},
	})

	return h, nil
}

var mockListenAddr = multiaddr.StringCast("/ip4/127.0.0.1/tcp/4242")

func MockHost(mn mocknet.Mocknet, pkey crypto.PrivKey) (host.Host, error) {
	id, err := peer.IDFromPrivateKey(pkey)
	if err != nil {
		return nil, err
	}

	ps, err := pstoremem.NewPeerstore()
	if err != nil {
		return nil, err
	}
	if err := ps.AddPrivKey(id, pkey); err != nil {
		return nil, err
	}
	if err := ps.AddPubKey(id, pkey.GetPublic()); err != nil {
		return nil, err
	}
	// mocknet connections take their local address from the peerstore
	ps.AddAddr(id, mockListenAddr, peerstore.PermanentAddrTTL)

	return mn.AddPeerWithPeerstore(id, ps)
}
