package registry

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-multierror"
	logging "github.com/ipfs/go-log/v2"
	"github.com/mitchellh/go-homedir"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

var log = logging.Logger("registry")

const reloadDebounce = 250 * time.Millisecond

// PeerInfo lists the addresses a storage node can be dialed at.
type PeerInfo struct {
	ID    string
	Addrs []string
}

type registryFile struct {
	Shard []proving.ShardInfo
	Peer  []PeerInfo
}

// FileRegistry reads the monitored shard set from a TOML file:
//
//	[[Shard]]
//	  ShardID = "s1"
//	  NodeID = "n1"
//	  PeerID = "12D3KooW..."
//	  Size = 8192
//	  Hash = "..."
//
//	[[Peer]]
//	  ID = "12D3KooW..."
//	  Addrs = ["/ip4/10.0.0.1/tcp/4001"]
type FileRegistry struct {
	path string

	lk     sync.Mutex
	shards []proving.ShardInfo
	peers  []PeerInfo
}

var _ proving.ShardRegistry = (*FileRegistry)(nil)

// NewFileRegistry loads the registry file once. A missing file yields an
// empty registry.
func NewFileRegistry(path string) (*FileRegistry, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, xerrors.Errorf("expanding registry path: %w", err)
	}

	r := &FileRegistry{path: path}
	if err := r.Load(); err != nil {
		return nil, err
	}
	return r, nil
}

// Load re-reads the file. On error the previously loaded content is kept.
func (r *FileRegistry) Load() error {
	var f registryFile
	_, err := toml.DecodeFile(r.path, &f)
	switch {
	case os.IsNotExist(err):
		log.Warnw("registry file does not exist, no shards to monitor", "path", r.path)
	case err != nil:
		return xerrors.Errorf("decoding registry %s: %w", r.path, err)
	}

	if err := validate(f); err != nil {
		return xerrors.Errorf("invalid registry %s: %w", r.path, err)
	}

	r.lk.Lock()
	r.shards = f.Shard
	r.peers = f.Peer
	r.lk.Unlock()

	log.Debugw("loaded registry", "path", r.path, "shards", len(f.Shard), "peers", len(f.Peer))
	return nil
}

func validate(f registryFile) error {
	var merr *multierror.Error

	seen := map[string]struct{}{}
	for i, si := range f.Shard {
		if err := si.Validate(); err != nil {
			merr = multierror.Append(merr, xerrors.Errorf("shard entry %d: %w", i, err))
			continue
		}
		if _, dup := seen[si.ShardID]; dup {
			merr = multierror.Append(merr, fmt.Errorf("shard %s listed more than once", si.ShardID))
		}
		seen[si.ShardID] = struct{}{}
	}

	for i, p := range f.Peer {
		if p.ID == "" {
			merr = multierror.Append(merr, fmt.Errorf("peer entry %d has no ID", i))
		}
	}

	return merr.ErrorOrNil()
}

// ListShards reloads the file and returns the shard set.
func (r *FileRegistry) ListShards(ctx context.Context) ([]proving.ShardInfo, error) {
	if err := r.Load(); err != nil {
		return nil, err
	}

	r.lk.Lock()
	defer r.lk.Unlock()
	return append([]proving.ShardInfo(nil), r.shards...), nil
}

// Peers returns the peer address entries of the last successful load.
func (r *FileRegistry) Peers() []PeerInfo {
	r.lk.Lock()
	defer r.lk.Unlock()
	return append([]PeerInfo(nil), r.peers...)
}

func (r *FileRegistry) Path() string {
	return r.path
}

// Watch calls onChange after the registry file is written, created or
// renamed into place, until ctx is done. The directory is watched so that
// editors replacing the file are picked up.
func (r *FileRegistry) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return xerrors.Errorf("creating registry watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		_ = w.Close()
		return xerrors.Errorf("watching registry dir: %w", err)
	}

	go func() {
		defer w.Close() //nolint:errcheck

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()

		for {
			select {
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(evt.Name) != r.path {
					continue
				}
				if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) && !evt.Has(fsnotify.Rename) {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(reloadDebounce, onChange)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnw("registry watcher error", "error", err)
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}
