package posnet

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"golang.org/x/xerrors"

	"github.com/filecoin-project/shardproof/storage/proving"
)

// DirSource serves shards stored as flat files named by shard id.
type DirSource struct {
	root string
}

var _ proving.SegmentSource = (*DirSource)(nil)

func NewDirSource(root string) (*DirSource, error) {
	root, err := homedir.Expand(root)
	if err != nil {
		return nil, xerrors.Errorf("expanding shard dir: %w", err)
	}
	fi, err := os.Stat(root)
	if err != nil {
		return nil, xerrors.Errorf("opening shard dir: %w", err)
	}
	if !fi.IsDir() {
		return nil, xerrors.Errorf("shard dir %s is not a directory", root)
	}
	return &DirSource{root: root}, nil
}

func (d *DirSource) ReadSegment(shardID string, offset, length int64) ([]byte, error) {
	if shardID == "" || shardID == "." || shardID == ".." || filepath.Base(shardID) != shardID {
		return nil, xerrors.Errorf("invalid shard id %q", shardID)
	}

	f, err := os.Open(filepath.Join(d.root, shardID))
	if err != nil {
		return nil, xerrors.Errorf("opening shard %s: %w", shardID, err)
	}
	defer f.Close() //nolint:errcheck

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, offset)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, xerrors.Errorf("reading shard %s at %d: %w", shardID, offset, err)
	}
	return buf[:n], nil
}
