// Package store persists the snapshot collection, collector state, and a
// detail-page cache under the data directory.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sealane-research/roundup-cli/internal/model"
)

const (
	collectionFile = "market_data.json"
	stateFile      = "state.json"
)

// Files persists the snapshot collection and collector state as JSON. Every
// write is a wholesale rewrite via a temp file and rename, so a reader never
// observes a half-written store.
type Files struct {
	dir string
}

// NewFiles creates the data directory if needed. An unwritable directory is
// the one fatal startup condition.
func NewFiles(dir string) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "store: create data dir %s", dir)
	}
	return &Files{dir: dir}, nil
}

// Dir returns the data directory path.
func (f *Files) Dir() string { return f.dir }

// LoadCollection reads the persisted snapshot collection. A missing file
// yields an empty collection, not an error.
func (f *Files) LoadCollection() ([]model.MarketSnapshot, error) {
	path := filepath.Join(f.dir, collectionFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "store: read %s", collectionFile)
	}

	var collection []model.MarketSnapshot
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, eris.Wrapf(err, "store: decode %s", collectionFile)
	}
	return collection, nil
}

// SaveCollection rewrites the whole snapshot collection.
func (f *Files) SaveCollection(collection []model.MarketSnapshot) error {
	return f.write(collectionFile, collection)
}

// LoadState reads the persisted collector state, zero-valued when the file
// does not exist yet.
func (f *Files) LoadState() (model.PersistentState, error) {
	var state model.PersistentState

	path := filepath.Join(f.dir, stateFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, eris.Wrapf(err, "store: read %s", stateFile)
	}
	if err := json.Unmarshal(data, &state); err != nil {
		return state, eris.Wrapf(err, "store: decode %s", stateFile)
	}
	return state, nil
}

// SaveState rewrites the collector state.
func (f *Files) SaveState(state model.PersistentState) error {
	return f.write(stateFile, state)
}

func (f *Files) write(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return eris.Wrapf(err, "store: encode %s", name)
	}

	path := filepath.Join(f.dir, name)
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return eris.Wrapf(err, "store: create temp for %s", name)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "store: write temp for %s", name)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "store: close temp for %s", name)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return eris.Wrapf(err, "store: replace %s", name)
	}

	zap.L().Debug("store: file rewritten", zap.String("file", name), zap.Int("bytes", len(data)))
	return nil
}
