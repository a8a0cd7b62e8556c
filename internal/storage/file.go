package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"cuzdan/internal/core"
)

// FilePersister keeps state documents in a JSON file, one entry per storage
// key, so several stores can share a file the way they share a key-value store.
type FilePersister struct {
	mu   sync.Mutex
	path string
	key  string
}

func NewFilePersister(path, key string) (*FilePersister, error) {
	if key == "" {
		key = core.DefaultStorageKey
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FilePersister{path: path, key: key}, nil
}

func (p *FilePersister) Load(ctx context.Context) (core.State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs, err := p.read()
	if err != nil {
		return core.State{}, err
	}
	raw, ok := docs[p.key]
	if !ok {
		return core.State{}, nil
	}
	var st core.State
	if err := json.Unmarshal(raw, &st); err != nil {
		return core.State{}, fmt.Errorf("decode state %q: %w", p.key, err)
	}
	return st, nil
}

// Save rewrites the file atomically through a temp file and rename.
func (p *FilePersister) Save(ctx context.Context, st core.State) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	docs, err := p.read()
	if err != nil {
		return err
	}
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	docs[p.key] = doc

	data, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state file: %w", err)
	}
	tmp := p.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, p.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

func (p *FilePersister) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(p.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state file: %w", err)
	}
	docs := map[string]json.RawMessage{}
	if len(data) == 0 {
		return docs, nil
	}
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("decode state file: %w", err)
	}
	// a literal null decodes to a nil map
	if docs == nil {
		docs = map[string]json.RawMessage{}
	}
	return docs, nil
}
