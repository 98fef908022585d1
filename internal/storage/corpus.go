package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dotcommander/sitegen/internal/domain/site"
)

// CorpusFile keeps the training corpus as a single JSON document. It
// satisfies synth.CorpusStore.
type CorpusFile struct {
	mu    sync.Mutex
	store Storage
	path  string
}

func NewCorpusFile(store Storage, path string) *CorpusFile {
	return &CorpusFile{store: store, path: path}
}

// SaveCorpus replaces the stored snapshot
func (c *CorpusFile) SaveCorpus(ctx context.Context, corpus []site.TrainingExample) error {
	if corpus == nil {
		corpus = []site.TrainingExample{}
	}
	data, err := json.MarshalIndent(corpus, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding corpus: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.store.Save(ctx, c.path, data); err != nil {
		return fmt.Errorf("saving corpus: %w", err)
	}
	return nil
}

// LoadCorpus returns the stored snapshot, or nil when none was saved yet
func (c *CorpusFile) LoadCorpus(ctx context.Context) ([]site.TrainingExample, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.store.Exists(ctx, c.path) {
		return nil, nil
	}

	data, err := c.store.Load(ctx, c.path)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}

	var corpus []site.TrainingExample
	if err := json.Unmarshal(data, &corpus); err != nil {
		return nil, fmt.Errorf("decoding corpus %s: %w", c.path, err)
	}
	return corpus, nil
}
