// Package search provides full-text lookup over transactions with an
// in-memory bleve index.
package search

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/cleared-dev/finadvisor/internal/model"
)

// DefaultLimit caps results when the caller passes a non-positive limit.
const DefaultLimit = 10

// ErrEmptyQuery is returned for a blank query.
var ErrEmptyQuery = errors.New("empty search query")

type document struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Source      string `json:"source"`
}

// Hit is one matching transaction.
type Hit struct {
	Transaction model.Transaction
	Score       float64
}

// Index is safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	index bleve.Index
	txns  map[string]model.Transaction
}

// NewIndex creates an empty in-memory index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildMapping())
	if err != nil {
		return nil, fmt.Errorf("creating search index: %w", err)
	}
	return &Index{index: idx, txns: make(map[string]model.Transaction)}, nil
}

func buildMapping() mapping.IndexMapping {
	text := bleve.NewTextFieldMapping()
	text.Analyzer = simple.Name

	kw := bleve.NewTextFieldMapping()
	kw.Analyzer = keyword.Name

	doc := bleve.NewDocumentMapping()
	doc.AddFieldMappingsAt("description", text)
	doc.AddFieldMappingsAt("category", text)
	doc.AddFieldMappingsAt("source", kw)

	m := bleve.NewIndexMapping()
	m.DefaultMapping = doc
	m.DefaultAnalyzer = simple.Name
	return m
}

// Add indexes txns. Transactions without an ID are keyed by their position
// in the index.
func (ix *Index) Add(txns []model.Transaction) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	batch := ix.index.NewBatch()
	for _, t := range txns {
		key := t.ID
		if key == "" {
			key = "row-" + strconv.Itoa(len(ix.txns))
		}
		doc := document{Description: t.Description, Category: t.Category, Source: t.Source}
		if err := batch.Index(key, doc); err != nil {
			return fmt.Errorf("indexing %s: %w", key, err)
		}
		ix.txns[key] = t
	}
	if err := ix.index.Batch(batch); err != nil {
		return fmt.Errorf("executing index batch: %w", err)
	}
	return nil
}

// Len returns the number of indexed transactions.
func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.txns)
}

// Search returns transactions matching query, best first. Terms tolerate
// one typo.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	q := bleve.NewMatchQuery(query)
	q.SetFuzziness(1)
	req := bleve.NewSearchRequest(q)
	req.Size = limit

	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	hits := make([]Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		t, ok := ix.txns[h.ID]
		if !ok {
			continue
		}
		hits = append(hits, Hit{Transaction: t, Score: h.Score})
	}
	return hits, nil
}

// Close releases the index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
