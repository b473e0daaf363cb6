// Package storage provides the embedded storage collaborator: an in-memory
// document engine with per-collection locking, schema-derived timestamp and
// uniqueness behavior, and optional snapshot persistence.
package storage

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// Engine is an in-memory implementation of domain.Storage. Collections are
// created lazily on first write; reads against unknown collections behave
// as reads against empty ones.
type Engine struct {
	mu          sync.RWMutex
	collections map[string]map[string]domain.Document
	collOptions map[string]CollectionOptions

	// Per-collection locks for better concurrency on document access.
	locks   map[string]*sync.RWMutex
	locksMu sync.RWMutex

	dataFile       string
	backgroundSave bool
	saveInterval   time.Duration

	dirtyMu sync.Mutex
	dirty   bool

	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
}

// NewEngine creates a new in-memory engine.
func NewEngine(options ...Option) *Engine {
	engine := &Engine{
		collections:  make(map[string]map[string]domain.Document),
		collOptions:  make(map[string]CollectionOptions),
		locks:        make(map[string]*sync.RWMutex),
		saveInterval: 5 * time.Minute,
		stopChan:     make(chan struct{}),
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// getOrCreateLock gets or creates the lock for a collection.
func (e *Engine) getOrCreateLock(collection string) *sync.RWMutex {
	e.locksMu.RLock()
	if lock, exists := e.locks[collection]; exists {
		e.locksMu.RUnlock()
		return lock
	}
	e.locksMu.RUnlock()

	e.locksMu.Lock()
	defer e.locksMu.Unlock()

	// Double-check in case another goroutine created it.
	if lock, exists := e.locks[collection]; exists {
		return lock
	}
	lock := &sync.RWMutex{}
	e.locks[collection] = lock
	return lock
}

func (e *Engine) getOrCreateCollection(collection string) map[string]domain.Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	docs, exists := e.collections[collection]
	if !exists {
		docs = make(map[string]domain.Document)
		e.collections[collection] = docs
	}
	return docs
}

func (e *Engine) getCollection(collection string) map[string]domain.Document {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.collections[collection]
}

func (e *Engine) markDirty() {
	e.dirtyMu.Lock()
	e.dirty = true
	e.dirtyMu.Unlock()
}

// Create inserts a new document, generating its id and stamping timestamps
// when the collection is configured for them.
func (e *Engine) Create(ctx context.Context, collection string, data domain.Document) (domain.Document, error) {
	lock := e.getOrCreateLock(collection)
	lock.Lock()
	defer lock.Unlock()

	docs := e.getOrCreateCollection(collection)

	doc := data.Copy()
	if doc == nil {
		doc = domain.Document{}
	}
	doc[domain.FieldID] = uuid.NewString()

	opts := e.collOptions[collection]
	if opts.Timestamps {
		now := time.Now().UTC()
		doc[domain.FieldCreatedAt] = now
		doc[domain.FieldUpdatedAt] = now
	}

	if err := e.checkUnique(docs, opts.UniqueFields, doc, ""); err != nil {
		return nil, err
	}

	docs[doc.ID()] = doc
	e.markDirty()
	return doc.Copy(), nil
}

// Find returns the page of documents matching the filter plus the total
// match count before pagination. A zero or negative limit means no limit.
func (e *Engine) Find(ctx context.Context, collection string, opts domain.FindOptions) ([]domain.Document, int, error) {
	lock := e.getOrCreateLock(collection)
	lock.RLock()
	defer lock.RUnlock()

	matched := e.matchDocs(collection, opts.Where)
	sortDocs(matched, opts.OrderBy)
	total := len(matched)

	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	page := make([]domain.Document, 0, end-start)
	for _, doc := range matched[start:end] {
		page = append(page, doc.Copy())
	}
	return page, total, nil
}

// FindByID returns the document with the given id, or nil if the document
// or its collection does not exist.
func (e *Engine) FindByID(ctx context.Context, collection, id string) (domain.Document, error) {
	lock := e.getOrCreateLock(collection)
	lock.RLock()
	defer lock.RUnlock()

	docs := e.getCollection(collection)
	if docs == nil {
		return nil, nil
	}
	doc, exists := docs[id]
	if !exists {
		return nil, nil
	}
	return doc.Copy(), nil
}

// Update applies the patch fields to an existing document. The id field is
// never patched; updatedAt is restamped for timestamped collections.
func (e *Engine) Update(ctx context.Context, collection, id string, data domain.Document) (domain.Document, error) {
	lock := e.getOrCreateLock(collection)
	lock.Lock()
	defer lock.Unlock()

	docs := e.getCollection(collection)
	if docs == nil {
		return nil, &domain.NotFoundError{Collection: collection, ID: id}
	}
	doc, exists := docs[id]
	if !exists {
		return nil, &domain.NotFoundError{Collection: collection, ID: id}
	}

	opts := e.collOptions[collection]
	updated := doc.Merge(data)
	if opts.Timestamps {
		// Timestamps belong to the engine: a patch cannot rewrite
		// createdAt, and updatedAt is always restamped.
		if created, exists := doc[domain.FieldCreatedAt]; exists {
			updated[domain.FieldCreatedAt] = created
		}
		updated[domain.FieldUpdatedAt] = time.Now().UTC()
	}

	if err := e.checkUnique(docs, opts.UniqueFields, updated, id); err != nil {
		return nil, err
	}

	docs[id] = updated
	e.markDirty()
	return updated.Copy(), nil
}

// Delete removes a document by id.
func (e *Engine) Delete(ctx context.Context, collection, id string) error {
	lock := e.getOrCreateLock(collection)
	lock.Lock()
	defer lock.Unlock()

	docs := e.getCollection(collection)
	if docs == nil {
		return &domain.NotFoundError{Collection: collection, ID: id}
	}
	if _, exists := docs[id]; !exists {
		return &domain.NotFoundError{Collection: collection, ID: id}
	}
	delete(docs, id)
	e.markDirty()
	return nil
}

// Count returns the number of documents matching the filter.
func (e *Engine) Count(ctx context.Context, collection string, where domain.Where) (int, error) {
	lock := e.getOrCreateLock(collection)
	lock.RLock()
	defer lock.RUnlock()

	return len(e.matchDocs(collection, where)), nil
}

func (e *Engine) matchDocs(collection string, where domain.Where) []domain.Document {
	docs := e.getCollection(collection)
	matched := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		if len(where) == 0 || where.Matches(doc) {
			matched = append(matched, doc)
		}
	}
	return matched
}

// checkUnique scans the collection for another document carrying the same
// value in any of the unique fields. selfID is excluded so updates do not
// collide with the document being updated.
func (e *Engine) checkUnique(docs map[string]domain.Document, uniqueFields []string, candidate domain.Document, selfID string) error {
	for _, field := range uniqueFields {
		value, present := candidate[field]
		if !present || value == nil {
			continue
		}
		for id, existing := range docs {
			if id == selfID {
				continue
			}
			if other, exists := existing[field]; exists && domain.ValuesEqual(other, value) {
				return fmt.Errorf("duplicate value for unique field %q", field)
			}
		}
	}
	return nil
}

// sortDocs orders documents by the named field, "-field" for descending.
// An empty order falls back to id so pagination stays stable.
func sortDocs(docs []domain.Document, orderBy string) {
	field := orderBy
	desc := false
	if strings.HasPrefix(field, "-") {
		field = field[1:]
		desc = true
	}
	if field == "" {
		field = domain.FieldID
	}

	sort.SliceStable(docs, func(i, j int) bool {
		less := lessThan(docs[i][field], docs[j][field])
		if desc {
			return lessThan(docs[j][field], docs[i][field])
		}
		return less
	})
}

// lessThan orders two field values: numbers before comparison by value,
// strings lexicographically, times chronologically. Unordered pairs keep
// their relative position.
func lessThan(a, b interface{}) bool {
	if aNum, ok1 := domain.ToFloat64(a); ok1 {
		if bNum, ok2 := domain.ToFloat64(b); ok2 {
			return aNum < bNum
		}
	}
	if aStr, ok1 := a.(string); ok1 {
		if bStr, ok2 := b.(string); ok2 {
			return aStr < bStr
		}
	}
	if aTime, ok1 := a.(time.Time); ok1 {
		if bTime, ok2 := b.(time.Time); ok2 {
			return aTime.Before(bTime)
		}
	}
	return false
}
