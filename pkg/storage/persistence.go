package storage

import (
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-cms/pkg/domain"
)

// SaveToFile writes a full snapshot of every collection to the given file,
// MessagePack-encoded and lz4-compressed behind the format header. An empty
// filename falls back to the configured data file.
func (e *Engine) SaveToFile(filename string) error {
	if filename == "" {
		filename = e.dataFile
	}
	if filename == "" {
		return fmt.Errorf("no snapshot file configured")
	}

	e.mu.RLock()
	names := make([]string, 0, len(e.collections))
	for collection := range e.collections {
		names = append(names, collection)
	}
	e.mu.RUnlock()

	// Documents are copied under each collection's read lock so concurrent
	// writers cannot mutate a map mid-snapshot.
	snap := snapshot{Collections: make(map[string]map[string]map[string]interface{}, len(names))}
	for _, collection := range names {
		lock := e.getOrCreateLock(collection)
		lock.RLock()
		docs := e.getCollection(collection)
		snap.Collections[collection] = make(map[string]map[string]interface{}, len(docs))
		for id, doc := range docs {
			snap.Collections[collection][id] = map[string]interface{}(doc.Copy())
		}
		lock.RUnlock()
	}

	payload, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}

	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}

	var flags uint8
	if n == 0 {
		// Incompressible payload, store it raw.
		flags = FlagRawPayload
		compressed = payload
	} else {
		compressed = compressed[:n]
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteHeader(file, flags); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := file.Write(compressed); err != nil {
		return fmt.Errorf("failed to write compressed data: %w", err)
	}

	e.dirtyMu.Lock()
	e.dirty = false
	e.dirtyMu.Unlock()
	return nil
}

// LoadFromFile replaces the engine's collections with the snapshot stored
// in the given file. A missing file is not an error: the engine starts
// empty. An empty filename falls back to the configured data file.
func (e *Engine) LoadFromFile(filename string) error {
	if filename == "" {
		filename = e.dataFile
	}
	if filename == "" {
		return fmt.Errorf("no snapshot file configured")
	}

	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	header, err := ReadHeader(file)
	if err != nil {
		return fmt.Errorf("invalid file header: %w", err)
	}

	compressed, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read compressed data: %w", err)
	}

	payload := compressed
	if header.Flags&FlagRawPayload == 0 {
		if payload, err = decompress(compressed); err != nil {
			return fmt.Errorf("failed to decompress data: %w", err)
		}
	}

	var snap snapshot
	if err := msgpack.Unmarshal(payload, &snap); err != nil {
		return fmt.Errorf("failed to decode MessagePack: %w", err)
	}

	collections := make(map[string]map[string]domain.Document, len(snap.Collections))
	for collection, docs := range snap.Collections {
		collections[collection] = make(map[string]domain.Document, len(docs))
		for id, doc := range docs {
			collections[collection][id] = domain.Document(doc)
		}
	}

	e.mu.Lock()
	e.collections = collections
	e.mu.Unlock()
	return nil
}

// decompress inflates an lz4 block, growing the destination buffer until
// the block fits.
func decompress(compressed []byte) ([]byte, error) {
	size := len(compressed) * 4
	if size < 1024 {
		size = 1024
	}
	for attempts := 0; attempts < 8; attempts++ {
		dst := make([]byte, size)
		n, err := lz4.UncompressBlock(compressed, dst)
		if err == nil {
			return dst[:n], nil
		}
		size *= 2
	}
	return nil, fmt.Errorf("decompressed block too large")
}
