package storage

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	// Magic bytes identifying a snapshot file.
	MagicBytes = "GCMS"
	// Current snapshot format version.
	FormatVersion = 1
	// File extension for snapshot files.
	FileExtension = ".gcms"
)

// FlagRawPayload marks a snapshot whose payload is stored uncompressed.
// lz4 block compression reports incompressible input by returning an empty
// block; such payloads are written as-is.
const FlagRawPayload uint8 = 1 << 0

// FileHeader is the fixed-size header at the start of a snapshot file.
type FileHeader struct {
	Magic    [4]byte // "GCMS"
	Version  uint8   // Format version
	Flags    uint8   // FlagRawPayload
	Reserved [2]byte // Reserved for future use
}

// WriteHeader writes the snapshot header to the given writer.
func WriteHeader(w io.Writer, flags uint8) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'C', 'M', 'S'},
		Version: FormatVersion,
		Flags:   flags,
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the snapshot header.
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// snapshot is the persisted payload: every collection's documents keyed by
// collection name and document id.
type snapshot struct {
	Collections map[string]map[string]map[string]interface{} `msgpack:"collections"`
}
