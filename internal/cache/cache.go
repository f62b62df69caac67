package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dshills/esmapper/pkg/mapping"
)

// Reserved keys. The three field-table keys hold a class-name keyed map of
// field tables written by the extractor; the alias key holds an alias to
// class-name registry populated by an external indexing pass.
const (
	KeyObjectFields   = "objectFields"
	KeyArrayFields    = "arrayFields"
	KeyEmbeddedFields = "embeddedFields"
	KeyAliases        = "aliases"
)

// ErrNotFound is returned by Fetch when a key has never been saved.
var ErrNotFound = errors.New("not found")

// Store is the persistent metadata cache the extractor writes its lookup
// tables into. Values are opaque bytes; this package stores JSON. Writes
// are last-writer-wins per key with no transactional guarantee across keys.
type Store interface {
	Contains(ctx context.Context, key string) (bool, error)
	// Fetch returns the stored value, or ErrNotFound.
	Fetch(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

// FetchTables loads a class-name keyed table map from the store. An absent
// key degrades to an empty map rather than an error.
func FetchTables(ctx context.Context, s Store, key string) (map[string]mapping.FieldTable, error) {
	raw, err := s.Fetch(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return map[string]mapping.FieldTable{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", key, err)
	}

	tables := map[string]mapping.FieldTable{}
	if err := json.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return tables, nil
}

// MergeTable overwrites one class's table within the class-name keyed map
// stored under key. Other classes' entries are preserved.
func MergeTable(ctx context.Context, s Store, key, class string, table mapping.FieldTable) error {
	tables, err := FetchTables(ctx, s, key)
	if err != nil {
		return err
	}
	tables[class] = table

	raw, err := json.Marshal(tables)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// FetchAliases loads the alias registry. Absent key degrades to empty.
func FetchAliases(ctx context.Context, s Store) (map[string]string, error) {
	raw, err := s.Fetch(ctx, KeyAliases)
	if errors.Is(err, ErrNotFound) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", KeyAliases, err)
	}

	aliases := map[string]string{}
	if err := json.Unmarshal(raw, &aliases); err != nil {
		return nil, fmt.Errorf("decode %s: %w", KeyAliases, err)
	}
	return aliases, nil
}

// SaveAliases stores the alias registry.
func SaveAliases(ctx context.Context, s Store, aliases map[string]string) error {
	raw, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("encode %s: %w", KeyAliases, err)
	}
	if err := s.Save(ctx, KeyAliases, raw); err != nil {
		return fmt.Errorf("save %s: %w", KeyAliases, err)
	}
	return nil
}
