package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/webindexer/webindexer/pkg/thumbs"
)

// CreateThumbnailCache creates a thumbnail cache store based on
// configuration.
//
// The Type field selects the implementation; the matching type-specific map
// is decoded into the store's own option struct and handed to its
// constructor.
//
// Supported types:
//   - "memory": in-process cache, lost on restart
//   - "badger": persistent BadgerDB-backed cache
func CreateThumbnailCache(cfg *CacheConfig) (thumbs.Cache, error) {
	switch cfg.Type {
	case "memory":
		return thumbs.NewMemoryCache(), nil
	case "badger":
		return createBadgerCache(cfg.Badger)
	default:
		return nil, fmt.Errorf("unknown thumbnail cache type: %q", cfg.Type)
	}
}

// createBadgerCache creates a BadgerDB-backed thumbnail cache.
func createBadgerCache(options map[string]any) (thumbs.Cache, error) {
	type BadgerCacheConfig struct {
		Path string `mapstructure:"path"`
	}

	var storeCfg BadgerCacheConfig
	if err := mapstructure.Decode(options, &storeCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger cache config: %w", err)
	}

	if storeCfg.Path == "" {
		return nil, fmt.Errorf("badger cache: path is required")
	}

	cache, err := thumbs.NewBadgerCache(storeCfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to create badger cache: %w", err)
	}

	return cache, nil
}
