package index

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/webindexer/webindexer/internal/logger"
)

// ConfigResolver finds the single effective DirectoryConfig for a target
// directory by walking its ancestry toward the service root.
type ConfigResolver struct {
	root string
}

// NewConfigResolver creates a resolver bounded by root. The walk never
// climbs above it.
func NewConfigResolver(root string) *ConfigResolver {
	return &ConfigResolver{root: filepath.Clean(root)}
}

// Resolve returns the effective configuration for dir.
//
// The search starts at dir and climbs toward the root, inclusive on both
// ends. The first document found ends the search whether or not it applies;
// ancestors past it are never probed and documents are never merged. A
// directory outside the root gets the built-in default.
//
// A document that fails to parse counts as absent at its level and the walk
// continues upward. Parse failures are logged, never fatal to a request.
func (r *ConfigResolver) Resolve(dir string) DirectoryConfig {
	dir = filepath.Clean(dir)
	if !withinRoot(r.root, dir) {
		return DefaultDirectoryConfig()
	}

	for current := dir; ; current = filepath.Dir(current) {
		docPath := filepath.Join(current, DocumentName)

		data, err := os.ReadFile(docPath)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Cannot read %s: %v", docPath, err)
			}
			if current == r.root {
				break
			}
			continue
		}

		cfg, err := ParseDocument(data, docPath)
		if err != nil {
			logger.Warn("Ignoring malformed document: %v", err)
			if current == r.root {
				break
			}
			continue
		}

		return settle(cfg, current == dir)
	}

	return DefaultDirectoryConfig()
}

// settle decides what a found document means for the target directory: the
// target's own document always governs it, an ancestor's only when it is
// recursive. A non-applicable document still ends the search; the target
// falls back to the built-in default rather than inheriting from a more
// distant ancestor.
func settle(cfg DirectoryConfig, owned bool) DirectoryConfig {
	if owned || cfg.Recursive {
		return cfg
	}
	return DefaultDirectoryConfig()
}

// withinRoot reports whether dir equals root or lives beneath it. Both
// paths must be cleaned.
func withinRoot(root, dir string) bool {
	if dir == root {
		return true
	}
	return strings.HasPrefix(dir, strings.TrimRight(root, string(filepath.Separator))+string(filepath.Separator))
}
