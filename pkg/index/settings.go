package index

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/webindexer/webindexer/internal/logger"
)

// DocumentName is the per-directory configuration document. The document
// governs the directory it lives in and, unless it opts out, every
// descendant directory without a document of its own.
const DocumentName = "indexer.json"

// SortStyle selects the listing sort key.
type SortStyle int

const (
	SortByName SortStyle = iota
	SortBySize
	SortByDate
)

// String returns the wire form used in documents and query parameters.
func (s SortStyle) String() string {
	switch s {
	case SortBySize:
		return "size"
	case SortByDate:
		return "date"
	default:
		return "name"
	}
}

// ParseSortStyle parses the wire form of a sort style.
func ParseSortStyle(s string) (SortStyle, error) {
	switch s {
	case "name":
		return SortByName, nil
	case "size":
		return SortBySize, nil
	case "date":
		return SortByDate, nil
	default:
		return SortByName, fmt.Errorf("unknown sort style: %q", s)
	}
}

// SortDir selects the listing sort direction.
type SortDir int

const (
	Ascending SortDir = iota
	Descending
)

// String returns the wire form used in documents and query parameters.
func (d SortDir) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Reverse returns the opposite direction. Used by the presentation layer to
// build direction-toggle links.
func (d SortDir) Reverse() SortDir {
	if d == Ascending {
		return Descending
	}
	return Ascending
}

// ParseSortDir parses the wire form of a sort direction.
func ParseSortDir(s string) (SortDir, error) {
	switch s {
	case "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return Ascending, fmt.Errorf("unknown sort direction: %q", s)
	}
}

// Credentials is one username/password pair from a document's auth list.
type Credentials struct {
	User     string
	Password string
}

// DirectoryConfig is the effective configuration for one directory.
//
// Exactly one document (or the built-in default) governs a directory;
// documents are never merged across ancestry levels. The struct is treated
// as immutable once resolved.
type DirectoryConfig struct {
	// Header and Footer are raw HTML fragments rendered around the
	// listing table.
	Header string
	Footer string

	// SortStyle and SortDir are the default ordering for listings of the
	// governed directories. Requests may override them per query, which
	// never mutates the stored document.
	SortStyle SortStyle
	SortDir   SortDir

	// Recursive extends the document's reach to descendant directories
	// that carry no document of their own.
	Recursive bool

	// Filter hides entries whose name matches. Nil means no filtering.
	Filter *regexp.Regexp

	// EnableGalleries renders image entries as a thumbnail grid instead
	// of table rows. ShowImagesAsFiles keeps them in the table as well.
	EnableGalleries   bool
	ShowImagesAsFiles bool

	// AuthUsers lists the credentials accepted for basic auth. Empty
	// means the directory is open to anonymous visitors.
	AuthUsers []Credentials

	// AuthDefault seeds the effective access set before the attribute
	// chain is applied. Only meaningful with AuthFiltering.
	AuthDefault map[string]struct{}

	// AuthFiltering enables per-entry visibility resolution through
	// filesystem attributes.
	AuthFiltering bool
}

// DefaultDirectoryConfig is the built-in configuration used when no
// document in the ancestry applies.
func DefaultDirectoryConfig() DirectoryConfig {
	return DirectoryConfig{
		SortStyle: SortByName,
		SortDir:   Ascending,
		Recursive: true,
	}
}

// document mirrors the JSON layout of indexer.json. Pointer fields
// distinguish "absent" from a zero value where the default is not the zero
// value.
type document struct {
	Header            string   `mapstructure:"header"`
	Footer            string   `mapstructure:"footer"`
	SortStyle         string   `mapstructure:"sort_style"`
	SortDir           string   `mapstructure:"sort_dir"`
	Recursive         *bool    `mapstructure:"recursive"`
	Filter            string   `mapstructure:"filter"`
	EnableGalleries   bool     `mapstructure:"enable_galleries"`
	ShowImagesAsFiles bool     `mapstructure:"show_images_as_files"`
	Auth              []string `mapstructure:"auth"`
	AuthDefault       string   `mapstructure:"auth_default"`
	AuthFiltering     bool     `mapstructure:"auth_filtering"`
}

// ParseDocument decodes a configuration document into a DirectoryConfig.
//
// An unparsable document or an unknown enum value is an error; the resolver
// treats that as "no document at this level". A filter that fails to
// compile is dropped instead: cosmetic filtering fails open, it must never
// take a directory offline.
func ParseDocument(data []byte, source string) (DirectoryConfig, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return DirectoryConfig{}, fmt.Errorf("decode %s: %w", source, err)
	}

	var doc document
	if err := mapstructure.Decode(raw, &doc); err != nil {
		return DirectoryConfig{}, fmt.Errorf("decode %s: %w", source, err)
	}

	cfg := DefaultDirectoryConfig()
	cfg.Header = doc.Header
	cfg.Footer = doc.Footer
	cfg.EnableGalleries = doc.EnableGalleries
	cfg.ShowImagesAsFiles = doc.ShowImagesAsFiles
	cfg.AuthFiltering = doc.AuthFiltering
	cfg.AuthDefault = ParseUserList(doc.AuthDefault)

	if doc.SortStyle != "" {
		style, err := ParseSortStyle(doc.SortStyle)
		if err != nil {
			return DirectoryConfig{}, fmt.Errorf("%s: %w", source, err)
		}
		cfg.SortStyle = style
	}

	if doc.SortDir != "" {
		dir, err := ParseSortDir(doc.SortDir)
		if err != nil {
			return DirectoryConfig{}, fmt.Errorf("%s: %w", source, err)
		}
		cfg.SortDir = dir
	}

	if doc.Recursive != nil {
		cfg.Recursive = *doc.Recursive
	}

	if doc.Filter != "" {
		filter, err := regexp.Compile(doc.Filter)
		if err != nil {
			logger.Warn("Ignoring invalid filter in %s: %v", source, err)
		} else {
			cfg.Filter = filter
		}
	}

	for _, term := range doc.Auth {
		user, password, ok := strings.Cut(term, ":")
		if !ok {
			return DirectoryConfig{}, fmt.Errorf("%s: auth entry %q is not user:password", source, term)
		}
		cfg.AuthUsers = append(cfg.AuthUsers, Credentials{User: user, Password: password})
	}

	return cfg, nil
}

// ParseUserList splits a colon-separated username list into a set. Empty
// tokens are dropped so a blank field never grants the anonymous identity.
func ParseUserList(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, user := range strings.Split(s, ":") {
		if user != "" {
			set[user] = struct{}{}
		}
	}
	return set
}
