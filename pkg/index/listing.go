package index

import (
	"path/filepath"
)

// ListingRequest describes one listing resolution.
type ListingRequest struct {
	// Directory is the absolute local path of the directory to list.
	Directory string

	// WebPath is the request path below the service root, used to build
	// entry URLs and the parent link.
	WebPath string

	// BaseURL is the external base URL of the service.
	BaseURL string

	// Identity is the authenticated visitor.
	Identity Identity

	// SortStyle and SortDir override the resolved configuration's
	// ordering for this request only when non-nil.
	SortStyle *SortStyle
	SortDir   *SortDir
}

// Listing is a fully resolved directory listing.
type Listing struct {
	// Entries is the ordered, visible entry list for the table view.
	Entries []Entry

	// Gallery is the ordered, visible image subset when galleries are
	// enabled, presented separately from the table.
	Gallery []Entry

	// Config is the effective configuration governing the directory.
	Config DirectoryConfig

	// SortStyle and SortDir are the ordering actually applied, after any
	// per-request override.
	SortStyle SortStyle
	SortDir   SortDir
}

// Resolver composes configuration lookup, the directory scan, filtering and
// sorting into a single listing resolution.
//
// A Resolver holds no mutable state: concurrent requests share it freely
// without coordination, and every resolution reads the filesystem fresh.
type Resolver struct {
	root    string
	configs *ConfigResolver
	perms   *PermissionResolver
	filter  *EntryFilter
}

// NewResolver creates a listing resolver serving the tree under root.
func NewResolver(root string, attrs AttributeStore) *Resolver {
	root = filepath.Clean(root)
	perms := NewPermissionResolver(root, attrs)
	return &Resolver{
		root:    root,
		configs: NewConfigResolver(root),
		perms:   perms,
		filter:  NewEntryFilter(perms),
	}
}

// Root returns the service root the resolver is bound to.
func (r *Resolver) Root() string {
	return r.root
}

// ResolveConfig returns the effective configuration for dir without
// scanning it. The transport uses it to decide authentication before the
// listing is built.
func (r *Resolver) ResolveConfig(dir string) DirectoryConfig {
	return r.configs.Resolve(dir)
}

// List resolves one directory listing: effective config, scan, filter,
// sort. The returned listing carries the config so the presentation layer
// can render header, footer and gallery state.
func (r *Resolver) List(req ListingRequest) (*Listing, error) {
	cfg := r.configs.Resolve(req.Directory)

	entries, err := ScanDirectory(req.Directory, req.BaseURL, req.WebPath)
	if err != nil {
		return nil, err
	}

	if req.WebPath != "" && req.WebPath != "/" {
		entries = append(entries, ParentEntry(req.Directory, req.BaseURL, req.WebPath))
	}

	style := cfg.SortStyle
	if req.SortStyle != nil {
		style = *req.SortStyle
	}
	dir := cfg.SortDir
	if req.SortDir != nil {
		dir = *req.SortDir
	}

	kept, gallery := r.filter.Apply(entries, cfg, req.Identity)

	return &Listing{
		Entries:   SortEntries(kept, style, dir),
		Gallery:   SortEntries(gallery, style, dir),
		Config:    cfg,
		SortStyle: style,
		SortDir:   dir,
	}, nil
}
