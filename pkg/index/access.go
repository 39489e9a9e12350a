package index

import (
	"path/filepath"
	"strings"

	"github.com/webindexer/webindexer/internal/logger"
)

// PermissionResolver computes per-entry visibility from the inheritable
// access attributes attached to the path chain between the service root and
// the entry.
//
// Resolution is a pure read of the attribute store: nothing is cached
// across requests, so attribute edits take effect immediately.
type PermissionResolver struct {
	root  string
	attrs AttributeStore
}

// NewPermissionResolver creates a resolver rooted at root.
func NewPermissionResolver(root string, attrs AttributeStore) *PermissionResolver {
	return &PermissionResolver{root: filepath.Clean(root), attrs: attrs}
}

// Visible reports whether identity may see the entry at path under cfg.
//
// Without auth filtering everything is visible. With it, visibility is
// membership in the effective access set; an attribute read failure fails
// closed and hides the entry.
func (r *PermissionResolver) Visible(path string, cfg DirectoryConfig, identity Identity) bool {
	if !cfg.AuthFiltering {
		return true
	}

	access, err := r.EffectiveAccess(path, cfg.AuthDefault)
	if err != nil {
		logger.Error("Cannot resolve access for %s: %v", path, err)
		return false
	}

	_, ok := access[string(identity)]
	return ok
}

// EffectiveAccess resolves the set of usernames permitted to see path.
//
// The set starts as authDefault and is transformed at every level from the
// root down to path itself: an `access` attribute replaces the set
// wholesale, discarding everything accumulated so far; otherwise
// `access_add` unions in and `access_del` subtracts, add before del at the
// same level. An empty result denies every identity; there is no implicit
// "empty means open" rule.
func (r *PermissionResolver) EffectiveAccess(path string, authDefault map[string]struct{}) (map[string]struct{}, error) {
	current := make(map[string]struct{}, len(authDefault))
	for user := range authDefault {
		current[user] = struct{}{}
	}

	for _, level := range r.chain(path) {
		access, ok, err := r.attrs.Get(level, AttrAccess)
		if err != nil {
			return nil, err
		}
		if ok {
			current = ParseUserList(access)
			continue
		}

		add, ok, err := r.attrs.Get(level, AttrAccessAdd)
		if err != nil {
			return nil, err
		}
		if ok {
			for user := range ParseUserList(add) {
				current[user] = struct{}{}
			}
		}

		del, ok, err := r.attrs.Get(level, AttrAccessDel)
		if err != nil {
			return nil, err
		}
		if ok {
			for user := range ParseUserList(del) {
				delete(current, user)
			}
		}
	}

	return current, nil
}

// chain returns the path levels from the service root down to path,
// inclusive on both ends, root first. A path outside the root yields only
// the path itself.
func (r *PermissionResolver) chain(path string) []string {
	path = filepath.Clean(path)
	if !withinRoot(r.root, path) {
		return []string{path}
	}

	levels := []string{r.root}
	if path == r.root {
		return levels
	}

	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return []string{path}
	}

	current := r.root
	for _, segment := range strings.Split(rel, string(filepath.Separator)) {
		current = filepath.Join(current, segment)
		levels = append(levels, current)
	}
	return levels
}
