package index

import (
	"errors"
	"sync"

	"golang.org/x/sys/unix"
)

// Attribute names read from the filesystem side-channel. Values are
// colon-separated username lists.
const (
	AttrAccess    = "user.access"
	AttrAccessAdd = "user.access_add"
	AttrAccessDel = "user.access_del"
)

// AttributeStore reads named metadata values attached to filesystem paths.
//
// It is injected rather than accessed as ambient state so permission
// resolution can be exercised deterministically in tests. Implementations
// must treat a missing attribute as (ok=false, err=nil); only genuine read
// failures return an error.
type AttributeStore interface {
	Get(path, name string) (value string, ok bool, err error)
}

// XattrStore reads extended attributes from the local filesystem.
type XattrStore struct{}

// Get reads one extended attribute. A missing attribute or a filesystem
// without xattr support reports absence, not failure.
func (XattrStore) Get(path, name string) (string, bool, error) {
	buf := make([]byte, 256)
	for {
		n, err := unix.Getxattr(path, name, buf)
		switch {
		case err == nil:
			return string(buf[:n]), true, nil
		case errors.Is(err, unix.ERANGE):
			buf = make([]byte, len(buf)*2)
		case errors.Is(err, unix.ENODATA), errors.Is(err, unix.ENOTSUP):
			return "", false, nil
		default:
			return "", false, err
		}
	}
}

// MemoryAttributeStore is an in-memory AttributeStore. It backs tests and
// deployments where the document root lives on a filesystem without xattr
// support.
type MemoryAttributeStore struct {
	mu    sync.RWMutex
	attrs map[string]map[string]string
}

// NewMemoryAttributeStore creates an empty in-memory attribute store.
func NewMemoryAttributeStore() *MemoryAttributeStore {
	return &MemoryAttributeStore{attrs: make(map[string]map[string]string)}
}

// Set attaches an attribute value to a path.
func (s *MemoryAttributeStore) Set(path, name, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attrs[path] == nil {
		s.attrs[path] = make(map[string]string)
	}
	s.attrs[path][name] = value
}

// Get implements AttributeStore.
func (s *MemoryAttributeStore) Get(path, name string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.attrs[path][name]
	return value, ok, nil
}
