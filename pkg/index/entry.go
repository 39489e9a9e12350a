package index

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// ParentName is the name of the synthetic parent-navigation entry.
const ParentName = ".."

// imageExtensions are the file extensions treated as images for gallery
// grouping and thumbnail generation.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".png":  true,
}

// Entry is a single row of a directory listing.
//
// Entries are built fresh from a directory scan on every request and are
// never persisted or cached.
type Entry struct {
	// Name is the bare file or directory name.
	Name string

	// Path is the absolute filesystem path of the entry.
	Path string

	// IsDir reports whether the entry is a directory.
	IsDir bool

	// IsImage reports whether the entry has an image file extension.
	IsImage bool

	// Size is the entry size in bytes. Zero for directories.
	Size uint64

	// ModTime is the last modification time.
	ModTime time.Time

	// URL is the absolute URL of the entry, with a trailing slash for
	// directories.
	URL string
}

// IsParent reports whether the entry is the parent-navigation entry.
func (e Entry) IsParent() bool {
	return e.Name == ParentName
}

// IsImageName reports whether name carries an image extension.
func IsImageName(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// entryURL joins the base URL, the escaped web path and the escaped entry
// name. Directories get a trailing slash so relative links resolve below
// them.
func entryURL(baseURL, webPath, name string, isDir bool) string {
	u := strings.TrimRight(baseURL, "/") + EscapePath(webPath)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	u += url.PathEscape(name)
	if isDir {
		u += "/"
	}
	return u
}

// EscapePath escapes each segment of an already-clean web path, preserving
// the separators.
func EscapePath(webPath string) string {
	parts := strings.Split(webPath, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}

// ScanDirectory reads the children of dir and converts them to entries.
//
// The per-directory configuration document is never listed. Children that
// vanish between the directory read and the stat call are skipped; this is
// routine on live filesystems, not an error.
//
// A missing directory maps to ErrNotFound, a non-directory target to
// ErrNotDirectory and a permission failure to ErrForbidden so the transport
// can answer precisely.
func ScanDirectory(dir, baseURL, webPath string) ([]Entry, error) {
	children, err := os.ReadDir(dir)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, ErrNotFound
		case errors.Is(err, syscall.ENOTDIR):
			return nil, ErrNotDirectory
		case errors.Is(err, fs.ErrPermission):
			return nil, ErrForbidden
		default:
			return nil, err
		}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		if child.Name() == DocumentName {
			continue
		}

		info, err := child.Info()
		if err != nil {
			continue
		}

		entry := Entry{
			Name:    child.Name(),
			Path:    filepath.Join(dir, child.Name()),
			IsDir:   info.IsDir(),
			IsImage: !info.IsDir() && IsImageName(child.Name()),
			ModTime: info.ModTime(),
			URL:     entryURL(baseURL, webPath, child.Name(), info.IsDir()),
		}
		if !entry.IsDir {
			entry.Size = uint64(info.Size())
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// ParentEntry builds the synthetic ".." entry for webPath. It links one
// level up from the current listing.
func ParentEntry(dir, baseURL, webPath string) Entry {
	parentWeb := path.Dir(strings.TrimRight(webPath, "/"))
	u := strings.TrimRight(baseURL, "/") + EscapePath(parentWeb)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return Entry{
		Name:  ParentName,
		Path:  filepath.Dir(dir),
		IsDir: true,
		URL:   u,
	}
}
