package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/webindexer/webindexer/internal/logger"
	"github.com/webindexer/webindexer/pkg/index"
)

// breadcrumb is one clickable segment of the current path.
type breadcrumb struct {
	URL  string
	Name string
}

// entryView is one table row.
type entryView struct {
	index.Entry
	DisplayName string
}

// galleryView is one thumbnail cell of the gallery grid.
type galleryView struct {
	URL      string
	ThumbURL string
	Name     string
}

// sortColumn is one sortable table header.
type sortColumn struct {
	Label  string
	URL    string
	Active bool
	Arrow  string
}

// listingData feeds the index template.
type listingData struct {
	Title       string
	Path        string
	Breadcrumbs []breadcrumb
	Columns     []sortColumn
	Entries     []entryView
	Gallery     []galleryView
	Header      template.HTML
	Footer      template.HTML
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"humanSize": func(size uint64) string {
			return humanize.IBytes(size)
		},
		"formatTime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("2006-01-02 15:04")
		},
	}
}

// renderListing renders the index page for a resolved listing.
func (s *Server) renderListing(w http.ResponseWriter, webPath string, listing *index.Listing) {
	data := listingData{
		Title:       s.cfg.Server.Title + " - " + webPath,
		Path:        webPath,
		Breadcrumbs: buildBreadcrumbs(webPath),
		Columns:     buildColumns(listing),
		Header:      template.HTML(listing.Config.Header),
		Footer:      template.HTML(listing.Config.Footer),
	}

	for _, entry := range listing.Entries {
		display := entry.Name
		if entry.IsDir && !entry.IsParent() {
			display += "/"
		}
		data.Entries = append(data.Entries, entryView{Entry: entry, DisplayName: display})
	}

	for _, entry := range listing.Gallery {
		data.Gallery = append(data.Gallery, galleryView{
			URL:      entry.URL,
			ThumbURL: thumbURL(webPath, entry.Name),
			Name:     entry.Name,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, "index.htm", data); err != nil {
		logger.Error("Render listing failed: %v", err)
	}
}

func (s *Server) renderNotFound(w http.ResponseWriter, requestPath string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	if err := s.templates.ExecuteTemplate(w, "not-found.htm", map[string]string{"Path": requestPath}); err != nil {
		logger.Error("Render not-found failed: %v", err)
	}
}

func (s *Server) renderAccessDenied(w http.ResponseWriter, requestPath string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusForbidden)
	if err := s.templates.ExecuteTemplate(w, "access-denied.htm", map[string]string{"Path": requestPath}); err != nil {
		logger.Error("Render access-denied failed: %v", err)
	}
}

// buildBreadcrumbs turns /a/b into links for /, /a/ and /a/b/.
func buildBreadcrumbs(webPath string) []breadcrumb {
	crumbs := []breadcrumb{{URL: "/", Name: "/"}}

	link := ""
	for _, segment := range strings.Split(webPath, "/") {
		if segment == "" {
			continue
		}
		link += "/" + url.PathEscape(segment)
		crumbs = append(crumbs, breadcrumb{URL: link + "/", Name: segment})
	}
	return crumbs
}

// buildColumns builds the sortable table headers. The active column links
// to the opposite direction so clicking it toggles the order; inactive
// columns start ascending.
func buildColumns(listing *index.Listing) []sortColumn {
	styles := []struct {
		label string
		style index.SortStyle
	}{
		{"Name", index.SortByName},
		{"Size", index.SortBySize},
		{"Date", index.SortByDate},
	}

	columns := make([]sortColumn, 0, len(styles))
	for _, col := range styles {
		dir := index.Ascending
		arrow := ""
		if col.style == listing.SortStyle {
			dir = listing.SortDir.Reverse()
			if listing.SortDir == index.Ascending {
				arrow = "▲"
			} else {
				arrow = "▼"
			}
		}
		columns = append(columns, sortColumn{
			Label:  col.label,
			URL:    "?sort_style=" + col.style.String() + "&sort_dir=" + dir.String(),
			Active: col.style == listing.SortStyle,
			Arrow:  arrow,
		})
	}
	return columns
}

// thumbURL builds the /.thumb/ URL for an image entry of the current
// directory.
func thumbURL(webPath, name string) string {
	base := strings.TrimSuffix(thumbPrefix, "/") + index.EscapePath(webPath)
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(name)
}
