package index

// EntryFilter removes entries a visitor must not (or should not) see.
type EntryFilter struct {
	perms *PermissionResolver
}

// NewEntryFilter creates a filter backed by perms for visibility checks.
func NewEntryFilter(perms *PermissionResolver) *EntryFilter {
	return &EntryFilter{perms: perms}
}

// Apply runs the filtering pipeline over a scanned listing: the name
// filter drops matching entries, the permission resolver drops invisible
// ones, and with galleries enabled image entries move out of the table into
// the gallery subset. The parent-navigation entry is exempt from every
// stage.
//
// Visibility failures deny (an unreadable attribute chain hides the entry)
// while a missing name filter shows everything; the two failure directions
// are intentional and must not be unified.
func (f *EntryFilter) Apply(entries []Entry, cfg DirectoryConfig, identity Identity) (kept, gallery []Entry) {
	for _, entry := range entries {
		if entry.IsParent() {
			kept = append(kept, entry)
			continue
		}

		if cfg.Filter != nil && cfg.Filter.MatchString(entry.Name) {
			continue
		}

		if !f.perms.Visible(entry.Path, cfg, identity) {
			continue
		}

		if entry.IsImage && cfg.EnableGalleries {
			gallery = append(gallery, entry)
			if !cfg.ShowImagesAsFiles {
				continue
			}
		}

		kept = append(kept, entry)
	}

	return kept, gallery
}
