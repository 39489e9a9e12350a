package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocument_AllFields(t *testing.T) {
	data := []byte(`{
		"header": "<h2>hi</h2>",
		"footer": "<p>bye</p>",
		"sort_style": "size",
		"sort_dir": "desc",
		"recursive": false,
		"filter": "^\\.",
		"enable_galleries": true,
		"show_images_as_files": true,
		"auth": ["alice:secret", "bob:hunter2"],
		"auth_default": "alice:bob",
		"auth_filtering": true
	}`)

	cfg, err := ParseDocument(data, "test")
	require.NoError(t, err)

	assert.Equal(t, "<h2>hi</h2>", cfg.Header)
	assert.Equal(t, "<p>bye</p>", cfg.Footer)
	assert.Equal(t, SortBySize, cfg.SortStyle)
	assert.Equal(t, Descending, cfg.SortDir)
	assert.False(t, cfg.Recursive)
	require.NotNil(t, cfg.Filter)
	assert.True(t, cfg.Filter.MatchString(".hidden"))
	assert.True(t, cfg.EnableGalleries)
	assert.True(t, cfg.ShowImagesAsFiles)
	assert.Equal(t, []Credentials{{"alice", "secret"}, {"bob", "hunter2"}}, cfg.AuthUsers)
	assert.Contains(t, cfg.AuthDefault, "alice")
	assert.Contains(t, cfg.AuthDefault, "bob")
	assert.True(t, cfg.AuthFiltering)
}

func TestParseDocument_EmptyDocumentYieldsDefaults(t *testing.T) {
	cfg, err := ParseDocument([]byte(`{}`), "test")
	require.NoError(t, err)

	assert.Equal(t, SortByName, cfg.SortStyle)
	assert.Equal(t, Ascending, cfg.SortDir)
	assert.True(t, cfg.Recursive, "recursive defaults to true when absent")
	assert.Nil(t, cfg.Filter)
	assert.Empty(t, cfg.AuthUsers)
}

func TestParseDocument_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{not json`},
		{"unknown sort style", `{"sort_style": "alphabetical"}`},
		{"unknown sort dir", `{"sort_dir": "sideways"}`},
		{"auth entry without password", `{"auth": ["alice"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.data), "test")
			assert.Error(t, err)
		})
	}
}

func TestParseDocument_InvalidFilterFailsOpen(t *testing.T) {
	// A broken filter regex must not take the directory offline; the
	// document still parses, just without filtering.
	cfg, err := ParseDocument([]byte(`{"filter": "([unclosed"}`), "test")
	require.NoError(t, err)
	assert.Nil(t, cfg.Filter)
}

func TestParseUserList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"two users", "alice:bob", []string{"alice", "bob"}},
		{"single user", "alice", []string{"alice"}},
		{"empty string", "", nil},
		{"empty tokens dropped", "alice::bob:", []string{"alice", "bob"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := ParseUserList(tt.input)
			assert.Len(t, set, len(tt.want))
			for _, user := range tt.want {
				assert.Contains(t, set, user)
			}
		})
	}
}

func TestSortStyleRoundTrip(t *testing.T) {
	for _, style := range []SortStyle{SortByName, SortBySize, SortByDate} {
		parsed, err := ParseSortStyle(style.String())
		require.NoError(t, err)
		assert.Equal(t, style, parsed)
	}
}

func TestSortDirReverse(t *testing.T) {
	assert.Equal(t, Descending, Ascending.Reverse())
	assert.Equal(t, Ascending, Descending.Reverse())
}
