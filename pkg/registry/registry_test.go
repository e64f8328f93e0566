package registry_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Serenacula/templative/pkg/errors"
	"github.com/Serenacula/templative/pkg/registry"
	"github.com/Serenacula/templative/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsEmptyRegistry(t *testing.T) {
	r, err := registry.Load(filepath.Join(t.TempDir(), "nonexistent.json"))
	require.NoError(t, err)
	assert.Equal(t, registry.CurrentVersion, r.Version)
	assert.Empty(t, r.Templates)
}

func TestSaveThenReloadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "templates.json")
	r := registry.New(path)
	require.NoError(t, r.Add(types.Template{
		Name:      "web",
		Location:  "/path/to/web",
		WriteMode: types.Ptr(types.WriteModeAsk),
		Exclude:   []string{"dist"},
	}))
	require.NoError(t, r.Save())

	loaded, err := registry.Load(path)
	require.NoError(t, err)
	tmpl, err := loaded.Get("web")
	require.NoError(t, err)
	assert.Equal(t, "/path/to/web", tmpl.Location)
	require.NotNil(t, tmpl.WriteMode)
	assert.Equal(t, types.WriteModeAsk, *tmpl.WriteMode)
	assert.Equal(t, []string{"dist"}, tmpl.Exclude)
	assert.Nil(t, tmpl.GitMode)
}

func TestLoadAcceptsComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		// hand edited
		"version": 1,
		"templates": [
			{"name": "cli", "location": "/tmp/cli",},
		],
	}`), 0644))

	r, err := registry.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"cli"}, r.Names())
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	for _, version := range []string{"0", "2", "99"} {
		t.Run(version, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "templates.json")
			require.NoError(t, os.WriteFile(path, []byte(`{"version": `+version+`, "templates": []}`), 0644))

			_, err := registry.Load(path)
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrUnsupportedRegistryVersion))
		})
	}
}

func TestLoadRejectsDuplicateNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 1, "templates": [
		{"name": "a", "location": "/a"},
		{"name": "a", "location": "/b"}
	]}`), 0644))

	_, err := registry.Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrRegistryLoad))
}

func TestAddRejectsDuplicate(t *testing.T) {
	r := registry.New("unused")
	require.NoError(t, r.Add(types.Template{Name: "web", Location: "/a"}))

	err := r.Add(types.Template{Name: "web", Location: "/b"})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateExists))
	assert.Len(t, r.Templates, 1)

	err = r.Add(types.Template{Location: "/c"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestRemove(t *testing.T) {
	r := registry.New("unused")
	require.NoError(t, r.Add(types.Template{Name: "a", Location: "/a"}))
	require.NoError(t, r.Add(types.Template{Name: "b", Location: "/b"}))

	require.NoError(t, r.Remove("a"))
	assert.Equal(t, []string{"b"}, r.Names())

	err := r.Remove("a")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestReplace(t *testing.T) {
	r := registry.New("unused")
	require.NoError(t, r.Add(types.Template{Name: "a", Location: "/a"}))
	require.NoError(t, r.Add(types.Template{Name: "b", Location: "/b"}))

	t.Run("rename_to_free_name", func(t *testing.T) {
		tmpl, err := r.Get("a")
		require.NoError(t, err)
		tmpl.Name = "c"
		require.NoError(t, r.Replace("a", tmpl))
		assert.Equal(t, []string{"b", "c"}, r.Names())
	})

	t.Run("rename_collision", func(t *testing.T) {
		tmpl, err := r.Get("c")
		require.NoError(t, err)
		tmpl.Name = "b"
		err = r.Replace("c", tmpl)
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateExists))
		assert.Equal(t, []string{"b", "c"}, r.Names())
	})

	t.Run("missing", func(t *testing.T) {
		err := r.Replace("zzz", types.Template{Name: "zzz"})
		assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
	})
}

func TestGetReturnsCopy(t *testing.T) {
	r := registry.New("unused")
	require.NoError(t, r.Add(types.Template{Name: "a", Location: "/a", Exclude: []string{"x"}}))

	tmpl, err := r.Get("a")
	require.NoError(t, err)
	tmpl.Exclude[0] = "changed"

	again, err := r.Get("a")
	require.NoError(t, err)
	assert.Equal(t, "x", again.Exclude[0])

	_, err = r.Get("missing")
	assert.True(t, errors.IsErrorCode(err, errors.ErrTemplateNotFound))
}

func TestSortedOrdersByName(t *testing.T) {
	r := registry.New("unused")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, r.Add(types.Template{Name: name, Location: "/" + name}))
	}

	var names []string
	for _, tmpl := range r.Sorted() {
		names = append(names, tmpl.Name)
	}
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}
