package theme

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessImports_NoImports(t *testing.T) {
	css := `.notification-popup { color: red; }`
	assert.Equal(t, css, ProcessImports(css, "", nil))
}

func TestProcessImports_FileImport(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_custom.css"), []byte(`:root { --custom: #ff0000; }`), 0644))

	result := ProcessImports(`@import "_custom.css";
.notification-popup { color: var(--custom); }`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _custom.css */")
	assert.Contains(t, result, "--custom: #ff0000")
	assert.Contains(t, result, ".notification-popup")
}

func TestProcessImports_NestedImports(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_grandchild.css"), []byte(`.grandchild { color: blue; }`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "_child.css"), []byte(`@import "_grandchild.css";
.child { color: green; }`), 0644))

	result := ProcessImports(`@import url("_child.css");
.main { color: red; }`, tmpDir, nil)

	assert.Contains(t, result, "/* imported: _child.css */")
	assert.Contains(t, result, "/* imported: _grandchild.css */")
	assert.Contains(t, result, ".grandchild")
	assert.Contains(t, result, ".main")
}

func TestProcessImports_CircularPrevention(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.css"), []byte(`@import "b.css"; .a {}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "b.css"), []byte(`@import "a.css"; .b {}`), 0644))

	result := ProcessImports(`@import "a.css";`, tmpDir, nil)

	assert.Contains(t, result, ".a {}")
	assert.Contains(t, result, ".b {}")
	assert.Contains(t, result, "circular import prevented: a.css")
}

func TestProcessImports_EmbeddedFallback(t *testing.T) {
	result := ProcessImports(`@import "_base.css";`, t.TempDir(), nil)
	assert.Contains(t, result, "/* imported (embedded): _base.css */")
	assert.Contains(t, result, ".notification-summary")

	result = ProcessImports(`@import "default.css";`, "", nil)
	assert.Contains(t, result, "@window_bg_color")
	assert.Contains(t, result, ".notification-summary")
}

func TestProcessImports_MissingFile(t *testing.T) {
	result := ProcessImports(`@import "nope.css";`, t.TempDir(), nil)
	assert.Equal(t, "/* import failed: nope.css */", result)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.css"), []byte(`@import "_base.css"; .mine {}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "minimal.css"), []byte(`.override {}`), 0644))

	tests := []struct {
		name      string
		request   string
		wantName  string
		wantCSS   string
		bundled   bool
		wantError bool
	}{
		{"user theme", "mine", "mine", ".mine {}", false, false},
		{"user overrides bundled", "minimal", "minimal", ".override {}", false, false},
		{"bundled", "default", "default", "@window_bg_color", true, false},
		{"empty is default", "", "default", "@window_bg_color", true, false},
		{"unknown falls back", "missing", "default", "@window_bg_color", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.request, dir)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantName, got.Name)
			assert.Equal(t, tt.bundled, got.IsBundled)
			assert.Contains(t, got.CSS, tt.wantCSS)
		})
	}
}

func TestResolve_UserThemeImportsBundledPartial(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.css"), []byte(`@import "_base.css"; .mine {}`), 0644))

	got, err := Resolve("mine", dir)
	require.NoError(t, err)
	assert.Contains(t, got.CSS, ".notification-summary")
	assert.Equal(t, filepath.Join(dir, "mine.css"), got.Path)
}

func TestListThemes(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"mine.css", "minimal.css", "_partial.css", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0644))
	}

	assert.Equal(t, []string{"default", "mine", "minimal"}, ListThemes(dir))
	assert.Equal(t, []string{"default", "minimal"}, ListThemes(""))
}

func TestThemesDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	dir, err := ThemesDir()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/cfg/ncenter/themes", dir)
}
