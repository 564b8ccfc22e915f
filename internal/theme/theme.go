package theme

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
)

// importRegex matches @import "file.css"; or @import 'file.css'; or @import url("file.css");
var importRegex = regexp.MustCompile(`@import\s+(?:url\s*\(\s*)?["']([^"']+)["']\s*\)?;?`)

// Theme is a resolved stylesheet.
type Theme struct {
	Name      string // Theme name (without .css extension)
	Path      string // File the theme was read from; empty when bundled
	CSS       string // Stylesheet with imports inlined
	IsBundled bool
}

// ThemesDir returns the path to the user's themes directory.
func ThemesDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "ncenter", "themes"), nil
}

// Resolve finds the theme called name. A file in themesDir overrides a
// bundled theme of the same name; an unknown name resolves to the default
// theme and is reported as an error alongside it.
func Resolve(name, themesDir string) (*Theme, error) {
	if name == "" {
		name = DefaultThemeName
	}

	var userErr error
	if themesDir != "" {
		path := filepath.Join(themesDir, name+".css")
		css, err := os.ReadFile(path)
		switch {
		case err == nil:
			return &Theme{
				Name: name,
				Path: path,
				CSS:  ProcessImports(string(css), themesDir, map[string]bool{path: true}),
			}, nil
		case !os.IsNotExist(err):
			userErr = fmt.Errorf("failed to read theme %s: %w", path, err)
		}
	}

	if css, ok := GetEmbeddedTheme(name); ok {
		return &Theme{Name: name, CSS: ProcessImports(css, "", nil), IsBundled: true}, userErr
	}

	css, _ := GetEmbeddedTheme(DefaultThemeName)
	fallback := &Theme{Name: DefaultThemeName, CSS: ProcessImports(css, "", nil), IsBundled: true}
	if userErr == nil {
		userErr = fmt.Errorf("theme %q not found", name)
	}
	return fallback, userErr
}

// ProcessImports resolves and inlines @import statements in CSS.
// Imports are resolved relative to baseDir, falling back to bundled
// partials and themes. The seen map prevents circular imports.
func ProcessImports(css string, baseDir string, seen map[string]bool) string {
	if seen == nil {
		seen = make(map[string]bool)
	}

	return importRegex.ReplaceAllStringFunc(css, func(match string) string {
		submatch := importRegex.FindStringSubmatch(match)
		if len(submatch) < 2 {
			return match
		}
		importPath := submatch[1]

		fullPath := importPath
		if !filepath.IsAbs(importPath) {
			fullPath = filepath.Join(baseDir, importPath)
		}
		if seen[fullPath] {
			return "/* circular import prevented: " + importPath + " */"
		}
		seen[fullPath] = true

		if baseDir != "" || filepath.IsAbs(importPath) {
			if imported, err := os.ReadFile(fullPath); err == nil {
				return "/* imported: " + importPath + " */\n" +
					ProcessImports(string(imported), filepath.Dir(fullPath), seen)
			}
		}

		base := filepath.Base(importPath)
		if strings.HasPrefix(base, "_") {
			if partial, ok := GetEmbeddedPartial(base); ok {
				return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(partial, "", seen)
			}
		}
		if embedded, ok := GetEmbeddedTheme(strings.TrimSuffix(base, ".css")); ok {
			return "/* imported (embedded): " + importPath + " */\n" + ProcessImports(embedded, "", seen)
		}
		return "/* import failed: " + importPath + " */"
	})
}

// ListThemes returns bundled and user theme names, sorted and deduplicated.
func ListThemes(themesDir string) []string {
	themes := ListEmbeddedThemes()
	if themesDir != "" {
		entries, err := os.ReadDir(themesDir)
		if err == nil {
			for _, entry := range entries {
				name := entry.Name()
				if entry.IsDir() || strings.HasPrefix(name, "_") || filepath.Ext(name) != ".css" {
					continue
				}
				themes = append(themes, strings.TrimSuffix(name, ".css"))
			}
		}
	}
	slices.Sort(themes)
	return slices.Compact(themes)
}
