package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Loader handles loading levels from a directory.
type Loader struct {
	Root string
}

// NewLoader creates a new level loader.
func NewLoader(root string) *Loader {
	return &Loader{Root: root}
}

// LoadAll recursively scans and loads all level files.
// Invalid files are skipped. Returns levels sorted by ID for deterministic ordering.
func (l *Loader) LoadAll() ([]Level, error) {
	levels, err := loadTree(os.DirFS(l.Root), ".")
	if err != nil {
		return nil, fmt.Errorf("levels: walking directory %s: %w", l.Root, err)
	}
	for i := range levels {
		levels[i].FilePath = filepath.Join(l.Root, filepath.FromSlash(levels[i].FilePath))
	}
	return levels, nil
}

// LoadByID loads a specific level by ID.
func (l *Loader) LoadByID(id string) (Level, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return Level{}, err
	}
	return findByID(levels, id)
}

// ListIDs returns all level IDs in sorted order.
func (l *Loader) ListIDs() ([]string, error) {
	levels, err := l.LoadAll()
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(levels))
	for i, lvl := range levels {
		ids[i] = lvl.ID
	}
	return ids, nil
}

// LoadFile loads a single level file from disk.
func LoadFile(path string) (Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Level{}, fmt.Errorf("levels: reading file %s: %w", path, err)
	}
	lvl, err := parseByExtension(data, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return Level{}, fmt.Errorf("levels: parsing file %s: %w", path, err)
	}
	lvl.FilePath = path
	return lvl, nil
}

// Builtin returns the levels compiled into the binary, sorted by ID.
func Builtin() ([]Level, error) {
	levels, err := loadTree(builtinFS, "builtin")
	if err != nil {
		return nil, fmt.Errorf("levels: builtin: %w", err)
	}
	return levels, nil
}

// BuiltinByID returns one compiled-in level.
func BuiltinByID(id string) (Level, error) {
	levels, err := Builtin()
	if err != nil {
		return Level{}, err
	}
	return findByID(levels, id)
}

func loadTree(fsys fs.FS, root string) ([]Level, error) {
	var levels []Level

	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := strings.ToLower(path.Ext(p))
		if !slices.Contains(FormatExtensions(), ext) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil
		}
		lvl, err := parseByExtension(data, ext)
		if err != nil {
			// Skip invalid files
			return nil
		}
		lvl.FilePath = p
		levels = append(levels, lvl)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Sort by ID for determinism
	sort.Slice(levels, func(i, j int) bool {
		return levels[i].ID < levels[j].ID
	})
	return levels, nil
}

func findByID(levels []Level, id string) (Level, error) {
	for _, lvl := range levels {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return Level{}, fmt.Errorf("levels: level not found: %s", id)
}

// parseByExtension routes to the correct parser.
func parseByExtension(data []byte, ext string) (Level, error) {
	switch ext {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Level{}, fmt.Errorf("unsupported extension: %s", ext)
	}
}
