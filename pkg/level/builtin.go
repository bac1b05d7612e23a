package level

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed levels
var builtinFS embed.FS

// BuiltinNames lists the levels compiled into the binary.
func BuiltinNames() []string {
	entries, err := fs.ReadDir(builtinFS, "levels")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), path.Ext(e.Name())))
	}
	sort.Strings(names)
	return names
}

// Builtin loads a level compiled into the binary.
func Builtin(name string) (*Level, error) {
	for _, ext := range []string{".json", ".txt"} {
		data, err := builtinFS.ReadFile("levels/" + name + ext)
		if err != nil {
			continue
		}
		l, err := Parse(name, data)
		if err != nil {
			return nil, fmt.Errorf("built-in level %s: %w", name, err)
		}
		return l, nil
	}
	return nil, fmt.Errorf("%w %q (built-in: %s)", ErrUnknownLevel, name, strings.Join(BuiltinNames(), ", "))
}
